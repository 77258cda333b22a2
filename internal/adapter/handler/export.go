package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	dto "github.com/johnquangdev/meeting-notes/internal/adapter/dto/workspace"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/usecase/export"
	workspaceUsecase "github.com/johnquangdev/meeting-notes/internal/usecase/workspace"
)

const textContentType = "text/plain; charset=utf-8"

// Export handles plain-text downloads of generated content and meetings
type Export struct {
	service *export.Service
	store   *workspaceUsecase.Store
	logger  *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *export.Service, store *workspaceUsecase.Store, logger *zap.Logger) *Export {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Export{service: service, store: store, logger: logger}
}

// ExportText handles POST /v1/exports
func (h *Export) ExportText(c echo.Context) error {
	var req dto.ExportRequest
	if err := bindRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	content := req.Content
	if req.Title != "" {
		content = req.Title + "\n\n" + content
	}
	return h.deliver(c, h.service.Text(content))
}

// ExportMeeting handles GET /v1/meetings/:id/export
func (h *Export) ExportMeeting(c echo.Context) error {
	id := c.Param("id")
	meeting := findMeeting(h.store.Snapshot(), id)
	if meeting == nil {
		return HandleError(h.logger, c, toAppError(entities.ErrNotFound, nil))
	}
	return h.deliver(c, h.service.Meeting(meeting))
}

// deliver uploads doc when object storage is configured, and otherwise
// streams it back as an attachment.
func (h *Export) deliver(c echo.Context, doc export.Document) error {
	if !h.service.StorageEnabled() {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		return c.Blob(http.StatusOK, textContentType, []byte(doc.Content))
	}

	link, err := h.service.Upload(c.Request().Context(), doc)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrExportFailed(err))
	}
	return HandleSuccess(h.logger, c, dto.ExportResponse{
		Filename:  doc.Filename,
		URL:       link,
		ExpiresAt: time.Now().Add(export.LinkExpiry).UTC(),
	})
}

func findMeeting(state workspaceUsecase.State, id string) *entities.Meeting {
	if state.Draft != nil && id == entities.DraftSlotID {
		return state.Draft
	}
	for _, m := range state.Meetings {
		if m.ID == id {
			return m
		}
	}
	return nil
}
