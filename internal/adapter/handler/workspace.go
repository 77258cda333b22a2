package handler

import (
	stdErrors "errors"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	dto "github.com/johnquangdev/meeting-notes/internal/adapter/dto/workspace"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	workspaceUsecase "github.com/johnquangdev/meeting-notes/internal/usecase/workspace"
)

// Workspace handles the meeting history and draft lifecycle
type Workspace struct {
	store  *workspaceUsecase.Store
	logger *zap.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(store *workspaceUsecase.Store, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{store: store, logger: logger}
}

// GetWorkspace handles GET /v1/workspace
func (h *Workspace) GetWorkspace(c echo.Context) error {
	return h.respondState(c)
}

// Select handles POST /v1/workspace/select
func (h *Workspace) Select(c echo.Context) error {
	var req dto.SelectRequest
	if err := bindRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	var err error
	if req.Draft {
		err = h.store.SelectDraft()
	} else {
		err = h.store.SelectMeeting(req.MeetingID)
	}
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, nil))
	}
	return h.respondState(c)
}

// StartDraft handles POST /v1/draft
func (h *Workspace) StartDraft(c echo.Context) error {
	h.store.StartOrResumeDraft()
	return h.respondState(c)
}

// EditDraft handles POST /v1/draft/edit
func (h *Workspace) EditDraft(c echo.Context) error {
	h.store.Edit()
	return h.respondState(c)
}

// EditSection handles PUT /v1/draft/sections/:key
func (h *Workspace) EditSection(c echo.Context) error {
	var req dto.EditSectionRequest
	if err := bindRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	key := entities.SectionKey(req.Key)
	if err := h.store.EditField(key, req.Text); err != nil {
		return HandleError(h.logger, c, toAppError(err, nil))
	}
	return h.respondState(c)
}

// EditDate handles PUT /v1/draft/date
func (h *Workspace) EditDate(c echo.Context) error {
	var req dto.EditDateRequest
	if err := bindRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid date").WithDetail("date", req.Date))
	}
	h.store.EditDate(date)
	return h.respondState(c)
}

// SaveDraft handles POST /v1/draft/save
func (h *Workspace) SaveDraft(c echo.Context) error {
	if _, err := h.store.SaveDraft(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, toAppError(err, persistence("save draft")))
	}
	return h.respondState(c)
}

// CancelEdit handles POST /v1/draft/cancel
func (h *Workspace) CancelEdit(c echo.Context) error {
	h.store.CancelEdit()
	return h.respondState(c)
}

// PublishDraft handles POST /v1/draft/publish
func (h *Workspace) PublishDraft(c echo.Context) error {
	published, err := h.store.PublishDraft(c.Request().Context())
	switch {
	case err != nil && stdErrors.Is(err, entities.ErrPartialPublish) && published != nil:
		appErr := errors.ErrPartialPublish(published.ID, err)
		h.logger.Warn("Publish left a stale draft", zap.String("meeting_id", published.ID), zap.Error(err))
		return handleStatus(h.logger, c, appErr.HTTPCode, dto.PublishResponse{
			Meeting: presenter.ToMeetingResponse(published),
			Warning: appErr.Message,
		})
	case err != nil:
		return HandleError(h.logger, c, toAppError(err, persistence("publish draft")))
	case published == nil:
		return HandleError(h.logger, c, errors.ErrInvalidArgument("There is no saved draft to publish"))
	}

	return HandleSuccess(h.logger, c, dto.PublishResponse{Meeting: presenter.ToMeetingResponse(published)})
}

// DeleteMeeting handles DELETE /v1/meetings/:id?confirm=true
func (h *Workspace) DeleteMeeting(c echo.Context) error {
	var req dto.DeleteMeetingRequest
	if err := bindRequest(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if !req.Confirm {
		return HandleError(h.logger, c, errors.ErrConfirmationRequired("delete meeting "+req.ID))
	}

	if err := h.store.DeleteMeeting(c.Request().Context(), req.ID); err != nil {
		return HandleError(h.logger, c, toAppError(err, persistence("delete meeting")))
	}
	return h.respondState(c)
}

func (h *Workspace) respondState(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToWorkspaceResponse(h.store.Snapshot()))
}

// bindRequest binds and validates req, returning an AppError on bad input
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidArgument("Invalid request").WithDetail("reason", bindMessage(err))
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidArgument("Validation failed").WithDetail("reason", err.Error())
	}
	return nil
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if stdErrors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}

// parseDate accepts RFC 3339 timestamps and plain days, which read as UTC midnight
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Truncate(time.Millisecond), nil
	}
	return time.Parse("2006-01-02", raw)
}
