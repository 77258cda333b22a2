package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	dto "github.com/johnquangdev/meeting-notes/internal/adapter/dto/workspace"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/usecase/generation"
	workspaceUsecase "github.com/johnquangdev/meeting-notes/internal/usecase/workspace"
)

const prefillFallbackWarning = "Could not prefill from the last meeting; opened the regular draft instead"

// AI handles content generation for the current selection
type AI struct {
	assistant *workspaceUsecase.Assistant
	logger    *zap.Logger
}

// NewAIHandler creates a new AI handler. A nil assistant answers every
// request with ErrGenerationUnavailable.
func NewAIHandler(assistant *workspaceUsecase.Assistant, logger *zap.Logger) *AI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AI{assistant: assistant, logger: logger}
}

// Summarize handles POST /v1/ai/summary
func (h *AI) Summarize(c echo.Context) error {
	if h.assistant == nil {
		return HandleError(h.logger, c, errors.ErrGenerationUnavailable())
	}

	text, err := h.assistant.Summarize(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, nil))
	}
	return HandleSuccess(h.logger, c, dto.GenerationResponse{Kind: string(generation.KindSummarize), Text: text})
}

// SuggestActions handles POST /v1/ai/actions
func (h *AI) SuggestActions(c echo.Context) error {
	if h.assistant == nil {
		return HandleError(h.logger, c, errors.ErrGenerationUnavailable())
	}

	text, err := h.assistant.SuggestActions(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, nil))
	}
	return HandleSuccess(h.logger, c, dto.GenerationResponse{Kind: string(generation.KindSuggestActions), Text: text})
}

// Prefill handles POST /v1/ai/prefill. Generation failures are not errors
// here: the regular draft opens and the response carries a warning.
func (h *AI) Prefill(c echo.Context) error {
	if h.assistant == nil {
		return HandleError(h.logger, c, errors.ErrGenerationUnavailable())
	}

	res := h.assistant.PrefillNextDraft(c.Request().Context())
	resp := dto.PrefillResponse{
		Draft:     presenter.ToMeetingResponse(res.Draft),
		Prefilled: res.Prefilled,
	}
	if res.Fallback != nil {
		resp.Warning = prefillFallbackWarning
	}
	return HandleSuccess(h.logger, c, resp)
}
