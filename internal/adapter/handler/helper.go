package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/usecase/generation"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return handleStatus(logger, c, http.StatusOK, data)
}

func handleStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// toAppError maps domain and use case errors onto the application taxonomy.
// Errors it does not recognize go through fallback.
func toAppError(err error, fallback func(error) errors.AppError) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var genErr *generation.Error
	switch {
	case stdErrors.As(err, &genErr):
		if !genErr.Retryable {
			return errors.ErrGenerationFailed(string(genErr.Kind), err).WithDetail("retryable", "false")
		}
		return errors.ErrGenerationFailed(string(genErr.Kind), err)
	case stdErrors.Is(err, entities.ErrNotFound):
		return errors.ErrNotFound("Meeting")
	case stdErrors.Is(err, entities.ErrUnknownSection):
		return errors.ErrUnknownSection("")
	case stdErrors.Is(err, entities.ErrInvalidMeetingID):
		return errors.ErrInvalidArgument("Invalid meeting id")
	case stdErrors.Is(err, entities.ErrDraftNotDeletable):
		return errors.ErrDraftNotDeletable()
	case stdErrors.Is(err, entities.ErrDraftSelected):
		return errors.ErrDraftSelected()
	case stdErrors.Is(err, entities.ErrNothingSelected):
		return errors.ErrNothingSelected()
	case stdErrors.Is(err, context.Canceled), stdErrors.Is(err, context.DeadlineExceeded):
		return errors.ErrInternal(err)
	}

	if fallback == nil {
		return errors.ErrInternal(err)
	}
	return fallback(err)
}

// persistence returns a fallback that reports err as a failed storage operation
func persistence(operation string) func(error) errors.AppError {
	return func(err error) errors.AppError {
		return errors.ErrPersistenceFailed(operation, err)
	}
}
