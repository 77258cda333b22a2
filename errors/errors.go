package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now(),
	}
}

// Workspace Errors
func ErrConfirmationRequired(action string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_WORKSPACE_CONFIRMATION_REQUIRED,
		Message:   fmt.Sprintf("Confirmation required to %s", action),
		Timestamp: time.Now(),
	}.WithDetail("hint", "repeat the request with confirm=true")
}

func ErrPersistenceFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_WORKSPACE_PERSISTENCE_FAILED,
		Message:   fmt.Sprintf("Failed to %s", operation),
		Timestamp: time.Now(),
	}.WithDetail("retryable", "true")
}

func ErrPartialPublish(meetingID string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusMultiStatus,
		Code:      ErrorCode_WORKSPACE_PARTIAL_PUBLISH,
		Message:   "Meeting published but the draft could not be cleared",
		Timestamp: time.Now(),
	}.WithDetail("meeting_id", meetingID)
}

func ErrUnknownSection(key string) AppError {
	err := AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_WORKSPACE_UNKNOWN_SECTION,
		Message:   "Unknown section",
		Timestamp: time.Now(),
	}
	if key != "" {
		err = err.WithDetail("section", key)
	}
	return err
}

func ErrNothingSelected() AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_WORKSPACE_NOTHING_SELECTED,
		Message:   "No meeting is selected",
		Timestamp: time.Now(),
	}
}

func ErrDraftNotDeletable() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_WORKSPACE_DRAFT_NOT_DELETABLE,
		Message:   "The draft cannot be deleted as a published meeting",
		Timestamp: time.Now(),
	}
}

func ErrDraftSelected() AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_WORKSPACE_DRAFT_SELECTED,
		Message:   "Select a published meeting before deleting it",
		Timestamp: time.Now(),
	}
}

// Generation Errors
func ErrGenerationFailed(kind string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusServiceUnavailable,
		Code:      ErrorCode_GENERATION_FAILED,
		Message:   "Could not generate content. Please try again.",
		Timestamp: time.Now(),
	}.WithDetail("kind", kind).WithDetail("retryable", "true")
}

func ErrGenerationUnavailable() AppError {
	return AppError{
		HTTPCode:  http.StatusServiceUnavailable,
		Code:      ErrorCode_GENERATION_UNAVAILABLE,
		Message:   "Content generation is not configured",
		Timestamp: time.Now(),
	}
}

// Export Errors
func ErrExportFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_EXPORT_FAILED,
		Message:   "Failed to export document",
		Timestamp: time.Now(),
	}
}
