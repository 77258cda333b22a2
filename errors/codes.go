package errors

// ErrorCode is the application error code carried in error responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_UNAVAILABLE      ErrorCode = 1003

	// Workspace
	ErrorCode_WORKSPACE_CONFIRMATION_REQUIRED ErrorCode = 2000
	ErrorCode_WORKSPACE_PERSISTENCE_FAILED    ErrorCode = 2001
	ErrorCode_WORKSPACE_PARTIAL_PUBLISH       ErrorCode = 2002
	ErrorCode_WORKSPACE_UNKNOWN_SECTION       ErrorCode = 2003
	ErrorCode_WORKSPACE_NOTHING_SELECTED      ErrorCode = 2004
	ErrorCode_WORKSPACE_DRAFT_NOT_DELETABLE   ErrorCode = 2005
	ErrorCode_WORKSPACE_DRAFT_SELECTED        ErrorCode = 2006

	// Generation
	ErrorCode_GENERATION_FAILED      ErrorCode = 3000
	ErrorCode_GENERATION_UNAVAILABLE ErrorCode = 3001

	// Export
	ErrorCode_EXPORT_FAILED ErrorCode = 4000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_UNAVAILABLE:                     "UNAVAILABLE",
	ErrorCode_WORKSPACE_CONFIRMATION_REQUIRED: "WORKSPACE_CONFIRMATION_REQUIRED",
	ErrorCode_WORKSPACE_PERSISTENCE_FAILED:    "WORKSPACE_PERSISTENCE_FAILED",
	ErrorCode_WORKSPACE_PARTIAL_PUBLISH:       "WORKSPACE_PARTIAL_PUBLISH",
	ErrorCode_WORKSPACE_UNKNOWN_SECTION:       "WORKSPACE_UNKNOWN_SECTION",
	ErrorCode_WORKSPACE_NOTHING_SELECTED:      "WORKSPACE_NOTHING_SELECTED",
	ErrorCode_WORKSPACE_DRAFT_NOT_DELETABLE:   "WORKSPACE_DRAFT_NOT_DELETABLE",
	ErrorCode_WORKSPACE_DRAFT_SELECTED:        "WORKSPACE_DRAFT_SELECTED",
	ErrorCode_GENERATION_FAILED:               "GENERATION_FAILED",
	ErrorCode_GENERATION_UNAVAILABLE:          "GENERATION_UNAVAILABLE",
	ErrorCode_EXPORT_FAILED:                   "EXPORT_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
