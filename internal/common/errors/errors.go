// Package errors provides standardized error handling for the webhook
// ingestion pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Request/payload errors (client's fault, HTTP 400)
	ErrCodeEmptyBody        ErrorCode = "EMPTY_BODY"
	ErrCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// SharePoint/Graph integration errors (HTTP 500)
	ErrCodeGraphAuthFailed  ErrorCode = "GRAPH_AUTH_FAILED"
	ErrCodeSiteNotFound     ErrorCode = "SITE_NOT_FOUND"
	ErrCodeListNotFound     ErrorCode = "LIST_NOT_FOUND"
	ErrCodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	ErrCodeItemCreateFailed ErrorCode = "ITEM_CREATE_FAILED"

	// Anything unanticipated
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyBodyError creates a non-retryable error for an empty request body.
func NewEmptyBodyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyBody,
		Message:   "Empty request body",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidJSONError creates a non-retryable error for a malformed JSON body.
func NewInvalidJSONError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidJSON,
		Message:   "Invalid JSON format",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable error for missing or invalid
// required fields.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid form data - missing required fields",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGraphAuthError creates a retryable error for bearer token acquisition
// failures. Token values must never appear in Details.
func NewGraphAuthError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGraphAuthFailed,
		Message:   "Failed to authenticate with Microsoft Graph",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSiteNotFoundError creates a non-retryable error for a site lookup miss.
func NewSiteNotFoundError(siteURL, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSiteNotFound,
		Message:   fmt.Sprintf("SharePoint site not found for '%s'", siteURL),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewListNotFoundError creates a non-retryable error whose details enumerate
// the list display names that were found, as a diagnostic aid.
func NewListNotFoundError(listName string, available []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeListNotFound,
		Message:   fmt.Sprintf("List '%s' not found", listName),
		Details:   fmt.Sprintf("Available lists: %s", strings.Join(available, ", ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResolutionError creates a retryable error wrapping a transport failure
// during site/list resolution.
func NewResolutionError(step string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResolutionFailed,
		Message:   fmt.Sprintf("SharePoint resolution failed during %s", step),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewItemCreateFailedError creates a retryable error surfacing the remote
// response body (or transport error message) from a failed item create.
func NewItemCreateFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeItemCreateFailed,
		Message:   "Failed to add contact to SharePoint list",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates a retryable error for anything unanticipated.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError returns err as a *StandardError, converting unknown error
// types to an INTERNAL_ERROR. Wrapped StandardErrors are unwrapped.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the HTTP status the request handler
// responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeEmptyBody, ErrCodeInvalidJSON, ErrCodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the code is the caller's fault.
func IsClientError(code ErrorCode) bool {
	return HTTPStatus(code) == http.StatusBadRequest
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "BODY") || strings.Contains(codeStr, "JSON") || strings.Contains(codeStr, "VALIDATION"):
		return "REQUEST"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	case strings.Contains(codeStr, "SITE") || strings.Contains(codeStr, "LIST") || strings.Contains(codeStr, "RESOLUTION"):
		return "RESOLUTION"
	case strings.Contains(codeStr, "ITEM"):
		return "WRITE"
	default:
		return "OTHER"
	}
}
