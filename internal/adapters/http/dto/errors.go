// Package dto holds the JSON request and response shapes of the API and the
// helpers that turn errors into the shared error envelope.
package dto

import "net/http"

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes the failure. Details maps form fields to messages
// for validation errors.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Machine-readable error codes.
const (
	ErrorCodeBadRequest       = "BAD_REQUEST"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeUnauthorized     = "UNAUTHORIZED"
	ErrorCodeForbidden        = "FORBIDDEN"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout          = "TIMEOUT"
)

var statusByCode = map[string]int{
	ErrorCodeBadRequest:       http.StatusBadRequest,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeUnauthorized:     http.StatusUnauthorized,
	ErrorCodeForbidden:        http.StatusForbidden,
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrorCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	ErrorCodeInternal:         http.StatusInternalServerError,
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeTimeout:          http.StatusGatewayTimeout,
}

// NewErrorResponse builds an envelope without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return NewErrorResponseWithDetails(code, message, nil)
}

// NewErrorResponseWithDetails builds an envelope with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID and returns e.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the status for code. Unknown codes map to 500.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
