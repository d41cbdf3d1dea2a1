package errors

import (
	"fmt"
	"net/http"

	apperrors "recorder-whisper/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
	KindPayloadTooLarge    ErrorKind = "payload_too_large"

	// Pipeline failures
	KindConversion    ErrorKind = "conversion"
	KindTranscription ErrorKind = "transcription"
	KindFetch         ErrorKind = "fetch"
	KindIO            ErrorKind = "io"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Messages  []string          `json:"messages,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConversion:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindFetch, KindTranscription:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMessages attaches the status lines of a failed run.
func (e *APIError) WithMessages(messages []string) *APIError {
	e.Messages = messages
	return e
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewPayloadTooLargeError reports an upload over the size limit.
func NewPayloadTooLargeError(limitMB int64) *APIError {
	return &APIError{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("upload exceeds %d MB", limitMB),
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromPipelineError maps a pipeline failure to its API kind. Config errors
// are the caller's fault and become validation errors.
func FromPipelineError(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	var kind ErrorKind
	switch apperrors.KindOf(err) {
	case apperrors.KindConversion:
		kind = KindConversion
	case apperrors.KindTranscription:
		kind = KindTranscription
	case apperrors.KindFetch:
		kind = KindFetch
	case apperrors.KindIO:
		kind = KindIO
	case apperrors.KindConfig:
		kind = KindValidation
	default:
		kind = KindInternal
	}
	return &APIError{Kind: kind, Message: err.Error()}
}
