package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies where in the pipeline an error happened.
type Kind string

const (
	KindUnknown       Kind = ""
	KindConversion    Kind = "conversion"
	KindTranscription Kind = "transcription"
	KindFetch         Kind = "fetch"
	KindIO            Kind = "io"
	KindConfig        Kind = "config"
)

// Common error values
var (
	ErrMissingAPIKey    = New("API key is required")
	ErrInvalidConfig    = New("invalid configuration")
	ErrProviderNotFound = New("provider not found")
	ErrFileNotFound     = New("file not found")
	ErrNoSource         = New("no audio source provided")
)

// Error represents a standardized error
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    KindOf(err),
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    KindOf(err),
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithKind returns an error of the given kind. cause may be nil.
func WithKind(kind Kind, cause error, message string) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Conversion reports a failed encoder invocation.
func Conversion(cause error, format string, args ...interface{}) *Error {
	return WithKind(KindConversion, cause, fmt.Sprintf(format, args...))
}

// Transcription reports a failed model invocation.
func Transcription(cause error, format string, args ...interface{}) *Error {
	return WithKind(KindTranscription, cause, fmt.Sprintf(format, args...))
}

// Fetch reports a failed recording download.
func Fetch(cause error, format string, args ...interface{}) *Error {
	return WithKind(KindFetch, cause, fmt.Sprintf(format, args...))
}

// IO reports a failed temp-file write or remove.
func IO(cause error, format string, args ...interface{}) *Error {
	return WithKind(KindIO, cause, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return KindUnknown
		}
		if e.kind != KindUnknown {
			return e.kind
		}
		err = e.cause
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return WithKind(KindConfig, nil, fmt.Sprintf("%s is required", field))
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return WithKind(KindConfig, nil, fmt.Sprintf("%s is invalid: %s", field, reason))
}
