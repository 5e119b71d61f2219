package messages

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyContent is returned when flattening a content with no text or no blocks.
	ErrEmptyContent = errors.New("content is empty")
	// ErrNotFoundTargetBlock is returned when no block of the requested kind exists.
	ErrNotFoundTargetBlock = errors.New("target block not found in content")
	// ErrXMLNotFound is returned when text carries no function_calls span.
	ErrXMLNotFound = errors.New("function_calls xml not found")
	// ErrMediaTypeNotSupported is wrapped by ImageMediaTypeParseError for unknown extensions.
	ErrMediaTypeNotSupported = errors.New("image media type not supported")
	// ErrExtensionNotFound is wrapped by ImageMediaTypeParseError for paths without an extension.
	ErrExtensionNotFound = errors.New("file extension not found")
	// ErrStreamOptionMismatch is returned when a one-shot call receives a streaming request.
	ErrStreamOptionMismatch = errors.New("stream option mismatch: expected return-once")
)

// ValidationError reports a value rejected by a constructor.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func newValidationError(field string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// ImageMediaTypeParseError is returned when a path cannot be mapped to an image media type.
type ImageMediaTypeParseError struct {
	Path      string
	Extension string
	Err       error
}

func (e *ImageMediaTypeParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Extension != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Extension)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Path)
}

func (e *ImageMediaTypeParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FunctionCallsDecodeError wraps a malformed function_calls document.
type FunctionCallsDecodeError struct {
	Err error
}

func (e *FunctionCallsDecodeError) Error() string {
	if e == nil || e.Err == nil {
		return "decode function calls"
	}
	return "decode function calls: " + e.Err.Error()
}

func (e *FunctionCallsDecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
