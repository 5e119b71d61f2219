package messages

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// APIErrorType is the error.type discriminator of an API error payload.
type APIErrorType string

const (
	APIErrorInvalidRequest APIErrorType = "invalid_request_error"
	APIErrorAuthentication APIErrorType = "authentication_error"
	APIErrorPermission     APIErrorType = "permission_error"
	APIErrorNotFound       APIErrorType = "not_found_error"
	APIErrorRateLimit      APIErrorType = "rate_limit_error"
	APIErrorAPI            APIErrorType = "api_error"
	APIErrorOverloaded     APIErrorType = "overloaded_error"
)

// StatusCode returns the HTTP status the API documents for the error type.
func (t APIErrorType) StatusCode() int {
	switch t {
	case APIErrorInvalidRequest:
		return 400
	case APIErrorAuthentication:
		return 401
	case APIErrorPermission:
		return 403
	case APIErrorNotFound:
		return 404
	case APIErrorRateLimit:
		return 429
	case APIErrorAPI:
		return 500
	case APIErrorOverloaded:
		return 529
	default:
		return 0
	}
}

// Retryable reports whether a request failing with this type may succeed later.
func (t APIErrorType) Retryable() bool {
	return t == APIErrorRateLimit || t == APIErrorAPI || t == APIErrorOverloaded
}

// APIError is the error object of an API error payload.
type APIError struct {
	Type    APIErrorType `json:"type"`
	Message string       `json:"message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponseBody is the envelope the API returns on failure.
type ErrorResponseBody struct {
	Type  string   `json:"type"`
	Error APIError `json:"error"`
}

// ErrorKind classifies a failed messages call.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindEncode         ErrorKind = "encode"
	KindTransport      ErrorKind = "transport"
	KindAPI            ErrorKind = "api"
	KindStatus         ErrorKind = "status"
	KindDecode         ErrorKind = "decode"
)

// MessagesError is returned by every failing messages call.
type MessagesError struct {
	Kind       ErrorKind
	StatusCode int
	API        *APIError
	// Body holds the raw response for status and decode failures.
	Body []byte
	Err  error
}

func (e *MessagesError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindAPI:
		if e.API != nil {
			return fmt.Sprintf("messages api error (status %d): %s", e.StatusCode, e.API.Error())
		}
		return fmt.Sprintf("messages api error (status %d)", e.StatusCode)
	case KindStatus:
		return fmt.Sprintf("messages request failed with status %d: %s", e.StatusCode, truncate(string(e.Body), 512))
	default:
		if e.Err == nil {
			return fmt.Sprintf("messages %s error", e.Kind)
		}
		return fmt.Sprintf("messages %s error: %v", e.Kind, e.Err)
	}
}

func (e *MessagesError) Unwrap() error {
	if e == nil {
		return nil
	}
	if e.Err != nil {
		return e.Err
	}
	if e.API != nil {
		return e.API
	}
	return nil
}

// IsKind reports whether err is a MessagesError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var msgErr *MessagesError
	return errors.As(err, &msgErr) && msgErr.Kind == kind
}

// APIErrorTypeOf returns the API error type carried by err, if any.
func APIErrorTypeOf(err error) (APIErrorType, bool) {
	var msgErr *MessagesError
	if !errors.As(err, &msgErr) || msgErr.API == nil {
		return "", false
	}
	return msgErr.API.Type, true
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
