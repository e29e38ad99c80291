package domain

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrorKind is the closed set of failure categories a request can end in.
type ErrorKind string

const (
	KindAPIKeyInvalid      ErrorKind = "API_KEY_INVALID"
	KindQuotaExceeded      ErrorKind = "QUOTA_EXCEEDED"
	KindRateLimitExceeded  ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindTimeout            ErrorKind = "TIMEOUT"
	KindContentFiltered    ErrorKind = "CONTENT_FILTERED"
	KindNetworkError       ErrorKind = "NETWORK_ERROR"
	KindTokenLimitExceeded ErrorKind = "TOKEN_LIMIT_EXCEEDED"
	KindInvalidRequest     ErrorKind = "INVALID_REQUEST"
	KindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	KindUnknown            ErrorKind = "UNKNOWN"
)

// retryableByKind is the fixed retryability table. Retryability is derived
// solely from the kind, never set per instance. Quota exhaustion is treated
// as terminal for the current run.
var retryableByKind = map[ErrorKind]bool{
	KindAPIKeyInvalid:      false,
	KindQuotaExceeded:      false,
	KindRateLimitExceeded:  true,
	KindTimeout:            true,
	KindContentFiltered:    false,
	KindNetworkError:       true,
	KindTokenLimitExceeded: false,
	KindInvalidRequest:     false,
	KindServiceUnavailable: true,
	KindUnknown:            false,
}

// userMessages maps each kind to a caller-facing message, independent of the
// underlying transport message so internals do not leak.
var userMessages = map[ErrorKind]string{
	KindAPIKeyInvalid:      "the configured API key was rejected",
	KindQuotaExceeded:      "the API quota is exhausted",
	KindRateLimitExceeded:  "the request was rate limited",
	KindTimeout:            "the request timed out",
	KindContentFiltered:    "the response was blocked or empty",
	KindNetworkError:       "a network error interrupted the request",
	KindTokenLimitExceeded: "the prompt exceeds the token limit",
	KindInvalidRequest:     "the request is invalid",
	KindServiceUnavailable: "the service is temporarily unavailable",
	KindUnknown:            "the request failed for an unknown reason",
}

// Error is the single typed error surfaced by this package.
type Error struct {
	Kind      ErrorKind
	Message   string
	Retryable bool
	Cause     error
}

// NewError creates a typed error. Retryable comes from the kind table.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Retryable: retryableByKind[kind],
		Cause:     cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError carries an HTTP status code and body message from a transport.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// statusCoder matches any error that exposes an HTTP-like status code.
type statusCoder interface {
	StatusCode() int
}

// Classify maps an arbitrary failure to an error kind. It is pure and total:
// status-based rules run before message rules, quota before generic rate
// limit, timeout before generic network errors, and anything unmatched falls
// back to KindUnknown.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())

	var sc statusCoder
	if errors.As(err, &sc) {
		if kind, ok := classifyStatus(sc.StatusCode(), msg); ok {
			return kind
		}
	}

	return classifyMessage(msg)
}

func classifyStatus(code int, msg string) (ErrorKind, bool) {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAPIKeyInvalid, true
	case code == http.StatusTooManyRequests:
		// 429 covers both hard quota exhaustion and transient rate limiting;
		// the body message disambiguates.
		if strings.Contains(msg, "quota") {
			return KindQuotaExceeded, true
		}
		return KindRateLimitExceeded, true
	case code == http.StatusRequestTimeout:
		return KindTimeout, true
	case code == http.StatusBadRequest:
		if strings.Contains(msg, "token") {
			return KindTokenLimitExceeded, true
		}
		return KindInvalidRequest, true
	case code >= 500:
		return KindServiceUnavailable, true
	}
	return KindUnknown, false
}

func classifyMessage(msg string) ErrorKind {
	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "permission denied"):
		return KindAPIKeyInvalid
	case strings.Contains(msg, "quota"):
		return KindQuotaExceeded
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return KindRateLimitExceeded
	case strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(msg, "blocked") ||
		strings.Contains(msg, "safety") ||
		strings.Contains(msg, "filtered"):
		return KindContentFiltered
	case strings.Contains(msg, "token limit") ||
		strings.Contains(msg, "token count") ||
		strings.Contains(msg, "context length"):
		return KindTokenLimitExceeded
	case strings.Contains(msg, "invalid request") ||
		strings.Contains(msg, "bad request") ||
		strings.Contains(msg, "malformed"):
		return KindInvalidRequest
	case strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "internal server"):
		return KindServiceUnavailable
	case strings.Contains(msg, "connection") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "reset by peer") ||
		strings.Contains(msg, "eof"):
		return KindNetworkError
	}
	return KindUnknown
}

// IsRetryable reports whether a failure is worth retrying. The verdict is a
// pure function of the classified kind.
func IsRetryable(err error) bool {
	return retryableByKind[Classify(err)]
}

// UserMessage returns the caller-facing message for a kind.
func UserMessage(kind ErrorKind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[KindUnknown]
}

// AsError returns err as a typed *Error, preserving it when already typed
// and classifying and wrapping it otherwise.
func AsError(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	kind := Classify(err)
	return NewError(kind, UserMessage(kind), err)
}
