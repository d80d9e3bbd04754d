package chat

import (
	"context"
	"errors"
)

// Error codes surfaced by this package. Providers may add their own codes
// taken from the remote error envelope.
const (
	CodeInvalidRequest       = "invalid_request"
	CodeAuthenticationFailed = "authentication_failed"
	CodeAccessDenied         = "access_denied"
	CodeNotFound             = "not_found"
	CodeRateLimitExceeded    = "rate_limit_exceeded"
	CodeInternalError        = "internal_error"
	CodeDecodeError          = "decode_error"
	CodeNetworkError         = "network_error"
	CodeTimeout              = "timeout"
	CodeCanceled             = "canceled"
)

type Error struct {
	Provider  string
	Code      string
	Status    int
	Message   string
	Retryable bool
	Cause     error

	// ProviderErrorJSON preserves the raw provider error body when one was
	// returned.
	ProviderErrorJSON string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Provider != "" && e.Message != "" {
		return e.Provider + ": " + e.Message
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Provider != "" {
		return e.Provider + ": error"
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Cause }

func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Status == 429 || e.Code == CodeRateLimitExceeded)
}

func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Status == 401 || e.Status == 403 ||
		e.Code == CodeAuthenticationFailed || e.Code == CodeAccessDenied)
}

func IsTimeout(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == CodeTimeout {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func IsCanceled(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == CodeCanceled {
		return true
	}
	return errors.Is(err, context.Canceled)
}
