package chat

import (
	"context"
	"errors"

	"github.com/bitop-dev/chat/internal/provider"
)

// asChatError normalizes any error from the provider layer into *Error.
func asChatError(providerName string, err error) *Error {
	if err == nil {
		return nil
	}
	var pe *provider.Error
	if errors.As(err, &pe) {
		return &Error{
			Provider:          pe.Provider,
			Code:              pe.Code,
			Status:            pe.Status,
			Message:           pe.Message,
			Retryable:         pe.Retryable,
			Cause:             pe.Cause,
			ProviderErrorJSON: pe.ProviderErrorJSON,
		}
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	code := CodeInternalError
	switch {
	case errors.Is(err, context.Canceled):
		code = CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = CodeTimeout
	}
	return &Error{
		Provider: providerName,
		Code:     code,
		Message:  err.Error(),
		Cause:    err,
	}
}

func setupError(providerName, message string) *Error {
	return &Error{Provider: providerName, Code: CodeInvalidRequest, Message: message}
}
