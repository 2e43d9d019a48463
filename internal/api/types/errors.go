package types

import (
	"errors"

	appErr "github.com/pay4skill/server/pkg/errors"
)

// FromAppError converts an error into the response error body. Errors that are not AppErrors are
// reported as internal without leaking their text.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if errors.As(err, &e) {
		if e.Code == appErr.CodeInternal || e.Code == appErr.CodeUnknown {
			return &APIError{Code: string(appErr.CodeInternal), Reason: e.Reason, Message: "internal server error"}
		}
		return &APIError{Code: string(e.Code), Reason: e.Reason, Message: e.Message, Details: e.Meta}
	}
	return &APIError{Code: string(appErr.CodeInternal), Message: "internal server error"}
}
