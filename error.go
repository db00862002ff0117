package pressroom

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Application error codes.
const (
	ECANCELED = "canceled"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENETWORK  = "network"
	ENOTFOUND = "not_found"
	ETIMEOUT  = "timeout"
	EAIREVIEW = "ai_review"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("pressroom error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Retryable reports whether an operation that failed with code may be
// retried. Validation errors are never retried.
func Retryable(code string) bool {
	return code == ETIMEOUT || code == ENETWORK
}

// ClassifyError converts errors returned by network calls into application
// errors. Application errors pass through unchanged. Context cancellation
// maps to ECANCELED, deadlines and net timeouts map to ETIMEOUT, everything
// else maps to ENETWORK. The formatted prefix describes the failed action.
func ClassifyError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	action := fmt.Sprintf(format, args...)
	if errors.Is(err, context.Canceled) {
		return Errorf(ECANCELED, "%s aborted", action)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Errorf(ETIMEOUT, "%s timed out", action)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Errorf(ETIMEOUT, "%s timed out", action)
	}
	return Errorf(ENETWORK, "%s failed: %v", action, err)
}
