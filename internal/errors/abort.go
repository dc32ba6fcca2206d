package errors

import "errors"

// UserAbortError signals that the user ended an interactive session early.
// Commands treat it as a clean exit rather than a failure.
type UserAbortError struct {
	Reason string
}

func (e *UserAbortError) Error() string {
	return e.Reason
}

// NewUserAbortError creates a UserAbortError with the provided reason.
func NewUserAbortError(reason string) *UserAbortError {
	return &UserAbortError{Reason: reason}
}

// IsUserAbort reports whether err is a UserAbortError (even when wrapped).
func IsUserAbort(err error) bool {
	var abortErr *UserAbortError
	return errors.As(err, &abortErr)
}
