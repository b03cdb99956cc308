package booking

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure for callers. Codes are stable: the
// HTTP layer maps them to status codes and clients branch on them.
type Code string

const (
	CodeInvalidInput    Code = "invalid_input"
	CodeConflict        Code = "conflict"
	CodeHoldExpired     Code = "hold_expired"
	CodeAuthFailed      Code = "auth_failed"
	CodePolicyViolation Code = "policy_violation"
	CodeSystemError     Code = "system_error"
)

// Error is a domain error carrying a stable code. The wrapped cause is
// for logs only and never reaches a caller.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a domain error with the given code.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a domain error around an underlying cause.
func WrapError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the domain code from an error, defaulting anything
// unclassified to system_error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeSystemError
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
