package exception

import (
	"errors"
	"fmt"
)

// Violation is a single field level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ApplicationError handles application level errors.
// Code is a stable machine readable identifier (e.g. "offer_expired"),
// StatusCode is the HTTP status surfaced to the client.
type ApplicationError struct {
	Message    string
	StatusCode int
	Code       string
	Violations []Violation
	Cause      error
}

// Error interface implementation.
func (e ApplicationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.Cause)
}

func (e ApplicationError) Unwrap() error {
	if e.Cause == nil {
		return errors.New(e.Message)
	}

	return e.Cause
}

func (e ApplicationError) Is(target error) bool {
	var targetErr ApplicationError

	if !errors.As(target, &targetErr) {
		return false
	}

	return e.Code == targetErr.Code &&
		e.Message == targetErr.Message
}

// ErrorCode returns error code for an application error.
func (e ApplicationError) ErrorCode() int {
	return e.StatusCode
}

// WithCause returns a copy of the error wrapping cause.
func (e ApplicationError) WithCause(cause error) ApplicationError {
	e.Cause = cause

	return e
}

// WithMessage returns a copy of the error with a different user facing message.
// Use HasCode to match it against the original sentinel.
func (e ApplicationError) WithMessage(msg string) ApplicationError {
	e.Message = msg

	return e
}

// HasCode reports whether err is an ApplicationError carrying code.
func HasCode(err error, code string) bool {
	var appErr ApplicationError
	if !errors.As(err, &appErr) {
		return false
	}

	return appErr.Code == code
}
