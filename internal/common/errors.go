package common

import "errors"

// AppError carries a machine-readable code and the HTTP status a handler
// should respond with, alongside the wrapped cause.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError without details.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// WithDetails returns a copy carrying structured detail for the response
// body, typically a list of field problems.
func (e *AppError) WithDetails(details any) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Details = details
	return &clone
}

// IsAppError reports whether err has an AppError in its chain.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
