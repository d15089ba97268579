package errors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInternal           Code = "internal"
	CodePreconditionFailed Code = "precondition_failed"
)

// Status is an error carrying a machine-readable code.
type Status struct {
	// Source error
	Err error `json:"source_error,omitempty"`

	// Machine-readable status code.
	Code Code `json:"code"`

	// Human-readable error message.
	Message string `json:"message"`

	// Payload
	Payload any `json:"detail,omitempty"`
}

// Unwrap status error and return source error.
func (e *Status) Unwrap() error {
	return e.Err
}

// Source sets the origin err and return error.
func (e *Status) Source(err error) *Status {
	e.Err = err
	return e
}

// Error implements the error interface.
func (e *Status) Error() string {
	return e.Message
}

func (e *Status) Detail(arg any) *Status {
	e.Payload = arg
	return e
}

// AsCode unwraps an error and returns its code.
// Non-status errors always return CodeInternal.
func AsCode(err error) Code {
	if err == nil {
		return ""
	}
	e := AsStatus(err)
	if e != nil {
		return e.Code
	}
	return CodeInternal
}

// AsStatus return err as Status error.
func AsStatus(err error) (e *Status) {
	if err == nil {
		return nil
	}
	if errors.As(err, &e) {
		return
	}
	return
}

// Format is a helper function to return an Error with a given status and formatted message.
func Format(code Code, format string, args ...any) *Status {
	return &Status{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// PreconditionFailed is a helper function to return an precondition
// failed error.
func PreconditionFailed(format string, args ...any) *Status {
	return Format(CodePreconditionFailed, format, args...)
}
