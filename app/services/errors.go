package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so callers can react without
// inspecting messages.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "UNEXPECTED"
	}
}

// Error is the error type returned by every service operation.
type Error struct {
	Kind    ErrorKind
	Message string
	// Fields maps input field names to per-field messages.
	Fields map[string]string
	// Values echoes the submitted input so forms can be redisplayed.
	Values map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string, fields, values map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields, Values: values}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func NewUnexpectedError(message string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf returns the kind carried by err. Anything that is not a service
// error is unexpected.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

// AsError extracts the service error from err.
func AsError(err error) (*Error, bool) {
	var se *Error
	ok := errors.As(err, &se)
	return se, ok
}
