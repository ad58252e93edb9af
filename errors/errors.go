// Package errors wraps pkg/errors and adds the error codes used to classify
// benchmark failures.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code classifies an error. See Is.
type Code string

const (
	// InvalidArgument marks malformed bounds or configuration. Raised before
	// any probe starts.
	InvalidArgument Code = "InvalidArgument"
	// WorkloadUnderflow marks fewer query records than requested. It is
	// recoverable: callers log it and continue with the shorter workload.
	WorkloadUnderflow Code = "WorkloadUnderflow"
	// BackendError marks any failure from the backend operation interface.
	BackendError Code = "BackendError"
	// ResourceError marks result sink and input file failures.
	ResourceError Code = "ResourceError"
)

func New(code Code, message string) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: message,
	})
}

func Newf(code Code, format string, args ...interface{}) error {
	return New(code, fmt.Sprintf(format, args...))
}

// WrapCode annotates err with code and message. A nil err yields nil.
func WrapCode(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(codedError{
		Code:    code,
		Message: message + ": " + err.Error(),
		cause:   err,
	})
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Cause(err error) error {
	return errors.Cause(err)
}

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Is reports whether any error in err's chain carries the target code.
func Is(err error, target Code) bool {
	return errors.Is(err, codedError{Code: target})
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func WithMessage(err error, message string) error {
	return errors.WithMessage(err, message)
}

func WithMessagef(err error, format string, args ...interface{}) error {
	return errors.WithMessagef(err, format, args...)
}

func WithStack(err error) error {
	return errors.WithStack(err)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// CodeOf returns the code of the first coded error in err's chain, or the
// empty code.
func CodeOf(err error) Code {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

type codedError struct {
	Code    Code
	Message string
	cause   error
}

func (ce codedError) Error() string {
	return ce.Message
}

func (ce codedError) Unwrap() error {
	return ce.cause
}

func (ce codedError) Is(err error) bool {
	if e, ok := err.(codedError); ok && ce.Code == e.Code {
		return true
	}
	return false
}
