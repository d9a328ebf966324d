package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete Error. base links an error to the template it was
// derived from; wrappedErrors holds causes attached with Err or MsgErr.
type appError struct {
	msg           string
	base          error
	wrappedErrors []error
	statuscode    int
}

// Error returns the primary message only.
func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the primary message followed by every wrapped error that is
// not part of the template chain.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.msg)
	for _, err := range e.wrappedErrors {
		if ae, ok := err.(*appError); ok && ae == e.base {
			continue
		}
		b.WriteString(": ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the base error for compatibility with errors.Is / errors.As.
func (e *appError) Unwrap() error {
	return e.base
}

// UnwrapAll returns all wrapped errors in the order they were added.
func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

// Msg creates a new error with a new message and wraps the original error.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		statuscode:    e.statuscode,
	}
}

// New creates a fresh error using the current error as a template.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// MsgErr creates a new error with a message and wraps additional errors.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
	}
}

// Err attaches additional errors while keeping the message and status code.
func (e *appError) Err(errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
	}
}

// SetStatusCode returns a shallow copy with an updated status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is checks both the base chain and all wrapped errors.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if e.base != nil && errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}

// StatusCodeOf returns the status code carried by err, or fallback when err is
// not an Error.
func StatusCodeOf(err error, fallback int) int {
	var ae Error
	if errors.As(err, &ae) {
		return ae.StatusCode()
	}
	return fallback
}
