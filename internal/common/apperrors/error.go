// Package apperrors provides typed error templates for the client and the sandbox
// server. An error carries a message, the errors it wraps and an associated
// status code, and stays compatible with errors.Is / errors.As.
//
// Templates are declared once as package variables and specialised at the call
// site with Msg, MsgErr or Err, so callers can match on the template while still
// reporting the concrete cause.
package apperrors

// Error defines the interface for application errors. All methods return Error to
// support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetStatusCode(int) Error               // sets the status code reported for the error
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // returns full message including wrapped errors
	UnwrapAll() []error                    // returns all wrapped errors
}
