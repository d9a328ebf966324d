package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/midsquest/midsquest/internal/common/apperrors"
)

// Error is an HTTP error response. Detail is either a message string or a list
// of FieldError, matching the {"detail": ...} body the game server sends.
type Error struct {
	Detail     any
	StatusCode int
}

// FieldError describes one invalid request field.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type errorRsp struct {
	Detail any `json:"detail"`
}

// Send writes the error response to the provided ResponseWriter.
// If the writer is nil, no action is taken.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rspJson, err := json.Marshal(&errorRsp{Detail: e.Detail})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to parse error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

// Error returns the detail when it is a string.
func (e *Error) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return http.StatusText(e.StatusCode)
}

// SendError sends an application error as an HTTP error response.
// A zero status code becomes 500.
func SendError(w http.ResponseWriter, err apperrors.Error) {
	if err == nil {
		return
	}
	statusCode := err.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	(&Error{StatusCode: statusCode, Detail: err.Error()}).Send(w)
}

// ErrUnAuthorized returns an error for unauthorized requests.
// If no message is provided, a default message is used.
func ErrUnAuthorized(str ...string) *Error {
	s := "Not authenticated"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{Detail: s, StatusCode: http.StatusUnauthorized}
}

// ErrBadRequest returns a 400 error with the given detail.
func ErrBadRequest(detail string) *Error {
	return &Error{Detail: detail, StatusCode: http.StatusBadRequest}
}

// ErrNotFound returns a 404 error with the given detail.
func ErrNotFound(detail string) *Error {
	return &Error{Detail: detail, StatusCode: http.StatusNotFound}
}

// ErrMissingFields returns a 422 error listing the body fields that were
// absent or empty.
func ErrMissingFields(fields ...string) *Error {
	detail := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		detail = append(detail, FieldError{
			Loc:  []string{"body", f},
			Msg:  "field required",
			Type: "value_error.missing",
		})
	}
	return &Error{Detail: detail, StatusCode: http.StatusUnprocessableEntity}
}

// ErrUnableToParseReqData returns an error when the request body is not JSON.
func ErrUnableToParseReqData() *Error {
	return &Error{Detail: "unable to parse request data", StatusCode: http.StatusBadRequest}
}

// ErrApplicationError returns an error for application-level failures.
// If no message is provided, a default message is used.
func ErrApplicationError(err ...string) *Error {
	s := "unable to process request"
	if len(err) > 0 {
		s = err[0]
	}
	return &Error{Detail: s, StatusCode: http.StatusInternalServerError}
}

// ErrRequestTimeout returns an error for requests that exceeded their deadline.
func ErrRequestTimeout() *Error {
	return &Error{Detail: "request timed out", StatusCode: http.StatusServiceUnavailable}
}
