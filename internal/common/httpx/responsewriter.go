package httpx

import (
	"net/http"
)

// ResponseWriter wraps an http.ResponseWriter and records the status code and
// byte count, so middleware can log them and avoid writing a second response.
type ResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

// NewResponseWriter wraps w. An already wrapped writer is returned as is.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w}
}

// WriteHeader is a no-op once the status has been written.
func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.status != 0 {
		return
	}
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Written reports whether a status has been sent.
func (rw *ResponseWriter) Written() bool {
	return rw.status != 0
}

// Status returns the status code sent, or 200 when nothing was written yet.
func (rw *ResponseWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

// BytesWritten returns the number of body bytes written.
func (rw *ResponseWriter) BytesWritten() int {
	return rw.bytes
}

// Flush implements http.Flusher if the underlying writer supports it.
func (rw *ResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
