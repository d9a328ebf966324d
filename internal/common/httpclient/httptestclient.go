package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
)

// RecordedRequest is a request observed by TestHTTPClient.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// TestHTTPClient is a Doer that serves requests from an in-process http.Handler
// through httptest.NewRecorder, without opening a connection. Every request is
// recorded. When Err is set, requests are recorded and then fail with Err, the
// way a dial or read failure would.
type TestHTTPClient struct {
	handler  http.Handler
	Requests []RecordedRequest
	Err      error
}

// NewTestClient returns a TestHTTPClient that dispatches to handler.
func NewTestClient(handler http.Handler) *TestHTTPClient {
	return &TestHTTPClient{handler: handler}
}

// RespondWith returns a handler that always answers with status and body.
func RespondWith(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentType, MediaTypeJSON)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Do implements Doer.
func (c *TestHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		_ = req.Body.Close()
		body = b
	}
	c.Requests = append(c.Requests, RecordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header.Clone(),
		Body:   string(body),
	})

	if c.Err != nil {
		return nil, c.Err
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	req.Body = io.NopCloser(bytes.NewReader(body))
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr.Result(), nil
}

// Calls returns the number of requests seen.
func (c *TestHTTPClient) Calls() int {
	return len(c.Requests)
}

// Last returns the most recent request. It panics when there is none.
func (c *TestHTTPClient) Last() RecordedRequest {
	return c.Requests[len(c.Requests)-1]
}
