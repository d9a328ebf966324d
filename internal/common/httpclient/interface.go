// Package httpclient is the transport adapter between the game client and the
// MidsQuest server. It builds requests against a base URL, attaches the standard
// JSON headers and, for authenticated calls, the session-token header, then
// dispatches through an injected Doer. Completed exchanges are returned verbatim;
// status-code handling is left to the caller.
package httpclient

import (
	"context"
	"net/http"
)

// Doer is the HTTP transport collaborator. *http.Client satisfies it, as does
// TestHTTPClient.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the session credential for authenticated requests.
// The boolean is false when no credential is stored.
type TokenSource interface {
	Token() (string, bool)
}

// Sender sends one request and returns the completed exchange.
type Sender interface {
	// Send dispatches the request described by opts.
	// It fails with ErrNotAuthenticated, before any network I/O, when
	// opts.RequireAuth is set and the TokenSource has no credential. Failures
	// during the exchange are reported as ErrTransport.
	Send(ctx context.Context, opts RequestOptions) (*Response, error)
}

// Compile-time checks that the transports satisfy the interfaces.
var _ Sender = &HTTPClient{}
var _ Doer = &http.Client{}
var _ Doer = &TestHTTPClient{}
