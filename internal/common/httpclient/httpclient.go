package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/midsquest/midsquest/internal/common/apperrors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Wire-level header names and values.
const (
	HeaderAccept       = "accept"
	HeaderContentType  = "Content-Type"
	HeaderSessionToken = "session-token"
	MediaTypeJSON      = "application/json"
)

// DefaultConnectTimeout is the dial timeout used by NewHTTPDoer when none is given.
const DefaultConnectTimeout = 10 * time.Second

var (
	// ErrNotAuthenticated is returned when an authenticated request is attempted
	// without a stored credential. It carries status code 0: no request was sent.
	ErrNotAuthenticated = apperrors.New("Cannot make authenticated request: Not logged in.").SetStatusCode(0)
	// ErrTransport wraps failures that happen while the exchange is in flight.
	ErrTransport = apperrors.New("transport error")
	// ErrInvalidRequest is returned when the outbound request cannot be built.
	ErrInvalidRequest = apperrors.New("invalid request")
)

// RequestOptions describes one outbound request.
type RequestOptions struct {
	Method      string // HTTP method (GET, POST)
	Path        string // path appended to the base URL, e.g. "/login"
	Body        []byte // optional request body
	RequireAuth bool   // attach the session-token header; fail fast without one
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       string
	Header     http.Header
}

// HTTPClient sends requests to the game server through a Doer.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	doer    Doer
	logger  zerolog.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithDoer replaces the default transport.
func WithDoer(d Doer) ClientOption {
	return func(c *HTTPClient) {
		c.doer = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewClient creates a client for baseURL. tokens may be nil when no
// authenticated requests will be made.
func NewClient(baseURL string, tokens TokenSource, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = NewHTTPDoer(DefaultConnectTimeout)
	}
	return c
}

// NewHTTPDoer returns an *http.Client whose dialer gives up after
// connectTimeout. There is no overall request timeout.
func NewHTTPDoer(connectTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &http.Client{Transport: transport}
}

// BaseURL returns the server URL requests are sent to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Send implements Sender.
func (c *HTTPClient) Send(ctx context.Context, opts RequestOptions) (*Response, error) {
	var token string
	if opts.RequireAuth {
		var ok bool
		if c.tokens != nil {
			token, ok = c.tokens.Token()
		}
		if !ok || token == "" {
			return nil, ErrNotAuthenticated
		}
	}

	var body io.Reader = http.NoBody
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, opts.Method, c.baseURL+opts.Path, body)
	if err != nil {
		return nil, ErrInvalidRequest.MsgErr(fmt.Sprintf("unable to build %s %s", opts.Method, opts.Path), err)
	}
	req.Header.Set(HeaderAccept, MediaTypeJSON)
	if len(opts.Body) > 0 {
		req.Header.Set(HeaderContentType, MediaTypeJSON)
	}
	if opts.RequireAuth {
		req.Header.Set(HeaderSessionToken, token)
	}

	c.logger.Debug().
		Str("method", opts.Method).
		Str("url", req.URL.String()).
		Bool("auth", opts.RequireAuth).
		Msg("sending request")

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, ErrTransport.MsgErr("transport error: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrTransport.MsgErr("failed to read response body: "+err.Error(), err)
	}

	c.logger.Debug().
		Str("method", opts.Method).
		Str("path", opts.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
		Header:     resp.Header,
	}, nil
}
