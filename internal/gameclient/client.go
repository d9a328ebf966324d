// Package gameclient is a client for the MidsQuest text-adventure server.
//
// A Client owns one session credential. Login stores the token returned by the
// server; the game actions (move, look, doing, use) send it in the
// session-token header and fail before any network I/O when it is missing.
//
// Operations return an Outcome rather than failing on HTTP status codes. The
// error value is reserved for transport failures, when no exchange completed
// and the caller should stop the current sequence of dependent operations.
//
//	c := gameclient.New("http://localhost:8000", gameclient.WithOutput(os.Stdout))
//	if out, err := c.Login(ctx, "player", "secret"); err != nil || !out.OK() {
//		...
//	}
//	out, err := c.Move(ctx, "north")
package gameclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/midsquest/midsquest/internal/common/httpclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionTokenKey is the login response field holding the session token.
const SessionTokenKey = "session_token"

var (
	// ErrNotAuthenticated is the pre-flight failure of an authenticated
	// operation attempted without a credential.
	ErrNotAuthenticated = httpclient.ErrNotAuthenticated
	// ErrTransport is returned when an exchange fails in flight.
	ErrTransport = httpclient.ErrTransport
)

// Client runs game operations against one server for one session.
type Client struct {
	creds   CredentialStore
	sender  httpclient.Sender
	out     io.Writer
	logger  zerolog.Logger
	lenient bool

	doer           httpclient.Doer
	connectTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithOutput sets where raw response bodies are written. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		c.out = w
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithDoer injects the HTTP transport.
func WithDoer(d httpclient.Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithConnectTimeout sets the dial timeout of the default transport. Ignored
// when WithDoer is used.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

// WithSender replaces the transport adapter entirely.
func WithSender(s httpclient.Sender) Option {
	return func(c *Client) {
		c.sender = s
	}
}

// WithLenientSession sends a degraded credential (see CredentialStore.Degraded)
// to the server like any other token. By default a degraded credential counts
// as absent and authenticated operations fail before sending.
func WithLenientSession() Option {
	return func(c *Client) {
		c.lenient = true
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		out:    io.Discard,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sender == nil {
		doer := c.doer
		if doer == nil {
			doer = httpclient.NewHTTPDoer(c.connectTimeout)
		}
		c.sender = httpclient.NewClient(baseURL, sessionTokens{c},
			httpclient.WithDoer(doer),
			httpclient.WithLogger(c.logger))
	}
	return c
}

// sessionTokens exposes the credential store to the transport.
type sessionTokens struct {
	c *Client
}

func (s sessionTokens) Token() (string, bool) {
	if !s.c.lenient && s.c.creds.Degraded() {
		return "", false
	}
	return s.c.creds.Get()
}

// Credentials returns the client's credential store.
func (c *Client) Credentials() *CredentialStore {
	return &c.creds
}

// Token returns the stored session token, if any.
func (c *Client) Token() (string, bool) {
	return c.creds.Get()
}

// SessionDegraded reports whether the last login stored the NotFound sentinel.
func (c *Client) SessionDegraded() bool {
	return c.creds.Degraded()
}

// CreateUser registers a new account (POST /user).
func (c *Client) CreateUser(ctx context.Context, username, password string) (Outcome, error) {
	return c.do(ctx, OpCreateUser, BuildBody(F("username", username), F("password", password)))
}

// Login authenticates (POST /login). On a 200 answer the session_token of the
// response is stored, even when it could not be found, in which case the
// store holds NotFound and a warning is logged.
func (c *Client) Login(ctx context.Context, username, password string) (Outcome, error) {
	out, err := c.do(ctx, OpLogin, BuildBody(F("username", username), F("password", password)))
	if err != nil || out.StatusCode != http.StatusOK {
		return out, err
	}
	token := Extract(out.Body, SessionTokenKey)
	if token == NotFound {
		c.logger.Warn().Str("op", OpLogin.Name).Msg("Login successful but could not parse session_token.")
	}
	c.creds.Set(token)
	return out, nil
}

// Move moves the player in direction (POST /move).
func (c *Client) Move(ctx context.Context, direction string) (Outcome, error) {
	return c.do(ctx, OpMove, BuildBody(F("direction", direction)))
}

// Look describes the current room (GET /look).
func (c *Client) Look(ctx context.Context) (Outcome, error) {
	return c.do(ctx, OpLook, "")
}

// SetDoing sets what the player is currently doing (POST /doing).
func (c *Client) SetDoing(ctx context.Context, action string) (Outcome, error) {
	return c.do(ctx, OpSetDoing, BuildBody(F("action", action)))
}

// UseItem uses an item in the current room (POST /use).
func (c *Client) UseItem(ctx context.Context, item string) (Outcome, error) {
	return c.do(ctx, OpUseItem, BuildBody(F("item", item)))
}

func (c *Client) do(ctx context.Context, op Operation, body string) (Outcome, error) {
	resp, err := c.sender.Send(ctx, httpclient.RequestOptions{
		Method:      op.Method,
		Path:        op.Path,
		Body:        []byte(body),
		RequireAuth: op.RequireAuth,
	})
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			c.logger.Error().Str("op", op.Name).Msg(err.Error())
			return Outcome{Op: op, StatusCode: StatusNotSent, Preflight: err}, nil
		}
		return Outcome{Op: op}, fmt.Errorf("%s: %w", op.Name, err)
	}

	if _, werr := fmt.Fprintln(c.out, resp.Body); werr != nil {
		c.logger.Warn().Err(werr).Str("op", op.Name).Msg("unable to write response body")
	}
	return Outcome{Op: op, StatusCode: resp.StatusCode, Body: resp.Body}, nil
}
