package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken struct {
	token string
	ok    bool
}

func (s staticToken) Token() (string, bool) {
	return s.token, s.ok
}

func newTestSender(t *testing.T, handler http.Handler, tokens TokenSource) (*HTTPClient, *TestHTTPClient) {
	t.Helper()
	doer := NewTestClient(handler)
	c := NewClient("http://game.test:8000/", tokens, WithDoer(doer), WithLogger(zerolog.Nop()))
	return c, doer
}

func TestSend_PostHeaders(t *testing.T) {
	c, doer := newTestSender(t, RespondWith(http.StatusOK, `{"message": "ok"}`), staticToken{"tok-1", true})

	resp, err := c.Send(context.Background(), RequestOptions{
		Method:      http.MethodPost,
		Path:        "/move",
		Body:        []byte(`{"direction": "north"}`),
		RequireAuth: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"message": "ok"}`, resp.Body)

	require.Equal(t, 1, doer.Calls())
	got := doer.Last()
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/move", got.Path)
	assert.Equal(t, `{"direction": "north"}`, got.Body)
	assert.Equal(t, MediaTypeJSON, got.Header.Get(HeaderAccept))
	assert.Equal(t, MediaTypeJSON, got.Header.Get(HeaderContentType))
	assert.Equal(t, "tok-1", got.Header.Get(HeaderSessionToken))
}

func TestSend_GetWithoutBody(t *testing.T) {
	c, doer := newTestSender(t, RespondWith(http.StatusOK, `{}`), staticToken{"tok-1", true})

	_, err := c.Send(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/look", RequireAuth: true})
	require.NoError(t, err)

	got := doer.Last()
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Empty(t, got.Body)
	assert.Empty(t, got.Header.Get(HeaderContentType))
	assert.Equal(t, MediaTypeJSON, got.Header.Get(HeaderAccept))
	assert.Equal(t, "tok-1", got.Header.Get(HeaderSessionToken))
}

func TestSend_NoAuthHeaderWhenNotRequired(t *testing.T) {
	c, doer := newTestSender(t, RespondWith(http.StatusOK, `{}`), staticToken{"tok-1", true})

	_, err := c.Send(context.Background(), RequestOptions{Method: http.MethodPost, Path: "/user", Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Empty(t, doer.Last().Header.Get(HeaderSessionToken))
}

func TestSend_NotAuthenticated(t *testing.T) {
	tests := []struct {
		name   string
		tokens TokenSource
	}{
		{"nil token source", nil},
		{"absent", staticToken{}},
		{"empty token", staticToken{"", true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, doer := newTestSender(t, RespondWith(http.StatusOK, `{}`), tt.tokens)

			resp, err := c.Send(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/look", RequireAuth: true})
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrNotAuthenticated)
			assert.Equal(t, 0, doer.Calls())
		})
	}
}

func TestSend_StatusReturnedVerbatim(t *testing.T) {
	c, _ := newTestSender(t, RespondWith(http.StatusUnauthorized, `{"detail": "Invalid session"}`), staticToken{"x", true})

	resp, err := c.Send(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/look", RequireAuth: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `{"detail": "Invalid session"}`, resp.Body)
}

func TestSend_TransportError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	c, doer := newTestSender(t, RespondWith(http.StatusOK, `{}`), nil)
	doer.Err = cause

	resp, err := c.Send(context.Background(), RequestOptions{Method: http.MethodPost, Path: "/user", Body: []byte(`{}`)})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, "transport error: connection reset by peer", err.Error())
}

func TestSend_ContextCanceled(t *testing.T) {
	c, _ := newTestSender(t, RespondWith(http.StatusOK, `{}`), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, RequestOptions{Method: http.MethodGet, Path: "/"})
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSend_InvalidRequest(t *testing.T) {
	c, doer := newTestSender(t, RespondWith(http.StatusOK, `{}`), nil)

	_, err := c.Send(context.Background(), RequestOptions{Method: "BAD METHOD", Path: "/"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, 0, doer.Calls())
}

func TestSend_RealServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, `{"username": "a", "password": "b"}`, string(b))
		assert.Equal(t, MediaTypeJSON, r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"message": "User created"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, WithDoer(NewHTTPDoer(time.Second)), WithLogger(zerolog.Nop()))
	assert.Equal(t, srv.URL, c.BaseURL())

	resp, err := c.Send(context.Background(), RequestOptions{
		Method: http.MethodPost,
		Path:   "/user",
		Body:   []byte(`{"username": "a", "password": "b"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"message": "User created"}`, resp.Body)
}

func TestSend_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, WithDoer(NewHTTPDoer(time.Second)), WithLogger(zerolog.Nop()))
	_, err := c.Send(context.Background(), RequestOptions{Method: http.MethodGet, Path: "/"})
	assert.ErrorIs(t, err, ErrTransport)
}
