package sandbox

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/midsquest/midsquest/internal/common/httpclient"
	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := CreateNewServer(Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	s.MountHandlers()
	return s
}

func executeRequest(s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(SessionTokenHeader, token)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func TestWelcome(t *testing.T) {
	s := newTestServer(t)
	rr := executeRequest(s, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Welcome to Mids Quest", gjson.Get(rr.Body.String(), "message").String())
	assert.Equal(t, Version, gjson.Get(rr.Body.String(), "version").String())
}

func TestCreateUserAndLogin(t *testing.T) {
	s := newTestServer(t)

	rr := executeRequest(s, http.MethodPost, "/user", `{"username": "alice", "password": "pw"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = executeRequest(s, http.MethodPost, "/user", `{"username": "alice", "password": "pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Username already registered", gjson.Get(rr.Body.String(), "detail").String())

	rr = executeRequest(s, http.MethodPost, "/login", `{"username": "alice", "password": "bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = executeRequest(s, http.MethodPost, "/login", `{"username": "alice", "password": "pw"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, gjson.Get(rr.Body.String(), "session_token").String())
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)

	rr := executeRequest(s, http.MethodPost, "/user", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = executeRequest(s, http.MethodPost, "/user", `{"username": "alice"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "password", gjson.Get(rr.Body.String(), "detail.0.loc.1").String())
	assert.Equal(t, "field required", gjson.Get(rr.Body.String(), "detail.0.msg").String())
}

func TestGameRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	rr := executeRequest(s, http.MethodGet, "/look", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = executeRequest(s, http.MethodPost, "/move", `{"direction": "north"}`, "Could not parse JSON")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid or expired session token", gjson.Get(rr.Body.String(), "detail").String())
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	rr := executeRequest(s, http.MethodGet, "/", "", "")
	assert.NotEmpty(t, rr.Header().Get("X-MidsQuest-Request-ID"))
}

// The client drives the sandbox through the full scripted session.
func TestClientSession(t *testing.T) {
	s := newTestServer(t)
	var out bytes.Buffer
	c := gameclient.New("http://sandbox",
		gameclient.WithDoer(httpclient.NewTestClient(s)),
		gameclient.WithOutput(&out),
		gameclient.WithLogger(zerolog.Nop()),
	)
	ctx := context.Background()

	o, err := c.Look(ctx)
	require.NoError(t, err)
	assert.False(t, o.Sent())

	o, err = c.CreateUser(ctx, "player_1", "password123")
	require.NoError(t, err)
	require.True(t, o.OK(), o.Body)

	o, err = c.Login(ctx, "player_1", "password123")
	require.NoError(t, err)
	require.True(t, o.OK(), o.Body)
	require.False(t, c.SessionDegraded())

	o, err = c.Look(ctx)
	require.NoError(t, err)
	require.True(t, o.OK(), o.Body)
	assert.Equal(t, "Great Hall", gameclient.Extract(o.Body, "room"))
	assert.Equal(t, `["down","east","north"]`, gameclient.Extract(o.Body, "exits"))

	o, err = c.Move(ctx, "north")
	require.NoError(t, err)
	require.True(t, o.OK(), o.Body)
	assert.Equal(t, "Library", gameclient.Extract(o.Body, "location"))

	o, err = c.SetDoing(ctx, "looking around")
	require.NoError(t, err)
	require.True(t, o.OK(), o.Body)

	o, err = c.UseItem(ctx, "shield")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, o.StatusCode)
	assert.Equal(t, "There is no shield here.", gameclient.Extract(o.Body, "detail"))

	o, err = c.UseItem(ctx, "torch")
	require.NoError(t, err)
	assert.True(t, o.OK(), o.Body)
	assert.Contains(t, gameclient.Extract(o.Body, "message"), "torch flickers")

	assert.Contains(t, out.String(), "You move north to the Library.")
}
