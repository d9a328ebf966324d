package sandbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/midsquest/midsquest/internal/common/httpx"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SessionTokenHeader is the request header holding the session token.
const SessionTokenHeader = "session-token"

type ctxKey string

const usernameKey ctxKey = "username"

func usernameFrom(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

// requireSession resolves the session-token header to a username.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(SessionTokenHeader)
		if token == "" {
			httpx.ErrUnAuthorized("Missing session-token header").Send(w)
			return
		}
		username, err := s.sessions.Verify(token)
		if err != nil {
			log.Ctx(r.Context()).Debug().Str("error", err.ErrorAll()).Msg("rejected session token")
			httpx.SendError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// readFields reads the JSON body and returns the named string fields. A
// missing or empty field answers 422 listing every such field.
func readFields(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil || !gjson.ValidBytes(body) {
		httpx.ErrUnableToParseReqData().Send(w)
		return nil, false
	}
	values := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		v := gjson.GetBytes(body, name)
		if !v.Exists() || v.Type != gjson.String || v.String() == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = v.String()
	}
	if len(missing) > 0 {
		httpx.ErrMissingFields(missing...).Send(w)
		return nil, false
	}
	return values, true
}

func (s *Server) getWelcome(w http.ResponseWriter, r *http.Request) {
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"message": "Welcome to Mids Quest",
		"version": Version,
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r, "username", "password")
	if !ok {
		return
	}
	s.mu.Lock()
	err := s.accounts.Register(f["username"], f["password"])
	s.mu.Unlock()
	if err != nil {
		httpx.SendError(w, err)
		return
	}
	log.Ctx(r.Context()).Info().Str("username", f["username"]).Msg("user created")
	httpx.SendMessage(r.Context(), w, "User created")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r, "username", "password")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accounts.Verify(f["username"], f["password"]); err != nil {
		httpx.SendError(w, err)
		return
	}
	token, err := s.sessions.Issue(f["username"])
	if err != nil {
		httpx.SendError(w, err)
		return
	}
	s.world.Spawn(f["username"])
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"message":       "Login successful",
		"session_token": token,
	})
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r, "direction")
	if !ok {
		return
	}
	s.mu.Lock()
	room, err := s.world.Move(usernameFrom(r.Context()), f["direction"])
	s.mu.Unlock()
	if err != nil {
		httpx.SendError(w, err)
		return
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"message":  fmt.Sprintf("You move %s to the %s.", strings.ToLower(f["direction"]), room.Name),
		"location": room.Name,
	})
}

func (s *Server) look(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	room, others, err := s.world.Look(usernameFrom(r.Context()))
	s.mu.Unlock()
	if err != nil {
		httpx.SendError(w, err)
		return
	}

	rsp := `{}`
	var serr error
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"room", room.Name},
		{"description", room.Description},
		{"exits", SortedKeys(room.Exits)},
		{"items", SortedKeys(room.Items)},
		{"players", others},
	} {
		if rsp, serr = sjson.Set(rsp, kv.path, kv.value); serr != nil {
			log.Ctx(r.Context()).Error().Err(serr).Str("path", kv.path).Msg("unable to build look response")
			httpx.ErrApplicationError().Send(w)
			return
		}
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *Server) setDoing(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r, "action")
	if !ok {
		return
	}
	s.mu.Lock()
	err := s.world.SetDoing(usernameFrom(r.Context()), f["action"])
	s.mu.Unlock()
	if err != nil {
		httpx.SendError(w, err)
		return
	}
	httpx.SendMessage(r.Context(), w, "You are now "+f["action"]+".")
}

func (s *Server) useItem(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r, "item")
	if !ok {
		return
	}
	s.mu.Lock()
	effect, err := s.world.Use(usernameFrom(r.Context()), f["item"])
	s.mu.Unlock()
	if err != nil {
		httpx.SendError(w, err)
		return
	}
	httpx.SendMessage(r.Context(), w, effect)
}
