// Package sandbox is an in-process MidsQuest game server. It speaks the same wire
// contract as the real server (POST /user, /login, /move, /doing, /use and
// GET /look, with the session-token header on game actions) so the client can
// be developed and tested without network access to the game host.
package sandbox

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/midsquest/midsquest/internal/common/middleware"
	"github.com/rs/zerolog/log"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Options configures a Server.
type Options struct {
	Secret         []byte        // HS256 key for session tokens; random when empty
	SessionTTL     time.Duration // zero: tokens do not expire
	BcryptCost     int           // zero: bcrypt.DefaultCost
	RequestTimeout time.Duration // zero: no per-request deadline
	World          *World        // nil: DefaultWorld()
}

// Server holds the sandbox state and its router.
type Server struct {
	Router *chi.Mux

	mu       sync.Mutex
	accounts *Accounts
	sessions *Sessions
	world    *World
	timeout  time.Duration
}

// CreateNewServer builds a server. Call MountHandlers before serving.
func CreateNewServer(opts Options) (*Server, error) {
	secret := opts.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
	}
	world := opts.World
	if world == nil {
		world = DefaultWorld()
	}
	return &Server{
		Router:   chi.NewRouter(),
		accounts: NewAccounts(opts.BcryptCost),
		sessions: NewSessions(secret, opts.SessionTTL),
		world:    world,
		timeout:  opts.RequestTimeout,
	}, nil
}

// MountHandlers installs middleware and routes.
func (s *Server) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if s.timeout > 0 {
		s.Router.Use(middleware.SetTimeout(s.timeout))
	}

	s.Router.Get("/", s.getWelcome)
	s.Router.Post("/user", s.createUser)
	s.Router.Post("/login", s.login)
	s.Router.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Post("/move", s.move)
		r.Get("/look", s.look)
		r.Post("/doing", s.setDoing)
		r.Post("/use", s.useItem)
	})
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("sandbox server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("sandbox server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("sandbox server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("sandbox shutdown: %w", err)
		}
		return nil
	}
}
