package server

import (
	"context"
	"net/http"
	"time"

	"github.com/codetrellis/userbase/internal/auth"
	"github.com/codetrellis/userbase/internal/config"
	"github.com/codetrellis/userbase/internal/http/handlers"
	"github.com/codetrellis/userbase/internal/middleware"
	"github.com/codetrellis/userbase/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)

	tokens := auth.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := handlers.NewUserHandler(store, tokens)
	users.Register(mux, func(next http.Handler) http.Handler {
		return middleware.Authenticate(tokens, store, next)
	})

	handler := middleware.Logging(middleware.CORS(cfg.CORSOrigins, middleware.Recover(mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
