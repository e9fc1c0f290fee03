package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/countries-be/internal/account"
	"github.com/hongminglow/countries-be/internal/auth"
	"github.com/hongminglow/countries-be/internal/config"
	"github.com/hongminglow/countries-be/internal/http/handlers"
	"github.com/hongminglow/countries-be/internal/middleware"
	"github.com/hongminglow/countries-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the full middleware chain and route table.
func NewHandler(cfg config.Config, store storage.UserStore, logger *slog.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	accounts := account.NewService(store, tokens)
	protect := middleware.Session(logger, tokens, store)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(logger, accounts, cfg.SecureCookies()).Register(mux)
	handlers.NewProfileHandler(logger, accounts).Register(mux, protect)
	handlers.NewFavoritesHandler(logger, accounts).Register(mux, protect)

	var routes http.Handler = mux
	if cfg.BasePath != "" {
		root := http.NewServeMux()
		root.Handle(cfg.BasePath+"/", http.StripPrefix(cfg.BasePath, mux))
		root.Handle("/", mux)
		routes = root
	}

	return withMiddleware(cfg, logger, routes)
}

// withMiddleware wraps routes so the access log sees the 500 written by Recovery.
func withMiddleware(cfg config.Config, logger *slog.Logger, routes http.Handler) http.Handler {
	handler := middleware.Recovery(logger)(routes)
	handler = middleware.Logging(logger, "/health", cfg.BasePath+"/health")(handler)
	return middleware.CORS(cfg.CORSOrigins, handler)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
