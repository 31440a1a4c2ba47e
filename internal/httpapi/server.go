package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"paperless/internal/auth"
	"paperless/internal/config"
	"paperless/internal/logger"
	"paperless/internal/storage"
)

// Stores bundles the persistence dependencies of the HTTP surface.
type Stores struct {
	Users      storage.UserStore
	Categories storage.CategoryStore
	Entries    storage.EntryStore
}

// Server is the HTTP front of the expense tracker.
type Server struct {
	httpServer *http.Server
}

// New wires the routes, middleware, and timeouts into a ready server.
// google may be nil when OAuth is not configured; db may be nil to skip
// the health probe's database check.
func New(cfg *config.Config, stores Stores, tokens *auth.TokenManager, google *auth.GoogleClient, db Pinger) *Server {
	mux := http.NewServeMux()

	authMW := NewAuthMiddleware(tokens, stores.Users)
	guard := authMW.RequireAuth

	NewAuthHandler(stores.Users, tokens, google, cfg).Register(mux)
	NewCategoryHandler(stores.Categories).Register(mux, guard)
	NewEntryHandler(stores.Entries, stores.Categories).Register(mux, guard)
	NewChartHandler(stores.Entries, stores.Categories).Register(mux, guard)
	NewUserHandler().Register(mux, guard)
	if db != nil {
		NewHealthHandler(db).Register(mux)
	}

	var handler http.Handler = mux
	handler = Logging(handler)
	handler = CORS(cfg.CORSOrigins, handler)
	handler = otelhttp.NewHandler(handler, "paperless-api")

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddress(),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start blocks serving requests until the listener closes.
func (s *Server) Start() error {
	logger.Log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
