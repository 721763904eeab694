package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the environment API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /api/v1 routes served by api.
func NewServer(addr string, api *API, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     router,
			ReadTimeout: 10 * time.Second,
			// A gather waits on the slowest provider.
			WriteTimeout: 45 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	router.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	router.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	api.RegisterRoutes(router)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
