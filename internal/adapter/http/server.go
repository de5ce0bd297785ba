package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/couchcryptid/crowflies/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const transport = "http"

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// DistanceResolver answers distance and location queries.
type DistanceResolver interface {
	Resolve(q domain.DistanceQuery) (domain.DistanceResult, error)
	Locate(input string) (domain.LocationRecord, error)
}

// Server exposes the distance API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	resolver   DistanceResolver
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/distance and /v1/locations/{code} routes.
func NewServer(addr string, ready ReadinessChecker, resolver DistanceResolver, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/distance", s.handleDistance)
	mux.HandleFunc("GET /v1/locations/{code}", s.handleLocation)

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

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := domain.DistanceQuery{
		ID:   params.Get("id"),
		From: params.Get("from"),
		To:   params.Get("to"),
	}

	res, err := s.resolver.Resolve(q)
	if err != nil {
		status, outcome := classify(err)
		s.metrics.RecordQuery(transport, outcome)
		s.logger.Debug("distance query failed", "from", q.From, "to", q.To, "error", err)
		if res.ID == "" {
			writeError(w, status, err)
			return
		}
		sharedobs.WriteJSON(w, status, res)
		return
	}

	s.metrics.RecordQuery(transport, "ok")
	s.metrics.QueryDistance.Observe(res.Distance)
	sharedobs.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resolver.Locate(r.PathValue("code"))
	if err != nil {
		status, _ := classify(err)
		writeError(w, status, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, rec)
}

// classify maps a resolver error to an HTTP status and a metrics outcome.
func classify(err error) (int, string) {
	var unknown *domain.UnknownCodeError
	var invalid *domain.InvalidCoordinateError
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound, domain.ErrorKindUnknownCode
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, domain.ErrorKindInvalidCoordinate
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, "invalid_query"
	default:
		return http.StatusInternalServerError, "error"
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
