package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nao1215/realreach/internal/analysis"
)

// HTTP server timeouts. WriteTimeout leaves room for the simulated login
// delay and a full analysis.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 60 * time.Second
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// maxBodySize limits request bodies; the only body is the login request.
const maxBodySize = 1 << 20

// RequestIDHeader carries the request ID back to the client.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the ID assigned to the request carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Server routes HTTP requests to an analysis.Service.
type Server struct {
	service *analysis.Service
	router  *mux.Router
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics the server records into.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a Server for service.
func New(service *analysis.Service, opts ...Option) *Server {
	s := &Server{
		service: service,
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.setupRoutes()
	return s
}

// Metrics returns the metrics the server records into.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.observeMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)

	api.HandleFunc("/analyses", s.handleListAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/analyses", s.handleStartAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/analyses/{id}", s.handleGetAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}", s.handleDeleteAnalysis).Methods(http.MethodDelete)
	api.HandleFunc("/analyses/{id}/results", s.handleResults).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/results/{resultID}/mark", s.handleToggleMark).Methods(http.MethodPost)
	api.HandleFunc("/analyses/{id}/results/{resultID}/hide", s.handleToggleHidden).Methods(http.MethodPost)
	api.HandleFunc("/analyses/{id}/export", s.handleExport).Methods(http.MethodGet)

	// mux skips Use middleware for these handlers, so they are wrapped here.
	s.router.NotFoundHandler = s.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", RequestID: RequestID(r.Context())})
	}))
	s.router.MethodNotAllowedHandler = s.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", RequestID: RequestID(r.Context())})
	}))
}

// withMiddleware applies the router middleware chain to h.
func (s *Server) withMiddleware(h http.Handler) http.Handler {
	return s.requestIDMiddleware(s.observeMiddleware(h))
}

// requestIDMiddleware assigns every request a UUID, exposed through
// RequestID and the X-Request-ID response header.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// unmatchedRoute labels requests that matched no route, keeping raw paths
// out of metric labels.
const unmatchedRoute = "unmatched"

// observeMiddleware logs each request and counts it by route template.
func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := unmatchedRoute
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.ObserveRequest(r.Method, route, wrapper.statusCode)

		s.logger.Info("request",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper captures the status code for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Serve serves HTTP on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}
