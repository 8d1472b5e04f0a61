package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/api/health"
	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/metrics"
	"github.com/ahmadnadir/gasnadir/internal/services/analyst"
	"github.com/ahmadnadir/gasnadir/internal/services/customer"
	"github.com/ahmadnadir/gasnadir/internal/services/summary"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Analyst answers questions and serves the conversation history
type Analyst interface {
	ProcessQuery(ctx context.Context, query string, obs analyst.Observer) (*chat.Message, error)
	History(ctx context.Context, limit int) ([]chat.Message, error)
}

// Customers serves customer performance cards
type Customers interface {
	Insights(ctx context.Context) ([]customer.Insight, error)
	ForCustomer(ctx context.Context, id int64) (*customer.Insight, error)
}

// Summaries aggregates volumes by dimension
type Summaries interface {
	Summary(ctx context.Context, dim summary.Dimension) (*summary.Summary, error)
}

// PolicyResponder produces the tariff narrative for policy questions
type PolicyResponder interface {
	Respond(query string, refs []insight.NewsReference, data []insight.DataReference) string
}

// Exporter renders the conversation as a document
type Exporter interface {
	Export(ctx context.Context, limit int) ([]byte, error)
}

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Port         int
	ServiceName  string
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	HistoryLimit int
}

// Services groups the handlers' collaborators. Exporter may be nil.
type Services struct {
	Analyst   Analyst
	Customers Customers
	Summaries Summaries
	Policy    PolicyResponder
	Exporter  Exporter
}

// Server wraps HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(cfg ServerConfig, svc Services, healthHandler *health.Handler) *Server {
	log := logger.Get().With("component", "http_server")
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}

	h := &handler{svc: svc, historyLimit: cfg.HistoryLimit, log: log}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HandleHealth)
	mux.HandleFunc("GET /ready", healthHandler.HandleReadiness)
	mux.HandleFunc("GET /live", healthHandler.HandleLiveness)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/analyst/query", h.query)
	mux.HandleFunc("GET /api/v1/analyst/stream", h.stream)
	mux.HandleFunc("GET /api/v1/analyst/history", h.history)
	mux.HandleFunc("GET /api/v1/analyst/export", h.export)
	mux.HandleFunc("GET /api/v1/customers/insights", h.customerInsights)
	mux.HandleFunc("GET /api/v1/customers/{id}/insights", h.customerInsight)
	mux.HandleFunc("GET /api/v1/volumes/summary", h.volumeSummary)
	mux.HandleFunc("POST /api/v1/policy", h.policy)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": cfg.ServiceName,
			"version": cfg.Version,
			"status":  "running",
		})
	})

	port := 8080
	if cfg.Port > 0 {
		port = cfg.Port
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      recoverer(log, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Handler exposes the routed handler for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks until the server is stopped or fails
func (s *Server) Start() error {
	s.log.Infow("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Shutdown waits for active requests within ctx
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("HTTP server stopped")
	return nil
}

func recoverer(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorw("Handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, errors.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
