// Package server exposes a document and its interaction session over HTTP
// for debugging and automation.
//
// The interaction core is single-threaded, so every handler that touches
// the document, history or session holds the server's mutex for the whole
// request.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/vectorcad/pkg/document"
	"github.com/matzehuels/vectorcad/pkg/history"
	"github.com/matzehuels/vectorcad/pkg/interaction"
	"github.com/matzehuels/vectorcad/pkg/observability"
	"github.com/matzehuels/vectorcad/pkg/script"
)

// Server serves one document.
type Server struct {
	mu      sync.Mutex
	doc     *document.Document
	hist    *history.Manager
	session *interaction.Session
	runner  *script.Runner

	gatherer prometheus.Gatherer
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry served on /metrics. The default is the
// Prometheus default gatherer.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *Server) { s.gatherer = g } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New creates a server over doc, its history and session.
func New(doc *document.Document, hist *history.Manager, session *interaction.Session, opts ...Option) *Server {
	s := &Server{
		doc:      doc,
		hist:     hist,
		session:  session,
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.runner = script.NewRunner(session, hist, doc, s.logger)
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/document", s.getDocument)
	r.Get("/session", s.getSession)

	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.getHistory)
		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)
	})

	r.Route("/transform-log", func(r chi.Router) {
		r.Get("/", s.getTransformLog)
		r.Put("/", s.configureTransformLog)
		r.Post("/replay", s.replay)
	})

	r.Post("/script", s.runScript)
	return r
}

// instrument logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", elapsed)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
