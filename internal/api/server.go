// Package api serves the pathlens HTTP API.
//
// The server answers queries over a single immutable graph snapshot loaded
// at startup. Query input arrives either as URL parameters (the share-link
// form) or as a JSON body, and both decode fail-closed: malformed input runs
// the empty query rather than producing an error response. Endpoints that
// mutate saved views validate loudly instead.
//
// # Endpoints
//
//	GET    /api/v1/query        execute a query from URL parameters
//	POST   /api/v1/query        execute a query from a JSON body
//	GET    /api/v1/share        build or parse share links
//	GET    /api/v1/graph/stats  whole-graph shape and counts
//	GET    /api/v1/insights     estimated-hour aggregates
//	GET    /api/v1/views        list saved views
//	POST   /api/v1/views        create a saved view
//	GET    /api/v1/views/{id}   fetch a saved view
//	PUT    /api/v1/views/{id}   replace a saved view
//	DELETE /api/v1/views/{id}   delete a saved view
//	GET    /healthz             liveness and graph shape
//	GET    /metrics             Prometheus metrics (when enabled)
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pathlens/pathlens/internal/api/metrics"
	"github.com/pathlens/pathlens/pkg/cache"
	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
	pkgerrors "github.com/pathlens/pathlens/pkg/errors"
	"github.com/pathlens/pathlens/pkg/pipeline"
	"github.com/pathlens/pathlens/pkg/viewstore"
)

// Options configures the server.
type Options struct {
	// Snapshot is the concept graph to serve. Required.
	Snapshot *concept.Snapshot

	// Views backs the saved-view endpoints. Required.
	Views viewstore.Store

	// Cache backs the query-result cache. Nil disables caching.
	Cache cache.Cache

	// Listen is the bind address, e.g. ":8080".
	Listen string

	// BaseURL is the public base for generated share links. When empty,
	// links are built from the incoming request's host.
	BaseURL string

	// Metrics enables the Prometheus middleware and the /metrics endpoint.
	Metrics bool

	// VisitBudget caps focus-traversal work per query. Zero uses the
	// pipeline default; negative removes the cap.
	VisitBudget int

	// Logger receives request and lifecycle logs. Defaults to a silent
	// logger.
	Logger *log.Logger
}

func (o *Options) validate() error {
	if o.Snapshot == nil {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "snapshot is required")
	}
	if o.Views == nil {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "view store is required")
	}
	if o.BaseURL != "" {
		if err := pkgerrors.ValidateBaseURL(o.BaseURL); err != nil {
			return err
		}
	}
	if o.Listen == "" {
		o.Listen = ":8080"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Server hosts the HTTP API over one immutable snapshot. The executor is
// built once at construction and shared by every request; queries are pure
// reads, so no locking is needed.
type Server struct {
	snap        *concept.Snapshot
	exec        *engine.Executor
	runner      *pipeline.Runner
	views       viewstore.Store
	fingerprint string
	baseURL     string
	budget      int
	logger      *log.Logger
	httpSrv     *http.Server
}

// New builds a server and its router.
func New(opts Options) (*Server, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.Metrics {
		metrics.Register()
	}

	po := pipeline.Options{VisitBudget: opts.VisitBudget}
	po.SetQueryDefaults()

	s := &Server{
		snap: opts.Snapshot,
		exec: engine.New(opts.Snapshot, &engine.Config{
			Logger:      opts.Logger,
			VisitBudget: po.EngineBudget(),
		}),
		runner:      pipeline.NewRunner(opts.Cache, nil, opts.Logger),
		views:       opts.Views,
		fingerprint: opts.Snapshot.Fingerprint(),
		baseURL:     opts.BaseURL,
		budget:      po.VisitBudget,
		logger:      opts.Logger,
	}
	s.httpSrv = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.routes(opts.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// routes assembles the router. Recovery is outermost so panics anywhere in
// the chain still produce a response.
func (s *Server) routes(metricsEnabled bool) http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverPanics)
	r.Use(s.logRequests)
	if metricsEnabled {
		r.Use(metrics.Middleware)
	}

	r.Get("/healthz", s.handleHealthz)
	if metricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/query", s.handleQueryGet)
		r.Post("/query", s.handleQueryPost)
		r.Get("/share", s.handleShare)
		r.Get("/graph/stats", s.handleGraphStats)
		r.Get("/insights", s.handleInsights)
		r.Route("/views", func(r chi.Router) {
			r.Get("/", s.handleViewList)
			r.Post("/", s.handleViewCreate)
			r.Get("/{id}", s.handleViewGet)
			r.Put("/{id}", s.handleViewUpdate)
			r.Delete("/{id}", s.handleViewDelete)
		})
	})

	return r
}

// recoverPanics converts handler panics into 500 responses.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("panic in handler",
					"error", v,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				s.writeError(w, http.StatusInternalServerError,
					pkgerrors.New(pkgerrors.ErrCodeInternal, "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request with duration and status. Probe
// endpoints log at debug so scrapes do not drown the request log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logFn := s.logger.Info
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			logFn = s.logger.Debug
		}
		logFn("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Start begins serving and blocks until the listener fails or Shutdown
// runs.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// shareBase picks the base URL for generated links.
func (s *Server) shareBase(r *http.Request) string {
	if s.baseURL != "" {
		return strings.TrimRight(s.baseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
