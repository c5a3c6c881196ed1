// Package metrics exposes Prometheus collectors for the pathlens server and
// wires them into the observability hooks.
//
// Collectors register on the default Prometheus registry through promauto,
// so they are visible on /metrics as soon as this package is imported. The
// hook adapters are installed explicitly with Register: instrumentation is a
// decision the server makes at startup, not a side effect of the library
// packages.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pathlens/pathlens/pkg/observability"
)

var (
	// HTTP surface, labeled by method, route pattern, and status code.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathlens_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Query engine, labeled by execution mode (browse, focus, comparison,
	// skill_gap).
	queryExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_query_executions_total",
			Help: "Total number of query executions",
		},
		[]string{"mode"},
	)

	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathlens_query_duration_seconds",
			Help:    "Duration of query executions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"mode"},
	)

	queryResultNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathlens_query_result_nodes",
			Help:    "Number of nodes in the returned result page",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	traversalVisited = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathlens_traversal_visited_nodes",
			Help:    "Number of nodes visited by a focus traversal",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	traversalTruncatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathlens_traversal_truncated_total",
			Help: "Total number of traversals stopped at the visit budget",
		},
	)

	// Cache, labeled by content type (dataset, result, export).
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	cacheSetBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_cache_set_bytes_total",
			Help: "Total bytes written to the cache",
		},
		[]string{"key_type"},
	)

	// Saved-view storage, labeled by backend (memory, file, mongo).
	viewsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_views_saved_total",
			Help: "Total number of saved-view writes",
		},
		[]string{"backend"},
	)

	viewsDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_views_deleted_total",
			Help: "Total number of saved-view deletions",
		},
		[]string{"backend"},
	)

	storeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathlens_store_errors_total",
			Help: "Total number of failed saved-view storage operations",
		},
		[]string{"backend", "op"},
	)
)

// Register installs the Prometheus-backed hook adapters into the global
// observability registry. Call once at server startup.
func Register() {
	observability.SetQueryHooks(queryHooks{})
	observability.SetCacheHooks(cacheHooks{})
	observability.SetStoreHooks(storeHooks{})
}

type queryHooks struct{}

func (queryHooks) OnExecuteStart(mode string) {
	queryExecutionsTotal.WithLabelValues(mode).Inc()
}

func (queryHooks) OnExecuteComplete(mode string, resultNodes int, d time.Duration) {
	queryDuration.WithLabelValues(mode).Observe(d.Seconds())
	queryResultNodes.Observe(float64(resultNodes))
}

func (queryHooks) OnTraversal(visited int, truncated bool, _ time.Duration) {
	traversalVisited.Observe(float64(visited))
	if truncated {
		traversalTruncatedTotal.Inc()
	}
}

type cacheHooks struct{}

func (cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheSetBytes.WithLabelValues(keyType).Add(float64(size))
}

type storeHooks struct{}

func (storeHooks) OnViewSaved(_ context.Context, backend string) {
	viewsSavedTotal.WithLabelValues(backend).Inc()
}

func (storeHooks) OnViewDeleted(_ context.Context, backend string) {
	viewsDeletedTotal.WithLabelValues(backend).Inc()
}

func (storeHooks) OnStoreError(_ context.Context, backend, op string, _ error) {
	storeErrorsTotal.WithLabelValues(backend, op).Inc()
}

// Middleware records request counts and latencies. The path label uses the
// chi route pattern, not the raw URL, so /api/v1/views/{id} stays a single
// series no matter how many ids pass through it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
	})
}

// statusRecorder captures the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
