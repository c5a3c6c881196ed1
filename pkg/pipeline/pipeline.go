// Package pipeline provides the cached load → execute → export pipeline.
//
// Every surface (CLI, API, TUI) answers a view query the same way: resolve
// a dataset reference into a snapshot, run the query through the engine,
// render the selected subgraph. This package owns that flow so all entry
// points share one implementation and one set of cache keys.
//
// # Architecture
//
// A run moves through three stages:
//
//  1. Load: resolve a dataset reference (file path or URL) into a snapshot
//  2. Execute: run the query through the engine
//  3. Export: render the result subgraph in the requested formats
//
// Stages also run individually, and each consults the cache before doing
// work: datasets under their source reference, results under (fingerprint,
// query, budget), artifacts under (fingerprint, query, format, styling).
//
// # Usage
//
// A Runner carries the cache, keyer, and logger across runs:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dataset: "data/roadmap.json",
//	    Query:   query.NewCategoryQuery("frontend"),
//	    Formats: []export.Format{export.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[export.FormatSVG]
//
// Individual stages:
//
//	snap, err := runner.Load(ctx, opts)
//	res, hit, err := runner.ExecuteWithCacheInfo(ctx, exec, fingerprint, opts)
//	artifacts, hit, err := runner.ExportWithCacheInfo(ctx, snap, fingerprint, res, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathlens/pathlens/pkg/cache"
	"github.com/pathlens/pathlens/pkg/engine"
	"github.com/pathlens/pathlens/pkg/export"
	"github.com/pathlens/pathlens/pkg/query"
)

// =============================================================================
// Defaults Shared by CLI, API, and TUI
// =============================================================================

// DefaultVisitBudget caps focus traversals run through the pipeline. This is
// intentionally tighter than the engine's own default (unbounded) so that a
// pathological share URL cannot walk an arbitrarily large graph on a server.
// Callers can raise it, or set a negative budget to disable the cap.
const DefaultVisitBudget = 10000

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one pipeline run. The struct is JSON-serializable so
// API requests can carry it directly.
type Options struct {
	// Load options
	Dataset string `json:"dataset"`           // file path or http(s) URL
	Refresh bool   `json:"refresh,omitempty"` // bypass cache reads

	// Query options
	Query       query.ViewQuery `json:"query"`
	VisitBudget int             `json:"visit_budget,omitempty"`

	// Export options. An empty Formats list skips the export stage.
	Formats  []export.Format `json:"formats,omitempty"`
	Detailed bool            `json:"detailed,omitempty"`
	Scale    float64         `json:"scale,omitempty"`

	// Runtime-only fields, never serialized
	Logger *log.Logger `json:"-"`

	// validated is set once defaults have been applied.
	validated bool `json:"-"`
}

// Result bundles everything a pipeline run produced.
type Result struct {
	// QueryResult is the answer to the executed query.
	QueryResult *engine.Result

	// Artifacts holds the rendered outputs keyed by format.
	Artifacts map[export.Format][]byte

	// Fingerprint is the content hash of the loaded dataset.
	Fingerprint string

	// Stats carries per-stage timings and graph size.
	Stats Stats

	// CacheInfo records which stages were answered from cache.
	CacheInfo CacheInfo
}

// Stats carries per-stage timings and the size of the loaded graph.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	ExecuteTime time.Duration
	ExportTime  time.Duration
}

// CacheInfo records cache hits per pipeline stage.
type CacheInfo struct {
	DatasetHit bool // Whether the dataset came from cache (URL loads only)
	ResultHit  bool // Whether the execution result came from cache
	ExportHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Format Validation
// =============================================================================

// ValidateFormat checks that an export format is supported.
func ValidateFormat(format export.Format) error {
	if !format.Valid() {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, pdf, png)", string(format))
	}
	return nil
}

// ValidateFormats rejects the first unsupported format in the list.
func ValidateFormats(formats []export.Format) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Option Helpers
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it again after a successful pass is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetQueryDefaults()
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for dataset loading.
func (o *Options) ValidateForLoad() error {
	if o.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetQueryDefaults sets default values for query execution.
func (o *Options) SetQueryDefaults() {
	if o.VisitBudget == 0 {
		o.VisitBudget = DefaultVisitBudget
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates formats for the export stage. An empty format
// list is valid and means nothing gets rendered.
func (o *Options) ValidateForExport() error {
	return ValidateFormats(o.Formats)
}

// IsRemote reports whether the dataset reference is an http(s) URL rather
// than a local file path.
func (o *Options) IsRemote() bool {
	return strings.HasPrefix(o.Dataset, "http://") || strings.HasPrefix(o.Dataset, "https://")
}

// EngineBudget maps the pipeline budget knob onto the engine config value:
// a negative budget disables the cap entirely.
func (o *Options) EngineBudget() int {
	if o.VisitBudget < 0 {
		return 0
	}
	return o.VisitBudget
}

// ResultKeyOpts returns cache key options for the execution result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Query:       o.queryJSON(),
		VisitBudget: o.VisitBudget,
	}
}

// ExportKeyOpts returns cache key options for one rendered artifact.
func (o *Options) ExportKeyOpts(format export.Format) cache.ExportKeyOpts {
	return cache.ExportKeyOpts{
		Format:   string(format),
		Query:    o.queryJSON(),
		Detailed: o.Detailed,
		Scale:    o.Scale,
	}
}

// queryJSON returns the canonical JSON of the query for cache keys. The URL
// encoding will not do here: it deliberately drops pagination and traversal
// detail, and those must not collide in the cache.
func (o *Options) queryJSON() string {
	data, err := json.Marshal(o.Query)
	if err != nil {
		return ""
	}
	return string(data)
}
