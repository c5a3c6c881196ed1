package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathlens/pathlens/pkg/cache"
	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
	"github.com/pathlens/pathlens/pkg/export"
	"github.com/pathlens/pathlens/pkg/observability"
)

// A Runner executes pipeline runs against a shared cache. It holds no
// per-run state, so one Runner can serve concurrent runs with different
// options: the CLI builds one per invocation, the API server keeps a
// single long-lived instance.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner builds a Runner. Nil arguments select defaults: a NullCache
// (caching off), a DefaultKeyer, and the package-level logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute runs all three stages in order, recording per-stage timings and
// cache outcomes on the returned Result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[export.Format][]byte),
	}

	loadStart := time.Now()
	snap, datasetHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Fingerprint = snap.Fingerprint()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = snap.NodeCount()
	result.Stats.EdgeCount = snap.EdgeCount()
	result.CacheInfo.DatasetHit = datasetHit

	r.Logger.Info("loaded dataset",
		"nodes", snap.NodeCount(),
		"edges", snap.EdgeCount(),
		"duration", result.Stats.LoadTime)

	exec := engine.New(snap, &engine.Config{
		Logger:      opts.Logger,
		VisitBudget: opts.EngineBudget(),
	})

	execStart := time.Now()
	res, resultHit, err := r.ExecuteWithCacheInfo(ctx, exec, result.Fingerprint, opts)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	result.QueryResult = res
	result.Stats.ExecuteTime = time.Since(execStart)
	result.CacheInfo.ResultHit = resultHit

	r.Logger.Info("executed query",
		"matched", res.TotalCount,
		"returned", len(res.NodeIDs),
		"duration", result.Stats.ExecuteTime)

	// The export stage only runs when formats were requested.
	if len(opts.Formats) > 0 {
		exportStart := time.Now()
		artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, snap, result.Fingerprint, res, opts)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.ExportTime = time.Since(exportStart)
		result.CacheInfo.ExportHit = exportHit

		r.Logger.Info("rendered exports",
			"formats", opts.Formats,
			"duration", result.Stats.ExportTime)
	}

	return result, nil
}

// LoadWithCacheInfo loads a dataset and reports whether it was served from
// cache. Local files skip the cache entirely: the filesystem is already
// local, and a stale copy would shadow edits to the file.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*concept.Snapshot, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if !opts.IsRemote() {
		snap, err := Load(ctx, opts)
		return snap, false, err
	}

	cacheKey := r.Keyer.DatasetKey(opts.Dataset)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snap, derr := decodeDataset(opts.Dataset, data); derr == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return snap, true, nil
			}
			// Undecodable cached bytes fall through to a fresh fetch.
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	data, err := fetchDataset(ctx, opts.Dataset)
	if err != nil {
		return nil, false, err
	}
	snap, err := decodeDataset(opts.Dataset, data)
	if err != nil {
		return nil, false, err
	}

	// Cache the raw payload, not the snapshot: the codec is cheap and the
	// bytes stay valid across snapshot format changes.
	_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDataset)
	observability.Cache().OnCacheSet(ctx, "dataset", len(data))

	return snap, false, nil
}

// Load calls LoadWithCacheInfo and drops the hit flag.
func (r *Runner) Load(ctx context.Context, opts Options) (*concept.Snapshot, error) {
	snap, _, err := r.LoadWithCacheInfo(ctx, opts)
	return snap, err
}

// ExecuteWithCacheInfo runs the query and reports whether the result came
// from cache. The executor is passed in rather than built here so servers
// can keep one indexed executor across many requests.
func (r *Runner) ExecuteWithCacheInfo(ctx context.Context, exec *engine.Executor, fingerprint string, opts Options) (*engine.Result, bool, error) {
	opts.SetQueryDefaults()
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ResultKey(fingerprint, opts.ResultKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var res engine.Result
			if err := json.Unmarshal(data, &res); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return &res, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	res := exec.Execute(opts.Query)

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLResult)
		observability.Cache().OnCacheSet(ctx, "result", len(data))
	}

	return res, false, nil
}

// ExportWithCacheInfo renders the requested formats. The hit flag is true
// only when every format came from the cache; a single missing format
// re-renders all of them.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, src concept.Source, fingerprint string, res *engine.Result, opts Options) (map[export.Format][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if len(opts.Formats) == 0 {
		return map[export.Format][]byte{}, false, nil
	}

	if !opts.Refresh {
		allCached := true
		artifacts := make(map[export.Format][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ExportKey(fingerprint, opts.ExportKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "export")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "export")
	}

	rendered := make(map[export.Format][]byte, len(opts.Formats))
	exportOpts := export.Options{Detailed: opts.Detailed, Scale: opts.Scale}

	for _, format := range opts.Formats {
		data, err := export.Render(ctx, src, res, format, exportOpts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data

		cacheKey := r.Keyer.ExportKey(fingerprint, opts.ExportKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLExport)
		observability.Cache().OnCacheSet(ctx, "export", len(data))
	}

	return rendered, false, nil
}

// Export calls ExportWithCacheInfo and drops the hit flag.
func (r *Runner) Export(ctx context.Context, src concept.Source, fingerprint string, res *engine.Result, opts Options) (map[export.Format][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, src, fingerprint, res, opts)
	return artifacts, err
}

// Close shuts down the cache backend.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger fills in the runner's logger when the options carry none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
