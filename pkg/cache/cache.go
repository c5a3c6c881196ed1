// Package cache provides pluggable byte caches for query results, parsed
// datasets, and rendered exports.
//
// This package defines the Cache interface with implementations for
// different deployment shapes:
//   - memory: In-process storage for single-instance servers and tests
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for CLI usage across invocations
//   - null: Disabled caching
//
// # Keys
//
// Keys are produced by a Keyer so every component derives them the same
// way. All keys embed the dataset fingerprint: refreshing the underlying
// dataset changes the fingerprint, which invalidates stale entries without
// any explicit purge.
//
// # Usage
//
// Create a cache and derive keys:
//
//	c, err := cache.NewFileCache("~/.cache/pathlens")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ResultKey(fingerprint, cache.ResultKeyOpts{Query: queryJSON})
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement. Get reports a miss
// with hit=false rather than an error; errors are reserved for backend
// failures.
type Cache interface {
	// Get retrieves a value. hit is false when the key is absent or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value. A non-positive ttl stores it without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache TTLs per content type. Results are cheap to recompute, so they
// expire quickly; datasets and exports are costlier.
const (
	// TTLResult applies to cached query execution results.
	TTLResult = 15 * time.Minute

	// TTLDataset applies to parsed dataset snapshots fetched from remote
	// sources.
	TTLDataset = 1 * time.Hour

	// TTLExport applies to rendered artifacts (DOT, SVG).
	TTLExport = 24 * time.Hour
)

// ResultKeyOpts carries everything besides the dataset that changes a query
// execution result. Query is the canonical JSON of the query, not its URL
// form: the URL encoding deliberately drops pagination and traversal detail,
// which must not collide in the cache.
type ResultKeyOpts struct {
	Query       string `json:"query"`
	VisitBudget int    `json:"visit_budget,omitempty"`
}

// ExportKeyOpts carries everything besides the dataset that changes a
// rendered artifact.
type ExportKeyOpts struct {
	Format   string  `json:"format"`
	Query    string  `json:"query"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys. Implementations must be deterministic: the
// same inputs always yield the same key.
type Keyer interface {
	// DatasetKey identifies a fetched dataset by its source reference
	// (path or URL).
	DatasetKey(ref string) string

	// ResultKey identifies an execution result by dataset fingerprint plus
	// the options that shaped it.
	ResultKey(fingerprint string, opts ResultKeyOpts) string

	// ExportKey identifies a rendered artifact by dataset fingerprint plus
	// the options that shaped it.
	ExportKey(fingerprint string, opts ExportKeyOpts) string
}

// DefaultKeyer derives keys by hashing the inputs under a per-content-type
// prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatasetKey generates a key for a fetched dataset.
func (k *DefaultKeyer) DatasetKey(ref string) string {
	return hashKey("dataset", ref)
}

// ResultKey generates a key for a query execution result.
func (k *DefaultKeyer) ResultKey(fingerprint string, opts ResultKeyOpts) string {
	return hashKey("result", fingerprint, opts)
}

// ExportKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ExportKey(fingerprint string, opts ExportKeyOpts) string {
	return hashKey("export", fingerprint, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
