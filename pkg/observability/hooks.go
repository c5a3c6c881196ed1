// Package observability provides hook points for instrumenting query
// execution, cache traffic, and saved-view storage.
//
// Hook interfaces have no-op defaults, so the library packages emit events
// unconditionally and pay nothing unless a backend is registered. main
// registers concrete hooks once at startup; library packages never import
// a metrics framework directly. The prometheus adapter in
// internal/api/metrics is one such backend.
//
// # Usage
//
//	func main() {
//	    observability.SetQueryHooks(&myQueryHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // start servers, run commands
//	}
//
// Emitting side:
//
//	observability.Query().OnExecuteStart(mode)
//	// ... run the query ...
//	observability.Query().OnExecuteComplete(mode, len(result.NodeIDs), time.Since(start))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// QueryHooks receives events from the query engine. The engine is pure and
// synchronous, so these carry no context.
type QueryHooks interface {
	// OnExecuteStart records the start of a query execution.
	// Mode is one of "browse", "focus", "comparison", "skill_gap".
	OnExecuteStart(mode string)

	// OnExecuteComplete records a finished execution with the size of the
	// returned page.
	OnExecuteComplete(mode string, resultNodes int, duration time.Duration)

	// OnTraversal records a focus-mode traversal: how many nodes the walk
	// visited and whether it stopped at the visit budget.
	OnTraversal(visited int, truncated bool, duration time.Duration)
}

// CacheHooks observes cache traffic from any backend. The keyType is the
// cached artifact class ("dataset", "result", "export").
type CacheHooks interface {
	// OnCacheHit fires when a lookup finds a live entry.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss fires when a lookup comes back empty.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet fires after a write, with the payload size in bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// StoreHooks receives events from saved-view storage operations.
type StoreHooks interface {
	// OnViewSaved records a view create or update against a backend
	// ("memory", "file", "mongo").
	OnViewSaved(ctx context.Context, backend string)

	// OnViewDeleted records a view deletion.
	OnViewDeleted(ctx context.Context, backend string)

	// OnStoreError records a failed storage operation.
	OnStoreError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopQueryHooks ignores all query events.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnExecuteStart(string)                        {}
func (NoopQueryHooks) OnExecuteComplete(string, int, time.Duration) {}
func (NoopQueryHooks) OnTraversal(int, bool, time.Duration)         {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks ignores all storage events.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnViewSaved(context.Context, string)                 {}
func (NoopStoreHooks) OnViewDeleted(context.Context, string)               {}
func (NoopStoreHooks) OnStoreError(context.Context, string, string, error) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one hook registration. Reads happen on every query and cache
// operation, so the registry is lock-free; writes only happen at startup
// and in tests.
type slot[T any] struct {
	v atomic.Value
}

func (s *slot[T]) set(h T) {
	s.v.Store(&h)
}

func (s *slot[T]) get(def T) T {
	if p, ok := s.v.Load().(*T); ok {
		return *p
	}
	return def
}

var (
	queryReg slot[QueryHooks]
	cacheReg slot[CacheHooks]
	storeReg slot[StoreHooks]
)

// SetQueryHooks registers query hooks. Call once at startup; nil is
// ignored.
func SetQueryHooks(h QueryHooks) {
	if h != nil {
		queryReg.set(h)
	}
}

// SetCacheHooks registers cache hooks. Call once at startup; nil is
// ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheReg.set(h)
	}
}

// SetStoreHooks registers saved-view storage hooks. Call once at startup;
// nil is ignored.
func SetStoreHooks(h StoreHooks) {
	if h != nil {
		storeReg.set(h)
	}
}

// Query returns the active query hooks, or the no-op default.
func Query() QueryHooks { return queryReg.get(NoopQueryHooks{}) }

// Cache returns the active cache hooks, or the no-op default.
func Cache() CacheHooks { return cacheReg.get(NoopCacheHooks{}) }

// Store returns the active store hooks, or the no-op default.
func Store() StoreHooks { return storeReg.get(NoopStoreHooks{}) }

// Reset restores the no-op defaults. Primarily useful in tests.
func Reset() {
	queryReg.set(NoopQueryHooks{})
	cacheReg.set(NoopCacheHooks{})
	storeReg.set(NoopStoreHooks{})
}
