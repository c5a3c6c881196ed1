// Package pkg provides the core libraries for pathlens learning-path
// exploration.
//
// # Overview
//
// Pathlens answers declarative view queries over a learning-concept graph:
// which concepts to show, how far to walk the prerequisite structure, and
// how to page and aggregate the result. Every view is expressible as a URL,
// so any result can be shared as a link and reproduced exactly. The pkg
// directory is organized into three main areas:
//
//  1. Domain: [concept], [query], [engine] (the graph, the view language,
//     and its executor)
//  2. Orchestration: [pipeline], [cache], [viewstore], [export]
//  3. Support: [errors], [httputil], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow through pathlens:
//
//	Dataset (JSON/YAML file or URL)
//	         ↓
//	    [concept] package (validate + snapshot)
//	         ↓
//	    [query] package (describe the view)
//	         ↓
//	    [engine] package (filter → traverse → join → sort → page)
//	         ↓
//	    Result page / share URL / SVG export
//
// # Quick Start
//
// Load a dataset, execute a focus query, and build a share link:
//
//	import (
//	    "github.com/pathlens/pathlens/pkg/concept"
//	    "github.com/pathlens/pathlens/pkg/engine"
//	    "github.com/pathlens/pathlens/pkg/query"
//	)
//
//	// 1. Load the graph
//	snap, _ := concept.LoadFile("roadmap.json")
//
//	// 2. Describe the view
//	q := query.NewFocusQuery("css-basics")
//	q.Traversal.MaxDepth = 2
//
//	// 3. Execute
//	exec := engine.New(snap, nil)
//	res := exec.Execute(q)
//
//	// 4. Share it
//	url := query.ShareURL("https://pathlens.dev/view", q)
//
// # Main Packages
//
// ## Domain
//
// [concept] - The learning-concept graph: nodes, prerequisite edges, the
// read-only Source contract, an immutable adjacency-indexed Snapshot, a
// JSON/YAML dataset codec, and prerequisite-cycle reporting.
//
// [query] - The ViewQuery value type and everything that manipulates it:
// builders for common views, composition, URL round-tripping (individual
// parameters plus a versioned blob form), equality, and field-level diffs.
// Decoding is fail-closed: malformed input yields the empty query.
//
// [engine] - Query execution against one snapshot. The fixed pipeline
// filters, runs bounded BFS traversals from a focus concept, joins one-hop
// neighborhoods with set algebra, then sorts, paginates, and aggregates.
// Numeric fields are range-scanned via B-tree indexes built at construction.
//
// ## Orchestration
//
// [pipeline] - The load, execute, export flow shared by CLI and API, with
// cache lookups at each stage. A Runner owns the cache and keyer; Options
// carries the dataset reference, query, and export settings.
//
// [cache] - Result caching behind one interface: in-memory LRU, on-disk
// file cache, Redis, and a null cache for opting out.
//
// [viewstore] - Saved views (named queries) behind one interface: memory,
// JSON file, and MongoDB implementations.
//
// [export] - Rendering results as DOT, SVG, PDF, and PNG via Graphviz.
//
// ## Support
//
// [errors] - Coded errors shared across the module; codes map to HTTP
// status and CLI exit codes.
//
// [httputil] - Remote dataset fetching with retry, backoff, and body-size
// limits.
//
// [observability] - Process-wide hook points (query, cache, view store)
// that metrics backends register into; defaults are no-ops.
//
// [buildinfo] - Version, commit, and build date stamped via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/engine/...    # Specific package
//	go test -run Example        # Examples only
//
// [concept]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/concept
// [query]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/query
// [engine]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/engine
// [pipeline]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/cache
// [viewstore]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/viewstore
// [export]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/export
// [errors]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/pathlens/pathlens/pkg/buildinfo
package pkg
