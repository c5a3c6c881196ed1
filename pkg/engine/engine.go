// Package engine executes ViewQuery values against a concept graph.
//
// This package implements the complete filter → traverse → join → sort →
// paginate pipeline shared by the CLI, API, and TUI components. By
// centralizing this logic, we ensure every entry point answers a query
// identically and URL round-trips stay faithful to in-process execution.
//
// # Architecture
//
// The pipeline runs fixed stages over a shrinking id set:
//
//  1. Filter: category → status → progressionLevel → search → filter tree
//  2. Traverse: focus-mode BFS, intersected with the filtered set
//  3. Join: path-comparison set algebra, intersected with the working set
//  4. Finish: capture total count, sort, paginate, aggregate stats
//
// Stage order is load-bearing: pagination applies only after everything
// else, and the total count is captured before sorting and slicing.
//
// # Usage
//
// Create an Executor over a data source and run queries:
//
//	exec := engine.New(snapshot, nil)
//	result := exec.Execute(query.NewCategoryQuery("frontend"))
//	for _, id := range result.NodeIDs {
//	    ...
//	}
//
// An Executor indexes the source once at construction and never mutates it
// afterwards, so any number of goroutines may call Execute concurrently.
// Refreshing the graph means building a new Executor over the new snapshot;
// in-flight queries keep seeing the old one.
package engine

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/btree"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/observability"
	"github.com/pathlens/pathlens/pkg/query"
)

// Config tunes an Executor. The zero value (or a nil pointer) gives an
// unbounded executor with the default logger.
type Config struct {
	// Logger receives per-execution debug lines. Defaults to log.Default().
	Logger *log.Logger

	// VisitBudget caps how many nodes a single traversal may visit before
	// it stops and marks the result truncated. Zero means no cap.
	VisitBudget int
}

// halfEdge is one adjacency entry: the node on the other end of an edge
// plus the edge's type tag.
type halfEdge struct {
	id  string
	typ string
}

// Executor answers ViewQuery executions against one immutable graph
// snapshot. All indexes are built in New; Execute only reads.
type Executor struct {
	nodes []concept.Node
	ids   []string // node ids in source order
	byID  map[string]concept.Node

	outgoing map[string][]halfEdge // from -> {to, type}
	incoming map[string][]halfEdge // to -> {from, type}

	hoursIdx *btree.BTreeG[numItem]
	levelIdx *btree.BTreeG[numItem]

	logger *log.Logger
	budget int
}

// New builds an Executor over src. The source is read exactly once, so a
// torn graph refresh can never be observed mid-query; hand New a fully
// formed snapshot and swap executors atomically to pick up new data.
func New(src concept.Source, cfg *Config) *Executor {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	nodes := src.Nodes()
	e := &Executor{
		nodes:    nodes,
		ids:      make([]string, 0, len(nodes)),
		byID:     make(map[string]concept.Node, len(nodes)),
		outgoing: make(map[string][]halfEdge),
		incoming: make(map[string][]halfEdge),
		hoursIdx: btree.NewBTreeG[numItem](numItemLess),
		levelIdx: btree.NewBTreeG[numItem](numItemLess),
		logger:   logger,
		budget:   cfg.VisitBudget,
	}
	for _, n := range nodes {
		e.ids = append(e.ids, n.ID)
		e.byID[n.ID] = n
		e.hoursIdx.Set(numItem{Value: n.EstimatedHours, ID: n.ID})
		e.levelIdx.Set(numItem{Value: float64(n.ProgressionLevel), ID: n.ID})
	}
	for _, edge := range src.Edges() {
		e.outgoing[edge.From] = append(e.outgoing[edge.From], halfEdge{id: edge.To, typ: edge.Type})
		e.incoming[edge.To] = append(e.incoming[edge.To], halfEdge{id: edge.From, typ: edge.Type})
	}
	return e
}

// NodeCount returns the number of nodes in the indexed snapshot.
func (e *Executor) NodeCount() int { return len(e.nodes) }

// Node returns the indexed node for id.
func (e *Executor) Node(id string) (concept.Node, bool) {
	n, ok := e.byID[id]
	return n, ok
}

// Execute runs the full pipeline for q and returns the result. It is a
// pure function of the indexed snapshot and the query: no mutation, no
// I/O, and identical output for identical input. It never fails; malformed
// query fragments simply match nothing.
func (e *Executor) Execute(q query.ViewQuery) *Result {
	start := time.Now()
	mode := Mode(q)
	observability.Query().OnExecuteStart(mode)

	working := e.ids
	working = e.filterCategory(working, q.Category)
	working = e.filterStatus(working, q.Status)
	working = e.filterLevels(working, q.ProgressionLevel)
	working = e.filterSearch(working, q.Search)
	if q.Filters != nil {
		working = retain(working, e.evalGroup(q.Filters, toSet(working)))
	}

	res := &Result{Query: q}

	if q.FocusMode && q.Traversal != nil && q.Traversal.StartNodeID != "" {
		path, truncated := e.traverse(*q.Traversal)
		res.IsFocused = true
		res.FocusPath = path
		res.Truncated = truncated
		working = retain(working, toSet(path))
	}

	if joined, ok := e.joinSet(q); ok {
		working = retain(working, joined)
	}

	res.TotalCount = len(working)
	working = e.sortIDs(working, q.SortBy, q.SortDirection)
	res.NodeIDs = paginate(working, q.Offset, q.Limit)
	res.Stats = e.stats(res.NodeIDs)

	dur := time.Since(start)
	observability.Query().OnExecuteComplete(mode, len(res.NodeIDs), dur)
	e.logger.Debug("executed query",
		"mode", mode,
		"total", res.TotalCount,
		"returned", len(res.NodeIDs),
		"duration", dur)
	return res
}

// Mode classifies a query for logging and metrics.
func Mode(q query.ViewQuery) string {
	switch {
	case q.SkillGapMode:
		return "skill_gap"
	case q.FocusMode:
		return "focus"
	case q.Join != nil || len(q.ComparePaths) > 0:
		return "comparison"
	default:
		return "browse"
	}
}

// paginate slices ids by offset and limit. A non-positive limit means no
// limit; an offset past the end yields an empty page.
func paginate(ids []string, offset, limit int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []string{}
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

// stats aggregates status counts and summed hours over the given page.
func (e *Executor) stats(ids []string) Stats {
	var s Stats
	for _, id := range ids {
		n, ok := e.byID[id]
		if !ok {
			continue
		}
		s.TotalNodes++
		s.TotalHours += n.EstimatedHours
		switch n.Status {
		case concept.StatusCompleted:
			s.CompletedNodes++
		case concept.StatusInProgress:
			s.InProgressNodes++
		case concept.StatusAvailable:
			s.AvailableNodes++
		case concept.StatusLocked:
			s.LockedNodes++
		}
	}
	return s
}
