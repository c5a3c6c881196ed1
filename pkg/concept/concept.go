// Package concept defines the learning-concept graph consumed by the query
// engine: nodes are curriculum concepts (topics, courses, chapters), edges
// are directed prerequisite/relation links between them.
//
// The package provides the read-only [Source] contract the engine executes
// against, an immutable adjacency-indexed [Snapshot] implementation, and a
// JSON/YAML dataset codec with round-trip fidelity.
//
// Snapshots are fully materialized before any query runs. A host application
// that refreshes its graph builds a new Snapshot and swaps it atomically;
// nothing in this package mutates a snapshot after construction.
package concept

import (
	"fmt"
	"slices"
)

// Status is a concept's completion state from the learner's perspective.
type Status string

// Completion states, ordered from "done" to "not yet reachable".
const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in_progress"
	StatusAvailable  Status = "available"
	StatusLocked     Status = "locked"
)

// statusRanks orders statuses for sorting: completed < in_progress <
// available < locked. Unknown statuses sort last.
var statusRanks = map[Status]int{
	StatusCompleted:  0,
	StatusInProgress: 1,
	StatusAvailable:  2,
	StatusLocked:     3,
}

// Rank returns the sort rank of the status. Unknown statuses rank after all
// known ones.
func (s Status) Rank() int {
	if r, ok := statusRanks[s]; ok {
		return r
	}
	return len(statusRanks)
}

// Valid reports whether s is one of the four known completion states.
func (s Status) Valid() bool {
	_, ok := statusRanks[s]
	return ok
}

// EdgeTypePrerequisite is the edge type used for prerequisite links.
// Datasets may define additional types (e.g. "related", "extends").
const EdgeTypePrerequisite = "prerequisite"

// Node is a single curriculum concept. Nodes are immutable from the engine's
// perspective: queries reference them by ID only and never hold live
// pointers into a snapshot.
type Node struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category         string   `json:"category,omitempty" yaml:"category,omitempty"`
	Status           Status   `json:"status" yaml:"status"`
	ProgressionLevel int      `json:"progressionLevel" yaml:"progressionLevel"`
	EstimatedHours   float64  `json:"estimatedHours" yaml:"estimatedHours"`
	Skills           []string `json:"skills,omitempty" yaml:"skills,omitempty"`
}

// Edge is a directed link between two concepts. Multiple edges between the
// same pair are permitted as long as their types differ.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Source is the read-only graph contract the query engine consumes.
// Implementations must be safe for concurrent readers; the engine never
// mutates a source and requires no graph access beyond these five methods.
type Source interface {
	// Nodes returns all nodes. The slice must not be mutated by callers.
	Nodes() []Node

	// NodeByID returns the node with the given id, if present.
	NodeByID(id string) (Node, bool)

	// Edges returns all edges. The slice must not be mutated by callers.
	Edges() []Edge

	// Prerequisites returns the nodes with an edge terminating at id
	// (the concepts that must come before it).
	Prerequisites(id string) []Node

	// Dependents returns the nodes with an edge originating from id
	// (the concepts unlocked by it).
	Dependents(id string) []Node
}

// Validation errors for dataset construction.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid graph: " + e.Reason }

// validate checks structural integrity of a node/edge set before a snapshot
// is built: unique non-empty ids, known statuses, non-negative hours, and
// edge endpoints that exist.
func validate(nodes []Node, edges []Edge) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return &ValidationError{Reason: "node with empty id"}
		}
		if _, dup := seen[n.ID]; dup {
			return &ValidationError{Reason: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		seen[n.ID] = struct{}{}
		if n.Status != "" && !n.Status.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("node %q has unknown status %q", n.ID, n.Status)}
		}
		if n.EstimatedHours < 0 {
			return &ValidationError{Reason: fmt.Sprintf("node %q has negative estimatedHours", n.ID)}
		}
	}
	for _, e := range edges {
		if _, ok := seen[e.From]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("edge %s→%s references unknown source node", e.From, e.To)}
		}
		if _, ok := seen[e.To]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("edge %s→%s references unknown target node", e.From, e.To)}
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node, preserving order.
func NodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// SortedNodeIDs returns all node ids of a source in ascending order.
// Useful for deterministic output in tests and exports.
func SortedNodeIDs(src Source) []string {
	ids := NodeIDs(src.Nodes())
	slices.Sort(ids)
	return ids
}
