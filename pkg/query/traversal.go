package query

import (
	"encoding/json"
	"fmt"
)

// Direction selects which edges a traversal walks from each node.
type Direction string

// Traversal directions. Up walks toward prerequisites, down toward
// dependents, both walks the union.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionBoth Direction = "both"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionBoth:
		return true
	}
	return false
}

// Unbounded marks a traversal with no depth limit.
const Unbounded = -1

// TraversalSpec configures focus-mode subgraph isolation: a breadth-first
// walk rooted at StartNodeID. Nodes reached at exactly MaxDepth are included
// but not expanded further. An empty EdgeTypes walks every edge type.
type TraversalSpec struct {
	StartNodeID  string    `json:"startNodeId"`
	Direction    Direction `json:"direction"`
	MaxDepth     int       `json:"maxDepth"`
	IncludeStart bool      `json:"includeStart"`
	EdgeTypes    []string  `json:"edgeTypes,omitempty"`
}

// UnmarshalJSON decodes a spec with the documented defaults: direction
// both, unbounded depth, start node included. Only keys present in the
// JSON override them.
func (t *TraversalSpec) UnmarshalJSON(data []byte) error {
	type plain TraversalSpec
	tmp := plain{
		Direction:    DirectionBoth,
		MaxDepth:     Unbounded,
		IncludeStart: true,
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return fmt.Errorf("query: malformed traversal: %w", err)
	}
	*t = TraversalSpec(tmp)
	return nil
}
