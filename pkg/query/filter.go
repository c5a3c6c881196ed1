package query

import (
	"encoding/json"
	"fmt"
	"slices"
)

// FilterOp is a leaf comparison operator.
type FilterOp string

// Comparison operators. Equality and membership work on any scalar type;
// the ordered operators apply to numbers and strings only, with no
// cross-type coercion.
const (
	OpEq  FilterOp = "eq"
	OpNeq FilterOp = "neq"
	OpIn  FilterOp = "in"
	OpNin FilterOp = "nin"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
)

// Valid reports whether op is a known comparison operator.
func (op FilterOp) Valid() bool {
	switch op {
	case OpEq, OpNeq, OpIn, OpNin, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// GroupOp combines the results of a group's child nodes.
type GroupOp string

// Group combinators.
const (
	GroupAnd GroupOp = "and"
	GroupOr  GroupOp = "or"
)

// FilterClause is a single field comparison, e.g. estimatedHours lte 10.
// Value holds whatever JSON decoded it to: string, float64, bool, or a
// []any of those for in/nin.
type FilterClause struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"operator"`
	Value any      `json:"value,omitempty"`
}

// FilterGroup combines child nodes under and/or. Groups nest arbitrarily.
// A group with no clauses matches every node.
type FilterGroup struct {
	Operator GroupOp      `json:"operator"`
	Clauses  []FilterNode `json:"clauses"`
}

// FilterNode is a sum of clause and group: exactly one of the two fields is
// set. The JSON form is the bare clause or group object; the decoder tells
// them apart by shape (clauses carry "field", groups carry "operator").
type FilterNode struct {
	Clause *FilterClause
	Group  *FilterGroup
}

// Clause wraps a leaf comparison in a FilterNode.
func Clause(field string, op FilterOp, value any) FilterNode {
	return FilterNode{Clause: &FilterClause{Field: field, Op: op, Value: value}}
}

// Group wraps nested nodes in a FilterNode.
func Group(op GroupOp, clauses ...FilterNode) FilterNode {
	return FilterNode{Group: &FilterGroup{Operator: op, Clauses: clauses}}
}

// And builds a top-level and-group.
func And(clauses ...FilterNode) *FilterGroup {
	return &FilterGroup{Operator: GroupAnd, Clauses: clauses}
}

// Or builds a top-level or-group.
func Or(clauses ...FilterNode) *FilterGroup {
	return &FilterGroup{Operator: GroupOr, Clauses: clauses}
}

// MarshalJSON emits the wrapped clause or group directly, without an
// envelope.
func (n FilterNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.Clause != nil:
		return json.Marshal(n.Clause)
	case n.Group != nil:
		return json.Marshal(n.Group)
	}
	return nil, fmt.Errorf("query: filter node has neither clause nor group")
}

// UnmarshalJSON decides clause versus group by which keys the object
// carries, then decodes the matching arm. Both shapes carry "operator", so
// the presence of "field" is what marks a clause.
func (n *FilterNode) UnmarshalJSON(data []byte) error {
	var probe struct {
		Field    *string `json:"field"`
		Operator *string `json:"operator"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("query: malformed filter node: %w", err)
	}
	switch {
	case probe.Field != nil:
		var c FilterClause
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("query: malformed filter clause: %w", err)
		}
		*n = FilterNode{Clause: &c}
	case probe.Operator != nil:
		var g FilterGroup
		if err := json.Unmarshal(data, &g); err != nil {
			return fmt.Errorf("query: malformed filter group: %w", err)
		}
		*n = FilterNode{Group: &g}
	default:
		return fmt.Errorf("query: filter node is neither clause nor group")
	}
	return nil
}

func (g FilterGroup) clone() FilterGroup {
	out := FilterGroup{Operator: g.Operator}
	if g.Clauses != nil {
		out.Clauses = make([]FilterNode, len(g.Clauses))
		for i, n := range g.Clauses {
			out.Clauses[i] = n.clone()
		}
	}
	return out
}

func (n FilterNode) clone() FilterNode {
	var out FilterNode
	if n.Clause != nil {
		c := *n.Clause
		if vs, ok := c.Value.([]any); ok {
			c.Value = slices.Clone(vs)
		}
		out.Clause = &c
	}
	if n.Group != nil {
		g := n.Group.clone()
		out.Group = &g
	}
	return out
}
