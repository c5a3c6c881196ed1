package engine

import (
	"encoding/json"
	"strings"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/query"
)

// =============================================================================
// Fixed pipeline stages
// =============================================================================

func (e *Executor) filterCategory(ids []string, category string) []string {
	if category == "" {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if e.byID[id].Category == category {
			out = append(out, id)
		}
	}
	return out
}

func (e *Executor) filterStatus(ids []string, statuses query.StringList) []string {
	if len(statuses) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if statuses.Contains(string(e.byID[id].Status)) {
			out = append(out, id)
		}
	}
	return out
}

func (e *Executor) filterLevels(ids []string, levels query.IntList) []string {
	if len(levels) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if levels.Contains(e.byID[id].ProgressionLevel) {
			out = append(out, id)
		}
	}
	return out
}

// filterSearch keeps nodes whose name, description, or any skill contains
// the needle, case-insensitively.
func (e *Executor) filterSearch(ids []string, search string) []string {
	if search == "" {
		return ids
	}
	needle := strings.ToLower(search)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if nodeMatchesSearch(e.byID[id], needle) {
			out = append(out, id)
		}
	}
	return out
}

func nodeMatchesSearch(n concept.Node, needle string) bool {
	if strings.Contains(strings.ToLower(n.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Description), needle) {
		return true
	}
	for _, skill := range n.Skills {
		if strings.Contains(strings.ToLower(skill), needle) {
			return true
		}
	}
	return false
}

// =============================================================================
// Filter tree evaluation
// =============================================================================

// evalGroup resolves a filter tree to the subset of input it matches.
// Children each filter the group's input independently; an and-group
// intersects their outputs, an or-group unions them. A group with no
// clauses passes its input through untouched.
func (e *Executor) evalGroup(g *query.FilterGroup, input map[string]struct{}) map[string]struct{} {
	if g == nil || len(g.Clauses) == 0 {
		return input
	}
	var result map[string]struct{}
	for i, child := range g.Clauses {
		var childSet map[string]struct{}
		switch {
		case child.Group != nil:
			childSet = e.evalGroup(child.Group, input)
		case child.Clause != nil:
			childSet = e.evalClause(*child.Clause, input)
		default:
			childSet = map[string]struct{}{}
		}
		if i == 0 {
			result = childSet
			continue
		}
		if g.Operator == query.GroupOr {
			result = unionSets(result, childSet)
		} else {
			result = intersectSets(result, childSet)
		}
	}
	return result
}

// evalClause resolves a leaf comparison against the input set. Ordered
// comparisons on the numeric node fields are answered from the b-tree
// indexes and intersected with the input; everything else scans the input.
func (e *Executor) evalClause(c query.FilterClause, input map[string]struct{}) map[string]struct{} {
	if pivot, ok := toFloat(c.Value); ok && e.indexedField(c.Field) && indexableOp(c.Op) {
		return intersectSets(e.indexScan(c.Field, c.Op, pivot), input)
	}
	out := make(map[string]struct{})
	for id := range input {
		if e.matchClause(id, c) {
			out[id] = struct{}{}
		}
	}
	return out
}

func indexableOp(op query.FilterOp) bool {
	switch op {
	case query.OpEq, query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		return true
	}
	return false
}

// matchClause evaluates one clause against one node. A missing field makes
// every operator false except neq and nin, which are vacuously true. All
// comparisons are strict: values of different kinds never match, there is
// no coercion.
func (e *Executor) matchClause(id string, c query.FilterClause) bool {
	val, ok := fieldValue(e.byID[id], c.Field)
	switch c.Op {
	case query.OpEq:
		return ok && strictEqual(val, c.Value)
	case query.OpNeq:
		return !ok || !strictEqual(val, c.Value)
	case query.OpIn:
		return ok && memberOf(c.Value, val)
	case query.OpNin:
		return !ok || !memberOf(c.Value, val)
	case query.OpGt:
		cmp, ordered := compareOrdered(val, c.Value)
		return ok && ordered && cmp > 0
	case query.OpGte:
		cmp, ordered := compareOrdered(val, c.Value)
		return ok && ordered && cmp >= 0
	case query.OpLt:
		cmp, ordered := compareOrdered(val, c.Value)
		return ok && ordered && cmp < 0
	case query.OpLte:
		cmp, ordered := compareOrdered(val, c.Value)
		return ok && ordered && cmp <= 0
	}
	return false
}

// =============================================================================
// Value plumbing
// =============================================================================

// fieldAccessors maps each filterable wire field name to a typed accessor.
// Filters address nodes by these names only; a name outside the registry
// reports absence, as do optional fields left empty. Numeric accessors
// normalize to float64 so their values compare against any numeric literal.
var fieldAccessors = map[string]func(concept.Node) (any, bool){
	"id":     func(n concept.Node) (any, bool) { return n.ID, true },
	"name":   func(n concept.Node) (any, bool) { return n.Name, true },
	"status": func(n concept.Node) (any, bool) { return string(n.Status), true },
	"description": func(n concept.Node) (any, bool) {
		return n.Description, n.Description != ""
	},
	"category": func(n concept.Node) (any, bool) {
		return n.Category, n.Category != ""
	},
	"progressionLevel": func(n concept.Node) (any, bool) {
		return float64(n.ProgressionLevel), true
	},
	"estimatedHours": func(n concept.Node) (any, bool) { return n.EstimatedHours, true },
	"skills": func(n concept.Node) (any, bool) {
		if len(n.Skills) == 0 {
			return nil, false
		}
		return n.Skills, true
	},
}

// fieldValue resolves a filter field against a node through the accessor
// registry.
func fieldValue(n concept.Node, field string) (any, bool) {
	acc, ok := fieldAccessors[field]
	if !ok {
		return nil, false
	}
	return acc(n)
}

// toFloat normalizes any numeric kind to float64. JSON decoding produces
// float64, Go callers may pass ints.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// strictEqual compares two values of the same kind. Numbers compare
// numerically regardless of concrete numeric type; strings and bools
// compare directly; mixed kinds are never equal.
func strictEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && sa == sb
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}
	return false
}

// memberOf reports whether v strictly equals an element of list. A
// non-list value has no members.
func memberOf(list, v any) bool {
	switch items := list.(type) {
	case []any:
		for _, item := range items {
			if strictEqual(v, item) {
				return true
			}
		}
	case []string:
		for _, item := range items {
			if strictEqual(v, item) {
				return true
			}
		}
	case []int:
		for _, item := range items {
			if strictEqual(v, item) {
				return true
			}
		}
	case []float64:
		for _, item := range items {
			if strictEqual(v, item) {
				return true
			}
		}
	}
	return false
}

// compareOrdered compares two values that share an ordered kind: numbers
// numerically, strings lexicographically. The second return is false when
// the kinds differ or are unordered.
func compareOrdered(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}
	return 0, false
}
