package engine

import (
	"math"

	"github.com/pathlens/pathlens/pkg/query"
)

// numItem is one entry in a numeric ordered index.
type numItem struct {
	Value float64
	ID    string
}

// numItemLess orders items by value, then by id to keep equal values
// distinct in the tree.
func numItemLess(a, b numItem) bool {
	if a.Value < b.Value {
		return true
	}
	if a.Value > b.Value {
		return false
	}
	return a.ID < b.ID
}

// indexedField reports whether clauses on this field can be answered from
// an ordered index instead of a scan.
func (e *Executor) indexedField(field string) bool {
	return field == "estimatedHours" || field == "progressionLevel"
}

// indexScan answers an ordered-comparison clause from the matching numeric
// index and returns the ids over the whole graph. Callers intersect the
// result with their current working set.
func (e *Executor) indexScan(field string, op query.FilterOp, pivot float64) map[string]struct{} {
	tree := e.hoursIdx
	if field == "progressionLevel" {
		tree = e.levelIdx
	}
	ids := make(map[string]struct{})
	switch op {
	case query.OpEq:
		tree.Ascend(numItem{Value: pivot}, func(item numItem) bool {
			if item.Value != pivot {
				return false
			}
			ids[item.ID] = struct{}{}
			return true
		})
	case query.OpLt:
		tree.Ascend(numItem{Value: math.Inf(-1)}, func(item numItem) bool {
			if item.Value >= pivot {
				return false
			}
			ids[item.ID] = struct{}{}
			return true
		})
	case query.OpLte:
		tree.Ascend(numItem{Value: math.Inf(-1)}, func(item numItem) bool {
			if item.Value > pivot {
				return false
			}
			ids[item.ID] = struct{}{}
			return true
		})
	case query.OpGt:
		tree.Descend(numItem{Value: math.Inf(+1)}, func(item numItem) bool {
			if item.Value <= pivot {
				return false
			}
			ids[item.ID] = struct{}{}
			return true
		})
	case query.OpGte:
		tree.Descend(numItem{Value: math.Inf(+1)}, func(item numItem) bool {
			if item.Value < pivot {
				return false
			}
			ids[item.ID] = struct{}{}
			return true
		})
	}
	return ids
}
