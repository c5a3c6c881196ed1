package engine

import (
	"time"

	"github.com/pathlens/pathlens/pkg/observability"
	"github.com/pathlens/pathlens/pkg/query"
)

// ExecuteTraversal runs spec's breadth-first walk standalone and returns
// the reachable ids in visit order. A start node missing from the graph
// yields an empty result, same as a node with no neighbors; callers that
// care about the difference check the start id first.
func (e *Executor) ExecuteTraversal(spec query.TraversalSpec) []string {
	ids, _ := e.traverse(spec)
	return ids
}

type frontierEntry struct {
	id    string
	depth int
}

// traverse is the BFS core. Nodes reached at exactly spec.MaxDepth are
// emitted but not expanded; MaxDepth -1 never stops expanding. Excluding
// the start node drops it from the output only, the walk still explores
// through it. The boolean reports whether the visit budget cut the walk
// short.
func (e *Executor) traverse(spec query.TraversalSpec) ([]string, bool) {
	start := time.Now()
	out := []string{}
	if _, ok := e.byID[spec.StartNodeID]; !ok {
		observability.Query().OnTraversal(0, false, time.Since(start))
		return out, false
	}

	visited := map[string]struct{}{spec.StartNodeID: {}}
	queue := []frontierEntry{{id: spec.StartNodeID, depth: 0}}
	truncated := false

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id != spec.StartNodeID || spec.IncludeStart {
			out = append(out, cur.id)
		}
		if spec.MaxDepth != query.Unbounded && cur.depth >= spec.MaxDepth {
			continue
		}

		for _, next := range e.neighbors(cur.id, spec.Direction, spec.EdgeTypes) {
			if _, seen := visited[next]; seen {
				continue
			}
			// Budget exhausted: stop discovering, but keep draining the
			// queue so every node visited so far is still emitted.
			if e.budget > 0 && len(visited) >= e.budget {
				truncated = true
				break
			}
			visited[next] = struct{}{}
			queue = append(queue, frontierEntry{id: next, depth: cur.depth + 1})
		}
	}

	observability.Query().OnTraversal(len(visited), truncated, time.Since(start))
	return out, truncated
}

// neighbors returns the ids one step from id in the given direction,
// optionally restricted to a set of edge types. Up follows edges ending at
// id (prerequisites), down follows edges leaving it (dependents).
func (e *Executor) neighbors(id string, dir query.Direction, edgeTypes []string) []string {
	var out []string
	if dir == query.DirectionUp || dir == query.DirectionBoth {
		for _, he := range e.incoming[id] {
			if edgeTypeAllowed(he.typ, edgeTypes) {
				out = append(out, he.id)
			}
		}
	}
	if dir == query.DirectionDown || dir == query.DirectionBoth {
		for _, he := range e.outgoing[id] {
			if edgeTypeAllowed(he.typ, edgeTypes) {
				out = append(out, he.id)
			}
		}
	}
	return out
}

func edgeTypeAllowed(typ string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == typ {
			return true
		}
	}
	return false
}
