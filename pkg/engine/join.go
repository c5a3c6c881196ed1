package engine

import "github.com/pathlens/pathlens/pkg/query"

// joinSet resolves the query's path-comparison join to an id set. The
// second return is false when the query has no join at all. A query
// carrying compare paths but no explicit join spec gets the default
// treatment, a union over the paths, so compact "cmp=" URLs execute the
// same comparison the full query would.
func (e *Executor) joinSet(q query.ViewQuery) (map[string]struct{}, bool) {
	spec := q.Join
	if spec == nil {
		if len(q.ComparePaths) == 0 {
			return nil, false
		}
		entries := make([]query.JoinEntry, len(q.ComparePaths))
		for i, id := range q.ComparePaths {
			entries[i] = query.PathEntry(id)
		}
		spec = &query.JoinSpec{Type: query.JoinUnion, Queries: entries}
	}

	sets := make([]map[string]struct{}, 0, len(spec.Queries))
	for _, entry := range spec.Queries {
		switch {
		case entry.Query != nil:
			// Nested queries run the full pipeline; their returned page
			// is the entry's contribution.
			sets = append(sets, toSet(e.Execute(*entry.Query).NodeIDs))
		case entry.PathID != "":
			sets = append(sets, e.connectedSet(entry.PathID))
		default:
			sets = append(sets, map[string]struct{}{})
		}
	}

	switch spec.Type {
	case query.JoinUnion:
		res := map[string]struct{}{}
		for _, s := range sets {
			res = unionSets(res, s)
		}
		return res, true
	case query.JoinIntersection:
		// Zero entries intersect to nothing, not everything.
		if len(sets) == 0 {
			return map[string]struct{}{}, true
		}
		res := sets[0]
		for _, s := range sets[1:] {
			res = intersectSets(res, s)
		}
		return res, true
	case query.JoinDifference:
		if len(sets) == 0 {
			return map[string]struct{}{}, true
		}
		res := sets[0]
		for _, s := range sets[1:] {
			res = differenceSets(res, s)
		}
		return res, true
	}
	// Unknown join type matches nothing.
	return map[string]struct{}{}, true
}

// connectedSet is a path id's one-hop neighborhood: the node itself, its
// direct prerequisites, and its direct dependents. Deliberately shallower
// than a focus traversal. A dangling id contributes nothing.
func (e *Executor) connectedSet(id string) map[string]struct{} {
	if _, ok := e.byID[id]; !ok {
		return map[string]struct{}{}
	}
	set := map[string]struct{}{id: {}}
	for _, he := range e.incoming[id] {
		set[he.id] = struct{}{}
	}
	for _, he := range e.outgoing[id] {
		set[he.id] = struct{}{}
	}
	return set
}
