package query

import "slices"

// NewEmptyQuery returns the identity query: version 1, ascending sort, no
// limit, zero offset. Executing it returns every node; composing it onto
// another query changes nothing observable.
func NewEmptyQuery() ViewQuery {
	return ViewQuery{
		Version:       Version,
		SortDirection: SortAsc,
		Offset:        0,
		Limit:         -1,
	}
}

// NewCategoryQuery returns a query for all nodes in one category.
func NewCategoryQuery(category string) ViewQuery {
	q := NewEmptyQuery()
	q.Category = category
	return q
}

// NewFocusQuery returns a focus-mode query rooted at nodeID: traversal in
// both directions, unbounded depth, start node included.
func NewFocusQuery(nodeID string) ViewQuery {
	q := NewEmptyQuery()
	q.FocusMode = true
	q.Traversal = &TraversalSpec{
		StartNodeID:  nodeID,
		Direction:    DirectionBoth,
		MaxDepth:     Unbounded,
		IncludeStart: true,
	}
	return q
}

// NewComparisonQuery returns a query comparing the given paths: a union
// join over their one-hop neighborhoods. The path ids are echoed in
// ComparePaths so consumers can label each path in the result.
func NewComparisonQuery(pathIDs ...string) ViewQuery {
	q := NewEmptyQuery()
	q.ComparePaths = slices.Clone(pathIDs)
	entries := make([]JoinEntry, len(pathIDs))
	for i, id := range pathIDs {
		entries[i] = PathEntry(id)
	}
	q.Join = &JoinSpec{Type: JoinUnion, Queries: entries}
	return q
}

// NewSkillGapQuery returns a query for the concepts still between the
// learner and a completed path: everything not yet completed, ordered by
// progression level. An empty category spans the whole graph.
func NewSkillGapQuery(category string) ViewQuery {
	q := NewEmptyQuery()
	q.SkillGapMode = true
	q.Category = category
	q.Status = StringList{"locked", "available", "in_progress"}
	q.SortBy = SortByProgression
	return q
}

// Compose merges extensions onto base, right-biased: a field set on a later
// query overwrites the same field accumulated so far, unset fields leave
// the accumulator alone. Filters are the one exception: when both sides
// carry a filter tree the trees are wrapped in a fresh and-group, so
// composing two filtered views narrows rather than replaces.
//
// Compose never mutates its arguments. Composing onto [NewEmptyQuery]
// yields a query serializing identically to the extensions' merge.
func Compose(base ViewQuery, extensions ...ViewQuery) ViewQuery {
	acc := base.Clone()
	for _, raw := range extensions {
		ext := raw.Clone()
		if ext.Category != "" {
			acc.Category = ext.Category
		}
		if len(ext.Status) > 0 {
			acc.Status = ext.Status
		}
		if len(ext.ProgressionLevel) > 0 {
			acc.ProgressionLevel = ext.ProgressionLevel
		}
		if ext.Search != "" {
			acc.Search = ext.Search
		}
		if ext.Filters != nil {
			acc.Filters = mergeFilters(acc.Filters, ext.Filters)
		}
		if ext.Traversal != nil {
			acc.Traversal = ext.Traversal
		}
		if ext.FocusMode {
			acc.FocusMode = true
		}
		if ext.SkillGapMode {
			acc.SkillGapMode = true
		}
		if ext.Join != nil {
			acc.Join = ext.Join
		}
		if len(ext.ComparePaths) > 0 {
			acc.ComparePaths = ext.ComparePaths
		}
		if ext.Viewport != nil {
			acc.Viewport = ext.Viewport
		}
		if ext.Selection != nil {
			acc.Selection = ext.Selection
		}
		if ext.SortBy != "" {
			acc.SortBy = ext.SortBy
		}
		if ext.SortDirection != "" {
			acc.SortDirection = ext.SortDirection
		}
		if ext.Offset != 0 {
			acc.Offset = ext.Offset
		}
		if ext.Limit != 0 && ext.Limit != -1 {
			acc.Limit = ext.Limit
		}
	}
	acc.Version = Version
	return acc
}

// mergeFilters wraps two filter trees in an and-group. Either side may be
// nil, in which case the other side passes through untouched.
func mergeFilters(a, b *FilterGroup) *FilterGroup {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return And(FilterNode{Group: a}, FilterNode{Group: b})
}
