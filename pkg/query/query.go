// Package query defines the ViewQuery value type: a declarative,
// serializable description of one view over the learning-concept graph,
// whether a filtered list, a focus-mode subgraph, or a multi-path
// comparison.
//
// A ViewQuery is pure data with no identity beyond its fields. It holds node
// ids only, never live graph references, so a stored or shared query stays
// structurally valid across graph refreshes (results may differ, the query
// does not). Queries are built with the New* helpers, merged with [Compose],
// executed by the engine package, and round-tripped through a URL by the
// codec in params.go.
//
// Everything in this package is side-effect free and total: builders never
// fail for well-typed input, and decoders fail closed to the empty query
// rather than returning a partially populated one.
package query

import "slices"

// Version is the query format version. Serialized queries always carry it;
// deserializers that meet an unknown version fail closed to an empty query
// rather than guessing.
const Version = 1

// SortField selects the node attribute results are ordered by.
type SortField string

// Sortable node attributes.
const (
	SortByProgression SortField = "progression"
	SortByName        SortField = "name"
	SortByHours       SortField = "hours"
	SortByStatus      SortField = "status"
)

// Valid reports whether f names a sortable attribute.
func (f SortField) Valid() bool {
	switch f {
	case SortByProgression, SortByName, SortByHours, SortByStatus:
		return true
	}
	return false
}

// SortDirection orders results ascending or descending.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Viewport captures the pan/zoom state of a graph view so a shared URL
// restores the same framing.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Selection captures which nodes the view highlights. Only the first
// selected id survives URL round-trips; hover and keyboard focus never
// serialize.
type Selection struct {
	Selected []string `json:"selected,omitempty"`
	Hovered  string   `json:"hovered,omitempty"`
	Focused  string   `json:"focused,omitempty"`
}

// ViewQuery is the aggregate root: one serializable view description.
// The zero value is not a valid query (Version would be 0); use
// [NewEmptyQuery] or a builder.
type ViewQuery struct {
	Version int `json:"version"`

	// WHERE-equivalent clauses, applied in pipeline order.
	Category         string       `json:"category,omitempty"`
	Status           StringList   `json:"status,omitempty"`
	ProgressionLevel IntList      `json:"progressionLevel,omitempty"`
	Search           string       `json:"search,omitempty"`
	Filters          *FilterGroup `json:"filters,omitempty"`

	// Focus mode: BFS-based subgraph isolation rooted at a node.
	Traversal *TraversalSpec `json:"traversal,omitempty"`
	FocusMode bool           `json:"focusMode,omitempty"`

	SkillGapMode bool `json:"skillGapMode,omitempty"`

	// Multi-path comparison.
	Join         *JoinSpec `json:"join,omitempty"`
	ComparePaths []string  `json:"comparePaths,omitempty"`

	// View state echoed through share URLs.
	Viewport  *Viewport  `json:"viewport,omitempty"`
	Selection *Selection `json:"selection,omitempty"`

	// Ordering and pagination, applied strictly last.
	SortBy        SortField     `json:"sortBy,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty"`
	Offset        int           `json:"offset,omitempty"`
	Limit         int           `json:"limit,omitempty"`
}

// HasActiveFilters reports whether the query narrows the graph at all:
// any of category, status, progression level, search, advanced filters,
// traversal, focus mode, skill-gap mode, or a non-empty compare set.
// Consumers use this to decide whether to show "clear filters" affordances
// and whether a restored query should win over a default view.
func (q ViewQuery) HasActiveFilters() bool {
	return q.Category != "" ||
		len(q.Status) > 0 ||
		len(q.ProgressionLevel) > 0 ||
		q.Search != "" ||
		q.Filters != nil ||
		q.Traversal != nil ||
		q.FocusMode ||
		q.SkillGapMode ||
		len(q.ComparePaths) > 0
}

// Clone returns a deep copy of the query. Compose works on copies so that
// neither the base nor the extensions are ever mutated.
func (q ViewQuery) Clone() ViewQuery {
	out := q
	out.Status = slices.Clone(q.Status)
	out.ProgressionLevel = slices.Clone(q.ProgressionLevel)
	out.ComparePaths = slices.Clone(q.ComparePaths)
	if q.Filters != nil {
		f := q.Filters.clone()
		out.Filters = &f
	}
	if q.Traversal != nil {
		t := *q.Traversal
		t.EdgeTypes = slices.Clone(q.Traversal.EdgeTypes)
		out.Traversal = &t
	}
	if q.Join != nil {
		j := q.Join.clone()
		out.Join = &j
	}
	if q.Viewport != nil {
		v := *q.Viewport
		out.Viewport = &v
	}
	if q.Selection != nil {
		sel := *q.Selection
		sel.Selected = slices.Clone(q.Selection.Selected)
		out.Selection = &sel
	}
	return out
}
