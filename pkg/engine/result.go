package engine

import "github.com/pathlens/pathlens/pkg/query"

// Stats aggregates the page of nodes a query returned. Counts and hours
// cover the post-pagination slice, not the full match set; TotalCount on
// the Result is the pre-pagination figure.
type Stats struct {
	TotalNodes      int     `json:"totalNodes"`
	CompletedNodes  int     `json:"completedNodes"`
	InProgressNodes int     `json:"inProgressNodes"`
	AvailableNodes  int     `json:"availableNodes"`
	LockedNodes     int     `json:"lockedNodes"`
	TotalHours      float64 `json:"totalHours"`
}

// Result is the answer to one query execution.
type Result struct {
	// Query echoes the executed query so consumers can render result and
	// criteria together without threading them separately.
	Query query.ViewQuery `json:"query"`

	// NodeIDs is the ordered page of matching ids after every pipeline
	// stage, pagination included.
	NodeIDs []string `json:"nodeIds"`

	// TotalCount is the match count before offset/limit were applied,
	// for "N results" displays independent of the current page.
	TotalCount int `json:"totalCount"`

	Stats Stats `json:"stats"`

	// IsFocused reports whether a focus traversal actually ran.
	IsFocused bool `json:"isFocused"`

	// FocusPath is the raw traversal output before re-intersection with
	// the filtered set, present only when IsFocused. Consumers use it to
	// draw the whole neighborhood with out-of-filter nodes dimmed.
	FocusPath []string `json:"focusPath,omitempty"`

	// Truncated reports that the traversal stopped at the configured
	// visit budget and FocusPath may be incomplete.
	Truncated bool `json:"truncated,omitempty"`
}
