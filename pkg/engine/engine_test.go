package engine

import (
	"slices"
	"testing"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/query"
)

// smallGraph is the three-node worked example used across packages:
// a and b in frontend with a prerequisite edge a->b, c alone in backend.
func smallGraph(t *testing.T) *concept.Snapshot {
	t.Helper()
	snap, err := concept.NewSnapshot(
		[]concept.Node{
			{ID: "a", Name: "HTML Basics", Category: "frontend", Status: concept.StatusAvailable, ProgressionLevel: 1, EstimatedHours: 8, Skills: []string{"html"}},
			{ID: "b", Name: "CSS Basics", Category: "frontend", Status: concept.StatusCompleted, ProgressionLevel: 2, EstimatedHours: 10, Skills: []string{"css"}},
			{ID: "c", Name: "SQL Intro", Category: "backend", Status: concept.StatusLocked, ProgressionLevel: 1, EstimatedHours: 12, Skills: []string{"sql"}},
		},
		[]concept.Edge{
			{From: "a", To: "b", Type: concept.EdgeTypePrerequisite},
		},
	)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

// learningPath is a larger fixture with two categories, four statuses,
// and a second edge type for traversal filtering.
func learningPath(t *testing.T) *concept.Snapshot {
	t.Helper()
	snap, err := concept.NewSnapshot(
		[]concept.Node{
			{ID: "html", Name: "HTML Basics", Category: "frontend", Status: concept.StatusCompleted, ProgressionLevel: 1, EstimatedHours: 8, Skills: []string{"html"}},
			{ID: "css", Name: "CSS Layout", Category: "frontend", Status: concept.StatusCompleted, ProgressionLevel: 1, EstimatedHours: 10, Skills: []string{"css", "design"}},
			{ID: "js", Name: "JavaScript Core", Category: "frontend", Status: concept.StatusInProgress, ProgressionLevel: 2, EstimatedHours: 20, Skills: []string{"javascript"}},
			{ID: "react", Name: "React Fundamentals", Category: "frontend", Status: concept.StatusAvailable, ProgressionLevel: 3, EstimatedHours: 25, Skills: []string{"react", "javascript"}},
			{ID: "node", Name: "Node Services", Category: "backend", Status: concept.StatusAvailable, ProgressionLevel: 3, EstimatedHours: 18, Skills: []string{"node", "javascript"}},
			{ID: "sql", Name: "SQL Modeling", Category: "backend", Status: concept.StatusLocked, ProgressionLevel: 2, EstimatedHours: 12, Skills: []string{"sql"}},
			{ID: "api", Name: "API Design", Category: "backend", Status: concept.StatusLocked, ProgressionLevel: 4, EstimatedHours: 15, Skills: []string{"rest", "http"}},
		},
		[]concept.Edge{
			{From: "html", To: "css", Type: concept.EdgeTypePrerequisite},
			{From: "css", To: "js", Type: concept.EdgeTypePrerequisite},
			{From: "js", To: "react", Type: concept.EdgeTypePrerequisite},
			{From: "js", To: "node", Type: concept.EdgeTypePrerequisite},
			{From: "sql", To: "api", Type: concept.EdgeTypePrerequisite},
			{From: "node", To: "api", Type: concept.EdgeTypePrerequisite},
			{From: "css", To: "react", Type: "recommended"},
		},
	)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func TestExecuteCategoryQuery(t *testing.T) {
	exec := New(smallGraph(t), nil)
	res := exec.Execute(query.NewCategoryQuery("frontend"))

	if !slices.Equal(res.NodeIDs, []string{"a", "b"}) {
		t.Errorf("NodeIDs = %v, want [a b]", res.NodeIDs)
	}
	if res.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", res.TotalCount)
	}
	if res.Stats.TotalNodes != 2 {
		t.Errorf("Stats.TotalNodes = %d, want 2", res.Stats.TotalNodes)
	}
	if res.Stats.CompletedNodes != 1 {
		t.Errorf("Stats.CompletedNodes = %d, want 1", res.Stats.CompletedNodes)
	}
	if res.IsFocused {
		t.Error("IsFocused = true for a plain category query")
	}
}

func TestExecuteEmptyQueryReturnsEverything(t *testing.T) {
	exec := New(learningPath(t), nil)
	res := exec.Execute(query.NewEmptyQuery())
	if res.TotalCount != exec.NodeCount() {
		t.Errorf("TotalCount = %d, want %d", res.TotalCount, exec.NodeCount())
	}
	if len(res.NodeIDs) != exec.NodeCount() {
		t.Errorf("len(NodeIDs) = %d, want %d", len(res.NodeIDs), exec.NodeCount())
	}
}

func TestExecuteFocusQuery(t *testing.T) {
	exec := New(smallGraph(t), nil)
	res := exec.Execute(query.NewFocusQuery("b"))

	if !res.IsFocused {
		t.Error("IsFocused = false")
	}
	// Traversal order is BFS from the start node.
	if !slices.Equal(res.FocusPath, []string{"b", "a"}) {
		t.Errorf("FocusPath = %v, want [b a]", res.FocusPath)
	}
	// The result set re-intersects with the filtered set, which keeps
	// source order.
	if !slices.Equal(res.NodeIDs, []string{"a", "b"}) {
		t.Errorf("NodeIDs = %v, want [a b]", res.NodeIDs)
	}
	for _, id := range res.NodeIDs {
		if id == "c" {
			t.Error("focus on b leaked unrelated node c")
		}
	}
}

func TestFocusNarrowsFilteredView(t *testing.T) {
	exec := New(learningPath(t), nil)

	// Category filter first, then focus: only frontend members of the
	// neighborhood survive, but the focus path keeps the backend nodes.
	q := query.Compose(query.NewCategoryQuery("frontend"), query.NewFocusQuery("js"))
	res := exec.Execute(q)

	if slices.Contains(res.NodeIDs, "node") {
		t.Errorf("NodeIDs = %v, backend node survived the category filter", res.NodeIDs)
	}
	if !slices.Contains(res.FocusPath, "node") {
		t.Errorf("FocusPath = %v, should keep out-of-filter neighborhood", res.FocusPath)
	}
	for _, want := range []string{"js", "css", "react", "html"} {
		if !slices.Contains(res.NodeIDs, want) {
			t.Errorf("NodeIDs = %v, missing %s", res.NodeIDs, want)
		}
	}
}

func TestExecuteFocusMissingStart(t *testing.T) {
	exec := New(smallGraph(t), nil)
	res := exec.Execute(query.NewFocusQuery("ghost"))

	if !res.IsFocused {
		t.Error("IsFocused = false, traversal did run")
	}
	if len(res.FocusPath) != 0 {
		t.Errorf("FocusPath = %v, want empty", res.FocusPath)
	}
	if len(res.NodeIDs) != 0 {
		t.Errorf("NodeIDs = %v, want empty", res.NodeIDs)
	}
	if res.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", res.TotalCount)
	}
}

func TestTotalCountPaginationInvariant(t *testing.T) {
	exec := New(learningPath(t), nil)

	tests := []struct {
		name      string
		offset    int
		limit     int
		wantEqual bool
	}{
		{"NoPagination", 0, -1, true},
		{"LimitZero", 0, 0, true},
		{"LimitCoversAll", 0, 100, true},
		{"LimitTwo", 0, 2, false},
		{"OffsetTwo", 2, -1, false},
		{"OffsetPastEnd", 99, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := query.NewEmptyQuery()
			q.Offset = tt.offset
			q.Limit = tt.limit
			res := exec.Execute(q)

			if res.TotalCount < len(res.NodeIDs) {
				t.Errorf("TotalCount %d < page size %d", res.TotalCount, len(res.NodeIDs))
			}
			if equal := res.TotalCount == len(res.NodeIDs); equal != tt.wantEqual {
				t.Errorf("TotalCount %d vs page %d: equal = %v, want %v",
					res.TotalCount, len(res.NodeIDs), equal, tt.wantEqual)
			}
		})
	}
}

func TestStatsCoverPaginatedSliceOnly(t *testing.T) {
	exec := New(smallGraph(t), nil)
	q := query.NewCategoryQuery("frontend")
	q.Limit = 1

	res := exec.Execute(q)
	if res.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", res.TotalCount)
	}
	if res.Stats.TotalNodes != 1 {
		t.Errorf("Stats.TotalNodes = %d, want 1 (page only)", res.Stats.TotalNodes)
	}
	if res.Stats.TotalHours != 8 {
		t.Errorf("Stats.TotalHours = %v, want 8 (first page node)", res.Stats.TotalHours)
	}
}

func TestSortStages(t *testing.T) {
	exec := New(learningPath(t), nil)

	tests := []struct {
		name  string
		field query.SortField
		dir   query.SortDirection
		want  []string
	}{
		{
			name:  "NameAsc",
			field: query.SortByName,
			dir:   query.SortAsc,
			want:  []string{"api", "css", "html", "js", "node", "react", "sql"},
		},
		{
			name:  "HoursDesc",
			field: query.SortByHours,
			dir:   query.SortDesc,
			want:  []string{"react", "js", "node", "api", "sql", "css", "html"},
		},
		{
			name:  "StatusAsc",
			field: query.SortByStatus,
			dir:   query.SortAsc,
			// completed < in_progress < available < locked, stable within rank.
			want: []string{"html", "css", "js", "react", "node", "sql", "api"},
		},
		{
			name:  "ProgressionAsc",
			field: query.SortByProgression,
			dir:   query.SortAsc,
			want:  []string{"html", "css", "js", "sql", "react", "node", "api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := query.NewEmptyQuery()
			q.SortBy = tt.field
			q.SortDirection = tt.dir
			res := exec.Execute(q)
			if !slices.Equal(res.NodeIDs, tt.want) {
				t.Errorf("NodeIDs = %v, want %v", res.NodeIDs, tt.want)
			}
		})
	}
}

func TestSkillGapQuery(t *testing.T) {
	exec := New(learningPath(t), nil)
	res := exec.Execute(query.NewSkillGapQuery(""))

	for _, id := range res.NodeIDs {
		n, _ := exec.Node(id)
		if n.Status == concept.StatusCompleted {
			t.Errorf("skill gap included completed node %s", id)
		}
	}
	// Ordered by progression level, ascending.
	for i := 1; i < len(res.NodeIDs); i++ {
		prev, _ := exec.Node(res.NodeIDs[i-1])
		cur, _ := exec.Node(res.NodeIDs[i])
		if prev.ProgressionLevel > cur.ProgressionLevel {
			t.Errorf("NodeIDs = %v, not sorted by progression", res.NodeIDs)
			break
		}
	}
}

func TestExecuteDeterministic(t *testing.T) {
	exec := New(learningPath(t), nil)
	q := query.NewFocusQuery("js")
	q.Category = "frontend"

	first := exec.Execute(q)
	for i := 0; i < 10; i++ {
		again := exec.Execute(q)
		if !slices.Equal(first.NodeIDs, again.NodeIDs) {
			t.Fatalf("run %d: NodeIDs = %v, want %v", i, again.NodeIDs, first.NodeIDs)
		}
		if !slices.Equal(first.FocusPath, again.FocusPath) {
			t.Fatalf("run %d: FocusPath = %v, want %v", i, again.FocusPath, first.FocusPath)
		}
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		q    query.ViewQuery
		want string
	}{
		{"Browse", query.NewEmptyQuery(), "browse"},
		{"Focus", query.NewFocusQuery("a"), "focus"},
		{"Comparison", query.NewComparisonQuery("a", "b"), "comparison"},
		{"SkillGap", query.NewSkillGapQuery(""), "skill_gap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mode(tt.q); got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"All", 0, -1, []string{"a", "b", "c", "d"}},
		{"LimitTwo", 0, 2, []string{"a", "b"}},
		{"OffsetTwo", 2, -1, []string{"c", "d"}},
		{"OffsetAndLimit", 1, 2, []string{"b", "c"}},
		{"OffsetPastEnd", 10, -1, []string{}},
		{"NegativeOffset", -3, 2, []string{"a", "b"}},
		{"LimitPastEnd", 2, 10, []string{"c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paginate(ids, tt.offset, tt.limit); !slices.Equal(got, tt.want) {
				t.Errorf("paginate(%d, %d) = %v, want %v", tt.offset, tt.limit, got, tt.want)
			}
		})
	}
}

func TestVisitBudgetTruncates(t *testing.T) {
	exec := New(learningPath(t), &Config{VisitBudget: 2})
	res := exec.Execute(query.NewFocusQuery("js"))

	if !res.Truncated {
		t.Error("Truncated = false with a two-node visit budget")
	}
	if len(res.FocusPath) >= exec.NodeCount() {
		t.Errorf("FocusPath = %v, expected a cut-short walk", res.FocusPath)
	}

	unbounded := New(learningPath(t), nil).Execute(query.NewFocusQuery("js"))
	if unbounded.Truncated {
		t.Error("Truncated = true without a budget")
	}
}
