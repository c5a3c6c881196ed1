package engine

import (
	"slices"
	"testing"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/query"
)

func TestTraverseDirections(t *testing.T) {
	exec := New(learningPath(t), nil)

	tests := []struct {
		name string
		spec query.TraversalSpec
		want []string
	}{
		{
			name: "UpCollectsPrerequisites",
			spec: query.TraversalSpec{
				StartNodeID: "react", Direction: query.DirectionUp,
				MaxDepth: query.Unbounded, IncludeStart: true,
			},
			want: []string{"react", "js", "css", "html"},
		},
		{
			name: "DownCollectsDependents",
			spec: query.TraversalSpec{
				StartNodeID: "css", Direction: query.DirectionDown,
				MaxDepth: query.Unbounded, IncludeStart: true,
			},
			want: []string{"css", "js", "react", "node", "api"},
		},
		{
			name: "BothMeetsInMiddle",
			spec: query.TraversalSpec{
				StartNodeID: "js", Direction: query.DirectionBoth,
				MaxDepth: query.Unbounded, IncludeStart: true,
			},
			want: []string{"js", "css", "react", "node", "html", "api", "sql"},
		},
		{
			name: "DepthOneStopsAtFrontier",
			spec: query.TraversalSpec{
				StartNodeID: "react", Direction: query.DirectionUp,
				MaxDepth: 1, IncludeStart: true,
			},
			want: []string{"react", "js", "css"},
		},
		{
			name: "DepthZeroIsStartOnly",
			spec: query.TraversalSpec{
				StartNodeID: "js", Direction: query.DirectionBoth,
				MaxDepth: 0, IncludeStart: true,
			},
			want: []string{"js"},
		},
		{
			name: "ExcludeStart",
			spec: query.TraversalSpec{
				StartNodeID: "react", Direction: query.DirectionUp,
				MaxDepth: query.Unbounded, IncludeStart: false,
			},
			want: []string{"js", "css", "html"},
		},
		{
			name: "EdgeTypeFilter",
			spec: query.TraversalSpec{
				StartNodeID: "react", Direction: query.DirectionUp,
				MaxDepth: query.Unbounded, IncludeStart: true,
				EdgeTypes: []string{"prerequisite"},
			},
			want: []string{"react", "js", "css", "html"},
		},
		{
			name: "EdgeTypeFilterRecommendedOnly",
			spec: query.TraversalSpec{
				StartNodeID: "react", Direction: query.DirectionUp,
				MaxDepth: query.Unbounded, IncludeStart: true,
				EdgeTypes: []string{"recommended"},
			},
			want: []string{"react", "css"},
		},
		{
			name: "DanglingStart",
			spec: query.TraversalSpec{
				StartNodeID: "ghost", Direction: query.DirectionBoth,
				MaxDepth: query.Unbounded, IncludeStart: true,
			},
			want: []string{},
		},
		{
			name: "IsolatedNodeBothWays",
			spec: query.TraversalSpec{
				StartNodeID: "html", Direction: query.DirectionUp,
				MaxDepth: query.Unbounded, IncludeStart: true,
			},
			want: []string{"html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exec.ExecuteTraversal(tt.spec)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ExecuteTraversal() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Visiting the same start twice must yield the same walk; the traversal
// holds no state between calls.
func TestTraverseIdempotent(t *testing.T) {
	exec := New(learningPath(t), nil)
	spec := query.TraversalSpec{
		StartNodeID: "js", Direction: query.DirectionBoth,
		MaxDepth: query.Unbounded, IncludeStart: true,
	}
	first := exec.ExecuteTraversal(spec)
	second := exec.ExecuteTraversal(spec)
	if !slices.Equal(first, second) {
		t.Errorf("second walk %v differs from first %v", second, first)
	}
}

// Excluding the start must not stop exploration through it: neighbors on
// the far side still appear.
func TestExcludeStartStillExplores(t *testing.T) {
	exec := New(learningPath(t), nil)
	spec := query.TraversalSpec{
		StartNodeID: "js", Direction: query.DirectionBoth,
		MaxDepth: query.Unbounded, IncludeStart: false,
	}
	got := exec.ExecuteTraversal(spec)
	if slices.Contains(got, "js") {
		t.Errorf("walk %v contains the excluded start", got)
	}
	for _, want := range []string{"css", "react", "node", "html", "api", "sql"} {
		if !slices.Contains(got, want) {
			t.Errorf("walk %v missing %s beyond the excluded start", got, want)
		}
	}
}

// cyclicGraph wires x -> y -> z -> x. Nothing upstream validates
// acyclicity, so the walk has to terminate on its own.
func cyclicGraph(t *testing.T) *concept.Snapshot {
	t.Helper()
	snap, err := concept.NewSnapshot(
		[]concept.Node{
			{ID: "x", Name: "X", Category: "loop", Status: concept.StatusAvailable},
			{ID: "y", Name: "Y", Category: "loop", Status: concept.StatusAvailable},
			{ID: "z", Name: "Z", Category: "loop", Status: concept.StatusAvailable},
		},
		[]concept.Edge{
			{From: "x", To: "y", Type: concept.EdgeTypePrerequisite},
			{From: "y", To: "z", Type: concept.EdgeTypePrerequisite},
			{From: "z", To: "x", Type: concept.EdgeTypePrerequisite},
		},
	)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func TestTraverseCycleTerminates(t *testing.T) {
	snap := cyclicGraph(t)
	exec := New(snap, nil)
	got := exec.ExecuteTraversal(query.TraversalSpec{
		StartNodeID: "x", Direction: query.DirectionDown,
		MaxDepth: query.Unbounded, IncludeStart: true,
	})
	want := []string{"x", "y", "z"}
	if !slices.Equal(got, want) {
		t.Errorf("ExecuteTraversal() = %v, want %v", got, want)
	}
}

func TestTraverseBudget(t *testing.T) {
	exec := New(learningPath(t), &Config{VisitBudget: 3})
	spec := query.TraversalSpec{
		StartNodeID: "js", Direction: query.DirectionBoth,
		MaxDepth: query.Unbounded, IncludeStart: true,
	}
	path, truncated := exec.traverse(spec)
	if !truncated {
		t.Error("truncated = false with a three-node budget on a seven-node walk")
	}
	if len(path) > 3 {
		t.Errorf("walk %v exceeds the visit budget", path)
	}
	if len(path) == 0 {
		t.Error("budgeted walk emitted nothing")
	}
}
