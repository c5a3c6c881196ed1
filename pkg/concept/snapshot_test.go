package concept

import (
	"testing"
)

// testNodes builds the small frontend/backend graph used across the package
// tests: a and b are frontend (a completed prerequisite chain), c is backend.
func testNodes() []Node {
	return []Node{
		{ID: "a", Name: "HTML Basics", Category: "frontend", Status: StatusAvailable, ProgressionLevel: 1, EstimatedHours: 8, Skills: []string{"html"}},
		{ID: "b", Name: "CSS Basics", Category: "frontend", Status: StatusCompleted, ProgressionLevel: 2, EstimatedHours: 10, Skills: []string{"css"}},
		{ID: "c", Name: "SQL Intro", Category: "backend", Status: StatusLocked, ProgressionLevel: 1, EstimatedHours: 12, Skills: []string{"sql"}},
	}
}

func testEdges() []Edge {
	return []Edge{
		{From: "a", To: "b", Type: EdgeTypePrerequisite},
	}
}

func TestNewSnapshot(t *testing.T) {
	s, err := NewSnapshot(testNodes(), testEdges())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	if got := s.NodeCount(); got != 3 {
		t.Errorf("NodeCount = %d, want 3", got)
	}
	if got := s.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1", got)
	}

	n, ok := s.NodeByID("b")
	if !ok {
		t.Fatal("NodeByID(b) not found")
	}
	if n.Name != "CSS Basics" {
		t.Errorf("b.Name = %q, want CSS Basics", n.Name)
	}

	if _, ok := s.NodeByID("nope"); ok {
		t.Error("NodeByID(nope) should not be found")
	}
}

func TestSnapshotAdjacency(t *testing.T) {
	s, err := NewSnapshot(testNodes(), testEdges())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	prereqs := s.Prerequisites("b")
	if len(prereqs) != 1 || prereqs[0].ID != "a" {
		t.Errorf("Prerequisites(b) = %v, want [a]", NodeIDs(prereqs))
	}

	deps := s.Dependents("a")
	if len(deps) != 1 || deps[0].ID != "b" {
		t.Errorf("Dependents(a) = %v, want [b]", NodeIDs(deps))
	}

	if got := s.Prerequisites("a"); len(got) != 0 {
		t.Errorf("Prerequisites(a) = %v, want empty", NodeIDs(got))
	}
	if got := s.Dependents("missing"); len(got) != 0 {
		t.Errorf("Dependents(missing) = %v, want empty", NodeIDs(got))
	}
}

func TestNewSnapshotValidation(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
	}{
		{
			name:  "EmptyID",
			nodes: []Node{{ID: ""}},
		},
		{
			name:  "DuplicateID",
			nodes: []Node{{ID: "a"}, {ID: "a"}},
		},
		{
			name:  "UnknownStatus",
			nodes: []Node{{ID: "a", Status: "paused"}},
		},
		{
			name:  "NegativeHours",
			nodes: []Node{{ID: "a", EstimatedHours: -1}},
		},
		{
			name:  "DanglingEdgeSource",
			nodes: []Node{{ID: "a"}},
			edges: []Edge{{From: "ghost", To: "a"}},
		},
		{
			name:  "DanglingEdgeTarget",
			nodes: []Node{{ID: "a"}},
			edges: []Edge{{From: "a", To: "ghost"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSnapshot(tt.nodes, tt.edges); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestParallelEdgesWithDistinctTypes(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}}
	edges := []Edge{
		{From: "a", To: "b", Type: "prerequisite"},
		{From: "a", To: "b", Type: "related"},
	}

	s, err := NewSnapshot(nodes, edges)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if got := s.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount = %d, want 2", got)
	}
	// Both edges land in the adjacency index, so b shows a twice as a
	// prerequisite. Direct neighbors are not deduplicated at this layer.
	if got := len(s.Prerequisites("b")); got != 2 {
		t.Errorf("Prerequisites(b) count = %d, want 2", got)
	}
}

func TestStatusRank(t *testing.T) {
	order := []Status{StatusCompleted, StatusInProgress, StatusAvailable, StatusLocked}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("Rank(%s) = %d should be < Rank(%s) = %d",
				order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}
	if Status("bogus").Rank() <= StatusLocked.Rank() {
		t.Error("unknown status should rank after all known statuses")
	}
}

func TestFingerprint(t *testing.T) {
	s1, err := NewSnapshot(testNodes(), testEdges())
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSnapshot(testNodes(), testEdges())
	if err != nil {
		t.Fatal(err)
	}
	if s1.Fingerprint() != s2.Fingerprint() {
		t.Error("identical datasets should share a fingerprint")
	}

	altered := testNodes()
	altered[0].Status = StatusCompleted
	s3, err := NewSnapshot(altered, testEdges())
	if err != nil {
		t.Fatal(err)
	}
	if s1.Fingerprint() == s3.Fingerprint() {
		t.Error("different datasets should not share a fingerprint")
	}
}
