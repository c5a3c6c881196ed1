package concept

import "testing"

// cycleGraph builds a minimal snapshot from bare ids and edges.
func cycleGraph(t *testing.T, ids []string, edges []Edge) *Snapshot {
	t.Helper()
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{ID: id, Name: id, Status: StatusAvailable}
	}
	s, err := NewSnapshot(nodes, edges)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return s
}

func TestCycleEdges_NoCycles(t *testing.T) {
	s := cycleGraph(t, []string{"a", "b", "c"}, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
	})

	if got := CycleEdges(s); len(got) != 0 {
		t.Errorf("CycleEdges() = %v, want none", got)
	}
}

func TestCycleEdges_SimpleCycle(t *testing.T) {
	s := cycleGraph(t, []string{"a", "b"}, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
	})

	if got := CycleEdges(s); len(got) != 1 {
		t.Errorf("CycleEdges() reported %d edges, want 1", len(got))
	}
}

func TestCycleEdges_TriangleCycle(t *testing.T) {
	s := cycleGraph(t, []string{"a", "b", "c"}, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "c", To: "a"},
	})

	if got := CycleEdges(s); len(got) != 1 {
		t.Errorf("CycleEdges() reported %d edges, want 1", len(got))
	}
}

func TestCycleEdges_MultipleCycles(t *testing.T) {
	// Two separate cycles: a<->b and c<->d.
	s := cycleGraph(t, []string{"a", "b", "c", "d"}, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
		{From: "c", To: "d"},
		{From: "d", To: "c"},
	})

	if got := CycleEdges(s); len(got) != 2 {
		t.Errorf("CycleEdges() reported %d edges, want 2", len(got))
	}
}

func TestCycleEdges_SelfLoop(t *testing.T) {
	s := cycleGraph(t, []string{"a"}, []Edge{
		{From: "a", To: "a"},
	})

	got := CycleEdges(s)
	if len(got) != 1 {
		t.Fatalf("CycleEdges() reported %d edges, want 1", len(got))
	}
	if got[0] != [2]string{"a", "a"} {
		t.Errorf("CycleEdges() = %v, want [[a a]]", got)
	}
}

func TestCycleEdges_DiamondNoCycle(t *testing.T) {
	//   a
	//  / \
	// b   c
	//  \ /
	//   d
	s := cycleGraph(t, []string{"a", "b", "c", "d"}, []Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "b", To: "d"},
		{From: "c", To: "d"},
	})

	if got := CycleEdges(s); len(got) != 0 {
		t.Errorf("CycleEdges() = %v, want none", got)
	}
}

func TestCycleEdges_ReportsBackEdge(t *testing.T) {
	// Chain with a back edge: a -> b -> c -> d -> b. Walking from the
	// root a, the edge returning into the path is d -> b.
	s := cycleGraph(t, []string{"a", "b", "c", "d"}, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "c", To: "d"},
		{From: "d", To: "b"},
	})

	got := CycleEdges(s)
	if len(got) != 1 {
		t.Fatalf("CycleEdges() reported %d edges, want 1", len(got))
	}
	if got[0] != [2]string{"d", "b"} {
		t.Errorf("CycleEdges() = %v, want [[d b]]", got)
	}
}

func TestCycleEdges_EmptyGraph(t *testing.T) {
	s := cycleGraph(t, nil, nil)

	if got := CycleEdges(s); len(got) != 0 {
		t.Errorf("CycleEdges() = %v, want none", got)
	}
}

func TestCycleEdges_SingleNode(t *testing.T) {
	s := cycleGraph(t, []string{"a"}, nil)

	if got := CycleEdges(s); len(got) != 0 {
		t.Errorf("CycleEdges() = %v, want none", got)
	}
}
