package query

import (
	"encoding/json"
	"testing"
)

func TestFilterNodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, n FilterNode)
	}{
		{
			name: "Clause",
			raw:  `{"field":"category","operator":"eq","value":"frontend"}`,
			check: func(t *testing.T, n FilterNode) {
				if n.Clause == nil {
					t.Fatal("Clause is nil")
				}
				if n.Clause.Field != "category" || n.Clause.Op != OpEq {
					t.Errorf("clause = %+v", n.Clause)
				}
				if n.Clause.Value != "frontend" {
					t.Errorf("Value = %v, want frontend", n.Clause.Value)
				}
			},
		},
		{
			name: "Group",
			raw:  `{"operator":"or","clauses":[{"field":"status","operator":"eq","value":"locked"}]}`,
			check: func(t *testing.T, n FilterNode) {
				if n.Group == nil {
					t.Fatal("Group is nil")
				}
				if n.Group.Operator != GroupOr {
					t.Errorf("Operator = %q, want or", n.Group.Operator)
				}
				if len(n.Group.Clauses) != 1 || n.Group.Clauses[0].Clause == nil {
					t.Errorf("Clauses = %+v", n.Group.Clauses)
				}
			},
		},
		{
			name: "NestedGroups",
			raw: `{"operator":"and","clauses":[
				{"operator":"or","clauses":[{"field":"progressionLevel","operator":"gte","value":2}]},
				{"field":"estimatedHours","operator":"lt","value":20}
			]}`,
			check: func(t *testing.T, n FilterNode) {
				if n.Group == nil || len(n.Group.Clauses) != 2 {
					t.Fatalf("group = %+v", n.Group)
				}
				if n.Group.Clauses[0].Group == nil {
					t.Error("first child should be a group")
				}
				if n.Group.Clauses[1].Clause == nil {
					t.Error("second child should be a clause")
				}
			},
		},
		{
			name:    "NeitherShape",
			raw:     `{"value":3}`,
			wantErr: true,
		},
		{
			name:    "Malformed",
			raw:     `[1,2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n FilterNode
			err := json.Unmarshal([]byte(tt.raw), &n)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			tt.check(t, n)

			// The union survives a marshal/unmarshal cycle.
			out, err := json.Marshal(n)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var again FilterNode
			if err := json.Unmarshal(out, &again); err != nil {
				t.Fatalf("Unmarshal(Marshal): %v", err)
			}
			if (again.Clause == nil) != (n.Clause == nil) || (again.Group == nil) != (n.Group == nil) {
				t.Errorf("round trip changed node shape: %+v", again)
			}
		})
	}
}

func TestJoinEntryJSON(t *testing.T) {
	spec := JoinSpec{
		Type: JoinDifference,
		Queries: []JoinEntry{
			PathEntry("a"),
			QueryEntry(NewCategoryQuery("frontend")),
		},
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got JoinSpec
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Type != JoinDifference {
		t.Errorf("Type = %q, want difference", got.Type)
	}
	if len(got.Queries) != 2 {
		t.Fatalf("len(Queries) = %d, want 2", len(got.Queries))
	}
	if got.Queries[0].PathID != "a" || got.Queries[0].Query != nil {
		t.Errorf("entry 0 = %+v, want bare path id", got.Queries[0])
	}
	if got.Queries[1].Query == nil || got.Queries[1].Query.Category != "frontend" {
		t.Errorf("entry 1 = %+v, want nested query", got.Queries[1])
	}
}

func TestScalarOrListJSON(t *testing.T) {
	var q ViewQuery
	raw := `{"version":1,"status":"locked","progressionLevel":2}`
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(q.Status) != 1 || q.Status[0] != "locked" {
		t.Errorf("Status = %v, want [locked]", q.Status)
	}
	if len(q.ProgressionLevel) != 1 || q.ProgressionLevel[0] != 2 {
		t.Errorf("ProgressionLevel = %v, want [2]", q.ProgressionLevel)
	}

	raw = `{"version":1,"status":["locked","available"],"progressionLevel":[1,3]}`
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(q.Status) != 2 || len(q.ProgressionLevel) != 2 {
		t.Errorf("lists = %v / %v, want two entries each", q.Status, q.ProgressionLevel)
	}
}

func TestTraversalDefaultsJSON(t *testing.T) {
	var tr TraversalSpec
	if err := json.Unmarshal([]byte(`{"startNodeId":"b"}`), &tr); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tr.Direction != DirectionBoth {
		t.Errorf("Direction = %q, want both", tr.Direction)
	}
	if tr.MaxDepth != Unbounded {
		t.Errorf("MaxDepth = %d, want %d", tr.MaxDepth, Unbounded)
	}
	if !tr.IncludeStart {
		t.Error("IncludeStart = false, want true by default")
	}

	if err := json.Unmarshal([]byte(`{"startNodeId":"b","maxDepth":0,"includeStart":false}`), &tr); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tr.MaxDepth != 0 || tr.IncludeStart {
		t.Errorf("explicit values lost: %+v", tr)
	}
}
