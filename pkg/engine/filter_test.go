package engine

import (
	"slices"
	"testing"

	"github.com/pathlens/pathlens/pkg/query"
)

func executeFiltered(t *testing.T, exec *Executor, filters *query.FilterGroup) []string {
	t.Helper()
	q := query.NewEmptyQuery()
	q.Filters = filters
	return exec.Execute(q).NodeIDs
}

func TestFilterTree(t *testing.T) {
	exec := New(learningPath(t), nil)

	tests := []struct {
		name    string
		filters *query.FilterGroup
		want    []string
	}{
		{
			name:    "EqCategory",
			filters: query.And(query.Clause("category", query.OpEq, "backend")),
			want:    []string{"node", "sql", "api"},
		},
		{
			name:    "GtHours",
			filters: query.And(query.Clause("estimatedHours", query.OpGt, 15)),
			want:    []string{"js", "react", "node"},
		},
		{
			name:    "GteLevel",
			filters: query.And(query.Clause("progressionLevel", query.OpGte, 3)),
			want:    []string{"react", "node", "api"},
		},
		{
			name:    "LtHours",
			filters: query.And(query.Clause("estimatedHours", query.OpLt, 10)),
			want:    []string{"html"},
		},
		{
			name:    "LteHours",
			filters: query.And(query.Clause("estimatedHours", query.OpLte, 10)),
			want:    []string{"html", "css"},
		},
		{
			name:    "EqHours",
			filters: query.And(query.Clause("estimatedHours", query.OpEq, 12)),
			want:    []string{"sql"},
		},
		{
			name: "InStatus",
			filters: query.And(query.Clause("status", query.OpIn,
				[]any{"locked", "in_progress"})),
			want: []string{"js", "sql", "api"},
		},
		{
			name:    "NinStatus",
			filters: query.And(query.Clause("status", query.OpNin, []any{"locked"})),
			want:    []string{"html", "css", "js", "react", "node"},
		},
		{
			name: "OrGroup",
			filters: query.Or(
				query.Clause("category", query.OpEq, "frontend"),
				query.Clause("estimatedHours", query.OpGte, 15),
			),
			want: []string{"html", "css", "js", "react", "node", "api"},
		},
		{
			name: "NestedOrInsideAnd",
			filters: query.And(
				query.Clause("category", query.OpEq, "backend"),
				query.Group(query.GroupOr,
					query.Clause("status", query.OpEq, "locked"),
					query.Clause("progressionLevel", query.OpGte, 4),
				),
			),
			want: []string{"sql", "api"},
		},
		{
			name:    "StrictTypeMismatch",
			filters: query.And(query.Clause("progressionLevel", query.OpEq, "2")),
			want:    []string{},
		},
		{
			name:    "MissingFieldEq",
			filters: query.And(query.Clause("difficulty", query.OpEq, "hard")),
			want:    []string{},
		},
		{
			name:    "MissingFieldNeq",
			filters: query.And(query.Clause("difficulty", query.OpNeq, "hard")),
			want:    []string{"html", "css", "js", "react", "node", "sql", "api"},
		},
		{
			name:    "MissingFieldNin",
			filters: query.And(query.Clause("difficulty", query.OpNin, []any{"hard"})),
			want:    []string{"html", "css", "js", "react", "node", "sql", "api"},
		},
		{
			name:    "EmptyGroupIsNoop",
			filters: query.And(),
			want:    []string{"html", "css", "js", "react", "node", "sql", "api"},
		},
		{
			name:    "UnknownOperatorMatchesNothing",
			filters: query.And(query.Clause("category", query.FilterOp("~="), "frontend")),
			want:    []string{},
		},
		{
			name:    "StringOrdering",
			filters: query.And(query.Clause("name", query.OpLt, "J")),
			want:    []string{"html", "css", "api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := executeFiltered(t, exec, tt.filters)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("NodeIDs = %v, want %v", got, tt.want)
			}
		})
	}
}

// Index-answered clauses and scan-answered clauses must agree. The scan
// path is forced by wrapping the pivot in a string field comparison the
// index cannot serve.
func TestIndexScanMatchesLinearScan(t *testing.T) {
	exec := New(learningPath(t), nil)

	ops := []query.FilterOp{query.OpEq, query.OpGt, query.OpGte, query.OpLt, query.OpLte}
	pivots := []float64{0, 8, 12, 15.5, 25, 100}

	for _, op := range ops {
		for _, pivot := range pivots {
			indexed := exec.indexScan("estimatedHours", op, pivot)

			scanned := make(map[string]struct{})
			for _, id := range exec.ids {
				if exec.matchClause(id, query.FilterClause{
					Field: "estimatedHours", Op: op, Value: pivot,
				}) {
					scanned[id] = struct{}{}
				}
			}

			if len(indexed) != len(scanned) {
				t.Errorf("%s %v: index %d ids, scan %d ids", op, pivot, len(indexed), len(scanned))
				continue
			}
			for id := range scanned {
				if _, ok := indexed[id]; !ok {
					t.Errorf("%s %v: scan found %s, index did not", op, pivot, id)
				}
			}
		}
	}
}

func TestFilterStagesCombine(t *testing.T) {
	exec := New(learningPath(t), nil)

	q := query.NewEmptyQuery()
	q.Category = "frontend"
	q.Status = query.StringList{"completed"}
	res := exec.Execute(q)
	if !slices.Equal(res.NodeIDs, []string{"html", "css"}) {
		t.Errorf("NodeIDs = %v, want [html css]", res.NodeIDs)
	}

	q = query.NewEmptyQuery()
	q.ProgressionLevel = query.IntList{1, 2}
	q.Category = "backend"
	res = exec.Execute(q)
	if !slices.Equal(res.NodeIDs, []string{"sql"}) {
		t.Errorf("NodeIDs = %v, want [sql]", res.NodeIDs)
	}
}

func TestSearchMatchesNameAndSkills(t *testing.T) {
	exec := New(learningPath(t), nil)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"NameSubstring", "react", []string{"react"}},
		{"SkillHit", "javascript", []string{"js", "react", "node"}},
		{"CaseInsensitive", "SQL", []string{"sql"}},
		{"NoHit", "rustlang", []string{}},
		{"Empty", "", []string{"html", "css", "js", "react", "node", "sql", "api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := query.NewEmptyQuery()
			q.Search = tt.search
			got := exec.Execute(q).NodeIDs
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("NodeIDs = %v, want %v", got, tt.want)
			}
		})
	}
}
