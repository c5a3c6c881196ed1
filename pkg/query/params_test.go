package query

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncodeSimpleParams(t *testing.T) {
	q := NewCategoryQuery("frontend")
	q.FocusMode = true
	q.Traversal = &TraversalSpec{
		StartNodeID:  "b",
		Direction:    DirectionBoth,
		MaxDepth:     Unbounded,
		IncludeStart: true,
	}

	enc := EncodeQuery(q)
	for _, want := range []string{"cat=frontend", "focus=1", "fn=b"} {
		if !strings.Contains(enc, want) {
			t.Errorf("EncodeQuery = %q, missing %q", enc, want)
		}
	}
	if strings.Contains(enc, "v=") {
		t.Errorf("EncodeQuery = %q, has v parameter without filters/join", enc)
	}
}

func TestRoundTripSimple(t *testing.T) {
	tests := []struct {
		name  string
		build func() ViewQuery
	}{
		{"Empty", NewEmptyQuery},
		{"Category", func() ViewQuery { return NewCategoryQuery("backend") }},
		{"Focus", func() ViewQuery { return NewFocusQuery("b") }},
		{"SkillGap", func() ViewQuery { return NewSkillGapQuery("frontend") }},
		{
			name: "Everything",
			build: func() ViewQuery {
				q := NewCategoryQuery("frontend")
				q.Status = StringList{"available", "locked"}
				q.ProgressionLevel = IntList{1, 2}
				q.Search = "css"
				q.SortBy = SortByName
				q.SortDirection = SortDesc
				q.Viewport = &Viewport{X: 120, Y: -45, Zoom: 1.25}
				q.Selection = &Selection{Selected: []string{"a"}}
				return q
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.build()
			enc := EncodeQuery(q)
			got := DecodeQuery(enc)
			if !Equal(got, q) {
				t.Errorf("round trip: got %q, want %q", EncodeQuery(got), enc)
			}
		})
	}
}

func TestRoundTripBlob(t *testing.T) {
	tests := []struct {
		name  string
		build func() ViewQuery
	}{
		{
			name: "Filters",
			build: func() ViewQuery {
				q := NewEmptyQuery()
				q.Filters = And(
					Clause("category", OpEq, "frontend"),
					Group(GroupOr,
						Clause("estimatedHours", OpLte, 10.0),
						Clause("status", OpIn, []any{"available", "in_progress"}),
					),
				)
				return q
			},
		},
		{
			name:  "Join",
			build: func() ViewQuery { return NewComparisonQuery("a", "c") },
		},
		{
			name: "NestedJoinQuery",
			build: func() ViewQuery {
				q := NewEmptyQuery()
				q.Join = &JoinSpec{
					Type: JoinIntersection,
					Queries: []JoinEntry{
						PathEntry("a"),
						QueryEntry(NewCategoryQuery("frontend")),
					},
				}
				return q
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.build()
			vals := EncodeParams(q)
			if vals.Get("v") == "" {
				t.Fatalf("EncodeParams = %v, want single v parameter", vals)
			}
			if len(vals) != 1 {
				t.Errorf("EncodeParams emitted %d keys alongside v", len(vals)-1)
			}
			got := DecodeQuery(vals.Encode())
			if !Equal(got, q) {
				t.Errorf("round trip: got %q, want %q", EncodeQuery(got), EncodeQuery(q))
			}
		})
	}
}

func TestBlobWinsOverSimpleParams(t *testing.T) {
	blob := EncodeParams(NewComparisonQuery("a", "c")).Get("v")
	got := DecodeQuery("cat=frontend&v=" + blob)
	if got.Category != "" {
		t.Errorf("Category = %q, want simple params ignored when v decodes", got.Category)
	}
	if got.Join == nil || got.Join.Type != JoinUnion {
		t.Error("blob query not decoded")
	}
}

func TestDecodeFailsClosed(t *testing.T) {
	badVersion := base64.URLEncoding.EncodeToString([]byte(`{"version":99,"category":"x"}`))
	badJSON := base64.URLEncoding.EncodeToString([]byte(`{"version":1,`))

	tests := []struct {
		name string
		raw  string
	}{
		{"NoParams", ""},
		{"BadBase64", "v=%21%21not-base64%21%21"},
		{"BadJSON", "v=" + badJSON},
		{"UnknownVersion", "v=" + badVersion},
		{"UnparseableQueryString", "cat=%zz"},
	}

	empty := NewEmptyQuery()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeQuery(tt.raw)
			if !Equal(got, empty) {
				t.Errorf("DecodeQuery(%q) = %q, want empty query", tt.raw, EncodeQuery(got))
			}
			if got.HasActiveFilters() {
				t.Errorf("DecodeQuery(%q) produced a partially populated query", tt.raw)
			}
		})
	}
}

func TestDecodeURL(t *testing.T) {
	got := DecodeURL("https://pathlens.dev/graph?cat=frontend&focus=1&fn=b")
	if got.Category != "frontend" {
		t.Errorf("Category = %q, want frontend", got.Category)
	}
	if !got.FocusMode {
		t.Error("FocusMode not decoded")
	}
	if got.Traversal == nil || got.Traversal.StartNodeID != "b" {
		t.Fatalf("Traversal = %+v, want start node b", got.Traversal)
	}
	if got.Traversal.MaxDepth != Unbounded || !got.Traversal.IncludeStart {
		t.Errorf("Traversal defaults = %+v, want both/unbounded/include start", got.Traversal)
	}
}

func TestShareURL(t *testing.T) {
	base := "https://pathlens.dev/graph"
	if got := ShareURL(base, NewEmptyQuery()); got != base {
		t.Errorf("ShareURL(empty) = %q, want base untouched", got)
	}
	got := ShareURL(base, NewCategoryQuery("frontend"))
	if got != base+"?cat=frontend" {
		t.Errorf("ShareURL = %q, want %q", got, base+"?cat=frontend")
	}
}

func TestViewportRounding(t *testing.T) {
	q := NewEmptyQuery()
	q.Viewport = &Viewport{X: 100.4, Y: -45.6, Zoom: 1.456}
	vals := EncodeParams(q)
	if got := vals.Get("vx"); got != "100" {
		t.Errorf("vx = %q, want 100", got)
	}
	if got := vals.Get("vy"); got != "-46" {
		t.Errorf("vy = %q, want -46", got)
	}
	if got := vals.Get("vs"); got != "1.46" {
		t.Errorf("vs = %q, want 1.46", got)
	}
	// A second trip through the codec is stable.
	once := DecodeQuery(EncodeQuery(q))
	if EncodeQuery(once) != EncodeQuery(DecodeQuery(EncodeQuery(once))) {
		t.Error("viewport encoding not stable after first round trip")
	}
}

func TestEqualIgnoresPagination(t *testing.T) {
	a := NewCategoryQuery("frontend")
	b := NewCategoryQuery("frontend")
	b.Offset = 10
	b.Limit = 5
	if !Equal(a, b) {
		t.Error("Equal = false for queries differing only in pagination")
	}
	c := NewCategoryQuery("backend")
	if Equal(a, c) {
		t.Error("Equal = true for different categories")
	}
}

func TestDiff(t *testing.T) {
	a := NewCategoryQuery("frontend")
	a.Search = "css"
	b := NewCategoryQuery("backend")
	b.SkillGapMode = true
	b.Join = &JoinSpec{Type: JoinUnion}

	diff := Diff(a, b)
	for _, key := range []string{"category", "search", "skillGapMode"} {
		if _, ok := diff[key]; !ok {
			t.Errorf("Diff missing %q", key)
		}
	}
	if got := diff["category"]; got.From != "frontend" || got.To != "backend" {
		t.Errorf("category change = %+v", got)
	}
	if _, ok := diff["join"]; ok {
		t.Error("Diff reported join, which is outside its fixed field set")
	}
	if len(Diff(a, a)) != 0 {
		t.Errorf("Diff(a, a) = %v, want empty", Diff(a, a))
	}
}
