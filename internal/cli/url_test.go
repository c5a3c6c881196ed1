package cli

import (
	"testing"

	"github.com/pathlens/pathlens/pkg/query"
)

func TestBuildQueryComposesModes(t *testing.T) {
	q, err := buildQuery(queryFlags{category: "frontend"}, "react", nil, false)
	if err != nil {
		t.Fatalf("buildQuery error: %v", err)
	}
	if !q.FocusMode || q.Traversal == nil || q.Traversal.StartNodeID != "react" {
		t.Errorf("focus not applied: %+v", q)
	}
	if q.Category != "frontend" {
		t.Errorf("Category = %q, want frontend", q.Category)
	}

	q, err = buildQuery(queryFlags{}, "", []string{"react", "node"}, false)
	if err != nil {
		t.Fatalf("buildQuery error: %v", err)
	}
	if q.Join == nil || q.Join.Type != query.JoinUnion || len(q.ComparePaths) != 2 {
		t.Errorf("comparison not applied: %+v", q)
	}

	q, err = buildQuery(queryFlags{}, "", nil, true)
	if err != nil {
		t.Fatalf("buildQuery error: %v", err)
	}
	if !q.SkillGapMode {
		t.Errorf("skill gap not applied: %+v", q)
	}
}

func TestDecodeSharedAcceptsURLAndParams(t *testing.T) {
	want := query.NewCategoryQuery("frontend")
	enc := query.EncodeQuery(want)

	tests := []struct {
		name string
		raw  string
	}{
		{"FullURL", "https://paths.example.com/?" + enc},
		{"BareParams", enc},
		{"LeadingQuestionMark", "?" + enc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeShared(tt.raw)
			if !query.Equal(got, want) {
				t.Errorf("decodeShared(%q) = %+v, want category query", tt.raw, got)
			}
		})
	}
}

func TestDecodeSharedFailsClosed(t *testing.T) {
	got := decodeShared("https://paths.example.com/?v=!!!not-base64!!!")
	if got.HasActiveFilters() {
		t.Errorf("malformed blob decoded to a non-empty query: %+v", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	q, err := buildQuery(queryFlags{category: "backend", sortBy: "hours"}, "sql", nil, false)
	if err != nil {
		t.Fatalf("buildQuery error: %v", err)
	}

	decoded := decodeShared(query.EncodeQuery(q))
	if !query.Equal(q, decoded) {
		t.Errorf("round trip changed the view:\n  in:  %s\n  out: %s",
			query.EncodeQuery(q), query.EncodeQuery(decoded))
	}
}
