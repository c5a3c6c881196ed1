package query

import (
	"encoding/json"
	"fmt"
)

// JoinType is the set operation a join applies across its entry results.
type JoinType string

// Join operations. Union keeps nodes in any entry, intersection keeps nodes
// in every entry, difference starts from the first entry and removes the
// rest in order.
const (
	JoinUnion        JoinType = "union"
	JoinIntersection JoinType = "intersection"
	JoinDifference   JoinType = "difference"
)

// Valid reports whether t is a known join type.
func (t JoinType) Valid() bool {
	switch t {
	case JoinUnion, JoinIntersection, JoinDifference:
		return true
	}
	return false
}

// JoinEntry is a sum of the two things a join can combine: a path id whose
// one-hop neighborhood is taken, or a nested query executed against the full
// graph. Exactly one field is set. The JSON form is a bare string for path
// ids and an object for nested queries.
type JoinEntry struct {
	PathID string
	Query  *ViewQuery
}

// PathEntry wraps a path id in a JoinEntry.
func PathEntry(id string) JoinEntry {
	return JoinEntry{PathID: id}
}

// QueryEntry wraps a nested query in a JoinEntry.
func QueryEntry(q ViewQuery) JoinEntry {
	return JoinEntry{Query: &q}
}

// MarshalJSON emits a bare string for path entries and the query object for
// nested queries.
func (e JoinEntry) MarshalJSON() ([]byte, error) {
	switch {
	case e.Query != nil:
		return json.Marshal(e.Query)
	case e.PathID != "":
		return json.Marshal(e.PathID)
	}
	return nil, fmt.Errorf("query: join entry has neither path id nor query")
}

// UnmarshalJSON accepts either form.
func (e *JoinEntry) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*e = JoinEntry{PathID: id}
		return nil
	}
	var q ViewQuery
	if err := json.Unmarshal(data, &q); err != nil {
		return fmt.Errorf("query: malformed join entry: %w", err)
	}
	*e = JoinEntry{Query: &q}
	return nil
}

// JoinSpec combines the results of several entries with a set operation.
type JoinSpec struct {
	Type    JoinType    `json:"type"`
	Queries []JoinEntry `json:"queries"`
}

func (j JoinSpec) clone() JoinSpec {
	out := JoinSpec{Type: j.Type}
	if j.Queries != nil {
		out.Queries = make([]JoinEntry, len(j.Queries))
		for i, e := range j.Queries {
			ce := JoinEntry{PathID: e.PathID}
			if e.Query != nil {
				q := e.Query.Clone()
				ce.Query = &q
			}
			out.Queries[i] = ce
		}
	}
	return out
}
