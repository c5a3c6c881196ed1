package engine

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pathlens/pathlens/pkg/query"
)

// sortIDs orders ids by the requested field, stably, so equal keys keep
// their pipeline order. No sort field means no reordering. The name
// comparator is locale-aware; a fresh collator is built per call because
// collators carry internal buffers and must not be shared across
// goroutines.
func (e *Executor) sortIDs(ids []string, field query.SortField, dir query.SortDirection) []string {
	if field == "" {
		return ids
	}
	var cmp func(a, b string) int
	switch field {
	case query.SortByProgression:
		cmp = func(a, b string) int {
			return e.byID[a].ProgressionLevel - e.byID[b].ProgressionLevel
		}
	case query.SortByName:
		coll := collate.New(language.English)
		cmp = func(a, b string) int {
			return coll.CompareString(e.byID[a].Name, e.byID[b].Name)
		}
	case query.SortByHours:
		cmp = func(a, b string) int {
			ha, hb := e.byID[a].EstimatedHours, e.byID[b].EstimatedHours
			switch {
			case ha < hb:
				return -1
			case ha > hb:
				return 1
			}
			return 0
		}
	case query.SortByStatus:
		cmp = func(a, b string) int {
			return e.byID[a].Status.Rank() - e.byID[b].Status.Rank()
		}
	default:
		return ids
	}

	out := slices.Clone(ids)
	if dir == query.SortDesc {
		inner := cmp
		cmp = func(a, b string) int { return -inner(a, b) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}
