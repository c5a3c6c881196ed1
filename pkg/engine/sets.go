package engine

// The filter and join stages work on plain id sets combined with the three
// classic operations. Maps keep membership O(1); ordered output is always
// recovered by filtering an ordered slice through a set, never by ranging
// over a map.

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// retain filters ids down to members of keep, preserving order.
func retain(ids []string, keep map[string]struct{}) []string {
	out := make([]string, 0, len(keep))
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// intersectSets computes a ∩ b.
func intersectSets(a, b map[string]struct{}) map[string]struct{} {
	if a == nil || b == nil {
		return make(map[string]struct{})
	}
	// Iterate the smaller side.
	if len(a) > len(b) {
		a, b = b, a
	}
	res := make(map[string]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			res[id] = struct{}{}
		}
	}
	return res
}

// unionSets computes a ∪ b.
func unionSets(a, b map[string]struct{}) map[string]struct{} {
	res := make(map[string]struct{}, len(a)+len(b))
	for id := range a {
		res[id] = struct{}{}
	}
	for id := range b {
		res[id] = struct{}{}
	}
	return res
}

// differenceSets computes a \ b.
func differenceSets(a, b map[string]struct{}) map[string]struct{} {
	res := make(map[string]struct{}, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			res[id] = struct{}{}
		}
	}
	return res
}
