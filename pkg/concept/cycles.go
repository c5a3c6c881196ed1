package concept

// CycleEdges reports the edges that close prerequisite cycles in src. The
// graph is walked depth-first from its roots (nodes with no prerequisites)
// and then from any nodes a root cannot reach; an edge into a node still on
// the active DFS path is a back edge, and each back edge closes one cycle.
//
// Snapshots are immutable, so cycles are reported rather than broken.
// Callers decide what to do with them; a concept on a prerequisite cycle
// can never unlock, so loaders typically warn when this returns anything.
func CycleEdges(src Source) [][2]string {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var closing [][2]string

	var walk func(id string)
	walk = func(id string) {
		visited[id] = true
		onPath[id] = true
		for _, next := range src.Dependents(id) {
			if onPath[next.ID] {
				closing = append(closing, [2]string{id, next.ID})
				continue
			}
			if !visited[next.ID] {
				walk(next.ID)
			}
		}
		onPath[id] = false
	}

	nodes := src.Nodes()
	for _, n := range nodes {
		if !visited[n.ID] && len(src.Prerequisites(n.ID)) == 0 {
			walk(n.ID)
		}
	}
	for _, n := range nodes {
		if !visited[n.ID] {
			walk(n.ID)
		}
	}

	return closing
}
