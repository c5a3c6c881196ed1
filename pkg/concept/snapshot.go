package concept

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Snapshot is an immutable, adjacency-indexed in-memory graph implementing
// [Source]. All indexes are built once at construction; after NewSnapshot
// returns, the snapshot never changes, so any number of goroutines may query
// it without coordination.
//
// To refresh the graph, build a new Snapshot and swap the reference
// atomically. Torn reads are impossible by construction: a snapshot either
// exists fully formed or not at all.
type Snapshot struct {
	nodes    []Node
	edges    []Edge
	byID     map[string]int      // node id -> index into nodes
	incoming map[string][]string // node id -> ids of direct prerequisites
	outgoing map[string][]string // node id -> ids of direct dependents
	hash     string
}

// NewSnapshot validates the node/edge set and builds an indexed snapshot.
// Node and edge order is preserved from the input, which keeps dataset
// round-trips and fingerprints deterministic.
func NewSnapshot(nodes []Node, edges []Edge) (*Snapshot, error) {
	if err := validate(nodes, edges); err != nil {
		return nil, err
	}

	s := &Snapshot{
		nodes:    make([]Node, len(nodes)),
		edges:    make([]Edge, len(edges)),
		byID:     make(map[string]int, len(nodes)),
		incoming: make(map[string][]string),
		outgoing: make(map[string][]string),
	}
	copy(s.nodes, nodes)
	copy(s.edges, edges)

	for i, n := range s.nodes {
		s.byID[n.ID] = i
	}
	for _, e := range s.edges {
		s.outgoing[e.From] = append(s.outgoing[e.From], e.To)
		s.incoming[e.To] = append(s.incoming[e.To], e.From)
	}

	s.hash = fingerprint(s.nodes, s.edges)
	return s, nil
}

// Nodes returns all nodes in dataset order.
func (s *Snapshot) Nodes() []Node { return s.nodes }

// Edges returns all edges in dataset order.
func (s *Snapshot) Edges() []Edge { return s.edges }

// NodeByID returns the node with the given id, if present.
func (s *Snapshot) NodeByID(id string) (Node, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Prerequisites returns the direct prerequisite nodes of id: every node with
// an edge terminating at id. A missing id yields an empty slice, not an
// error; dangling references are treated as misses throughout the engine.
func (s *Snapshot) Prerequisites(id string) []Node {
	return s.resolve(s.incoming[id])
}

// Dependents returns the direct dependent nodes of id: every node with an
// edge originating at id.
func (s *Snapshot) Dependents(id string) []Node {
	return s.resolve(s.outgoing[id])
}

func (s *Snapshot) resolve(ids []string) []Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok {
			out = append(out, s.nodes[i])
		}
	}
	return out
}

// Fingerprint returns a stable content hash of the snapshot, suitable for
// cache keys: two snapshots built from identical datasets share a
// fingerprint.
func (s *Snapshot) Fingerprint() string { return s.hash }

// fingerprint hashes the canonical JSON encoding of nodes and edges.
func fingerprint(nodes []Node, edges []Edge) string {
	payload := struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}{nodes, edges}
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ Source = (*Snapshot)(nil)
