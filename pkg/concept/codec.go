package concept

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DatasetVersion is the current dataset format version. Loaders reject
// datasets that declare a different version instead of guessing.
const DatasetVersion = 1

// Dataset is the on-disk representation of a concept graph.
//
// JSON form:
//
//	{
//	  "version": 1,
//	  "nodes": [
//	    {"id": "html-basics", "name": "HTML Basics", "category": "frontend",
//	     "status": "completed", "progressionLevel": 1, "estimatedHours": 8,
//	     "skills": ["html"]},
//	    {"id": "css-basics", "name": "CSS Basics", "category": "frontend",
//	     "status": "available", "progressionLevel": 1, "estimatedHours": 10}
//	  ],
//	  "edges": [
//	    {"from": "html-basics", "to": "css-basics", "type": "prerequisite"}
//	  ]
//	}
//
// The YAML form uses the same keys. Import → export → re-import preserves
// node and edge order exactly.
type Dataset struct {
	Version int    `json:"version" yaml:"version"`
	Nodes   []Node `json:"nodes" yaml:"nodes"`
	Edges   []Edge `json:"edges" yaml:"edges"`
}

// ReadJSON decodes a JSON dataset from r and builds a snapshot.
// Returns an error for malformed JSON, an unsupported version, or a dataset
// that fails structural validation (duplicate ids, dangling edges).
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return ds.Snapshot()
}

// ReadYAML decodes a YAML dataset from r and builds a snapshot.
func ReadYAML(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return ds.Snapshot()
}

// LoadFile reads a dataset file, selecting the codec by extension:
// .yaml/.yml use YAML, everything else uses JSON.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

// Snapshot validates the dataset and builds an indexed snapshot from it.
func (ds Dataset) Snapshot() (*Snapshot, error) {
	if ds.Version != DatasetVersion {
		return nil, fmt.Errorf("unsupported dataset version: %d", ds.Version)
	}
	return NewSnapshot(ds.Nodes, ds.Edges)
}

// WriteJSON encodes the snapshot as an indented JSON dataset.
// The output can be re-read with [ReadJSON] for an identical snapshot.
func WriteJSON(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Dataset{Version: DatasetVersion, Nodes: s.Nodes(), Edges: s.Edges()})
}

// WriteYAML encodes the snapshot as a YAML dataset.
func WriteYAML(s *Snapshot, w io.Writer) error {
	data, err := yaml.Marshal(Dataset{Version: DatasetVersion, Nodes: s.Nodes(), Edges: s.Edges()})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
