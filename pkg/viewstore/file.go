package viewstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pathlens/pathlens/pkg/observability"
)

// FileStore keeps each saved view as one JSON file under a config
// directory. It is the CLI's default backend.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore opens a view directory, creating it if needed. An empty
// baseDir resolves to ~/.config/pathlens/views, next to the config file.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "pathlens", "views")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create view dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) viewPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// readView loads and decodes one view file.
func readView(path string) (*SavedView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var view SavedView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*SavedView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, err := readView(s.viewPath(id))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("read view %s: %w", id, err)
	}
	return view, nil
}

func (s *FileStore) List(ctx context.Context) ([]SavedView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read view dir: %w", err)
	}

	out := make([]SavedView, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		// Unreadable or non-view files are skipped; the directory may be
		// shared.
		if view, err := readView(filepath.Join(s.baseDir, entry.Name())); err == nil {
			out = append(out, *view)
		}
	}

	sortViews(out)
	return out, nil
}

func (s *FileStore) Save(ctx context.Context, view *SavedView) error {
	if err := view.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(view)
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	if err := os.WriteFile(s.viewPath(view.ID), data, 0600); err != nil {
		observability.Store().OnStoreError(ctx, "file", "save", err)
		return fmt.Errorf("write view file: %w", err)
	}

	observability.Store().OnViewSaved(ctx, "file")
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.viewPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		observability.Store().OnStoreError(ctx, "file", "delete", err)
		return fmt.Errorf("remove view file: %w", err)
	}

	observability.Store().OnViewDeleted(ctx, "file")
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path reports where view files live, for display in CLI output.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
