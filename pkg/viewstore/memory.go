package viewstore

import (
	"context"
	"sync"

	"github.com/pathlens/pathlens/pkg/observability"
)

// MemoryStore is an in-memory view store for development and testing.
type MemoryStore struct {
	mu    sync.RWMutex
	views map[string]SavedView
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{views: make(map[string]SavedView)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*SavedView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.views[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &view, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]SavedView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SavedView, 0, len(s.views))
	for _, view := range s.views {
		out = append(out, view)
	}
	sortViews(out)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, view *SavedView) error {
	if err := view.Validate(); err != nil {
		return err
	}
	stamp(view)

	s.mu.Lock()
	s.views[view.ID] = *view
	s.mu.Unlock()

	observability.Store().OnViewSaved(ctx, "memory")
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	observability.Store().OnViewDeleted(ctx, "memory")
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
