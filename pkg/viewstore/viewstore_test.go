package viewstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pathlens/pathlens/pkg/query"
)

// storeUnderTest builds each backend against a clean state.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			q := query.NewCategoryQuery("frontend")
			q.Filters = query.And(query.Clause("estimatedHours", query.OpLte, 10))
			view := New("Quick frontend wins", "Low-effort frontend concepts", q)

			if err := store.Save(ctx, view); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if view.ID == "" {
				t.Fatal("Save did not assign an id")
			}
			if view.CreatedAt.IsZero() || view.UpdatedAt.IsZero() {
				t.Fatal("Save did not stamp timestamps")
			}

			loaded, err := store.Get(ctx, view.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if loaded.Name != view.Name {
				t.Errorf("Name = %q, want %q", loaded.Name, view.Name)
			}
			if !query.Equal(loaded.Query, view.Query) {
				t.Errorf("Query round-trip changed: got %+v", loaded.Query)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()
			if _, err := store.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get missing = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			view := New("Doomed", "", query.NewEmptyQuery())
			if err := store.Save(ctx, view); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := store.Delete(ctx, view.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, view.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after delete = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, view.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreListOrdersByCreation(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			first := New("First", "", query.NewEmptyQuery())
			first.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			second := New("Second", "", query.NewEmptyQuery())
			second.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

			// Save out of order; List must sort by creation time.
			if err := store.Save(ctx, second); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := store.Save(ctx, first); err != nil {
				t.Fatalf("Save: %v", err)
			}

			views, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(views) != 2 {
				t.Fatalf("List returned %d views, want 2", len(views))
			}
			if views[0].Name != "First" || views[1].Name != "Second" {
				t.Errorf("List order = [%s, %s], want [First, Second]", views[0].Name, views[1].Name)
			}
		})
	}
}

func TestStoreUpdateKeepsCreatedAt(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			view := New("Evolving", "", query.NewEmptyQuery())
			if err := store.Save(ctx, view); err != nil {
				t.Fatalf("Save: %v", err)
			}
			created := view.CreatedAt

			view.Name = "Evolved"
			if err := store.Save(ctx, view); err != nil {
				t.Fatalf("second Save: %v", err)
			}
			if !view.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt changed on update: %v -> %v", created, view.CreatedAt)
			}
			if view.UpdatedAt.Before(created) {
				t.Errorf("UpdatedAt %v before CreatedAt %v", view.UpdatedAt, created)
			}

			loaded, err := store.Get(ctx, view.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if loaded.Name != "Evolved" {
				t.Errorf("Name = %q, want Evolved", loaded.Name)
			}
		})
	}
}

func TestSaveRejectsInvalidName(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			bad := New(strings.Repeat("x", 200), "", query.NewEmptyQuery())
			if err := store.Save(context.Background(), bad); err == nil {
				t.Error("Save accepted an oversized name")
			}
			if bad.ID != "" {
				t.Error("rejected view was assigned an id")
			}
		})
	}
}
