// Package viewstore persists named queries so users can save, reload, and
// share views of a concept graph.
//
// This package defines the Store interface with three backends:
//   - memory keeps views in a map and vanishes on exit
//   - file writes one JSON file per view under the config directory
//   - mongo persists views for multi-instance API deployments
//
// # Architecture
//
// A saved view is a display name plus a complete query. Stores never
// interpret the query; they round-trip it as data, so a view saved by one
// version of the engine stays loadable by the next as long as the query
// codec stays backward compatible.
//
// The Store interface supports:
//   - Get/List/Save/Delete operations
//   - Server-assigned ids and timestamps on first save
//
// # Usage
//
// Create a store:
//
//	store := viewstore.NewMemoryStore()
//
//	store, err := viewstore.NewFileStore("")  // ~/.config/pathlens/views
//
//	store, err := viewstore.NewMongoStore(ctx, viewstore.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Save and reload a view:
//
//	view := viewstore.New("Frontend focus", "Everything around CSS", q)
//	if err := store.Save(ctx, view); err != nil {
//	    return err
//	}
//	loaded, err := store.Get(ctx, view.ID)
package viewstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/pathlens/pathlens/pkg/errors"
	"github.com/pathlens/pathlens/pkg/query"
)

// Sentinel errors for view storage operations.
var (
	// ErrNotFound is returned when a view does not exist.
	ErrNotFound = errors.New("view not found")

	// ErrClosed is returned when an operation runs against a closed store.
	ErrClosed = errors.New("store closed")
)

// SavedView is a named, persisted query.
type SavedView struct {
	ID          string          `json:"id" bson:"_id"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Query       query.ViewQuery `json:"query" bson:"query"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updated_at"`
}

// New creates an unsaved view with the given name and query. The id and
// timestamps are assigned by the store on first save.
func New(name, description string, q query.ViewQuery) *SavedView {
	return &SavedView{
		Name:        name,
		Description: description,
		Query:       q,
	}
}

// Validate checks the view's user-supplied fields.
func (v *SavedView) Validate() error {
	return pkgerrors.ValidateViewName(v.Name)
}

// Store is the interface for saved-view storage backends.
type Store interface {
	// Get retrieves a view by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*SavedView, error)

	// List returns all views ordered by creation time.
	List(ctx context.Context) ([]SavedView, error)

	// Save inserts or updates a view. On first save it assigns the id and
	// CreatedAt; every save refreshes UpdatedAt.
	Save(ctx context.Context, view *SavedView) error

	// Delete removes a view. Deleting an absent view returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// stamp fills in the id and timestamps ahead of a save. Preset values are
// kept so imports and migrations can carry their own history.
func stamp(view *SavedView) {
	now := time.Now().UTC()
	if view.ID == "" {
		view.ID = uuid.NewString()
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = now
	}
	view.UpdatedAt = now
}

// sortViews orders views oldest first, breaking timestamp ties by id so
// listings are stable across backends.
func sortViews(views []SavedView) {
	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.Before(views[j].CreatedAt)
		}
		return views[i].ID < views[j].ID
	})
}
