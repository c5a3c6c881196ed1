package viewstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pathlens/pathlens/pkg/observability"
)

// MongoStore is a MongoDB-backed view store for multi-instance
// deployments. Views are durable documents; every replica sees the same
// set.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database defaults to "pathlens".
	Database string

	// Collection defaults to "views".
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "pathlens"
	}
	if cfg.Collection == "" {
		cfg.Collection = "views"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*SavedView, error) {
	var view SavedView
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&view)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		observability.Store().OnStoreError(ctx, "mongo", "get", err)
		return nil, fmt.Errorf("find view: %w", err)
	}
	return &view, nil
}

func (s *MongoStore) List(ctx context.Context) ([]SavedView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		observability.Store().OnStoreError(ctx, "mongo", "list", err)
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer cursor.Close(ctx)

	views := []SavedView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode views: %w", err)
	}
	return views, nil
}

func (s *MongoStore) Save(ctx context.Context, view *SavedView) error {
	if err := view.Validate(); err != nil {
		return err
	}
	stamp(view)

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": view.ID}, view, opts); err != nil {
		observability.Store().OnStoreError(ctx, "mongo", "save", err)
		return fmt.Errorf("save view: %w", err)
	}

	observability.Store().OnViewSaved(ctx, "mongo")
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		observability.Store().OnStoreError(ctx, "mongo", "delete", err)
		return fmt.Errorf("delete view: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	observability.Store().OnViewDeleted(ctx, "mongo")
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
