package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voltstore/catalog-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	productCollection    = "products"
	siteConfigCollection = "siteconfig"

	connectTimeout = 10 * time.Second
)

// Store wraps the document store connection shared by the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// StartMongo connects to the document store, verifies connectivity and
// bootstraps the indexes the catalog queries rely on.
func StartMongo(ctx context.Context, conf config.Mongo) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.URI))
	if err != nil {
		slog.Error("failed to initialize document store connection", slog.Any("err", err))
		return nil, fmt.Errorf("failed to initialize document store connection: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		slog.Error("failed to ping document store", slog.Any("err", err))
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}
	slog.Info("document store connection done")

	store := &Store{client: client, db: client.Database(conf.Database)}
	if err := store.ensureIndexes(ctx); err != nil {
		slog.Error("failed to ensure indexes", slog.Any("err", err))
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	slog.Info("document store index bootstrap done")
	return store, nil
}

// Ping reports whether the document store currently answers. It backs the
// health endpoint and the per-request connectivity precondition.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the underlying client connection.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureIndexes is idempotent; the collections are schemaless so this is the
// only bootstrap the store needs.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(productCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uploadDate", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}
