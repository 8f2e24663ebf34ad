// Package extract reads the three source collections from MongoDB into raw
// record slices. One informational log line is emitted per collection with
// its row count. There are no retries: an unreachable source or a missing
// collection aborts the run.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JDavidPC/bi-etl/internal/config"
	pipeerrors "github.com/JDavidPC/bi-etl/internal/errors"
	"github.com/JDavidPC/bi-etl/pkg/contracts/domain"
)

// Result holds the raw extracts, one slice per collection.
type Result struct {
	Listings []domain.Listing
	Reviews  []domain.Review
	Calendar []domain.CalendarEntry
}

// Total returns the total number of records extracted.
func (r *Result) Total() int {
	return len(r.Listings) + len(r.Reviews) + len(r.Calendar)
}

// Extractor connects to the source database and pulls the collections.
type Extractor struct {
	cfg    config.MongoConfig
	logger *slog.Logger
	client *mongo.Client
}

// New creates an Extractor for the given source configuration.
func New(cfg config.MongoConfig, logger *slog.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger}
}

// Connect establishes and pings the MongoDB connection.
func (e *Extractor) Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(e.cfg.URI).
		SetServerSelectionTimeout(e.cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return pipeerrors.NewConnectionError(e.cfg.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return pipeerrors.NewConnectionError(e.cfg.URI, err)
	}

	e.client = client
	e.logger.Info("connected to source database",
		slog.String("uri", e.cfg.URI),
		slog.String("database", e.cfg.Database))
	return nil
}

// Close releases the connection. Safe to call when Connect failed.
func (e *Extractor) Close(ctx context.Context) {
	if e.client == nil {
		return
	}
	if err := e.client.Disconnect(ctx); err != nil {
		e.logger.Warn("failed to disconnect from source database", slog.String("error", err.Error()))
		return
	}
	e.logger.Info("source database connection closed")
	e.client = nil
}

// ExtractAll connects, verifies the configured collections exist, and pulls
// all three of them. The connection is always released before returning.
func (e *Extractor) ExtractAll(ctx context.Context) (*Result, error) {
	if err := e.Connect(ctx); err != nil {
		return nil, err
	}
	defer e.Close(ctx)

	db := e.client.Database(e.cfg.Database)

	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, pipeerrors.NewConnectionError(e.cfg.URI, err)
	}
	if missing := MissingCollections(names, e.cfg.Collections.All()); len(missing) > 0 {
		return nil, pipeerrors.NewCollectionNotFoundError(missing[0])
	}

	result := &Result{}
	if result.Listings, err = fetch[domain.Listing](ctx, db, e.cfg.Collections.Listings, e.logger); err != nil {
		return nil, err
	}
	if result.Reviews, err = fetch[domain.Review](ctx, db, e.cfg.Collections.Reviews, e.logger); err != nil {
		return nil, err
	}
	if result.Calendar, err = fetch[domain.CalendarEntry](ctx, db, e.cfg.Collections.Calendar, e.logger); err != nil {
		return nil, err
	}

	e.logger.Info("extraction completed",
		slog.Int("total_records", result.Total()),
		slog.Int("listings", len(result.Listings)),
		slog.Int("reviews", len(result.Reviews)),
		slog.Int("calendar", len(result.Calendar)))
	return result, nil
}

// MissingCollections returns the required collection names absent from the
// available set, in required order.
func MissingCollections(available, required []string) []string {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}
	var missing []string
	for _, name := range required {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

func fetch[T any](ctx context.Context, db *mongo.Database, collection string, logger *slog.Logger) ([]T, error) {
	cursor, err := db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", collection, err)
	}

	logger.Info("collection extracted",
		slog.String("collection", collection),
		slog.Int("rows", len(docs)))
	if len(docs) == 0 {
		logger.Warn("collection is empty", slog.String("collection", collection))
	}
	return docs, nil
}
