package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aph/pathlabel/internal/core/ports"
)

const journalCollection = "label_events"

// JournalRepository implements ports.PrintJournalRepository using MongoDB.
type JournalRepository struct {
	coll *mongo.Collection
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db *mongo.Database) *JournalRepository {
	return &JournalRepository{coll: db.Collection(journalCollection)}
}

// EnsureIndexes creates the lookup index used when auditing a path id.
func (r *JournalRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "path_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("path_id_at"),
	})
	if err != nil {
		return fmt.Errorf("create journal index: %w", err)
	}
	return nil
}

// Insert persists a label event to the label_events audit collection.
func (r *JournalRepository) Insert(ctx context.Context, ev ports.LabelEvent) error {
	doc := bson.M{
		"path_id":     ev.PathID,
		"flow":        ev.Flow,
		"action":      ev.Action,
		"user_id":     ev.UserID,
		"at":          ev.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert label event: %w", err)
	}
	return nil
}
