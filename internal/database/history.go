package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventorytracker/internal/model"
)

// HistoryInsert appends one audit entry. The History collection is
// append-only: nothing in this package updates or deletes its documents.
func (db Database) HistoryInsert(ctx context.Context, he model.HistoryEntry) (err error) {
	_, err = db.Collection(CollectionHistory).InsertOne(ctx, he)
	return errors.Wrapf(err, "error inserting HistoryEntry with action: %s", he.Action)
}

func (db Database) HistoryFindLatest(ctx context.Context, limit int64) ([]model.HistoryEntry, error) {
	var hes []model.HistoryEntry
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cur, err := db.Collection(CollectionHistory).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find latest %d HistoryEntries", limit)
	}
	if err = cur.All(ctx, &hes); err != nil {
		return nil, errors.Wrap(err, "error getting HistoryEntries from cursor")
	}
	return hes, nil
}
