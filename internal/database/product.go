package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inventorytracker/internal/model"
)

func (db Database) ProductInsert(ctx context.Context, p model.Product) (id string, err error) {
	r, err := db.Collection(CollectionProducts).InsertOne(ctx, p)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting Product: %+v", p)
	}
	return r.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) ProductFindOne(ctx context.Context, productID string) (model.Product, error) {
	var p model.Product
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return p, errors.Wrapf(err, "error generating ObjectID from hex: %s", productID)
	}
	err = db.Collection(CollectionProducts).FindOne(ctx, bson.M{"_id": objID}).Decode(&p)
	return p, errors.Wrapf(err, "error finding Product with ID: %s", productID)
}

func (db Database) ProductsFindAll(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product
	cur, err := db.Collection(CollectionProducts).Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find all Products")
	}
	if err = cur.All(ctx, &ps); err != nil {
		return nil, errors.Wrap(err, "error getting all Products from cursor")
	}
	return ps, nil
}

// ProductUpdate writes only the given fields, leaving others untouched.
func (db Database) ProductUpdate(ctx context.Context, productID string, fields map[string]any) error {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return errors.Wrapf(err, "error generating ObjectID from hex: %s", productID)
	}
	res, err := db.Collection(CollectionProducts).UpdateOne(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating Product with ID: %s, fields: %+v", productID, fields)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Product matched for update with ID: %s", productID)
	}
	return nil
}

func (db Database) ProductDelete(ctx context.Context, productID string) error {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return errors.Wrapf(err, "error generating ObjectID from hex: %s", productID)
	}
	res, err := db.Collection(CollectionProducts).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrapf(err, "error deleting Product with ID: %s", productID)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "no Product matched for delete with ID: %s", productID)
	}
	return nil
}
