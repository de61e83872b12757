package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Action string

const (
	ActionProductAdded       Action = "Product Added"
	ActionProductUpdated     Action = "Product Updated"
	ActionProductInfoUpdated Action = "Product info Updated"
	ActionProductDeleted     Action = "Product Deleted"
)

// HistoryEntry is one append-only audit record. Entries are never mutated
// or deleted, and keep only copied product values, so they survive deletion
// of the Product they describe.
type HistoryEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Action    Action             `bson:"action"`
	Details   string             `bson:"details"`
	Product   ProductData        `bson:"productData"`
	Timestamp primitive.DateTime `bson:"timestamp"`
}

// ProductData is the per-action payload of a HistoryEntry, one variant per
// Action: a full snapshot for Product Added/Deleted, id plus existing and
// updated fields for Product Updated, and id/name plus updated fields for
// Product info Updated. Use the constructors below rather than filling in
// fields by hand.
type ProductData struct {
	Snapshot  *Product       `bson:"snapshot,omitempty" json:"snapshot,omitempty"`
	ProductID string         `bson:"id,omitempty" json:"id,omitempty"`
	Name      string         `bson:"name,omitempty" json:"name,omitempty"`
	Existing  map[string]any `bson:"existingFields,omitempty" json:"existingFields,omitempty"`
	Updated   map[string]any `bson:"updatedFields,omitempty" json:"updatedFields,omitempty"`
}

func SnapshotData(p Product) ProductData {
	return ProductData{Snapshot: &p}
}

func UpdateData(productID string, existing, updated map[string]any) ProductData {
	return ProductData{ProductID: productID, Existing: existing, Updated: updated}
}

func InfoUpdateData(productID, name string, updated map[string]any) ProductData {
	return ProductData{ProductID: productID, Name: name, Updated: updated}
}
