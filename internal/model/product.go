package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Stock     int                `bson:"stock" json:"stock"`
	Brand     string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Processor string             `bson:"processor,omitempty" json:"processor,omitempty"`
	RAM       string             `bson:"ram,omitempty" json:"ram,omitempty"`
	Storage   string             `bson:"storage,omitempty" json:"storage,omitempty"`
	GPU       string             `bson:"gpu,omitempty" json:"gpu,omitempty"`
	OS        string             `bson:"os,omitempty" json:"os,omitempty"`
	Condition string             `bson:"condition,omitempty" json:"condition,omitempty"`
	Warranty  string             `bson:"warranty,omitempty" json:"warranty,omitempty"`
}

// CoreFieldNames and InfoFieldNames are the allow-lists for the two update
// routes. Incoming fields outside the route's list are ignored.
var (
	CoreFieldNames = []string{"name", "price", "stock"}
	InfoFieldNames = []string{"brand", "processor", "ram", "storage", "gpu", "os", "condition", "warranty"}
)

// CoreFields returns the core field values keyed by their wire names, for
// diffing against an incoming update payload.
func (p Product) CoreFields() map[string]any {
	return map[string]any{
		"name":  p.Name,
		"price": p.Price,
		"stock": p.Stock,
	}
}

// InfoFields returns the extended field values keyed by their wire names.
func (p Product) InfoFields() map[string]any {
	return map[string]any{
		"brand":     p.Brand,
		"processor": p.Processor,
		"ram":       p.RAM,
		"storage":   p.Storage,
		"gpu":       p.GPU,
		"os":        p.OS,
		"condition": p.Condition,
		"warranty":  p.Warranty,
	}
}
