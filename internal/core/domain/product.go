package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category enumerates the closed set of product categories.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryApparel     Category = "apparel"
	CategoryHome        Category = "home"
	CategoryOther       Category = "other"
)

// ValidCategory reports whether the value belongs to the category enum.
func ValidCategory(value string) bool {
	switch Category(value) {
	case CategoryElectronics, CategoryApparel, CategoryHome, CategoryOther:
		return true
	}
	return false
}

// RatingAggregate is a derived cache of all reviews referencing a product.
// It is recomputed on every review create, update, and delete.
type RatingAggregate struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Product mirrors the persisted representation in the products collection.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Category    Category           `bson:"category"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
	Stock       int                `bson:"stock"`
	Featured    bool               `bson:"featured"`
	Ratings     RatingAggregate    `bson:"ratings"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}
