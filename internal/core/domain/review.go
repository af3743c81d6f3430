package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review mirrors the persisted representation in the reviews collection.
// Its lifecycle is tied to the referenced product: creation requires the
// product to exist, and every mutation triggers a rating recompute on it.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID primitive.ObjectID `bson:"productId"`
	Author    string             `bson:"author"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	Verified  bool               `bson:"verified"`
	Helpful   int                `bson:"helpful"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}
