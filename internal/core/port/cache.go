package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// ProductCache is a read-through cache for single-product lookups. A miss is
// reported as (nil, nil); errors indicate a backend failure and callers fall
// through to the repository.
type ProductCache interface {
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	Set(ctx context.Context, product domain.Product) error
	Invalidate(ctx context.Context, id primitive.ObjectID) error
}
