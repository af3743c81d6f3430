package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProductID *primitive.ObjectID
}

// ReviewUpdate carries the replacement field set for a review.
type ReviewUpdate struct {
	Author   string
	Rating   int
	Comment  string
	Verified bool
	Helpful  int
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, error)
	// ListByProduct returns every review referencing the product, used by
	// the rating aggregate recompute.
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, update ReviewUpdate) (*domain.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Review, error)
}
