package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// ProductSort enumerates the supported list orderings.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

// ProductFilter narrows product listings. Zero values mean "no constraint";
// the repository translates the set fields into a query instead of callers
// assembling raw filter documents.
type ProductFilter struct {
	Category *domain.Category
	Sort     ProductSort
	Limit    int64
}

// ProductUpdate carries the replacement field set for a product.
type ProductUpdate struct {
	Name        string
	Price       float64
	Description string
	Category    domain.Category
	ImageURL    string
	Stock       int
	Featured    bool
}

// ProductRepository persists catalog entries and their rating aggregates.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings domain.RatingAggregate) error
}
