package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// OrderFilter narrows order listings. UserID scopes results to a single
// owner, used for the client view.
type OrderFilter struct {
	UserID *primitive.ObjectID
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
