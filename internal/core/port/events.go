package port

import (
	"context"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

// EventPublisher delivers domain events to downstream consumers. Publishing
// is best-effort: request handling never fails because an event could not be
// delivered.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error
	PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error
	PublishProductRatingUpdated(ctx context.Context, event domain.ProductRatingUpdatedEvent) error
}
