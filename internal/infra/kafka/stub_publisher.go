package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"name":          event.Name,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.RegisteredAt, payload)
	return nil
}

// PublishUserVerified logs user.verified events.
func (p *StubPublisher) PublishUserVerified(_ context.Context, event domain.UserVerifiedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"email":       event.Email,
		"verified_at": event.VerifiedAt,
	}
	p.logEvent("user.verified", event.VerifiedAt, payload)
	return nil
}

// PublishOrderCreated logs order.created events.
func (p *StubPublisher) PublishOrderCreated(_ context.Context, event domain.OrderCreatedEvent) error {
	payload := map[string]any{
		"order_id":     event.OrderID,
		"user_id":      event.UserID,
		"total_amount": event.TotalAmount,
		"item_count":   event.ItemCount,
		"created_at":   event.CreatedAt,
	}
	p.logEvent("order.created", event.CreatedAt, payload)
	return nil
}

// PublishOrderStatusChanged logs order.status_changed events.
func (p *StubPublisher) PublishOrderStatusChanged(_ context.Context, event domain.OrderStatusChangedEvent) error {
	payload := map[string]any{
		"order_id":   event.OrderID,
		"user_id":    event.UserID,
		"status":     event.Status,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("order.status_changed", event.ChangedAt, payload)
	return nil
}

// PublishProductRatingUpdated logs product.rating_updated events.
func (p *StubPublisher) PublishProductRatingUpdated(_ context.Context, event domain.ProductRatingUpdatedEvent) error {
	payload := map[string]any{
		"product_id": event.ProductID,
		"average":    event.Average,
		"count":      event.Count,
		"updated_at": event.UpdatedAt,
	}
	p.logEvent("product.rating_updated", event.UpdatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
