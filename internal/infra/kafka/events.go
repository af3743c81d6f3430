package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes shoplite.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		Name:         event.Name,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.RegisteredAt, payload)
}

// PublishUserVerified publishes shoplite.user.verified events.
func (p *EventPublisher) PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error {
	payload := struct {
		UserID     string    `json:"user_id"`
		Email      string    `json:"email"`
		VerifiedAt time.Time `json:"verified_at"`
	}{
		UserID:     event.UserID,
		Email:      event.Email,
		VerifiedAt: event.VerifiedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.verified", event.VerifiedAt, payload)
}

// PublishOrderCreated publishes shoplite.order.created events.
func (p *EventPublisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	payload := struct {
		OrderID     string    `json:"order_id"`
		UserID      string    `json:"user_id"`
		TotalAmount float64   `json:"total_amount"`
		ItemCount   int       `json:"item_count"`
		CreatedAt   time.Time `json:"created_at"`
	}{
		OrderID:     event.OrderID,
		UserID:      event.UserID,
		TotalAmount: event.TotalAmount,
		ItemCount:   event.ItemCount,
		CreatedAt:   event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "order.created", event.CreatedAt, payload)
}

// PublishOrderStatusChanged publishes shoplite.order.status_changed events.
func (p *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event domain.OrderStatusChangedEvent) error {
	payload := struct {
		OrderID   string    `json:"order_id"`
		UserID    string    `json:"user_id"`
		Status    string    `json:"status"`
		ChangedAt time.Time `json:"changed_at"`
	}{
		OrderID:   event.OrderID,
		UserID:    event.UserID,
		Status:    event.Status,
		ChangedAt: event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "order.status_changed", event.ChangedAt, payload)
}

// PublishProductRatingUpdated publishes shoplite.product.rating_updated events.
func (p *EventPublisher) PublishProductRatingUpdated(ctx context.Context, event domain.ProductRatingUpdatedEvent) error {
	payload := struct {
		ProductID string    `json:"product_id"`
		Average   float64   `json:"average"`
		Count     int       `json:"count"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		ProductID: event.ProductID,
		Average:   event.Average,
		Count:     event.Count,
		UpdatedAt: event.UpdatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "product.rating_updated", event.UpdatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
