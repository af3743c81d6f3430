package domain

import "time"

// UserRegisteredEvent is emitted after a user record is created and the
// verification email has been dispatched.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	Name         string
	RegisteredAt time.Time
}

// UserVerifiedEvent is emitted once a verification code is accepted.
type UserVerifiedEvent struct {
	EventID    string
	UserID     string
	Email      string
	VerifiedAt time.Time
}

// OrderCreatedEvent is emitted when an order document is persisted.
type OrderCreatedEvent struct {
	EventID     string
	OrderID     string
	UserID      string
	TotalAmount float64
	ItemCount   int
	CreatedAt   time.Time
}

// OrderStatusChangedEvent is emitted on every status mutation.
type OrderStatusChangedEvent struct {
	EventID   string
	OrderID   string
	UserID    string
	Status    string
	ChangedAt time.Time
}

// ProductRatingUpdatedEvent is emitted after the rating aggregate of a
// product is recomputed.
type ProductRatingUpdatedEvent struct {
	EventID   string
	ProductID string
	Average   float64
	Count     int
	UpdatedAt time.Time
}
