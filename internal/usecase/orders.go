package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/repository"
)

var (
	// ErrOrderNotFound indicates the order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAccessDenied indicates a client tried to read another user's order.
	ErrOrderAccessDenied = errors.New("order access denied")
)

// OrderItemInput references a product and quantity in a new order.
type OrderItemInput struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// OrderInput carries the payload for order creation.
type OrderInput struct {
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	Notes           string
}

func (in OrderInput) validate() error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrValidation, i)
		}
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	addr := in.ShippingAddress
	if strings.TrimSpace(addr.FullName) == "" {
		return fmt.Errorf("%w: shipping full name is required", ErrValidation)
	}
	if strings.TrimSpace(addr.Address) == "" {
		return fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	if strings.TrimSpace(addr.City) == "" {
		return fmt.Errorf("%w: shipping city is required", ErrValidation)
	}
	if strings.TrimSpace(addr.PostalCode) == "" {
		return fmt.Errorf("%w: shipping postal code is required", ErrValidation)
	}
	if strings.TrimSpace(addr.Country) == "" {
		return fmt.Errorf("%w: shipping country is required", ErrValidation)
	}

	return nil
}

// OrderService handles order creation, owner-scoped reads, and status
// administration.
type OrderService struct {
	orders   port.OrderRepository
	products port.ProductRepository
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewOrderService constructs an order service. Events are optional.
func NewOrderService(orders port.OrderRepository, products port.ProductRepository, events port.EventPublisher, lg *zap.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, events: events, logger: lg}
}

// Create snapshots the referenced products' name and price into the order,
// computes the total server-side, and persists it with status pending.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, input OrderInput) (*domain.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	total := 0.0
	for _, item := range input.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID.Hex())
			}
			return nil, err
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		total += product.Price * float64(item.Quantity)
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(input.PaymentMethod),
		Notes:           input.Notes,
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.events != nil {
		event := domain.OrderCreatedEvent{
			EventID:     uuid.NewString(),
			OrderID:     order.ID.Hex(),
			UserID:      userID.Hex(),
			TotalAmount: total,
			ItemCount:   len(items),
			CreatedAt:   now,
		}
		if err := s.events.PublishOrderCreated(ctx, event); err != nil {
			s.logger.Warn("Publish order.created failed", zap.Error(err))
		}
	}

	return &order, nil
}

// Get returns an order. Clients can only read their own orders; admin and
// superadmin actors can read any.
func (s *OrderService) Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if actor.Role == domain.RoleClient && order.UserID != actor.ID {
		return nil, ErrOrderAccessDenied
	}

	return order, nil
}

// List returns the actor's own orders for clients, and all orders for admin
// and superadmin actors.
func (s *OrderService) List(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	filter := port.OrderFilter{}
	if actor.Role == domain.RoleClient {
		filter.UserID = &actor.ID
	}
	return s.orders.List(ctx, filter)
}

// UpdateStatus sets a new status. Any enum value is accepted at any time.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	order, err := s.orders.UpdateStatus(ctx, id, domain.OrderStatus(status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if s.events != nil {
		event := domain.OrderStatusChangedEvent{
			EventID:   uuid.NewString(),
			OrderID:   order.ID.Hex(),
			UserID:    order.UserID.Hex(),
			Status:    string(order.Status),
			ChangedAt: time.Now().UTC(),
		}
		if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Warn("Publish order.status_changed failed", zap.Error(err))
		}
	}

	return order, nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}
