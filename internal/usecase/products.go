package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/repository"
)

// ErrProductNotFound indicates the product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductInput carries the full field set for product create and update.
type ProductInput struct {
	Name        string
	Price       float64
	Description string
	Category    string
	ImageURL    string
	Stock       int
	Featured    bool
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if !domain.ValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

// ProductService handles catalog reads and writes with a read-through cache
// on single-product lookups.
type ProductService struct {
	products port.ProductRepository
	cache    port.ProductCache
	logger   *zap.Logger
}

// NewProductService constructs a product service. The cache is optional.
func NewProductService(products port.ProductRepository, cache port.ProductCache, lg *zap.Logger) *ProductService {
	return &ProductService{products: products, cache: cache, logger: lg}
}

// Create validates and inserts a new product with a zeroed rating aggregate.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Description: input.Description,
		Category:    domain.Category(input.Category),
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		Featured:    input.Featured,
		Ratings:     domain.RatingAggregate{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return &product, nil
}

// Get returns a single product, serving from cache when possible. Cache
// failures are logged and fall through to the repository.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("Product cache read failed", zap.String("product_id", id.Hex()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *product); err != nil {
			s.logger.Warn("Product cache write failed", zap.String("product_id", id.Hex()), zap.Error(err))
		}
	}

	return product, nil
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// Update validates and replaces the editable fields, then drops the cached
// entry.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	update := port.ProductUpdate{
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Description: input.Description,
		Category:    domain.Category(input.Category),
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		Featured:    input.Featured,
	}

	product, err := s.products.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, id)

	return product, nil
}

// Delete removes a product and returns the removed document.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product, err := s.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Product cache invalidation failed", zap.String("product_id", id.Hex()), zap.Error(err))
	}
}
