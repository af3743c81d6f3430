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

// ErrReviewNotFound indicates the review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewInput carries the full field set for review create and update.
type ReviewInput struct {
	Author   string
	Rating   int
	Comment  string
	Verified bool
	Helpful  int
}

func (in ReviewInput) validate() error {
	if strings.TrimSpace(in.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if in.Helpful < 0 {
		return fmt.Errorf("%w: helpful must not be negative", ErrValidation)
	}
	return nil
}

// ReviewService handles review writes and keeps the referenced product's
// rating aggregate in sync.
type ReviewService struct {
	reviews  port.ReviewRepository
	products port.ProductRepository
	cache    port.ProductCache
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewReviewService constructs a review service. Cache and events are optional.
func NewReviewService(reviews port.ReviewRepository, products port.ProductRepository, cache port.ProductCache, events port.EventPublisher, lg *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, cache: cache, events: events, logger: lg}
}

// Create validates the payload, requires the referenced product to exist,
// inserts the review, and recomputes the product's rating aggregate.
func (s *ReviewService) Create(ctx context.Context, productID primitive.ObjectID, input ReviewInput) (*domain.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	review := domain.Review{
		ID:        primitive.NewObjectID(),
		ProductID: productID,
		Author:    strings.TrimSpace(input.Author),
		Rating:    input.Rating,
		Comment:   input.Comment,
		Verified:  input.Verified,
		Helpful:   input.Helpful,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.refreshRatings(ctx, productID)

	return &review, nil
}

// Get returns a single review.
func (s *ReviewService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// List returns reviews matching the filter.
func (s *ReviewService) List(ctx context.Context, filter port.ReviewFilter) ([]domain.Review, error) {
	return s.reviews.List(ctx, filter)
}

// Update validates and replaces the editable fields, then recomputes the
// rating aggregate of the review's product.
func (s *ReviewService) Update(ctx context.Context, id primitive.ObjectID, input ReviewInput) (*domain.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	update := port.ReviewUpdate{
		Author:   strings.TrimSpace(input.Author),
		Rating:   input.Rating,
		Comment:  input.Comment,
		Verified: input.Verified,
		Helpful:  input.Helpful,
	}

	review, err := s.reviews.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	s.refreshRatings(ctx, review.ProductID)

	return review, nil
}

// Delete removes a review and recomputes the rating aggregate of its product.
func (s *ReviewService) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	review, err := s.reviews.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	s.refreshRatings(ctx, review.ProductID)

	return review, nil
}

// refreshRatings recomputes the arithmetic mean over all reviews of the
// product and overwrites the stored aggregate. The read and write are not
// atomic; concurrent writers race and the last write wins.
func (s *ReviewService) refreshRatings(ctx context.Context, productID primitive.ObjectID) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Rating recompute read failed", zap.String("product_id", productID.Hex()), zap.Error(err))
		return
	}

	aggregate := domain.RatingAggregate{Count: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		aggregate.Average = float64(sum) / float64(len(reviews))
	}

	if err := s.products.UpdateRatings(ctx, productID, aggregate); err != nil {
		s.logger.Error("Rating recompute write failed", zap.String("product_id", productID.Hex()), zap.Error(err))
		return
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, productID); err != nil {
			s.logger.Warn("Product cache invalidation failed", zap.String("product_id", productID.Hex()), zap.Error(err))
		}
	}

	if s.events != nil {
		event := domain.ProductRatingUpdatedEvent{
			EventID:   uuid.NewString(),
			ProductID: productID.Hex(),
			Average:   aggregate.Average,
			Count:     aggregate.Count,
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.events.PublishProductRatingUpdated(ctx, event); err != nil {
			s.logger.Warn("Publish product.rating_updated failed", zap.Error(err))
		}
	}
}
