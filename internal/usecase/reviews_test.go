package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/repository"
)

type memProductRepo struct {
	products map[primitive.ObjectID]domain.Product

	ratingsWrites int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[primitive.ObjectID]domain.Product)}
}

func (m *memProductRepo) Create(_ context.Context, product domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := product
	return &copy, nil
}

func (m *memProductRepo) List(_ context.Context, _ port.ProductFilter) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.products))
	for _, product := range m.products {
		out = append(out, product)
	}
	return out, nil
}

func (m *memProductRepo) Update(_ context.Context, id primitive.ObjectID, update port.ProductUpdate) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	product.Name = update.Name
	product.Price = update.Price
	product.Description = update.Description
	product.Category = update.Category
	product.ImageURL = update.ImageURL
	product.Stock = update.Stock
	product.Featured = update.Featured
	m.products[id] = product
	copy := product
	return &copy, nil
}

func (m *memProductRepo) Delete(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.products, id)
	copy := product
	return &copy, nil
}

func (m *memProductRepo) UpdateRatings(_ context.Context, id primitive.ObjectID, ratings domain.RatingAggregate) error {
	m.ratingsWrites++
	product, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	product.Ratings = ratings
	m.products[id] = product
	return nil
}

type memReviewRepo struct {
	reviews map[primitive.ObjectID]domain.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[primitive.ObjectID]domain.Review)}
}

func (m *memReviewRepo) Create(_ context.Context, review domain.Review) error {
	m.reviews[review.ID] = review
	return nil
}

func (m *memReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := review
	return &copy, nil
}

func (m *memReviewRepo) List(_ context.Context, filter port.ReviewFilter) ([]domain.Review, error) {
	out := make([]domain.Review, 0, len(m.reviews))
	for _, review := range m.reviews {
		if filter.ProductID != nil && review.ProductID != *filter.ProductID {
			continue
		}
		out = append(out, review)
	}
	return out, nil
}

func (m *memReviewRepo) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]domain.Review, error) {
	return m.List(ctx, port.ReviewFilter{ProductID: &productID})
}

func (m *memReviewRepo) Update(_ context.Context, id primitive.ObjectID, update port.ReviewUpdate) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	review.Author = update.Author
	review.Rating = update.Rating
	review.Comment = update.Comment
	review.Verified = update.Verified
	review.Helpful = update.Helpful
	m.reviews[id] = review
	copy := review
	return &copy, nil
}

func (m *memReviewRepo) Delete(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.reviews, id)
	copy := review
	return &copy, nil
}

func seedProduct(t *testing.T, repo *memProductRepo) domain.Product {
	t.Helper()
	product := domain.Product{
		ID:        primitive.NewObjectID(),
		Name:      "Mechanical Keyboard",
		Price:     89.90,
		Category:  domain.CategoryElectronics,
		Stock:     5,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestCreateReviewRequiresProduct(t *testing.T) {
	svc := NewReviewService(newMemReviewRepo(), newMemProductRepo(), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), ReviewInput{Author: "Ada", Rating: 5})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateReviewRejectsRatingOutOfRange(t *testing.T) {
	products := newMemProductRepo()
	product := seedProduct(t, products)
	svc := NewReviewService(newMemReviewRepo(), products, nil, nil, zap.NewNop())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), product.ID, ReviewInput{Author: "Ada", Rating: rating})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
}

func TestRatingAggregateIsArithmeticMean(t *testing.T) {
	ctx := context.Background()
	products := newMemProductRepo()
	product := seedProduct(t, products)
	svc := NewReviewService(newMemReviewRepo(), products, nil, nil, zap.NewNop())

	for _, rating := range []int{5, 3, 4} {
		if _, err := svc.Create(ctx, product.ID, ReviewInput{Author: "Ada", Rating: rating}); err != nil {
			t.Fatalf("Create rating %d: %v", rating, err)
		}
	}

	stored := products.products[product.ID]
	if stored.Ratings.Count != 3 {
		t.Fatalf("expected count 3, got %d", stored.Ratings.Count)
	}
	if math.Abs(stored.Ratings.Average-4.0) > 1e-9 {
		t.Fatalf("expected mean 4.0, got %f", stored.Ratings.Average)
	}
}

func TestRatingAggregateIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	ratings := []int{1, 5, 3, 4, 2}

	run := func(order []int) domain.RatingAggregate {
		products := newMemProductRepo()
		product := seedProduct(t, products)
		svc := NewReviewService(newMemReviewRepo(), products, nil, nil, zap.NewNop())
		for _, rating := range order {
			if _, err := svc.Create(ctx, product.ID, ReviewInput{Author: "Ada", Rating: rating}); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		return products.products[product.ID].Ratings
	}

	forward := run(ratings)

	reversed := make([]int, len(ratings))
	for i, rating := range ratings {
		reversed[len(ratings)-1-i] = rating
	}
	backward := run(reversed)

	if forward != backward {
		t.Fatalf("aggregate depends on insertion order: %+v vs %+v", forward, backward)
	}
}

func TestDeleteReviewRecomputesAggregate(t *testing.T) {
	ctx := context.Background()
	products := newMemProductRepo()
	product := seedProduct(t, products)
	svc := NewReviewService(newMemReviewRepo(), products, nil, nil, zap.NewNop())

	first, err := svc.Create(ctx, product.ID, ReviewInput{Author: "Ada", Rating: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, product.ID, ReviewInput{Author: "Bea", Rating: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	stored := products.products[product.ID]
	if stored.Ratings.Count != 1 || stored.Ratings.Average != 1.0 {
		t.Fatalf("expected count 1 average 1.0, got %+v", stored.Ratings)
	}

	remaining, err := svc.Get(ctx, first.ID)
	if !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v (%v)", err, remaining)
	}
}

func TestDeleteLastReviewZeroesAggregate(t *testing.T) {
	ctx := context.Background()
	products := newMemProductRepo()
	product := seedProduct(t, products)
	svc := NewReviewService(newMemReviewRepo(), products, nil, nil, zap.NewNop())

	review, err := svc.Create(ctx, product.ID, ReviewInput{Author: "Ada", Rating: 4})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Delete(ctx, review.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	stored := products.products[product.ID]
	if stored.Ratings.Count != 0 || stored.Ratings.Average != 0 {
		t.Fatalf("expected zeroed aggregate, got %+v", stored.Ratings)
	}
}

func TestUpdateReviewRecomputesAggregate(t *testing.T) {
	ctx := context.Background()
	products := newMemProductRepo()
	product := seedProduct(t, products)
	svc := NewReviewService(newMemReviewRepo(), products, nil, nil, zap.NewNop())

	review, err := svc.Create(ctx, product.ID, ReviewInput{Author: "Ada", Rating: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(ctx, review.ID, ReviewInput{Author: "Ada", Rating: 5}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored := products.products[product.ID]
	if stored.Ratings.Average != 5.0 {
		t.Fatalf("expected average 5.0 after update, got %f", stored.Ratings.Average)
	}
	if products.ratingsWrites != 2 {
		t.Fatalf("expected 2 aggregate writes, got %d", products.ratingsWrites)
	}
}
