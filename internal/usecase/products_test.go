package usecase

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
)

type memProductCache struct {
	entries map[primitive.ObjectID]domain.Product

	getErr error
	setErr error

	hits   int
	misses int
	sets   int
	drops  int
}

func newMemProductCache() *memProductCache {
	return &memProductCache{entries: make(map[primitive.ObjectID]domain.Product)}
}

func (c *memProductCache) Get(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	product, ok := c.entries[id]
	if !ok {
		c.misses++
		return nil, nil
	}
	c.hits++
	copy := product
	return &copy, nil
}

func (c *memProductCache) Set(_ context.Context, product domain.Product) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.entries[product.ID] = product
	return nil
}

func (c *memProductCache) Invalidate(_ context.Context, id primitive.ObjectID) error {
	c.drops++
	delete(c.entries, id)
	return nil
}

func validProductInput() ProductInput {
	return ProductInput{
		Name:     "USB-C Hub",
		Price:    39.99,
		Category: string(domain.CategoryElectronics),
		Stock:    12,
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(newMemProductRepo(), nil, zap.NewNop())

	cases := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"blank name", func(in *ProductInput) { in.Name = "  " }},
		{"negative price", func(in *ProductInput) { in.Price = -1 }},
		{"unknown category", func(in *ProductInput) { in.Category = "groceries" }},
		{"negative stock", func(in *ProductInput) { in.Stock = -3 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validProductInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateProductZeroesRatings(t *testing.T) {
	svc := NewProductService(newMemProductRepo(), nil, zap.NewNop())

	product, err := svc.Create(context.Background(), validProductInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.Ratings.Average != 0 || product.Ratings.Count != 0 {
		t.Fatalf("expected zeroed rating aggregate, got %+v", product.Ratings)
	}
}

func TestGetProductCacheAside(t *testing.T) {
	ctx := context.Background()
	repo := newMemProductRepo()
	product := seedProduct(t, repo)
	cache := newMemProductCache()
	svc := NewProductService(repo, cache, zap.NewNop())

	first, err := svc.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cache.misses != 1 || cache.sets != 1 {
		t.Fatalf("expected one miss and one fill, got misses=%d sets=%d", cache.misses, cache.sets)
	}

	second, err := svc.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected a cache hit on second read, got hits=%d", cache.hits)
	}
	if first.Name != second.Name {
		t.Fatalf("cached product diverged: %q vs %q", first.Name, second.Name)
	}
}

func TestGetProductCacheFailureFallsThrough(t *testing.T) {
	repo := newMemProductRepo()
	product := seedProduct(t, repo)
	cache := newMemProductCache()
	cache.getErr = errors.New("redis down")
	svc := NewProductService(repo, cache, zap.NewNop())

	got, err := svc.Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("Get should survive cache failure: %v", err)
	}
	if got.ID != product.ID {
		t.Fatalf("got wrong product %s", got.ID.Hex())
	}
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := newMemProductRepo()
	product := seedProduct(t, repo)
	cache := newMemProductCache()
	svc := NewProductService(repo, cache, zap.NewNop())

	if _, err := svc.Get(ctx, product.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	input := validProductInput()
	input.Name = "USB-C Hub v2"
	if _, err := svc.Update(ctx, product.ID, input); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cache.drops != 1 {
		t.Fatalf("expected one cache invalidation, got %d", cache.drops)
	}

	fresh, err := svc.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fresh.Name != "USB-C Hub v2" {
		t.Fatalf("stale product served after update: %q", fresh.Name)
	}
}

func TestDeleteProductReturnsRemovedDocument(t *testing.T) {
	ctx := context.Background()
	repo := newMemProductRepo()
	product := seedProduct(t, repo)
	cache := newMemProductCache()
	svc := NewProductService(repo, cache, zap.NewNop())

	removed, err := svc.Delete(ctx, product.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.ID != product.ID {
		t.Fatalf("returned wrong document %s", removed.ID.Hex())
	}
	if cache.drops != 1 {
		t.Fatalf("expected cache invalidation on delete, got %d", cache.drops)
	}

	if _, err := svc.Get(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
