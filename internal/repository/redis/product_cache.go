package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
)

// ProductCacheConfig defines key prefix and entry TTL for the product cache.
type ProductCacheConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// ProductCacheRepository caches single-product lookups as JSON in Redis.
type ProductCacheRepository struct {
	client *redis.Client
	cfg    ProductCacheConfig
}

// NewProductCacheRepository constructs a cache using the provided Redis client and config.
func NewProductCacheRepository(client *redis.Client, cfg ProductCacheConfig) *ProductCacheRepository {
	return &ProductCacheRepository{client: client, cfg: cfg}
}

// Get returns the cached product or (nil, nil) on a miss.
func (r *ProductCacheRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get product: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("decode cached product: %w", err)
	}

	return &product, nil
}

// Set stores the product with the configured TTL.
func (r *ProductCacheRepository) Set(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	if err := r.client.Set(ctx, r.key(product.ID), data, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis set product: %w", err)
	}

	return nil
}

// Invalidate drops the cached entry after a mutation.
func (r *ProductCacheRepository) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del product: %w", err)
	}
	return nil
}

func (r *ProductCacheRepository) key(id primitive.ObjectID) string {
	if r.cfg.KeyPrefix == "" {
		return id.Hex()
	}
	return fmt.Sprintf("%s:%s", r.cfg.KeyPrefix, id.Hex())
}

var _ port.ProductCache = (*ProductCacheRepository)(nil)
