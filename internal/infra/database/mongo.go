package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/infra/config"
)

// Mongo wraps mongo.Client with health check and lifecycle management.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
	cfg    config.MongoSettings
}

// NewMongo initializes the MongoDB connection pool. A failed initial ping is
// logged but not fatal; the API keeps serving and reports the state through
// the health endpoint.
func NewMongo(ctx context.Context, cfg config.MongoSettings, logger *zap.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	m := &Mongo{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
		cfg:    cfg,
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ServerSelectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Warn("MongoDB unreachable at startup, continuing without it",
			zap.String("database", cfg.Database),
			zap.Error(err),
		)
		return m, nil
	}

	logger.Info("MongoDB connection established",
		zap.String("database", cfg.Database),
		zap.Uint64("max_pool_size", cfg.MaxPoolSize),
	)

	return m, nil
}

// Database returns the configured mongo.Database for direct access.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// HealthCheck performs a primary ping to verify MongoDB connectivity.
func (m *Mongo) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := m.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo health check failed: %w", err)
	}
	return nil
}

// Close gracefully disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	m.logger.Info("Closing MongoDB connection")
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
