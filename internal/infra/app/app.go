package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/infra/config"
	"github.com/arklim/shoplite-api/internal/infra/database"
	kafkainfra "github.com/arklim/shoplite-api/internal/infra/kafka"
	"github.com/arklim/shoplite-api/internal/infra/logger"
	"github.com/arklim/shoplite-api/internal/infra/mail"
	redisinfra "github.com/arklim/shoplite-api/internal/infra/redis"
	"github.com/arklim/shoplite-api/internal/infra/security"
	mongorepo "github.com/arklim/shoplite-api/internal/repository/mongodb"
	redisrepo "github.com/arklim/shoplite-api/internal/repository/redis"
	"github.com/arklim/shoplite-api/internal/transport/http/middleware"
	"github.com/arklim/shoplite-api/internal/transport/http/routes"
	"github.com/arklim/shoplite-api/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	mongo  *database.Mongo
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	mongoDB, err := database.NewMongo(ctx, cfg.Mongo, log)
	if err != nil {
		return nil, fmt.Errorf("init mongo: %w", err)
	}

	if err := mongorepo.EnsureIndexes(ctx, mongoDB.Database()); err != nil {
		log.Warn("failed to ensure indexes, continuing", zap.Error(err))
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokenManager, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	var mailer port.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP, log)
	} else {
		log.Info("smtp host not configured, using logging mailer")
		mailer = mail.NewLoggingMailer(log)
	}

	var eventPublisher port.EventPublisher
	var kafkaProducer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
			kafkaProducer = nil
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	db := mongoDB.Database()
	userRepo := mongorepo.NewUserRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	reviewRepo := mongorepo.NewReviewRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)

	productCache := redisrepo.NewProductCacheRepository(redisClient.Client(), redisrepo.ProductCacheConfig{
		KeyPrefix: cfg.Redis.ProductCachePrefix,
		TTL:       cfg.Redis.ProductCacheTTL,
	})

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "shoplite:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Namespace: "shoplite"})
	if err != nil {
		log.Warn("failed to init http metrics", zap.Error(err))
	}

	authService := usecase.NewAuthService(userRepo, mailer, eventPublisher, tokenManager, usecase.AuthConfig{
		CodeLength: cfg.Verification.CodeLength,
		CodeTTL:    cfg.Verification.CodeTTL,
	}, log)
	productService := usecase.NewProductService(productRepo, productCache, log)
	reviewService := usecase.NewReviewService(reviewRepo, productRepo, productCache, eventPublisher, log)
	orderService := usecase.NewOrderService(orderRepo, productRepo, eventPublisher, log)
	userService := usecase.NewUserService(userRepo, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    mongoDB,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:     authService,
			Products: productService,
			Reviews:  reviewService,
			Orders:   orderService,
			Users:    userService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		mongo:  mongoDB,
		redis:  redisClient,
		kafka:  kafkaProducer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.mongo != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.mongo.Close(closeCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting ShopLite API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
