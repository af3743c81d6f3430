package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/infra/config"
	"github.com/arklim/shoplite-api/internal/transport/http/handlers"
	"github.com/arklim/shoplite-api/internal/transport/http/middleware"
	"github.com/arklim/shoplite-api/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth     *usecase.AuthService
	Products *usecase.ProductService
	Reviews  *usecase.ReviewService
	Orders   *usecase.OrderService
	Users    *usecase.UserService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    handlers.Pinger
	Cache       handlers.Pinger
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Services.Auth)
	requireStaff := middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperadmin)
	requireSuperadmin := middleware.RequireRole(domain.RoleSuperadmin)

	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Cache)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		authGroup := api.Group("/auth")
		authGroup.POST("/register", withRateLimit(deps, "register", deps.Config.RateLimit.RegisterMaxAttempts, authHandler.Register)...)
		authGroup.POST("/verify", authHandler.Verify)
		authGroup.POST("/resend-code", withRateLimit(deps, "resend", deps.Config.RateLimit.ResendMaxAttempts, authHandler.Resend)...)
		authGroup.POST("/login", withRateLimit(deps, "login", deps.Config.RateLimit.LoginMaxAttempts, authHandler.Login)...)
		authGroup.GET("/me", requireAuth, authHandler.Me)

		productHandler := handlers.NewProductHandler(deps.Services.Products)
		productGroup := api.Group("/products")
		productGroup.GET("", productHandler.List)
		productGroup.GET("/:id", productHandler.Get)
		productGroup.POST("", requireAuth, requireStaff, productHandler.Create)
		productGroup.PUT("/:id", requireAuth, requireStaff, productHandler.Update)
		productGroup.DELETE("/:id", requireAuth, requireStaff, productHandler.Delete)

		reviewHandler := handlers.NewReviewHandler(deps.Services.Reviews)
		reviewGroup := api.Group("/reviews")
		reviewGroup.GET("", reviewHandler.List)
		reviewGroup.GET("/:id", reviewHandler.Get)
		reviewGroup.POST("", requireAuth, reviewHandler.Create)
		reviewGroup.PUT("/:id", requireAuth, requireStaff, reviewHandler.Update)
		reviewGroup.DELETE("/:id", requireAuth, requireStaff, reviewHandler.Delete)

		orderHandler := handlers.NewOrderHandler(deps.Services.Orders)
		orderGroup := api.Group("/orders")
		orderGroup.Use(requireAuth)
		orderGroup.POST("", orderHandler.Create)
		orderGroup.GET("", orderHandler.List)
		orderGroup.GET("/:id", orderHandler.Get)
		orderGroup.PUT("/:id/status", requireStaff, orderHandler.UpdateStatus)
		orderGroup.DELETE("/:id", requireSuperadmin, orderHandler.Delete)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		userGroup := api.Group("/users")
		userGroup.Use(requireAuth, requireSuperadmin)
		userGroup.GET("", userHandler.List)
		userGroup.GET("/:id", userHandler.Get)
		userGroup.PUT("/:id/role", userHandler.UpdateRole)
		userGroup.DELETE("/:id", userHandler.Delete)
	}

	return r
}

// withRateLimit prefixes the handler with a per-IP sliding window rule when a
// limiter and a positive limit are configured.
func withRateLimit(deps Dependencies, name string, limit int, handler gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return []gin.HandlerFunc{handler}
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule), handler}
}
