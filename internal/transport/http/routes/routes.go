package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/db-y99/workhub-api/internal/infra/config"
	"github.com/db-y99/workhub-api/internal/transport/http/handlers"
	"github.com/db-y99/workhub-api/internal/transport/http/middleware"
	"github.com/db-y99/workhub-api/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Guard       *usecase.Guard
	Roles       *usecase.RoleService
	Permissions *usecase.PermissionService
	FileProxy   *usecase.FileProxyService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
	Storage     StorageChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorageChecker exposes readiness behaviour for the blob store.
type StorageChecker interface {
	HealthCheck(ctx context.Context) error
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
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	extract := middleware.SessionTokenExtractor(deps.Config.Session.CookieName)
	guard := deps.Services.Guard

	healthOptions := make([]handlers.HealthOption, 0, 3)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	if deps.Storage != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("storage", deps.Storage.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.EdgeGuard(guard, extract, deps.Config.Session.LoginURL))
	{
		permissionHandler := handlers.NewPermissionHandler(deps.Services.Permissions)
		permissionGroup := api.Group("/permissions")
		permissionGroup.GET("/me", middleware.RequireSession(guard, extract), permissionHandler.Me)
		permissionGroup.GET("", middleware.RequirePermission(guard, extract, "permissions:view"), permissionHandler.List)
		permissionGroup.POST("", middleware.RequirePermission(guard, extract, "permissions:create"), permissionHandler.Create)

		roleHandler := handlers.NewRoleHandler(deps.Services.Roles)
		roleGroup := api.Group("/roles")
		roleGroup.GET("", middleware.RequirePermission(guard, extract, "roles:view"), roleHandler.List)
		roleGroup.POST("", middleware.RequirePermission(guard, extract, "roles:create"), roleHandler.Create)
		roleGroup.DELETE("/:roleId", middleware.RequirePermission(guard, extract, "roles:delete"), roleHandler.Delete)
		roleGroup.GET("/:roleId/permissions", middleware.RequireSession(guard, extract), roleHandler.ListPermissions)

		fileHandler := handlers.NewFileHandler(deps.Services.FileProxy)
		fileGroup := api.Group("/files")
		fileGroup.Use(middleware.RequireSession(guard, extract))

		downloadHandlers := appendRateLimit(deps, "file_download", deps.Config.RateLimit.DownloadMaxAttempts, fileHandler.Download)
		fileGroup.GET("/download", downloadHandlers...)

		uploadHandlers := appendRateLimit(deps, "file_upload", deps.Config.RateLimit.UploadMaxAttempts, fileHandler.Upload)
		fileGroup.POST("/upload", uploadHandlers...)
	}

	return r
}

func appendRateLimit(deps Dependencies, name string, limit int, handler gin.HandlerFunc) []gin.HandlerFunc {
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
