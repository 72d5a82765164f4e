package handlers

import (
	"github.com/SscSPs/smb_suite/cmd/docs"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/SscSPs/smb_suite/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteLimiters are the request limiters of the API and of the public webhook.
// A nil limiter disables limiting for its routes.
type RouteLimiters struct {
	API     *limiter.Limiter
	Webhook *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiters RouteLimiters,
) {

	// Add health check route
	r.GET("/health", getHealth)

	var webhookMiddleware []gin.HandlerFunc
	if limiters.Webhook != nil {
		webhookMiddleware = append(webhookMiddleware, middleware.WebhookRateLimit(limiters.Webhook))
	}
	registerWebhookRoutes(r, services.Webhook, webhookMiddleware...)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, limiters.API)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) {
	limit := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if apiLimiter != nil {
			handlers = append(handlers, middleware.RateLimit(apiLimiter))
		}
		return handlers
	}

	v1 := r.Group("/api/v1")
	billing := newBillingHandler(service)

	// Activation polling works before login so the page can report NeedsAuth
	optional := v1.Group("", limit(middleware.OptionalAuthMiddleware(cfg.JWTSecret))...)
	registerActivationRoutes(optional, billing)

	authed := v1.Group("", limit(middleware.AuthMiddleware(cfg.JWTSecret))...)
	registerCurrencyRoutes(authed, service.CurrencySession, service.CurrencyAdmin)
	registerExchangeRateRoutes(authed, service.ExchangeRate, service.CurrencySession)
	registerBillingRoutes(authed, billing)
	registerNotificationRoutes(authed, service.Notification)

	admin := authed.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	registerAdminCurrencyRoutes(admin, service.CurrencyAdmin)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
