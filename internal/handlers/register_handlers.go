package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/SscSPs/finorn_backend/cmd/docs"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var registerValidatorsOnce sync.Once

// RegisterValidators installs the custom binding tags used by the request DTOs.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("contract_type", func(fl validator.FieldLevel) bool {
			return domain.IsSupportedContractType(fl.Field().String())
		})
	})
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	linkBuilder *links.Builder,
	posthogClient *utils.PosthogClientWrapper,
) error {
	RegisterValidators()

	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	registerAuthRoutes(r, cfg, services.Auth, linkBuilder)

	publicLimiter, err := middleware.NewRateLimiter(cfg.PublicRateLimit)
	if err != nil {
		return fmt.Errorf("public rate limiter: %w", err)
	}
	registerPublicRoutes(r, services.PublicView, middleware.RateLimit(publicLimiter))
	registerBillingWebhookRoutes(r, services.Billing)
	registerJobRoutes(r, cfg.CronSecret, services.Sweep)

	setupAPIV1Routes(r, cfg, services, linkBuilder)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.ClientOrigin == "" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = []string{cfg.ClientOrigin}
		c.AllowCredentials = true
	}
	c.AddAllowHeaders("Authorization", middleware.OrganizationHeader)
	c.AddExposeHeaders("Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining")
	return c
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	linkBuilder *links.Builder,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Organizations are managed by the caller directly and never need a resolved scope.
	registerOrganizationRoutes(v1, services.Organization, linkBuilder)

	scoped := v1.Group("", middleware.TenancyMiddleware(services.Tenancy))
	registerClientRoutes(scoped, services.Client)
	registerExportRoutes(scoped, services.Export)
	registerInvoiceRoutes(scoped, services.Invoice, linkBuilder)
	registerContractRoutes(scoped, services.Contract, linkBuilder)
	registerExpenseRoutes(scoped, services.Expense)
	registerNotificationRoutes(scoped, services.Notification)
	registerBillingRoutes(scoped, services.Billing)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
