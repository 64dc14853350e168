// Package server assembles the HTTP surface: middleware chain, API routes and the page.
package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Muhammadkaif97/cpn-calculator/docs"
	"github.com/Muhammadkaif97/cpn-calculator/internal/cache"
	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/contact"
	"github.com/Muhammadkaif97/cpn-calculator/internal/errors"
	"github.com/Muhammadkaif97/cpn-calculator/internal/frontend"
	"github.com/Muhammadkaif97/cpn-calculator/internal/middleware"
	"github.com/Muhammadkaif97/cpn-calculator/internal/monitoring"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ratelimit"
	"github.com/Muhammadkaif97/cpn-calculator/internal/security"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SuggestionsPath is the only cached route.
const SuggestionsPath = "/api/suggestions"

// Deps is everything the router needs. Contact may be nil when no delivery is configured.
type Deps struct {
	Catalog        *catalog.Catalog
	Contact        *contact.Service
	DeliveryKind   string
	Limiter        *ratelimit.RateLimiter
	Redis          *ratelimit.RedisClient
	Cache          *cache.Cache
	Metrics        *monitoring.Metrics
	Logger         *monitoring.Logger
	Security       security.Config
	AllowedOrigins []string
	Version        string
	// Frontend defaults to the embedded page.
	Frontend fs.FS
}

// NewRouter builds the gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = monitoring.NewMetrics()
	}
	if d.Logger == nil {
		d.Logger = monitoring.NewLogger(slog.LevelInfo)
	}
	if d.Limiter == nil {
		d.Limiter = ratelimit.NewRateLimiter(d.Redis, ratelimit.DefaultConfig(), d.Metrics)
	}
	if d.Cache == nil {
		d.Cache = cache.NewCache(15 * time.Minute)
	}
	if d.Frontend == nil {
		dist, err := frontend.GetDistFS()
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded frontend: %w", err)
		}
		d.Frontend = dist
	}

	indexTemplate, err := frontend.LoadIndexTemplate(d.Frontend)
	if err != nil {
		return nil, err
	}

	compression := middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig())

	h := &Handler{
		catalog:      d.Catalog,
		contact:      d.Contact,
		deliveryKind: d.DeliveryKind,
		redis:        d.Redis,
		metrics:      d.Metrics,
		compression:  compression,
		logger:       d.Logger,
		version:      d.Version,
	}

	r := gin.New()
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(d.Metrics, d.Logger))
	// Outside the error handler so error bodies are compressed too.
	r.Use(compression.Handler())
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(security.SecurityHeadersMiddleware(d.Security))
	r.Use(security.CSPMiddleware(d.Security))
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))
	r.Use(security.RequestTimeout(d.Security.RequestTimeout))
	r.Use(security.BodyLimit(d.Security.MaxBodyBytes))
	r.Use(security.ValidateContentType())
	r.Use(d.Limiter.IPRateLimitMiddleware())
	r.Use(d.Cache.Middleware(d.Metrics, d.Logger, SuggestionsPath))

	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Cache.Stats())
	})
	r.GET("/ratelimit/status", d.Limiter.HandleRateLimitStatus())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/departments", h.Departments)
		api.POST("/calculate", h.Calculate)
		api.POST("/suggestions", h.Suggestions)
		api.POST("/contact",
			d.Limiter.EndpointRateLimitMiddleware("contact", d.Limiter.Config().ContactLimitPerMin),
			h.Contact)
	}

	r.NoRoute(frontend.NewSPAHandler(d.Frontend, indexTemplate, d.Version))

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", monitoring.RequestIDHeader},
		ExposeHeaders: []string{monitoring.RequestIDHeader, "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
