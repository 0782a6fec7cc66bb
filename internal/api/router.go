package api

import (
	"context"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/forecastpulse/internal/metrics"
	"github.com/guttosm/forecastpulse/internal/middleware"
)

// RouterOptions tunes the cross-cutting middleware.
type RouterOptions struct {
	AllowedOrigins []string      // CORS; empty disables the CORS middleware
	RateLimitRPS   float64       // per client IP; 0 disables
	RateLimitBurst int
	RequestTimeout time.Duration // 0 means 30s
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter).
//   - Adds a request timeout; upstream fetches inherit it.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)
	if len(opts.AllowedOrigins) > 0 {
		cfg := cors.Config{
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader, "X-Data-Stale"},
			MaxAge:        12 * time.Hour,
		}
		if slices.Contains(opts.AllowedOrigins, "*") {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = opts.AllowedOrigins
		}
		router.Use(cors.New(cfg))
	}
	router.Use(middleware.RateLimiter(opts.RateLimitRPS, opts.RateLimitBurst))

	// ─── Timeout ──────────────────────────────────
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger / metrics ────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", metrics.Handler())

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/tickers", handler.GetTickers)
		v1.GET("/series", handler.GetSeries)
		v1.GET("/export", handler.Export)
	}

	return router
}
