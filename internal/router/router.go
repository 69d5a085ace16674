package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/retention-api/internal/config"
	"github.com/jwalitptl/retention-api/internal/middleware"
	"github.com/jwalitptl/retention-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	health  Handler
	routes  []Handler
	metrics *metrics.Metrics
	logger  *zerolog.Logger
	config  RouterConfig
}

type RouterConfig struct {
	RateLimit   config.RateLimitConfig
	MaxBodySize int64
	APIVersion  string
}

// NewRouter builds the engine. A nil auth middleware leaves the API open,
// which is only meant for local use.
func NewRouter(
	auth *middleware.AuthMiddleware,
	health Handler,
	routes []Handler,
	m *metrics.Metrics,
	logger *zerolog.Logger,
	cfg RouterConfig,
) *Router {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = middleware.DefaultMaxBodySize
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "1.0"
	}

	r := &Router{
		engine:  gin.New(),
		auth:    auth,
		health:  health,
		routes:  routes,
		metrics: m,
		logger:  logger,
		config:  cfg,
	}

	// Add core middlewares
	r.engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(m),
	)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
			TTL:   cfg.RateLimit.ClientTTL,
		})
		r.engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", r.config.APIVersion)
		c.Next()
	})

	// Health and metrics stay reachable without a token
	r.health.RegisterRoutes(api)
	api.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	protected := api.Group("")
	protected.Use(
		middleware.SizeLimit(r.config.MaxBodySize),
		middleware.Validation(middleware.DefaultValidationConfig()),
	)
	if r.auth != nil {
		protected.Use(r.auth.Authenticate())
	} else {
		r.logger.Warn().Msg("authentication disabled, audit entries will use the default actor")
	}

	for _, h := range r.routes {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
