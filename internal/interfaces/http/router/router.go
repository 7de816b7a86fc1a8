package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// Request bodies above this size are rejected outright. Order payloads
// are the largest legitimate requests and stay far below this.
const maxBodyBytes = 4 << 20

// RouteRegistrar registers a handler's routes on the API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// HealthCheck probes a dependency for the readiness endpoint
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Router builds the HTTP engine with middleware and versioned routes
type Router struct {
	cfg        config.Config
	log        *zap.Logger
	registrars []RouteRegistrar
	checks     []HealthCheck
}

// New creates a Router
func New(cfg config.Config, log *zap.Logger) *Router {
	return &Router{cfg: cfg, log: log}
}

// Register adds a RouteRegistrar
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// WithHealthCheck adds a dependency probe to the readiness endpoint
func (r *Router) WithHealthCheck(name string, probe func(ctx context.Context) error) *Router {
	r.checks = append(r.checks, HealthCheck{Name: name, Probe: probe})
	return r
}

// Build assembles the gin engine
func (r *Router) Build() *gin.Engine {
	dto.RegisterValidations()

	engine := gin.New()
	if len(r.cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(r.cfg.HTTP.TrustedProxies)
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(r.log))
	engine.Use(logger.Recovery(r.log))
	engine.Use(middleware.CORS(r.cfg.HTTP))
	engine.Use(middleware.BodyLimit(maxBodyBytes))

	engine.GET("/health", r.health)
	engine.GET("/health/ready", r.ready)

	api := engine.Group("/api/v1")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status": "ok",
		"app":    r.cfg.App.Name,
		"env":    r.cfg.App.Env,
		"time":   time.Now().UTC().Format(time.RFC3339),
	}))
}

func (r *Router) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(r.checks))
	for _, check := range r.checks {
		if err := check.Probe(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[check.Name] = err.Error()
			continue
		}
		results[check.Name] = "ok"
	}

	if status != http.StatusOK {
		resp := dto.NewErrorResponse(dto.ErrCodeInternal, "one or more dependencies are unavailable")
		resp.Data = results
		c.JSON(status, resp)
		return
	}
	c.JSON(status, dto.NewSuccessResponse(results))
}
