package router

import (
	"net/http"
	"time"

	apphttp "transaction_dashboard_backend/internal/http"
	"transaction_dashboard_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// New builds the engine: shared middleware, health and metrics endpoints,
// and the routes of every module in app.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config
	log := app.Logger

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.Metrics())
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg)))

	if cfg.GetRateLimitRPS() > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitRPS()), cfg.GetRateLimitBurst(), log)
		engine.Use(limiter.RateLimit())
	}

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/health/ready", func(c *gin.Context) {
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routerCtx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		log.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}
