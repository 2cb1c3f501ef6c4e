package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/prometheus"
	"github.com/mrcar-cl/tasador/internal/interfaces/http/handlers"
	"github.com/mrcar-cl/tasador/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies the
// route tree needs.
type RouterConfig struct {
	VehicleHandler   *handlers.VehicleHandler
	ValuationHandler *handlers.ValuationHandler
	HealthHandler    *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector *prometheus.Collector

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string
}

// NewRouter assembles the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	{
		if cfg.VehicleHandler != nil {
			api.GET("/vehicles/:plate", cfg.VehicleHandler.Get)
		}
		if cfg.ValuationHandler != nil {
			api.GET("/vehicles/:plate/valuation", cfg.ValuationHandler.ValuatePlate)
			api.GET("/valuations", cfg.ValuationHandler.Valuate)
			api.GET("/quota", cfg.ValuationHandler.Quota)
		}
	}

	return r
}
