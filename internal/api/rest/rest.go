package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stephaneglaugier91/daulingo/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, registry *prometheus.Registry) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// Prometheus metrics (no auth, no version prefix)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Write endpoints (require authentication)
		v1.POST("/activity", middleware.Auth(authCfg), handler.RecordActivity)
		v1.POST("/compute", middleware.Auth(authCfg), handler.TriggerCompute)

		// Read endpoints (public read access)
		v1.GET("/retention", handler.GetRetention)
		v1.GET("/active-users", handler.GetActiveUsers)
		v1.GET("/timeseries", handler.GetTimeseries)
		v1.GET("/transitions", handler.GetTransitions)
		v1.GET("/states", handler.GetStates)
		v1.GET("/meta/date-range", handler.GetDateRange)
	}
}
