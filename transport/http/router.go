package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/authtoken/service"
	"github.com/layer-3/authtoken/telemetry"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// SetupRouter sets up the Gin router
func SetupRouter(tokenService *service.TokenService, metrics *telemetry.Metrics, tracer trace.Tracer, propagator propagation.TextMapPropagator) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		TracingMiddleware(tracer, propagator),
		LoggingMiddleware(),
		MetricsMiddleware(metrics),
	)
	router.SetHTMLTemplate(indexTemplate)

	// Create handlers
	handlers := NewTokenHandlers(tokenService, metrics, tracer)

	// Token routes
	tokens := router.Group("/tokens")
	{
		tokens.GET("", handlers.Index)
		tokens.POST("", handlers.Issue)
		tokens.GET("/:value", handlers.Get)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(tokenService))
	{
		api.GET("/authorize", handlers.Authorize)
	}

	return router
}
