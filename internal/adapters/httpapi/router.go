// Package httpapi exposes the negotiation service over HTTP with gin.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/primary"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	AllowedOrigin string
	HistoryLimit  int
}

// NewRouter configures and returns the gin engine.
func NewRouter(service primary.NegotiationService, logger *logging.Logger, cfg RouterConfig) *gin.Engine {
	r := gin.New()

	// Apply global middleware first (order matters)
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger.WithComponent("http")))
	r.Use(CORSMiddleware(cfg.AllowedOrigin))

	handler := NewNegotiationHandler(service, cfg.HistoryLimit)

	api := r.Group("/api")
	{
		api.POST("/negotiations", handler.Start)
		api.POST("/negotiations/continue", handler.Continue)
		api.GET("/negotiations", handler.List)
		api.GET("/negotiations/:id", handler.Get)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
