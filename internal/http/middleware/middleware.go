package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/config"
	"github.com/voltstore/catalog-api/internal/repository"
)

// storePingTimeout bounds the per-request connectivity check so a hung store
// cannot stall the gateway.
const storePingTimeout = 2 * time.Second

type Middleware struct {
	config *config.Config
	health repository.HealthChecker
}

// New initializes the middleware with the given configuration.
// We don't need ctx here because it always has Gin context.
func New(config *config.Config, health repository.HealthChecker) *Middleware {
	return &Middleware{
		config: config,
		health: health,
	}
}

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
// instead of crashing the server.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// CORS lets the storefront and admin frontends call the API from any origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger logs one line per handled request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("Request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// RequireStore rejects requests with 503 while the document store is
// unreachable, before any handler work happens.
func (m *Middleware) RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), storePingTimeout)
		defer cancel()

		if err := m.health.Ping(ctx); err != nil {
			slog.Error("Document store unreachable",
				slog.Any("err", err),
				slog.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Database not connected",
			})
			return
		}

		c.Next()
	}
}
