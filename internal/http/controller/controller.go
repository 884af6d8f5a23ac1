package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/config"
	"github.com/voltstore/catalog-api/internal/repository"
)

const healthPingTimeout = 2 * time.Second

// Controller handles general HTTP requests.
type Controller struct {
	config *config.Config
	health repository.HealthChecker
}

// New creates a new Controller with the given configuration and store probe.
func New(config *config.Config, health repository.HealthChecker) *Controller {
	return &Controller{
		config: config,
		health: health,
	}
}

// Health handles the HTTP GET request for the health check endpoint. It always
// answers 200; store connectivity shows up in the database and readyState
// fields instead.
func (con *Controller) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	database := "connected"
	readyState := 1
	if err := con.health.Ping(ctx); err != nil {
		database = "disconnected"
		readyState = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Catalog API is running",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"database":   database,
		"readyState": readyState,
	})
}
