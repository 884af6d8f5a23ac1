package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voltstore/catalog-api/internal/config"
	"github.com/voltstore/catalog-api/internal/http/controller"
	"github.com/voltstore/catalog-api/internal/http/middleware"
	"github.com/voltstore/catalog-api/internal/repository"
)

func InitRouter(
	conf *config.Config,
	health repository.HealthChecker,
	server *gin.Engine,
	ctr *controller.Controller,
	productCtr *controller.ProductController,
	settingsCtr *controller.SettingsController,
) *gin.Engine {
	httpMiddleware := middleware.New(conf, health)

	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.CORS())
	server.Use(middleware.Logger())

	// The health endpoint stays reachable while the store is down so it can
	// report the disconnected state.
	server.GET("/", ctr.Health)

	api := server.Group("", httpMiddleware.RequireStore())

	// Product endpoints
	products := api.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.GET("/status/:status", productCtr.ListProductsByStatus)
		products.GET("/:id", productCtr.GetProduct)
		products.POST("/upload", productCtr.CreateProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.PATCH("/:id/status", productCtr.UpdateProductStatus)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	// Site configuration endpoints
	settings := api.Group("/settings")
	{
		settings.GET("", settingsCtr.GetSettings)
		settings.PUT("", settingsCtr.UpdateSettings)
		settings.PATCH("/landing", settingsCtr.UpdateLanding)
		settings.PATCH("/about", settingsCtr.UpdateAbout)
		settings.PATCH("/services", settingsCtr.UpdateServices)
		settings.PATCH("/banner", settingsCtr.UpdateBanner)
		settings.PATCH("/logo", settingsCtr.UpdateLogo)
	}

	server.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return server
}
