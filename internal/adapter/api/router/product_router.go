package router

import (
	"github.com/labstack/echo/v4"

	"marketcore/internal/adapter/api/handler"
)

// SetupProductRouter registers the public catalog routes.
func SetupProductRouter(e *echo.Echo, productHandler *handler.ProductHandler) {
	products := e.Group("/v1/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/featured", productHandler.GetFeatured)
	products.GET("/categories", productHandler.GetCategories)
	products.GET("/:id", productHandler.GetProduct)
}
