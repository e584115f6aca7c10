package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-search/internal/handlers"
	"catalog-search/internal/metrics"
	"catalog-search/internal/ui"
)

type Dependencies struct {
	Webhooks *handlers.WebhookHandler
	Search   *handlers.SearchHandler
	Metrics  *metrics.Metrics
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	ui.Register(router)

	router.GET("/search-tool", deps.Search.Search)
	api := router.Group("/api")
	{
		api.GET("/search-tool", deps.Search.Search)
	}

	// Shopify llama a la URL registrada; se aceptan ambas raíces
	for _, base := range []string{"/products", "/webhook/products"} {
		products := router.Group(base)
		products.POST("/create", deps.Webhooks.CreateProduct)
		products.POST("/update", deps.Webhooks.UpdateProduct)
		products.POST("/delete", deps.Webhooks.DeleteProduct)
	}
}
