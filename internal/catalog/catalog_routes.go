package catalog

import (
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, optionalSession gin.HandlerFunc) {
	products := r.Group("/products")
	products.Use(optionalSession)
	{
		// Browsing re-queries on every filter change.
		// limit 10 rps, burst 20
		products.GET("", middleware.RateLimitByIP(10, 20), handler.List)
		products.GET("/:id", middleware.RateLimitByIP(5, 10), handler.Detail)
	}

	r.GET("/categories", middleware.RateLimitByIP(5, 10), handler.Categories)
}
