package search

import (
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	recent := r.Group("/searches/recent")
	recent.Use(auth)
	{
		recent.GET("", middleware.RateLimitBySession(5, 10), handler.Recent)

		// limit 2 rps, burst 5
		writeLimit := middleware.RateLimitBySession(2, 5)
		recent.POST("", writeLimit, handler.Save)
		recent.DELETE("", writeLimit, handler.Clear)
	}
}
