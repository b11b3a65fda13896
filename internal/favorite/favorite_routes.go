package favorite

import (
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	favorites := r.Group("/favorites")
	favorites.Use(auth)
	{
		favorites.GET("", middleware.RateLimitBySession(10, 20), handler.List)

		// limit 5 rps, burst 10
		writeLimit := middleware.RateLimitBySession(5, 10)
		favorites.POST("/toggle", writeLimit, handler.Toggle)
		favorites.DELETE("", writeLimit, handler.Clear)
		favorites.DELETE("/:productId", writeLimit, handler.Remove)
		favorites.POST("/:productId/move-to-cart", writeLimit, handler.MoveToCart)
	}
}
