package cart

import (
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	carts := r.Group("/cart")
	carts.Use(auth)
	{
		// Reads are cheap, the screen polls the badge count.
		// limit 10 rps, burst 20
		readLimit := middleware.RateLimitBySession(10, 20)
		carts.GET("", readLimit, handler.Detail)
		carts.GET("/count", readLimit, handler.Count)

		// Quantity steppers get tapped quickly, so mutations stay fairly loose.
		// limit 5 rps, burst 10
		writeLimit := middleware.RateLimitBySession(5, 10)
		carts.DELETE("", writeLimit, handler.Clear)
		carts.POST("/items", writeLimit, handler.AddItem)

		items := carts.Group("/items/:productId")
		{
			items.POST("/increment", writeLimit, handler.Increment)
			items.POST("/decrement", writeLimit, handler.Decrement)
			items.DELETE("", writeLimit, handler.DeleteItem)
		}
	}
}
