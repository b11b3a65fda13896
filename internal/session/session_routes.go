package session

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, limit gin.HandlerFunc) {
	// issuing is cheap but unauthenticated, keep it behind the per-IP limiter
	r.POST("/sessions", limit, handler.Create)
}
