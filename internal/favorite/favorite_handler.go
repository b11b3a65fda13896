package favorite

import (
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, loggers ...*zap.Logger) *Handler {
	l := logger.Named("favorite.handler", loggers...)
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("favorites request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GET /favorites
func (h *Handler) List(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	res, err := h.service.List(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /favorites/toggle
func (h *Handler) Toggle(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}

	res, err := h.service.Toggle(c.Request.Context(), sessionID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// DELETE /favorites/:productId
func (h *Handler) Remove(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	res, err := h.service.Remove(c.Request.Context(), sessionID, c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// DELETE /favorites
func (h *Handler) Clear(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	if err := h.service.Clear(c.Request.Context(), sessionID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Favorites cleared"}, nil)
}

// POST /favorites/:productId/move-to-cart
func (h *Handler) MoveToCart(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	res, err := h.service.MoveToCart(c.Request.Context(), sessionID, c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
