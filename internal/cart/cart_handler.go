package cart

import (
	"context"
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
	l := logger.Named("cart.handler", loggers...)
	return &Handler{service: s, logger: l}
}

func (h *Handler) sessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return "", false
	}
	return sessionID, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("cart request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GET /cart
func (h *Handler) Detail(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	res, err := h.service.Detail(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// GET /cart/count
func (h *Handler) Count(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	count, err := h.service.Count(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, CartCountResponse{Count: count}, nil)
}

// POST /cart/items
func (h *Handler) AddItem(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("bind add item request", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}

	res, err := h.service.AddItem(c.Request.Context(), sessionID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

// POST /cart/items/:productId/increment
func (h *Handler) Increment(c *gin.Context) {
	h.lineAction(c, h.service.Increment)
}

// POST /cart/items/:productId/decrement
func (h *Handler) Decrement(c *gin.Context) {
	h.lineAction(c, h.service.Decrement)
}

// DELETE /cart/items/:productId
func (h *Handler) DeleteItem(c *gin.Context) {
	h.lineAction(c, h.service.DeleteItem)
}

func (h *Handler) lineAction(
	c *gin.Context,
	action func(ctx context.Context, sessionID, productID string) (CartDetailResponse, error),
) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	res, err := action(c.Request.Context(), sessionID, c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// DELETE /cart
func (h *Handler) Clear(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.service.Clear(c.Request.Context(), sessionID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Cart cleared"}, nil)
}
