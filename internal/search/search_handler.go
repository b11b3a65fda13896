package search

import (
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(s Service, loggers ...*zap.Logger) *Handler {
	l := logger.Named("search.handler", loggers...)
	return &Handler{service: s, validate: validator.New(), logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GET /searches/recent
func (h *Handler) Recent(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	list, err := h.service.Recent(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, RecentResponse{Searches: list}, nil)
}

// POST /searches/recent
func (h *Handler) Save(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionKey)
	if sessionID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Session required", nil)
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(c, apperror.FromValidation(err))
		return
	}

	list, err := h.service.Save(c.Request.Context(), sessionID, req.Query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, RecentResponse{Searches: list}, nil)
}

// DELETE /searches/recent
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
	response.Success(c, http.StatusOK, RecentResponse{Searches: []string{}}, nil)
}
