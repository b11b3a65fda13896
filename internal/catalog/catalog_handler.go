package catalog

import (
	"context"
	"net/http"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/favorite"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/middleware"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FavoriteLookup marks favorited products for sessions that have one.
type FavoriteLookup interface {
	IDs(ctx context.Context, sessionID string) (favorite.IDSet, error)
}

type Handler struct {
	service   Service
	favorites FavoriteLookup
	logger    *zap.Logger
}

// NewHandler accepts a nil FavoriteLookup; products are then never marked.
func NewHandler(s Service, favorites FavoriteLookup, loggers ...*zap.Logger) *Handler {
	l := logger.Named("catalog.handler", loggers...)
	return &Handler{service: s, favorites: favorites, logger: l}
}

// markFavorites is best effort: a favorites outage must not break browsing.
func (h *Handler) markFavorites(c *gin.Context, items []ItemResponse) {
	sessionID := c.GetString(middleware.SessionKey)
	if h.favorites == nil || sessionID == "" || len(items) == 0 {
		return
	}

	ids, err := h.favorites.IDs(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Warn("lookup favorites", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	for i := range items {
		items[i].Favorited = ids.Has(items[i].ID)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("catalog request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GET /products
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid query", err.Error())
		return
	}
	if err := q.Validate(); err != nil {
		h.writeError(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.markFavorites(c, res.Items)
	response.Success(c, http.StatusOK, res.Items, gin.H{
		"count":    res.Count,
		"criteria": res.Criteria,
		"bounds":   res.Bounds,
	})
}

// GET /products/:id
func (h *Handler) Detail(c *gin.Context) {
	res, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := []ItemResponse{res}
	h.markFavorites(c, items)
	res = items[0]

	response.Success(c, http.StatusOK, res, nil)
}

// GET /categories
func (h *Handler) Categories(c *gin.Context) {
	res, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
