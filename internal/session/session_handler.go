package session

import (
	"net/http"
	"time"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/logger"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CookieName = "access_token"

type Handler struct {
	service      Service
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(s Service, secureCookie bool, loggers ...*zap.Logger) *Handler {
	l := logger.Named("session.handler", loggers...)
	return &Handler{service: s, secureCookie: secureCookie, logger: l}
}

// POST /sessions
func (h *Handler) Create(c *gin.Context) {
	token, err := h.service.Issue(c.Request.Context())
	if err != nil {
		h.logger.Error("issue session", zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Debug("session issued", zap.String("session_id", token.SessionID))
	response.Success(c, http.StatusCreated, token, nil)
}
