package notification

import (
	"errors"
	"net/http"

	"leadboard/internal/middleware"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/notifications")
	{
		g.GET("", h.GetNotifications)
		g.GET("/summary", h.GetSummary)
	}
}

func (h *Handler) scope(c *gin.Context) (Scope, bool) {
	sc, err := h.service.ScopeFor(c.Request.Context(), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
			return Scope{}, false
		}
		response.Internal(c, "FETCH_FAILED", "Failed to get notifications", err)
		return Scope{}, false
	}
	return sc, true
}

func (h *Handler) GetNotifications(c *gin.Context) {
	limit, err := leadquery.Int(c, "limit", 20, 1, 100)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	sc, ok := h.scope(c)
	if !ok {
		return
	}

	resp, err := h.service.List(c.Request.Context(), sc, limit)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to get notifications", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// GetSummary returns the badge counts.
func (h *Handler) GetSummary(c *gin.Context) {
	sc, ok := h.scope(c)
	if !ok {
		return
	}
	counts, err := h.service.Summary(c.Request.Context(), sc)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to count notifications", err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}
