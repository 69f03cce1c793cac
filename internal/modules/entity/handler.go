package entity

import (
	"errors"
	"net/http"

	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/response"
	"leadboard/internal/pkg/sheet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/entity")
	g.GET("/search", h.Search)
	g.GET("/profile/:type/:id", h.Profile)
	g.GET("/recent-leads/:type/:id", h.RecentLeads)
	g.GET("/export/:type/:id", h.Export)
}

// Search finds states, dealers, cities and employees by name.
// @Router /entity/search [GET]
func (h *Handler) Search(c *gin.Context) {
	results, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// Profile returns the full entity page.
// @Router /entity/profile/{type}/{id} [GET]
func (h *Handler) Profile(c *gin.Context) {
	p, err := h.svc.Profile(c.Request.Context(), c.Param("type"), c.Param("id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) RecentLeads(c *gin.Context) {
	page, err := leadquery.Int(c, "page", 1, 1, 1<<30)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	limit, err := leadquery.Int(c, "limit", 10, 1, 50)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.svc.RecentLeads(c.Request.Context(), c.Param("type"), c.Param("id"), page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Export(c *gin.Context) {
	body, name, err := h.svc.Export(c.Request.Context(), c.Param("type"), c.Param("id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.File(c, sheet.ContentTypeXLSX, name, body)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrShortQuery):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "q must be at least 2 characters")
	case errors.Is(err, ErrInvalidType):
		response.Error(c, http.StatusBadRequest, "INVALID_ENTITY_TYPE", "type must be state, dealer, city or employee")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "ENTITY_NOT_FOUND", "Entity not found")
	case errors.Is(err, ErrNoLeads):
		response.Error(c, http.StatusNotFound, "NO_LEADS", "No leads found")
	default:
		response.Internal(c, "INTERNAL", "Failed to load entity", err)
	}
}
