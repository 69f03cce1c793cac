package leads

import (
	"errors"
	"net/http"

	"leadboard/internal/domain"
	"leadboard/internal/middleware"
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
	g := protected.Group("/leads")
	g.GET("", h.List)
	g.GET("/dropdown-options", h.DropdownOptions)
	g.GET("/export", h.Export)
	g.GET("/template", h.Template)
	g.GET("/:lead_id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:lead_id", h.Update)
	g.DELETE("/:lead_id", middleware.RequireRole(domain.RoleAdmin, domain.RoleManager), h.Delete)
}

// List returns one page of filtered leads.
// @Router /leads [GET]
func (h *Handler) List(c *gin.Context) {
	page, limit := leadquery.Page(c, 50, MaxListLimit)
	resp, err := h.svc.List(c.Request.Context(), leadquery.Filter(c), page, limit)
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load leads", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) DropdownOptions(c *gin.Context) {
	opts, err := h.svc.DropdownOptions(c.Request.Context())
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load options", err)
		return
	}
	response.Success(c, http.StatusOK, opts)
}

// Export downloads matching leads as xlsx (default) or csv.
// @Router /leads/export [GET]
func (h *Handler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be xlsx or csv")
		return
	}
	body, name, err := h.svc.Export(c.Request.Context(), leadquery.Filter(c), format)
	if err != nil {
		h.handleError(c, err)
		return
	}
	contentType := sheet.ContentTypeXLSX
	if format == "csv" {
		contentType = sheet.ContentTypeCSV
	}
	response.File(c, contentType, name, body)
}

func (h *Handler) Template(c *gin.Context) {
	body, err := h.svc.Template()
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to build template", err)
		return
	}
	response.File(c, sheet.ContentTypeXLSX, "lead_upload_template.xlsx", body)
}

func (h *Handler) Get(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), c.Param("lead_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Create(c *gin.Context) {
	p, ok := bindPatch(c)
	if !ok {
		return
	}
	l, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), p)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// Update changes only the fields present in the body.
// @Router /leads/{lead_id} [PUT]
func (h *Handler) Update(c *gin.Context) {
	p, ok := bindPatch(c)
	if !ok {
		return
	}
	l, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("lead_id"), p)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("lead_id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Lead deleted successfully")
}

func bindPatch(c *gin.Context) (Patch, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return nil, false
	}
	p, errs := ParsePatch(raw)
	if errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return nil, false
	}
	return p, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrNoLeads):
		response.Error(c, http.StatusNotFound, "NO_LEADS", "No leads found matching criteria")
	default:
		response.Internal(c, "INTERNAL", "Internal error", err)
	}
}
