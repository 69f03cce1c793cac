package metrics

import (
	"errors"
	"net/http"

	"leadboard/internal/domain"
	"leadboard/internal/middleware"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/response"
	"leadboard/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/metric-settings")
	g.GET("", h.GetSettings)
	g.GET("/evaluate", h.Evaluate)

	admin := g.Group("")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.PUT("/:metric_id", h.Update)
	admin.POST("/reset", h.Reset)
	admin.POST("/add", h.Add)
	admin.DELETE("/:metric_id", h.Delete)
}

// GetSettings returns all metric configs plus the values leads currently use.
// @Router /metric-settings [GET]
func (h *Handler) GetSettings(c *gin.Context) {
	resp, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load metric settings", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Evaluate computes every active metric over the filtered leads.
// @Router /metric-settings/evaluate [GET]
func (h *Handler) Evaluate(c *gin.Context) {
	f := leadquery.Filter(c)
	values, err := h.svc.Evaluate(c.Request.Context(), f, c.Query("details") == "true")
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to evaluate metrics", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"metrics": values})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	cfg, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("metric_id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

func (h *Handler) Reset(c *gin.Context) {
	cfgs, err := h.svc.Reset(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to reset metrics", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Metric settings reset to defaults",
		"metrics": cfgs,
	})
}

// Add creates a custom metric.
// @Router /metric-settings/add [POST]
func (h *Handler) Add(c *gin.Context) {
	var req AddMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	cfg, err := h.svc.Add(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cfg)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("metric_id")
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Metric '"+id+"' deleted")
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMetricNotFound):
		response.Error(c, http.StatusNotFound, "METRIC_NOT_FOUND", "Metric not found")
	case errors.Is(err, ErrMetricExists):
		response.Error(c, http.StatusBadRequest, "METRIC_EXISTS", "Metric already exists")
	case errors.Is(err, ErrDefaultMetric):
		response.Error(c, http.StatusBadRequest, "DEFAULT_METRIC", "Cannot delete default metrics. You can disable them instead.")
	case errors.Is(err, ErrInvalidMetric):
		response.Error(c, http.StatusBadRequest, "INVALID_METRIC", err.Error())
	default:
		response.Internal(c, "INTERNAL", "Internal error", err)
	}
}
