package insights

import (
	"errors"
	"net/http"

	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/insights")
	g.GET("/top-performers", h.TopPerformers)
	g.GET("/conversion-vs-followups", h.ConversionVsFollowups)
	g.GET("/segment-analysis", h.SegmentAnalysis)
	g.GET("/monthly-trends", h.MonthlyTrends)
}

// TopPerformers ranks entities by the chosen metric.
// @Router /insights/top-performers [GET]
func (h *Handler) TopPerformers(c *gin.Context) {
	limit, err := leadquery.Int(c, "limit", 10, 1, 50)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.svc.TopPerformers(c.Request.Context(),
		c.DefaultQuery("by", "employee"), c.DefaultQuery("metric", "won"),
		c.Query("start_date"), c.Query("end_date"), limit)
	if err != nil {
		if errors.Is(err, ErrInvalidDimension) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "by must be employee|dealer|state and metric won|total|conversion_rate|kva")
			return
		}
		response.Internal(c, "INTERNAL", "Failed to rank performers", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) ConversionVsFollowups(c *gin.Context) {
	resp, err := h.svc.ConversionVsFollowups(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to analyse follow-ups", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) SegmentAnalysis(c *gin.Context) {
	resp, err := h.svc.SegmentAnalysis(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to analyse segments", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) MonthlyTrends(c *gin.Context) {
	months, err := leadquery.Int(c, "months", 12, 3, 24)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.svc.MonthlyTrends(c.Request.Context(), months)
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load trends", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
