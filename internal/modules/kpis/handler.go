package kpis

import (
	"net/http"

	"leadboard/internal/pkg/response"
	"leadboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/kpis", h.Get)
}

// Get returns headline KPIs and the dashboard metrics.
// @Router /kpis [GET]
func (h *Handler) Get(c *gin.Context) {
	f := repository.LeadFilter{
		State:        c.Query("state"),
		Dealer:       c.Query("dealer"),
		EmployeeName: c.Query("employee_name"),
		Segment:      c.Query("segment"),
		StartDate:    c.Query("start_date"),
		EndDate:      c.Query("end_date"),
	}
	resp, err := h.svc.Compute(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to compute KPIs", err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
