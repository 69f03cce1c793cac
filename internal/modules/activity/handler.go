package activity

import (
	"errors"
	"net/http"
	"strconv"

	"leadboard/internal/middleware"
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
	g := protected.Group("/lead-activities")
	g.GET("/:lead_id", h.Timeline)
	g.GET("/:lead_id/followups", h.Followups)
	g.POST("/:lead_id/followups", h.AddFollowup)
}

// Timeline returns a lead's activity history, newest first.
// @Router /lead-activities/{lead_id} [GET]
func (h *Handler) Timeline(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		response.Error(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 500")
		return
	}

	items, err := h.svc.Timeline(c.Request.Context(), c.Param("lead_id"), limit)
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load activities", err)
		return
	}
	response.Success(c, http.StatusOK, TimelineResponse{Activities: items})
}

func (h *Handler) Followups(c *gin.Context) {
	items, err := h.svc.Followups(c.Request.Context(), c.Param("lead_id"))
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load follow-ups", err)
		return
	}
	response.Success(c, http.StatusOK, FollowupsResponse{Followups: items})
}

// AddFollowup schedules a follow-up on a lead.
// @Router /lead-activities/{lead_id}/followups [POST]
func (h *Handler) AddFollowup(c *gin.Context) {
	var req AddFollowupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	fu, err := h.svc.AddFollowup(c.Request.Context(), c.Param("lead_id"), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		response.Internal(c, "INTERNAL", "Failed to add follow-up", err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message":     "Follow-up added successfully",
		"followup_id": fu.FollowupID,
	})
}
