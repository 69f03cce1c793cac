package qualification

import (
	"errors"
	"net/http"

	"leadboard/internal/domain"
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
	g := protected.Group("/qualification")
	g.GET("/questions", h.ListQuestions)
	g.GET("/settings", h.GetSettings)
	g.POST("/leads/:lead_id/qualify", h.Qualify)
	g.GET("/leads/:lead_id/qualification", h.GetLeadQualification)

	admin := g.Group("")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/questions", h.CreateQuestion)
	admin.PUT("/questions/:question_id", h.UpdateQuestion)
	admin.DELETE("/questions/:question_id", h.DeleteQuestion)
	admin.PUT("/settings", h.UpdateSettings)
}

// ListQuestions returns active questions ordered for display.
// @Router /qualification/questions [GET]
func (h *Handler) ListQuestions(c *gin.Context) {
	qs, err := h.svc.Questions(c.Request.Context())
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load questions", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": qs})
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if !bind(c, &req) {
		return
	}
	q, err := h.svc.CreateQuestion(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

func (h *Handler) UpdateQuestion(c *gin.Context) {
	var req UpdateQuestionRequest
	if !bind(c, &req) {
		return
	}
	q, err := h.svc.UpdateQuestion(c.Request.Context(), middleware.UserID(c), c.Param("question_id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(c *gin.Context) {
	if err := h.svc.DeleteQuestion(c.Request.Context(), middleware.UserID(c), c.Param("question_id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Question deleted")
}

func (h *Handler) GetSettings(c *gin.Context) {
	st, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load settings", err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if !bind(c, &req) {
		return
	}
	st, err := h.svc.UpdateSettings(c.Request.Context(), middleware.UserID(c), *req.ThresholdScore)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Qualify scores the submitted answers and stores the result on the lead.
// @Router /qualification/leads/{lead_id}/qualify [POST]
func (h *Handler) Qualify(c *gin.Context) {
	var req QualifyRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.Qualify(c.Request.Context(), c.Param("lead_id"), middleware.UserID(c), req.Answers)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetLeadQualification(c *gin.Context) {
	res, err := h.svc.LeadQualification(c.Request.Context(), c.Param("lead_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return false
	}
	return true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrQuestionNotFound):
		response.Error(c, http.StatusNotFound, "QUESTION_NOT_FOUND", "Question not found")
	default:
		response.Internal(c, "INTERNAL", "Internal error", err)
	}
}
