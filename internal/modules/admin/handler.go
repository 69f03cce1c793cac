package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"leadboard/internal/domain"
	"leadboard/internal/middleware"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/response"
	"leadboard/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))

	// users
	admin.GET("/users", h.GetUsers)
	admin.POST("/users", h.CreateUser)
	admin.PUT("/users/:id/role", h.UpdateRole)
	admin.PUT("/users/:id/status", h.UpdateStatus)

	// audit trail
	admin.GET("/activity-logs", h.GetActivityLogs)

	// closure questions
	admin.GET("/closure-questions", h.GetClosureQuestions)
	admin.POST("/closure-questions", h.CreateClosureQuestion)
	admin.DELETE("/closure-questions/:question_id", h.DeleteClosureQuestion)

	// data
	admin.DELETE("/leads/bulk", h.BulkDeleteLeads)
	admin.GET("/stats", h.GetStats)
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

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

// GetUsers lists accounts, optionally narrowed by role.
// @Summary		List users
// @Tags		Admin
// @Security	BearerAuth
// @Param		role	query	string	false	"Admin, Manager or Employee"
// @Router		/admin/users [GET]
func (h *Handler) GetUsers(c *gin.Context) {
	role := domain.UserRole(c.Query("role"))
	if role != "" && !role.Valid() {
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Invalid role")
		return
	}
	page, limit := leadquery.Page(c, 100, 1000)
	resp, err := h.service.ListUsers(c.Request.Context(), role, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.service.CreateUser(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !bind(c, &req) {
		return
	}
	if err := h.service.UpdateRole(c.Request.Context(), middleware.UserID(c), id, domain.UserRole(req.Role)); err != nil {
		h.handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User role updated successfully")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bind(c, &req) {
		return
	}
	active := req.IsActive == nil || *req.IsActive
	if err := h.service.UpdateStatus(c.Request.Context(), middleware.UserID(c), id, active); err != nil {
		h.handleError(c, err)
		return
	}
	word := "deactivated"
	if active {
		word = "activated"
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("User %s successfully", word))
}

// GetActivityLogs pages through the audit trail.
// @Summary		Activity logs
// @Tags		Admin
// @Security	BearerAuth
// @Param		user_id			query	int		false	"Actor"
// @Param		action			query	string	false	"Action"
// @Param		resource_type	query	string	false	"Resource type"
// @Param		start_date		query	string	false	"YYYY-MM-DD"
// @Param		end_date		query	string	false	"YYYY-MM-DD"
// @Router		/admin/activity-logs [GET]
func (h *Handler) GetActivityLogs(c *gin.Context) {
	page, err := leadquery.Int(c, "page", 1, 1, 1<<30)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	limit, err := leadquery.Int(c, "limit", 50, 1, 200)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	q := LogQuery{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		StartDate:    c.Query("start_date"),
		EndDate:      c.Query("end_date"),
	}
	if raw := c.Query("user_id"); raw != "" {
		q.UserID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id must be an integer")
			return
		}
	}

	resp, err := h.service.ActivityLogs(c.Request.Context(), q, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetClosureQuestions(c *gin.Context) {
	qs, err := h.service.ClosureQuestions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": qs})
}

func (h *Handler) CreateClosureQuestion(c *gin.Context) {
	var req CreateClosureQuestionRequest
	if !bind(c, &req) {
		return
	}
	q, err := h.service.CreateClosureQuestion(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

func (h *Handler) DeleteClosureQuestion(c *gin.Context) {
	if err := h.service.DeleteClosureQuestion(c.Request.Context(), middleware.UserID(c), c.Param("question_id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Question deleted successfully")
}

func (h *Handler) BulkDeleteLeads(c *gin.Context) {
	var req BulkDeleteRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.service.BulkDeleteLeads(c.Request.Context(), middleware.UserID(c), req.LeadIDs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"deleted": n,
		"message": fmt.Sprintf("%d leads deleted successfully", n),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrEmailExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Invalid role")
	case errors.Is(err, ErrSelfDemotion):
		response.Error(c, http.StatusBadRequest, "SELF_DEMOTION", "Cannot demote yourself")
	case errors.Is(err, ErrSelfDeactivation):
		response.Error(c, http.StatusBadRequest, "SELF_DEACTIVATION", "Cannot deactivate yourself")
	case errors.Is(err, ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNoLeadIDs):
		response.Error(c, http.StatusBadRequest, "NO_LEAD_IDS", "No lead IDs provided")
	case errors.Is(err, ErrQuestionNotFound):
		response.Error(c, http.StatusNotFound, "QUESTION_NOT_FOUND", "Question not found")
	case errors.Is(err, ErrInvalidClosureInput):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "question must not be blank")
	default:
		response.Internal(c, "INTERNAL", "Admin operation failed", err)
	}
}
