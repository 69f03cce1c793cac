package admin

import (
	"leadboard/internal/domain"
	"leadboard/internal/modules/auth"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=Admin Manager Employee"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UpdateStatusRequest defaults to activating when is_active is omitted.
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

type UserListResponse struct {
	Users []auth.UserPublic `json:"users"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type LogQuery struct {
	UserID       int64
	Action       string
	ResourceType string
	StartDate    string
	EndDate      string
}

type LogListResponse struct {
	Logs  []domain.ActivityLog `json:"logs"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Pages int                  `json:"pages"`
}

type CreateClosureQuestionRequest struct {
	Question  string   `json:"question" validate:"required"`
	Type      string   `json:"type" validate:"omitempty,oneof=text select multiselect"`
	Options   []string `json:"options"`
	Required  bool     `json:"required"`
	AppliesTo string   `json:"applies_to" validate:"omitempty,oneof=all won lost"`
}

type BulkDeleteRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	TotalUsers       int64       `json:"total_users"`
	ActiveUsers      int64       `json:"active_users"`
	TotalLeads       int64       `json:"total_leads"`
	TotalActivities  int64       `json:"total_activities"`
	RoleDistribution []RoleCount `json:"role_distribution"`
}
