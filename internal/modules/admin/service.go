package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/modules/auth"
	"leadboard/internal/pkg/ids"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/repository"
)

type Service struct {
	users      UserRepository
	activities ActivityRepository
	closure    ClosureQuestionRepository
	leads      LeadRepository
	audit      AuditRecorder
	now        func() time.Time
}

func NewService(users UserRepository, activities ActivityRepository, closure ClosureQuestionRepository, leads LeadRepository, audit AuditRecorder) *Service {
	return &Service{
		users:      users,
		activities: activities,
		closure:    closure,
		leads:      leads,
		audit:      audit,
		now:        time.Now,
	}
}

func (s *Service) record(ctx context.Context, adminID int64, action, resourceType, resourceID string, details map[string]any) {
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	})
}

/* ==================== USERS ==================== */

func (s *Service) ListUsers(ctx context.Context, role domain.UserRole, page, limit int) (*UserListResponse, error) {
	users, total, err := s.users.List(ctx, role, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]auth.UserPublic, 0, len(users))
	for i := range users {
		out = append(out, auth.Public(&users[i]))
	}
	return &UserListResponse{Users: out, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) CreateUser(ctx context.Context, adminID int64, req CreateUserRequest) (*auth.UserPublic, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        auth.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         domain.UserRole(req.Role),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.record(ctx, adminID, "create_user", "user", fmt.Sprint(u.ID), map[string]any{"email": u.Email, "role": string(u.Role)})
	pub := auth.Public(u)
	return &pub, nil
}

func (s *Service) UpdateRole(ctx context.Context, adminID, userID int64, role domain.UserRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if userID == adminID && role != domain.RoleAdmin {
		return ErrSelfDemotion
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update role: %w", err)
	}
	s.record(ctx, adminID, "update_role", "user", fmt.Sprint(userID), map[string]any{"new_role": string(role)})
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, adminID, userID int64, active bool) error {
	if userID == adminID && !active {
		return ErrSelfDeactivation
	}
	if err := s.users.UpdateStatus(ctx, userID, active); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update status: %w", err)
	}
	s.record(ctx, adminID, "update_status", "user", fmt.Sprint(userID), map[string]any{"is_active": active})
	return nil
}

/* ==================== ACTIVITY LOGS ==================== */

// ActivityLogs pages through the audit trail. Both date bounds are whole
// UTC days and inclusive.
func (s *Service) ActivityLogs(ctx context.Context, q LogQuery, page, limit int) (*LogListResponse, error) {
	f := repository.LogFilter{UserID: q.UserID, Action: q.Action, ResourceType: q.ResourceType}
	if q.StartDate != "" {
		t, err := time.Parse(domain.DateLayout, q.StartDate)
		if err != nil {
			return nil, fmt.Errorf("start_date: %w", ErrInvalidDate)
		}
		f.Since = t
	}
	if q.EndDate != "" {
		t, err := time.Parse(domain.DateLayout, q.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end_date: %w", ErrInvalidDate)
		}
		f.Until = t.AddDate(0, 0, 1)
	}

	total, err := s.activities.CountMatching(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}
	f.Offset, f.Limit = (page-1)*limit, limit
	logs, err := s.activities.ListLogs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	for i := range logs {
		if logs[i].UserName == "" {
			logs[i].UserName = "Unknown"
		}
		if logs[i].UserEmail == "" {
			logs[i].UserEmail = "Unknown"
		}
	}
	if logs == nil {
		logs = []domain.ActivityLog{}
	}
	return &LogListResponse{Logs: logs, Total: total, Page: page, Limit: limit, Pages: leadquery.Pages(total, limit)}, nil
}

/* ==================== CLOSURE QUESTIONS ==================== */

func (s *Service) ClosureQuestions(ctx context.Context) ([]domain.ClosureQuestion, error) {
	qs, err := s.closure.ListClosureQuestions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list closure questions: %w", err)
	}
	if qs == nil {
		qs = []domain.ClosureQuestion{}
	}
	return qs, nil
}

func (s *Service) CreateClosureQuestion(ctx context.Context, adminID int64, req CreateClosureQuestionRequest) (*domain.ClosureQuestion, error) {
	q := &domain.ClosureQuestion{
		QuestionID: ids.New("q"),
		Question:   strings.TrimSpace(req.Question),
		Type:       req.Type,
		Options:    req.Options,
		Required:   req.Required,
		AppliesTo:  req.AppliesTo,
		CreatedAt:  s.now().UTC(),
	}
	if q.Question == "" {
		return nil, ErrInvalidClosureInput
	}
	if q.Type == "" {
		q.Type = "text"
	}
	if q.AppliesTo == "" {
		q.AppliesTo = "all"
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	if err := s.closure.CreateClosureQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("create closure question: %w", err)
	}
	s.record(ctx, adminID, "create_closure_question", "closure_question", q.QuestionID, nil)
	return q, nil
}

func (s *Service) DeleteClosureQuestion(ctx context.Context, adminID int64, id string) error {
	ok, err := s.closure.DeleteClosureQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("delete closure question: %w", err)
	}
	if !ok {
		return ErrQuestionNotFound
	}
	s.record(ctx, adminID, "delete_closure_question", "closure_question", id, nil)
	return nil
}

/* ==================== DATA ==================== */

func (s *Service) BulkDeleteLeads(ctx context.Context, adminID int64, leadIDs []string) (int64, error) {
	if len(leadIDs) == 0 {
		return 0, ErrNoLeadIDs
	}
	n, err := s.leads.DeleteByIDs(ctx, leadIDs)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	s.record(ctx, adminID, "bulk_delete", "lead", "", map[string]any{"count": n})
	return n, nil
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	uc, err := s.users.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("user counts: %w", err)
	}
	leads, err := s.leads.Count(ctx, repository.LeadFilter{})
	if err != nil {
		return nil, fmt.Errorf("lead count: %w", err)
	}
	acts, err := s.activities.CountLogs(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("activity count: %w", err)
	}

	out := &StatsResponse{
		TotalUsers:       uc.Total,
		ActiveUsers:      uc.Active,
		TotalLeads:       leads,
		TotalActivities:  acts,
		RoleDistribution: make([]RoleCount, 0, len(uc.ByRole)),
	}
	for _, r := range uc.ByRole {
		out.RoleDistribution = append(out.RoleDistribution, RoleCount{Role: r.Role, Count: r.Count})
	}
	return out, nil
}
