package activity

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"leadboard/internal/domain"
	"leadboard/internal/pkg/ids"
	"leadboard/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultTimelineLimit = 50

// Service owns lead history, follow-ups and the audit trail. Audit writes
// never fail the caller; they are logged instead.
type Service struct {
	activities ActivityStore
	followups  FollowupStore
	leads      LeadStore
	log        *zap.Logger
	now        func() time.Time
}

func NewService(activities ActivityStore, followups FollowupStore, leads LeadStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		activities: activities,
		followups:  followups,
		leads:      leads,
		log:        log,
		now:        time.Now,
	}
}

// Record appends an audit entry.
func (s *Service) Record(ctx context.Context, entry *domain.ActivityLog) {
	if entry.LogID == "" {
		entry.LogID = ids.New("log")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if err := s.activities.CreateLog(ctx, entry); err != nil {
		s.log.Warn("audit log write failed",
			zap.String("action", entry.Action),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err),
		)
	}
}

// RecordLead appends to a lead's history.
func (s *Service) RecordLead(ctx context.Context, a *domain.LeadActivity) {
	if a.ActivityID == "" {
		a.ActivityID = ids.New("act")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	if err := s.activities.CreateLeadActivity(ctx, a); err != nil {
		s.log.Warn("lead activity write failed",
			zap.String("action", a.Action),
			zap.String("lead_id", a.LeadID),
			zap.Error(err),
		)
	}
}

func (s *Service) Timeline(ctx context.Context, leadID string, limit int) ([]domain.LeadActivity, error) {
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	items, err := s.activities.ListLeadActivities(ctx, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list lead activities: %w", err)
	}
	return items, nil
}

func (s *Service) Followups(ctx context.Context, leadID string) ([]domain.FollowUp, error) {
	items, err := s.followups.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("list followups: %w", err)
	}
	return items, nil
}

// AddFollowup stores a follow-up and advances the lead's follow-up counters.
func (s *Service) AddFollowup(ctx context.Context, leadID string, userID int64, req AddFollowupRequest) (*domain.FollowUp, error) {
	if _, err := s.leads.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}

	now := s.now().UTC()
	fu := &domain.FollowUp{
		FollowupID:   ids.New("fu"),
		LeadID:       leadID,
		UserID:       userID,
		FollowupDate: req.FollowupDate,
		Notes:        req.Notes,
		Outcome:      req.Outcome,
		CreatedAt:    now,
	}
	if err := s.followups.Create(ctx, fu); err != nil {
		return nil, fmt.Errorf("create followup: %w", err)
	}
	if err := s.leads.RecordFollowup(ctx, leadID, req.FollowupDate, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead followups: %w", err)
	}

	s.RecordLead(ctx, &domain.LeadActivity{
		LeadID: leadID,
		UserID: userID,
		Action: "followup_added",
		Notes:  fmt.Sprintf("Follow-up scheduled for %s: %s", req.FollowupDate, truncate(req.Notes, 100)),
	})
	return fu, nil
}

// ResourceLogs returns audit entries for a set of resources, newest first.
func (s *Service) ResourceLogs(ctx context.Context, resourceType string, resourceIDs []string, limit int) ([]domain.ActivityLog, error) {
	if len(resourceIDs) == 0 {
		return []domain.ActivityLog{}, nil
	}
	return s.activities.ListLogs(ctx, repository.LogFilter{
		ResourceType: resourceType,
		ResourceIDs:  resourceIDs,
		Limit:        limit,
	})
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
