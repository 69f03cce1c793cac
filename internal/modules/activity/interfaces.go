package activity

import (
	"context"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type ActivityStore interface {
	CreateLeadActivity(ctx context.Context, a *domain.LeadActivity) error
	ListLeadActivities(ctx context.Context, leadID string, limit int) ([]domain.LeadActivity, error)
	CreateLog(ctx context.Context, l *domain.ActivityLog) error
	ListLogs(ctx context.Context, f repository.LogFilter) ([]domain.ActivityLog, error)
}

type FollowupStore interface {
	Create(ctx context.Context, f *domain.FollowUp) error
	ListByLead(ctx context.Context, leadID string) ([]domain.FollowUp, error)
}

type LeadStore interface {
	GetByID(ctx context.Context, leadID string) (*domain.Lead, error)
	RecordFollowup(ctx context.Context, leadID, followupDate string, at time.Time) error
}
