package leads

import (
	"context"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	Save(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, leadID string) (*domain.Lead, error)
	Delete(ctx context.Context, leadID string) (bool, error)
	List(ctx context.Context, f repository.LeadFilter, offset, limit int) ([]domain.Lead, int64, error)
	Find(ctx context.Context, f repository.LeadFilter, limit int) ([]domain.Lead, error)
	Distinct(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.ActivityLog)
	RecordLead(ctx context.Context, a *domain.LeadActivity)
}
