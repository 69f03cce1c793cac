package upload

import (
	"context"

	"leadboard/internal/domain"
)

type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	Save(ctx context.Context, l *domain.Lead) error
	GetByEnquiryNo(ctx context.Context, enquiryNo string) (*domain.Lead, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.ActivityLog)
}
