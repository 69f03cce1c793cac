package metrics

import (
	"context"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type MetricRepository interface {
	List(ctx context.Context) ([]domain.MetricConfig, error)
	Get(ctx context.Context, metricID string) (*domain.MetricConfig, error)
	Create(ctx context.Context, c *domain.MetricConfig) error
	Save(ctx context.Context, c *domain.MetricConfig) error
	Delete(ctx context.Context, metricID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CreateMany(ctx context.Context, cs []domain.MetricConfig) error
	ReplaceAll(ctx context.Context, cs []domain.MetricConfig) error
}

type LeadReader interface {
	Find(ctx context.Context, f repository.LeadFilter, limit int) ([]domain.Lead, error)
	GroupCount(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]repository.Bucket, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.ActivityLog)
}
