package kpis

import (
	"context"

	"leadboard/internal/domain"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/repository"
)

type LeadReader interface {
	Find(ctx context.Context, f repository.LeadFilter, limit int) ([]domain.Lead, error)
	GroupCount(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]repository.Bucket, error)
	KVAStats(ctx context.Context, f repository.LeadFilter) (repository.KVAStats, error)
}

// MetricEvaluator runs the configured metrics over a lead population.
type MetricEvaluator interface {
	EvaluateLeads(ctx context.Context, leads []domain.Lead) ([]domain.MetricConfig, *metrics.Evaluation, error)
}
