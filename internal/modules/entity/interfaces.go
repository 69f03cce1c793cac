package entity

import (
	"context"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type LeadRepository interface {
	Find(ctx context.Context, f repository.LeadFilter, limit int) ([]domain.Lead, error)
	Recent(ctx context.Context, f repository.LeadFilter, offset, limit int) ([]domain.Lead, int64, error)
	Count(ctx context.Context, f repository.LeadFilter) (int64, error)
	GroupCount(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]repository.Bucket, error)
	GroupStats(ctx context.Context, key repository.GroupKey, f repository.LeadFilter, sets repository.StageSets) ([]repository.GroupStats, error)
}

type ActivityLogReader interface {
	ListLogs(ctx context.Context, f repository.LogFilter) ([]domain.ActivityLog, error)
}
