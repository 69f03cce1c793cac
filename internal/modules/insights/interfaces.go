package insights

import (
	"context"

	"leadboard/internal/repository"
)

type LeadAggregator interface {
	GroupStats(ctx context.Context, key repository.GroupKey, f repository.LeadFilter, sets repository.StageSets) ([]repository.GroupStats, error)
}
