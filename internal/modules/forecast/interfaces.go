package forecast

import (
	"context"

	"leadboard/internal/repository"
)

type LeadAggregator interface {
	GroupCount(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]repository.Bucket, error)
	GroupStats(ctx context.Context, key repository.GroupKey, f repository.LeadFilter, sets repository.StageSets) ([]repository.GroupStats, error)
}

// Completer sends one system+user exchange to a chat model and returns the
// assistant's text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
