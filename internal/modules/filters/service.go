package filters

import (
	"context"
	"fmt"

	"leadboard/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Fixed option lists offered by the dashboard.
var (
	EnquiryStatuses = []string{"Open", "Closed"}
	EnquiryStages   = []string{"Prospecting", "Qualified", "Proposal", "Negotiation", "Closed-Won", "Closed-Lost"}
	EnquiryTypes    = []string{"Hot", "Warm", "Cold"}
)

type LeadRepository interface {
	Distinct(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]string, error)
}

type Service struct {
	leads LeadRepository
}

func NewService(leads LeadRepository) *Service {
	return &Service{leads: leads}
}

// Values lists the distinct non-empty values of key among leads matching f.
func (s *Service) Values(ctx context.Context, key repository.GroupKey, f repository.LeadFilter) ([]string, error) {
	vals, err := s.leads.Distinct(ctx, key, f)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", key, err)
	}
	if vals == nil {
		vals = []string{}
	}
	return vals, nil
}

// All loads the main cascading lists at once.
func (s *Service) All(ctx context.Context) (map[string][]string, error) {
	keys := map[string]repository.GroupKey{
		"states":    repository.GroupByState,
		"dealers":   repository.GroupByDealer,
		"areas":     repository.GroupByArea,
		"employees": repository.GroupByEmployee,
		"segments":  repository.GroupBySegment,
	}
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	results := make([][]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			vals, err := s.Values(gctx, keys[name], repository.LeadFilter{})
			results[i] = vals
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}
