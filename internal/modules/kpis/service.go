package kpis

import (
	"context"
	"fmt"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/repository"
)

const (
	maxSegments = 20
	maxStages   = 10
)

type Service struct {
	leads   LeadReader
	metrics MetricEvaluator
	now     func() time.Time
}

func NewService(leads LeadReader, metrics MetricEvaluator) *Service {
	return &Service{leads: leads, metrics: metrics, now: time.Now}
}

// Compute builds the dashboard headline numbers. A missing date bound
// defaults the range to the current financial year.
func (s *Service) Compute(ctx context.Context, f repository.LeadFilter) (*Response, error) {
	leadquery.DefaultToFinancialYear(&f, s.now())

	leads, err := s.leads.Find(ctx, f, 0)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	cfgs, ev, err := s.metrics.EvaluateLeads(ctx, leads)
	if err != nil {
		return nil, fmt.Errorf("evaluate metrics: %w", err)
	}
	active := activeIDs(cfgs)

	fb := fallbackCounts(leads)
	won, wonOK := pick(ev, active, "won_leads", fb.won)
	lost, lostOK := pick(ev, active, "lost_leads", fb.lost)
	open, _ := pick(ev, active, "open_leads", fb.open)
	hot, _ := pick(ev, active, "hot_leads", fb.hot)
	resp := &Response{
		TotalLeads: len(leads),
		WonLeads:   won,
		LostLeads:  lost,
		OpenLeads:  open,
		HotLeads:   hot,
		DateRange:  DateRange{StartDate: f.StartDate, EndDate: f.EndDate},
	}

	// The configured rate is only used while both of its inputs are
	// configured too, so the headline numbers stay consistent.
	conv := 0.0
	if closed := won + lost; closed > 0 {
		conv = won / closed * 100
	}
	if wonOK && lostOK {
		conv, _ = pick(ev, active, "conversion_rate", conv)
	}
	resp.ConversionRate = metrics.Round2(conv)

	kva, err := s.leads.KVAStats(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("kva stats: %w", err)
	}
	resp.AvgKVA = metrics.Round2(kva.Avg)
	resp.TotalKVA = metrics.Round2(kva.Total)

	segments, err := s.leads.GroupCount(ctx, repository.GroupBySegment, f)
	if err != nil {
		return nil, fmt.Errorf("segment distribution: %w", err)
	}
	resp.SegmentDistribution = make([]SegmentCount, 0, min(len(segments), maxSegments))
	for _, b := range segments[:min(len(segments), maxSegments)] {
		resp.SegmentDistribution = append(resp.SegmentDistribution, SegmentCount{Segment: orUnknown(b.Key), Count: b.Count})
	}

	stages, err := s.leads.GroupCount(ctx, repository.GroupByStage, f)
	if err != nil {
		return nil, fmt.Errorf("stage distribution: %w", err)
	}
	resp.StageDistribution = make([]StageCount, 0, min(len(stages), maxStages))
	for _, b := range stages[:min(len(stages), maxStages)] {
		resp.StageDistribution = append(resp.StageDistribution, StageCount{Stage: orUnknown(b.Key), Count: b.Count})
	}

	resp.Metrics = metrics.Present(cfgs, ev, func(c *domain.MetricConfig) bool {
		return c.IsActive && c.ShowOnDashboard
	}, false)
	return resp, nil
}

type counts struct {
	won, lost, open, hot float64
}

// fallbackCounts applies the fixed stage rules used when a headline
// metric is not configured.
func fallbackCounts(leads []domain.Lead) counts {
	var c counts
	for i := range leads {
		l := &leads[i]
		switch l.EnquiryStage {
		case domain.StageClosedWon:
			c.won++
		case domain.StageClosedLost:
			c.lost++
		}
		if l.EnquiryStatus == "Open" {
			c.open++
		}
		if l.EnquiryType == "Hot" {
			c.hot++
		}
	}
	return c
}

func activeIDs(cfgs []domain.MetricConfig) map[string]bool {
	out := make(map[string]bool, len(cfgs))
	for i := range cfgs {
		if cfgs[i].IsActive {
			out[cfgs[i].MetricID] = true
		}
	}
	return out
}

// pick reports false when the fallback value was used.
func pick(ev *metrics.Evaluation, active map[string]bool, id string, fallback float64) (float64, bool) {
	if !active[id] {
		return fallback, false
	}
	if v, ok := ev.Resolve(id); ok {
		return v, true
	}
	return fallback, false
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
