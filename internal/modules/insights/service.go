package insights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/repository"
)

var ErrInvalidDimension = errors.New("invalid grouping or metric")

// closedSets counts only the terminal Closed-Won and Closed-Lost stages.
var closedSets = repository.StageSets{
	Won:  []string{domain.StageClosedWon},
	Lost: []string{domain.StageClosedLost},
}

var performerKeys = map[string]repository.GroupKey{
	"employee": repository.GroupByEmployee,
	"dealer":   repository.GroupByDealer,
	"state":    repository.GroupByState,
}

var performerSort = map[string]func(a, b Performer) bool{
	"won":             func(a, b Performer) bool { return a.WonLeads > b.WonLeads },
	"total":           func(a, b Performer) bool { return a.TotalLeads > b.TotalLeads },
	"conversion_rate": func(a, b Performer) bool { return a.ConversionRate > b.ConversionRate },
	"kva":             func(a, b Performer) bool { return a.TotalKVA > b.TotalKVA },
}

type Service struct {
	leads LeadAggregator
	now   func() time.Time
}

func NewService(leads LeadAggregator) *Service {
	return &Service{leads: leads, now: time.Now}
}

func (s *Service) window(start, end string) repository.LeadFilter {
	f := repository.LeadFilter{StartDate: start, EndDate: end}
	leadquery.DefaultToFinancialYear(&f, s.now())
	return f
}

func conversion(won, lost int64) float64 {
	if won+lost == 0 {
		return 0
	}
	return metrics.Round2(float64(won) / float64(won+lost) * 100)
}

// TopPerformers ranks employees, dealers or states. Rows without a name
// are dropped after ranking.
func (s *Service) TopPerformers(ctx context.Context, by, metric, start, end string, limit int) (*TopPerformers, error) {
	key, ok := performerKeys[by]
	less, ok2 := performerSort[metric]
	if !ok || !ok2 {
		return nil, ErrInvalidDimension
	}
	f := s.window(start, end)

	rows, err := s.leads.GroupStats(ctx, key, f, closedSets)
	if err != nil {
		return nil, fmt.Errorf("group by %s: %w", by, err)
	}
	all := make([]Performer, 0, len(rows))
	for _, r := range rows {
		all = append(all, Performer{
			Name:           r.Key,
			TotalLeads:     r.Total,
			WonLeads:       r.Won,
			LostLeads:      r.Lost,
			ConversionRate: conversion(r.Won, r.Lost),
			TotalKVA:       metrics.Round2(r.TotalKVA),
		})
	}
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })
	if len(all) > limit {
		all = all[:limit]
	}

	out := &TopPerformers{
		Performers: make([]Performer, 0, len(all)),
		By:         by,
		Metric:     metric,
		DateRange:  DateRange{StartDate: f.StartDate, EndDate: f.EndDate},
	}
	for _, p := range all {
		if p.Name != "" {
			out.Performers = append(out.Performers, p)
		}
	}
	return out, nil
}

// ConversionVsFollowups buckets leads by their follow-up count.
func (s *Service) ConversionVsFollowups(ctx context.Context, start, end string) (*FollowupAnalysis, error) {
	f := s.window(start, end)
	f.HasFollowups = true

	rows, err := s.leads.GroupStats(ctx, repository.GroupByFollowupCount, f, closedSets)
	if err != nil {
		return nil, fmt.Errorf("group by followups: %w", err)
	}
	out := &FollowupAnalysis{
		Data:      make([]FollowupBucket, 0, len(rows)),
		DateRange: DateRange{StartDate: f.StartDate, EndDate: f.EndDate},
	}
	for _, r := range rows {
		n, err := strconv.Atoi(r.Key)
		if err != nil {
			continue
		}
		out.Data = append(out.Data, FollowupBucket{
			Followups:      n,
			TotalLeads:     r.Total,
			Won:            r.Won,
			Lost:           r.Lost,
			ConversionRate: conversion(r.Won, r.Lost),
		})
	}
	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Followups < out.Data[j].Followups })
	return out, nil
}

// SegmentAnalysis reports per-segment totals, largest segment first.
// avg_kva treats a missing kva as zero.
func (s *Service) SegmentAnalysis(ctx context.Context, start, end string) (*SegmentAnalysis, error) {
	f := s.window(start, end)

	rows, err := s.leads.GroupStats(ctx, repository.GroupBySegment, f, closedSets)
	if err != nil {
		return nil, fmt.Errorf("group by segment: %w", err)
	}
	out := &SegmentAnalysis{
		Segments:  make([]Segment, 0, len(rows)),
		DateRange: DateRange{StartDate: f.StartDate, EndDate: f.EndDate},
	}
	for _, r := range rows {
		name := r.Key
		if name == "" {
			name = "Unknown"
		}
		avg := 0.0
		if r.Total > 0 {
			avg = r.TotalKVA / float64(r.Total)
		}
		out.Segments = append(out.Segments, Segment{
			Segment:        name,
			TotalLeads:     r.Total,
			WonLeads:       r.Won,
			LostLeads:      r.Lost,
			HotLeads:       r.Hot,
			ConversionRate: conversion(r.Won, r.Lost),
			AvgKVA:         metrics.Round2(avg),
			TotalKVA:       metrics.Round2(r.TotalKVA),
		})
	}
	sort.SliceStable(out.Segments, func(i, j int) bool { return out.Segments[i].TotalLeads > out.Segments[j].TotalLeads })
	return out, nil
}

// MonthlyTrends returns the latest months with data, oldest first.
func (s *Service) MonthlyTrends(ctx context.Context, months int) (*MonthlyTrends, error) {
	rows, err := s.leads.GroupStats(ctx, repository.GroupByMonth, repository.LeadFilter{}, closedSets)
	if err != nil {
		return nil, fmt.Errorf("group by month: %w", err)
	}
	trends := make([]MonthTrend, 0, len(rows))
	for _, r := range rows {
		if r.Key == "" {
			continue
		}
		trends = append(trends, MonthTrend{
			Month:      r.Key,
			TotalLeads: r.Total,
			Won:        r.Won,
			Lost:       r.Lost,
			TotalKVA:   metrics.Round2(r.TotalKVA),
		})
	}
	// rows arrive ordered by month
	if len(trends) > months {
		trends = trends[len(trends)-months:]
	}
	return &MonthlyTrends{Trends: trends}, nil
}
