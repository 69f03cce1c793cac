package entity

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/modules/leads"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/sheet"
	"leadboard/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	maxSearchResults = 20
	maxSubEntities   = 20
	maxTimeline      = 10
	timelineLeads    = 100
	recentDays       = 7
	trendDays        = 180
	minClosedToRank  = 5
	maxExportRows    = 10000
)

type subEntity struct {
	label string
	key   repository.GroupKey
}

type kind struct {
	key  repository.GroupKey
	set  func(f *repository.LeadFilter, id string)
	subs []subEntity
	// perf ranks the level below the entity; empty for none.
	perf repository.GroupKey
}

var kinds = map[string]kind{
	"state": {
		key:  repository.GroupByState,
		set:  func(f *repository.LeadFilter, id string) { f.State = id },
		subs: []subEntity{{"dealers", repository.GroupByDealer}, {"cities", repository.GroupByArea}},
		perf: repository.GroupByDealer,
	},
	"dealer": {
		key:  repository.GroupByDealer,
		set:  func(f *repository.LeadFilter, id string) { f.Dealer = id },
		subs: []subEntity{{"employees", repository.GroupByEmployee}, {"cities", repository.GroupByArea}},
		perf: repository.GroupByEmployee,
	},
	"city": {
		key:  repository.GroupByArea,
		set:  func(f *repository.LeadFilter, id string) { f.Area = id },
		subs: []subEntity{{"dealers", repository.GroupByDealer}},
	},
	"employee": {
		key: repository.GroupByEmployee,
		set: func(f *repository.LeadFilter, id string) { f.EmployeeName = id },
	},
}

var searchOrder = []string{"state", "dealer", "city", "employee"}

var stageSets = repository.StageSets{Won: domain.WonStages, Lost: domain.LostStages}

// Lead age and closure time go through the calculated metric evaluator
// with fixed definitions, independent of the configurable dashboard set.
var (
	leadAgeMetric = domain.MetricConfig{
		MetricID:       "avg_lead_age",
		MetricType:     domain.MetricCalculated,
		IsActive:       true,
		StartDateField: string(domain.FieldEnquiryDate),
		EndDateField:   domain.EndDateToday,
		FilterStages:   domain.OpenStages,
	}
	closureTimeMetric = domain.MetricConfig{
		MetricID:       "avg_closure_time",
		MetricType:     domain.MetricCalculated,
		IsActive:       true,
		StartDateField: string(domain.FieldEnquiryDate),
		EndDateField:   string(domain.FieldLastFollowupDate),
		FilterStages:   domain.ClosedStages,
	}
)

type Service struct {
	leads  LeadRepository
	logs   ActivityLogReader
	engine *metrics.Engine
	now    func() time.Time
}

func NewService(leads LeadRepository, logs ActivityLogReader, engine *metrics.Engine) *Service {
	if engine == nil {
		engine = metrics.NewEngine()
	}
	return &Service{leads: leads, logs: logs, engine: engine, now: time.Now}
}

func lookup(entityType, id string) (kind, repository.LeadFilter, error) {
	k, ok := kinds[entityType]
	if !ok {
		return kind{}, repository.LeadFilter{}, ErrInvalidType
	}
	var f repository.LeadFilter
	k.set(&f, id)
	return k, f, nil
}

func rate(won, lost int64, digits float64) float64 {
	if won+lost == 0 {
		return 0
	}
	p := math.Pow(10, digits)
	return math.Round(float64(won)/float64(won+lost)*100*p) / p
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Search matches states, dealers, cities and employees by substring,
// busiest first.
func (s *Service) Search(ctx context.Context, q string) ([]SearchResult, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return nil, ErrShortQuery
	}
	needle := strings.ToLower(q)

	var out []SearchResult
	for _, typ := range searchOrder {
		buckets, err := s.leads.GroupCount(ctx, kinds[typ].key, repository.LeadFilter{})
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", typ, err)
		}
		for _, b := range buckets {
			if b.Key == "" || !strings.Contains(strings.ToLower(b.Key), needle) {
				continue
			}
			out = append(out, SearchResult{Type: typ, Name: b.Key, ID: b.Key, LeadCount: b.Count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LeadCount > out[j].LeadCount })
	if len(out) > maxSearchResults {
		out = out[:maxSearchResults]
	}

	for i := range out {
		if out[i].Type == "state" {
			continue
		}
		sample, err := s.sample(ctx, out[i].Type, out[i].ID)
		if err != nil {
			return nil, err
		}
		if sample == nil {
			continue
		}
		out[i].State = sample.State
		if out[i].Type == "employee" {
			out[i].Dealer = sample.Dealer
		}
	}
	return out, nil
}

func (s *Service) sample(ctx context.Context, entityType, id string) (*domain.Lead, error) {
	_, f, err := lookup(entityType, id)
	if err != nil {
		return nil, err
	}
	ls, err := s.leads.Find(ctx, f, 1)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", entityType, err)
	}
	if len(ls) == 0 {
		return nil, nil
	}
	return &ls[0], nil
}

// Profile assembles the entity page. The date range narrows the KPI,
// breakdown, follow-up and top performer sections only, and only when both
// bounds are given.
func (s *Service) Profile(ctx context.Context, entityType, id, start, end string) (*Profile, error) {
	k, scope, err := lookup(entityType, id)
	if err != nil {
		return nil, err
	}
	sample, err := s.sample(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, ErrNotFound
	}

	base := scope
	if start != "" && end != "" {
		base.StartDate, base.EndDate = start, end
	}
	now := s.now().UTC()
	today := leadquery.Today(now)

	p := &Profile{EntityType: entityType, EntityID: id, EntityName: id}
	switch entityType {
	case "dealer", "city":
		p.State = sample.State
	case "employee":
		p.Dealer, p.State = sample.Dealer, sample.State
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ls, err := s.leads.Find(gctx, base, 0)
		if err != nil {
			return fmt.Errorf("kpis: %w", err)
		}
		p.KPIs = s.kpis(ls)
		return nil
	})

	g.Go(func() error {
		buckets, err := s.leads.GroupCount(gctx, repository.GroupByStage, base)
		if err != nil {
			return fmt.Errorf("stage breakdown: %w", err)
		}
		p.StageBreakdown = []StageCount{}
		for _, b := range buckets {
			if b.Key != "" {
				p.StageBreakdown = append(p.StageBreakdown, StageCount{Stage: b.Key, Count: b.Count})
			}
		}
		return nil
	})

	g.Go(func() error {
		buckets, err := s.leads.GroupCount(gctx, repository.GroupBySource, base)
		if err != nil {
			return fmt.Errorf("source breakdown: %w", err)
		}
		p.SourceBreakdown = make([]SourceCount, 0, len(buckets))
		for _, b := range buckets {
			p.SourceBreakdown = append(p.SourceBreakdown, SourceCount{Source: orUnknown(b.Key), Count: b.Count})
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.leads.GroupStats(gctx, repository.GroupBySegment, base, stageSets)
		if err != nil {
			return fmt.Errorf("segment performance: %w", err)
		}
		byTotal(rows)
		p.SegmentPerformance = make([]SegmentPerformance, 0, len(rows))
		for _, r := range rows {
			p.SegmentPerformance = append(p.SegmentPerformance, SegmentPerformance{
				Segment:        orUnknown(r.Key),
				Total:          r.Total,
				Won:            r.Won,
				Lost:           r.Lost,
				ConversionRate: rate(r.Won, r.Lost, 1),
			})
		}
		return nil
	})

	g.Go(func() error {
		overdue := base
		overdue.FollowupBefore = today
		overdue.StagesNotIn = domain.ClosedStages
		n, err := s.leads.Count(gctx, overdue)
		if err != nil {
			return fmt.Errorf("overdue followups: %w", err)
		}
		upcoming := base
		upcoming.FollowupFrom = today
		upcoming.StagesNotIn = domain.ClosedStages
		m, err := s.leads.Count(gctx, upcoming)
		if err != nil {
			return fmt.Errorf("upcoming followups: %w", err)
		}
		p.FollowupStatus = FollowupStatus{Overdue: n, OnTrack: m}
		return nil
	})

	g.Go(func() error {
		f := scope
		f.StartDate = now.AddDate(0, 0, -trendDays).Format(domain.DateLayout)
		rows, err := s.leads.GroupStats(gctx, repository.GroupByMonth, f, stageSets)
		if err != nil {
			return fmt.Errorf("trend: %w", err)
		}
		p.Trend = make([]TrendPoint, 0, len(rows))
		for _, r := range rows {
			if r.Key != "" {
				p.Trend = append(p.Trend, TrendPoint{Month: r.Key, Total: r.Total, Won: r.Won, Lost: r.Lost})
			}
		}
		return nil
	})

	g.Go(func() error {
		mom, err := s.monthOverMonth(gctx, scope, now)
		if err != nil {
			return err
		}
		p.MoMComparison = mom
		return nil
	})

	subs := make([][]SubEntity, len(k.subs))
	for i, sub := range k.subs {
		i, sub := i, sub
		g.Go(func() error {
			rows, err := s.leads.GroupStats(gctx, sub.key, scope, stageSets)
			if err != nil {
				return fmt.Errorf("%s: %w", sub.label, err)
			}
			byTotal(rows)
			if len(rows) > maxSubEntities {
				rows = rows[:maxSubEntities]
			}
			list := make([]SubEntity, 0, len(rows))
			for _, r := range rows {
				if r.Key == "" {
					continue
				}
				list = append(list, SubEntity{Name: r.Key, Total: r.Total, Won: r.Won, Lost: r.Lost, ConversionRate: rate(r.Won, r.Lost, 1)})
			}
			subs[i] = list
			return nil
		})
	}

	if k.perf != "" {
		g.Go(func() error {
			top, err := s.topPerformers(gctx, k.perf, base)
			if err != nil {
				return err
			}
			p.TopPerformers = top
			return nil
		})
	}

	g.Go(func() error {
		f := scope
		f.StartDate = now.AddDate(0, 0, -recentDays).Format(domain.DateLayout)
		ls, total, err := s.leads.Recent(gctx, f, 0, 10)
		if err != nil {
			return fmt.Errorf("recent leads: %w", err)
		}
		p.RecentLeads = RecentLeads{Leads: summarize(ls), Total: total, Showing: len(ls)}
		return nil
	})

	g.Go(func() error {
		timeline, err := s.timeline(gctx, scope)
		if err != nil {
			return err
		}
		p.ActivityTimeline = timeline
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(k.subs) > 0 {
		p.SubEntities = make(map[string][]SubEntity, len(k.subs))
		for i, sub := range k.subs {
			p.SubEntities[sub.label] = subs[i]
		}
	}
	return p, nil
}

func (s *Service) kpis(ls []domain.Lead) KPIs {
	var k KPIs
	k.TotalLeads = len(ls)
	for i := range ls {
		switch st := ls[i].EnquiryStage; {
		case slices.Contains(domain.WonStages, st):
			k.WonLeads++
		case slices.Contains(domain.LostStages, st):
			k.LostLeads++
		case slices.Contains(domain.OpenStages, st):
			k.OpenLeads++
		}
	}
	k.ClosedLeads = k.WonLeads + k.LostLeads
	k.ConversionRate = rate(int64(k.WonLeads), int64(k.LostLeads), 2)
	k.AvgLeadAge = round1(s.engine.Evaluate(&leadAgeMetric, ls, nil).Value)
	k.AvgClosureTime = round1(s.engine.Evaluate(&closureTimeMetric, ls, nil).Value)
	return k
}

func (s *Service) monthOverMonth(ctx context.Context, scope repository.LeadFilter, now time.Time) (MonthOverMonth, error) {
	cur := now.Format("2006-01")
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Format("2006-01")

	f := scope
	f.EnquiryMonth = cur
	curN, err := s.leads.Count(ctx, f)
	if err != nil {
		return MonthOverMonth{}, fmt.Errorf("current month: %w", err)
	}
	f.EnquiryMonth = prev
	prevN, err := s.leads.Count(ctx, f)
	if err != nil {
		return MonthOverMonth{}, fmt.Errorf("previous month: %w", err)
	}

	change := 0.0
	if prevN > 0 {
		change = round1(float64(curN-prevN) / float64(prevN) * 100)
	}
	return MonthOverMonth{CurrentMonth: cur, CurrentCount: curN, PrevMonth: prev, PrevCount: prevN, ChangePercent: change}, nil
}

// topPerformers keeps the three best converters with enough closed leads.
func (s *Service) topPerformers(ctx context.Context, key repository.GroupKey, base repository.LeadFilter) ([]TopPerformer, error) {
	rows, err := s.leads.GroupStats(ctx, key, base, stageSets)
	if err != nil {
		return nil, fmt.Errorf("top performers: %w", err)
	}
	out := []TopPerformer{}
	for _, r := range rows {
		if r.Key == "" || r.Won+r.Lost < minClosedToRank {
			continue
		}
		out = append(out, TopPerformer{Name: r.Key, Total: r.Total, Won: r.Won, ConversionRate: rate(r.Won, r.Lost, 1)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConversionRate > out[j].ConversionRate })
	if len(out) > 3 {
		out = out[:3]
	}
	return out, nil
}

func (s *Service) timeline(ctx context.Context, scope repository.LeadFilter) ([]domain.ActivityLog, error) {
	ls, err := s.leads.Find(ctx, scope, timelineLeads)
	if err != nil {
		return nil, fmt.Errorf("timeline leads: %w", err)
	}
	if len(ls) == 0 {
		return []domain.ActivityLog{}, nil
	}
	ids := make([]string, len(ls))
	for i := range ls {
		ids[i] = ls[i].LeadID
	}
	logs, err := s.logs.ListLogs(ctx, repository.LogFilter{ResourceType: "lead", ResourceIDs: ids, Limit: maxTimeline})
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	return logs, nil
}

// RecentLeads pages through the entity's leads of the last seven days.
func (s *Service) RecentLeads(ctx context.Context, entityType, id string, page, limit int) (*RecentPage, error) {
	_, f, err := lookup(entityType, id)
	if err != nil {
		return nil, err
	}
	f.StartDate = s.now().UTC().AddDate(0, 0, -recentDays).Format(domain.DateLayout)
	ls, total, err := s.leads.Recent(ctx, f, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}
	return &RecentPage{Leads: summarize(ls), Total: total, Page: page, Limit: limit, Pages: leadquery.Pages(total, limit)}, nil
}

// Export renders every lead of the entity as a workbook.
func (s *Service) Export(ctx context.Context, entityType, id, start, end string) ([]byte, string, error) {
	_, f, err := lookup(entityType, id)
	if err != nil {
		return nil, "", err
	}
	if start != "" && end != "" {
		f.StartDate, f.EndDate = start, end
	}
	ls, err := s.leads.Find(ctx, f, maxExportRows)
	if err != nil {
		return nil, "", fmt.Errorf("find leads: %w", err)
	}
	if len(ls) == 0 {
		return nil, "", ErrNoLeads
	}

	cols := leads.ExportColumns()
	rows := make([][]any, len(ls))
	for i := range ls {
		rows[i] = leads.ExportRow(&ls[i], cols)
	}
	title := strings.ToUpper(entityType[:1]) + entityType[1:] + " Leads"
	body, err := sheet.XLSX(title, cols, rows)
	if err != nil {
		return nil, "", err
	}
	name := strings.ReplaceAll(fmt.Sprintf("%s_%s_leads.xlsx", entityType, id), " ", "_")
	return body, name, nil
}

func byTotal(rows []repository.GroupStats) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
