package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// valueFields are the lead columns offered when configuring count metrics.
var valueFields = []repository.GroupKey{
	repository.GroupByStage,
	repository.GroupByStatus,
	repository.GroupByType,
}

type Service struct {
	metrics MetricRepository
	leads   LeadReader
	audit   AuditRecorder
	engine  *Engine
	log     *zap.Logger
	now     func() time.Time
}

func NewService(metrics MetricRepository, leads LeadReader, audit AuditRecorder, engine *Engine, log *zap.Logger) *Service {
	if engine == nil {
		engine = NewEngine()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		metrics: metrics,
		leads:   leads,
		audit:   audit,
		engine:  engine,
		log:     log,
		now:     time.Now,
	}
}

// Engine exposes the evaluator shared with other modules.
func (s *Service) Engine() *Engine { return s.engine }

// EnsureDefaults seeds the built-in metrics when the store is empty.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	n, err := s.metrics.Count(ctx)
	if err != nil {
		return fmt.Errorf("count metrics: %w", err)
	}
	if n > 0 {
		return nil
	}
	err = s.metrics.CreateMany(ctx, DefaultMetrics(s.now().UTC()))
	if err != nil && !repository.IsUniqueViolation(err) {
		return fmt.Errorf("seed default metrics: %w", err)
	}
	s.log.Info("seeded default metrics")
	return nil
}

// Configs returns every stored metric, seeding defaults first.
func (s *Service) Configs(ctx context.Context) ([]domain.MetricConfig, error) {
	if err := s.EnsureDefaults(ctx); err != nil {
		return nil, err
	}
	cfgs, err := s.metrics.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return cfgs, nil
}

func (s *Service) Settings(ctx context.Context) (*SettingsResponse, error) {
	cfgs, err := s.Configs(ctx)
	if err != nil {
		return nil, err
	}

	resp := &SettingsResponse{
		Metrics:         cfgs,
		AvailableFields: make(map[string][]string, len(valueFields)),
		FieldCounts:     make(map[string]map[string]int64, len(valueFields)),
	}
	for _, key := range valueFields {
		buckets, err := s.leads.GroupCount(ctx, key, repository.LeadFilter{})
		if err != nil {
			return nil, fmt.Errorf("count %s values: %w", key, err)
		}
		values := make([]string, 0, len(buckets))
		counts := make(map[string]int64, len(buckets))
		for _, b := range buckets {
			if b.Key == "" {
				continue
			}
			values = append(values, b.Key)
			counts[b.Key] = b.Count
		}
		sort.Strings(values)
		resp.AvailableFields[string(key)] = values
		resp.FieldCounts[string(key)] = counts
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, userID int64, metricID string, req UpdateMetricRequest) (*domain.MetricConfig, error) {
	cfg, err := s.metrics.Get(ctx, metricID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMetricNotFound
		}
		return nil, fmt.Errorf("get metric: %w", err)
	}

	if req.FieldValues != nil {
		cfg.FieldValues = cleanValues(*req.FieldValues)
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	if req.ShowOnDashboard != nil {
		cfg.ShowOnDashboard = *req.ShowOnDashboard
	}
	if req.DashboardOrder != nil {
		cfg.DashboardOrder = *req.DashboardOrder
	}
	if req.MetricName != nil {
		cfg.MetricName = strings.TrimSpace(*req.MetricName)
	}
	if req.Description != nil {
		cfg.Description = *req.Description
	}
	cfg.UpdatedAt = s.now().UTC()

	if err := s.metrics.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save metric: %w", err)
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "metric_updated",
		ResourceType: "metric",
		ResourceID:   metricID,
	})
	return cfg, nil
}

func (s *Service) Reset(ctx context.Context, userID int64) ([]domain.MetricConfig, error) {
	defaults := DefaultMetrics(s.now().UTC())
	if err := s.metrics.ReplaceAll(ctx, defaults); err != nil {
		return nil, fmt.Errorf("reset metrics: %w", err)
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "metrics_reset",
		ResourceType: "metric",
	})
	return defaults, nil
}

func (s *Service) Add(ctx context.Context, userID int64, req AddMetricRequest) (*domain.MetricConfig, error) {
	cfg, err := s.buildMetric(req)
	if err != nil {
		return nil, err
	}

	if err := s.metrics.Create(ctx, cfg); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrMetricExists
		}
		return nil, fmt.Errorf("create metric: %w", err)
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "metric_created",
		ResourceType: "metric",
		ResourceID:   cfg.MetricID,
		Details:      map[string]any{"metric_type": string(cfg.MetricType)},
	})
	return cfg, nil
}

// buildMetric validates the type-specific parameters of a new metric.
func (s *Service) buildMetric(req AddMetricRequest) (*domain.MetricConfig, error) {
	cfg := &domain.MetricConfig{
		MetricID:          strings.TrimSpace(req.MetricID),
		MetricName:        strings.TrimSpace(req.MetricName),
		Description:       req.Description,
		MetricType:        domain.MetricType(req.MetricType),
		FieldName:         req.FieldName,
		FieldValues:       cleanValues(req.FieldValues),
		StartDateField:    req.StartDateField,
		EndDateField:      req.EndDateField,
		FilterStages:      cleanValues(req.FilterStages),
		NumeratorMetric:   strings.ReplaceAll(req.NumeratorMetric, " ", ""),
		DenominatorMetric: strings.ReplaceAll(req.DenominatorMetric, " ", ""),
		IsActive:          true,
		IsCustom:          true,
		ShowOnDashboard:   true,
		DashboardOrder:    req.DashboardOrder,
		Color:             orDefault(req.Color, "primary"),
		Icon:              orDefault(req.Icon, "BarChart3"),
		Unit:              req.Unit,
		UpdatedAt:         s.now().UTC(),
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	if req.ShowOnDashboard != nil {
		cfg.ShowOnDashboard = *req.ShowOnDashboard
	}
	if cfg.DashboardOrder == 0 {
		cfg.DashboardOrder = 99
	}
	cfg.MetricType = cfg.EffectiveType()

	switch cfg.MetricType {
	case domain.MetricCount:
		f, ok := domain.ParseLeadField(cfg.FieldName)
		if !ok || f.IsDate() {
			return nil, fmt.Errorf("%w: field_name %q is not a countable lead field", ErrInvalidMetric, cfg.FieldName)
		}
		if len(cfg.FieldValues) == 0 {
			return nil, fmt.Errorf("%w: field_values must not be empty", ErrInvalidMetric)
		}
	case domain.MetricCalculated:
		if f, ok := domain.ParseLeadField(cfg.StartDateField); !ok || !f.IsDate() {
			return nil, fmt.Errorf("%w: start_date_field %q is not a date field", ErrInvalidMetric, cfg.StartDateField)
		}
		if cfg.EndDateField != domain.EndDateToday {
			if f, ok := domain.ParseLeadField(cfg.EndDateField); !ok || !f.IsDate() {
				return nil, fmt.Errorf("%w: end_date_field %q is not a date field", ErrInvalidMetric, cfg.EndDateField)
			}
		}
		if cfg.Unit == "" {
			cfg.Unit = "days"
		}
	case domain.MetricFormula:
		if cfg.NumeratorMetric == "" || cfg.DenominatorMetric == "" {
			return nil, fmt.Errorf("%w: numerator_metric and denominator_metric are required", ErrInvalidMetric)
		}
		if cfg.Unit == "" {
			cfg.Unit = "%"
		}
	}
	return cfg, nil
}

func (s *Service) Delete(ctx context.Context, userID int64, metricID string) error {
	if IsDefaultMetric(metricID) {
		return ErrDefaultMetric
	}
	ok, err := s.metrics.Delete(ctx, metricID)
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	if !ok {
		return ErrMetricNotFound
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "metric_deleted",
		ResourceType: "metric",
		ResourceID:   metricID,
	})
	return nil
}

// EvaluateLeads runs every configured metric over leads.
func (s *Service) EvaluateLeads(ctx context.Context, leads []domain.Lead) ([]domain.MetricConfig, *Evaluation, error) {
	cfgs, err := s.Configs(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfgs, s.engine.EvaluateAll(cfgs, leads), nil
}

// Evaluate loads the filtered population and returns every active metric.
func (s *Service) Evaluate(ctx context.Context, f repository.LeadFilter, withSkips bool) ([]MetricValue, error) {
	leads, err := s.leads.Find(ctx, f, 0)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	cfgs, ev, err := s.EvaluateLeads(ctx, leads)
	if err != nil {
		return nil, err
	}
	return Present(cfgs, ev, func(c *domain.MetricConfig) bool { return c.IsActive }, withSkips), nil
}

// Present rounds the results of the configs accepted by keep, in dashboard order.
func Present(cfgs []domain.MetricConfig, ev *Evaluation, keep func(*domain.MetricConfig) bool, withSkips bool) []MetricValue {
	out := make([]MetricValue, 0, len(cfgs))
	for i := range cfgs {
		c := &cfgs[i]
		if !keep(c) {
			continue
		}
		r, ok := ev.Get(c.MetricID)
		if !ok || !r.Present {
			continue
		}
		mv := MetricValue{
			MetricID:   c.MetricID,
			MetricName: c.MetricName,
			MetricType: string(c.EffectiveType()),
			Value:      Round2(r.Value),
			Unit:       c.Unit,
			Color:      c.Color,
			Icon:       c.Icon,
			Order:      c.DashboardOrder,
			Skipped:    len(r.Skips),
		}
		if withSkips {
			mv.Skips = r.Skips
		}
		out = append(out, mv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func cleanValues(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
