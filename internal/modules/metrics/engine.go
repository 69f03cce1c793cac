package metrics

import (
	"math"
	"slices"
	"strings"
	"time"

	"leadboard/internal/domain"
)

type SkipReason string

const (
	SkipMissingStart SkipReason = "missing_start_date"
	SkipMissingEnd   SkipReason = "missing_end_date"
	SkipUnparsable   SkipReason = "unparsable_date"
	SkipNegative     SkipReason = "negative_delta"
)

// Skip records a lead left out of a calculated average.
type Skip struct {
	LeadID string     `json:"lead_id"`
	Reason SkipReason `json:"reason"`
}

// Result is the outcome of evaluating one metric. Present is false when
// the metric is unknown.
type Result struct {
	MetricID string
	Value    float64
	Present  bool
	Skips    []Skip
}

// Engine evaluates metric configs over an already-filtered lead population.
// It never touches storage.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Evaluate computes one metric. computed must already hold every base
// metric a formula refers to.
func (e *Engine) Evaluate(cfg *domain.MetricConfig, leads []domain.Lead, computed map[string]float64) Result {
	if cfg == nil {
		return Result{}
	}
	res := Result{MetricID: cfg.MetricID, Present: true}
	if !cfg.IsActive {
		return res
	}

	switch cfg.EffectiveType() {
	case domain.MetricFormula:
		res.Value = formula(cfg, computed)
	case domain.MetricCalculated:
		res.Value, res.Skips = e.calculated(cfg, leads)
	default:
		res.Value = count(cfg, leads)
	}
	return res
}

func count(cfg *domain.MetricConfig, leads []domain.Lead) float64 {
	field, ok := domain.ParseLeadField(cfg.FieldName)
	if !ok || len(cfg.FieldValues) == 0 {
		return 0
	}
	n := 0
	for i := range leads {
		if slices.Contains(cfg.FieldValues, leads[i].Value(field)) {
			n++
		}
	}
	return float64(n)
}

func formula(cfg *domain.MetricConfig, computed map[string]float64) float64 {
	num := sumTerms(cfg.NumeratorMetric, computed)
	den := sumTerms(cfg.DenominatorMetric, computed)
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

func sumTerms(expr string, computed map[string]float64) float64 {
	var total float64
	for _, id := range strings.Split(expr, "+") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		total += computed[id]
	}
	return total
}

// calculated averages whole-day deltas. An empty filter_stages keeps
// every lead.
func (e *Engine) calculated(cfg *domain.MetricConfig, leads []domain.Lead) (float64, []Skip) {
	start, ok := domain.ParseLeadField(cfg.StartDateField)
	if !ok || !start.IsDate() {
		return 0, nil
	}
	today := cfg.EndDateField == domain.EndDateToday
	var end domain.LeadField
	if !today {
		end, ok = domain.ParseLeadField(cfg.EndDateField)
		if !ok || !end.IsDate() {
			return 0, nil
		}
	}
	now := e.now().UTC()
	todayDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		sum   int
		n     int
		skips []Skip
	)
	for i := range leads {
		l := &leads[i]
		if len(cfg.FilterStages) > 0 && !slices.Contains(cfg.FilterStages, l.EnquiryStage) {
			continue
		}

		rawStart := l.Value(start)
		if rawStart == "" {
			skips = append(skips, Skip{LeadID: l.LeadID, Reason: SkipMissingStart})
			continue
		}
		from, err := ParseDay(rawStart)
		if err != nil {
			skips = append(skips, Skip{LeadID: l.LeadID, Reason: SkipUnparsable})
			continue
		}

		to := todayDate
		if !today {
			rawEnd := l.Value(end)
			if rawEnd == "" {
				skips = append(skips, Skip{LeadID: l.LeadID, Reason: SkipMissingEnd})
				continue
			}
			to, err = ParseDay(rawEnd)
			if err != nil {
				skips = append(skips, Skip{LeadID: l.LeadID, Reason: SkipUnparsable})
				continue
			}
		}

		days := int(to.Sub(from).Hours() / 24)
		if days < 0 {
			skips = append(skips, Skip{LeadID: l.LeadID, Reason: SkipNegative})
			continue
		}
		sum += days
		n++
	}
	if n == 0 {
		return 0, skips
	}
	return float64(sum) / float64(n), skips
}

// ParseDay reads a stored date, tolerating a trailing time component.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(domain.DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		s = s[:len(domain.DateLayout)]
	}
	return time.Parse(domain.DateLayout, s)
}

// Evaluation holds every metric of one EvaluateAll run.
type Evaluation struct {
	Results []Result
	values  map[string]float64
}

// Resolve returns a metric's raw value; unknown ids are not present.
func (ev *Evaluation) Resolve(metricID string) (float64, bool) {
	v, ok := ev.values[metricID]
	return v, ok
}

// Get returns the result of one metric.
func (ev *Evaluation) Get(metricID string) (Result, bool) {
	for _, r := range ev.Results {
		if r.MetricID == metricID {
			return r, true
		}
	}
	return Result{}, false
}

// EvaluateAll evaluates base metrics before formulas so that every formula
// sees its dependencies. Results keep the order of cfgs.
func (e *Engine) EvaluateAll(cfgs []domain.MetricConfig, leads []domain.Lead) *Evaluation {
	computed := map[string]float64{domain.TotalLeadsMetric: float64(len(leads))}
	byID := make(map[string]Result, len(cfgs))

	for i := range cfgs {
		if cfgs[i].EffectiveType() == domain.MetricFormula {
			continue
		}
		r := e.Evaluate(&cfgs[i], leads, computed)
		computed[r.MetricID] = r.Value
		byID[r.MetricID] = r
	}
	for i := range cfgs {
		if cfgs[i].EffectiveType() != domain.MetricFormula {
			continue
		}
		r := e.Evaluate(&cfgs[i], leads, computed)
		byID[r.MetricID] = r
	}

	ev := &Evaluation{Results: make([]Result, 0, len(cfgs)), values: make(map[string]float64, len(byID)+1)}
	ev.values[domain.TotalLeadsMetric] = float64(len(leads))
	for i := range cfgs {
		r := byID[cfgs[i].MetricID]
		ev.Results = append(ev.Results, r)
		ev.values[r.MetricID] = r.Value
	}
	return ev
}

// Round2 rounds for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
