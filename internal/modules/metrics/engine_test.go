package metrics

import (
	"testing"
	"time"

	"leadboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine(now time.Time) *Engine {
	return &Engine{now: func() time.Time { return now }}
}

func wonLost() []domain.MetricConfig {
	return []domain.MetricConfig{
		{MetricID: "conversion_rate", IsActive: true, MetricType: domain.MetricFormula, NumeratorMetric: "won_leads", DenominatorMetric: "won_leads+lost_leads"},
		{MetricID: "won_leads", IsActive: true, MetricType: domain.MetricCount, FieldName: "enquiry_stage", FieldValues: []string{"Closed-Won", "Order Booked"}},
		{MetricID: "lost_leads", IsActive: true, MetricType: domain.MetricCount, FieldName: "enquiry_stage", FieldValues: []string{"Closed-Lost"}},
	}
}

func stages(ss ...string) []domain.Lead {
	out := make([]domain.Lead, 0, len(ss))
	for _, s := range ss {
		out = append(out, domain.Lead{EnquiryStage: s})
	}
	return out
}

func TestEvaluate_Count(t *testing.T) {
	e := NewEngine()
	leads := stages("Closed-Won", "Order Booked", "Closed-Lost", "Prospecting")

	tests := []struct {
		name string
		cfg  domain.MetricConfig
		want float64
	}{
		{"members", domain.MetricConfig{MetricID: "w", IsActive: true, FieldName: "enquiry_stage", FieldValues: []string{"Closed-Won", "Order Booked"}}, 2},
		{"inactive", domain.MetricConfig{MetricID: "w", IsActive: false, FieldName: "enquiry_stage", FieldValues: []string{"Closed-Won"}}, 0},
		{"no field", domain.MetricConfig{MetricID: "w", IsActive: true, FieldValues: []string{"Closed-Won"}}, 0},
		{"no values", domain.MetricConfig{MetricID: "w", IsActive: true, FieldName: "enquiry_stage"}, 0},
		{"unknown field", domain.MetricConfig{MetricID: "w", IsActive: true, FieldName: "password", FieldValues: []string{"x"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Evaluate(&tt.cfg, leads, nil)
			assert.True(t, r.Present)
			assert.Equal(t, tt.want, r.Value)
		})
	}
}

func TestEvaluate_UnknownMetricIsAbsent(t *testing.T) {
	r := NewEngine().Evaluate(nil, stages("Closed-Won"), nil)
	assert.False(t, r.Present)

	ev := NewEngine().EvaluateAll(wonLost(), nil)
	_, ok := ev.Resolve("nope")
	assert.False(t, ok)
}

func TestEvaluateAll_ConversionRate(t *testing.T) {
	leads := stages("Closed-Won", "Closed-Won", "Order Booked", "Closed-Lost")
	ev := NewEngine().EvaluateAll(wonLost(), leads)

	v, ok := ev.Resolve("conversion_rate")
	require.True(t, ok)
	assert.Equal(t, 75.0, v)

	// results keep config order
	require.Len(t, ev.Results, 3)
	assert.Equal(t, "conversion_rate", ev.Results[0].MetricID)

	total, ok := ev.Resolve(domain.TotalLeadsMetric)
	require.True(t, ok)
	assert.Equal(t, 4.0, total)
}

func TestEvaluate_FormulaZeroDenominator(t *testing.T) {
	ev := NewEngine().EvaluateAll(wonLost(), stages("Prospecting"))
	v, ok := ev.Resolve("conversion_rate")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestEvaluate_FormulaUsesTotalLeads(t *testing.T) {
	cfgs := []domain.MetricConfig{
		{MetricID: "won_share", IsActive: true, NumeratorMetric: "won", DenominatorMetric: "total_leads"},
		{MetricID: "won", IsActive: true, FieldName: "enquiry_stage", FieldValues: []string{"Closed-Won"}},
	}
	ev := NewEngine().EvaluateAll(cfgs, stages("Closed-Won", "Prospecting", "Prospecting", "Prospecting"))
	v, _ := ev.Resolve("won_share")
	assert.Equal(t, 25.0, v)
}

func TestEvaluate_CalculatedAverageAge(t *testing.T) {
	now := time.Date(2024, 8, 31, 15, 30, 0, 0, time.UTC)
	cfg := domain.MetricConfig{
		MetricID:       "avg_lead_age",
		IsActive:       true,
		MetricType:     domain.MetricCalculated,
		StartDateField: "enquiry_date",
		EndDateField:   domain.EndDateToday,
		FilterStages:   []string{"Prospecting", "Qualified"},
	}
	leads := []domain.Lead{
		{LeadID: "a", EnquiryStage: "Prospecting", EnquiryDate: "2024-08-21"},
		{LeadID: "b", EnquiryStage: "Qualified", EnquiryDate: "2024-08-11"},
		{LeadID: "c", EnquiryStage: "Closed-Won", EnquiryDate: "2020-01-01"},
	}

	r := fixedEngine(now).Evaluate(&cfg, leads, nil)
	assert.Equal(t, 15.0, r.Value)
	assert.Empty(t, r.Skips)
}

func TestEvaluate_CalculatedSkips(t *testing.T) {
	cfg := domain.MetricConfig{
		MetricID:       "avg_closure_time",
		IsActive:       true,
		StartDateField: "enquiry_date",
		EndDateField:   "last_followup_date",
		FilterStages:   []string{"Closed-Won"},
	}
	leads := []domain.Lead{
		{LeadID: "ok", EnquiryStage: "Closed-Won", EnquiryDate: "2024-01-01", LastFollowupDate: "2024-01-11"},
		{LeadID: "swapped", EnquiryStage: "Closed-Won", EnquiryDate: "2024-02-01", LastFollowupDate: "2024-01-01"},
		{LeadID: "nostart", EnquiryStage: "Closed-Won", LastFollowupDate: "2024-01-01"},
		{LeadID: "noend", EnquiryStage: "Closed-Won", EnquiryDate: "2024-01-01"},
		{LeadID: "garbage", EnquiryStage: "Closed-Won", EnquiryDate: "someday", LastFollowupDate: "2024-01-01"},
	}

	r := NewEngine().Evaluate(&cfg, leads, nil)
	assert.Equal(t, 10.0, r.Value)
	assert.Equal(t, []Skip{
		{LeadID: "swapped", Reason: SkipNegative},
		{LeadID: "nostart", Reason: SkipMissingStart},
		{LeadID: "noend", Reason: SkipMissingEnd},
		{LeadID: "garbage", Reason: SkipUnparsable},
	}, r.Skips)
}

func TestEvaluate_CalculatedNoValidLeads(t *testing.T) {
	cfg := domain.MetricConfig{MetricID: "x", IsActive: true, StartDateField: "enquiry_date", EndDateField: "last_followup_date"}
	r := NewEngine().Evaluate(&cfg, []domain.Lead{{LeadID: "a"}}, nil)
	assert.Equal(t, 0.0, r.Value)
	assert.Len(t, r.Skips, 1)
}

func TestEffectiveType_Legacy(t *testing.T) {
	assert.Equal(t, domain.MetricFormula, (&domain.MetricConfig{DenominatorMetric: "a"}).EffectiveType())
	assert.Equal(t, domain.MetricCalculated, (&domain.MetricConfig{StartDateField: "enquiry_date"}).EffectiveType())
	assert.Equal(t, domain.MetricCount, (&domain.MetricConfig{FieldName: "zone"}).EffectiveType())
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-05T22:10:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d.Format(domain.DateLayout))

	_, err = ParseDay("05/03/2024")
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 0.0, Round2(0))
}
