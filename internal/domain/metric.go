package domain

import "time"

type MetricType string

const (
	MetricCount      MetricType = "count"
	MetricCalculated MetricType = "calculated"
	MetricFormula    MetricType = "formula"
)

// EndDateToday makes a calculated metric measure up to the evaluation day.
const EndDateToday = "today"

// TotalLeadsMetric is always available to formula metrics.
const TotalLeadsMetric = "total_leads"

type MetricConfig struct {
	MetricID        string     `json:"metric_id"`
	MetricName      string     `json:"metric_name"`
	Description     string     `json:"description"`
	FieldName       string     `json:"field_name,omitempty"`
	FieldValues     []string   `json:"field_values"`
	IsActive        bool       `json:"is_active"`
	IsCustom        bool       `json:"is_custom"`
	Color           string     `json:"color"`
	Icon            string     `json:"icon"`
	ShowOnDashboard bool       `json:"show_on_dashboard"`
	DashboardOrder  int        `json:"dashboard_order"`
	MetricType      MetricType `json:"metric_type"`
	Formula         string     `json:"formula,omitempty"`

	NumeratorMetric   string `json:"numerator_metric,omitempty"`
	DenominatorMetric string `json:"denominator_metric,omitempty"`

	Unit string `json:"unit"`

	StartDateField string   `json:"start_date_field,omitempty"`
	EndDateField   string   `json:"end_date_field,omitempty"`
	FilterStages   []string `json:"filter_stages"`

	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveType infers the kind of legacy records saved without metric_type.
func (m *MetricConfig) EffectiveType() MetricType {
	switch m.MetricType {
	case MetricCount, MetricCalculated, MetricFormula:
		return m.MetricType
	}
	if m.NumeratorMetric != "" || m.DenominatorMetric != "" {
		return MetricFormula
	}
	if m.StartDateField != "" || m.EndDateField != "" {
		return MetricCalculated
	}
	return MetricCount
}
