package metrics

import "leadboard/internal/domain"

type UpdateMetricRequest struct {
	FieldValues     *[]string `json:"field_values"`
	IsActive        *bool     `json:"is_active"`
	ShowOnDashboard *bool     `json:"show_on_dashboard"`
	DashboardOrder  *int      `json:"dashboard_order" validate:"omitempty,min=0"`
	MetricName      *string   `json:"metric_name" validate:"omitempty,min=1,max=100"`
	Description     *string   `json:"description" validate:"omitempty,max=500"`
}

type AddMetricRequest struct {
	MetricID    string `json:"metric_id" validate:"required,max=64,excludesall= /"`
	MetricName  string `json:"metric_name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	MetricType  string `json:"metric_type" validate:"omitempty,oneof=count calculated formula"`

	FieldName   string   `json:"field_name"`
	FieldValues []string `json:"field_values"`

	StartDateField string   `json:"start_date_field"`
	EndDateField   string   `json:"end_date_field"`
	FilterStages   []string `json:"filter_stages"`

	NumeratorMetric   string `json:"numerator_metric"`
	DenominatorMetric string `json:"denominator_metric"`

	IsActive        *bool  `json:"is_active"`
	ShowOnDashboard *bool  `json:"show_on_dashboard"`
	DashboardOrder  int    `json:"dashboard_order"`
	Color           string `json:"color"`
	Icon            string `json:"icon"`
	Unit            string `json:"unit"`
}

type SettingsResponse struct {
	Metrics         []domain.MetricConfig       `json:"metrics"`
	AvailableFields map[string][]string         `json:"available_fields"`
	FieldCounts     map[string]map[string]int64 `json:"field_counts"`
}

// MetricValue is one evaluated metric as exposed over HTTP.
type MetricValue struct {
	MetricID   string  `json:"metric_id"`
	MetricName string  `json:"metric_name"`
	MetricType string  `json:"metric_type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Color      string  `json:"color"`
	Icon       string  `json:"icon"`
	Order      int     `json:"dashboard_order"`
	Skipped    int     `json:"skipped,omitempty"`
	Skips      []Skip  `json:"skips,omitempty"`
}
