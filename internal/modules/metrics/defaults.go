package metrics

import (
	"slices"
	"time"

	"leadboard/internal/domain"
)

// DefaultMetrics returns a fresh copy of the built-in metric set.
func DefaultMetrics(now time.Time) []domain.MetricConfig {
	base := []domain.MetricConfig{
		{
			MetricID:    "won_leads",
			MetricName:  "Won Leads",
			Description: "Leads that have been successfully converted",
			FieldName:   string(domain.FieldEnquiryStage),
			FieldValues: []string{domain.StageClosedWon, domain.StageOrderBooked},
			Color:       "green",
			Icon:        "CheckCircle",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:    "lost_leads",
			MetricName:  "Lost Leads",
			Description: "Leads that were not converted",
			FieldName:   string(domain.FieldEnquiryStage),
			FieldValues: []string{domain.StageClosedLost, domain.StageClosedDropped},
			Color:       "red",
			Icon:        "XCircle",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:    "open_leads",
			MetricName:  "Open Leads",
			Description: "Leads that are still being worked on",
			FieldName:   string(domain.FieldEnquiryStage),
			FieldValues: []string{domain.StageProspecting, domain.StageQualified},
			Color:       "yellow",
			Icon:        "Target",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:    "closed_leads",
			MetricName:  "Closed Leads",
			Description: "All leads that have been closed",
			FieldName:   string(domain.FieldEnquiryStatus),
			FieldValues: []string{"Closed", "Order Received"},
			Color:       "purple",
			Icon:        "CheckCircle2",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:    "hot_leads",
			MetricName:  "Hot Leads",
			Description: "High priority leads",
			FieldName:   string(domain.FieldEnquiryType),
			FieldValues: []string{"Hot"},
			Color:       "red",
			Icon:        "Flame",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:    "warm_leads",
			MetricName:  "Warm Leads",
			Description: "Medium priority leads",
			FieldName:   string(domain.FieldEnquiryType),
			FieldValues: []string{"Warm"},
			Color:       "orange",
			Icon:        "ThermometerSun",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:    "cold_leads",
			MetricName:  "Cold Leads",
			Description: "Low priority leads",
			FieldName:   string(domain.FieldEnquiryType),
			FieldValues: []string{"Cold"},
			Color:       "blue",
			Icon:        "Snowflake",
			MetricType:  domain.MetricCount,
		},
		{
			MetricID:       "avg_lead_age",
			MetricName:     "Avg Lead Age",
			Description:    "Average age of open leads in days",
			Color:          "amber",
			Icon:           "Clock",
			MetricType:     domain.MetricCalculated,
			Unit:           "days",
			StartDateField: string(domain.FieldEnquiryDate),
			EndDateField:   domain.EndDateToday,
			FilterStages:   []string{domain.StageProspecting, domain.StageQualified},
		},
		{
			MetricID:       "avg_closure_time",
			MetricName:     "Avg Closure Time",
			Description:    "Average days to close a lead",
			Color:          "violet",
			Icon:           "Timer",
			MetricType:     domain.MetricCalculated,
			Unit:           "days",
			StartDateField: string(domain.FieldEnquiryDate),
			EndDateField:   string(domain.FieldLastFollowupDate),
			FilterStages:   slices.Clone(domain.ClosedStages),
		},
		{
			MetricID:          "conversion_rate",
			MetricName:        "Conversion Rate",
			Description:       "Percentage of leads converted (Won / (Won + Lost))",
			Color:             "emerald",
			Icon:              "TrendingUp",
			MetricType:        domain.MetricFormula,
			NumeratorMetric:   "won_leads",
			DenominatorMetric: "won_leads+lost_leads",
			Unit:              "%",
		},
	}

	for i := range base {
		base[i].IsActive = true
		base[i].ShowOnDashboard = true
		base[i].DashboardOrder = i + 1
		base[i].UpdatedAt = now
		if base[i].FieldValues == nil {
			base[i].FieldValues = []string{}
		}
		if base[i].FilterStages == nil {
			base[i].FilterStages = []string{}
		}
	}
	return base
}

// IsDefaultMetric reports whether id belongs to the built-in set.
func IsDefaultMetric(id string) bool {
	for _, m := range DefaultMetrics(time.Time{}) {
		if m.MetricID == id {
			return true
		}
	}
	return false
}
