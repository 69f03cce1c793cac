package kpis

import "leadboard/internal/modules/metrics"

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int64  `json:"count"`
}

type StageCount struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

type Response struct {
	TotalLeads          int                   `json:"total_leads"`
	WonLeads            float64               `json:"won_leads"`
	LostLeads           float64               `json:"lost_leads"`
	OpenLeads           float64               `json:"open_leads"`
	HotLeads            float64               `json:"hot_leads"`
	ConversionRate      float64               `json:"conversion_rate"`
	AvgKVA              float64               `json:"avg_kva"`
	TotalKVA            float64               `json:"total_kva"`
	SegmentDistribution []SegmentCount        `json:"segment_distribution"`
	StageDistribution   []StageCount          `json:"stage_distribution"`
	DateRange           DateRange             `json:"date_range"`
	Metrics             []metrics.MetricValue `json:"metrics"`
}
