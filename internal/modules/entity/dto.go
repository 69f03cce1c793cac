package entity

import "leadboard/internal/domain"

type SearchResult struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	ID        string `json:"id"`
	State     string `json:"state,omitempty"`
	Dealer    string `json:"dealer,omitempty"`
	LeadCount int64  `json:"lead_count"`
}

type KPIs struct {
	TotalLeads     int     `json:"total_leads"`
	OpenLeads      int     `json:"open_leads"`
	WonLeads       int     `json:"won_leads"`
	LostLeads      int     `json:"lost_leads"`
	ClosedLeads    int     `json:"closed_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgLeadAge     float64 `json:"avg_lead_age"`
	AvgClosureTime float64 `json:"avg_closure_time"`
}

type StageCount struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

type SegmentPerformance struct {
	Segment        string  `json:"segment"`
	Total          int64   `json:"total"`
	Won            int64   `json:"won"`
	Lost           int64   `json:"lost"`
	ConversionRate float64 `json:"conversion_rate"`
}

type FollowupStatus struct {
	Overdue int64 `json:"overdue"`
	OnTrack int64 `json:"on_track"`
}

type TrendPoint struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
	Won   int64  `json:"won"`
	Lost  int64  `json:"lost"`
}

type MonthOverMonth struct {
	CurrentMonth  string  `json:"current_month"`
	CurrentCount  int64   `json:"current_count"`
	PrevMonth     string  `json:"prev_month"`
	PrevCount     int64   `json:"prev_count"`
	ChangePercent float64 `json:"change_percent"`
}

type SubEntity struct {
	Name           string  `json:"name"`
	Total          int64   `json:"total"`
	Won            int64   `json:"won"`
	Lost           int64   `json:"lost"`
	ConversionRate float64 `json:"conversion_rate"`
}

type TopPerformer struct {
	Name           string  `json:"name"`
	Total          int64   `json:"total"`
	Won            int64   `json:"won"`
	ConversionRate float64 `json:"conversion_rate"`
}

type LeadSummary struct {
	LeadID       string `json:"lead_id"`
	EnquiryNo    string `json:"enquiry_no"`
	Name         string `json:"name"`
	EnquiryDate  string `json:"enquiry_date"`
	EnquiryStage string `json:"enquiry_stage"`
	Dealer       string `json:"dealer"`
	EmployeeName string `json:"employee_name"`
	Segment      string `json:"segment"`
	Source       string `json:"source"`
	State        string `json:"state"`
	Area         string `json:"area"`
	PhoneNumber  string `json:"phone_number"`
}

func summarize(ls []domain.Lead) []LeadSummary {
	out := make([]LeadSummary, 0, len(ls))
	for _, l := range ls {
		out = append(out, LeadSummary{
			LeadID:       l.LeadID,
			EnquiryNo:    l.EnquiryNo,
			Name:         l.Name,
			EnquiryDate:  l.EnquiryDate,
			EnquiryStage: l.EnquiryStage,
			Dealer:       l.Dealer,
			EmployeeName: l.EmployeeName,
			Segment:      l.Segment,
			Source:       l.Source,
			State:        l.State,
			Area:         l.Area,
			PhoneNumber:  l.PhoneNumber,
		})
	}
	return out
}

type RecentLeads struct {
	Leads   []LeadSummary `json:"leads"`
	Total   int64         `json:"total"`
	Showing int           `json:"showing"`
}

type Profile struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	State      string `json:"state,omitempty"`
	Dealer     string `json:"dealer,omitempty"`

	KPIs               KPIs                   `json:"kpis"`
	StageBreakdown     []StageCount           `json:"stage_breakdown"`
	SourceBreakdown    []SourceCount          `json:"source_breakdown"`
	SegmentPerformance []SegmentPerformance   `json:"segment_performance"`
	FollowupStatus     FollowupStatus         `json:"followup_status"`
	Trend              []TrendPoint           `json:"trend"`
	MoMComparison      MonthOverMonth         `json:"mom_comparison"`
	SubEntities        map[string][]SubEntity `json:"sub_entities,omitempty"`
	TopPerformers      []TopPerformer         `json:"top_performers,omitempty"`
	RecentLeads        RecentLeads            `json:"recent_leads"`
	ActivityTimeline   []domain.ActivityLog   `json:"activity_timeline"`
}

type RecentPage struct {
	Leads []LeadSummary `json:"leads"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Pages int           `json:"pages"`
}
