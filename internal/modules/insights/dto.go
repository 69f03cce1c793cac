package insights

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Performer struct {
	Name           string  `json:"name"`
	TotalLeads     int64   `json:"total_leads"`
	WonLeads       int64   `json:"won_leads"`
	LostLeads      int64   `json:"lost_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	TotalKVA       float64 `json:"total_kva"`
}

type TopPerformers struct {
	Performers []Performer `json:"performers"`
	By         string      `json:"by"`
	Metric     string      `json:"metric"`
	DateRange  DateRange   `json:"date_range"`
}

type FollowupBucket struct {
	Followups      int     `json:"followups"`
	TotalLeads     int64   `json:"total_leads"`
	Won            int64   `json:"won"`
	Lost           int64   `json:"lost"`
	ConversionRate float64 `json:"conversion_rate"`
}

type FollowupAnalysis struct {
	Data      []FollowupBucket `json:"data"`
	DateRange DateRange        `json:"date_range"`
}

type Segment struct {
	Segment        string  `json:"segment"`
	TotalLeads     int64   `json:"total_leads"`
	WonLeads       int64   `json:"won_leads"`
	LostLeads      int64   `json:"lost_leads"`
	HotLeads       int64   `json:"hot_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgKVA         float64 `json:"avg_kva"`
	TotalKVA       float64 `json:"total_kva"`
}

type SegmentAnalysis struct {
	Segments  []Segment `json:"segments"`
	DateRange DateRange `json:"date_range"`
}

type MonthTrend struct {
	Month      string  `json:"month"`
	TotalLeads int64   `json:"total_leads"`
	Won        int64   `json:"won"`
	Lost       int64   `json:"lost"`
	TotalKVA   float64 `json:"total_kva"`
}

type MonthlyTrends struct {
	Trends []MonthTrend `json:"trends"`
}
