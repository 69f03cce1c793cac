package forecast

import "time"

type Request struct {
	Horizon  int    `json:"horizon"`
	State    string `json:"state"`
	Dealer   string `json:"dealer"`
	Location string `json:"location"`
}

type Filters struct {
	State    *string `json:"state"`
	Dealer   *string `json:"dealer"`
	Location *string `json:"location"`
}

type MonthHistory struct {
	Month          string  `json:"month"`
	TotalEnquiries int64   `json:"total_enquiries"`
	Won            int64   `json:"won"`
	Lost           int64   `json:"lost"`
	TotalKVA       float64 `json:"total_kva"`
}

// Share is one entity's slice of the current lead distribution.
type Share struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Pct   float64 `json:"pct"`
}

type Distribution struct {
	Total     int64   `json:"total"`
	States    []Share `json:"states"`
	Dealers   []Share `json:"dealers"`
	Segments  []Share `json:"segments"`
	Employees []Share `json:"employees"`
}

type EntityPrediction struct {
	Name       string  `json:"name"`
	Predicted  float64 `json:"predicted"`
	Percentage float64 `json:"percentage"`
}

type Breakdown struct {
	ByState    []EntityPrediction `json:"by_state"`
	ByDealer   []EntityPrediction `json:"by_dealer"`
	BySegment  []EntityPrediction `json:"by_segment"`
	ByEmployee []EntityPrediction `json:"by_employee"`
}

type Prediction struct {
	Month              string     `json:"month"`
	PredictedEnquiries float64    `json:"predicted_enquiries"`
	PredictedClosures  float64    `json:"predicted_closures"`
	Confidence         string     `json:"confidence"`
	Breakdown          *Breakdown `json:"breakdown,omitempty"`
}

type Forecast struct {
	Predictions     []Prediction `json:"predictions"`
	Summary         string       `json:"summary"`
	Factors         []string     `json:"factors"`
	Recommendations []string     `json:"recommendations"`
}

const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

type Result struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message,omitempty"`
	Source         string         `json:"source,omitempty"`
	Forecast       *Forecast      `json:"forecast,omitempty"`
	HistoricalData []MonthHistory `json:"historical_data"`
	HorizonMonths  int            `json:"horizon_months,omitempty"`
	Filters        *Filters       `json:"filters,omitempty"`
	GeneratedAt    *time.Time     `json:"generated_at,omitempty"`
}
