package notification

type Level string

const (
	LevelCritical Level = "critical"
	LevelWarning  Level = "warning"
	LevelInfo     Level = "info"
)

var levelRank = map[Level]int{LevelCritical: 0, LevelWarning: 1, LevelInfo: 2}

type Notification struct {
	ID           string `json:"id"`
	Type         Level  `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	LeadID       string `json:"lead_id"`
	LeadName     string `json:"lead_name"`
	Dealer       string `json:"dealer"`
	FollowupDate string `json:"followup_date"`
	DaysOverdue  int    `json:"days_overdue"`
	DaysUntil    int    `json:"days_until,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type Counts struct {
	Critical int64 `json:"critical"`
	Warning  int64 `json:"warning"`
	Info     int64 `json:"info"`
	Total    int64 `json:"total"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Counts        Counts         `json:"counts"`
}
