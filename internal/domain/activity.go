package domain

import "time"

// FieldChange is one old/new pair of a lead activity diff.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// LeadActivity is the per-lead history shown on the lead page.
type LeadActivity struct {
	ActivityID   string                 `json:"activity_id"`
	LeadID       string                 `json:"lead_id"`
	UserID       int64                  `json:"user_id"`
	UserName     string                 `json:"user_name,omitempty"`
	Action       string                 `json:"action"`
	FieldChanges map[string]FieldChange `json:"field_changes,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

type FollowUp struct {
	FollowupID   string    `json:"followup_id"`
	LeadID       string    `json:"lead_id"`
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	FollowupDate string    `json:"followup_date"`
	Notes        string    `json:"notes,omitempty"`
	Outcome      string    `json:"outcome,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityLog is the admin audit trail.
type ActivityLog struct {
	LogID        string         `json:"log_id"`
	UserID       int64          `json:"user_id"`
	UserName     string         `json:"user_name,omitempty"`
	UserEmail    string         `json:"user_email,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
