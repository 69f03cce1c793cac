package domain

import "time"

const QualificationSettingsID = "qualification_settings"

type QualificationStatus string

const (
	StatusQualified QualificationStatus = "Qualified"
	StatusFaulty    QualificationStatus = "Faulty"
)

type AnswerOption struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
}

type QualificationQuestion struct {
	QuestionID  string         `json:"question_id"`
	Question    string         `json:"question"`
	Description string         `json:"description,omitempty"`
	Options     []AnswerOption `json:"options"`
	IsRequired  bool           `json:"is_required"`
	Order       int            `json:"order"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type QualificationSettings struct {
	SettingsID     string    `json:"settings_id"`
	ThresholdScore int       `json:"threshold_score"`
	UpdatedAt      time.Time `json:"updated_at"`
	UpdatedBy      string    `json:"updated_by,omitempty"`
}

// QualificationAnswer is stored on the lead.
type QualificationAnswer struct {
	QuestionID string    `json:"question_id"`
	OptionID   string    `json:"option_id"`
	Score      int       `json:"score"`
	AnsweredAt time.Time `json:"answered_at"`
	AnsweredBy string    `json:"answered_by,omitempty"`
}

// ClosureQuestion is asked when a lead is closed.
type ClosureQuestion struct {
	QuestionID string    `json:"question_id"`
	Question   string    `json:"question"`
	Type       string    `json:"type"`
	Options    []string  `json:"options"`
	Required   bool      `json:"required"`
	AppliesTo  string    `json:"applies_to"`
	CreatedAt  time.Time `json:"created_at"`
}
