package qualification

import "leadboard/internal/domain"

type OptionInput struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text" validate:"required,max=200"`
	Score    int    `json:"score"`
}

type CreateQuestionRequest struct {
	Question    string        `json:"question" validate:"required,max=500"`
	Description string        `json:"description" validate:"max=1000"`
	Options     []OptionInput `json:"options" validate:"required,min=1,dive"`
	IsRequired  bool          `json:"is_required"`
	Order       int           `json:"order" validate:"min=0"`
}

type UpdateQuestionRequest struct {
	Question    *string        `json:"question" validate:"omitempty,min=1,max=500"`
	Description *string        `json:"description" validate:"omitempty,max=1000"`
	Options     *[]OptionInput `json:"options" validate:"omitempty,min=1,dive"`
	IsRequired  *bool          `json:"is_required"`
	Order       *int           `json:"order" validate:"omitempty,min=0"`
}

type UpdateSettingsRequest struct {
	ThresholdScore *int `json:"threshold_score" validate:"required,min=0"`
}

type QualifyRequest struct {
	Answers []Answer `json:"answers" validate:"dive"`
}

type QualifyResult struct {
	LeadID      string                       `json:"lead_id"`
	TotalScore  int                          `json:"total_score"`
	Threshold   int                          `json:"threshold"`
	IsQualified bool                         `json:"is_qualified"`
	Status      domain.QualificationStatus   `json:"status"`
	Answers     []domain.QualificationAnswer `json:"answers"`
	Outcomes    []Outcome                    `json:"outcomes"`
}

type LeadQualification struct {
	LeadID               string                         `json:"lead_id"`
	QualificationAnswers []domain.QualificationAnswer   `json:"qualification_answers"`
	QualificationScore   int                            `json:"qualification_score"`
	IsQualified          *bool                          `json:"is_qualified"`
	Threshold            int                            `json:"threshold"`
	Questions            []domain.QualificationQuestion `json:"questions"`
}
