package activity

import "leadboard/internal/domain"

type AddFollowupRequest struct {
	FollowupDate string `json:"followup_date" validate:"required,datetime=2006-01-02"`
	Notes        string `json:"notes" validate:"max=2000"`
	Outcome      string `json:"outcome" validate:"omitempty,oneof=positive negative neutral pending"`
}

type TimelineResponse struct {
	Activities []domain.LeadActivity `json:"activities"`
}

type FollowupsResponse struct {
	Followups []domain.FollowUp `json:"followups"`
}
