package leads

import "leadboard/internal/domain"

type ListResponse struct {
	Leads []domain.Lead `json:"leads"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Pages int           `json:"pages"`
}
