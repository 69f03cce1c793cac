package qualification

import (
	"context"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type QuestionRepository interface {
	ListQuestions(ctx context.Context, activeOnly bool) ([]domain.QualificationQuestion, error)
	GetQuestion(ctx context.Context, id string) (*domain.QualificationQuestion, error)
	CreateQuestion(ctx context.Context, q *domain.QualificationQuestion) error
	SaveQuestion(ctx context.Context, q *domain.QualificationQuestion) error
	GetSettings(ctx context.Context) (*domain.QualificationSettings, error)
	SaveSettings(ctx context.Context, s *domain.QualificationSettings) error
}

type LeadRepository interface {
	GetByID(ctx context.Context, leadID string) (*domain.Lead, error)
	ApplyQualification(ctx context.Context, leadID string, q repository.QualificationUpdate) error
}

type ActivityRecorder interface {
	RecordLead(ctx context.Context, a *domain.LeadActivity)
	Record(ctx context.Context, entry *domain.ActivityLog)
}
