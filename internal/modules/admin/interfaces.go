package admin

import (
	"context"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	List(ctx context.Context, role domain.UserRole, offset, limit int) ([]domain.User, int64, error)
	UpdateRole(ctx context.Context, id int64, role domain.UserRole) error
	UpdateStatus(ctx context.Context, id int64, active bool) error
	Counts(ctx context.Context) (repository.UserCounts, error)
}

type ActivityRepository interface {
	ListLogs(ctx context.Context, f repository.LogFilter) ([]domain.ActivityLog, error)
	CountMatching(ctx context.Context, f repository.LogFilter) (int64, error)
	CountLogs(ctx context.Context, since time.Time) (int64, error)
}

type ClosureQuestionRepository interface {
	ListClosureQuestions(ctx context.Context, appliesTo string) ([]domain.ClosureQuestion, error)
	CreateClosureQuestion(ctx context.Context, q *domain.ClosureQuestion) error
	DeleteClosureQuestion(ctx context.Context, id string) (bool, error)
}

type LeadRepository interface {
	DeleteByIDs(ctx context.Context, leadIDs []string) (int64, error)
	Count(ctx context.Context, f repository.LeadFilter) (int64, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.ActivityLog)
}
