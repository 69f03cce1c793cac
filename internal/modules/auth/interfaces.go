package auth

import (
	"context"

	"leadboard/internal/domain"
)

// UserRepository is the subset of user storage auth needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *domain.ActivityLog)
}
