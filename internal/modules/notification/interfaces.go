package notification

import (
	"context"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
)

type LeadReader interface {
	Find(ctx context.Context, f repository.LeadFilter, limit int) ([]domain.Lead, error)
	Count(ctx context.Context, f repository.LeadFilter) (int64, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
