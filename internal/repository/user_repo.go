package repository

import (
	"context"
	"strings"
	"time"

	"leadboard/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;uniqueIndex;size:255"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;size:20"`
	Name         string    `gorm:"column:name"`
	Picture      *string   `gorm:"column:picture"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var picture string
	if m.Picture != nil {
		picture = *m.Picture
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Name:         m.Name,
		Picture:      picture,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var picture *string
	if u.Picture != "" {
		v := u.Picture
		picture = &v
	}
	return userModel{
		ID:           u.ID,
		Email:        strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Name:         u.Name,
		Picture:      picture,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// List returns users newest first.
func (r *UserRepository) List(ctx context.Context, role domain.UserRole, offset, limit int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if role != "" {
		q = q.Where("role = ?", string(role))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []userModel
	if err := q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainUser(m))
	}
	return out, total, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role domain.UserRole) error {
	return r.updateColumn(ctx, id, "role", string(role))
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, active bool) error {
	return r.updateColumn(ctx, id, "is_active", active)
}

func (r *UserRepository) updateColumn(ctx context.Context, id int64, col string, val any) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{col: val, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type RoleCount struct {
	Role  string `gorm:"column:role"`
	Count int64  `gorm:"column:cnt"`
}

type UserCounts struct {
	Total  int64
	Active int64
	ByRole []RoleCount
}

func (r *UserRepository) Counts(ctx context.Context) (UserCounts, error) {
	var out UserCounts
	db := r.db.WithContext(ctx).Model(&userModel{})
	if err := db.Count(&out.Total).Error; err != nil {
		return out, err
	}
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where("is_active = ?", true).Count(&out.Active).Error; err != nil {
		return out, err
	}
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Select("role, COUNT(*) AS cnt").
		Group("role").
		Order("role").
		Scan(&out.ByRole).Error
	return out, err
}
