package repository

import (
	"context"
	"time"

	"leadboard/internal/domain"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type leadActivityModel struct {
	ActivityID   string                        `gorm:"column:activity_id;primaryKey;size:64"`
	LeadID       string                        `gorm:"column:lead_id;index"`
	UserID       int64                         `gorm:"column:user_id"`
	Action       string                        `gorm:"column:action"`
	FieldChanges map[string]domain.FieldChange `gorm:"column:field_changes;type:text;serializer:json"`
	Notes        string                        `gorm:"column:notes;type:text"`
	CreatedAt    time.Time                     `gorm:"column:created_at;index"`
}

func (leadActivityModel) TableName() string { return "lead_activities" }

type activityLogModel struct {
	LogID        string         `gorm:"column:log_id;primaryKey;size:64"`
	UserID       int64          `gorm:"column:user_id;index"`
	Action       string         `gorm:"column:action;index"`
	ResourceType string         `gorm:"column:resource_type"`
	ResourceID   string         `gorm:"column:resource_id;index"`
	Details      map[string]any `gorm:"column:details;type:text;serializer:json"`
	IPAddress    string         `gorm:"column:ip_address"`
	CreatedAt    time.Time      `gorm:"column:created_at;index"`
}

func (activityLogModel) TableName() string { return "activity_logs" }

// activity rows joined with their author.
type leadActivityRow struct {
	Activity leadActivityModel `gorm:"embedded"`
	UserName string            `gorm:"column:user_name"`
}

type activityLogRow struct {
	Log       activityLogModel `gorm:"embedded"`
	UserName  string           `gorm:"column:user_name"`
	UserEmail string           `gorm:"column:user_email"`
}

func (r *ActivityRepository) CreateLeadActivity(ctx context.Context, a *domain.LeadActivity) error {
	m := leadActivityModel{
		ActivityID:   a.ActivityID,
		LeadID:       a.LeadID,
		UserID:       a.UserID,
		Action:       a.Action,
		FieldChanges: a.FieldChanges,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListLeadActivities returns a lead's history, newest first.
func (r *ActivityRepository) ListLeadActivities(ctx context.Context, leadID string, limit int) ([]domain.LeadActivity, error) {
	var rows []leadActivityRow
	q := r.db.WithContext(ctx).
		Table("lead_activities AS a").
		Select("a.*, u.name AS user_name").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Where("a.lead_id = ?", leadID).
		Order("a.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.LeadActivity, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LeadActivity{
			ActivityID:   row.Activity.ActivityID,
			LeadID:       row.Activity.LeadID,
			UserID:       row.Activity.UserID,
			UserName:     row.UserName,
			Action:       row.Activity.Action,
			FieldChanges: row.Activity.FieldChanges,
			Notes:        row.Activity.Notes,
			CreatedAt:    row.Activity.CreatedAt,
		})
	}
	return out, nil
}

func (r *ActivityRepository) CreateLog(ctx context.Context, l *domain.ActivityLog) error {
	m := activityLogModel{
		LogID:        l.LogID,
		UserID:       l.UserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		Details:      l.Details,
		IPAddress:    l.IPAddress,
		CreatedAt:    l.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

type LogFilter struct {
	UserID       int64
	Action       string
	ResourceType string
	ResourceIDs  []string
	// Since is inclusive, Until exclusive.
	Since  time.Time
	Until  time.Time
	Offset int
	Limit  int
}

func (f LogFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		q = q.Where("l.user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("l.action = ?", f.Action)
	}
	if f.ResourceType != "" {
		q = q.Where("l.resource_type = ?", f.ResourceType)
	}
	if len(f.ResourceIDs) > 0 {
		q = q.Where("l.resource_id IN ?", f.ResourceIDs)
	}
	if !f.Since.IsZero() {
		q = q.Where("l.created_at >= ?", f.Since)
	}
	if !f.Until.IsZero() {
		q = q.Where("l.created_at < ?", f.Until)
	}
	return q
}

// ListLogs returns audit entries newest first, enriched with the user's
// name and email.
func (r *ActivityRepository) ListLogs(ctx context.Context, f LogFilter) ([]domain.ActivityLog, error) {
	q := f.apply(r.db.WithContext(ctx).
		Table("activity_logs AS l").
		Select("l.*, u.name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN users u ON u.id = l.user_id").
		Order("l.created_at DESC"))
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []activityLogRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ActivityLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ActivityLog{
			LogID:        row.Log.LogID,
			UserID:       row.Log.UserID,
			UserName:     row.UserName,
			UserEmail:    row.UserEmail,
			Action:       row.Log.Action,
			ResourceType: row.Log.ResourceType,
			ResourceID:   row.Log.ResourceID,
			Details:      row.Log.Details,
			IPAddress:    row.Log.IPAddress,
			CreatedAt:    row.Log.CreatedAt,
		})
	}
	return out, nil
}

// CountMatching counts the entries ListLogs would return without paging.
func (r *ActivityRepository) CountMatching(ctx context.Context, f LogFilter) (int64, error) {
	var n int64
	err := f.apply(r.db.WithContext(ctx).Table("activity_logs AS l")).Count(&n).Error
	return n, err
}

func (r *ActivityRepository) CountLogs(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&activityLogModel{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Count(&n).Error
	return n, err
}
