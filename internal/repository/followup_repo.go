package repository

import (
	"context"
	"time"

	"leadboard/internal/domain"

	"gorm.io/gorm"
)

type FollowupRepository struct {
	db *gorm.DB
}

func NewFollowupRepository(db *gorm.DB) *FollowupRepository {
	return &FollowupRepository{db: db}
}

type followupModel struct {
	FollowupID   string    `gorm:"column:followup_id;primaryKey;size:64"`
	LeadID       string    `gorm:"column:lead_id;index"`
	UserID       int64     `gorm:"column:user_id"`
	FollowupDate string    `gorm:"column:followup_date;size:10"`
	Notes        string    `gorm:"column:notes;type:text"`
	Outcome      string    `gorm:"column:outcome"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (followupModel) TableName() string { return "lead_followups" }

type followupRow struct {
	Followup followupModel `gorm:"embedded"`
	UserName string        `gorm:"column:user_name"`
}

func (r *FollowupRepository) Create(ctx context.Context, f *domain.FollowUp) error {
	m := followupModel{
		FollowupID:   f.FollowupID,
		LeadID:       f.LeadID,
		UserID:       f.UserID,
		FollowupDate: f.FollowupDate,
		Notes:        f.Notes,
		Outcome:      f.Outcome,
		CreatedAt:    f.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *FollowupRepository) ListByLead(ctx context.Context, leadID string) ([]domain.FollowUp, error) {
	var rows []followupRow
	err := r.db.WithContext(ctx).
		Table("lead_followups AS f").
		Select("f.*, u.name AS user_name").
		Joins("LEFT JOIN users u ON u.id = f.user_id").
		Where("f.lead_id = ?", leadID).
		Order("f.followup_date DESC").
		Order("f.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.FollowUp, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.FollowUp{
			FollowupID:   row.Followup.FollowupID,
			LeadID:       row.Followup.LeadID,
			UserID:       row.Followup.UserID,
			UserName:     row.UserName,
			FollowupDate: row.Followup.FollowupDate,
			Notes:        row.Followup.Notes,
			Outcome:      row.Followup.Outcome,
			CreatedAt:    row.Followup.CreatedAt,
		})
	}
	return out, nil
}

type closureQuestionModel struct {
	QuestionID string    `gorm:"column:question_id;primaryKey;size:64"`
	Question   string    `gorm:"column:question"`
	Type       string    `gorm:"column:type;size:32"`
	Options    []string  `gorm:"column:options;type:text;serializer:json"`
	Required   bool      `gorm:"column:required"`
	AppliesTo  string    `gorm:"column:applies_to;size:16"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (closureQuestionModel) TableName() string { return "closure_questions" }

// ListClosureQuestions filters by applies_to unless it is empty.
func (r *FollowupRepository) ListClosureQuestions(ctx context.Context, appliesTo string) ([]domain.ClosureQuestion, error) {
	q := r.db.WithContext(ctx).Order("created_at").Order("question_id")
	if appliesTo != "" {
		q = q.Where("applies_to = ? OR applies_to = ?", appliesTo, "all")
	}
	var ms []closureQuestionModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ClosureQuestion, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.ClosureQuestion{
			QuestionID: m.QuestionID,
			Question:   m.Question,
			Type:       m.Type,
			Options:    m.Options,
			Required:   m.Required,
			AppliesTo:  m.AppliesTo,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

func (r *FollowupRepository) CreateClosureQuestion(ctx context.Context, q *domain.ClosureQuestion) error {
	m := closureQuestionModel{
		QuestionID: q.QuestionID,
		Question:   q.Question,
		Type:       q.Type,
		Options:    q.Options,
		Required:   q.Required,
		AppliesTo:  q.AppliesTo,
		CreatedAt:  q.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *FollowupRepository) DeleteClosureQuestion(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("question_id = ?", id).Delete(&closureQuestionModel{})
	return tx.RowsAffected > 0, tx.Error
}
