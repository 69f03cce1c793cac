package repository

import (
	"context"
	"time"

	"leadboard/internal/domain"

	"gorm.io/gorm"
)

type QualificationRepository struct {
	db *gorm.DB
}

func NewQualificationRepository(db *gorm.DB) *QualificationRepository {
	return &QualificationRepository{db: db}
}

type questionModel struct {
	QuestionID  string                `gorm:"column:question_id;primaryKey;size:64"`
	Question    string                `gorm:"column:question"`
	Description string                `gorm:"column:description"`
	Options     []domain.AnswerOption `gorm:"column:options;type:text;serializer:json"`
	IsRequired  bool                  `gorm:"column:is_required"`
	SortOrder   int                   `gorm:"column:sort_order"`
	IsActive    bool                  `gorm:"column:is_active"`
	CreatedAt   time.Time             `gorm:"column:created_at"`
	UpdatedAt   time.Time             `gorm:"column:updated_at"`
}

func (questionModel) TableName() string { return "qualification_questions" }

type settingsModel struct {
	SettingsID     string    `gorm:"column:settings_id;primaryKey;size:64"`
	ThresholdScore int       `gorm:"column:threshold_score"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
	UpdatedBy      string    `gorm:"column:updated_by"`
}

func (settingsModel) TableName() string { return "qualification_settings" }

func toDomainQuestion(m questionModel) domain.QualificationQuestion {
	return domain.QualificationQuestion{
		QuestionID:  m.QuestionID,
		Question:    m.Question,
		Description: m.Description,
		Options:     m.Options,
		IsRequired:  m.IsRequired,
		Order:       m.SortOrder,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toQuestionModel(q *domain.QualificationQuestion) questionModel {
	return questionModel{
		QuestionID:  q.QuestionID,
		Question:    q.Question,
		Description: q.Description,
		Options:     q.Options,
		IsRequired:  q.IsRequired,
		SortOrder:   q.Order,
		IsActive:    q.IsActive,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// ListQuestions returns questions by display order.
func (r *QualificationRepository) ListQuestions(ctx context.Context, activeOnly bool) ([]domain.QualificationQuestion, error) {
	q := r.db.WithContext(ctx).Order("sort_order").Order("question_id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var ms []questionModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.QualificationQuestion, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainQuestion(m))
	}
	return out, nil
}

func (r *QualificationRepository) GetQuestion(ctx context.Context, id string) (*domain.QualificationQuestion, error) {
	var m questionModel
	if err := r.db.WithContext(ctx).Where("question_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	q := toDomainQuestion(m)
	return &q, nil
}

func (r *QualificationRepository) CreateQuestion(ctx context.Context, q *domain.QualificationQuestion) error {
	m := toQuestionModel(q)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *QualificationRepository) SaveQuestion(ctx context.Context, q *domain.QualificationQuestion) error {
	m := toQuestionModel(q)
	return r.db.WithContext(ctx).Save(&m).Error
}

// GetSettings returns the singleton settings row, or ErrRecordNotFound.
func (r *QualificationRepository) GetSettings(ctx context.Context) (*domain.QualificationSettings, error) {
	var m settingsModel
	if err := r.db.WithContext(ctx).Where("settings_id = ?", domain.QualificationSettingsID).First(&m).Error; err != nil {
		return nil, err
	}
	return &domain.QualificationSettings{
		SettingsID:     m.SettingsID,
		ThresholdScore: m.ThresholdScore,
		UpdatedAt:      m.UpdatedAt,
		UpdatedBy:      m.UpdatedBy,
	}, nil
}

func (r *QualificationRepository) SaveSettings(ctx context.Context, s *domain.QualificationSettings) error {
	m := settingsModel{
		SettingsID:     domain.QualificationSettingsID,
		ThresholdScore: s.ThresholdScore,
		UpdatedAt:      s.UpdatedAt,
		UpdatedBy:      s.UpdatedBy,
	}
	return r.db.WithContext(ctx).Save(&m).Error
}
