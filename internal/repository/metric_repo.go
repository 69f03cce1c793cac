package repository

import (
	"context"
	"time"

	"leadboard/internal/domain"

	"gorm.io/gorm"
)

type MetricRepository struct {
	db *gorm.DB
}

func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

type metricModel struct {
	MetricID          string    `gorm:"column:metric_id;primaryKey;size:64"`
	MetricName        string    `gorm:"column:metric_name"`
	Description       string    `gorm:"column:description"`
	FieldName         string    `gorm:"column:field_name"`
	FieldValues       []string  `gorm:"column:field_values;type:text;serializer:json"`
	IsActive          bool      `gorm:"column:is_active"`
	IsCustom          bool      `gorm:"column:is_custom"`
	Color             string    `gorm:"column:color"`
	Icon              string    `gorm:"column:icon"`
	ShowOnDashboard   bool      `gorm:"column:show_on_dashboard"`
	DashboardOrder    int       `gorm:"column:dashboard_order"`
	MetricType        string    `gorm:"column:metric_type;size:16"`
	Formula           string    `gorm:"column:formula"`
	NumeratorMetric   string    `gorm:"column:numerator_metric"`
	DenominatorMetric string    `gorm:"column:denominator_metric"`
	Unit              string    `gorm:"column:unit"`
	StartDateField    string    `gorm:"column:start_date_field"`
	EndDateField      string    `gorm:"column:end_date_field"`
	FilterStages      []string  `gorm:"column:filter_stages;type:text;serializer:json"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (metricModel) TableName() string { return "metric_settings" }

func toDomainMetric(m metricModel) domain.MetricConfig {
	return domain.MetricConfig{
		MetricID:          m.MetricID,
		MetricName:        m.MetricName,
		Description:       m.Description,
		FieldName:         m.FieldName,
		FieldValues:       m.FieldValues,
		IsActive:          m.IsActive,
		IsCustom:          m.IsCustom,
		Color:             m.Color,
		Icon:              m.Icon,
		ShowOnDashboard:   m.ShowOnDashboard,
		DashboardOrder:    m.DashboardOrder,
		MetricType:        domain.MetricType(m.MetricType),
		Formula:           m.Formula,
		NumeratorMetric:   m.NumeratorMetric,
		DenominatorMetric: m.DenominatorMetric,
		Unit:              m.Unit,
		StartDateField:    m.StartDateField,
		EndDateField:      m.EndDateField,
		FilterStages:      m.FilterStages,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toMetricModel(c *domain.MetricConfig) metricModel {
	return metricModel{
		MetricID:          c.MetricID,
		MetricName:        c.MetricName,
		Description:       c.Description,
		FieldName:         c.FieldName,
		FieldValues:       c.FieldValues,
		IsActive:          c.IsActive,
		IsCustom:          c.IsCustom,
		Color:             c.Color,
		Icon:              c.Icon,
		ShowOnDashboard:   c.ShowOnDashboard,
		DashboardOrder:    c.DashboardOrder,
		MetricType:        string(c.MetricType),
		Formula:           c.Formula,
		NumeratorMetric:   c.NumeratorMetric,
		DenominatorMetric: c.DenominatorMetric,
		Unit:              c.Unit,
		StartDateField:    c.StartDateField,
		EndDateField:      c.EndDateField,
		FilterStages:      c.FilterStages,
		UpdatedAt:         c.UpdatedAt,
	}
}

// List returns every stored metric in dashboard order.
func (r *MetricRepository) List(ctx context.Context) ([]domain.MetricConfig, error) {
	var ms []metricModel
	if err := r.db.WithContext(ctx).Order("dashboard_order").Order("metric_id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.MetricConfig, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainMetric(m))
	}
	return out, nil
}

func (r *MetricRepository) Get(ctx context.Context, metricID string) (*domain.MetricConfig, error) {
	var m metricModel
	if err := r.db.WithContext(ctx).Where("metric_id = ?", metricID).First(&m).Error; err != nil {
		return nil, err
	}
	c := toDomainMetric(m)
	return &c, nil
}

func (r *MetricRepository) Create(ctx context.Context, c *domain.MetricConfig) error {
	m := toMetricModel(c)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *MetricRepository) Save(ctx context.Context, c *domain.MetricConfig) error {
	m := toMetricModel(c)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *MetricRepository) Delete(ctx context.Context, metricID string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("metric_id = ?", metricID).Delete(&metricModel{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *MetricRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&metricModel{}).Count(&n).Error
	return n, err
}

// CreateMany inserts cs in one transaction.
func (r *MetricRepository) CreateMany(ctx context.Context, cs []domain.MetricConfig) error {
	if len(cs) == 0 {
		return nil
	}
	ms := make([]metricModel, 0, len(cs))
	for i := range cs {
		ms = append(ms, toMetricModel(&cs[i]))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ms).Error
	})
}

// ReplaceAll swaps the whole metric table for cs.
func (r *MetricRepository) ReplaceAll(ctx context.Context, cs []domain.MetricConfig) error {
	ms := make([]metricModel, 0, len(cs))
	for i := range cs {
		ms = append(ms, toMetricModel(&cs[i]))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&metricModel{}).Error; err != nil {
			return err
		}
		if len(ms) == 0 {
			return nil
		}
		return tx.Create(&ms).Error
	})
}
