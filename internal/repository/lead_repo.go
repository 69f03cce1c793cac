package repository

import (
	"context"
	"time"

	"leadboard/internal/domain"

	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

type leadModel struct {
	LeadID string `gorm:"column:lead_id;primaryKey;size:32"`

	Zone     string `gorm:"column:zone;index"`
	State    string `gorm:"column:state;index"`
	Area     string `gorm:"column:area;index"`
	Office   string `gorm:"column:office"`
	Dealer   string `gorm:"column:dealer;index"`
	Branch   string `gorm:"column:branch"`
	Location string `gorm:"column:location"`
	Address  string `gorm:"column:address"`
	City     string `gorm:"column:city"`

	EmployeeCode   string `gorm:"column:employee_code"`
	EmployeeName   string `gorm:"column:employee_name;index"`
	EmployeeStatus string `gorm:"column:employee_status"`

	EnquiryNo   string `gorm:"column:enquiry_no;index"`
	EnquiryDate string `gorm:"column:enquiry_date;index;size:10"`

	CustomerType  string `gorm:"column:customer_type"`
	CorporateName string `gorm:"column:corporate_name"`
	Name          string `gorm:"column:name"`
	PhoneNumber   string `gorm:"column:phone_number"`
	EmailAddress  string `gorm:"column:email_address"`
	Pincode       string `gorm:"column:pincode"`
	Tehsil        string `gorm:"column:tehsil"`
	District      string `gorm:"column:district"`

	KVA     *float64 `gorm:"column:kva"`
	Phase   string   `gorm:"column:phase"`
	Qty     *int     `gorm:"column:qty"`
	Product string   `gorm:"column:product"`
	Remarks string   `gorm:"column:remarks;type:text"`

	EnquiryStatus string `gorm:"column:enquiry_status;index"`
	EnquiryType   string `gorm:"column:enquiry_type"`
	EnquiryStage  string `gorm:"column:enquiry_stage;index"`
	LeadStatus    string `gorm:"column:lead_status"`
	Priority      string `gorm:"column:priority"`
	ExpectedValue string `gorm:"column:expected_value"`

	EOPODate            string `gorm:"column:eo_po_date;size:10"`
	PlannedFollowupDate string `gorm:"column:planned_followup_date;index;size:10"`
	LastFollowupDate    string `gorm:"column:last_followup_date;size:10"`
	EnquiryClosureDate  string `gorm:"column:enquiry_closure_date;size:10"`

	Source        string `gorm:"column:source"`
	SourceFrom    string `gorm:"column:source_from"`
	Events        string `gorm:"column:events"`
	NoOfFollowups *int   `gorm:"column:no_of_followups"`

	Segment     string `gorm:"column:segment;index"`
	SubSegment  string `gorm:"column:sub_segment"`
	DGOwnership string `gorm:"column:dg_ownership"`

	CreatedBy       string `gorm:"column:created_by"`
	PANNo           string `gorm:"column:pan_no"`
	FinanceRequired string `gorm:"column:finance_required"`
	FinanceCompany  string `gorm:"column:finance_company"`
	ReferredBy      string `gorm:"column:referred_by"`

	QualificationScore   *int                         `gorm:"column:qualification_score"`
	IsQualified          *bool                        `gorm:"column:is_qualified"`
	QualificationAnswers []domain.QualificationAnswer `gorm:"column:qualification_answers;type:text;serializer:json"`
	QualifiedAt          *time.Time                   `gorm:"column:qualified_at"`
	QualifiedBy          string                       `gorm:"column:qualified_by"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (leadModel) TableName() string { return "leads" }

func toDomainLead(m leadModel) *domain.Lead {
	return &domain.Lead{
		LeadID:               m.LeadID,
		Zone:                 m.Zone,
		State:                m.State,
		Area:                 m.Area,
		Office:               m.Office,
		Dealer:               m.Dealer,
		Branch:               m.Branch,
		Location:             m.Location,
		Address:              m.Address,
		City:                 m.City,
		EmployeeCode:         m.EmployeeCode,
		EmployeeName:         m.EmployeeName,
		EmployeeStatus:       m.EmployeeStatus,
		EnquiryNo:            m.EnquiryNo,
		EnquiryDate:          m.EnquiryDate,
		CustomerType:         m.CustomerType,
		CorporateName:        m.CorporateName,
		Name:                 m.Name,
		PhoneNumber:          m.PhoneNumber,
		EmailAddress:         m.EmailAddress,
		Pincode:              m.Pincode,
		Tehsil:               m.Tehsil,
		District:             m.District,
		KVA:                  m.KVA,
		Phase:                m.Phase,
		Qty:                  m.Qty,
		Product:              m.Product,
		Remarks:              m.Remarks,
		EnquiryStatus:        m.EnquiryStatus,
		EnquiryType:          m.EnquiryType,
		EnquiryStage:         m.EnquiryStage,
		LeadStatus:           m.LeadStatus,
		Priority:             m.Priority,
		ExpectedValue:        m.ExpectedValue,
		EOPODate:             m.EOPODate,
		PlannedFollowupDate:  m.PlannedFollowupDate,
		LastFollowupDate:     m.LastFollowupDate,
		EnquiryClosureDate:   m.EnquiryClosureDate,
		Source:               m.Source,
		SourceFrom:           m.SourceFrom,
		Events:               m.Events,
		NoOfFollowups:        m.NoOfFollowups,
		Segment:              m.Segment,
		SubSegment:           m.SubSegment,
		DGOwnership:          m.DGOwnership,
		CreatedBy:            m.CreatedBy,
		PANNo:                m.PANNo,
		FinanceRequired:      m.FinanceRequired,
		FinanceCompany:       m.FinanceCompany,
		ReferredBy:           m.ReferredBy,
		QualificationScore:   m.QualificationScore,
		IsQualified:          m.IsQualified,
		QualificationAnswers: m.QualificationAnswers,
		QualifiedAt:          m.QualifiedAt,
		QualifiedBy:          m.QualifiedBy,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func toLeadModel(l *domain.Lead) leadModel {
	return leadModel{
		LeadID:               l.LeadID,
		Zone:                 l.Zone,
		State:                l.State,
		Area:                 l.Area,
		Office:               l.Office,
		Dealer:               l.Dealer,
		Branch:               l.Branch,
		Location:             l.Location,
		Address:              l.Address,
		City:                 l.City,
		EmployeeCode:         l.EmployeeCode,
		EmployeeName:         l.EmployeeName,
		EmployeeStatus:       l.EmployeeStatus,
		EnquiryNo:            l.EnquiryNo,
		EnquiryDate:          l.EnquiryDate,
		CustomerType:         l.CustomerType,
		CorporateName:        l.CorporateName,
		Name:                 l.Name,
		PhoneNumber:          l.PhoneNumber,
		EmailAddress:         l.EmailAddress,
		Pincode:              l.Pincode,
		Tehsil:               l.Tehsil,
		District:             l.District,
		KVA:                  l.KVA,
		Phase:                l.Phase,
		Qty:                  l.Qty,
		Product:              l.Product,
		Remarks:              l.Remarks,
		EnquiryStatus:        l.EnquiryStatus,
		EnquiryType:          l.EnquiryType,
		EnquiryStage:         l.EnquiryStage,
		LeadStatus:           l.LeadStatus,
		Priority:             l.Priority,
		ExpectedValue:        l.ExpectedValue,
		EOPODate:             l.EOPODate,
		PlannedFollowupDate:  l.PlannedFollowupDate,
		LastFollowupDate:     l.LastFollowupDate,
		EnquiryClosureDate:   l.EnquiryClosureDate,
		Source:               l.Source,
		SourceFrom:           l.SourceFrom,
		Events:               l.Events,
		NoOfFollowups:        l.NoOfFollowups,
		Segment:              l.Segment,
		SubSegment:           l.SubSegment,
		DGOwnership:          l.DGOwnership,
		CreatedBy:            l.CreatedBy,
		PANNo:                l.PANNo,
		FinanceRequired:      l.FinanceRequired,
		FinanceCompany:       l.FinanceCompany,
		ReferredBy:           l.ReferredBy,
		QualificationScore:   l.QualificationScore,
		IsQualified:          l.IsQualified,
		QualificationAnswers: l.QualificationAnswers,
		QualifiedAt:          l.QualifiedAt,
		QualifiedBy:          l.QualifiedBy,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

func toDomainLeads(ms []leadModel) []domain.Lead {
	out := make([]domain.Lead, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainLead(m))
	}
	return out
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainLead(m)
	return nil
}

// Save writes every column of l.
func (r *LeadRepository) Save(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainLead(m)
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).Where("lead_id = ?", leadID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLead(m), nil
}

func (r *LeadRepository) GetByEnquiryNo(ctx context.Context, enquiryNo string) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).Where("enquiry_no = ?", enquiryNo).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLead(m), nil
}

// Delete reports whether a row was removed.
func (r *LeadRepository) Delete(ctx context.Context, leadID string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Delete(&leadModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *LeadRepository) DeleteByIDs(ctx context.Context, leadIDs []string) (int64, error) {
	if len(leadIDs) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Where("lead_id IN ?", leadIDs).Delete(&leadModel{})
	return tx.RowsAffected, tx.Error
}

func (r *LeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&leadModel{})
	return tx.RowsAffected, tx.Error
}

// List returns one page of leads matching f and the total match count.
func (r *LeadRepository) List(ctx context.Context, f LeadFilter, offset, limit int) ([]domain.Lead, int64, error) {
	var total int64
	if err := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []leadModel
	tx := f.apply(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Order("lead_id").
		Offset(offset).
		Limit(limit).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return toDomainLeads(ms), total, nil
}

// Find loads up to limit leads ordered by enquiry date, newest first.
// limit <= 0 means no limit.
func (r *LeadRepository) Find(ctx context.Context, f LeadFilter, limit int) ([]domain.Lead, error) {
	q := f.apply(r.db.WithContext(ctx)).Order("enquiry_date DESC").Order("lead_id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ms []leadModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDomainLeads(ms), nil
}

// Recent pages through leads newest enquiry first.
func (r *LeadRepository) Recent(ctx context.Context, f LeadFilter, offset, limit int) ([]domain.Lead, int64, error) {
	var total int64
	if err := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []leadModel
	tx := f.apply(r.db.WithContext(ctx)).
		Order("enquiry_date DESC").
		Order("lead_id").
		Offset(offset).
		Limit(limit).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return toDomainLeads(ms), total, nil
}

func (r *LeadRepository) Count(ctx context.Context, f LeadFilter) (int64, error) {
	var n int64
	err := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).Count(&n).Error
	return n, err
}

// ApplyQualification overwrites the qualification columns of one lead.
func (r *LeadRepository) ApplyQualification(ctx context.Context, leadID string, q QualificationUpdate) error {
	score, qualified := q.Score, q.IsQualified
	// Struct form keeps the json serializer on qualification_answers; Select
	// forces the zero values through so a disqualification clears qualified_at/by.
	tx := r.db.WithContext(ctx).Model(&leadModel{}).
		Where("lead_id = ?", leadID).
		Select("qualification_answers", "qualification_score", "is_qualified", "qualified_at", "qualified_by", "updated_at").
		Updates(&leadModel{
			QualificationAnswers: q.Answers,
			QualificationScore:   &score,
			IsQualified:          &qualified,
			QualifiedAt:          q.QualifiedAt,
			QualifiedBy:          q.QualifiedBy,
			UpdatedAt:            q.UpdatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordFollowup bumps the follow-up counter in a single statement.
func (r *LeadRepository) RecordFollowup(ctx context.Context, leadID, followupDate string, at time.Time) error {
	tx := r.db.WithContext(ctx).Model(&leadModel{}).
		Where("lead_id = ?", leadID).
		Updates(map[string]any{
			"last_followup_date": followupDate,
			"no_of_followups":    gorm.Expr("COALESCE(no_of_followups, 0) + 1"),
			"updated_at":         at,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type QualificationUpdate struct {
	Answers     []domain.QualificationAnswer
	Score       int
	IsQualified bool
	QualifiedAt *time.Time
	QualifiedBy string
	UpdatedAt   time.Time
}
