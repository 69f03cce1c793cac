package leads

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/pkg/ids"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/pkg/sheet"
	"leadboard/internal/repository"

	"gorm.io/gorm"
)

const (
	MaxListLimit  = 10000
	MaxExportRows = 50000
)

var dropdownFields = []repository.GroupKey{
	repository.GroupByState, repository.GroupByDealer, repository.GroupByEmployee,
	repository.GroupBySegment, repository.GroupByCustomerType, repository.GroupByStatus,
	repository.GroupByType, repository.GroupByStage, repository.GroupBySource,
	repository.GroupByZone, repository.GroupByArea,
}

type Service struct {
	leads LeadRepository
	audit AuditRecorder
	now   func() time.Time
}

func NewService(leads LeadRepository, audit AuditRecorder) *Service {
	return &Service{leads: leads, audit: audit, now: time.Now}
}

func (s *Service) List(ctx context.Context, f repository.LeadFilter, page, limit int) (*ListResponse, error) {
	leads, total, err := s.leads.List(ctx, f, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return &ListResponse{
		Leads: leads,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: leadquery.Pages(total, limit),
	}, nil
}

func (s *Service) Get(ctx context.Context, leadID string) (*domain.Lead, error) {
	l, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// DropdownOptions lists the distinct values of the filterable columns.
func (s *Service) DropdownOptions(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(dropdownFields))
	for _, key := range dropdownFields {
		vals, err := s.leads.Distinct(ctx, key, repository.LeadFilter{})
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", key, err)
		}
		out[string(key)] = CleanOptions(vals)
	}
	return out, nil
}

// CleanOptions drops blank and placeholder values and sorts the rest.
func CleanOptions(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "none", "nan", "null":
			continue
		}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s *Service) Create(ctx context.Context, userID int64, p Patch) (*domain.Lead, error) {
	now := s.now().UTC()
	l := &domain.Lead{LeadID: ids.New("lead"), CreatedAt: now, UpdatedAt: now}
	p.Apply(l)
	l.CreatedBy = strconv.FormatInt(userID, 10)

	if err := s.leads.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "create",
		ResourceType: "lead",
		ResourceID:   l.LeadID,
		Details:      map[string]any{"enquiry_no": l.EnquiryNo},
	})
	s.audit.RecordLead(ctx, &domain.LeadActivity{
		LeadID: l.LeadID,
		UserID: userID,
		Action: "created",
		Notes:  "Lead created",
	})
	return l, nil
}

// Update applies only the supplied columns and records what changed.
func (s *Service) Update(ctx context.Context, userID int64, leadID string, p Patch) (*domain.Lead, error) {
	l, err := s.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}
	oldStatus := l.EnquiryStatus

	changes := p.Apply(l)
	l.UpdatedAt = s.now().UTC()
	if err := s.leads.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("save lead: %w", err)
	}

	fields := p.names()
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "update",
		ResourceType: "lead",
		ResourceID:   leadID,
		Details: map[string]any{
			"old_status":     oldStatus,
			"new_status":     l.EnquiryStatus,
			"fields_updated": fields,
		},
	})
	if len(changes) > 0 {
		s.audit.RecordLead(ctx, &domain.LeadActivity{
			LeadID:       leadID,
			UserID:       userID,
			Action:       "updated",
			FieldChanges: changes,
			Notes:        fmt.Sprintf("Updated %d field(s)", len(changes)),
		})
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, userID int64, leadID string) error {
	ok, err := s.leads.Delete(ctx, leadID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if !ok {
		return ErrLeadNotFound
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "delete",
		ResourceType: "lead",
		ResourceID:   leadID,
	})
	return nil
}

// Export renders matching leads as xlsx or csv and returns the file name.
func (s *Service) Export(ctx context.Context, f repository.LeadFilter, format string) ([]byte, string, error) {
	leads, err := s.leads.Find(ctx, f, MaxExportRows)
	if err != nil {
		return nil, "", fmt.Errorf("find leads: %w", err)
	}
	if len(leads) == 0 {
		return nil, "", ErrNoLeads
	}

	cols := ExportColumns()
	rows := make([][]any, len(leads))
	for i := range leads {
		rows[i] = ExportRow(&leads[i], cols)
	}

	name := "leads_export_" + s.now().Format("20060102_150405")
	if format == "csv" {
		body, err := sheet.CSV(cols, rows)
		return body, name + ".csv", err
	}
	body, err := sheet.XLSX("Leads", cols, rows)
	return body, name + ".xlsx", err
}

// Template is a workbook with the upload headers and two sample rows.
func (s *Service) Template() ([]byte, error) {
	return sheet.XLSX("Lead Template", templateHeader, templateRows)
}
