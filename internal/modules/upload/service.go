package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/pkg/ids"
	"leadboard/internal/pkg/sheet"
	"leadboard/internal/telemetry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MaxFileSize     = 50 * 1024 * 1024
	maxReportedErrs = 10
)

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type Result struct {
	Success     bool       `json:"success"`
	Created     int        `json:"created"`
	Updated     int        `json:"updated"`
	Deleted     int64      `json:"deleted,omitempty"`
	Errors      []RowError `json:"errors"`
	TotalErrors int        `json:"total_errors"`
	Message     string     `json:"message"`
}

type Service struct {
	leads   LeadRepository
	audit   AuditRecorder
	metrics *telemetry.Collector
	log     *zap.Logger
	now     func() time.Time
}

func NewService(leads LeadRepository, audit AuditRecorder, metrics *telemetry.Collector, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{leads: leads, audit: audit, metrics: metrics, log: log, now: time.Now}
}

// Import reads an xlsx workbook and upserts its rows by enquiry number.
// With replace set every existing lead is deleted first.
func (s *Service) Import(ctx context.Context, userID int64, filename string, r io.Reader, replace bool) (*Result, error) {
	header, rows, err := sheet.ReadXLSX(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	cols := mapColumns(header)

	res := &Result{Success: true, Errors: []RowError{}}
	if replace {
		n, err := s.leads.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear leads: %w", err)
		}
		res.Deleted = n
	}

	var errs []RowError
	for i, row := range rows {
		values := rowValues(cols, row)
		if len(values) == 0 {
			continue
		}
		created, err := s.upsert(ctx, values)
		if err != nil {
			rowNo := i + 2
			s.log.Warn("lead import row failed", zap.Int("row", rowNo), zap.Error(err))
			errs = append(errs, RowError{Row: rowNo, Error: err.Error()})
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	res.TotalErrors = len(errs)
	if len(errs) > maxReportedErrs {
		errs = errs[:maxReportedErrs]
	}
	if errs != nil {
		res.Errors = errs
	}
	res.Message = fmt.Sprintf("Successfully processed: %d created, %d updated", res.Created, res.Updated)
	s.metrics.LeadsImported(res.Created, res.Updated, res.TotalErrors)

	details := map[string]any{
		"filename": filename,
		"created":  res.Created,
		"updated":  res.Updated,
		"errors":   res.TotalErrors,
	}
	if replace {
		details["mode"] = "replace"
		details["deleted"] = res.Deleted
	}
	s.audit.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "bulk_upload",
		ResourceType: "lead",
		Details:      details,
	})
	s.log.Info("leads imported",
		zap.String("file", filename),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("errors", res.TotalErrors),
	)
	return res, nil
}

// rowValues coerces the mapped cells of one row. A row whose mapped
// cells are all blank yields nil.
func rowValues(cols []string, row []string) map[string]any {
	values := make(map[string]any, len(cols))
	blank := true
	for i, col := range cols {
		if col == "" || i >= len(row) {
			continue
		}
		if _, ok := clean(row[i]); ok {
			blank = false
		}
		kind, _ := domain.ColumnKindOf(col)
		values[col] = cellValue(kind, row[i])
	}
	if blank {
		return nil
	}
	return values
}

func (s *Service) upsert(ctx context.Context, values map[string]any) (bool, error) {
	now := s.now().UTC()
	enquiryNo, _ := values["enquiry_no"].(string)

	if enquiryNo != "" {
		existing, err := s.leads.GetByEnquiryNo(ctx, enquiryNo)
		switch {
		case err == nil:
			apply(existing, values)
			existing.UpdatedAt = now
			if err := s.leads.Save(ctx, existing); err != nil {
				return false, err
			}
			return false, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return false, err
		}
	}

	l := &domain.Lead{LeadID: ids.New("lead"), CreatedAt: now, UpdatedAt: now}
	apply(l, values)
	if err := s.leads.Create(ctx, l); err != nil {
		return false, err
	}
	return true, nil
}

func apply(l *domain.Lead, values map[string]any) {
	for col, v := range values {
		l.Set(col, v)
	}
}

// IsWorkbookName reports whether filename has the .xlsx extension.
func IsWorkbookName(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}
