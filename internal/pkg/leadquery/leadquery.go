// Package leadquery turns dashboard query strings into repository filters.
package leadquery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// Filter reads the shared lead filter parameters. Malformed numbers are ignored.
func Filter(c *gin.Context) repository.LeadFilter {
	f := repository.LeadFilter{
		Search:        strings.TrimSpace(c.Query("search")),
		SearchField:   c.Query("search_field"),
		Zone:          c.Query("zone"),
		State:         c.Query("state"),
		Area:          c.Query("area"),
		Dealer:        c.Query("dealer"),
		Location:      c.Query("location"),
		EmployeeName:  c.Query("employee_name"),
		Segment:       c.Query("segment"),
		EnquiryStatus: c.Query("enquiry_status"),
		EnquiryStage:  c.Query("enquiry_stage"),
		EnquiryType:   c.Query("enquiry_type"),
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
	}
	if v, err := strconv.ParseFloat(c.Query("kva_min"), 64); err == nil {
		f.KVAMin = &v
	}
	if v, err := strconv.ParseFloat(c.Query("kva_max"), 64); err == nil {
		f.KVAMax = &v
	}
	return f
}

// FinancialYear returns the Indian financial year (1 Apr - 31 Mar)
// containing now.
func FinancialYear(now time.Time) (start, end string) {
	year := now.Year()
	if now.Month() < time.April {
		year--
	}
	start = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout)
	end = time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout)
	return start, end
}

// DefaultToFinancialYear fills the date range when either bound is missing.
func DefaultToFinancialYear(f *repository.LeadFilter, now time.Time) {
	if f.StartDate == "" || f.EndDate == "" {
		f.StartDate, f.EndDate = FinancialYear(now)
	}
}

// Page reads page and limit. Out of range values fall back to the defaults.
func Page(c *gin.Context, defLimit, maxLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 || limit > maxLimit {
		limit = defLimit
	}
	return page, limit
}

// Pages is the page count for total rows.
func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Today is the current UTC date in storage format.
func Today(now time.Time) string {
	return now.UTC().Format(domain.DateLayout)
}

// ErrOutOfRange reports a numeric query parameter outside its bounds.
var ErrOutOfRange = errors.New("query parameter out of range")

// Int reads an optional integer parameter bounded to [lo, hi].
func Int(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d: %w", name, lo, hi, ErrOutOfRange)
	}
	return n, nil
}
