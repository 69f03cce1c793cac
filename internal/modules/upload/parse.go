package upload

import (
	"math"
	"strconv"
	"strings"
	"time"

	"leadboard/internal/domain"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"2006/1/2",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2-January-2006",
	"1/2/2006",
	"1-2-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Excel serials between 1900-01-01 and 9999-12-31.
const maxExcelSerial = 2958465

// clean trims v and treats blanks and NaN placeholders as missing.
func clean(v string) (string, bool) {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "nan", "none", "null":
		return "", false
	}
	return v, true
}

// ParseDate normalises a cell to YYYY-MM-DD. Unparsable input yields "".
func ParseDate(raw string) string {
	v, ok := clean(raw)
	if !ok {
		return ""
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f < 1 || f > maxExcelSerial {
			return ""
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return ""
		}
		return t.Format(domain.DateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return ""
}

func parseFloat(raw string) *float64 {
	v, ok := clean(raw)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt accepts "3" and "3.0"; fractions are truncated.
func parseInt(raw string) *int {
	f := parseFloat(raw)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// cellValue coerces a raw cell for the column kind.
func cellValue(kind domain.ColumnKind, raw string) any {
	switch kind {
	case domain.KindDate:
		return ParseDate(raw)
	case domain.KindFloat:
		return parseFloat(raw)
	case domain.KindInt:
		return parseInt(raw)
	}
	v, _ := clean(raw)
	return v
}
