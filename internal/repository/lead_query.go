package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// LeadFilter narrows lead queries. Zero-valued fields are ignored.
type LeadFilter struct {
	Search      string
	SearchField string

	Zone          string
	State         string
	Area          string
	Dealer        string
	Location      string
	EmployeeName  string
	Segment       string
	SubSegment    string
	EnquiryStatus string
	EnquiryStage  string
	EnquiryType   string

	KVAMin *float64
	KVAMax *float64

	// Inclusive YYYY-MM-DD bounds on enquiry_date.
	StartDate string
	EndDate   string
	// YYYY-MM prefix of enquiry_date.
	EnquiryMonth string

	StagesIn    []string
	StagesNotIn []string

	// planned_followup_date windows; Before and After are exclusive.
	FollowupBefore string
	FollowupOn     string
	FollowupFrom   string
	FollowupAfter  string
	FollowupUntil  string

	HasKVA       bool
	HasFollowups bool
	LeadIDs      []string
}

// searchColumns lists the columns a free-text search may target.
var searchColumns = map[string]bool{
	"name":           true,
	"corporate_name": true,
	"phone_number":   true,
	"email_address":  true,
	"enquiry_no":     true,
	"dealer":         true,
	"employee_name":  true,
	"state":          true,
	"area":           true,
	"location":       true,
	"city":           true,
	"district":       true,
	"remarks":        true,
}

var defaultSearchColumns = []string{"name", "phone_number", "email_address", "enquiry_no", "dealer", "state", "employee_name"}

// IsSearchColumn reports whether name can be used as a search_field.
func IsSearchColumn(name string) bool { return searchColumns[name] }

func (f LeadFilter) apply(q *gorm.DB) *gorm.DB {
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		if searchColumns[f.SearchField] {
			q = q.Where("LOWER("+f.SearchField+") LIKE ?", like)
		} else {
			parts := make([]string, 0, len(defaultSearchColumns))
			args := make([]any, 0, len(defaultSearchColumns))
			for _, col := range defaultSearchColumns {
				parts = append(parts, "LOWER("+col+") LIKE ?")
				args = append(args, like)
			}
			q = q.Where("("+strings.Join(parts, " OR ")+")", args...)
		}
	}

	eq := []struct {
		col, val string
	}{
		{"zone", f.Zone},
		{"state", f.State},
		{"area", f.Area},
		{"dealer", f.Dealer},
		{"location", f.Location},
		{"employee_name", f.EmployeeName},
		{"segment", f.Segment},
		{"sub_segment", f.SubSegment},
		{"enquiry_status", f.EnquiryStatus},
		{"enquiry_stage", f.EnquiryStage},
		{"enquiry_type", f.EnquiryType},
	}
	for _, c := range eq {
		if c.val != "" {
			q = q.Where(c.col+" = ?", c.val)
		}
	}

	if f.KVAMin != nil {
		q = q.Where("kva >= ?", *f.KVAMin)
	}
	if f.KVAMax != nil {
		q = q.Where("kva <= ?", *f.KVAMax)
	}
	if f.HasKVA {
		q = q.Where("kva IS NOT NULL")
	}
	if f.HasFollowups {
		q = q.Where("no_of_followups IS NOT NULL")
	}

	if f.StartDate != "" {
		q = q.Where("enquiry_date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("enquiry_date <> '' AND enquiry_date <= ?", f.EndDate)
	}
	if f.EnquiryMonth != "" {
		q = q.Where("enquiry_date LIKE ?", f.EnquiryMonth+"-%")
	}

	if len(f.StagesIn) > 0 {
		q = q.Where("enquiry_stage IN ?", f.StagesIn)
	}
	if len(f.StagesNotIn) > 0 {
		q = q.Where("enquiry_stage NOT IN ?", f.StagesNotIn)
	}

	if f.FollowupBefore != "" {
		q = q.Where("planned_followup_date <> '' AND planned_followup_date < ?", f.FollowupBefore)
	}
	if f.FollowupOn != "" {
		q = q.Where("planned_followup_date = ?", f.FollowupOn)
	}
	if f.FollowupFrom != "" {
		q = q.Where("planned_followup_date >= ?", f.FollowupFrom)
	}
	if f.FollowupAfter != "" {
		q = q.Where("planned_followup_date > ?", f.FollowupAfter)
	}
	if f.FollowupUntil != "" {
		q = q.Where("planned_followup_date <= ?", f.FollowupUntil)
	}

	if len(f.LeadIDs) > 0 {
		q = q.Where("lead_id IN ?", f.LeadIDs)
	}
	return q
}

// GroupKey names the expression leads are bucketed by.
type GroupKey string

const (
	GroupByZone          GroupKey = "zone"
	GroupByState         GroupKey = "state"
	GroupByArea          GroupKey = "area"
	GroupByDealer        GroupKey = "dealer"
	GroupByLocation      GroupKey = "location"
	GroupByEmployee      GroupKey = "employee_name"
	GroupBySegment       GroupKey = "segment"
	GroupBySubSegment    GroupKey = "sub_segment"
	GroupByStage         GroupKey = "enquiry_stage"
	GroupByStatus        GroupKey = "enquiry_status"
	GroupByType          GroupKey = "enquiry_type"
	GroupBySource        GroupKey = "source"
	GroupByCustomerType  GroupKey = "customer_type"
	GroupByMonth         GroupKey = "month"
	GroupByFollowupCount GroupKey = "no_of_followups"
)

var groupExpr = map[GroupKey]string{
	GroupByZone:          "zone",
	GroupByState:         "state",
	GroupByArea:          "area",
	GroupByDealer:        "dealer",
	GroupByLocation:      "location",
	GroupByEmployee:      "employee_name",
	GroupBySegment:       "segment",
	GroupBySubSegment:    "sub_segment",
	GroupByStage:         "enquiry_stage",
	GroupByStatus:        "enquiry_status",
	GroupByType:          "enquiry_type",
	GroupBySource:        "source",
	GroupByCustomerType:  "customer_type",
	GroupByMonth:         "SUBSTR(enquiry_date, 1, 7)",
	GroupByFollowupCount: "CAST(no_of_followups AS TEXT)",
}

// ParseGroupKey accepts the plain column names of GroupKey.
func ParseGroupKey(name string) (GroupKey, bool) {
	k := GroupKey(name)
	_, ok := groupExpr[k]
	return k, ok
}

type Bucket struct {
	Key   string `gorm:"column:bucket"`
	Count int64  `gorm:"column:cnt"`
}

// GroupStats is one row of a pipeline breakdown.
type GroupStats struct {
	Key      string  `gorm:"column:bucket"`
	Total    int64   `gorm:"column:total"`
	Won      int64   `gorm:"column:won"`
	Lost     int64   `gorm:"column:lost"`
	Hot      int64   `gorm:"column:hot"`
	Open     int64   `gorm:"column:open"`
	TotalKVA float64 `gorm:"column:total_kva"`
	AvgKVA   float64 `gorm:"column:avg_kva"`
}

// StageSets decides which stages GroupStats counts as won, lost and open.
type StageSets struct {
	Won  []string
	Lost []string
	Open []string
}

// GroupCount counts leads per bucket, largest first. Empty keys are kept.
func (r *LeadRepository) GroupCount(ctx context.Context, key GroupKey, f LeadFilter) ([]Bucket, error) {
	expr := groupExpr[key]
	if expr == "" {
		expr = string(GroupByStage)
	}
	var out []Bucket
	tx := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).
		Select("COALESCE(" + expr + ", '') AS bucket, COUNT(*) AS cnt").
		Group(expr).
		Order("cnt DESC").
		Order("bucket").
		Scan(&out)
	return out, tx.Error
}

// GroupStats returns per-bucket totals ordered by bucket key.
func (r *LeadRepository) GroupStats(ctx context.Context, key GroupKey, f LeadFilter, sets StageSets) ([]GroupStats, error) {
	expr := groupExpr[key]
	if expr == "" {
		expr = string(GroupByStage)
	}
	sel := "COALESCE(" + expr + ", '') AS bucket, COUNT(*) AS total, " +
		stageSum(sets.Won, "won") + ", " +
		stageSum(sets.Lost, "lost") + ", " +
		stageSum(sets.Open, "open") + ", " +
		"SUM(CASE WHEN enquiry_type = 'Hot' THEN 1 ELSE 0 END) AS hot, " +
		"COALESCE(SUM(kva), 0) AS total_kva, " +
		"COALESCE(AVG(kva), 0) AS avg_kva"

	args := make([]any, 0, 3)
	for _, s := range [][]string{sets.Won, sets.Lost, sets.Open} {
		if len(s) > 0 {
			args = append(args, s)
		}
	}

	var out []GroupStats
	tx := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).
		Select(sel, args...).
		Group(expr).
		Order("bucket").
		Scan(&out)
	return out, tx.Error
}

func stageSum(stages []string, alias string) string {
	if len(stages) == 0 {
		return "0 AS " + alias
	}
	return "SUM(CASE WHEN enquiry_stage IN ? THEN 1 ELSE 0 END) AS " + alias
}

// Distinct lists the non-empty values of a grouping column, sorted.
func (r *LeadRepository) Distinct(ctx context.Context, key GroupKey, f LeadFilter) ([]string, error) {
	expr := groupExpr[key]
	if expr == "" {
		return nil, nil
	}
	var out []string
	tx := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).
		Where(expr+" IS NOT NULL AND "+expr+" <> ''").
		Select(expr + " AS v").
		Group(expr).
		Order("v").
		Scan(&out)
	return out, tx.Error
}

type KVAStats struct {
	Count int64   `gorm:"column:cnt"`
	Total float64 `gorm:"column:total"`
	Avg   float64 `gorm:"column:avg"`
}

// KVAStats aggregates kva over leads that have one.
func (r *LeadRepository) KVAStats(ctx context.Context, f LeadFilter) (KVAStats, error) {
	var out KVAStats
	tx := f.apply(r.db.WithContext(ctx).Model(&leadModel{})).
		Where("kva IS NOT NULL").
		Select("COUNT(*) AS cnt, COALESCE(SUM(kva), 0) AS total, COALESCE(AVG(kva), 0) AS avg").
		Scan(&out)
	return out, tx.Error
}
