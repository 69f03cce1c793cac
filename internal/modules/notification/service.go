package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/pkg/leadquery"
	"leadboard/internal/repository"
)

const (
	perLevelLimit = 50
	upcomingDays  = 3
)

var ErrUserNotFound = errors.New("user not found")

// Only Closed-Won and Closed-Lost silence reminders.
var silentStages = []string{domain.StageClosedWon, domain.StageClosedLost}

// Scope restricts reminders to one employee's leads; the zero value sees
// every lead.
type Scope struct {
	EmployeeName string
}

type Service struct {
	leads LeadReader
	users UserReader
	now   func() time.Time
}

func NewService(leads LeadReader, users UserReader) *Service {
	return &Service{leads: leads, users: users, now: time.Now}
}

// ScopeFor limits employees to leads assigned to their own name.
func (s *Service) ScopeFor(ctx context.Context, userID int64, role domain.UserRole) (Scope, error) {
	if role != domain.RoleEmployee {
		return Scope{}, nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return Scope{}, ErrUserNotFound
		}
		return Scope{}, fmt.Errorf("load user: %w", err)
	}
	return Scope{EmployeeName: u.Name}, nil
}

type window struct {
	level Level
	apply func(f *repository.LeadFilter)
}

func (s *Service) windows(today string, now time.Time) []window {
	horizon := now.AddDate(0, 0, upcomingDays).Format(domain.DateLayout)
	return []window{
		{LevelCritical, func(f *repository.LeadFilter) { f.FollowupBefore = today }},
		{LevelWarning, func(f *repository.LeadFilter) { f.FollowupOn = today }},
		{LevelInfo, func(f *repository.LeadFilter) { f.FollowupAfter, f.FollowupUntil = today, horizon }},
	}
}

func (sc Scope) filter() repository.LeadFilter {
	return repository.LeadFilter{EmployeeName: sc.EmployeeName, StagesNotIn: silentStages}
}

// List builds the reminder feed: overdue first (most overdue at the top),
// then today, then the next three days.
func (s *Service) List(ctx context.Context, scope Scope, limit int) (*ListResponse, error) {
	now := s.now().UTC()
	today := leadquery.Today(now)
	todayDate, _ := time.Parse(domain.DateLayout, today)
	stamp := now.Format(time.RFC3339)

	var all []Notification
	for _, w := range s.windows(today, now) {
		f := scope.filter()
		w.apply(&f)
		ls, err := s.leads.Find(ctx, f, perLevelLimit)
		if err != nil {
			return nil, fmt.Errorf("%s reminders: %w", w.level, err)
		}
		for i := range ls {
			all = append(all, build(w.level, &ls[i], todayDate, stamp))
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if levelRank[all[i].Type] != levelRank[all[j].Type] {
			return levelRank[all[i].Type] < levelRank[all[j].Type]
		}
		return all[i].DaysOverdue > all[j].DaysOverdue
	})

	var counts Counts
	for _, n := range all {
		switch n.Type {
		case LevelCritical:
			counts.Critical++
		case LevelWarning:
			counts.Warning++
		case LevelInfo:
			counts.Info++
		}
	}
	counts.Total = int64(len(all))

	if len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []Notification{}
	}
	return &ListResponse{Notifications: all, Counts: counts}, nil
}

func build(level Level, l *domain.Lead, today time.Time, stamp string) Notification {
	name := l.Name
	if name == "" {
		name = "Unknown"
	}
	n := Notification{
		Type:         level,
		LeadID:       l.LeadID,
		LeadName:     l.Name,
		Dealer:       l.Dealer,
		FollowupDate: l.PlannedFollowupDate,
		CreatedAt:    stamp,
	}
	days := 0
	if d, err := time.Parse(domain.DateLayout, l.PlannedFollowupDate); err == nil {
		days = int(d.Sub(today).Hours() / 24)
	}

	switch level {
	case LevelCritical:
		n.ID = "missed_" + l.LeadID
		n.Title = "MISSED FOLLOW-UP"
		n.DaysOverdue = -days
		n.Message = fmt.Sprintf("%s - %d days overdue", name, n.DaysOverdue)
	case LevelWarning:
		n.ID = "today_" + l.LeadID
		n.Title = "Follow-up TODAY"
		n.Message = name + " - Due today"
	default:
		n.ID = "upcoming_" + l.LeadID
		n.Title = "Upcoming Follow-up"
		if days < 1 {
			days = 1
		}
		n.DaysUntil = days
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		n.Message = fmt.Sprintf("%s - In %d %s", name, days, unit)
	}
	return n
}

// Summary counts reminders without loading the leads.
func (s *Service) Summary(ctx context.Context, scope Scope) (Counts, error) {
	now := s.now().UTC()
	today := leadquery.Today(now)

	var c Counts
	dst := map[Level]*int64{LevelCritical: &c.Critical, LevelWarning: &c.Warning, LevelInfo: &c.Info}
	for _, w := range s.windows(today, now) {
		f := scope.filter()
		w.apply(&f)
		n, err := s.leads.Count(ctx, f)
		if err != nil {
			return Counts{}, fmt.Errorf("count %s reminders: %w", w.level, err)
		}
		*dst[w.level] = n
	}
	c.Total = c.Critical + c.Warning + c.Info
	return c, nil
}
