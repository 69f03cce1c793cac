package repository

import (
	"context"
	"testing"
	"time"

	"leadboard/internal/database"
	"leadboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func kva(v float64) *float64 { return &v }

func seedLeads(t *testing.T, repo *LeadRepository, leads ...domain.Lead) {
	t.Helper()
	for i := range leads {
		require.NoError(t, repo.Create(context.Background(), &leads[i]))
	}
}

func TestLeadRepository_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(newTestDB(t))

	l := domain.Lead{LeadID: "lead_000000000001", Name: "Acme", EnquiryNo: "ENQ-1", KVA: kva(62.5)}
	require.NoError(t, repo.Create(ctx, &l))

	got, err := repo.GetByEnquiryNo(ctx, "ENQ-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	require.NotNil(t, got.KVA)
	assert.InDelta(t, 62.5, *got.KVA, 0.0001)

	got.Dealer = "North Power"
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.GetByID(ctx, l.LeadID)
	require.NoError(t, err)
	assert.Equal(t, "North Power", again.Dealer)

	ok, err := repo.Delete(ctx, l.LeadID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.GetByID(ctx, l.LeadID)
	assert.True(t, IsNotFound(err))

	ok, err = repo.Delete(ctx, l.LeadID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeadRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(newTestDB(t))
	seedLeads(t, repo,
		domain.Lead{LeadID: "lead_a", Name: "Alpha Corp", State: "Kerala", EnquiryDate: "2024-04-10", EnquiryStage: "Prospecting", KVA: kva(10)},
		domain.Lead{LeadID: "lead_b", Name: "Beta Ltd", State: "Kerala", EnquiryDate: "2024-05-01", EnquiryStage: "Closed-Won", KVA: kva(100)},
		domain.Lead{LeadID: "lead_c", Name: "Gamma", State: "Goa", EnquiryDate: "2024-06-20", EnquiryStage: "Closed-Lost"},
	)

	leads, total, err := repo.List(ctx, LeadFilter{State: "Kerala"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, leads, 2)

	_, total, err = repo.List(ctx, LeadFilter{Search: "beta"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, LeadFilter{Search: "GOA", SearchField: "state"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, LeadFilter{KVAMin: kva(50)}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, LeadFilter{StartDate: "2024-05-01", EndDate: "2024-06-30"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, LeadFilter{StagesNotIn: domain.ClosedStages}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	page, total, err := repo.List(ctx, LeadFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestLeadRepository_GroupStats(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(newTestDB(t))
	seedLeads(t, repo,
		domain.Lead{LeadID: "lead_1", Dealer: "D1", EnquiryDate: "2024-04-10", EnquiryStage: "Closed-Won", EnquiryType: "Hot", KVA: kva(20)},
		domain.Lead{LeadID: "lead_2", Dealer: "D1", EnquiryDate: "2024-04-11", EnquiryStage: "Closed-Lost", KVA: kva(40)},
		domain.Lead{LeadID: "lead_3", Dealer: "D2", EnquiryDate: "2024-05-02", EnquiryStage: "Prospecting"},
	)

	rows, err := repo.GroupStats(ctx, GroupByDealer, LeadFilter{}, StageSets{
		Won:  domain.WonStages,
		Lost: domain.LostStages,
		Open: domain.OpenStages,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "D1", rows[0].Key)
	assert.Equal(t, int64(2), rows[0].Total)
	assert.Equal(t, int64(1), rows[0].Won)
	assert.Equal(t, int64(1), rows[0].Lost)
	assert.Equal(t, int64(1), rows[0].Hot)
	assert.InDelta(t, 60.0, rows[0].TotalKVA, 0.001)
	assert.InDelta(t, 30.0, rows[0].AvgKVA, 0.001)

	assert.Equal(t, "D2", rows[1].Key)
	assert.Equal(t, int64(1), rows[1].Open)

	months, err := repo.GroupCount(ctx, GroupByMonth, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2024-04", months[0].Key)
	assert.Equal(t, int64(2), months[0].Count)

	dealers, err := repo.Distinct(ctx, GroupByDealer, LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"D1", "D2"}, dealers)

	stats, err := repo.KVAStats(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 30.0, stats.Avg, 0.001)
}

func TestLeadRepository_QualificationAndFollowup(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(newTestDB(t))
	seedLeads(t, repo, domain.Lead{LeadID: "lead_q"})

	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	err := repo.ApplyQualification(ctx, "lead_q", QualificationUpdate{
		Answers:     []domain.QualificationAnswer{{QuestionID: "q1", OptionID: "o1", Score: 5}},
		Score:       5,
		IsQualified: true,
		QualifiedAt: &now,
		QualifiedBy: "7",
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "lead_q")
	require.NoError(t, err)
	require.NotNil(t, got.QualificationScore)
	assert.Equal(t, 5, *got.QualificationScore)
	require.NotNil(t, got.IsQualified)
	assert.True(t, *got.IsQualified)
	require.Len(t, got.QualificationAnswers, 1)
	assert.Equal(t, "o1", got.QualificationAnswers[0].OptionID)

	require.NoError(t, repo.RecordFollowup(ctx, "lead_q", "2024-07-02", now))
	require.NoError(t, repo.RecordFollowup(ctx, "lead_q", "2024-07-03", now))
	got, err = repo.GetByID(ctx, "lead_q")
	require.NoError(t, err)
	require.NotNil(t, got.NoOfFollowups)
	assert.Equal(t, 2, *got.NoOfFollowups)
	assert.Equal(t, "2024-07-03", got.LastFollowupDate)

	assert.True(t, IsNotFound(repo.RecordFollowup(ctx, "missing", "2024-07-03", now)))
}

func TestUserRepository_UniqueAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := &domain.User{Email: "Admin@Example.com", Name: "Admin", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := &domain.User{Email: "admin@example.com", Role: domain.RoleEmployee}
	assert.True(t, IsUniqueViolation(repo.Create(ctx, dup)))

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "e@example.com", Role: domain.RoleEmployee}))
	require.NoError(t, repo.UpdateStatus(ctx, u.ID, false))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(0), counts.Active)
	assert.Len(t, counts.ByRole, 2)

	got, err := repo.GetByEmail(ctx, " ADMIN@example.com ")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestActivityRepository_LogsJoinUsers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewActivityRepository(db)

	u := &domain.User{Email: "m@example.com", Name: "Mira", Role: domain.RoleManager, IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateLog(ctx, &domain.ActivityLog{LogID: "l1", UserID: u.ID, Action: "lead_created", ResourceType: "lead", ResourceID: "lead_1", CreatedAt: base}))
	require.NoError(t, repo.CreateLog(ctx, &domain.ActivityLog{LogID: "l2", UserID: u.ID, Action: "login", ResourceType: "user", CreatedAt: base.Add(time.Hour)}))

	logs, err := repo.ListLogs(ctx, LogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "l2", logs[0].LogID)
	assert.Equal(t, "Mira", logs[0].UserName)
	assert.Equal(t, "m@example.com", logs[0].UserEmail)

	logs, err = repo.ListLogs(ctx, LogFilter{ResourceType: "lead", ResourceIDs: []string{"lead_1"}})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	require.NoError(t, repo.CreateLeadActivity(ctx, &domain.LeadActivity{
		ActivityID:   "a1",
		LeadID:       "lead_1",
		UserID:       u.ID,
		Action:       "updated",
		FieldChanges: map[string]domain.FieldChange{"dealer": {Old: "A", New: "B"}},
		CreatedAt:    base,
	}))
	acts, err := repo.ListLeadActivities(ctx, "lead_1", 0)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Mira", acts[0].UserName)
	assert.Equal(t, "B", acts[0].FieldChanges["dealer"].New)
}

func TestMetricAndQualificationRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	metrics := NewMetricRepository(db)
	quals := NewQualificationRepository(db)

	require.NoError(t, metrics.CreateMany(ctx, []domain.MetricConfig{
		{MetricID: "b", DashboardOrder: 2, FieldValues: []string{"x"}},
		{MetricID: "a", DashboardOrder: 1, FilterStages: []string{"Closed-Won"}},
	}))
	assert.True(t, IsUniqueViolation(metrics.Create(ctx, &domain.MetricConfig{MetricID: "a"})))

	list, err := metrics.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].MetricID)
	assert.Equal(t, []string{"Closed-Won"}, list[0].FilterStages)

	_, err = quals.GetSettings(ctx)
	assert.True(t, IsNotFound(err))
	require.NoError(t, quals.SaveSettings(ctx, &domain.QualificationSettings{ThresholdScore: 12}))
	require.NoError(t, quals.SaveSettings(ctx, &domain.QualificationSettings{ThresholdScore: 15}))
	s, err := quals.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, s.ThresholdScore)

	require.NoError(t, quals.CreateQuestion(ctx, &domain.QualificationQuestion{
		QuestionID: "q1", Question: "Budget?", Order: 1, IsActive: true,
		Options: []domain.AnswerOption{{OptionID: "o1", Text: "Yes", Score: 5}},
	}))
	require.NoError(t, quals.CreateQuestion(ctx, &domain.QualificationQuestion{QuestionID: "q2", Order: 0}))

	active, err := quals.ListQuestions(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 5, active[0].Options[0].Score)
}

func TestLeadRepository_QualificationRewriteAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(newTestDB(t))
	seedLeads(t, repo, domain.Lead{LeadID: "lead_r"})

	at := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	answers := []domain.QualificationAnswer{
		{QuestionID: "q1", OptionID: "o1", Score: 3, AnsweredAt: at, AnsweredBy: "7"},
		{QuestionID: "q2", OptionID: "o4", Score: 4, AnsweredAt: at, AnsweredBy: "7"},
	}
	update := QualificationUpdate{Answers: answers, Score: 7, IsQualified: true, QualifiedAt: &at, QualifiedBy: "7", UpdatedAt: at}

	// Same answers twice leave the stored score unchanged.
	require.NoError(t, repo.ApplyQualification(ctx, "lead_r", update))
	require.NoError(t, repo.ApplyQualification(ctx, "lead_r", update))

	got, err := repo.GetByID(ctx, "lead_r")
	require.NoError(t, err)
	require.NotNil(t, got.QualificationScore)
	assert.Equal(t, 7, *got.QualificationScore)
	require.NotNil(t, got.IsQualified)
	assert.True(t, *got.IsQualified)
	require.Len(t, got.QualificationAnswers, 2)
	assert.Equal(t, "q2", got.QualificationAnswers[1].QuestionID)
	assert.Equal(t, 4, got.QualificationAnswers[1].Score)
	assert.Equal(t, "7", got.QualificationAnswers[0].AnsweredBy)
	assert.True(t, at.Equal(got.QualificationAnswers[0].AnsweredAt))
	require.NotNil(t, got.QualifiedAt)
	assert.Equal(t, "7", got.QualifiedBy)

	require.NoError(t, repo.ApplyQualification(ctx, "lead_r", QualificationUpdate{
		Answers:     answers[:1],
		Score:       3,
		IsQualified: false,
		UpdatedAt:   at.Add(time.Hour),
	}))
	got, err = repo.GetByID(ctx, "lead_r")
	require.NoError(t, err)
	require.NotNil(t, got.IsQualified)
	assert.False(t, *got.IsQualified)
	assert.Equal(t, 3, *got.QualificationScore)
	assert.Nil(t, got.QualifiedAt)
	assert.Empty(t, got.QualifiedBy)
	assert.Len(t, got.QualificationAnswers, 1)

	assert.True(t, IsNotFound(repo.ApplyQualification(ctx, "missing", update)))
}

func TestActivityRepository_RowsCarryModelColumns(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewActivityRepository(db)

	u := &domain.User{Email: "r@example.com", Name: "Rui", Role: domain.RoleEmployee, IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	base := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.CreateLeadActivity(ctx, &domain.LeadActivity{
		ActivityID:   "act_1",
		LeadID:       "lead_9",
		UserID:       u.ID,
		Action:       "status_changed",
		FieldChanges: map[string]domain.FieldChange{"lead_status": {Old: "Open", New: "Won"}},
		Notes:        "closed over phone",
		CreatedAt:    base,
	}))
	acts, err := repo.ListLeadActivities(ctx, "lead_9", 0)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "act_1", acts[0].ActivityID)
	assert.Equal(t, "lead_9", acts[0].LeadID)
	assert.Equal(t, u.ID, acts[0].UserID)
	assert.Equal(t, "status_changed", acts[0].Action)
	assert.Equal(t, "closed over phone", acts[0].Notes)
	assert.Equal(t, "Open", acts[0].FieldChanges["lead_status"].Old)
	assert.True(t, base.Equal(acts[0].CreatedAt))

	require.NoError(t, repo.CreateLog(ctx, &domain.ActivityLog{
		LogID:        "log_1",
		UserID:       u.ID,
		Action:       "lead_deleted",
		ResourceType: "lead",
		ResourceID:   "lead_9",
		Details:      map[string]any{"enquiry_no": "ENQ-9"},
		IPAddress:    "10.0.0.4",
		CreatedAt:    base,
	}))
	logs, err := repo.ListLogs(ctx, LogFilter{Limit: 5})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "log_1", logs[0].LogID)
	assert.Equal(t, "lead_deleted", logs[0].Action)
	assert.Equal(t, "lead", logs[0].ResourceType)
	assert.Equal(t, "lead_9", logs[0].ResourceID)
	assert.Equal(t, "ENQ-9", logs[0].Details["enquiry_no"])
	assert.Equal(t, "10.0.0.4", logs[0].IPAddress)
	assert.True(t, base.Equal(logs[0].CreatedAt))
	assert.Equal(t, "Rui", logs[0].UserName)
}

func TestFollowupRepository_ListByLead(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewFollowupRepository(db)

	u := &domain.User{Email: "f@example.com", Name: "Fen", Role: domain.RoleEmployee, IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	base := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &domain.FollowUp{FollowupID: "fu_1", LeadID: "lead_f", UserID: u.ID, FollowupDate: "2024-04-01", Notes: "called", Outcome: "interested", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.FollowUp{FollowupID: "fu_2", LeadID: "lead_f", UserID: u.ID, FollowupDate: "2024-04-08", Notes: "demo booked", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.FollowUp{FollowupID: "fu_x", LeadID: "other", UserID: u.ID, FollowupDate: "2024-04-09", CreatedAt: base}))

	got, err := repo.ListByLead(ctx, "lead_f")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fu_2", got[0].FollowupID)
	assert.Equal(t, "2024-04-08", got[0].FollowupDate)
	assert.Equal(t, "demo booked", got[0].Notes)
	assert.Equal(t, "Fen", got[0].UserName)
	assert.Equal(t, "fu_1", got[1].FollowupID)
	assert.Equal(t, "interested", got[1].Outcome)
	assert.Equal(t, "lead_f", got[1].LeadID)
	assert.True(t, base.Equal(got[1].CreatedAt))
}
