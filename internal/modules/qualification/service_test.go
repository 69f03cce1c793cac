package qualification

import (
	"context"
	"testing"

	"leadboard/internal/domain"
	"leadboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockQuestionRepo struct {
	mock.Mock
}

func (m *mockQuestionRepo) ListQuestions(ctx context.Context, activeOnly bool) ([]domain.QualificationQuestion, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QualificationQuestion), args.Error(1)
}

func (m *mockQuestionRepo) GetQuestion(ctx context.Context, id string) (*domain.QualificationQuestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QualificationQuestion), args.Error(1)
}

func (m *mockQuestionRepo) CreateQuestion(ctx context.Context, q *domain.QualificationQuestion) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionRepo) SaveQuestion(ctx context.Context, q *domain.QualificationQuestion) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionRepo) GetSettings(ctx context.Context) (*domain.QualificationSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QualificationSettings), args.Error(1)
}

func (m *mockQuestionRepo) SaveSettings(ctx context.Context, s *domain.QualificationSettings) error {
	return m.Called(ctx, s).Error(0)
}

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) GetByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *mockLeadRepo) ApplyQualification(ctx context.Context, leadID string, q repository.QualificationUpdate) error {
	return m.Called(ctx, leadID, q).Error(0)
}

type recorder struct {
	leads []domain.LeadActivity
	logs  []domain.ActivityLog
}

func (r *recorder) RecordLead(_ context.Context, a *domain.LeadActivity) { r.leads = append(r.leads, *a) }
func (r *recorder) Record(_ context.Context, e *domain.ActivityLog)      { r.logs = append(r.logs, *e) }

func catalog() []domain.QualificationQuestion {
	return []domain.QualificationQuestion{yesNo("budget", 10), yesNo("timeline", 5)}
}

func TestService_QualifyReachesThreshold(t *testing.T) {
	ctx := context.Background()
	qs := new(mockQuestionRepo)
	leads := new(mockLeadRepo)
	rec := &recorder{}
	svc := NewService(qs, leads, rec, nil)

	leads.On("GetByID", ctx, "lead_1").Return(&domain.Lead{LeadID: "lead_1"}, nil)
	qs.On("ListQuestions", ctx, true).Return(catalog(), nil)
	qs.On("GetSettings", ctx).Return(&domain.QualificationSettings{ThresholdScore: 15}, nil)
	leads.On("ApplyQualification", ctx, "lead_1", mock.MatchedBy(func(u repository.QualificationUpdate) bool {
		return u.Score == 15 && u.IsQualified && u.QualifiedAt != nil && u.QualifiedBy == "7" && len(u.Answers) == 2
	})).Return(nil)

	res, err := svc.Qualify(ctx, "lead_1", 7, []Answer{
		{QuestionID: "budget", OptionID: "budget_yes"},
		{QuestionID: "timeline", OptionID: "timeline_yes"},
		{QuestionID: "ghost", OptionID: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, 15, res.TotalScore)
	assert.True(t, res.IsQualified)
	assert.Equal(t, domain.StatusQualified, res.Status)
	assert.Len(t, res.Answers, 2)
	assert.Len(t, res.Outcomes, 3)

	require.Len(t, rec.leads, 1)
	assert.Equal(t, "qualified", rec.leads[0].Action)
	assert.Equal(t, "Score: 15/15 - Qualified", rec.leads[0].Notes)
	assert.Equal(t, 0, rec.leads[0].FieldChanges["qualification_score"].Old)
	assert.Equal(t, 15, rec.leads[0].FieldChanges["qualification_score"].New)
	leads.AssertExpectations(t)
}

func TestService_QualifyBelowThresholdClearsQualifiedAt(t *testing.T) {
	ctx := context.Background()
	qs := new(mockQuestionRepo)
	leads := new(mockLeadRepo)
	rec := &recorder{}
	svc := NewService(qs, leads, rec, nil)

	prev, yes := 15, true
	leads.On("GetByID", ctx, "lead_1").Return(&domain.Lead{LeadID: "lead_1", QualificationScore: &prev, IsQualified: &yes}, nil)
	qs.On("ListQuestions", ctx, true).Return(catalog(), nil)
	qs.On("GetSettings", ctx).Return(&domain.QualificationSettings{ThresholdScore: 12}, nil)
	leads.On("ApplyQualification", ctx, "lead_1", mock.MatchedBy(func(u repository.QualificationUpdate) bool {
		return u.Score == 5 && !u.IsQualified && u.QualifiedAt == nil && u.QualifiedBy == ""
	})).Return(nil)

	res, err := svc.Qualify(ctx, "lead_1", 7, []Answer{
		{QuestionID: "budget", OptionID: "budget_no"},
		{QuestionID: "timeline", OptionID: "timeline_yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFaulty, res.Status)
	require.Len(t, rec.leads, 1)
	assert.Equal(t, "qualification_updated", rec.leads[0].Action)
	assert.Equal(t, "Score: 5/12 - Faulty", rec.leads[0].Notes)
	assert.Equal(t, true, rec.leads[0].FieldChanges["is_qualified"].Old)
	assert.Equal(t, false, rec.leads[0].FieldChanges["is_qualified"].New)
}

func TestService_QualifyMissingLead(t *testing.T) {
	ctx := context.Background()
	leads := new(mockLeadRepo)
	svc := NewService(new(mockQuestionRepo), leads, &recorder{}, nil)

	leads.On("GetByID", ctx, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Qualify(ctx, "nope", 1, nil)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestService_SettingsDefaultToZero(t *testing.T) {
	ctx := context.Background()
	qs := new(mockQuestionRepo)
	svc := NewService(qs, new(mockLeadRepo), &recorder{}, nil)

	qs.On("GetSettings", ctx).Return(nil, gorm.ErrRecordNotFound)

	st, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.ThresholdScore)
	assert.Equal(t, domain.QualificationSettingsID, st.SettingsID)
}

func TestService_UpdateQuestionKeepsOptionIDs(t *testing.T) {
	ctx := context.Background()
	qs := new(mockQuestionRepo)
	rec := &recorder{}
	svc := NewService(qs, new(mockLeadRepo), rec, nil)

	q := yesNo("budget", 10)
	qs.On("GetQuestion", ctx, "budget").Return(&q, nil)
	qs.On("SaveQuestion", ctx, mock.Anything).Return(nil)

	opts := []OptionInput{{OptionID: "budget_yes", Text: "Yes", Score: 20}, {Text: "Maybe", Score: 5}}
	out, err := svc.UpdateQuestion(ctx, 1, "budget", UpdateQuestionRequest{Options: &opts})
	require.NoError(t, err)
	require.Len(t, out.Options, 2)
	assert.Equal(t, "budget_yes", out.Options[0].OptionID)
	assert.Equal(t, 20, out.Options[0].Score)
	assert.Contains(t, out.Options[1].OptionID, "opt_")
	assert.Len(t, rec.logs, 1)
}

func TestService_DeleteQuestionIsSoft(t *testing.T) {
	ctx := context.Background()
	qs := new(mockQuestionRepo)
	svc := NewService(qs, new(mockLeadRepo), &recorder{}, nil)

	q := yesNo("budget", 10)
	qs.On("GetQuestion", ctx, "budget").Return(&q, nil)
	qs.On("SaveQuestion", ctx, mock.MatchedBy(func(q *domain.QualificationQuestion) bool { return !q.IsActive })).Return(nil)
	qs.On("GetQuestion", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

	require.NoError(t, svc.DeleteQuestion(ctx, 1, "budget"))
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, 1, "ghost"), ErrQuestionNotFound)
	qs.AssertExpectations(t)
}
