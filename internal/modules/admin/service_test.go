package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, role domain.UserRole, offset, limit int) ([]domain.User, int64, error) {
	args := m.Called(ctx, role, offset, limit)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role domain.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockUserRepo) Counts(ctx context.Context) (repository.UserCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.UserCounts), args.Error(1)
}

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) ListLogs(ctx context.Context, f repository.LogFilter) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

func (m *mockActivityRepo) CountMatching(ctx context.Context, f repository.LogFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockActivityRepo) CountLogs(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type auditLog []*domain.ActivityLog

func (a *auditLog) Record(_ context.Context, e *domain.ActivityLog) { *a = append(*a, e) }

func newTestService(users UserRepository, acts ActivityRepository, audit *auditLog) *Service {
	return NewService(users, acts, nil, nil, audit)
}

func TestService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		admin   int64
		target  int64
		role    domain.UserRole
		repoErr error
		callsDB bool
		wantErr error
	}{
		{name: "promote", admin: 1, target: 2, role: domain.RoleManager, callsDB: true},
		{name: "invalid role", admin: 1, target: 2, role: "Owner", wantErr: ErrInvalidRole},
		{name: "self demotion", admin: 1, target: 1, role: domain.RoleEmployee, wantErr: ErrSelfDemotion},
		{name: "self stays admin", admin: 1, target: 1, role: domain.RoleAdmin, callsDB: true},
		{name: "missing user", admin: 1, target: 9, role: domain.RoleManager, repoErr: gorm.ErrRecordNotFound, callsDB: true, wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserRepo)
			var audit auditLog
			if tt.callsDB {
				users.On("UpdateRole", ctx, tt.target, tt.role).Return(tt.repoErr)
			}
			svc := newTestService(users, nil, &audit)

			err := svc.UpdateRole(ctx, tt.admin, tt.target, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, audit)
			} else {
				require.NoError(t, err)
				require.Len(t, audit, 1)
				assert.Equal(t, "update_role", audit[0].Action)
				assert.Equal(t, string(tt.role), audit[0].Details["new_role"])
			}
			users.AssertExpectations(t)
		})
	}
}

func TestService_UpdateStatus_SelfDeactivation(t *testing.T) {
	users := new(mockUserRepo)
	var audit auditLog
	svc := newTestService(users, nil, &audit)

	err := svc.UpdateStatus(context.Background(), 4, 4, false)
	assert.ErrorIs(t, err, ErrSelfDeactivation)
	users.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ActivityLogs(t *testing.T) {
	ctx := context.Background()
	acts := new(mockActivityRepo)
	svc := newTestService(nil, acts, &auditLog{})

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	base := repository.LogFilter{Action: "login", Since: since, Until: until}
	paged := base
	paged.Offset, paged.Limit = 10, 10

	acts.On("CountMatching", ctx, base).Return(int64(12), nil)
	acts.On("ListLogs", ctx, paged).Return([]domain.ActivityLog{
		{LogID: "log_1", UserID: 3, Action: "login"},
		{LogID: "log_2", UserID: 1, UserName: "Ravi", UserEmail: "ravi@example.com", Action: "login"},
	}, nil)

	resp, err := svc.ActivityLogs(ctx, LogQuery{Action: "login", StartDate: "2025-01-01", EndDate: "2025-01-31"}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Total)
	assert.Equal(t, 2, resp.Pages)
	assert.Equal(t, "Unknown", resp.Logs[0].UserName)
	assert.Equal(t, "Unknown", resp.Logs[0].UserEmail)
	assert.Equal(t, "Ravi", resp.Logs[1].UserName)
	acts.AssertExpectations(t)
}

func TestService_ActivityLogs_BadDate(t *testing.T) {
	svc := newTestService(nil, new(mockActivityRepo), &auditLog{})
	_, err := svc.ActivityLogs(context.Background(), LogQuery{StartDate: "01/02/2025"}, 1, 50)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserRepo)
	acts := new(mockActivityRepo)
	svc := NewService(users, acts, nil, leadCounter(7), &auditLog{})

	users.On("Counts", ctx).Return(repository.UserCounts{
		Total:  3,
		Active: 2,
		ByRole: []repository.RoleCount{{Role: "Admin", Count: 1}, {Role: "Employee", Count: 2}},
	}, nil)
	acts.On("CountLogs", ctx, time.Time{}).Return(int64(40), nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(7), stats.TotalLeads)
	assert.Equal(t, int64(40), stats.TotalActivities)
	assert.Equal(t, []RoleCount{{Role: "Admin", Count: 1}, {Role: "Employee", Count: 2}}, stats.RoleDistribution)
}

func TestService_Stats_CountFailure(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserRepo)
	users.On("Counts", ctx).Return(repository.UserCounts{}, errors.New("db down"))
	svc := NewService(users, nil, nil, leadCounter(0), &auditLog{})

	_, err := svc.Stats(ctx)
	assert.ErrorContains(t, err, "db down")
}

type leadCounter int64

func (n leadCounter) DeleteByIDs(context.Context, []string) (int64, error) { return 0, nil }

func (n leadCounter) Count(context.Context, repository.LeadFilter) (int64, error) {
	return int64(n), nil
}
