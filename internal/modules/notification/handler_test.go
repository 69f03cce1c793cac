package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadboard/internal/database"
	"leadboard/internal/domain"
	"leadboard/internal/repository"
	"leadboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(domain.DateLayout)
}

func seed(t *testing.T) (*gorm.DB, *Service, int64) {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	ctx := context.Background()
	leads := repository.NewLeadRepository(db)
	for _, l := range []domain.Lead{
		{LeadID: "l1", Name: "Kumar", EmployeeName: "Asha", PlannedFollowupDate: day(-5), EnquiryStage: "Prospecting"},
		{LeadID: "l2", Name: "Singh", EmployeeName: "Ravi", PlannedFollowupDate: day(-2), EnquiryStage: "Negotiation"},
		{LeadID: "l3", Name: "Das", EmployeeName: "Asha", PlannedFollowupDate: day(0), EnquiryStage: "Qualified"},
		{LeadID: "l4", EmployeeName: "Asha", PlannedFollowupDate: day(2), EnquiryStage: "Proposal"},
		{LeadID: "l5", EmployeeName: "Asha", PlannedFollowupDate: day(-1), EnquiryStage: "Closed-Won"},
		{LeadID: "l6", EmployeeName: "Asha", PlannedFollowupDate: day(5), EnquiryStage: "Prospecting"},
		{LeadID: "l7", EmployeeName: "Asha", PlannedFollowupDate: day(-1), EnquiryStage: "Order Booked"},
		{LeadID: "l8", EmployeeName: "Asha", EnquiryStage: "Prospecting"},
	} {
		require.NoError(t, leads.Create(ctx, &l))
	}

	users := repository.NewUserRepository(db)
	u := &domain.User{Email: "asha@example.com", Name: "Asha", Role: domain.RoleEmployee, IsActive: true}
	require.NoError(t, users.Create(ctx, u))
	return db, NewService(leads, users), u.ID
}

func router(svc *Service, userID int64, role domain.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", string(role))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func list(t *testing.T, r *gin.Engine, path string) ListResponse {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data ListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestNotifications_ManagerSeesEverything(t *testing.T) {
	_, svc, _ := seed(t)
	r := router(svc, 99, domain.RoleManager)

	got := list(t, r, "/api/v1/notifications")
	assert.Equal(t, Counts{Critical: 3, Warning: 1, Info: 1, Total: 5}, got.Counts)

	ids := make([]string, 0, len(got.Notifications))
	for _, n := range got.Notifications {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"missed_l1", "missed_l2", "missed_l7", "today_l3", "upcoming_l4"}, ids)

	first := got.Notifications[0]
	assert.Equal(t, LevelCritical, first.Type)
	assert.Equal(t, 5, first.DaysOverdue)
	assert.Equal(t, "Kumar - 5 days overdue", first.Message)

	last := got.Notifications[4]
	assert.Equal(t, 2, last.DaysUntil)
	assert.Equal(t, "Unknown - In 2 days", last.Message)
}

func TestNotifications_EmployeeScopedByName(t *testing.T) {
	_, svc, id := seed(t)
	r := router(svc, id, domain.RoleEmployee)

	got := list(t, r, "/api/v1/notifications?limit=2")
	assert.Equal(t, int64(4), got.Counts.Total)
	assert.Equal(t, int64(2), got.Counts.Critical)
	assert.Len(t, got.Notifications, 2)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notifications/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"critical":2,"warning":1,"info":1,"total":4}}`, w.Body.String())
}

func TestNotifications_Validation(t *testing.T) {
	_, svc, _ := seed(t)

	w := httptest.NewRecorder()
	router(svc, 1, domain.RoleAdmin).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notifications?limit=101", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router(svc, 12345, domain.RoleEmployee).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSweeper_PublishesGlobalCounts(t *testing.T) {
	_, svc, _ := seed(t)
	col := telemetry.NewCollector()

	sw := NewSweeper(svc, col, nil)
	sw.Sweep(context.Background())

	w := httptest.NewRecorder()
	col.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `leadboard_followups_pending{severity="critical"} 3`)
	assert.Contains(t, body, `leadboard_followups_pending{severity="info"} 1`)
}

func TestSweeper_Schedule(t *testing.T) {
	_, svc, _ := seed(t)

	sw := NewSweeper(svc, nil, nil)
	assert.Error(t, sw.Start("not a schedule"))
	require.NoError(t, sw.Start(""))
	require.NoError(t, sw.Start("@every 1h"))
	sw.Stop()
}
