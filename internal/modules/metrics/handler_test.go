package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadboard/internal/database"
	"leadboard/internal/domain"
	"leadboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, role domain.UserRole) (*gin.Engine, *repository.LeadRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	leads := repository.NewLeadRepository(db)
	svc := NewService(repository.NewMetricRepository(db), leads, &nopAudit{}, nil, nil)

	router := gin.New()
	protected := router.Group("/api/v1")
	protected.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Set("role", string(role))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(protected)
	return router, leads
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestHandler_SettingsSeedsDefaults(t *testing.T) {
	router, leads := setupRouter(t, domain.RoleEmployee)
	require.NoError(t, leads.Create(context.Background(), &domain.Lead{LeadID: "lead_1", EnquiryStage: "Prospecting", EnquiryType: "Hot"}))

	w := performRequest(router, "GET", "/api/v1/metric-settings", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data SettingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Metrics, 10)
	assert.Equal(t, []string{"Prospecting"}, resp.Data.AvailableFields["enquiry_stage"])
	assert.Equal(t, int64(1), resp.Data.FieldCounts["enquiry_type"]["Hot"])
}

func TestHandler_AdminOnlyMutations(t *testing.T) {
	router, _ := setupRouter(t, domain.RoleManager)

	w := performRequest(router, "POST", "/api/v1/metric-settings/reset", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_AddUpdateDelete(t *testing.T) {
	router, _ := setupRouter(t, domain.RoleAdmin)

	// seed defaults
	require.Equal(t, http.StatusOK, performRequest(router, "GET", "/api/v1/metric-settings", nil).Code)

	add := AddMetricRequest{MetricID: "proposals", MetricName: "Proposals", FieldName: "enquiry_stage", FieldValues: []string{"Proposal"}}
	w := performRequest(router, "POST", "/api/v1/metric-settings/add", add)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(router, "POST", "/api/v1/metric-settings/add", add)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var er errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
	assert.Equal(t, "METRIC_EXISTS", er.Error.Code)

	w = performRequest(router, "POST", "/api/v1/metric-settings/add", AddMetricRequest{MetricName: "no id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	off := false
	w = performRequest(router, "PUT", "/api/v1/metric-settings/proposals", UpdateMetricRequest{IsActive: &off})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":false`)

	w = performRequest(router, "PUT", "/api/v1/metric-settings/missing", UpdateMetricRequest{IsActive: &off})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, "DELETE", "/api/v1/metric-settings/won_leads", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "DELETE", "/api/v1/metric-settings/proposals", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "DELETE", "/api/v1/metric-settings/proposals", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Evaluate(t *testing.T) {
	router, leads := setupRouter(t, domain.RoleEmployee)
	ctx := context.Background()
	for i, stage := range []string{"Closed-Won", "Closed-Won", "Order Booked", "Closed-Lost"} {
		require.NoError(t, leads.Create(ctx, &domain.Lead{
			LeadID:       "lead_" + string(rune('a'+i)),
			State:        "Goa",
			EnquiryStage: stage,
		}))
	}
	require.NoError(t, leads.Create(ctx, &domain.Lead{LeadID: "lead_z", State: "Kerala", EnquiryStage: "Closed-Lost"}))

	w := performRequest(router, "GET", "/api/v1/metric-settings/evaluate?state=Goa", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Metrics []MetricValue `json:"metrics"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	byID := map[string]float64{}
	for _, m := range resp.Data.Metrics {
		byID[m.MetricID] = m.Value
	}
	assert.Equal(t, 3.0, byID["won_leads"])
	assert.Equal(t, 1.0, byID["lost_leads"])
	assert.Equal(t, 75.0, byID["conversion_rate"])
}
