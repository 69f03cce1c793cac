package kpis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadboard/internal/database"
	"leadboard/internal/domain"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopAudit struct{}

func (nopAudit) Record(context.Context, *domain.ActivityLog) {}

func kva(v float64) *float64 { return &v }

func setup(t *testing.T) (*gin.Engine, *repository.LeadRepository, *metrics.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	leads := repository.NewLeadRepository(db)
	msvc := metrics.NewService(repository.NewMetricRepository(db), leads, nopAudit{}, nil, nil)

	router := gin.New()
	NewHandler(NewService(leads, msvc)).RegisterRoutes(router.Group("/api/v1"))
	return router, leads, msvc
}

func seed(t *testing.T, leads *repository.LeadRepository) {
	t.Helper()
	ctx := context.Background()
	for _, l := range []domain.Lead{
		{LeadID: "l1", EnquiryDate: "2024-05-01", EnquiryStage: "Closed-Won", Segment: "Retail", KVA: kva(100)},
		{LeadID: "l2", EnquiryDate: "2024-06-01", EnquiryStage: "Order Booked", Segment: "Retail", EnquiryType: "Hot"},
		{LeadID: "l3", EnquiryDate: "2024-07-01", EnquiryStage: "Closed-Lost", KVA: kva(50)},
		{LeadID: "l4", EnquiryDate: "2024-08-01", EnquiryStage: "Prospecting", EnquiryStatus: "Open", Segment: "Industrial"},
		{LeadID: "l5", EnquiryDate: "2023-01-01", EnquiryStage: "Closed-Won"},
	} {
		require.NoError(t, leads.Create(ctx, &l))
	}
}

func get(t *testing.T, router *gin.Engine, path string) Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestKPIs_UsesConfiguredMetrics(t *testing.T) {
	router, leads, _ := setup(t)
	seed(t, leads)

	got := get(t, router, "/api/v1/kpis?start_date=2024-04-01&end_date=2025-03-31")
	assert.Equal(t, 4, got.TotalLeads)
	// default won_leads counts Closed-Won and Order Booked
	assert.Equal(t, 2.0, got.WonLeads)
	assert.Equal(t, 1.0, got.LostLeads)
	assert.Equal(t, 1.0, got.HotLeads)
	assert.InDelta(t, 66.67, got.ConversionRate, 0.001)
	assert.Equal(t, 150.0, got.TotalKVA)
	assert.Equal(t, 75.0, got.AvgKVA)
	assert.Equal(t, "Retail", got.SegmentDistribution[0].Segment)
	assert.Equal(t, int64(2), got.SegmentDistribution[0].Count)
	assert.Equal(t, "Unknown", got.SegmentDistribution[1].Segment)
	assert.Len(t, got.Metrics, 10)
	assert.Equal(t, "won_leads", got.Metrics[0].MetricID)
}

func TestKPIs_FallsBackWhenMetricDisabled(t *testing.T) {
	router, leads, msvc := setup(t)
	seed(t, leads)

	ctx := context.Background()
	require.NoError(t, msvc.EnsureDefaults(ctx))
	off := false
	_, err := msvc.Update(ctx, 1, "won_leads", metrics.UpdateMetricRequest{IsActive: &off})
	require.NoError(t, err)

	got := get(t, router, "/api/v1/kpis?start_date=2024-04-01&end_date=2025-03-31")
	// fixed rule only counts Closed-Won
	assert.Equal(t, 1.0, got.WonLeads)
	assert.Equal(t, 1.0, got.LostLeads)
	// rate follows the fallback counts: 1 / (1 + 1)
	assert.Equal(t, 50.0, got.ConversionRate)
	for _, m := range got.Metrics {
		assert.NotEqual(t, "won_leads", m.MetricID)
	}
}

func TestKPIs_DefaultsToFinancialYear(t *testing.T) {
	router, _, _ := setup(t)

	got := get(t, router, "/api/v1/kpis")
	assert.NotEmpty(t, got.DateRange.StartDate)
	assert.Equal(t, "04-01", got.DateRange.StartDate[5:])
	assert.Equal(t, "03-31", got.DateRange.EndDate[5:])
	assert.Equal(t, 0, got.TotalLeads)
	assert.Equal(t, 0.0, got.ConversionRate)
}
