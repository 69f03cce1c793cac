package insights

import (
	"context"
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

func TestHandler_MonthlyTrendsAgainstStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	leads := repository.NewLeadRepository(db)
	ctx := context.Background()
	require.NoError(t, leads.Create(ctx, &domain.Lead{LeadID: "l1", EnquiryDate: "2024-05-03", EnquiryStage: "Closed-Won"}))
	require.NoError(t, leads.Create(ctx, &domain.Lead{LeadID: "l2", EnquiryDate: "2024-05-20"}))

	router := gin.New()
	NewHandler(NewService(leads)).RegisterRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/insights/monthly-trends", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"month":"2024-05","total_leads":2,"won":1`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/insights/monthly-trends?months=2", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/insights/top-performers?by=planet", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
