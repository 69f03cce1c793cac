package filters

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

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	leads := repository.NewLeadRepository(db)
	for _, l := range []domain.Lead{
		{LeadID: "l1", Zone: "East", State: "Bihar", Area: "Patna", Dealer: "D1", EmployeeName: "Asha", Segment: "Retail", SubSegment: "Shops"},
		{LeadID: "l2", Zone: "East", State: "Odisha", Area: "Puri", Dealer: "D2", Segment: "Retail", SubSegment: "Malls"},
		{LeadID: "l3", Zone: "West", State: "Goa", Area: "Panaji", Dealer: "D1", EmployeeName: "Ravi", Segment: "Industrial"},
		{LeadID: "l4", Zone: "West", State: "Bihar"},
	} {
		require.NoError(t, leads.Create(context.Background(), &l))
	}

	r := gin.New()
	NewHandler(NewService(leads)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestFilters_Cascading(t *testing.T) {
	r := setup(t)

	cases := []struct {
		path string
		want string
	}{
		{"/api/v1/filters/zones", `{"zones":["East","West"]}`},
		{"/api/v1/filters/states?zone=East", `{"states":["Bihar","Odisha"]}`},
		{"/api/v1/filters/areas?state=Bihar", `{"areas":["Patna"]}`},
		{"/api/v1/filters/dealers?state=Goa", `{"dealers":["D1"]}`},
		{"/api/v1/filters/employees?dealer=D1", `{"employees":["Asha","Ravi"]}`},
		{"/api/v1/filters/sub-segments?segment=Retail", `{"sub_segments":["Malls","Shops"]}`},
		{"/api/v1/filters/sources", `{"sources":[]}`},
		{"/api/v1/filters/enquiry-types", `{"types":["Hot","Warm","Cold"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := get(r, tc.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":true,"data":`+tc.want+`}`, w.Body.String())
		})
	}
}

func TestFilters_All(t *testing.T) {
	r := setup(t)

	w := get(r, "/api/v1/filters/all")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{
		"states":["Bihar","Goa","Odisha"],
		"dealers":["D1","D2"],
		"areas":["Panaji","Patna","Puri"],
		"employees":["Asha","Ravi"],
		"segments":["Industrial","Retail"]
	}}`, w.Body.String())
}
