package filters

import (
	"net/http"

	"leadboard/internal/pkg/response"
	"leadboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// cascade describes one dynamic list: the column it reads, the response
// key and the query parameters that narrow it.
type cascade struct {
	path   string
	key    repository.GroupKey
	field  string
	narrow func(c *gin.Context, f *repository.LeadFilter)
}

var cascades = []cascade{
	{"/zones", repository.GroupByZone, "zones", nil},
	{"/states", repository.GroupByState, "states", func(c *gin.Context, f *repository.LeadFilter) {
		f.Zone = c.Query("zone")
	}},
	{"/areas", repository.GroupByArea, "areas", func(c *gin.Context, f *repository.LeadFilter) {
		f.State = c.Query("state")
	}},
	{"/dealers", repository.GroupByDealer, "dealers", func(c *gin.Context, f *repository.LeadFilter) {
		f.State = c.Query("state")
		f.Area = c.Query("area")
	}},
	{"/employees", repository.GroupByEmployee, "employees", func(c *gin.Context, f *repository.LeadFilter) {
		f.Dealer = c.Query("dealer")
	}},
	{"/segments", repository.GroupBySegment, "segments", nil},
	{"/sub-segments", repository.GroupBySubSegment, "sub_segments", func(c *gin.Context, f *repository.LeadFilter) {
		f.Segment = c.Query("segment")
	}},
	{"/sources", repository.GroupBySource, "sources", nil},
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/filters")
	for _, cs := range cascades {
		g.GET(cs.path, h.values(cs))
	}
	g.GET("/enquiry-statuses", fixed("statuses", EnquiryStatuses))
	g.GET("/enquiry-stages", fixed("stages", EnquiryStages))
	g.GET("/enquiry-types", fixed("types", EnquiryTypes))
	g.GET("/all", h.All)
}

func (h *Handler) values(cs cascade) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f repository.LeadFilter
		if cs.narrow != nil {
			cs.narrow(c, &f)
		}
		vals, err := h.svc.Values(c.Request.Context(), cs.key, f)
		if err != nil {
			response.Internal(c, "INTERNAL", "Failed to load filter options", err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{cs.field: vals})
	}
}

func fixed(field string, vals []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{field: vals})
	}
}

func (h *Handler) All(c *gin.Context) {
	all, err := h.svc.All(c.Request.Context())
	if err != nil {
		response.Internal(c, "INTERNAL", "Failed to load filter options", err)
		return
	}
	response.Success(c, http.StatusOK, all)
}
