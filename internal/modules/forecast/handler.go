package forecast

import (
	"errors"
	"io"
	"net/http"

	"leadboard/internal/domain"
	"leadboard/internal/middleware"
	"leadboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	limiter *middleware.UserRateLimiter
}

func NewHandler(service *Service, limiter *middleware.UserRateLimiter) *Handler {
	return &Handler{service: service, limiter: limiter}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/forecast",
		middleware.RequireRole(domain.RoleAdmin, domain.RoleManager),
		h.limiter.Middleware(),
		h.Generate,
	)
}

// Generate forecasts enquiries and closures for the next 3, 6 or 12 months.
// @Summary		Sales forecast
// @Tags		Forecast
// @Security	BearerAuth
// @Param		request	body	Request	true	"Horizon and filters"
// @Router		/forecast [POST]
func (h *Handler) Generate(c *gin.Context) {
	var req Request
	// an empty body means the defaults
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidHorizon) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Horizon must be 3, 6, or 12 months")
			return
		}
		response.Internal(c, "FORECAST_FAILED", "Forecast generation failed", err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
