package server

import (
	"net/http"
	"time"

	"leadboard/internal/config"
	"leadboard/internal/middleware"
	"leadboard/internal/modules/activity"
	"leadboard/internal/modules/admin"
	"leadboard/internal/modules/auth"
	"leadboard/internal/modules/entity"
	"leadboard/internal/modules/filters"
	"leadboard/internal/modules/forecast"
	"leadboard/internal/modules/insights"
	"leadboard/internal/modules/kpis"
	"leadboard/internal/modules/leads"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/modules/notification"
	"leadboard/internal/modules/qualification"
	"leadboard/internal/modules/upload"
	"leadboard/internal/pkg/jwt"
	"leadboard/internal/repository"
	"leadboard/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the HTTP layer is built from.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *telemetry.Collector
	// LLM overrides the chat client used for forecasts.
	LLM forecast.Completer
}

// App is the assembled HTTP surface plus the services main needs to start.
type App struct {
	Engine    *gin.Engine
	Metrics   *metrics.Service
	Reminders *notification.Sweeper
}

func New(d Deps) *App {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := d.Config

	leadRepo := repository.NewLeadRepository(d.DB)
	userRepo := repository.NewUserRepository(d.DB)
	activityRepo := repository.NewActivityRepository(d.DB)
	followupRepo := repository.NewFollowupRepository(d.DB)
	metricRepo := repository.NewMetricRepository(d.DB)
	qualificationRepo := repository.NewQualificationRepository(d.DB)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	engine := metrics.NewEngine()

	audit := activity.NewService(activityRepo, followupRepo, leadRepo, log)
	metricService := metrics.NewService(metricRepo, leadRepo, audit, engine, log)
	notificationService := notification.NewService(leadRepo, userRepo)

	llm := d.LLM
	if llm == nil {
		llm = forecast.NewLLMClient(cfg.LLM)
	}

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens, audit, tokens.TTL()))
	handlers := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		leads.NewHandler(leads.NewService(leadRepo, audit)),
		upload.NewHandler(upload.NewService(leadRepo, audit, d.Metrics, log)),
		activity.NewHandler(audit),
		metrics.NewHandler(metricService),
		qualification.NewHandler(qualification.NewService(qualificationRepo, leadRepo, audit, d.Metrics)),
		kpis.NewHandler(kpis.NewService(leadRepo, metricService)),
		insights.NewHandler(insights.NewService(leadRepo)),
		entity.NewHandler(entity.NewService(leadRepo, activityRepo, engine)),
		notification.NewHandler(notificationService),
		filters.NewHandler(filters.NewService(leadRepo)),
		admin.NewHandler(admin.NewService(userRepo, activityRepo, followupRepo, leadRepo, audit)),
		forecast.NewHandler(
			forecast.NewService(leadRepo, llm, d.Metrics, log),
			middleware.NewUserRateLimiter(cfg.ForecastRatePerMinute),
		),
	}

	r := gin.New()
	r.Use(
		middleware.ErrorLogger(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)
	if cfg.MetricsEnabled && d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			for _, h := range handlers {
				h.RegisterRoutes(protected)
			}
		}
	}

	return &App{
		Engine:    r,
		Metrics:   metricService,
		Reminders: notification.NewSweeper(notificationService, d.Metrics, log),
	}
}
