package notification

import (
	"context"
	"fmt"
	"time"

	"leadboard/internal/telemetry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically publishes the global reminder counts.
type Sweeper struct {
	svc     *Service
	metrics *telemetry.Collector
	log     *zap.Logger
	cron    *cron.Cron
}

func NewSweeper(svc *Service, metrics *telemetry.Collector, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		svc:     svc,
		metrics: metrics,
		log:     log,
		cron:    cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start schedules the sweep. An empty schedule leaves the sweeper idle.
func (s *Sweeper) Start(schedule string) error {
	if schedule == "" {
		s.log.Info("reminder sweep disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.Info("reminder sweep scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	c, err := s.svc.Summary(ctx, Scope{})
	if err != nil {
		s.log.Warn("reminder sweep failed", zap.Error(err))
		return
	}
	s.metrics.Reminders(c.Critical, c.Warning, c.Info)
	s.log.Info("reminder sweep",
		zap.Int64("critical", c.Critical),
		zap.Int64("warning", c.Warning),
		zap.Int64("info", c.Info),
	)
}
