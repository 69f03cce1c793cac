package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/repository"
	"leadboard/internal/telemetry"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minHistoryMonths = 3
	distributionCap  = 50
	fallbackTop      = 10
)

// historySets mirrors the monthly trend: only the terminal stages count.
var historySets = repository.StageSets{
	Won:  []string{domain.StageClosedWon},
	Lost: []string{domain.StageClosedLost},
}

const systemPrompt = `You are an expert sales forecasting analyst. Based on historical lead data,
provide predictions for future months. Be specific with numbers and explain your reasoning.
Format your response as JSON with the following structure:
{
    "predictions": [
        {"month": "YYYY-MM", "predicted_enquiries": number, "predicted_closures": number, "confidence": "high/medium/low"}
    ],
    "summary": "Brief explanation of the forecast",
    "factors": ["Key factors considered"],
    "recommendations": ["Actionable recommendations"]
}`

type Service struct {
	leads   LeadAggregator
	llm     Completer
	metrics *telemetry.Collector
	log     *zap.Logger
	now     func() time.Time
}

func NewService(leads LeadAggregator, llm Completer, metrics *telemetry.Collector, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{leads: leads, llm: llm, metrics: metrics, log: log, now: time.Now}
}

func validHorizon(h int) bool { return h == 3 || h == 6 || h == 12 }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Generate builds a forecast for the next req.Horizon months. The model is
// asked first; any failure falls back to a projection of monthly averages.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Horizon == 0 {
		req.Horizon = 3
	}
	if !validHorizon(req.Horizon) {
		return nil, ErrInvalidHorizon
	}
	f := repository.LeadFilter{State: req.State, Dealer: req.Dealer, Location: req.Location}

	history, err := s.history(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(history) < minHistoryMonths {
		return &Result{
			Success:        false,
			Message:        "Insufficient historical data for forecasting. Need at least 3 months of data.",
			HistoricalData: history,
		}, nil
	}

	dist, err := s.distribution(ctx, f)
	if err != nil {
		return nil, err
	}

	source := SourceLLM
	fc, err := s.ask(ctx, req, history, dist)
	if err != nil {
		if errors.Is(err, ErrLLMDisabled) {
			s.log.Info("llm not configured, using statistical forecast")
		} else {
			s.log.Warn("llm forecast failed, using statistical forecast", zap.Error(err))
		}
		source = SourceFallback
		fc = s.fallback(req.Horizon, history, dist)
	}
	s.metrics.Forecast(source)

	generated := s.now().UTC()
	return &Result{
		Success:        true,
		Source:         source,
		Forecast:       fc,
		HistoricalData: history,
		HorizonMonths:  req.Horizon,
		Filters: &Filters{
			State:    optional(req.State),
			Dealer:   optional(req.Dealer),
			Location: optional(req.Location),
		},
		GeneratedAt: &generated,
	}, nil
}

func (s *Service) history(ctx context.Context, f repository.LeadFilter) ([]MonthHistory, error) {
	rows, err := s.leads.GroupStats(ctx, repository.GroupByMonth, f, historySets)
	if err != nil {
		return nil, fmt.Errorf("monthly history: %w", err)
	}
	out := make([]MonthHistory, 0, len(rows))
	for _, r := range rows {
		if r.Key == "" {
			continue
		}
		out = append(out, MonthHistory{
			Month:          r.Key,
			TotalEnquiries: r.Total,
			Won:            r.Won,
			Lost:           r.Lost,
			TotalKVA:       r.TotalKVA,
		})
	}
	return out, nil
}

func (s *Service) distribution(ctx context.Context, f repository.LeadFilter) (*Distribution, error) {
	keys := []repository.GroupKey{
		repository.GroupByState,
		repository.GroupByDealer,
		repository.GroupBySegment,
		repository.GroupByEmployee,
	}
	buckets := make([][]repository.Bucket, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			rows, err := s.leads.GroupCount(gctx, key, f)
			if err != nil {
				return fmt.Errorf("distribution by %s: %w", key, err)
			}
			if len(rows) > distributionCap {
				rows = rows[:distributionCap]
			}
			buckets[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Distribution{}
	for _, b := range buckets[0] {
		d.Total += b.Count
	}
	d.States = shares(buckets[0], d.Total)
	d.Dealers = shares(buckets[1], d.Total)
	d.Segments = shares(buckets[2], d.Total)
	d.Employees = shares(buckets[3], d.Total)
	return d, nil
}

func shares(rows []repository.Bucket, total int64) []Share {
	out := make([]Share, 0, len(rows))
	for _, r := range rows {
		if r.Key == "" {
			continue
		}
		var pct float64
		if total > 0 {
			pct = math.Round(float64(r.Count)/float64(total)*1000) / 10
		}
		out = append(out, Share{Name: r.Key, Count: r.Count, Pct: pct})
	}
	return out
}

func (s *Service) ask(ctx context.Context, req Request, history []MonthHistory, dist *Distribution) (*Forecast, error) {
	if s.llm == nil {
		return nil, ErrLLMDisabled
	}
	reply, err := s.llm.Complete(ctx, systemPrompt, buildPrompt(req, history, dist))
	if err != nil {
		return nil, err
	}
	fc, err := parseForecast(reply)
	if err != nil {
		s.log.Warn("unparsable llm reply", zap.String("snippet", truncate(reply, 500)))
		return nil, err
	}
	s.log.Info("parsed llm forecast", zap.Int("predictions", len(fc.Predictions)))
	return fc, nil
}

// fallback projects the integer monthly averages forward, growing
// enquiries 5% and closures 3% per month.
func (s *Service) fallback(horizon int, history []MonthHistory, dist *Distribution) *Forecast {
	var sumEnq, sumWon int64
	for _, h := range history {
		sumEnq += h.TotalEnquiries
		sumWon += h.Won
	}
	avgEnq := sumEnq / int64(len(history))
	avgWon := sumWon / int64(len(history))

	now := s.now()
	preds := make([]Prediction, 0, horizon)
	for i := 0; i < horizon; i++ {
		month := time.Date(now.Year(), now.Month()+time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		growth := 1 + 0.05*float64(i)
		preds = append(preds, Prediction{
			Month:              month.Format("2006-01"),
			PredictedEnquiries: math.Floor(float64(avgEnq) * growth),
			PredictedClosures:  math.Floor(float64(avgWon) * (1 + 0.03*float64(i))),
			Confidence:         "medium",
			Breakdown: &Breakdown{
				ByState:    scaled(dist.States, growth),
				ByDealer:   scaled(dist.Dealers, growth),
				BySegment:  scaled(dist.Segments, growth),
				ByEmployee: scaled(dist.Employees, growth),
			},
		})
	}

	return &Forecast{
		Predictions: preds,
		Summary: fmt.Sprintf("Forecast based on historical average of %d enquiries and %d closures per month. "+
			"AI response processing had issues - using statistical fallback.", avgEnq, avgWon),
		Factors:         []string{"Historical monthly averages", "Seasonal trends", "Current distribution patterns"},
		Recommendations: []string{"Monitor actual performance against forecast", "Adjust strategies based on market conditions"},
	}
}

func scaled(list []Share, growth float64) []EntityPrediction {
	if len(list) > fallbackTop {
		list = list[:fallbackTop]
	}
	out := make([]EntityPrediction, 0, len(list))
	for _, sh := range list {
		out = append(out, EntityPrediction{
			Name:       sh.Name,
			Predicted:  math.Floor(float64(sh.Count) * growth),
			Percentage: sh.Pct,
		})
	}
	return out
}

func buildPrompt(req Request, history []MonthHistory, dist *Distribution) string {
	var filters []string
	if req.State != "" {
		filters = append(filters, "State: "+req.State)
	}
	if req.Dealer != "" {
		filters = append(filters, "Dealer: "+req.Dealer)
	}
	if req.Location != "" {
		filters = append(filters, "Location: "+req.Location)
	}
	applied := "None (all data)"
	if len(filters) > 0 {
		applied = strings.Join(filters, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following historical lead data, generate a %d-month forecast with DETAILED BREAKDOWN.\n\n", req.Horizon)
	fmt.Fprintf(&b, "Filters applied: %s\n\nHistorical Data by Month:\n", applied)
	for _, h := range history {
		fmt.Fprintf(&b, "Month %s: %d enquiries, %d won, %d lost, %g total KVA\n", h.Month, h.TotalEnquiries, h.Won, h.Lost, h.TotalKVA)
	}

	fmt.Fprintf(&b, "\nCurrent Distribution of %d total leads:\n", dist.Total)
	fmt.Fprintf(&b, "By State (%d states): %s\n", len(dist.States), joinShares(dist.States, len(dist.States), true))
	fmt.Fprintf(&b, "By Segment (%d segments): %s\n", len(dist.Segments), joinShares(dist.Segments, len(dist.Segments), true))
	fmt.Fprintf(&b, "By Dealer (%d dealers): %s\n", len(dist.Dealers), joinShares(dist.Dealers, fallbackTop, false))
	fmt.Fprintf(&b, "By Employee (%d employees): %s\n", len(dist.Employees), joinShares(dist.Employees, fallbackTop, false))

	fmt.Fprintf(&b, `
Please analyze trends and provide predictions for the next %d months.

IMPORTANT: For EACH predicted month, provide a COMPLETE detailed breakdown showing how many leads
each state (%d), dealer (%d), segment (%d) and employee (%d) should expect.
Use the historical distribution percentages to calculate predicted counts for each entity.

Format your response as JSON:
{
    "predictions": [
        {
            "month": "YYYY-MM",
            "predicted_enquiries": number,
            "predicted_closures": number,
            "confidence": "high/medium/low",
            "breakdown": {
                "by_state": [{"name": "State Name", "predicted": number, "percentage": number}],
                "by_dealer": [{"name": "Dealer Name", "predicted": number, "percentage": number}],
                "by_segment": [{"name": "Segment Name", "predicted": number, "percentage": number}],
                "by_employee": [{"name": "Employee Name", "predicted": number, "percentage": number}]
            }
        }
    ],
    "summary": "Brief explanation of the forecast",
    "factors": ["Key factors considered"],
    "recommendations": ["Actionable recommendations"]
}

Include ALL entities from the distribution data, not just the top few.`,
		req.Horizon, len(dist.States), len(dist.Dealers), len(dist.Segments), len(dist.Employees))
	return b.String()
}

func joinShares(list []Share, n int, withPct bool) string {
	rest := 0
	if len(list) > n {
		rest = len(list) - n
		list = list[:n]
	}
	parts := make([]string, 0, len(list))
	for _, sh := range list {
		if withPct {
			parts = append(parts, fmt.Sprintf("%s: %d (%g%%)", sh.Name, sh.Count, sh.Pct))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %d", sh.Name, sh.Count))
		}
	}
	out := strings.Join(parts, ", ")
	if rest > 0 {
		out += fmt.Sprintf("... and %d more", rest)
	}
	return out
}
