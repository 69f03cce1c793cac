package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadboard/internal/database"
	"leadboard/internal/domain"
	"leadboard/internal/repository"
	"leadboard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func seededLeads(t *testing.T) *repository.LeadRepository {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	leads := repository.NewLeadRepository(db)

	rows := []domain.Lead{
		{LeadID: "l1", EnquiryDate: "2024-10-02", State: "Bihar", Dealer: "Sun Power", EnquiryStage: domain.StageClosedWon},
		{LeadID: "l2", EnquiryDate: "2024-10-09", State: "Bihar", Dealer: "Sun Power"},
		{LeadID: "l3", EnquiryDate: "2024-10-21", State: "Goa", Dealer: "Coastline"},
		{LeadID: "l4", EnquiryDate: "2024-11-04", State: "Bihar", Dealer: "Sun Power", EnquiryStage: domain.StageClosedLost},
		{LeadID: "l5", EnquiryDate: "2024-11-18", State: "Goa", Dealer: "Coastline"},
		{LeadID: "l6", EnquiryDate: "2024-12-01", State: "Bihar", Dealer: "Sun Power", EnquiryStage: domain.StageClosedWon},
		{LeadID: "l7", EnquiryDate: "2024-12-05", State: "Bihar", Dealer: "Delta Gensets", EnquiryStage: domain.StageClosedWon},
		{LeadID: "l8", EnquiryDate: "2024-12-11", State: "Bihar", Dealer: "Delta Gensets"},
		{LeadID: "l9", EnquiryDate: "2024-12-30", State: "Goa", Dealer: "Coastline"},
	}
	for i := range rows {
		require.NoError(t, leads.Create(context.Background(), &rows[i]))
	}
	return leads
}

func newTestService(leads LeadAggregator, llm Completer, metrics *telemetry.Collector) *Service {
	s := NewService(leads, llm, metrics, nil)
	s.now = func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Generate_FallbackWhenModelFails(t *testing.T) {
	collector := telemetry.NewCollector()
	llm := &fakeCompleter{err: errors.New("connection refused")}
	svc := newTestService(seededLeads(t), llm, collector)

	res, err := svc.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, 3, res.HorizonMonths)
	assert.Nil(t, res.Filters.State)

	require.Len(t, res.HistoricalData, 3)
	assert.Equal(t, MonthHistory{Month: "2024-12", TotalEnquiries: 4, Won: 2}, res.HistoricalData[2])

	preds := res.Forecast.Predictions
	require.Len(t, preds, 3)
	assert.Equal(t, []string{"2025-02", "2025-03", "2025-04"}, []string{preds[0].Month, preds[1].Month, preds[2].Month})
	assert.Equal(t, 3.0, preds[0].PredictedEnquiries)
	assert.Equal(t, 1.0, preds[0].PredictedClosures)
	assert.Equal(t, "medium", preds[2].Confidence)
	assert.Equal(t, []EntityPrediction{
		{Name: "Bihar", Predicted: 6, Percentage: 66.7},
		{Name: "Goa", Predicted: 3, Percentage: 33.3},
	}, preds[2].Breakdown.ByState)
	assert.Contains(t, res.Forecast.Summary, "3 enquiries and 1 closures")

	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.prompt, "Month 2024-11: 2 enquiries, 0 won, 1 lost")
	assert.Contains(t, llm.prompt, "By State (2 states): Bihar: 6 (66.7%), Goa: 3 (33.3%)")
}

func TestService_Generate_UsesModelReply(t *testing.T) {
	llm := &fakeCompleter{reply: "```json\n{\"predictions\":[{\"month\":\"2025-02\",\"predicted_enquiries\":11,\"predicted_closures\":4,\"confidence\":\"high\"}],\"summary\":\"up\"}\n```"}
	svc := newTestService(seededLeads(t), llm, nil)

	res, err := svc.Generate(context.Background(), Request{Horizon: 6, State: "Bihar"})
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, res.Source)
	assert.Equal(t, "up", res.Forecast.Summary)
	require.Len(t, res.Forecast.Predictions, 1)
	assert.Equal(t, 11.0, res.Forecast.Predictions[0].PredictedEnquiries)
	require.NotNil(t, res.Filters.State)
	assert.Equal(t, "Bihar", *res.Filters.State)
	assert.Contains(t, llm.prompt, "Filters applied: State: Bihar")
	assert.Contains(t, llm.prompt, "6-month forecast")
}

func TestService_Generate_UnparsableReplyFallsBack(t *testing.T) {
	llm := &fakeCompleter{reply: `{"summary": "I forgot the predictions"}`}
	svc := newTestService(seededLeads(t), llm, nil)

	res, err := svc.Generate(context.Background(), Request{Horizon: 12})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Len(t, res.Forecast.Predictions, 12)
	assert.Equal(t, "2026-01", res.Forecast.Predictions[11].Month)
}

func TestService_Generate_InsufficientHistory(t *testing.T) {
	llm := &fakeCompleter{}
	svc := newTestService(seededLeads(t), llm, nil)

	res, err := svc.Generate(context.Background(), Request{Dealer: "Delta Gensets"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "at least 3 months")
	assert.Len(t, res.HistoricalData, 1)
	assert.Zero(t, llm.calls)
}

func TestService_Generate_InvalidHorizon(t *testing.T) {
	svc := newTestService(seededLeads(t), nil, nil)
	_, err := svc.Generate(context.Background(), Request{Horizon: 4})
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestService_Generate_NoModelConfigured(t *testing.T) {
	svc := newTestService(seededLeads(t), nil, nil)
	res, err := svc.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
}
