package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "fenced json",
			reply: "Here you go:\n```json\n{\"predictions\": []}\n```\nThanks",
			want:  `{"predictions": []}`,
		},
		{
			name:  "line comments removed",
			reply: "{\n  \"a\": 1, // estimate\n  \"b\": 2\n}",
			want:  "{\n  \"a\": 1, \n  \"b\": 2\n}",
		},
		{
			name:  "urls survive",
			reply: `{"source": "https://example.com/data"}`,
			want:  `{"source": "https://example.com/data"}`,
		},
		{
			name:  "no object",
			reply: "I cannot forecast this.",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanReply(tt.reply))
		})
	}
}

func TestParseForecast(t *testing.T) {
	reply := "```json\n" + `{
  "predictions": [
    {"month": "2025-04", "predicted_enquiries": 120, "predicted_closures": 30.5, "confidence": "high"}
  ],
  "summary": "Steady growth",
  "factors": ["seasonality"],
  "recommendations": ["hire"]
}` + "\n```"

	fc, err := parseForecast(reply)
	require.NoError(t, err)
	require.Len(t, fc.Predictions, 1)
	assert.Equal(t, "2025-04", fc.Predictions[0].Month)
	assert.Equal(t, 30.5, fc.Predictions[0].PredictedClosures)
	assert.Equal(t, "Steady growth", fc.Summary)

	_, err = parseForecast(`{"summary": "no predictions here"}`)
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = parseForecast(`{"predictions": [`)
	assert.ErrorIs(t, err, ErrUnparsable)
}
