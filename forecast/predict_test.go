package forecast

import (
	"context"
	"strings"
	"testing"
	"time"

	"bakery/dataset"
	"bakery/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      models.PredictionResponse
		wantError bool
	}{
		{
			name: "plain",
			text: `{"prediction": 18, "reasoning": "Mondays are busy"}`,
			want: models.PredictionResponse{Prediction: 18, Reasoning: "Mondays are busy"},
		},
		{
			name: "fenced",
			text: "```json\n{\"prediction\": 7, \"reasoning\": \"rain\"}\n```",
			want: models.PredictionResponse{Prediction: 7, Reasoning: "rain"},
		},
		{
			name: "defaults",
			text: `{}`,
			want: models.PredictionResponse{Prediction: 0, Reasoning: defaultReasoning},
		},
		{
			name: "float and string values",
			text: `{"prediction": "12.6"}`,
			want: models.PredictionResponse{Prediction: 13, Reasoning: defaultReasoning},
		},
		{
			name:      "no json",
			text:      "I cannot help with that.",
			wantError: true,
		},
		{
			name:      "too large",
			text:      `{"prediction": 1e30, "reasoning": "huge"}`,
			wantError: true,
		},
		{
			name:      "negative",
			text:      `{"prediction": -4}`,
			wantError: true,
		},
		{
			name:      "string infinity",
			text:      `{"prediction": "Inf"}`,
			wantError: true,
		},
		{
			name:      "not a number",
			text:      `{"prediction": "lots"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictUsesModelAnswer(t *testing.T) {
	gen := &fakeGenerator{text: `{"prediction": 21, "reasoning": "warm Monday"}`}
	svc := NewService(dataset.NewHistoryStore(mondayHistory()), gen, 10, time.Second)

	got := svc.Predict(context.Background(), models.PredictionRequest{
		Product: "Bread", TargetDate: "2024-02-19", WeatherForecast: "Sunny", TempForecast: 22,
	})

	assert.Equal(t, SourceModel, got.Source)
	assert.NoError(t, got.Err)
	assert.Equal(t, 21, got.Prediction)
	assert.Equal(t, "warm Monday", got.Reasoning)
	assert.Contains(t, gen.prompt, "Predict sales for 'Bread' on 2024-02-19")
	assert.Contains(t, gen.prompt, "Forecast: Sunny, 22°C.")
	assert.Contains(t, gen.prompt, "Sales history for Bread on previous Mondays:")
}

func TestPredictFallsBack(t *testing.T) {
	req := models.PredictionRequest{Product: "Bread", TargetDate: "2024-02-19"}

	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	got := NewService(dataset.NewHistoryStore(nil), gen, 10, 0).Predict(context.Background(), req)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, 10, got.Prediction)
	assert.Equal(t, "Fallback error: quota exceeded", got.Reasoning)
	assert.Contains(t, gen.prompt, "No historical data available.")

	gen = &fakeGenerator{text: "sorry"}
	got = NewService(dataset.NewHistoryStore(nil), gen, 4, 0).Predict(context.Background(), req)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, 4, got.Prediction)
	assert.ErrorIs(t, got.Err, ErrMalformedResponse)
	assert.True(t, strings.HasPrefix(got.Reasoning, "Fallback error: "))

	gen = &fakeGenerator{text: `{"prediction": 1e30, "reasoning": "huge"}`}
	got = NewService(dataset.NewHistoryStore(nil), gen, 10, 0).Predict(context.Background(), req)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, 10, got.Prediction)
}
