package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, "data/history.csv", cfg.HistoryCSV)
	assert.Equal(t, "data/seasonality.json", cfg.SeasonalityJSON)
	assert.Equal(t, "data/ml_model.json", cfg.ModelJSON)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.PredictTimeout)
	assert.Equal(t, 10, cfg.FallbackPrediction)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HISTORY_CSV", "/srv/bakery/history.csv")
	t.Setenv("PREDICT_TIMEOUT", "5s")
	t.Setenv("FALLBACK_PREDICTION", "3")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/bakery/history.csv", cfg.HistoryCSV)
	assert.Equal(t, 5*time.Second, cfg.PredictTimeout)
	assert.Equal(t, 3, cfg.FallbackPrediction)
	assert.Equal(t, "google-key", cfg.GeminiAPIKey)
}
