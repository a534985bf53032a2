package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bakery/dataset"
	"bakery/logger"
	"bakery/metrics"
	"bakery/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrMalformedResponse = errors.New("malformed AI response")

const defaultReasoning = "AI generated based on trends."

// Source tells whether a Prediction came from the model or the fallback.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Prediction is the outcome of one forecast request. Err is set exactly when
// Source is SourceFallback.
type Prediction struct {
	models.PredictionResponse
	Source Source
	Err    error
}

// Service answers prediction requests from the shared history and an LLM.
type Service struct {
	history  *dataset.HistoryStore
	gen      Generator
	fallback int
	timeout  time.Duration
}

func NewService(history *dataset.HistoryStore, gen Generator, fallback int, timeout time.Duration) *Service {
	return &Service{
		history:  history,
		gen:      gen,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Predict never fails: any problem with the model call or its answer yields
// the fallback prediction with the error described in the reasoning.
func (s *Service) Predict(ctx context.Context, req models.PredictionRequest) Prediction {
	prompt := BuildPrompt(req, HistoricalContext(s.history.Get(), req.Product, req.TargetDate))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	var resp models.PredictionResponse
	if err == nil {
		resp, err = ParseResponse(text)
	}
	if err != nil {
		logger.Error("[PREDICT] LLM error, using fallback",
			zap.String("product", req.Product), zap.Error(err))
		metrics.PredictionsTotal.WithLabelValues(string(SourceFallback)).Inc()
		return Prediction{
			PredictionResponse: models.PredictionResponse{
				Prediction: s.fallback,
				Reasoning:  fmt.Sprintf("Fallback error: %v", err),
			},
			Source: SourceFallback,
			Err:    err,
		}
	}

	metrics.PredictionsTotal.WithLabelValues(string(SourceModel)).Inc()
	return Prediction{PredictionResponse: resp, Source: SourceModel}
}

// BuildPrompt creates the forecasting prompt for one request.
func BuildPrompt(req models.PredictionRequest, history string) string {
	return fmt.Sprintf(`
    You are an expert bakery forecaster.
    TASK: Predict sales for '%s' on %s.

    CONTEXT:
    1. Forecast: %s, %d°C.
    2. %s

    RULES:
    - Return ONLY valid JSON.
    - Format: { "prediction": 15, "reasoning": "..." }
    `, req.Product, req.TargetDate, req.WeatherForecast, req.TempForecast, history)
}

// ParseResponse reads the JSON object out of model text, tolerating markdown
// fences around it. A missing prediction counts as 0 and a missing reasoning
// gets a stock sentence. A negative or implausibly large prediction is
// malformed.
func ParseResponse(text string) (models.PredictionResponse, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return models.PredictionResponse{}, errors.Wrapf(ErrMalformedResponse, "no JSON object in %q", truncate(text, 80))
	}

	var raw struct {
		Prediction interface{} `json:"prediction"`
		Reasoning  *string     `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return models.PredictionResponse{}, errors.Wrapf(ErrMalformedResponse, "%v", err)
	}

	value, err := predictionValue(raw.Prediction)
	if err != nil {
		return models.PredictionResponse{}, err
	}

	resp := models.PredictionResponse{Prediction: value, Reasoning: defaultReasoning}
	if raw.Reasoning != nil {
		resp.Reasoning = *raw.Reasoning
	}
	return resp, nil
}

// maxPrediction bounds a believable unit count for one product and day.
const maxPrediction = math.MaxInt32

func predictionValue(v interface{}) (int, error) {
	var f float64
	switch p := v.(type) {
	case nil:
		return 0, nil
	case float64:
		f = p
	case string:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedResponse, "prediction %q is not a number", p)
		}
	default:
		return 0, errors.Wrapf(ErrMalformedResponse, "prediction has type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxPrediction {
		return 0, errors.Wrapf(ErrMalformedResponse, "prediction %v is out of range", f)
	}
	return int(math.Round(f)), nil
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
