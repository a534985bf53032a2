package metrics

import (
	"bakery/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HistoryRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bakery_history_rows",
			Help: "Rows in the last loaded sales history, by outcome",
		},
		[]string{"outcome"},
	)

	HistoryReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_history_reloads_total",
			Help: "History reload attempts",
		},
		[]string{"status"},
	)

	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_predictions_total",
			Help: "Predictions served, by source",
		},
		[]string{"source"},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bakery_prediction_duration_seconds",
			Help:    "Time spent waiting on the language model",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	ModelFits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bakery_model_fits_total",
			Help: "Per-product sales model fits, by outcome",
		},
		[]string{"outcome"},
	)
)

// Init registers the collectors with the default registry. Call it once.
func Init() {
	prometheus.MustRegister(HistoryRows)
	prometheus.MustRegister(HistoryReloads)
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(PredictionDuration)
	prometheus.MustRegister(ModelFits)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// ObserveLoad records the row counts of the last history load.
func ObserveLoad(r models.LoadReport) {
	HistoryRows.WithLabelValues("total").Set(float64(r.TotalRows))
	HistoryRows.WithLabelValues("kept").Set(float64(r.KeptRows))
	HistoryRows.WithLabelValues("bad_date").Set(float64(r.BadDateRows))
	HistoryRows.WithLabelValues("malformed").Set(float64(r.MalformedRows))
}
