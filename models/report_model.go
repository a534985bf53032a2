package models

import "time"

// ProductSeasonality holds relative demand per weekday for one product.
type ProductSeasonality struct {
	Product     string
	BaseAverage float64
	Factors     map[string]float64
}

// SeasonalityDoc is the persisted form of ProductSeasonality.
type SeasonalityDoc struct {
	BaseAvg float64            `json:"base_avg"`
	Factors map[string]float64 `json:"factors"`
}

// FitOutcome says how the sales sub-model of a ProductModel was obtained.
type FitOutcome string

const (
	FitOK               FitOutcome = "fitted"
	FitInsufficientData FitOutcome = "insufficient_data"
	FitFailed           FitOutcome = "fit_failed"
)

// WasteStats are production and waste averages over every active day.
type WasteStats struct {
	TotalWaste int     `json:"total_waste"`
	TotalSold  int     `json:"total_sold"`
	TotalMade  int     `json:"total_made"`
	ActiveDays int     `json:"active_days"`
	AvgWaste   float64 `json:"avg_waste"`
	AvgMade    float64 `json:"avg_made"`
}

// ProductModel is a trained per-product linear sales model.
type ProductModel struct {
	Product string
	// BaseBias is the fitted intercept, or the mean positive sale when the
	// fit fell back. Both are rounded to two places.
	BaseBias float64
	Weights  map[string]float64
	Waste    WasteStats

	Outcome FitOutcome
	// Reason is set when Outcome is not FitOK.
	Reason error
}

// ModelDoc is the persisted form of ProductModel.
type ModelDoc struct {
	BaseBias  float64            `json:"base_bias"`
	Weights   map[string]float64 `json:"weights"`
	WasteRisk float64            `json:"waste_risk"`
	AvgMade   float64            `json:"avg_made"`
}

// LoadReport describes what happened to each input row during cleaning.
type LoadReport struct {
	TotalRows     int    `json:"total_rows"`
	KeptRows      int    `json:"kept_rows"`
	BadDateRows   int    `json:"bad_date_rows"`
	MalformedRows int    `json:"malformed_rows"`
	DateStrategy  string `json:"date_strategy"`
}

// HealthReport summarises date quality of a history file. Rows the CSV
// reader could not decode are counted in UnreadableRows, not InvalidDates.
type HealthReport struct {
	Source         string    `json:"source"`
	CheckedAt      time.Time `json:"checked_at"`
	TotalRows      int       `json:"total_rows"`
	InvalidDates   int       `json:"invalid_dates"`
	UnreadableRows int       `json:"unreadable_rows"`
	Examples       []string  `json:"examples"`
}
