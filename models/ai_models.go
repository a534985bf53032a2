package models

// PredictionRequest is the body of POST /predict.
type PredictionRequest struct {
	Product         string `json:"product" validate:"required"`
	TargetDate      string `json:"target_date" validate:"required"`
	WeatherForecast string `json:"weather_forecast"`
	TempForecast    int    `json:"temp_forecast"`
}

// PredictionResponse is what POST /predict answers, fallback included.
type PredictionResponse struct {
	Prediction int    `json:"prediction"`
	Reasoning  string `json:"reasoning"`
}

// ModelForecast is a deterministic forecast from a trained ProductModel.
type ModelForecast struct {
	ProductName string  `json:"product_name"`
	TargetDate  string  `json:"target_date"`
	BaseScore   float64 `json:"base_score"`
	Recommended int     `json:"recommended"`
	Status      string  `json:"status"`
	DayEffect   float64 `json:"day_effect"`
	RainEffect  float64 `json:"rain_effect"`
	TempEffect  float64 `json:"temp_effect"`
	WasteRisk   float64 `json:"waste_risk"`
	AvgMade     float64 `json:"avg_made"`
}
