package forecast

import (
	"math"
	"strings"
	"sync/atomic"
	"time"

	"bakery/analytics"
	"bakery/dataset"
	"bakery/documents"
	"bakery/models"

	"github.com/pkg/errors"
)

// Catalog holds the persisted seasonality and model documents, keyed by
// normalised product name. It is never modified after construction.
type Catalog struct {
	seasonality map[string]models.SeasonalityDoc
	models      map[string]models.ModelDoc
}

func NewCatalog(seasonality map[string]models.SeasonalityDoc, trained map[string]models.ModelDoc) *Catalog {
	c := &Catalog{
		seasonality: make(map[string]models.SeasonalityDoc, len(seasonality)),
		models:      make(map[string]models.ModelDoc, len(trained)),
	}
	for name, doc := range seasonality {
		c.seasonality[dataset.NormalizeProduct(name)] = doc
	}
	for name, doc := range trained {
		c.models[dataset.NormalizeProduct(name)] = doc
	}
	return c
}

// LoadCatalog reads both documents. A missing document leaves that half of
// the catalog empty; the returned error lists what could not be read.
func LoadCatalog(seasonalityPath, modelPath string) (*Catalog, error) {
	var seasonality map[string]models.SeasonalityDoc
	var trained map[string]models.ModelDoc
	var problems []string

	if err := documents.Read(seasonalityPath, &seasonality); err != nil {
		problems = append(problems, err.Error())
	}
	if err := documents.Read(modelPath, &trained); err != nil {
		problems = append(problems, err.Error())
	}

	c := NewCatalog(seasonality, trained)
	if len(problems) > 0 {
		return c, errors.New(strings.Join(problems, "; "))
	}
	return c, nil
}

func (c *Catalog) Seasonality(product string) (models.SeasonalityDoc, bool) {
	doc, ok := c.seasonality[dataset.NormalizeProduct(product)]
	return doc, ok
}

func (c *Catalog) Model(product string) (models.ModelDoc, bool) {
	doc, ok := c.models[dataset.NormalizeProduct(product)]
	return doc, ok
}

// Forecast applies the trained model of product to a day and its weather.
// Rain detection here ignores case. An unknown product yields status
// "No Data" and zeros.
func (c *Catalog) Forecast(product, weather string, temp float64, day time.Time) models.ModelForecast {
	out := models.ModelForecast{
		ProductName: product,
		TargetDate:  day.Format("2006-01-02"),
	}

	model, ok := c.Model(product)
	if !ok {
		out.Status = "No Data"
		return out
	}

	dayName := day.Weekday().String()
	lower := strings.ToLower(weather)
	isRain := strings.Contains(lower, "rain") || strings.Contains(lower, "snow")

	dayEffect := model.Weights[analytics.DayFeature(dayName)]
	rainEffect := 0.0
	if isRain {
		rainEffect = model.Weights[analytics.FeatureRain]
	}
	tempEffect := temp * model.Weights[analytics.FeatureTemp]

	predicted := model.BaseBias + dayEffect + rainEffect + tempEffect

	out.BaseScore = model.BaseBias
	out.Recommended = int(math.Max(0, math.Round(predicted)))
	out.Status = forecastStatus(dayName, dayEffect, rainEffect, tempEffect, temp)
	out.DayEffect = dayEffect
	out.RainEffect = rainEffect
	out.TempEffect = tempEffect
	out.WasteRisk = model.WasteRisk
	out.AvgMade = model.AvgMade
	return out
}

// forecastStatus labels the strongest effect; later rules win.
func forecastStatus(dayName string, dayEffect, rainEffect, tempEffect, temp float64) string {
	status := ""
	if dayEffect >= 1.0 {
		status = dayName + " Boost"
	} else if dayEffect <= -1.0 {
		status = dayName + " Drop"
	}
	if rainEffect <= -1.0 {
		status = "Rain Drop"
	}
	if temp > 25 && tempEffect >= 1.0 {
		status = "Heat Spike"
	}
	if status == "" {
		status = "Stable"
	}
	return status
}

// CatalogStore holds the current Catalog for concurrent readers.
type CatalogStore struct {
	current atomic.Pointer[Catalog]
}

func NewCatalogStore(c *Catalog) *CatalogStore {
	s := &CatalogStore{}
	if c == nil {
		c = NewCatalog(nil, nil)
	}
	s.current.Store(c)
	return s
}

func (s *CatalogStore) Get() *Catalog {
	return s.current.Load()
}

func (s *CatalogStore) Set(c *Catalog) {
	s.current.Store(c)
}
