package analytics

import (
	"sort"
	"strings"

	"bakery/logger"
	"bakery/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Feature names as they appear in the weights of a trained model.
const (
	FeatureRain = "is_rain"
	FeatureTemp = "temp"
)

// DayFeature names the indicator for a weekday, e.g. "day_Monday".
func DayFeature(day string) string {
	return "day_" + day
}

// FeatureNames lists model features in column order.
var FeatureNames = func() []string {
	names := make([]string, 0, len(models.Weekdays)+2)
	for _, d := range models.Weekdays {
		names = append(names, DayFeature(d))
	}
	return append(names, FeatureRain, FeatureTemp)
}()

const (
	minTrainingRecords = 2
	minPositiveSales   = 3
)

// IsRainy reports whether a weather description counts as rain or snow.
// The match is case-sensitive.
func IsRainy(weather string) bool {
	return strings.Contains(weather, "Rain") || strings.Contains(weather, "Snow")
}

// Features builds the feature row of a record in FeatureNames order.
func Features(r models.SalesRecord) []float64 {
	row := make([]float64, len(FeatureNames))
	row[models.WeekdayIndex(r.Date)] = 1
	if IsRainy(r.Weather) {
		row[len(models.Weekdays)] = 1
	}
	row[len(models.Weekdays)+1] = r.Temperature
	return row
}

// Train fits one model per product that has at least two records, ordered by
// product. A product whose fit cannot be made falls back to its mean positive
// sale and empty weights; the reason is kept on the model.
func Train(records []models.SalesRecord) []models.ProductModel {
	groups := make(map[string][]models.SalesRecord)
	for _, r := range records {
		groups[r.Product] = append(groups[r.Product], r)
	}

	products := make([]string, 0, len(groups))
	for p := range groups {
		products = append(products, p)
	}
	sort.Strings(products)

	out := make([]models.ProductModel, 0, len(products))
	for _, p := range products {
		subset := groups[p]
		if len(subset) < minTrainingRecords {
			logger.Debug("[TRAIN] skipped product with too few records",
				zap.String("product", p), zap.Int("records", len(subset)))
			continue
		}
		out = append(out, trainProduct(p, subset))
	}
	return out
}

func trainProduct(product string, subset []models.SalesRecord) models.ProductModel {
	model := models.ProductModel{
		Product: product,
		Weights: map[string]float64{},
		Waste:   Waste(subset),
	}

	var sales []models.SalesRecord
	for _, r := range subset {
		if r.Quantity > 0 {
			sales = append(sales, r)
		}
	}

	fit, err := fitSales(sales)
	switch {
	case err == nil:
		model.Outcome = models.FitOK
		model.BaseBias = round(fit.Intercept, 2)
		for i, name := range FeatureNames {
			model.Weights[name] = round(fit.Coefficients[i], 2)
		}
	case errors.Is(err, ErrInsufficientData):
		model.Outcome = models.FitInsufficientData
		model.BaseBias = round(meanQuantity(sales), 2)
	default:
		model.Outcome = models.FitFailed
		model.BaseBias = round(meanQuantity(sales), 2)
		logger.Warn("[TRAIN] fit failed, using mean",
			zap.String("product", product), zap.Error(err))
	}
	model.Reason = err
	return model
}

func fitSales(sales []models.SalesRecord) (linearFit, error) {
	if len(sales) < minPositiveSales {
		return linearFit{}, errors.Wrapf(ErrInsufficientData, "%d positive records", len(sales))
	}
	x := make([][]float64, len(sales))
	y := make([]float64, len(sales))
	for i, r := range sales {
		x[i] = Features(r)
		y[i] = float64(r.Quantity)
	}
	return fitOLS(x, y)
}

func meanQuantity(rs []models.SalesRecord) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rs {
		sum += r.Quantity
	}
	return float64(sum) / float64(len(rs))
}

// Waste summarises production and waste over every record given, regardless
// of sign. A zero quantity counts only as an active day.
func Waste(records []models.SalesRecord) models.WasteStats {
	var w models.WasteStats
	for _, r := range records {
		switch {
		case r.Quantity < 0:
			w.TotalWaste += -r.Quantity
		case r.Quantity > 0:
			w.TotalSold += r.Quantity
		}
	}
	w.TotalMade = w.TotalSold + w.TotalWaste
	w.ActiveDays = len(records)

	if w.ActiveDays > 0 {
		w.AvgWaste = round(float64(w.TotalWaste)/float64(w.ActiveDays), 1)
		w.AvgMade = round(float64(w.TotalMade)/float64(w.ActiveDays), 1)
	}
	return w
}

// ModelDocs keys trained models by product for persistence.
func ModelDocs(items []models.ProductModel) map[string]models.ModelDoc {
	docs := make(map[string]models.ModelDoc, len(items))
	for _, m := range items {
		weights := m.Weights
		if weights == nil {
			weights = map[string]float64{}
		}
		docs[m.Product] = models.ModelDoc{
			BaseBias:  m.BaseBias,
			Weights:   weights,
			WasteRisk: m.Waste.AvgWaste,
			AvgMade:   m.Waste.AvgMade,
		}
	}
	return docs
}
