package analytics

import (
	"math"
	"testing"

	"bakery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sales = 10 - 4*rain + 0.5*temp, no weekday effect.
func exactRecords() []models.SalesRecord {
	return []models.SalesRecord{
		rec("2024-01-01", "Bread", 15, "Clear", 10),
		rec("2024-01-02", "Bread", 12, "Rain", 12),
		rec("2024-01-03", "Bread", 20, "Clear", 20),
		rec("2024-01-08", "Bread", 14, "Rain", 16),
		rec("2024-01-09", "Bread", 14, "Clear", 8),
		rec("2024-01-10", "Bread", 13, "Snow", 14),
		rec("2024-01-15", "Bread", 19, "Clear", 18),
		rec("2024-01-16", "Bread", 17, "Rain", 22),
	}
}

func TestTrainRecoversExactModel(t *testing.T) {
	got := Train(exactRecords())
	require.Len(t, got, 1)

	m := got[0]
	require.Equal(t, models.FitOK, m.Outcome, "reason: %v", m.Reason)
	assert.NoError(t, m.Reason)
	assert.InDelta(t, 10.0, m.BaseBias, 1e-9)
	assert.InDelta(t, -4.0, m.Weights[FeatureRain], 1e-9)
	assert.InDelta(t, 0.5, m.Weights[FeatureTemp], 1e-9)
	for _, d := range models.Weekdays {
		assert.InDelta(t, 0.0, m.Weights[DayFeature(d)], 1e-9, d)
	}
	assert.Len(t, m.Weights, len(FeatureNames))
}

func TestTrainInsufficientData(t *testing.T) {
	records := []models.SalesRecord{
		rec("2024-01-01", "Cake", 4, "Clear", 10),
		rec("2024-01-02", "Cake", 7, "Clear", 10),
		rec("2024-01-03", "Cake", -2, "Clear", 10),
	}
	got := Train(records)
	require.Len(t, got, 1)

	m := got[0]
	assert.Equal(t, models.FitInsufficientData, m.Outcome)
	assert.ErrorIs(t, m.Reason, ErrInsufficientData)
	assert.Equal(t, 5.5, m.BaseBias)
	assert.Empty(t, m.Weights)
	assert.Equal(t, 2, m.Waste.TotalWaste)
}

func TestTrainNonNumericTemperatureFails(t *testing.T) {
	records := exactRecords()
	records[3].Temperature = math.NaN()

	got := Train(records)
	require.Len(t, got, 1)
	assert.Equal(t, models.FitFailed, got[0].Outcome)
	assert.ErrorIs(t, got[0].Reason, ErrFitFailed)
	assert.Empty(t, got[0].Weights)
	assert.Equal(t, 15.5, got[0].BaseBias)
}

func TestTrainSkipsSingleRecordProduct(t *testing.T) {
	records := append(exactRecords(), rec("2024-01-01", "Pie", 6, "Clear", 10))
	got := Train(records)
	require.Len(t, got, 1)
	assert.Equal(t, "Bread", got[0].Product)

	// Waste figures of the single record are still computable.
	w := Waste(records[len(records)-1:])
	assert.Equal(t, 1, w.ActiveDays)
	assert.Equal(t, 6.0, w.AvgMade)
}

func TestWaste(t *testing.T) {
	w := Waste([]models.SalesRecord{
		rec("2024-01-01", "Bread", -3, "Clear", 10),
		rec("2024-01-02", "Bread", 0, "Clear", 10),
		rec("2024-01-03", "Bread", 8, "Clear", 10),
	})
	assert.Equal(t, 3, w.TotalWaste)
	assert.Equal(t, 8, w.TotalSold)
	assert.Equal(t, 11, w.TotalMade)
	assert.Equal(t, 3, w.ActiveDays)
	assert.Equal(t, 1.0, w.AvgWaste)
	assert.Equal(t, 3.7, w.AvgMade)

	empty := Waste(nil)
	assert.Equal(t, 0.0, empty.AvgWaste)
	assert.Equal(t, 0.0, empty.AvgMade)
}

func TestIsRainyIsCaseSensitive(t *testing.T) {
	assert.True(t, IsRainy("Light Rain"))
	assert.True(t, IsRainy("Snow"))
	assert.False(t, IsRainy("rain"))
	assert.False(t, IsRainy("Clear"))
}

func TestModelDocs(t *testing.T) {
	docs := ModelDocs([]models.ProductModel{{
		Product:  "Cake",
		BaseBias: 5.5,
		Waste:    models.WasteStats{AvgWaste: 0.7, AvgMade: 6.2},
	}})
	require.Contains(t, docs, "Cake")
	assert.NotNil(t, docs["Cake"].Weights)
	assert.Equal(t, 0.7, docs["Cake"].WasteRisk)
	assert.Equal(t, 6.2, docs["Cake"].AvgMade)
}

func TestFitOLSRejectsBadShape(t *testing.T) {
	_, err := fitOLS([][]float64{{1}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrFitFailed)
}
