package dataset

import (
	"testing"
	"time"

	"bakery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHistorySameWeekday(t *testing.T) {
	var records []models.SalesRecord
	// Seven Mondays of Bread, oldest first, plus noise.
	for i := 0; i < 7; i++ {
		records = append(records, models.SalesRecord{
			Date: day(2024, 1, 1).AddDate(0, 0, 7*i), Product: "Bread", Quantity: i + 1,
		})
	}
	records = append(records,
		models.SalesRecord{Date: day(2024, 1, 2), Product: "Bread", Quantity: 50},
		models.SalesRecord{Date: day(2024, 1, 8), Product: "Cake", Quantity: 60},
	)

	h := NewHistory("test", records, models.LoadReport{KeptRows: len(records)})
	assert.Equal(t, 9, h.Len())
	assert.False(t, h.Empty())

	got := h.SameWeekday("Bread", time.Monday, 5)
	require.Len(t, got, 5)
	assert.Equal(t, 7, got[0].Quantity)
	assert.Equal(t, 3, got[4].Quantity)

	assert.Len(t, h.SameWeekday(" Bre ad", time.Monday, 0), 7)
	assert.Empty(t, h.SameWeekday("Bread", time.Sunday, 5))
}

func TestHistoryRecordsIsACopy(t *testing.T) {
	h := NewHistory("test", []models.SalesRecord{{Date: day(2024, 1, 1), Product: "Bread", Quantity: 1}}, models.LoadReport{})
	got := h.Records()
	got[0].Quantity = 100
	assert.Equal(t, 1, h.Records()[0].Quantity)
}

func TestNilHistory(t *testing.T) {
	var h *History
	assert.True(t, h.Empty())
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.SameWeekday("Bread", time.Monday, 5))
}

func TestHistoryStoreSwap(t *testing.T) {
	s := NewHistoryStore(nil)
	assert.Nil(t, s.Get())

	h := NewHistory("a", nil, models.LoadReport{})
	s.Set(h)
	assert.Same(t, h, s.Get())
}
