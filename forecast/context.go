package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"

	"bakery/dataset"
)

// contextDepth is how many past same-weekday sales go into a prompt.
const contextDepth = 5

// HistoricalContext describes recent sales of product on the weekday of
// targetDate (YYYY-MM-DD) for use in a prompt. Missing data and a bad date
// are reported in the text rather than as errors.
func HistoricalContext(h *dataset.History, product, targetDate string) string {
	if h.Empty() {
		return "No historical data available."
	}

	target, err := time.Parse("2006-01-02", targetDate)
	if err != nil {
		return "Invalid date format."
	}
	day := target.Weekday()

	rows := h.SameWeekday(product, day, contextDepth)
	if len(rows) == 0 {
		return fmt.Sprintf("No history found for %s on %ss.", product, day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sales history for %s on previous %ss:\n", product, day)
	for _, r := range rows {
		fmt.Fprintf(&b, "- %s: Sold %d units (Weather: %s, %s°C)\n",
			r.Date.Format("2006-01-02"), r.Quantity, r.Weather, formatTemp(r.Temperature))
	}
	return b.String()
}

func formatTemp(t float64) string {
	if math.IsNaN(t) {
		return "unknown"
	}
	return fmt.Sprintf("%g", t)
}
