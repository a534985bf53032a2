package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// round rounds half away from zero on the decimal value of x, so 0.125
// becomes 0.13 rather than whatever its binary neighbour rounds to.
func round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}
