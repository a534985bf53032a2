package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Core Models ---

// SalesRecord is one cleaned row of the sales history. A positive Quantity is
// units sold, a negative one is units wasted or returned.
type SalesRecord struct {
	Date        time.Time `json:"date"`
	Product     string    `json:"product"`
	Quantity    int       `json:"quantity"`
	Weather     string    `json:"weather"`
	Temperature float64   `json:"temperature"`
}

// Weekdays lists weekday names from Monday, matching WeekdayIndex.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex maps a date to 0=Monday..6=Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
