package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateStrategy parses one raw date value or reports a *DateError.
type DateStrategy interface {
	Name() string
	Parse(raw string) (time.Time, error)
}

// DateError is returned by a DateStrategy that cannot read a value.
type DateError struct {
	Value    string
	Strategy string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: cannot parse date %q", e.Strategy, e.Value)
}

type layoutStrategy struct {
	name    string
	layouts []string
}

func (s layoutStrategy) Name() string {
	return s.name
}

func (s layoutStrategy) Parse(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range s.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, &DateError{Value: raw, Strategy: s.name}
}

// autoStrategy tries its layouts first and then lets dateparse guess the
// format. Ambiguous numeric dates are read month first.
type autoStrategy struct {
	layoutStrategy
}

func (s autoStrategy) Parse(raw string) (time.Time, error) {
	if t, err := s.layoutStrategy.Parse(raw); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, &DateError{Value: raw, Strategy: s.name}
	}
	return dateOnly(t), nil
}

// dateOnly drops the time of day, keeping the calendar date as written.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	// Strict accepts only eight-digit YYYYMMDD dates.
	Strict DateStrategy = layoutStrategy{name: "strict", layouts: []string{"20060102"}}

	// Permissive accepts the date spellings people type into spreadsheets and
	// the date-times spreadsheets export. Numeric slash dates are read month
	// first.
	Permissive DateStrategy = autoStrategy{layoutStrategy{name: "permissive", layouts: []string{
		"2006-1-2",
		"2006/1/2",
		"2006.1.2",
		"1/2/2006",
		"1-2-2006",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"2006-1-2 15:04:05",
		"2006-1-2 15:04",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"January 2 2006",
		"2 Jan 2006",
		"2 January 2006",
		"02-Jan-2006",
		"Mon, 02 Jan 2006",
		"20060102",
	}}}
)

// DateChain is an ordered list of strategies applied to a whole date column.
type DateChain []DateStrategy

// DefaultDateChain tries Strict first, then Permissive.
var DefaultDateChain = DateChain{Strict, Permissive}

// ParseColumn applies the first strategy that can read at least one value to
// every value. ok[i] is false for values that strategy rejects; those rows are
// meant to be dropped. The name of the winning strategy is returned, or "none".
func (c DateChain) ParseColumn(values []string) (dates []time.Time, ok []bool, strategy string) {
	for _, s := range c {
		dates = make([]time.Time, len(values))
		ok = make([]bool, len(values))
		parsed := 0
		for i, v := range values {
			t, err := s.Parse(v)
			if err != nil {
				continue
			}
			dates[i], ok[i] = t, true
			parsed++
		}
		if parsed > 0 {
			return dates, ok, s.Name()
		}
	}
	return make([]time.Time, len(values)), make([]bool, len(values)), "none"
}
