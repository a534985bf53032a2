package dataset

import (
	"io"
	"os"
	"time"

	"bakery/models"

	"github.com/pkg/errors"
)

const maxHealthExamples = 5

// CheckHealth counts the rows of the history file at path whose date is not in
// the strict YYYYMMDD form, keeping a few of them as examples.
func CheckHealth(path string) (*models.HealthReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open history %s", path)
	}
	defer f.Close()

	report, err := CheckHealthReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check history %s", path)
	}
	report.Source = path
	return report, nil
}

func CheckHealthReader(r io.Reader) (*models.HealthReport, error) {
	rows, broken, err := readRows(r)
	if err != nil {
		return nil, err
	}

	report := &models.HealthReport{
		CheckedAt:      time.Now(),
		TotalRows:      len(rows) + broken,
		UnreadableRows: broken,
		Examples:       []string{},
	}
	for _, row := range rows {
		raw := field(row, colDate)
		if _, err := Strict.Parse(raw); err == nil {
			continue
		}
		report.InvalidDates++
		if len(report.Examples) < maxHealthExamples {
			report.Examples = append(report.Examples, raw)
		}
	}
	return report, nil
}
