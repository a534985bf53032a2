package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"bakery/logger"
	"bakery/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column positions in the history file. Column 3 is not used.
const (
	colDate        = 0
	colProduct     = 1
	colQuantity    = 2
	colWeather     = 4
	colTemperature = 5
	minColumns     = 6
)

var (
	ErrEmptyInput     = errors.New("history file is empty")
	ErrMissingColumns = errors.New("history header has too few columns")
)

// Loader turns a delimited sales history into cleaned records.
type Loader struct {
	Dates DateChain
}

func NewLoader() *Loader {
	return &Loader{Dates: DefaultDateChain}
}

// Load reads and cleans the history file at path with the default loader.
func Load(path string) ([]models.SalesRecord, models.LoadReport, error) {
	return NewLoader().Load(path)
}

func (l *Loader) Load(path string) ([]models.SalesRecord, models.LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.LoadReport{}, errors.Wrapf(err, "failed to open history %s", path)
	}
	defer f.Close()

	records, report, err := l.Read(f)
	if err != nil {
		return nil, report, errors.Wrapf(err, "failed to load history %s", path)
	}
	return records, report, nil
}

// Read cleans an already opened history. The header row is required.
func (l *Loader) Read(r io.Reader) ([]models.SalesRecord, models.LoadReport, error) {
	rows, broken, err := readRows(r)
	if err != nil {
		return nil, models.LoadReport{}, err
	}

	raw := make([]string, len(rows))
	for i, row := range rows {
		raw[i] = field(row, colDate)
	}
	dates, ok, strategy := l.Dates.ParseColumn(raw)
	if len(l.Dates) > 0 && strategy != l.Dates[0].Name() {
		logger.Warn("[LOADER] first date strategy matched nothing, switched",
			zap.String("strategy", strategy))
	}

	report := models.LoadReport{
		TotalRows:     len(rows) + broken,
		MalformedRows: broken,
		DateStrategy:  strategy,
	}
	records := make([]models.SalesRecord, 0, len(rows))
	for i, row := range rows {
		if !ok[i] {
			report.BadDateRows++
			continue
		}

		product := NormalizeProduct(field(row, colProduct))
		qty, err := parseQuantity(field(row, colQuantity))
		if product == "" || err != nil {
			report.MalformedRows++
			continue
		}

		temp, err := strconv.ParseFloat(field(row, colTemperature), 64)
		if err != nil {
			temp = math.NaN()
		}

		records = append(records, models.SalesRecord{
			Date:        dates[i],
			Product:     product,
			Quantity:    qty,
			Weather:     field(row, colWeather),
			Temperature: temp,
		})
	}
	report.KeptRows = len(records)

	logger.Info("[LOADER] history cleaned",
		zap.Int("total", report.TotalRows),
		zap.Int("kept", report.KeptRows),
		zap.Int("bad_dates", report.BadDateRows),
		zap.Int("malformed", report.MalformedRows),
		zap.String("date_strategy", report.DateStrategy),
	)
	return records, report, nil
}

// NormalizeProduct removes every whitespace rune so that "Choc Cake" and
// "ChocCake" name the same product.
func NormalizeProduct(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// readRows returns the data rows after validating the header, plus the number
// of rows the CSV reader could not decode.
func readRows(r io.Reader) ([][]string, int, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, ErrEmptyInput
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read history header")
	}
	if len(header) < minColumns {
		return nil, 0, errors.Wrapf(ErrMissingColumns, "got %d, need %d", len(header), minColumns)
	}

	var rows [][]string
	broken := 0
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, 0, errors.Wrapf(err, "failed to read history line %d", line)
			}
			logger.Warn("[LOADER] unreadable row skipped", zap.Int("line", line), zap.Error(err))
			broken++
			continue
		}
		rows = append(rows, rec)
	}
	return rows, broken, nil
}

func field(rec []string, idx int) string {
	if idx < len(rec) {
		return strings.TrimSpace(rec[idx])
	}
	return ""
}

// parseQuantity accepts integers, including integral floats such as "12.0"
// that spreadsheet exports produce.
func parseQuantity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("quantity %q is not a whole number", s)
	}
	return int(f), nil
}
