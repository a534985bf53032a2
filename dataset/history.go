package dataset

import (
	"sort"
	"sync/atomic"
	"time"

	"bakery/models"
)

// History is a read-only snapshot of the cleaned sales table. Handlers share
// one History; a reload builds a new one instead of mutating it.
type History struct {
	source   string
	records  []models.SalesRecord
	report   models.LoadReport
	loadedAt time.Time
}

// NewHistory copies records and orders them newest first.
func NewHistory(source string, records []models.SalesRecord, report models.LoadReport) *History {
	sorted := make([]models.SalesRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return &History{
		source:   source,
		records:  sorted,
		report:   report,
		loadedAt: time.Now(),
	}
}

// LoadHistory loads and cleans the file at path into a History.
func LoadHistory(path string) (*History, error) {
	records, report, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewHistory(path, records, report), nil
}

func (h *History) Source() string {
	return h.source
}

func (h *History) Empty() bool {
	return h == nil || len(h.records) == 0
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.records)
}

func (h *History) Report() models.LoadReport {
	return h.report
}

func (h *History) LoadedAt() time.Time {
	return h.loadedAt
}

// Records returns a copy of every record, newest first.
func (h *History) Records() []models.SalesRecord {
	if h == nil {
		return nil
	}
	out := make([]models.SalesRecord, len(h.records))
	copy(out, h.records)
	return out
}

// SameWeekday returns up to limit records of product that fall on day,
// newest first. The product name is normalised before matching.
func (h *History) SameWeekday(product string, day time.Weekday, limit int) []models.SalesRecord {
	if h == nil {
		return nil
	}
	key := NormalizeProduct(product)
	var out []models.SalesRecord
	for _, rec := range h.records {
		if limit > 0 && len(out) == limit {
			break
		}
		if rec.Product == key && rec.Date.Weekday() == day {
			out = append(out, rec)
		}
	}
	return out
}

// HistoryStore holds the current History for concurrent readers.
type HistoryStore struct {
	current atomic.Pointer[History]
}

func NewHistoryStore(h *History) *HistoryStore {
	s := &HistoryStore{}
	s.current.Store(h)
	return s
}

// Get returns the current snapshot, which may be nil.
func (s *HistoryStore) Get() *History {
	return s.current.Load()
}

// Set swaps in a new snapshot.
func (s *HistoryStore) Set(h *History) {
	s.current.Store(h)
}
