package handlers

import (
	"bakery/database"
	"bakery/dataset"
	"bakery/forecast"

	"github.com/go-playground/validator/v10"
)

// Handler carries the read-only state shared by every request.
type Handler struct {
	history     *dataset.HistoryStore
	catalog     *forecast.CatalogStore
	predictor   *forecast.Service
	db          *database.Store
	historyPath string
	validate    *validator.Validate
}

// New builds a Handler. db may be nil when Postgres is not configured.
func New(history *dataset.HistoryStore, catalog *forecast.CatalogStore, predictor *forecast.Service, db *database.Store, historyPath string) *Handler {
	return &Handler{
		history:     history,
		catalog:     catalog,
		predictor:   predictor,
		db:          db,
		historyPath: historyPath,
		validate:    validator.New(),
	}
}
