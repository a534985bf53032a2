package pipeline

import (
	"context"

	"bakery/analytics"
	"bakery/database"
	"bakery/dataset"
	"bakery/documents"
	"bakery/logger"
	"bakery/metrics"
	"bakery/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Document names used for the Postgres mirror.
const (
	SeasonalityDocument = "seasonality"
	ModelDocument       = "ml_model"
)

// Step selects which outputs a run produces.
type Step int

const (
	StepSeasonality Step = 1 << iota
	StepTrain

	StepAll = StepSeasonality | StepTrain
)

// DocumentSaver is satisfied by *database.Store.
type DocumentSaver interface {
	SaveDocuments(ctx context.Context, runID string, docs ...database.Document) error
}

// Options names the input and outputs of a run. Saver may be nil.
type Options struct {
	HistoryCSV      string
	SeasonalityJSON string
	ModelJSON       string
	Saver           DocumentSaver
}

// Result is everything one run computed.
type Result struct {
	RunID       string
	History     *dataset.History
	Seasonality []models.ProductSeasonality
	Models      []models.ProductModel
}

// Run loads the history once, computes the requested steps and only then
// writes their documents. A history that cannot be read stops the run before
// anything is written.
func Run(ctx context.Context, opts Options, steps Step) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := logger.L().With(zap.String("run_id", res.RunID))

	history, err := dataset.LoadHistory(opts.HistoryCSV)
	if err != nil {
		return nil, err
	}
	res.History = history
	metrics.ObserveLoad(history.Report())

	records := history.Records()
	if steps&StepSeasonality != 0 {
		res.Seasonality = analytics.Seasonality(records)
	}
	if steps&StepTrain != 0 {
		res.Models = analytics.Train(records)
		for _, m := range res.Models {
			metrics.ModelFits.WithLabelValues(string(m.Outcome)).Inc()
		}
	}

	var docs []database.Document
	if steps&StepSeasonality != 0 {
		body, err := writeDocument(opts.SeasonalityJSON, analytics.SeasonalityDocs(res.Seasonality))
		if err != nil {
			return nil, err
		}
		docs = append(docs, database.Document{Name: SeasonalityDocument, Body: body})
		log.Info("[SEASONALITY] factors saved",
			zap.Int("products", len(res.Seasonality)), zap.String("path", opts.SeasonalityJSON))
	}
	if steps&StepTrain != 0 {
		body, err := writeDocument(opts.ModelJSON, analytics.ModelDocs(res.Models))
		if err != nil {
			return nil, err
		}
		docs = append(docs, database.Document{Name: ModelDocument, Body: body})
		log.Info("[TRAIN] models saved",
			zap.Int("products", len(res.Models)), zap.String("path", opts.ModelJSON))
	}

	if opts.Saver != nil && len(docs) > 0 {
		if err := opts.Saver.SaveDocuments(ctx, res.RunID, docs...); err != nil {
			return res, errors.Wrap(err, "failed to mirror documents")
		}
	}
	return res, nil
}

func writeDocument(path string, v interface{}) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no output path configured")
	}
	body, err := documents.Encode(v)
	if err != nil {
		return nil, err
	}
	if err := documents.WriteBytes(path, body); err != nil {
		return nil, err
	}
	return body, nil
}
