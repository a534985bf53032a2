package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery/analytics"
	"bakery/config"
	"bakery/database"
	"bakery/dataset"
	"bakery/forecast"
	"bakery/handlers"
	"bakery/logger"
	"bakery/metrics"
	"bakery/pipeline"
	"bakery/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.ServerAddr, "address to serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	metrics.Init()
	ctx := context.Background()

	history := dataset.NewHistoryStore(nil)
	if h, err := dataset.LoadHistory(cfg.HistoryCSV); err != nil {
		logger.Warn("[SERVE] history not loaded, predictions run without context", zap.Error(err))
	} else {
		history.Set(h)
		metrics.ObserveLoad(h.Report())
		logger.Info("[SERVE] bakery data loaded", zap.Int("records", h.Len()))
	}

	catalog, err := forecast.LoadCatalog(cfg.SeasonalityJSON, cfg.ModelJSON)
	if err != nil {
		logger.Warn("[SERVE] documents incomplete, model forecasts may report No Data", zap.Error(err))
	}
	catalogs := forecast.NewCatalogStore(catalog)

	gen, err := forecast.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	defer gen.Close()

	var store *database.Store
	if cfg.DatabaseURL != "" {
		store, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	predictor := forecast.NewService(history, gen, cfg.FallbackPrediction, cfg.PredictTimeout)
	h := handlers.New(history, catalogs, predictor, store, cfg.HistoryCSV)

	app := newApp()
	routes.SetupRoutes(app, h, routes.Options{JWTSecret: cfg.JWTSecret, WithDB: store != nil})

	if cfg.ReloadSchedule != "" {
		r := &reloader{cfg: cfg, history: history, catalogs: catalogs}
		if store != nil {
			r.saver = store
		}
		c := cron.New()
		if _, err := c.AddFunc(cfg.ReloadSchedule, r.run); err != nil {
			return errors.Wrapf(err, "invalid RELOAD_SCHEDULE %q", cfg.ReloadSchedule)
		}
		c.Start()
		defer c.Stop()
		logger.Info("[SERVE] history reload scheduled", zap.String("schedule", cfg.ReloadSchedule))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[SERVE] listening", zap.String("addr", *addr))
		errCh <- app.Listen(*addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
		logger.Info("[SERVE] shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func newApp() *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	return app
}

// reloader rebuilds the history snapshot and both documents, then swaps them
// in for new requests. Requests already running keep the old snapshot.
type reloader struct {
	cfg      *config.Config
	history  *dataset.HistoryStore
	catalogs *forecast.CatalogStore
	saver    pipeline.DocumentSaver
}

func (r *reloader) run() {
	opts := pipeline.Options{
		HistoryCSV:      r.cfg.HistoryCSV,
		SeasonalityJSON: r.cfg.SeasonalityJSON,
		ModelJSON:       r.cfg.ModelJSON,
		Saver:           r.saver,
	}

	res, err := pipeline.Run(context.Background(), opts, pipeline.StepAll)
	if res == nil {
		metrics.HistoryReloads.WithLabelValues("error").Inc()
		logger.Error("[RELOAD] failed, keeping previous snapshot", zap.Error(err))
		return
	}
	if err != nil {
		logger.Warn("[RELOAD] documents not mirrored", zap.Error(err))
	}

	r.history.Set(res.History)
	r.catalogs.Set(forecast.NewCatalog(
		analytics.SeasonalityDocs(res.Seasonality),
		analytics.ModelDocs(res.Models),
	))
	metrics.HistoryReloads.WithLabelValues("ok").Inc()
	logger.Info("[RELOAD] snapshot replaced",
		zap.String("run_id", res.RunID), zap.Int("records", res.History.Len()))
}
