package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bakery/config"
	"bakery/database"
	"bakery/dataset"
	"bakery/logger"
	"bakery/pipeline"

	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bakery <command> [options]

commands:
  seasonality   compute weekday demand factors
  train         train per-product sales models and waste statistics
  pipeline      run seasonality and train in one pass
  health        check the dates in the history file
  serve         start the prediction API

Run "bakery <command> -h" for the options of a command.`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if !cfg.EnvFileLoaded {
		logger.Debug("No .env file found, using environment variables directly")
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "seasonality":
		err = runBatch(cfg, cmd, args, pipeline.StepSeasonality)
	case "train":
		err = runBatch(cfg, cmd, args, pipeline.StepTrain)
	case "pipeline":
		err = runBatch(cfg, cmd, args, pipeline.StepAll)
	case "health":
		err = runHealth(cfg, args)
	case "serve":
		err = runServe(cfg, args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", zap.String("command", cmd), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// runBatch is one load -> compute -> persist pass over the history file.
func runBatch(cfg *config.Config, name string, args []string, steps pipeline.Step) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	csvPath := fs.String("csv", cfg.HistoryCSV, "sales history `file`")
	seasonalityOut := fs.String("seasonality-out", cfg.SeasonalityJSON, "seasonality document `file`")
	modelOut := fs.String("model-out", cfg.ModelJSON, "model document `file`")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	opts := pipeline.Options{
		HistoryCSV:      *csvPath,
		SeasonalityJSON: *seasonalityOut,
		ModelJSON:       *modelOut,
	}

	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Saver = store
	}

	res, err := pipeline.Run(ctx, opts, steps)
	if err != nil {
		return err
	}

	report := res.History.Report()
	logger.Info("Pipeline finished",
		zap.String("run_id", res.RunID),
		zap.Int("rows_kept", report.KeptRows),
		zap.Int("rows_dropped_bad_date", report.BadDateRows),
		zap.Int("rows_dropped_malformed", report.MalformedRows),
	)
	return nil
}

func runHealth(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	csvPath := fs.String("csv", cfg.HistoryCSV, "sales history `file`")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Printf("Checking data in: %s\n", *csvPath)
	report, err := dataset.CheckHealth(*csvPath)
	if err != nil {
		return err
	}

	fmt.Printf("Total Rows Found: %d\n", report.TotalRows)
	fmt.Printf("Invalid Dates Found: %d\n", report.InvalidDates)
	if report.UnreadableRows > 0 {
		fmt.Printf("Unreadable Rows: %d\n", report.UnreadableRows)
	}
	if report.InvalidDates == 0 {
		fmt.Println("All dates are valid.")
		return nil
	}
	fmt.Println("\nExamples of bad data (fix these in the history file):")
	for _, ex := range report.Examples {
		fmt.Printf("  %q\n", ex)
	}
	return nil
}
