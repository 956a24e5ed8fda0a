package main

import (
	"errors"
	"os"

	"olx-scraper/config"
	"olx-scraper/pipeline"
	"olx-scraper/scraper/olx"
	"olx-scraper/services"
	"olx-scraper/storage"
	"olx-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== OLX Used-Car Scraping Pipeline starting ===")
	logger.Info("Config — keyword: %q | table: %s | load-more clicks: %d",
		cfg.Keyword, cfg.PostgresTable, cfg.LoadMoreClicks)

	fetcher := olx.New(cfg, logger)
	chain := pipeline.NewChain(cfg, logger, fetcher)

	runner := pipeline.NewRunner(logger)
	if err := runner.Build(chain); err != nil {
		var missing *storage.MissingTableError
		if errors.As(err, &missing) {
			logger.Error("Destination table %q is missing — provision the schema first", missing.Table)
		}
		logger.Error("Pipeline failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Pipeline complete — artifacts: %s | %s | %s | %s",
		cfg.HTMLPath, cfg.ParsedPath, cfg.TransformedPath, cfg.InsertedPath)

	printInsights(cfg, logger)
}

// printInsights reads the stored table back and prints the aggregates. Any
// failure here is non-fatal: the pipeline's work is already committed.
func printInsights(cfg *config.Config, logger *utils.Logger) {
	db, err := storage.Connect(cfg.DSN(), logger)
	if err != nil {
		logger.Warn("Skipping insights — could not connect: %v", err)
		return
	}
	pw := storage.NewPostgresWriter(db, logger)
	defer pw.Close()

	listings, err := pw.FetchAll(cfg.PostgresTable)
	if err != nil {
		logger.Warn("Skipping insights — fetch failed: %v", err)
		return
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(listings, services.InsightFilter{}))
}
