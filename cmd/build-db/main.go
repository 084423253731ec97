package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"plainrecalls/internal/logging"
	"plainrecalls/internal/metrics"
	"plainrecalls/internal/pipeline"
	"plainrecalls/pkg/utils"
)

func main() {
	cfg := utils.MustLoad()

	rawDir := flag.String("raw", cfg.RawDir, "directory holding <source>.json raw dumps")
	dbPath := flag.String("db", cfg.DBPath, "destination store path")
	flag.Parse()

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := logging.NewRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.Ctx(ctx)

	sum, err := pipeline.Run(ctx, pipeline.Options{
		RawDir:    *rawDir,
		DBPath:    *dbPath,
		BatchSize: cfg.BatchSize,
		Workers:   cfg.Workers,
	})

	if mErr := metrics.WriteTextfile(cfg.Metrics.Textfile); mErr != nil {
		log.Warn().Err(mErr).Msg("metrics not written")
	}

	if err != nil {
		log.Error().Err(err).Msg("build failed")
		os.Exit(1)
	}

	for agency, n := range sum.AgencyCounts {
		log.Info().Str("agency", agency).Int("recalls", n).Msg("agency total")
	}
	log.Info().
		Int("normalized", sum.Normalized).
		Int("recalls", sum.Recalls).
		Int("manufacturers", sum.Manufacturers).
		Str("db", *dbPath).
		Msg("done")
}
