package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"plainrecalls/internal/logging"
	"plainrecalls/internal/seed"
	"plainrecalls/pkg/database"
	"plainrecalls/pkg/utils"
)

func main() {
	cfg := utils.MustLoad()

	dbPath := flag.String("db", cfg.DBPath, "store to export")
	outDir := flag.String("out", cfg.Seed.Dir, "output directory for seed SQL files")
	flag.Parse()

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(database.Config{Path: *dbPath, ReadOnly: true})
	defer db.Close()

	exp := &seed.Exporter{DB: db, Dir: *outDir}
	files, err := exp.Export(ctx, seed.Tables(seed.Options{
		RowsPerInsert:        cfg.Seed.RowsPerInsert,
		InsertsPerFile:       cfg.Seed.InsertsPerFile,
		RecallRowsPerInsert:  cfg.Seed.RecallRowsPerInsert,
		RecallInsertsPerFile: cfg.Seed.RecallInsertsPerFile,
	}))
	if err != nil {
		logging.Error().Err(err).Msg("seed export failed")
		db.Close()
		os.Exit(1)
	}

	logging.Info().Int("files", len(files)).Str("dir", *outDir).Msg("seed files written")
}
