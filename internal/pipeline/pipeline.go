// Package pipeline runs one full store build: normalize, classify, assign
// identities, deduplicate, aggregate and write.
//
// The store is built into a temporary file next to the destination and
// renamed over it only after every write has committed, so readers see
// either the previous store or the new one, never a partial build.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"plainrecalls/internal/aggregate"
	"plainrecalls/internal/classify"
	"plainrecalls/internal/identity"
	"plainrecalls/internal/ingest"
	"plainrecalls/internal/logging"
	"plainrecalls/internal/metrics"
	"plainrecalls/internal/store"
	"plainrecalls/pkg/database"
	"plainrecalls/pkg/models"
)

type Options struct {
	RawDir    string
	DBPath    string
	BatchSize int
	Workers   int
	Sources   []ingest.Source // nil means ingest.DefaultSources()
}

// Summary describes a finished run.
type Summary struct {
	RunID         string
	Normalized    int
	Recalls       int
	Manufacturers int
	AgencyCounts  map[string]int
	Stats         models.Stats
	Sources       []models.SourceManifest
}

// Build holds the in-memory result of every stage before the store write.
type Build struct {
	Recalls   []models.Recall
	Aggregate aggregate.Result
	Sources   []models.SourceManifest
	Raw       int
}

// Prepare runs every pure stage and returns the records ready to write.
func Prepare(ctx context.Context, opts Options) (*Build, error) {
	log := logging.Ctx(ctx)

	sources := opts.Sources
	if sources == nil {
		sources = ingest.DefaultSources()
	}

	all, manifests, err := ingest.NormalizeAll(ctx, opts.RawDir, sources, opts.Workers)
	if err != nil {
		return nil, err
	}
	log.Info().Int("records", len(all)).Msg("normalized")

	start := time.Now()
	classify.ClassifyAll(all)
	metrics.ObserveStage("classify", start)

	start = time.Now()
	identity.Assign(all, identity.NewSlugSet())
	recalls := identity.Dedupe(all)
	metrics.ObserveStage("identity", start)
	metrics.StageRecords.WithLabelValues("deduplicated").Set(float64(len(recalls)))
	log.Info().Int("records", len(recalls)).Int("dropped", len(all)-len(recalls)).Msg("deduplicated")

	start = time.Now()
	agg := aggregate.Run(recalls)
	metrics.ObserveStage("aggregate", start)
	metrics.StageRecords.WithLabelValues("manufacturers").Set(float64(len(agg.Manufacturers)))
	log.Info().Int("manufacturers", len(agg.Manufacturers)).Msg("aggregated")

	return &Build{Recalls: recalls, Aggregate: agg, Sources: manifests, Raw: len(all)}, nil
}

// Write writes b into a fresh store at path in dependency order and
// returns the stats read back from the committed rows.
func Write(ctx context.Context, path string, batchSize int, b *Build) (models.Stats, error) {
	start := time.Now()
	defer metrics.ObserveStage("write", start)

	db, err := database.Open(database.Config{Path: path})
	if err != nil {
		return models.Stats{}, err
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	w := store.NewWriter(db, batchSize)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"schema", func() error { return w.CreateSchema(ctx) }},
		{"agencies", func() error { return w.WriteAgencies(ctx, aggregate.AgencyRows(b.Aggregate.AgencyCounts)) }},
		{"categories", func() error { return w.WriteCategories(ctx, classify.Rows(b.Aggregate.CategoryCounts)) }},
		{"manufacturers", func() error { return w.WriteManufacturers(ctx, b.Aggregate.Manufacturers) }},
		{"recalls", func() error { return w.WriteRecalls(ctx, b.Recalls) }},
		{"sources", func() error { return w.WriteSources(ctx, b.Sources) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return models.Stats{}, err
		}
		if err := step.fn(); err != nil {
			return models.Stats{}, fmt.Errorf("write %s: %w", step.name, err)
		}
	}

	stats, err := w.RefreshStats(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("refresh stats: %w", err)
	}
	if err := database.Checkpoint(db); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// Run performs a complete build and swaps the result into opts.DBPath.
// On any error the destination is left untouched.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.NewRunID()
		ctx = logging.ContextWithRunID(ctx, runID)
	}
	log := logging.Ctx(ctx)
	log.Info().Str("raw_dir", opts.RawDir).Str("db", opts.DBPath).Msg("store build started")

	b, err := Prepare(ctx, opts)
	if err != nil {
		metrics.RunFailures.Inc()
		return nil, err
	}

	if err := database.EnsureDataDir(database.Config{Path: opts.DBPath}); err != nil {
		metrics.RunFailures.Inc()
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	tmp := fmt.Sprintf("%s.tmp-%s", opts.DBPath, runID)

	stats, err := Write(ctx, tmp, opts.BatchSize, b)
	if err == nil {
		err = database.Replace(tmp, opts.DBPath)
	}
	if err != nil {
		database.RemoveTemp(tmp)
		metrics.RunFailures.Inc()
		log.Error().Err(err).Msg("store build aborted, previous store kept")
		return nil, err
	}

	metrics.LastSuccess.SetToCurrentTime()
	log.Info().
		Int("recalls", stats.TotalRecalls).
		Int("manufacturers", len(b.Aggregate.Manufacturers)).
		Msg("store build finished")

	return &Summary{
		RunID:         runID,
		Normalized:    b.Raw,
		Recalls:       stats.TotalRecalls,
		Manufacturers: len(b.Aggregate.Manufacturers),
		AgencyCounts:  b.Aggregate.AgencyCounts,
		Stats:         stats,
		Sources:       b.Sources,
	}, nil
}
