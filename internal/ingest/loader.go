package ingest

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"plainrecalls/internal/logging"
	"plainrecalls/internal/metrics"
	"plainrecalls/pkg/models"
)

// ErrNotArray is returned by DecodeRecords when the document is not a JSON array.
var ErrNotArray = errors.New("raw file is not a JSON array")

// DecodeRecords decodes a JSON array of objects. Array elements that are
// not objects are skipped.
func DecodeRecords(b []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	arr, ok := doc.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	out := make([]Record, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out, nil
}

// LoadFile reads and decodes one raw dump. A missing file is not an error:
// it yields no records and an empty digest.
func LoadFile(path string) ([]Record, string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	sum := blake2b.Sum256(b)
	digest := hex.EncodeToString(sum[:])

	recs, err := DecodeRecords(b)
	if err != nil {
		return nil, digest, fmt.Errorf("%s: %w", path, err)
	}
	return recs, digest, nil
}

// Result is the normalized output of one source.
type Result struct {
	Manifest models.SourceManifest
	Recalls  []models.Recall
}

// NormalizeSource loads src's file from dir and normalizes every record.
// Unreadable or undecodable files are logged and count as zero records so
// that one broken dump does not stop the run.
func NormalizeSource(ctx context.Context, dir string, src Source) Result {
	log := logging.Ctx(ctx).With().Str("source", src.Name()).Logger()
	path := filepath.Join(dir, src.File())

	res := Result{Manifest: models.SourceManifest{Source: src.Name(), File: src.File()}}

	recs, digest, err := LoadFile(path)
	res.Manifest.Digest = digest
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("skipping unreadable source")
		return res
	case digest == "":
		log.Warn().Str("file", path).Msg("skipping source (not found)")
		return res
	}

	res.Recalls = make([]models.Recall, 0, len(recs))
	for _, rec := range recs {
		res.Recalls = append(res.Recalls, src.Normalize(rec))
	}
	res.Manifest.Records = len(recs)

	log.Info().Str("file", path).Int("records", len(recs)).Msg("loaded source")
	return res
}

// NormalizeAll normalizes all sources concurrently (at most workers at a
// time) and concatenates the results in the order of sources.
func NormalizeAll(ctx context.Context, dir string, sources []Source, workers int) ([]models.Recall, []models.SourceManifest, error) {
	start := time.Now()
	defer metrics.ObserveStage("normalize", start)

	results := make([]Result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = NormalizeSource(gctx, dir, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("normalize sources: %w", err)
	}

	var total int
	for _, r := range results {
		total += len(r.Recalls)
	}

	all := make([]models.Recall, 0, total)
	manifests := make([]models.SourceManifest, 0, len(results))
	for _, r := range results {
		all = append(all, r.Recalls...)
		manifests = append(manifests, r.Manifest)
		metrics.SourceRecords.WithLabelValues(r.Manifest.Source).Set(float64(r.Manifest.Records))
	}
	metrics.StageRecords.WithLabelValues("normalized").Set(float64(len(all)))

	return all, manifests, nil
}
