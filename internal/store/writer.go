// Package store writes a fully processed recall set into a SQLite store.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"plainrecalls/internal/logging"
	"plainrecalls/pkg/database"
	"plainrecalls/pkg/models"
)

// DefaultBatchSize is the number of rows committed per transaction for the
// large tables.
const DefaultBatchSize = 5000

// Stats keys in the _stats table.
const (
	StatTotalRecalls  = "total_recalls"
	StatYearMin       = "year_min"
	StatYearMax       = "year_max"
	StatRecallsByYear = "recalls_by_year"
)

// Writer persists rows into an open store. Every method either commits
// all of its rows (per batch for manufacturers and recalls) or returns an
// error; callers abort the build on the first error.
type Writer struct {
	DB        *sql.DB
	BatchSize int
}

func NewWriter(db *sql.DB, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Writer{DB: db, BatchSize: batchSize}
}

// CreateSchema drops and recreates every table and index.
func (w *Writer) CreateSchema(ctx context.Context) error {
	return database.Migrate(w.DB)
}

// inTx runs fn inside one transaction and commits it.
func (w *Writer) inTx(ctx context.Context, query string, fn func(stmt *sql.Stmt) error) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgencies(ctx context.Context, agencies []models.Agency) error {
	return w.inTx(ctx, `
		INSERT INTO agencies (agency_id, agency_name, slug, description, url, recall_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, func(stmt *sql.Stmt) error {
		for _, a := range agencies {
			if _, err := stmt.ExecContext(ctx, a.AgencyID, a.AgencyName, a.Slug, a.Description, a.URL, a.RecallCount); err != nil {
				return fmt.Errorf("insert agency %s: %w", a.AgencyID, err)
			}
		}
		return nil
	})
}

func (w *Writer) WriteCategories(ctx context.Context, categories []models.Category) error {
	return w.inTx(ctx, `
		INSERT INTO categories (category_id, category_name, slug, description, recall_count)
		VALUES (?, ?, ?, ?, ?)
	`, func(stmt *sql.Stmt) error {
		for _, c := range categories {
			if _, err := stmt.ExecContext(ctx, c.CategoryID, c.CategoryName, c.Slug, c.Description, c.RecallCount); err != nil {
				return fmt.Errorf("insert category %s: %w", c.CategoryID, err)
			}
		}
		return nil
	})
}

// batches calls fn for consecutive [lo, hi) windows of n items.
func (w *Writer) batches(n int, fn func(lo, hi int) error) error {
	for lo := 0; lo < n; lo += w.BatchSize {
		hi := min(lo+w.BatchSize, n)
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) WriteManufacturers(ctx context.Context, mfrs []models.Manufacturer) error {
	const query = `
		INSERT INTO manufacturers (manufacturer_id, name, slug, recall_count, latest_recall_date)
		VALUES (?, ?, ?, ?, ?)
	`
	return w.batches(len(mfrs), func(lo, hi int) error {
		return w.inTx(ctx, query, func(stmt *sql.Stmt) error {
			for _, m := range mfrs[lo:hi] {
				if _, err := stmt.ExecContext(ctx, m.ManufacturerID, m.Name, m.Slug, m.RecallCount, m.LatestRecallDate); err != nil {
					return fmt.Errorf("insert manufacturer %s: %w", m.ManufacturerID, err)
				}
			}
			return nil
		})
	})
}

func (w *Writer) WriteRecalls(ctx context.Context, recalls []models.Recall) error {
	const query = `
		INSERT INTO recalls (
		  recall_id, agency, recall_number, slug, title, product_description,
		  reason, hazard, remedy, classification, severity, date_reported,
		  date_initiated, status, affected_count, manufacturer_id, distribution,
		  category_id, recalling_firm, city, state, country, url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	log := logging.Ctx(ctx)
	return w.batches(len(recalls), func(lo, hi int) error {
		err := w.inTx(ctx, query, func(stmt *sql.Stmt) error {
			for _, r := range recalls[lo:hi] {
				if _, err := stmt.ExecContext(ctx,
					r.RecallID, r.Agency, r.RecallNumber, r.Slug, r.Title, r.ProductDescription,
					r.Reason, r.Hazard, r.Remedy, r.Classification, r.Severity, r.DateReported,
					r.DateInitiated, r.Status, r.AffectedCount, r.ManufacturerID, r.Distribution,
					r.CategoryID, r.RecallingFirm, r.City, r.State, r.Country, r.URL,
				); err != nil {
					return fmt.Errorf("insert recall %s: %w", r.RecallID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Debug().Int("written", hi).Int("total", len(recalls)).Msg("recall batch committed")
		return nil
	})
}

// WriteSources records which raw files the store was built from.
func (w *Writer) WriteSources(ctx context.Context, sources []models.SourceManifest) error {
	return w.inTx(ctx, `
		INSERT INTO _sources (source, file, records, digest) VALUES (?, ?, ?, ?)
	`, func(stmt *sql.Stmt) error {
		for _, s := range sources {
			if _, err := stmt.ExecContext(ctx, s.Source, s.File, s.Records, s.Digest); err != nil {
				return fmt.Errorf("insert source %s: %w", s.Source, err)
			}
		}
		return nil
	})
}

// RefreshStats recomputes the _stats rows from the committed recalls table
// and returns what it stored. Must run after WriteRecalls.
func (w *Writer) RefreshStats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats

	if err := w.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM recalls`).Scan(&stats.TotalRecalls); err != nil {
		return stats, fmt.Errorf("count recalls: %w", err)
	}

	var yearMin, yearMax sql.NullString
	err := w.DB.QueryRowContext(ctx, `
		SELECT MIN(SUBSTR(date_reported, 1, 4)), MAX(SUBSTR(date_reported, 1, 4))
		FROM recalls WHERE date_reported IS NOT NULL
	`).Scan(&yearMin, &yearMax)
	if err != nil {
		return stats, fmt.Errorf("year bounds: %w", err)
	}
	if yearMin.Valid {
		stats.YearMin = &yearMin.String
	}
	if yearMax.Valid {
		stats.YearMax = &yearMax.String
	}

	stats.RecallsByYear, err = w.recallsByYear(ctx)
	if err != nil {
		return stats, err
	}

	histogram, err := json.Marshal(stats.RecallsByYear)
	if err != nil {
		return stats, fmt.Errorf("marshal recalls_by_year: %w", err)
	}

	err = w.inTx(ctx, `INSERT OR REPLACE INTO _stats (key, value) VALUES (?, ?)`, func(stmt *sql.Stmt) error {
		rows := []struct {
			key   string
			value any
		}{
			{StatTotalRecalls, strconv.Itoa(stats.TotalRecalls)},
			{StatYearMin, stats.YearMin},
			{StatYearMax, stats.YearMax},
			{StatRecallsByYear, string(histogram)},
		}
		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row.key, row.value); err != nil {
				return fmt.Errorf("upsert stat %s: %w", row.key, err)
			}
		}
		return nil
	})
	return stats, err
}

func (w *Writer) recallsByYear(ctx context.Context) ([]models.YearCount, error) {
	rows, err := w.DB.QueryContext(ctx, `
		SELECT SUBSTR(date_reported, 1, 4) AS year, COUNT(*) AS count
		FROM recalls
		WHERE date_reported IS NOT NULL
		GROUP BY year
		ORDER BY year DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query recalls_by_year: %w", err)
	}
	defer rows.Close()

	out := []models.YearCount{}
	for rows.Next() {
		var yc models.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("scan recalls_by_year: %w", err)
		}
		out = append(out, yc)
	}
	return out, rows.Err()
}

// ErrNoStats is returned by ReadStats when the store has no total_recalls
// row, meaning it was never fully written.
var ErrNoStats = errors.New("store has no stats")

// ReadStats loads the _stats table of a completed store.
func ReadStats(ctx context.Context, db *sql.DB) (models.Stats, error) {
	var stats models.Stats

	rows, err := db.QueryContext(ctx, `SELECT key, value FROM _stats`)
	if err != nil {
		return stats, fmt.Errorf("query _stats: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return stats, fmt.Errorf("scan _stats: %w", err)
		}
		switch key {
		case StatTotalRecalls:
			n, err := strconv.Atoi(value.String)
			if err != nil {
				return stats, fmt.Errorf("parse total_recalls %q: %w", value.String, err)
			}
			stats.TotalRecalls = n
			found = true
		case StatYearMin:
			if value.Valid {
				stats.YearMin = &value.String
			}
		case StatYearMax:
			if value.Valid {
				stats.YearMax = &value.String
			}
		case StatRecallsByYear:
			if value.Valid && value.String != "" {
				if err := json.Unmarshal([]byte(value.String), &stats.RecallsByYear); err != nil {
					return stats, fmt.Errorf("decode recalls_by_year: %w", err)
				}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}
	if !found {
		return stats, ErrNoStats
	}
	return stats, nil
}
