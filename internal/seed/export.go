// Package seed exports a completed store as plain SQL files that can be
// replayed into another SQLite-compatible database.
//
// Rows are grouped into multi-row INSERT statements and statements into
// numbered files, so that no single statement or file exceeds the limits
// of the importing side.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"plainrecalls/internal/logging"
	"plainrecalls/pkg/database"
)

// SchemaFile is written first and recreates every table.
const SchemaFile = "000-schema.sql"

type Table struct {
	Name           string
	Prefix         string // file name prefix; files are <Prefix>-NNN.sql
	Columns        []string
	RowsPerInsert  int
	InsertsPerFile int
}

type Options struct {
	RowsPerInsert        int
	InsertsPerFile       int
	RecallRowsPerInsert  int
	RecallInsertsPerFile int
}

// Tables lists what Export writes, in load order.
func Tables(o Options) []Table {
	small := func(name, prefix string, cols ...string) Table {
		return Table{Name: name, Prefix: prefix, Columns: cols, RowsPerInsert: o.RowsPerInsert, InsertsPerFile: o.InsertsPerFile}
	}
	return []Table{
		small("agencies", "001-agencies", "agency_id", "agency_name", "slug", "description", "url", "recall_count"),
		small("categories", "002-categories", "category_id", "category_name", "slug", "description", "recall_count"),
		small("manufacturers", "003-manufacturers", "manufacturer_id", "name", "slug", "recall_count", "latest_recall_date"),
		small("_stats", "004-stats", "key", "value"),
		small("_sources", "005-sources", "source", "file", "records", "digest"),
		{
			Name:   "recalls",
			Prefix: "010-recalls",
			Columns: []string{
				"recall_id", "agency", "recall_number", "slug", "title", "product_description",
				"reason", "hazard", "remedy", "classification", "severity", "date_reported",
				"date_initiated", "status", "affected_count", "manufacturer_id", "distribution",
				"category_id", "recalling_firm", "city", "state", "country", "url",
			},
			RowsPerInsert:  o.RecallRowsPerInsert,
			InsertsPerFile: o.RecallInsertsPerFile,
		},
	}
}

type Exporter struct {
	DB  *sql.DB
	Dir string
}

// Export writes the schema file and every table, returning the file names
// in write order.
func (e *Exporter) Export(ctx context.Context, tables []Table) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create seed dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.Dir, SchemaFile), []byte(strings.TrimSpace(database.Schema())+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write schema: %w", err)
	}
	files := []string{SchemaFile}

	for _, t := range tables {
		written, rows, err := e.exportTable(ctx, t)
		if err != nil {
			return files, fmt.Errorf("export %s: %w", t.Name, err)
		}
		logging.Ctx(ctx).Info().Str("table", t.Name).Int("rows", rows).Int("files", len(written)).Msg("exported table")
		files = append(files, written...)
	}
	return files, nil
}

func (e *Exporter) exportTable(ctx context.Context, t Table) ([]string, int, error) {
	if t.RowsPerInsert <= 0 || t.InsertsPerFile <= 0 {
		return nil, 0, fmt.Errorf("invalid chunking %d rows x %d inserts", t.RowsPerInsert, t.InsertsPerFile)
	}

	rows, err := e.DB.QueryContext(ctx, "SELECT "+strings.Join(t.Columns, ", ")+" FROM "+t.Name+" ORDER BY rowid")
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var (
		files   []string
		inserts []string
		batch   []string
		total   int
	)
	header := "INSERT INTO " + t.Name + " (" + strings.Join(t.Columns, ",") + ") VALUES\n"

	flushInsert := func() {
		if len(batch) == 0 {
			return
		}
		inserts = append(inserts, header+strings.Join(batch, ",\n")+";")
		batch = batch[:0]
	}
	flushFile := func() error {
		if len(inserts) == 0 {
			return nil
		}
		name := fmt.Sprintf("%s-%03d.sql", t.Prefix, len(files))
		if err := os.WriteFile(filepath.Join(e.Dir, name), []byte(strings.Join(inserts, "\n\n")+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		files = append(files, name)
		inserts = inserts[:0]
		return nil
	}

	values := make([]any, len(t.Columns))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return files, total, fmt.Errorf("scan: %w", err)
		}
		lits := make([]string, len(values))
		for i, v := range values {
			lits[i] = Literal(v)
		}
		batch = append(batch, "("+strings.Join(lits, ",")+")")
		total++

		if len(batch) >= t.RowsPerInsert {
			flushInsert()
			if len(inserts) >= t.InsertsPerFile {
				if err := flushFile(); err != nil {
					return files, total, err
				}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return files, total, fmt.Errorf("rows err: %w", err)
	}

	flushInsert()
	if err := flushFile(); err != nil {
		return files, total, err
	}
	return files, total, nil
}

// Literal renders v as an SQL literal. Text is single-quoted with embedded
// quotes doubled; integers and floats are written bare.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case []byte:
		return quote(string(x))
	case string:
		return quote(x)
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
