package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"plainrecalls/internal/logging"
	"plainrecalls/internal/store"
	"plainrecalls/pkg/database"
)

func writeRaw(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func rawFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRaw(t, dir, "fda_food.json", `[
		{"recall_number": "F-1", "product_description": "Cheddar cheese", "classification": "Class II",
		 "report_date": "20230615", "recalling_firm": "Acme Dairy"},
		{"recall_number": "F-1", "product_description": "Different title, same number",
		 "classification": "Class I", "report_date": "20230616", "recalling_firm": "Acme Dairy"},
		{"recall_number": "", "product_description": "", "report_date": "2021-02-03T10:00:00"}
	]`)
	writeRaw(t, dir, "cpsc.json", `[
		{"RecallNumber": "", "Title": "", "RecallDate": "2022-09-01T00:00:00",
		 "Manufacturers": [{"Name": "ACME DAIRY"}]}
	]`)
	writeRaw(t, dir, "nhtsa.json", `[
		{"campaign_number": "23V001", "makes": "FORD", "year_min": "2020", "year_max": "2020",
		 "component": "FUEL SYSTEM", "summary": "Cheese wheel lodged in fuel pump",
		 "consequence": "Increases the risk of a crash.", "report_date": "15/06/2023"}
	]`)
	return dir
}

func queryStrings(t *testing.T, db *sql.DB, q string) []string {
	t.Helper()
	rows, err := db.Query(q)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	return out
}

func TestRun_EndToEnd(t *testing.T) {
	raw := rawFixture(t)
	dbPath := filepath.Join(t.TempDir(), "out", "plainrecalls.db")

	sum, err := Run(context.Background(), Options{RawDir: raw, DBPath: dbPath, BatchSize: 2, Workers: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Normalized != 5 || sum.Recalls != 4 {
		t.Errorf("normalized/recalls = %d/%d, want 5/4", sum.Normalized, sum.Recalls)
	}
	if len(sum.Sources) != 6 {
		t.Errorf("sources = %d, want 6", len(sum.Sources))
	}

	db, err := database.Open(database.Config{Path: dbPath, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	// same agency and number: the first record wins
	var title string
	var severity int
	if err := db.QueryRow(`SELECT title, severity FROM recalls WHERE recall_id = 'fda_food-F-1'`).Scan(&title, &severity); err != nil {
		t.Fatal(err)
	}
	if title != "Cheddar cheese" || severity != 2 {
		t.Errorf("fda_food-F-1 = %q sev %d, want first record with severity 2", title, severity)
	}

	slugs := queryStrings(t, db, `SELECT slug FROM recalls ORDER BY slug`)
	want := []string{"23v001-ford-2020-fuel-system", "f-1-cheddar-cheese", "unknown", "unknown-1"}
	if len(slugs) != len(want) {
		t.Fatalf("slugs = %v, want %v", slugs, want)
	}
	for i := range want {
		if slugs[i] != want[i] {
			t.Errorf("slugs = %v, want %v", slugs, want)
			break
		}
	}

	var category string
	if err := db.QueryRow(`SELECT category_id FROM recalls WHERE agency = 'nhtsa'`).Scan(&category); err != nil {
		t.Fatal(err)
	}
	if category != "vehicles" {
		t.Errorf("nhtsa category = %q, want vehicles despite food keywords", category)
	}

	var mfrCount int
	if err := db.QueryRow(`SELECT recall_count FROM manufacturers WHERE manufacturer_id = 'acme-dairy'`).Scan(&mfrCount); err != nil {
		t.Fatal(err)
	}
	if mfrCount != 2 {
		t.Errorf("acme-dairy recall_count = %d, want 2", mfrCount)
	}

	stats, err := store.ReadStats(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecalls != 4 || *stats.YearMin != "2021" || *stats.YearMax != "2023" {
		t.Errorf("stats = %+v", stats)
	}

	matches, _ := filepath.Glob(dbPath + ".tmp-*")
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestRun_Idempotent(t *testing.T) {
	raw := rawFixture(t)
	dbPath := filepath.Join(t.TempDir(), "plainrecalls.db")

	ids := func() []string {
		if _, err := Run(context.Background(), Options{RawDir: raw, DBPath: dbPath, BatchSize: 100}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		db, err := database.Open(database.Config{Path: dbPath, ReadOnly: true})
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		out := queryStrings(t, db, `SELECT recall_id FROM recalls`)
		sort.Strings(out)
		return out
	}

	first, second := ids(), ids()
	if len(first) != len(second) {
		t.Fatalf("counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("recall_id sets differ at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestRun_CanceledKeepsPreviousStore(t *testing.T) {
	raw := rawFixture(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "plainrecalls.db")
	if err := os.WriteFile(dbPath, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, Options{RawDir: raw, DBPath: dbPath}); err == nil {
		t.Fatal("expected error for canceled run")
	}

	got, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Errorf("destination replaced on failure")
	}
	matches, _ := filepath.Glob(dbPath + ".tmp-*")
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestRun_WriteFailureKeepsPreviousStore(t *testing.T) {
	raw := rawFixture(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "plainrecalls.db")
	if err := os.WriteFile(dbPath, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	// a directory where the temp store should go makes the open fail
	ctx := logging.ContextWithRunID(context.Background(), "deadbeef")
	if err := os.Mkdir(dbPath+".tmp-deadbeef", 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Run(ctx, Options{RawDir: raw, DBPath: dbPath}); err == nil {
		t.Fatal("expected write error")
	}

	got, err := os.ReadFile(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Errorf("destination replaced on failure")
	}
}
