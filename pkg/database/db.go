package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"plainrecalls/internal/logging"
)

type Config struct {
	Path     string
	ReadOnly bool
}

func DefaultConfig() Config {
	if p := os.Getenv("PLAINRECALLS_DB_PATH"); p != "" {
		return Config{Path: p}
	}
	return Config{Path: filepath.Join("/storage", "plainrecalls", "plainrecalls.db")}
}

func EnsureDataDir(cfg Config) error {
	return os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
}

func dsn(cfg Config) string {
	if cfg.ReadOnly {
		return "file:" + cfg.Path + "?mode=ro"
	}
	return cfg.Path
}

func Open(cfg Config) (*sql.DB, error) {
	if cfg.ReadOnly {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("stat store: %w", err)
		}
	} else if err := EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if !cfg.ReadOnly {
		if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma journal_mode: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

func MustOpen(cfg Config) *sql.DB {
	db, err := Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Path).Msg("failed to open db")
	}
	return db
}

// Checkpoint folds the WAL back into the main database file so the store
// is a single self-contained file before it is moved into place.
func Checkpoint(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = DELETE;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}
	return nil
}

// Replace atomically renames the freshly built store at tmp over dst and
// drops stale WAL/SHM side files left by a previous store at dst.
func Replace(tmp, dst string) error {
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dst + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", dst+suffix, err)
		}
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// RemoveTemp deletes a partially built store and its side files.
func RemoveTemp(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", p).Msg("failed to remove temp store file")
		}
	}
}
