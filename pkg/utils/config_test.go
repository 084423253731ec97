package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BatchSize != 5000 {
		t.Errorf("BatchSize = %d, want 5000", cfg.BatchSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
	}
	if cfg.Seed.RowsPerInsert != 500 || cfg.Seed.InsertsPerFile != 4 {
		t.Errorf("Seed = %+v, want 500 rows / 4 inserts", cfg.Seed)
	}
	if cfg.Seed.RecallRowsPerInsert != 50 || cfg.Seed.RecallInsertsPerFile != 10 {
		t.Errorf("Seed = %+v, want 50 recall rows / 10 inserts", cfg.Seed)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	yaml := "raw_dir: /data/raw\nbatch_size: 100\nlog:\n  format: console\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PLAINRECALLS_BATCH_SIZE", "250")
	t.Setenv("PLAINRECALLS_DB_PATH", "/tmp/recalls.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RawDir != "/data/raw" {
		t.Errorf("RawDir = %s, want /data/raw", cfg.RawDir)
	}
	if cfg.BatchSize != 250 {
		t.Errorf("BatchSize = %d, want 250 (env wins over file)", cfg.BatchSize)
	}
	if cfg.DBPath != "/tmp/recalls.db" {
		t.Errorf("DBPath = %s, want /tmp/recalls.db", cfg.DBPath)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %s, want console", cfg.Log.Format)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PLAINRECALLS_WORKERS=7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("PLAINRECALLS_WORKERS") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workers != 7 {
		t.Errorf("Workers = %d, want 7", cfg.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"zero rows per insert", func(c *Config) { c.Seed.RowsPerInsert = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
