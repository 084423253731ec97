package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys.
const EnvPrefix = "PLAINRECALLS_"

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "PLAINRECALLS_CONFIG"

// DefaultConfigPaths are tried in order when ConfigPathEnvVar is unset.
var DefaultConfigPaths = []string{
	"plainrecalls.yaml",
	"plainrecalls.yml",
	"/etc/plainrecalls/config.yaml",
}

type Config struct {
	RawDir    string `koanf:"raw_dir" validate:"required"`
	DBPath    string `koanf:"db_path" validate:"required"`
	BatchSize int    `koanf:"batch_size" validate:"min=1"`
	Workers   int    `koanf:"workers" validate:"min=1,max=64"`

	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	API     APIConfig     `koanf:"api"`
	GRPC    GRPCConfig    `koanf:"grpc"`
	Seed    SeedConfig    `koanf:"seed"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	// Textfile is where run metrics are written for the node exporter
	// textfile collector. Empty disables the export.
	Textfile string `koanf:"textfile"`
}

type APIConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type GRPCConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// SeedConfig sizes the exported INSERT statements. Recall rows are wide,
// so the recalls table has its own, smaller chunking.
type SeedConfig struct {
	Dir                  string `koanf:"dir" validate:"required"`
	RowsPerInsert        int    `koanf:"rows_per_insert" validate:"min=1"`
	InsertsPerFile       int    `koanf:"inserts_per_file" validate:"min=1"`
	RecallRowsPerInsert  int    `koanf:"recall_rows_per_insert" validate:"min=1"`
	RecallInsertsPerFile int    `koanf:"recall_inserts_per_file" validate:"min=1"`
}

func defaultConfig() Config {
	return Config{
		RawDir:    "/storage/plainrecalls/raw",
		DBPath:    "/storage/plainrecalls/plainrecalls.db",
		BatchSize: 5000,
		Workers:   4,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		API:  APIConfig{Addr: ":8080"},
		GRPC: GRPCConfig{Addr: ":9090"},
		Seed: SeedConfig{
			Dir:            "/storage/plainrecalls/seed",
			RowsPerInsert:        500,
			InsertsPerFile:       4,
			RecallRowsPerInsert:  50,
			RecallInsertsPerFile: 10,
		},
	}
}

// envKeys maps lower-cased, prefix-stripped env names to koanf paths.
var envKeys = map[string]string{
	"raw_dir":                      "raw_dir",
	"db_path":                      "db_path",
	"batch_size":                   "batch_size",
	"workers":                      "workers",
	"log_level":                    "log.level",
	"log_format":                   "log.format",
	"metrics_textfile":             "metrics.textfile",
	"api_addr":                     "api.addr",
	"grpc_addr":                    "grpc.addr",
	"seed_dir":                     "seed.dir",
	"seed_rows_per_insert":         "seed.rows_per_insert",
	"seed_inserts_per_file":        "seed.inserts_per_file",
	"seed_recall_rows_per_insert":  "seed.recall_rows_per_insert",
	"seed_recall_inserts_per_file": "seed.recall_inserts_per_file",
}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envKeys[key]
}

// Load builds the configuration from defaults, an optional YAML file and
// PLAINRECALLS_* environment variables (highest priority). A .env file in
// the working directory is loaded into the environment first.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load for command entry points.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
