// Package config loads pipeline configuration from environment variables
// (prefix ETL) and an optional YAML file. Flags handled in cmd/etl override
// the source URI and database name after loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// MaxExcelRows is the hard row limit of an XLSX worksheet. One row is
// reserved for the header, so the default data cap per sheet is one less.
const MaxExcelRows = 1_048_576

// Config represents the complete pipeline configuration.
type Config struct {
	Mongo     MongoConfig     `yaml:"mongo" envconfig:"MONGO"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Transform TransformConfig `yaml:"transform" envconfig:"TRANSFORM"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// MongoConfig contains source database configuration.
type MongoConfig struct {
	URI            string        `yaml:"uri" envconfig:"URI" default:"mongodb://localhost:27017" validate:"required"`
	Database       string        `yaml:"database" envconfig:"DATABASE" default:"bi_mx" validate:"required"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"CONNECT_TIMEOUT" default:"5s"`
	Collections    Collections   `yaml:"collections" envconfig:"COLLECTIONS"`
}

// Collections names the three source collections.
type Collections struct {
	Listings string `yaml:"listings" envconfig:"LISTINGS" default:"listings" validate:"required"`
	Reviews  string `yaml:"reviews" envconfig:"REVIEWS" default:"reviews" validate:"required"`
	Calendar string `yaml:"calendar" envconfig:"CALENDAR" default:"calendar" validate:"required"`
}

// All returns the configured collection names in extraction order.
func (c Collections) All() []string {
	return []string{c.Listings, c.Reviews, c.Calendar}
}

// OutputConfig contains the output artifact locations. The artifact names
// (database file, table, workbook, sheet names) are the data contract of the
// downstream BI consumers; renaming them breaks dashboards.
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" default:"output"`
	SQLiteFile   string `yaml:"sqlite_file" envconfig:"SQLITE_FILE" default:"bi_mx.db"`
	Table        string `yaml:"table" envconfig:"TABLE" default:"listings_analitica" validate:"required"`
	WorkbookFile string `yaml:"workbook_file" envconfig:"WORKBOOK_FILE" default:"datos_limpios.xlsx"`
	// MaxSheetRows caps data rows per worksheet. Defaults to the XLSX hard
	// limit minus the header row. Lowered in tests to exercise splitting.
	MaxSheetRows int `yaml:"max_sheet_rows" envconfig:"MAX_SHEET_ROWS" default:"1048575" validate:"min=1"`
}

// SQLitePath returns the full path of the SQLite output database.
func (o OutputConfig) SQLitePath() string {
	return filepath.Join(o.Dir, o.SQLiteFile)
}

// WorkbookPath returns the full path of the XLSX output workbook.
func (o OutputConfig) WorkbookPath() string {
	return filepath.Join(o.Dir, o.WorkbookFile)
}

// TransformConfig contains transformation tuning.
type TransformConfig struct {
	// ReviewSample caps how many reviews are sentiment-scored per run.
	// Zero or negative means all reviews.
	ReviewSample int `yaml:"review_sample" envconfig:"REVIEW_SAMPLE" default:"15000"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Dir   string `yaml:"dir" envconfig:"DIR" default:"logs"`
}

// Load loads configuration in three layers: struct-tag defaults and ETL_*
// environment variables first, then an optional YAML file on top (a file the
// operator wrote wins over ambient environment), then flag overrides applied
// by the caller. configFile may be empty; etl.yaml in the working directory
// is picked up when present.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ETL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile == "" {
		if _, err := os.Stat("etl.yaml"); err == nil {
			configFile = "etl.yaml"
		}
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct-tag rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Output.Dir, c.Logging.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
