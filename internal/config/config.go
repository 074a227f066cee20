package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/shape"
	"github.com/gyeh/pricemelt/internal/vocab"
)

// Output formats for the melt command.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Config holds all runtime configuration for a mrfmelt run.
type Config struct {
	DSN              string
	Paths            []string
	Recursive        bool
	OutDir           string
	Format           string // "csv" or "parquet"
	Hospital         string // overrides banner and file-name guesses
	LogFormat        string // "text" or "json"
	LogLevel         string
	Workers          int // files in flight
	MeltWorkers      int // row chunks in flight per file
	SampleRows       int // classify reads at most this many rows per table; 0 = all
	Force            bool
	Overwrite        bool
	Schema           string
	Table            string
	BannerStrategy   string
	VocabularyFile   string
	UpsertDimensions bool
	SummaryPath      string

	// Overrides loaded from VocabularyFile, applied on top of the
	// built-in vocabulary and thresholds.
	VocabOverride vocab.Spec
	ShapeOverride shape.Options
}

// Default returns a Config with the stock values every flag defaults to.
func Default() Config {
	return Config{
		Format:         FormatCSV,
		LogFormat:      "text",
		LogLevel:       "info",
		Workers:        4,
		MeltWorkers:    1,
		Schema:         "hp",
		Table:          "charge_long",
		BannerStrategy: banner.StrategyVocabulary,
	}
}

// fileConfig is the on-disk YAML structure.
type fileConfig struct {
	BannerStrategy string        `yaml:"banner_strategy"`
	Shape          shape.Options `yaml:"shape"`
	Vocabulary     vocab.Spec    `yaml:"vocabulary"`
}

// LoadFromFile reads a YAML override file and merges its values into
// Config. The merged vocabulary is compiled once so unknown identifier
// fields, price kinds and metadata keys are reported here.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if fc.BannerStrategy != "" {
		c.BannerStrategy = fc.BannerStrategy
	}
	c.ShapeOverride = fc.Shape
	c.VocabOverride = fc.Vocabulary
	c.VocabularyFile = path

	if _, err := c.Vocabulary(); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// Vocabulary compiles the built-in vocabulary merged with any override.
func (c *Config) Vocabulary() (*vocab.Vocabulary, error) {
	return vocab.New(vocab.DefaultSpec().Merge(c.VocabOverride))
}

// ShapeOptions returns the stock classifier thresholds with any override
// applied.
func (c *Config) ShapeOptions() shape.Options {
	return shape.DefaultOptions().Merge(c.ShapeOverride)
}

// QualifiedTable is the schema-qualified load target.
func (c *Config) QualifiedTable() string {
	return c.Schema + "." + c.Table
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one input path is required")
	}
	for _, p := range c.Paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("path not accessible: %w", err)
		}
	}
	switch c.Format {
	case FormatCSV, FormatParquet:
	default:
		return fmt.Errorf("--format must be %q or %q, got %q", FormatCSV, FormatParquet, c.Format)
	}
	switch c.BannerStrategy {
	case banner.StrategyVocabulary, banner.StrategyScoring:
	default:
		return fmt.Errorf("unknown banner strategy %q", c.BannerStrategy)
	}
	if c.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1")
	}
	if c.MeltWorkers < 1 {
		return fmt.Errorf("--melt-workers must be at least 1")
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("--sample-rows must not be negative")
	}
	return nil
}

// ValidateWithDSN checks both paths and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	if c.Schema == "" || c.Table == "" {
		return fmt.Errorf("--schema and --table must not be empty")
	}
	return nil
}
