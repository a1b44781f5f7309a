//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-shopinsights.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-shopinsights/internal/analytics"
	"github.com/pgEdge/pgedge-shopinsights/internal/datagen"
	"github.com/pgEdge/pgedge-shopinsights/internal/db"
	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/logging"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/publish"
	"github.com/pgEdge/pgedge-shopinsights/internal/report"
	"github.com/pgEdge/pgedge-shopinsights/internal/store"
)

// Config holds all configuration for pgedge-shopinsights.
type Config struct {
	// Store is the store URL (postgres://, sqlite://, mysql:// or a .db path).
	Store string `mapstructure:"store"`

	// DataDir receives the generated entity files.
	DataDir string `mapstructure:"data_dir"`

	// OutputDir receives the analytical files and the report.
	OutputDir string `mapstructure:"output_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is "text" for console output or "json".
	LogFormat string `mapstructure:"log_format"`

	// MetricsFile, when set, receives stage metrics in Prometheus text format.
	MetricsFile string `mapstructure:"metrics_file"`

	Generate GenerateConfig `mapstructure:"generate"`
	Load     LoadConfig     `mapstructure:"load"`
	Analyze  AnalyzeConfig  `mapstructure:"analyze"`
	Report   ReportConfig   `mapstructure:"report"`
}

// GenerateConfig holds configuration for dataset generation.
type GenerateConfig struct {
	Customers        int    `mapstructure:"customers"`
	Products         int    `mapstructure:"products"`
	Orders           int    `mapstructure:"orders"`
	MinItemsPerOrder int    `mapstructure:"min_items_per_order"`
	MaxItemsPerOrder int    `mapstructure:"max_items_per_order"`
	Reviews          int    `mapstructure:"reviews"`
	Seed             uint64 `mapstructure:"seed"`

	// ReferenceDate (YYYY-MM-DD) anchors every generated date. Empty
	// means today in UTC.
	ReferenceDate string `mapstructure:"reference_date"`
}

// LoadConfig holds configuration for the load stage.
type LoadConfig struct {
	// BatchSize is the insert batch size for the SQLite and MySQL stores.
	BatchSize int `mapstructure:"batch_size"`

	// VerifyTotals rejects orders whose total does not match their items.
	VerifyTotals bool `mapstructure:"verify_totals"`
}

// AnalyzeConfig holds configuration for the analyze stage.
type AnalyzeConfig struct {
	TopCustomers int `mapstructure:"top_customers"`
	RecentMonths int `mapstructure:"recent_months"`
}

// ReportConfig holds configuration for the report stage.
type ReportConfig struct {
	// File overrides <output_dir>/report.html.
	File string `mapstructure:"file"`

	Title string `mapstructure:"title"`

	Publish PublishConfig `mapstructure:"publish"`
}

// PublishConfig selects where report artifacts are copied after rendering.
type PublishConfig struct {
	// Driver is "", "local" or "s3".
	Driver    string `mapstructure:"driver"`
	Directory string `mapstructure:"directory"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	gen := datagen.DefaultConfig()
	an := analytics.DefaultConfig()
	return &Config{
		Store:     "sqlite://shopinsights.db",
		DataDir:   "data",
		OutputDir: "output",
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Generate: GenerateConfig{
			Customers:        gen.Customers,
			Products:         gen.Products,
			Orders:           gen.Orders,
			MinItemsPerOrder: gen.MinItemsPerOrder,
			MaxItemsPerOrder: gen.MaxItemsPerOrder,
			Reviews:          gen.Reviews,
			Seed:             gen.Seed,
		},
		Load: LoadConfig{
			BatchSize:    store.DefaultOptions().BatchSize,
			VerifyTotals: true,
		},
		Analyze: AnalyzeConfig{
			TopCustomers: an.TopCustomers,
			RecentMonths: an.RecentMonths,
		},
		Report: ReportConfig{
			Title: report.DefaultTitle,
			Publish: PublishConfig{
				Region: "us-east-1",
			},
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-shopinsights.yaml
// 3. ~/.config/pgedge-shopinsights/pgedge-shopinsights.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("pgedge-shopinsights")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-shopinsights"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings shared by every stage.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return &errdefs.ConfigurationError{Field: "data_dir", Reason: "is required"}
	}
	if c.OutputDir == "" {
		return &errdefs.ConfigurationError{Field: "output_dir", Reason: "is required"}
	}
	if !logging.ValidFormat(c.LogFormat) {
		return &errdefs.ConfigurationError{
			Field:  "log_format",
			Reason: fmt.Sprintf("unknown format %q (use text or json)", c.LogFormat),
		}
	}
	return nil
}

// Generator converts the generate section, resolving an empty reference
// date to today.
func (c *Config) Generator(now time.Time) (datagen.Config, error) {
	ref := model.Day(now)
	if c.Generate.ReferenceDate != "" {
		d, err := model.ParseDate(c.Generate.ReferenceDate)
		if err != nil {
			return datagen.Config{}, &errdefs.ConfigurationError{
				Field:  "generate.reference_date",
				Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", c.Generate.ReferenceDate),
			}
		}
		ref = d
	}
	return datagen.Config{
		Customers:        c.Generate.Customers,
		Products:         c.Generate.Products,
		Orders:           c.Generate.Orders,
		MinItemsPerOrder: c.Generate.MinItemsPerOrder,
		MaxItemsPerOrder: c.Generate.MaxItemsPerOrder,
		Reviews:          c.Generate.Reviews,
		Seed:             c.Generate.Seed,
		ReferenceDate:    ref,
	}, nil
}

// StoreOptions returns the store settings of the load section.
func (c *Config) StoreOptions() store.Options {
	return store.Options{BatchSize: c.Load.BatchSize}
}

// Analytics converts the analyze section.
func (c *Config) Analytics() analytics.Config {
	return analytics.Config{
		TopCustomers: c.Analyze.TopCustomers,
		RecentMonths: c.Analyze.RecentMonths,
	}
}

// ReportFile returns the report path.
func (c *Config) ReportFile() string {
	return report.Config{OutputDir: c.OutputDir, File: c.Report.File}.Path()
}

// Publish converts the publish section.
func (c *Config) Publish() publish.Config {
	p := c.Report.Publish
	return publish.Config{
		Driver:    p.Driver,
		Directory: p.Directory,
		Bucket:    p.Bucket,
		Prefix:    p.Prefix,
		Region:    p.Region,
		Endpoint:  p.Endpoint,
		AccessKey: p.AccessKey,
		SecretKey: p.SecretKey,
	}
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	gen, err := c.Generator(time.Now())
	if err != nil {
		return err
	}
	return gen.Validate()
}

func (c *Config) validateStore() error {
	if _, err := db.ParseTarget(c.Store); err != nil {
		return err
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if c.Load.BatchSize < 1 {
		return &errdefs.ConfigurationError{Field: "load.batch_size", Reason: "must be at least 1"}
	}
	return nil
}

// ValidateAnalyze checks configuration required for the analyze command.
func (c *Config) ValidateAnalyze() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.Analytics().Validate()
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.Publish().Validate()
}
