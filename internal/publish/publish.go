//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package publish copies report artifacts to a local directory or an
// S3-compatible bucket.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
)

// Driver names.
const (
	DriverNone  = ""
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures the publish target.
type Config struct {
	Driver string

	// Directory is the destination for the local driver.
	Directory string

	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // empty for AWS; set for MinIO, R2 and similar
	AccessKey string
	SecretKey string
}

// Enabled reports whether publishing is configured.
func (c Config) Enabled() bool {
	return c.Driver != DriverNone
}

// Validate checks that the selected driver has what it needs.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverNone:
		return nil
	case DriverLocal:
		if c.Directory == "" {
			return &errdefs.ConfigurationError{Field: "report.publish.directory", Reason: "required for the local driver"}
		}
	case DriverS3:
		if c.Bucket == "" {
			return &errdefs.ConfigurationError{Field: "report.publish.bucket", Reason: "required for the s3 driver"}
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			return &errdefs.ConfigurationError{Field: "report.publish.access_key", Reason: "access_key and secret_key must be set together"}
		}
	default:
		return &errdefs.ConfigurationError{
			Field:  "report.publish.driver",
			Reason: fmt.Sprintf("unknown driver %q (use local or s3)", c.Driver),
		}
	}
	return nil
}

// Target receives published artifacts.
type Target interface {
	// Put stores the content read from r under name.
	Put(ctx context.Context, name string, r io.Reader) error

	// Location describes where name ends up.
	Location(name string) string
}

// New returns the target for cfg.
func New(ctx context.Context, cfg Config) (Target, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverLocal:
		return newLocalTarget(cfg.Directory), nil
	case DriverS3:
		return newS3Target(ctx, cfg)
	}
	return nil, &errdefs.ConfigurationError{Field: "report.publish.driver", Reason: "publishing is not enabled"}
}

// Files copies every file in paths to t, keyed by base name, and returns
// the published locations.
func Files(ctx context.Context, t Target, paths []string, log zerolog.Logger) ([]string, error) {
	locations := make([]string, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if err := putFile(ctx, t, name, path); err != nil {
			return locations, err
		}
		loc := t.Location(name)
		log.Info().Str("file", name).Str("location", loc).Msg("Published")
		locations = append(locations, loc)
	}
	return locations, nil
}

func putFile(ctx context.Context, t Target, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := t.Put(ctx, name, f); err != nil {
		return fmt.Errorf("failed to publish %s: %w", name, err)
	}
	return nil
}

// Run publishes paths according to cfg. It does nothing when publishing
// is disabled.
func Run(ctx context.Context, cfg Config, paths []string, log zerolog.Logger) ([]string, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	t, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Files(ctx, t, paths, log)
}
