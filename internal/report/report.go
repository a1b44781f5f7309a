//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report implements the report stage: it reads the analytical
// outputs and renders them as a single static HTML document.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-shopinsights/internal/analytics"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// DefaultFile is the report file name inside the output directory.
const DefaultFile = "report.html"

// DefaultTitle is the report heading.
const DefaultTitle = "E-Commerce Analytics Report"

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Config controls one report run.
type Config struct {
	// OutputDir holds the analytical files and, by default, the report.
	OutputDir string

	// File overrides the report path.
	File string

	Title string

	// Now returns the generation time; time.Now when nil.
	Now func() time.Time
}

// Path returns where the report is written.
func (c Config) Path() string {
	if c.File != "" {
		return c.File
	}
	return filepath.Join(c.OutputDir, DefaultFile)
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Render writes the HTML document for v to w.
func Render(w io.Writer, v *View) error {
	if err := reportTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Run reads the analytical outputs from cfg.OutputDir and writes the
// report. It returns the path written. A missing or malformed input file
// fails the run before anything is written.
func Run(cfg Config, log zerolog.Logger) (string, error) {
	outs, summary, err := analytics.ReadOutputs(cfg.OutputDir)
	if err != nil {
		return "", err
	}

	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}
	view := BuildView(title, cfg.now(), outs, summary)

	var buf bytes.Buffer
	if err := Render(&buf, view); err != nil {
		return "", err
	}

	path := cfg.Path()
	err = tabular.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("bytes", buf.Len()).
		Msg("Report written")
	return path, nil
}
