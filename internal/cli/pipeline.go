package cli

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-shopinsights/internal/analytics"
	"github.com/pgEdge/pgedge-shopinsights/internal/config"
	"github.com/pgEdge/pgedge-shopinsights/internal/datagen"
	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/loader"
	"github.com/pgEdge/pgedge-shopinsights/internal/logging"
	"github.com/pgEdge/pgedge-shopinsights/internal/metrics"
	"github.com/pgEdge/pgedge-shopinsights/internal/publish"
	"github.com/pgEdge/pgedge-shopinsights/internal/report"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// Stage names.
const (
	StageGenerate = "generate"
	StageLoad     = "load"
	StageAnalyze  = "analyze"
	StageReport   = "report"
)

// Pipeline runs the four stages with one configuration.
type Pipeline struct {
	Config  *config.Config
	Metrics *metrics.Recorder

	// Out receives the headline metrics table.
	Out io.Writer

	// Now is the clock for the reference date and the report date.
	Now func() time.Time
}

// NewPipeline creates a pipeline using the wall clock.
func NewPipeline(cfg *config.Config, rec *metrics.Recorder, out io.Writer) *Pipeline {
	return &Pipeline{Config: cfg, Metrics: rec, Out: out, Now: time.Now}
}

// stage runs fn with a stage logger, records its outcome and tags any
// failure with the stage name.
func (p *Pipeline) stage(name string, fn func(log zerolog.Logger) error) error {
	log := logging.Stage(name)
	start := time.Now()
	log.Info().Msg("Stage started")

	err := fn(log)
	p.Metrics.Observe(name, start, err)
	if err != nil {
		if isInterrupted(err) {
			log.Warn().Msg("Stage interrupted")
		} else {
			log.Error().Err(err).Msg("Stage failed")
		}
		return errdefs.InStage(name, err)
	}

	log.Info().Dur("duration", time.Since(start)).Msg("Stage complete")
	return nil
}

// Generate writes a synthetic dataset into the data directory.
func (p *Pipeline) Generate(ctx context.Context) error {
	return p.stage(StageGenerate, func(log zerolog.Logger) error {
		if err := p.Config.ValidateGenerate(); err != nil {
			return err
		}
		genCfg, err := p.Config.Generator(p.Now())
		if err != nil {
			return err
		}

		ds, err := datagen.NewGenerator(genCfg, log).Generate()
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tabular.WriteDataset(p.Config.DataDir, ds); err != nil {
			return err
		}
		for table, n := range ds.Counts() {
			p.Metrics.Rows(StageGenerate, table, n)
		}
		log.Info().Str("data_dir", p.Config.DataDir).Msg("Dataset written")
		return nil
	})
}

// Load replaces the store contents with the data directory.
func (p *Pipeline) Load(ctx context.Context) error {
	return p.stage(StageLoad, func(log zerolog.Logger) error {
		if err := p.Config.ValidateLoad(); err != nil {
			return err
		}
		res, err := loader.Run(ctx, p.Config.Store, p.Config.StoreOptions(), loader.Config{
			DataDir:      p.Config.DataDir,
			VerifyTotals: p.Config.Load.VerifyTotals,
			RunID:        logging.RunID,
		}, log)
		if err != nil {
			return err
		}
		for table, n := range res.Counts {
			p.Metrics.Rows(StageLoad, table, n)
		}
		return nil
	})
}

// Analyze runs the aggregations and prints the headline metrics.
func (p *Pipeline) Analyze(ctx context.Context) error {
	return p.stage(StageAnalyze, func(log zerolog.Logger) error {
		if err := p.Config.ValidateAnalyze(); err != nil {
			return err
		}
		outs, summary, err := analytics.Run(ctx, p.Config.Store, p.Config.StoreOptions(),
			p.Config.Analytics(), p.Config.OutputDir, log)
		if err != nil {
			return err
		}

		p.Metrics.Rows(StageAnalyze, analytics.QueryTopCustomers, len(outs.TopCustomers))
		p.Metrics.Rows(StageAnalyze, analytics.QueryProductPerformance, len(outs.ProductPerformance))
		p.Metrics.Rows(StageAnalyze, analytics.QueryMonthlySales, len(outs.MonthlySales))
		p.Metrics.Rows(StageAnalyze, analytics.QueryCategoryAnalysis, len(outs.CategoryAnalysis))
		p.Metrics.Rows(StageAnalyze, analytics.QueryCustomerReviews, len(outs.CustomerReviews))

		analytics.LogSummary(log, summary)
		if p.Out != nil {
			return analytics.PrintSummary(p.Out, summary)
		}
		return nil
	})
}

// Report renders the HTML report and publishes it when configured.
func (p *Pipeline) Report(ctx context.Context) error {
	return p.stage(StageReport, func(log zerolog.Logger) error {
		if err := p.Config.ValidateReport(); err != nil {
			return err
		}
		path, err := report.Run(report.Config{
			OutputDir: p.Config.OutputDir,
			File:      p.Config.Report.File,
			Title:     p.Config.Report.Title,
			Now:       p.Now,
		}, log)
		if err != nil {
			return err
		}

		files := []string{path}
		for _, c := range analytics.OutputContracts() {
			files = append(files, c.Path(p.Config.OutputDir))
		}
		if _, err := publish.Run(ctx, p.Config.Publish(), files, log); err != nil {
			return err
		}
		log.Info().Str("report", filepath.Clean(path)).Msg("Report ready")
		return nil
	})
}

// Run executes the four stages in order and stops at the first failure.
// Files written by completed stages are left in place.
func (p *Pipeline) Run(ctx context.Context) error {
	stages := []func(context.Context) error{p.Generate, p.Load, p.Analyze, p.Report}
	for _, run := range stages {
		if err := run(ctx); err != nil {
			return err
		}
	}
	return nil
}
