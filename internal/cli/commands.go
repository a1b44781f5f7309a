package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	genCustomers     int
	genProducts      int
	genOrders        int
	genMinItems      int
	genMaxItems      int
	genReviews       int
	genSeed          uint64
	genReferenceDate string

	loadBatchSize      int
	loadNoVerifyTotals bool

	analyzeTopCustomers int
	analyzeRecentMonths int

	reportFile          string
	reportTitle         string
	reportPublishDriver string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic e-commerce dataset",
	Long: `Generate customers, products, orders, order items and reviews and write
them as CSV files into the data directory. The same seed and reference
date always produce byte-identical files.

Example:
  pgedge-shopinsights generate --customers 500 --orders 2000 --seed 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyGenerateFlags(cmd)
		return runStages(cmd, func(ctx context.Context, p *Pipeline) error {
			return p.Generate(ctx)
		})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the generated dataset into the store",
	Long: `Drop and recreate the schema in the store and load the entity files
from the data directory in a single transaction. Loading the same files
twice leaves the store with identical contents.

Example:
  pgedge-shopinsights load --store "postgres://user@localhost/shop"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLoadFlags(cmd)
		return runStages(cmd, func(ctx context.Context, p *Pipeline) error {
			return p.Load(ctx)
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the sales analyses against the store",
	Long: `Run the aggregation catalogue against a loaded store and write one CSV
per aggregation plus summary.csv into the output directory. The headline
metrics are printed when done.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyAnalyzeFlags(cmd)
		return runStages(cmd, func(ctx context.Context, p *Pipeline) error {
			return p.Analyze(ctx)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the HTML report from the analytical files",
	Long: `Read the analytical files from the output directory and render a
static HTML report. When publishing is configured the report and the
analytical files are copied to a directory or an S3 bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyReportFlags(cmd)
		return runStages(cmd, func(ctx context.Context, p *Pipeline) error {
			return p.Report(ctx)
		})
	},
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run generate, load, analyze and report in order",
	Long: `Run all four stages with one configuration, halting at the first stage
that fails. Files produced by earlier stages are kept.

Example:
  pgedge-shopinsights pipeline --store shop.db --reference-date 2025-12-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyGenerateFlags(cmd)
		applyLoadFlags(cmd)
		applyAnalyzeFlags(cmd)
		applyReportFlags(cmd)
		return runStages(cmd, func(ctx context.Context, p *Pipeline) error {
			return p.Run(ctx)
		})
	},
}

func init() {
	generateCmd.Flags().IntVar(&genCustomers, "customers", 0, "number of customers")
	generateCmd.Flags().IntVar(&genProducts, "products", 0, "number of products")
	generateCmd.Flags().IntVar(&genOrders, "orders", 0, "number of orders")
	generateCmd.Flags().IntVar(&genMinItems, "min-items", 0, "minimum items per order")
	generateCmd.Flags().IntVar(&genMaxItems, "max-items", 0, "maximum items per order")
	generateCmd.Flags().IntVar(&genReviews, "reviews", 0, "number of reviews")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "random seed (default: 42)")
	generateCmd.Flags().StringVar(&genReferenceDate, "reference-date", "",
		"latest date in the dataset, YYYY-MM-DD (default: today)")

	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 0,
		"rows per insert batch for SQLite and MySQL stores")
	loadCmd.Flags().BoolVar(&loadNoVerifyTotals, "no-verify-totals", false,
		"skip checking order totals against their items")

	analyzeCmd.Flags().IntVar(&analyzeTopCustomers, "top-customers", 0,
		"number of customers in top_customers.csv")
	analyzeCmd.Flags().IntVar(&analyzeRecentMonths, "recent-months", 0,
		"number of most recent months in monthly_sales.csv")

	reportCmd.Flags().StringVar(&reportFile, "report-file", "",
		"report path (default: <output-dir>/report.html)")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "report title")
	reportCmd.Flags().StringVar(&reportPublishDriver, "publish", "",
		"publish driver: local or s3 (settings come from the config file)")

	pipelineCmd.Flags().AddFlagSet(generateCmd.Flags())
	pipelineCmd.Flags().AddFlagSet(loadCmd.Flags())
	pipelineCmd.Flags().AddFlagSet(analyzeCmd.Flags())
	pipelineCmd.Flags().AddFlagSet(reportCmd.Flags())
}

func applyGenerateFlags(cmd *cobra.Command) {
	// Override config with CLI flags; validation rejects bad values
	flags := cmd.Flags()
	if flags.Changed("customers") {
		cfg.Generate.Customers = genCustomers
	}
	if flags.Changed("products") {
		cfg.Generate.Products = genProducts
	}
	if flags.Changed("orders") {
		cfg.Generate.Orders = genOrders
	}
	if flags.Changed("min-items") {
		cfg.Generate.MinItemsPerOrder = genMinItems
	}
	if flags.Changed("max-items") {
		cfg.Generate.MaxItemsPerOrder = genMaxItems
	}
	if flags.Changed("reviews") {
		cfg.Generate.Reviews = genReviews
	}
	if flags.Changed("seed") {
		cfg.Generate.Seed = genSeed
	}
	if flags.Changed("reference-date") {
		cfg.Generate.ReferenceDate = genReferenceDate
	}
}

func applyLoadFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("batch-size") {
		cfg.Load.BatchSize = loadBatchSize
	}
	if cmd.Flags().Changed("no-verify-totals") {
		cfg.Load.VerifyTotals = !loadNoVerifyTotals
	}
}

func applyAnalyzeFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("top-customers") {
		cfg.Analyze.TopCustomers = analyzeTopCustomers
	}
	if cmd.Flags().Changed("recent-months") {
		cfg.Analyze.RecentMonths = analyzeRecentMonths
	}
}

func applyReportFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("report-file") {
		cfg.Report.File = reportFile
	}
	if cmd.Flags().Changed("title") {
		cfg.Report.Title = reportTitle
	}
	if cmd.Flags().Changed("publish") {
		cfg.Report.Publish.Driver = reportPublishDriver
	}
}
