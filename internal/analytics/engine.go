//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/store"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// Config controls the size of the ranked outputs.
type Config struct {
	TopCustomers int
	RecentMonths int
}

// DefaultConfig returns the default analyze settings.
func DefaultConfig() Config {
	return Config{TopCustomers: 10, RecentMonths: 12}
}

// Validate rejects non-positive limits.
func (c Config) Validate() error {
	if c.TopCustomers <= 0 {
		return &errdefs.ConfigurationError{Field: "analyze.top_customers", Reason: "must be positive"}
	}
	if c.RecentMonths <= 0 {
		return &errdefs.ConfigurationError{Field: "analyze.recent_months", Reason: "must be positive"}
	}
	return nil
}

// Engine runs the aggregation catalogue against one store.
type Engine struct {
	store store.Store
	cfg   Config
	log   zerolog.Logger
}

// NewEngine creates an engine over an open store.
func NewEngine(st store.Store, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{store: st, cfg: cfg, log: log}
}

// Run checks that the store was loaded, executes every aggregation in
// catalogue order and derives the headline summary.
func (e *Engine) Run(ctx context.Context) (*Outputs, *Summary, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := e.checkLoaded(ctx); err != nil {
		return nil, nil, err
	}

	outs := &Outputs{}
	for _, def := range catalogue {
		start := time.Now()
		n, err := e.run(ctx, def.Name, outs)
		if err != nil {
			return nil, nil, err
		}
		e.log.Info().
			Str("query", def.Name).
			Int("rows", n).
			Dur("duration", time.Since(start)).
			Msg("Aggregation complete")
	}

	t, err := e.totals(ctx)
	if err != nil {
		return nil, nil, err
	}
	return outs, summarize(t, outs), nil
}

func (e *Engine) run(ctx context.Context, name string, outs *Outputs) (int, error) {
	var err error
	switch name {
	case QueryTopCustomers:
		outs.TopCustomers, err = e.topCustomers(ctx)
		return len(outs.TopCustomers), err
	case QueryProductPerformance:
		outs.ProductPerformance, err = e.productPerformance(ctx)
		return len(outs.ProductPerformance), err
	case QueryMonthlySales:
		outs.MonthlySales, err = e.monthlySales(ctx)
		return len(outs.MonthlySales), err
	case QueryCategoryAnalysis:
		outs.CategoryAnalysis, err = e.categoryAnalysis(ctx)
		return len(outs.CategoryAnalysis), err
	case QueryCustomerReviews:
		outs.CustomerReviews, err = e.customerReviews(ctx)
		return len(outs.CustomerReviews), err
	}
	return 0, fmt.Errorf("unknown aggregation: %s", name)
}

func (e *Engine) checkLoaded(ctx context.Context) error {
	meta, err := e.store.Metadata(ctx)
	if err != nil {
		return &errdefs.MissingInputError{
			Path:   e.store.Location(),
			Reason: "store has not been loaded; run the load stage first",
			Err:    err,
		}
	}
	if v := meta[store.MetaContractVersion]; v != tabular.ContractVersion {
		return &errdefs.MissingInputError{
			Path:   e.store.Location(),
			Reason: fmt.Sprintf("store was loaded with file contract version %q, want %q", v, tabular.ContractVersion),
		}
	}
	e.log.Debug().
		Str("run_id", meta[store.MetaRunID]).
		Str("loaded_at", meta[store.MetaLoadedAt]).
		Msg("Store load metadata")
	return nil
}

// query runs sql and calls scan for every row. Failures are reported as
// AggregationErrors naming the aggregation.
func (e *Engine) query(ctx context.Context, name, sql string, scan func(store.Rows) error) error {
	rows, err := e.store.Query(ctx, sql)
	if err != nil {
		return &errdefs.AggregationError{Query: name, Reason: "query failed", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &errdefs.AggregationError{Query: name, Reason: "unexpected row", Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &errdefs.AggregationError{Query: name, Reason: "query failed", Err: err}
	}
	return nil
}

func parseCategory(query, label string) (model.Category, error) {
	c, err := model.ParseCategory(label)
	if err != nil {
		return 0, &errdefs.AggregationError{Query: query, Reason: "unknown category label", Err: err}
	}
	return c, nil
}

func (e *Engine) topCustomers(ctx context.Context) ([]TopCustomer, error) {
	out := []TopCustomer{}
	err := e.query(ctx, QueryTopCustomers, topCustomersSQL(e.cfg.TopCustomers), func(rows store.Rows) error {
		var r TopCustomer
		var first, last string
		if err := rows.Scan(&r.CustomerID, &first, &last, &r.Email, &r.Phone, &r.OrdersCount, &r.TotalSpent); err != nil {
			return err
		}
		r.CustomerName = first + " " + last
		out = append(out, r)
		return nil
	})
	return out, err
}

func (e *Engine) productPerformance(ctx context.Context) ([]ProductPerformance, error) {
	out := []ProductPerformance{}
	err := e.query(ctx, QueryProductPerformance, productPerformanceSQL, func(rows store.Rows) error {
		var r ProductPerformance
		var label string
		if err := rows.Scan(&r.ProductID, &r.ProductName, &label, &r.TotalRevenue, &r.UnitsSold, &r.AverageRating); err != nil {
			return err
		}
		c, err := parseCategory(QueryProductPerformance, label)
		if err != nil {
			return err
		}
		r.Category = c
		r.TotalRevenue = r.TotalRevenue.Round(2)
		out = append(out, r)
		return nil
	})
	return out, err
}

func (e *Engine) monthlySales(ctx context.Context) ([]MonthlySales, error) {
	out := []MonthlySales{}
	sql := monthlySalesSQL(e.store.Dialect(), e.cfg.RecentMonths)
	err := e.query(ctx, QueryMonthlySales, sql, func(rows store.Rows) error {
		var r MonthlySales
		if err := rows.Scan(&r.Month, &r.TotalRevenue, &r.OrdersCount); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// categoryAnalysis aggregates in SQL, then fills in every category
// without sales and orders the result.
func (e *Engine) categoryAnalysis(ctx context.Context) ([]CategorySales, error) {
	byCategory := make(map[model.Category]CategorySales)
	err := e.query(ctx, QueryCategoryAnalysis, categorySalesSQL, func(rows store.Rows) error {
		var label string
		var r CategorySales
		if err := rows.Scan(&label, &r.TotalRevenue, &r.OrdersCount); err != nil {
			return err
		}
		c, err := parseCategory(QueryCategoryAnalysis, label)
		if err != nil {
			return err
		}
		r.Category = c
		byCategory[c] = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]CategorySales, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		r, ok := byCategory[c]
		if !ok {
			r = CategorySales{Category: c, TotalRevenue: decimal.Zero}
		}
		if r.OrdersCount > 0 {
			r.AverageOrderValue = decimal.NewNullDecimal(r.TotalRevenue.DivRound(decimal.NewFromInt(r.OrdersCount), 2))
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category.String() < out[j].Category.String()
	})
	return out, nil
}

func (e *Engine) customerReviews(ctx context.Context) ([]CustomerReviews, error) {
	out := []CustomerReviews{}
	err := e.query(ctx, QueryCustomerReviews, customerReviewsSQL, func(rows store.Rows) error {
		var r CustomerReviews
		var first, last string
		if err := rows.Scan(&r.CustomerID, &first, &last, &r.ReviewsCount, &r.OrdersCount, &r.CoveredOrders, &r.AverageRating); err != nil {
			return err
		}
		r.CustomerName = first + " " + last
		if r.OrdersCount > 0 {
			coverage := decimal.NewFromInt(r.CoveredOrders).DivRound(decimal.NewFromInt(r.OrdersCount), 4)
			r.ReviewCoverage = decimal.NewNullDecimal(coverage)
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// totals are the store-wide counts behind the headline metrics.
type totals struct {
	orders    int64
	revenue   decimal.Decimal
	customers int64
	reviews   int64
	avgRating decimal.NullDecimal
}

func (e *Engine) totals(ctx context.Context) (totals, error) {
	var t totals
	err := e.query(ctx, "summary", orderTotalsSQL, func(rows store.Rows) error {
		return rows.Scan(&t.orders, &t.revenue)
	})
	if err != nil {
		return t, err
	}
	err = e.query(ctx, "summary", customerCountSQL, func(rows store.Rows) error {
		return rows.Scan(&t.customers)
	})
	if err != nil {
		return t, err
	}
	err = e.query(ctx, "summary", reviewTotalsSQL, func(rows store.Rows) error {
		return rows.Scan(&t.reviews, &t.avgRating)
	})
	return t, err
}

// Run opens the store read-only, runs the engine, writes every output file into
// outputDir and closes the store.
func Run(ctx context.Context, storeURL string, opts store.Options, cfg Config, outputDir string, log zerolog.Logger) (*Outputs, *Summary, error) {
	opts.ReadOnly = true
	st, err := store.Open(ctx, storeURL, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	outs, summary, err := NewEngine(st, cfg, log).Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := WriteOutputs(outputDir, outs, summary); err != nil {
		return nil, nil, err
	}
	log.Info().Str("output_dir", outputDir).Msg("Analysis written")
	return outs, summary, nil
}
