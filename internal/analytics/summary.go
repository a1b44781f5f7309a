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
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// Summary holds the headline metrics of one analyze run.
type Summary struct {
	TotalRevenue      decimal.Decimal
	TotalOrders       int64
	TotalCustomers    int64
	AverageOrderValue decimal.Decimal

	TopCustomer      string
	TopCustomerSpent decimal.Decimal

	BestSellingProduct string
	BestSellingRevenue decimal.Decimal

	LatestMonth        string
	LatestMonthRevenue decimal.Decimal
	LatestMonthOrders  int64
	// LatestMonthChangePct compares with the previous month present in
	// the data; invalid when there is no such month or it had no revenue.
	LatestMonthChangePct decimal.NullDecimal

	AverageRating decimal.NullDecimal
	TotalReviews  int64
}

// Summary metric names, in file order.
const (
	MetricTotalRevenue         = "total_revenue"
	MetricTotalOrders          = "total_orders"
	MetricTotalCustomers       = "total_customers"
	MetricAverageOrderValue    = "average_order_value"
	MetricTopCustomer          = "top_customer"
	MetricTopCustomerSpent     = "top_customer_spent"
	MetricBestSellingProduct   = "best_selling_product"
	MetricBestSellingRevenue   = "best_selling_revenue"
	MetricLatestMonth          = "latest_month"
	MetricLatestMonthRevenue   = "latest_month_revenue"
	MetricLatestMonthOrders    = "latest_month_orders"
	MetricLatestMonthChangePct = "latest_month_change_pct"
	MetricAverageRating        = "average_rating"
	MetricTotalReviews         = "total_reviews"
)

// summarize derives the headline metrics from the store totals and the
// five aggregations.
func summarize(t totals, outs *Outputs) *Summary {
	s := &Summary{
		TotalRevenue:   t.revenue,
		TotalOrders:    t.orders,
		TotalCustomers: t.customers,
		AverageRating:  t.avgRating,
		TotalReviews:   t.reviews,
	}
	if t.orders > 0 {
		s.AverageOrderValue = t.revenue.DivRound(decimal.NewFromInt(t.orders), 2)
	}
	if len(outs.TopCustomers) > 0 {
		s.TopCustomer = outs.TopCustomers[0].CustomerName
		s.TopCustomerSpent = outs.TopCustomers[0].TotalSpent
	}
	if len(outs.ProductPerformance) > 0 {
		s.BestSellingProduct = outs.ProductPerformance[0].ProductName
		s.BestSellingRevenue = outs.ProductPerformance[0].TotalRevenue
	}
	if n := len(outs.MonthlySales); n > 0 {
		latest := outs.MonthlySales[n-1]
		s.LatestMonth = latest.Month
		s.LatestMonthRevenue = latest.TotalRevenue
		s.LatestMonthOrders = latest.OrdersCount
		if n > 1 {
			prev := outs.MonthlySales[n-2].TotalRevenue
			if prev.IsPositive() {
				pct := latest.TotalRevenue.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
				s.LatestMonthChangePct = decimal.NewNullDecimal(pct)
			}
		}
	}
	return s
}

func (s *Summary) records() [][]string {
	return [][]string{
		{MetricTotalRevenue, tabular.Money(s.TotalRevenue)},
		{MetricTotalOrders, itoa(s.TotalOrders)},
		{MetricTotalCustomers, itoa(s.TotalCustomers)},
		{MetricAverageOrderValue, tabular.Money(s.AverageOrderValue)},
		{MetricTopCustomer, s.TopCustomer},
		{MetricTopCustomerSpent, tabular.Money(s.TopCustomerSpent)},
		{MetricBestSellingProduct, s.BestSellingProduct},
		{MetricBestSellingRevenue, tabular.Money(s.BestSellingRevenue)},
		{MetricLatestMonth, s.LatestMonth},
		{MetricLatestMonthRevenue, tabular.Money(s.LatestMonthRevenue)},
		{MetricLatestMonthOrders, itoa(s.LatestMonthOrders)},
		{MetricLatestMonthChangePct, nullable(s.LatestMonthChangePct, 2)},
		{MetricAverageRating, nullable(s.AverageRating, 2)},
		{MetricTotalReviews, itoa(s.TotalReviews)},
	}
}

// readSummary parses summary.csv. Every metric must be present.
func readSummary(dir string) (*Summary, error) {
	values := make(map[string]string)
	err := tabular.ParseRows(dir, SummaryFile, func(r *tabular.Row) {
		values[r.Str(0)] = r.Str(1)
	})
	if err != nil {
		return nil, err
	}

	s := &Summary{}
	var parseErr error
	get := func(metric string) string {
		v, ok := values[metric]
		if !ok && parseErr == nil {
			parseErr = &errdefs.MissingInputError{
				Path:   SummaryFile.Path(dir),
				Reason: fmt.Sprintf("metric %s is missing", metric),
			}
		}
		return v
	}
	money := func(metric string) decimal.Decimal {
		v := get(metric)
		d, err := decimal.NewFromString(v)
		if err != nil && parseErr == nil {
			parseErr = &errdefs.MissingInputError{
				Path:   SummaryFile.Path(dir),
				Reason: fmt.Sprintf("metric %s has invalid value %q", metric, v),
				Err:    err,
			}
		}
		return d
	}
	nullMoney := func(metric string) decimal.NullDecimal {
		if get(metric) == "" {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(money(metric))
	}
	count := func(metric string) int64 {
		v := get(metric)
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil && parseErr == nil {
			parseErr = &errdefs.MissingInputError{
				Path:   SummaryFile.Path(dir),
				Reason: fmt.Sprintf("metric %s has invalid value %q", metric, v),
				Err:    err,
			}
		}
		return n
	}

	s.TotalRevenue = money(MetricTotalRevenue)
	s.TotalOrders = count(MetricTotalOrders)
	s.TotalCustomers = count(MetricTotalCustomers)
	s.AverageOrderValue = money(MetricAverageOrderValue)
	s.TopCustomer = get(MetricTopCustomer)
	s.TopCustomerSpent = money(MetricTopCustomerSpent)
	s.BestSellingProduct = get(MetricBestSellingProduct)
	s.BestSellingRevenue = money(MetricBestSellingRevenue)
	s.LatestMonth = get(MetricLatestMonth)
	s.LatestMonthRevenue = money(MetricLatestMonthRevenue)
	s.LatestMonthOrders = count(MetricLatestMonthOrders)
	s.LatestMonthChangePct = nullMoney(MetricLatestMonthChangePct)
	s.AverageRating = nullMoney(MetricAverageRating)
	s.TotalReviews = count(MetricTotalReviews)

	if parseErr != nil {
		return nil, parseErr
	}
	return s, nil
}

// PrintSummary renders the headline metrics as a console table.
func PrintSummary(w io.Writer, s *Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	for _, rec := range s.records() {
		value := rec[1]
		if value == "" {
			value = "-"
		}
		if err := table.Append([]string{rec[0], value}); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}

// LogSummary writes the headline metrics as one structured log line.
func LogSummary(log zerolog.Logger, s *Summary) {
	ev := log.Info()
	for _, rec := range s.records() {
		ev = ev.Str(rec[0], rec[1])
	}
	ev.Msg("Headline metrics")
}
