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
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// Output file contracts.
var (
	TopCustomersFile = tabular.Contract{
		Name:    "top_customers",
		File:    "top_customers.csv",
		Columns: []string{"customer_id", "customer_name", "email", "phone", "orders_count", "total_spent"},
	}
	ProductPerformanceFile = tabular.Contract{
		Name:    "product_performance",
		File:    "product_performance.csv",
		Columns: []string{"product_id", "product_name", "category", "total_revenue", "units_sold", "average_rating"},
	}
	MonthlySalesFile = tabular.Contract{
		Name:    "monthly_sales",
		File:    "monthly_sales.csv",
		Columns: []string{"month", "total_revenue", "orders_count"},
	}
	CategoryAnalysisFile = tabular.Contract{
		Name:    "category_analysis",
		File:    "category_analysis.csv",
		Columns: []string{"category", "total_revenue", "orders_count", "average_order_value"},
	}
	CustomerReviewsFile = tabular.Contract{
		Name:    "customer_reviews",
		File:    "customer_reviews.csv",
		Columns: []string{"customer_id", "customer_name", "reviews_count", "review_coverage", "average_rating"},
	}
	SummaryFile = tabular.Contract{
		Name:    "summary",
		File:    "summary.csv",
		Columns: []string{"metric", "value"},
	}
)

// OutputContracts returns every file the analyze stage writes.
func OutputContracts() []tabular.Contract {
	return []tabular.Contract{
		TopCustomersFile, ProductPerformanceFile, MonthlySalesFile,
		CategoryAnalysisFile, CustomerReviewsFile, SummaryFile,
	}
}

// TopCustomer is one row of top_customers.csv.
type TopCustomer struct {
	CustomerID   int64
	CustomerName string
	Email        string
	Phone        string
	OrdersCount  int64
	TotalSpent   decimal.Decimal
}

// ProductPerformance is one row of product_performance.csv.
// AverageRating is invalid for products without reviews.
type ProductPerformance struct {
	ProductID     int64
	ProductName   string
	Category      model.Category
	TotalRevenue  decimal.Decimal
	UnitsSold     int64
	AverageRating decimal.NullDecimal
}

// MonthlySales is one row of monthly_sales.csv. Month is YYYY-MM.
type MonthlySales struct {
	Month        string
	TotalRevenue decimal.Decimal
	OrdersCount  int64
}

// CategorySales is one row of category_analysis.csv.
// AverageOrderValue is invalid for categories without orders.
type CategorySales struct {
	Category          model.Category
	TotalRevenue      decimal.Decimal
	OrdersCount       int64
	AverageOrderValue decimal.NullDecimal
}

// CustomerReviews is one row of customer_reviews.csv. OrdersCount and
// CoveredOrders feed ReviewCoverage and are not written out.
type CustomerReviews struct {
	CustomerID     int64
	CustomerName   string
	ReviewsCount   int64
	OrdersCount    int64
	CoveredOrders  int64
	ReviewCoverage decimal.NullDecimal
	AverageRating  decimal.NullDecimal
}

// Outputs holds the five aggregations of one analyze run.
type Outputs struct {
	TopCustomers       []TopCustomer
	ProductPerformance []ProductPerformance
	MonthlySales       []MonthlySales
	CategoryAnalysis   []CategorySales
	CustomerReviews    []CustomerReviews
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func nullable(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(places)
}

func (r TopCustomer) record() []string {
	return []string{itoa(r.CustomerID), r.CustomerName, r.Email, r.Phone, itoa(r.OrdersCount), tabular.Money(r.TotalSpent)}
}

func (r ProductPerformance) record() []string {
	return []string{itoa(r.ProductID), r.ProductName, r.Category.String(), tabular.Money(r.TotalRevenue),
		itoa(r.UnitsSold), nullable(r.AverageRating, 2)}
}

func (r MonthlySales) record() []string {
	return []string{r.Month, tabular.Money(r.TotalRevenue), itoa(r.OrdersCount)}
}

func (r CategorySales) record() []string {
	return []string{r.Category.String(), tabular.Money(r.TotalRevenue), itoa(r.OrdersCount), nullable(r.AverageOrderValue, 2)}
}

func (r CustomerReviews) record() []string {
	return []string{itoa(r.CustomerID), r.CustomerName, itoa(r.ReviewsCount),
		nullable(r.ReviewCoverage, 4), nullable(r.AverageRating, 2)}
}

func records[T interface{ record() []string }](rows []T) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}

// WriteOutputs writes the five aggregation files and summary.csv to dir.
func WriteOutputs(dir string, outs *Outputs, summary *Summary) error {
	writes := []struct {
		contract tabular.Contract
		rows     [][]string
	}{
		{TopCustomersFile, records(outs.TopCustomers)},
		{ProductPerformanceFile, records(outs.ProductPerformance)},
		{MonthlySalesFile, records(outs.MonthlySales)},
		{CategoryAnalysisFile, records(outs.CategoryAnalysis)},
		{CustomerReviewsFile, records(outs.CustomerReviews)},
		{SummaryFile, summary.records()},
	}
	for _, w := range writes {
		if err := w.contract.Write(dir, w.rows); err != nil {
			return err
		}
	}
	return nil
}
