//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/analytics"
)

// Section sizes.
const (
	topCustomersShown = 5
	topProductsShown  = 5
	reviewersShown    = 10
)

// Metric is a labelled value shown as a summary card or highlight.
type Metric struct {
	Label string
	Value string
}

type CustomerRow struct {
	Name   string
	Email  string
	Orders string
	Spent  string
}

type ProductRow struct {
	Name     string
	Category string
	Revenue  string
	Units    string
	Rating   string
}

type CategoryRow struct {
	Category          string
	Revenue           string
	Orders            string
	AverageOrderValue string
}

type ReviewerRow struct {
	Name     string
	Reviews  string
	Coverage string
	Rating   string
}

// View is everything the HTML template renders. All values are
// preformatted strings.
type View struct {
	Title       string
	GeneratedOn string
	Year        int

	Cards      []Metric
	Highlights []Metric

	TopCustomers []CustomerRow
	TopProducts  []ProductRow
	Chart        string
	Categories   []CategoryRow

	Satisfaction []Metric
	Reviewers    []ReviewerRow
}

// BuildView formats the analytical outputs for rendering. No figure is
// recomputed; the summary supplies every headline value.
func BuildView(title string, generated time.Time, outs *analytics.Outputs, s *analytics.Summary) *View {
	v := &View{
		Title:       title,
		GeneratedOn: generated.Format("January 2, 2006"),
		Year:        generated.Year(),
		Cards: []Metric{
			{Label: "Total Revenue", Value: Currency(s.TotalRevenue)},
			{Label: "Total Orders", Value: Count(s.TotalOrders)},
			{Label: "Total Customers", Value: Count(s.TotalCustomers)},
			{Label: "Average Order Value", Value: Currency(s.AverageOrderValue)},
		},
		Highlights: highlights(s),
		Chart:      Chart(outs.MonthlySales),
	}

	for i, r := range outs.TopCustomers {
		if i == topCustomersShown {
			break
		}
		v.TopCustomers = append(v.TopCustomers, CustomerRow{
			Name:   r.CustomerName,
			Email:  r.Email,
			Orders: Count(r.OrdersCount),
			Spent:  Currency(r.TotalSpent),
		})
	}
	for i, r := range outs.ProductPerformance {
		if i == topProductsShown {
			break
		}
		v.TopProducts = append(v.TopProducts, ProductRow{
			Name:     r.ProductName,
			Category: r.Category.String(),
			Revenue:  Currency(r.TotalRevenue),
			Units:    Count(r.UnitsSold),
			Rating:   rating(r.AverageRating),
		})
	}
	for _, r := range outs.CategoryAnalysis {
		aov := "n/a"
		if r.AverageOrderValue.Valid {
			aov = Currency(r.AverageOrderValue.Decimal)
		}
		v.Categories = append(v.Categories, CategoryRow{
			Category:          r.Category.String(),
			Revenue:           Currency(r.TotalRevenue),
			Orders:            Count(r.OrdersCount),
			AverageOrderValue: aov,
		})
	}

	v.Satisfaction = []Metric{
		{Label: "Total Reviews", Value: Count(s.TotalReviews)},
		{Label: "Average Rating", Value: rating(s.AverageRating) + " / 5"},
		{Label: "Most Active Reviewer", Value: mostActive(outs.CustomerReviews)},
	}
	for i, r := range outs.CustomerReviews {
		if i == reviewersShown {
			break
		}
		v.Reviewers = append(v.Reviewers, ReviewerRow{
			Name:     r.CustomerName,
			Reviews:  Count(r.ReviewsCount),
			Coverage: percent(r.ReviewCoverage),
			Rating:   rating(r.AverageRating),
		})
	}
	return v
}

func highlights(s *analytics.Summary) []Metric {
	top := orNone(s.TopCustomer)
	if s.TopCustomer != "" {
		top = fmt.Sprintf("%s (%s)", s.TopCustomer, Currency(s.TopCustomerSpent))
	}
	best := orNone(s.BestSellingProduct)
	if s.BestSellingProduct != "" {
		best = fmt.Sprintf("%s (%s)", s.BestSellingProduct, Currency(s.BestSellingRevenue))
	}
	avg := "no reviews"
	if s.AverageRating.Valid {
		avg = rating(s.AverageRating) + " / 5"
	}
	return []Metric{
		{Label: "Top Customer", Value: top},
		{Label: "Best-Selling Product", Value: best},
		{Label: "Latest Month", Value: latestTrend(s)},
		{Label: "Average Rating", Value: avg},
	}
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

func latestTrend(s *analytics.Summary) string {
	if s.LatestMonth == "" {
		return "no sales recorded"
	}
	trend := fmt.Sprintf("%s: %s across %s orders", s.LatestMonth, Currency(s.LatestMonthRevenue), Count(s.LatestMonthOrders))
	if !s.LatestMonthChangePct.Valid {
		return trend + " (no earlier month to compare)"
	}
	pct := s.LatestMonthChangePct.Decimal
	sign := ""
	if pct.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s (%s%s%% vs previous month)", trend, sign, pct.StringFixed(2))
}

// mostActive names the first reviewer; rows arrive ordered by review count.
func mostActive(rows []analytics.CustomerReviews) string {
	if len(rows) == 0 || rows[0].ReviewsCount == 0 {
		return "none"
	}
	return fmt.Sprintf("%s (%s reviews)", rows[0].CustomerName, Count(rows[0].ReviewsCount))
}

// Chart draws monthly revenue as one line of # per month, scaled so the
// best month spans ChartWidth columns.
func Chart(months []analytics.MonthlySales) string {
	if len(months) == 0 {
		return ""
	}
	max := decimal.Zero
	for _, m := range months {
		if m.TotalRevenue.GreaterThan(max) {
			max = m.TotalRevenue
		}
	}

	var b strings.Builder
	for i, m := range months {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %-*s %s", m.Month, ChartWidth, bar(barLength(m.TotalRevenue, max)), Currency(m.TotalRevenue))
	}
	return b.String()
}
