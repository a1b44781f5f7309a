package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-shopinsights/internal/analytics"
	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleOutputs() (*analytics.Outputs, *analytics.Summary) {
	outs := &analytics.Outputs{
		TopCustomers: []analytics.TopCustomer{
			{CustomerID: 1, CustomerName: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0101", OrdersCount: 2, TotalSpent: dec("1234.56")},
			{CustomerID: 3, CustomerName: "Grace Hopper", Email: "grace@example.com", Phone: "555-0103", OrdersCount: 1, TotalSpent: dec("40.00")},
		},
		ProductPerformance: []analytics.ProductPerformance{
			{ProductID: 2, ProductName: "Gadget", Category: model.CategoryHomeKitchen, TotalRevenue: dec("51.00"), UnitsSold: 2,
				AverageRating: decimal.NewNullDecimal(dec("3.67"))},
			{ProductID: 3, ProductName: "Doohickey", Category: model.CategoryToys, TotalRevenue: dec("29.00"), UnitsSold: 4},
		},
		MonthlySales: []analytics.MonthlySales{
			{Month: "2025-01", TotalRevenue: dec("45.50"), OrdersCount: 1},
			{Month: "2025-02", TotalRevenue: dec("0.10"), OrdersCount: 1},
			{Month: "2025-03", TotalRevenue: dec("91.00"), OrdersCount: 2},
		},
		CustomerReviews: []analytics.CustomerReviews{
			{CustomerID: 1, CustomerName: "Ada Lovelace", ReviewsCount: 2,
				ReviewCoverage: decimal.NewNullDecimal(dec("0.5")), AverageRating: decimal.NewNullDecimal(dec("4.5"))},
			{CustomerID: 5, CustomerName: "Barbara Liskov"},
		},
	}
	for _, c := range model.Categories() {
		row := analytics.CategorySales{Category: c}
		if c == model.CategoryHomeKitchen {
			row.TotalRevenue = dec("51.00")
			row.OrdersCount = 2
			row.AverageOrderValue = decimal.NewNullDecimal(dec("25.50"))
		}
		outs.CategoryAnalysis = append(outs.CategoryAnalysis, row)
	}

	s := &analytics.Summary{
		TotalRevenue:         dec("136.60"),
		TotalOrders:          4,
		TotalCustomers:       5,
		AverageOrderValue:    dec("34.15"),
		TopCustomer:          "Ada Lovelace",
		TopCustomerSpent:     dec("1234.56"),
		BestSellingProduct:   "Gadget",
		BestSellingRevenue:   dec("51.00"),
		LatestMonth:          "2025-03",
		LatestMonthRevenue:   dec("91.00"),
		LatestMonthOrders:    2,
		LatestMonthChangePct: decimal.NewNullDecimal(dec("90900.00")),
		AverageRating:        decimal.NewNullDecimal(dec("3.80")),
		TotalReviews:         5,
	}
	return outs, s
}

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	outs, s := sampleOutputs()
	require.NoError(t, analytics.WriteOutputs(dir, outs, s))
	return dir
}

func fixedClock() time.Time {
	return time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC)
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"7.5", "$7.50"},
		{"1234.56", "$1,234.56"},
		{"1234567.891", "$1,234,567.89"},
		{"-10.11", "-$10.11"},
	}
	for _, tt := range tests {
		if got := Currency(dec(tt.in)); got != tt.want {
			t.Errorf("Currency(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("Expected 1,234,567, got %q", got)
	}
	if got := Count(0); got != "0" {
		t.Errorf("Expected 0, got %q", got)
	}
}

func TestChart(t *testing.T) {
	outs, _ := sampleOutputs()
	chart := Chart(outs.MonthlySales)
	lines := strings.Split(chart, "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		assert.Contains(t, line, "#", line)
	}
	// the best month spans the full width
	assert.Contains(t, lines[2], strings.Repeat("#", ChartWidth))
	assert.NotContains(t, lines[0], strings.Repeat("#", ChartWidth))
	assert.True(t, strings.HasPrefix(lines[1], "2025-02: # "), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "$91.00"), lines[2])

	assert.Equal(t, "", Chart(nil))
}

func TestChartZeroRevenue(t *testing.T) {
	chart := Chart([]analytics.MonthlySales{{Month: "2025-01", TotalRevenue: decimal.Zero}})
	assert.True(t, strings.HasPrefix(chart, "2025-01: # "), chart)
}

func TestBuildView(t *testing.T) {
	outs, s := sampleOutputs()
	v := BuildView(DefaultTitle, fixedClock(), outs, s)

	assert.Equal(t, "April 2, 2025", v.GeneratedOn)
	assert.Equal(t, "$136.60", v.Cards[0].Value)
	assert.Equal(t, "Ada Lovelace ($1,234.56)", v.Highlights[0].Value)
	assert.Equal(t, "Gadget ($51.00)", v.Highlights[1].Value)
	assert.Contains(t, v.Highlights[2].Value, "+90900.00% vs previous month")
	assert.Equal(t, "3.80 / 5", v.Highlights[3].Value)

	require.Len(t, v.TopProducts, 2)
	assert.Equal(t, "n/a", v.TopProducts[1].Rating)
	assert.Equal(t, "n/a", v.Categories[0].AverageOrderValue)
	assert.Equal(t, "Home & Kitchen", v.Categories[1].Category)
	assert.Equal(t, "$25.50", v.Categories[1].AverageOrderValue)
	assert.Equal(t, "Ada Lovelace (2 reviews)", v.Satisfaction[2].Value)
	assert.Equal(t, "50.00%", v.Reviewers[0].Coverage)
	assert.Equal(t, "n/a", v.Reviewers[1].Coverage)
}

func TestBuildViewWithoutPreviousMonth(t *testing.T) {
	outs, s := sampleOutputs()
	s.LatestMonthChangePct = decimal.NullDecimal{}
	s.AverageRating = decimal.NullDecimal{}
	v := BuildView(DefaultTitle, fixedClock(), outs, s)

	assert.Contains(t, v.Highlights[2].Value, "no earlier month")
	assert.Equal(t, "no reviews", v.Highlights[3].Value)
}

func TestRunWritesReport(t *testing.T) {
	dir := writeSample(t)

	path, err := Run(Config{OutputDir: dir, Now: fixedClock}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	for _, want := range []string{
		"<title>E-Commerce Analytics Report</title>",
		"Generated on April 2, 2025",
		"Executive Summary",
		"$136.60",
		"Ada Lovelace",
		"Gadget",
		"<pre class=\"chart\">2025-01: #",
		"Home &amp; Kitchen",
		"Customer Satisfaction",
		"Barbara Liskov",
		"&copy; 2025",
	} {
		assert.Contains(t, html, want)
	}
}

func TestRunCustomPathAndTitle(t *testing.T) {
	dir := writeSample(t)
	target := filepath.Join(t.TempDir(), "nested", "weekly.html")

	path, err := Run(Config{OutputDir: dir, File: target, Title: "Weekly <Shop>", Now: fixedClock}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Weekly &lt;Shop&gt;")
}

func TestRunReplacesExistingReport(t *testing.T) {
	dir := writeSample(t)
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := Run(Config{OutputDir: dir, Now: fixedClock}, zerolog.Nop())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "Monthly Sales Trend")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "temporary file %s left behind", e.Name())
	}
}

func TestRunMissingInput(t *testing.T) {
	for _, c := range analytics.OutputContracts() {
		t.Run(c.Name, func(t *testing.T) {
			dir := writeSample(t)
			require.NoError(t, os.Remove(c.Path(dir)))

			_, err := Run(Config{OutputDir: dir, Now: fixedClock}, zerolog.Nop())
			var missing *errdefs.MissingInputError
			require.True(t, errors.As(err, &missing), "expected MissingInputError, got %v", err)
			assert.Equal(t, c.Path(dir), missing.Path)

			_, statErr := os.Stat(filepath.Join(dir, DefaultFile))
			assert.True(t, os.IsNotExist(statErr), "report must not be written")
		})
	}
}

func TestRunMalformedInput(t *testing.T) {
	dir := writeSample(t)
	path := analytics.MonthlySalesFile.Path(dir)
	require.NoError(t, os.WriteFile(path, []byte("month,total_revenue,orders_count\n2025-01,lots,1\n"), 0o644))

	_, err := Run(Config{OutputDir: dir}, zerolog.Nop())
	var missing *errdefs.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, path, missing.Path)
}

func TestRenderEmptySections(t *testing.T) {
	_, s := sampleOutputs()
	v := BuildView(DefaultTitle, fixedClock(), &analytics.Outputs{}, s)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v))
	assert.Contains(t, buf.String(), "No monthly sales data available.")
	assert.Contains(t, buf.String(), "No customer review data available.")
}
