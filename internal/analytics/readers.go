package analytics

import (
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// ReadOutputs parses the files written by WriteOutputs from dir. A missing
// or malformed file is reported as a MissingInputError naming it.
func ReadOutputs(dir string) (*Outputs, *Summary, error) {
	outs := &Outputs{}

	err := tabular.ParseRows(dir, TopCustomersFile, func(r *tabular.Row) {
		outs.TopCustomers = append(outs.TopCustomers, TopCustomer{
			CustomerID:   r.Int(0),
			CustomerName: r.Str(1),
			Email:        r.Str(2),
			Phone:        r.Str(3),
			OrdersCount:  r.Int(4),
			TotalSpent:   r.Money(5),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	err = tabular.ParseRows(dir, ProductPerformanceFile, func(r *tabular.Row) {
		outs.ProductPerformance = append(outs.ProductPerformance, ProductPerformance{
			ProductID:     r.Int(0),
			ProductName:   r.Str(1),
			Category:      r.Category(2),
			TotalRevenue:  r.Money(3),
			UnitsSold:     r.Int(4),
			AverageRating: r.NullDecimal(5),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	err = tabular.ParseRows(dir, MonthlySalesFile, func(r *tabular.Row) {
		outs.MonthlySales = append(outs.MonthlySales, MonthlySales{
			Month:        r.Str(0),
			TotalRevenue: r.Money(1),
			OrdersCount:  r.Int(2),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	err = tabular.ParseRows(dir, CategoryAnalysisFile, func(r *tabular.Row) {
		outs.CategoryAnalysis = append(outs.CategoryAnalysis, CategorySales{
			Category:          r.Category(0),
			TotalRevenue:      r.Money(1),
			OrdersCount:       r.Int(2),
			AverageOrderValue: r.NullDecimal(3),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	err = tabular.ParseRows(dir, CustomerReviewsFile, func(r *tabular.Row) {
		outs.CustomerReviews = append(outs.CustomerReviews, CustomerReviews{
			CustomerID:     r.Int(0),
			CustomerName:   r.Str(1),
			ReviewsCount:   r.Int(2),
			ReviewCoverage: r.NullDecimal(3),
			AverageRating:  r.NullDecimal(4),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	summary, err := readSummary(dir)
	if err != nil {
		return nil, nil, err
	}
	return outs, summary, nil
}
