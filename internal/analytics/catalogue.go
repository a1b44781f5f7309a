// Package analytics implements the analyze stage: five fixed aggregations
// over a loaded store plus a set of headline metrics.
package analytics

import (
	"fmt"

	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// Definition describes one aggregation and the file it produces.
type Definition struct {
	Name        string
	Description string
	Contract    tabular.Contract
}

// Aggregation names, in execution order.
const (
	QueryTopCustomers       = "top_customers"
	QueryProductPerformance = "product_performance"
	QueryMonthlySales       = "monthly_sales"
	QueryCategoryAnalysis   = "category_analysis"
	QueryCustomerReviews    = "customer_reviews"
)

var catalogue = []Definition{
	{
		Name:        QueryTopCustomers,
		Description: "Customers ranked by total spend",
		Contract:    TopCustomersFile,
	},
	{
		Name:        QueryProductPerformance,
		Description: "Revenue, units sold and average rating per product",
		Contract:    ProductPerformanceFile,
	},
	{
		Name:        QueryMonthlySales,
		Description: "Revenue and order count for the most recent months",
		Contract:    MonthlySalesFile,
	},
	{
		Name:        QueryCategoryAnalysis,
		Description: "Revenue, orders and average order value per category",
		Contract:    CategoryAnalysisFile,
	},
	{
		Name:        QueryCustomerReviews,
		Description: "Review activity and review coverage per customer",
		Contract:    CustomerReviewsFile,
	},
}

// Catalogue returns all aggregations in execution order.
func Catalogue() []Definition {
	out := make([]Definition, len(catalogue))
	copy(out, catalogue)
	return out
}

// Get retrieves an aggregation by name.
func Get(name string) (Definition, error) {
	for _, def := range catalogue {
		if def.Name == name {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("unknown aggregation: %s", name)
}

// List returns all aggregation names in execution order.
func List() []string {
	names := make([]string, 0, len(catalogue))
	for _, def := range catalogue {
		names = append(names, def.Name)
	}
	return names
}
