package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ShopFixture returns a small hand-checked dataset: five customers, three
// products, four orders with six items and five reviews.
//
// Expected aggregates:
//   - revenue per product: Gadget 51.00, Widget 50.00 (5 units), Doohickey 29.00 (no reviews)
//   - spend per customer: Ada 60.00 (2 orders), Grace 40.00, Alan 30.00
//   - months: 2025-01 45.50, 2025-02 44.50, 2025-03 40.00
//   - Ada reviewed products from one of her two orders (coverage 0.5)
func ShopFixture() *model.Dataset {
	reg := date("2024-01-01")
	return &model.Dataset{
		Customers: []model.Customer{
			{CustomerID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0101",
				Address: "12 Analytical Way", City: "London", State: "CA", ZipCode: "90001", RegistrationDate: reg},
			{CustomerID: 2, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Phone: "555-0102",
				Address: "1 Bletchley Park", City: "Milton", State: "MA", ZipCode: "02186", RegistrationDate: reg},
			{CustomerID: 3, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Phone: "555-0103",
				Address: "9 Cobol Court", City: "Arlington", State: "VA", ZipCode: "22201", RegistrationDate: reg},
			{CustomerID: 4, FirstName: "Edsger", LastName: "Dijkstra", Email: "edsger@example.com", Phone: "555-0104",
				Address: "3 Shortest Path", City: "Austin", State: "TX", ZipCode: "73301", RegistrationDate: reg},
			{CustomerID: 5, FirstName: "Barbara", LastName: "Liskov", Email: "barbara@example.com", Phone: "555-0105",
				Address: "5 Substitution St", City: "Cambridge", State: "MA", ZipCode: "02139", RegistrationDate: reg},
		},
		Products: []model.Product{
			{ProductID: 1, ProductName: "Widget", Category: model.CategoryElectronics, Price: money("10.00"),
				StockQuantity: 100, Supplier: "Initech", Description: "A widget"},
			{ProductID: 2, ProductName: "Gadget", Category: model.CategoryBooks, Price: money("25.50"),
				StockQuantity: 50, Supplier: "Globex Corporation", Description: "A gadget"},
			{ProductID: 3, ProductName: "Doohickey", Category: model.CategoryToys, Price: money("7.25"),
				StockQuantity: 10, Supplier: "Acme Wholesale", Description: "A doohickey"},
		},
		Orders: []model.Order{
			{OrderID: 1, CustomerID: 1, OrderDate: date("2025-01-15"), TotalAmount: money("45.50"),
				Status: model.StatusDelivered, ShippingAddress: "12 Analytical Way, London, CA 90001"},
			{OrderID: 2, CustomerID: 2, OrderDate: date("2025-02-10"), TotalAmount: money("30.00"),
				Status: model.StatusShipped, ShippingAddress: "1 Bletchley Park, Milton, MA 02186"},
			{OrderID: 3, CustomerID: 1, OrderDate: date("2025-02-20"), TotalAmount: money("14.50"),
				Status: model.StatusPending, ShippingAddress: "12 Analytical Way, London, CA 90001"},
			{OrderID: 4, CustomerID: 3, OrderDate: date("2025-03-05"), TotalAmount: money("40.00"),
				Status: model.StatusCancelled, ShippingAddress: "9 Cobol Court, Arlington, VA 22201"},
		},
		OrderItems: []model.OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: money("10.00"), Subtotal: money("20.00")},
			{OrderItemID: 2, OrderID: 1, ProductID: 2, Quantity: 1, UnitPrice: money("25.50"), Subtotal: money("25.50")},
			{OrderItemID: 3, OrderID: 2, ProductID: 1, Quantity: 3, UnitPrice: money("10.00"), Subtotal: money("30.00")},
			{OrderItemID: 4, OrderID: 3, ProductID: 3, Quantity: 2, UnitPrice: money("7.25"), Subtotal: money("14.50")},
			{OrderItemID: 5, OrderID: 4, ProductID: 2, Quantity: 1, UnitPrice: money("25.50"), Subtotal: money("25.50")},
			{OrderItemID: 6, OrderID: 4, ProductID: 3, Quantity: 2, UnitPrice: money("7.25"), Subtotal: money("14.50")},
		},
		Reviews: []model.Review{
			{ReviewID: 1, ProductID: 1, CustomerID: 1, Rating: 5, ReviewText: "Great widget", ReviewDate: date("2025-01-20")},
			{ReviewID: 2, ProductID: 2, CustomerID: 1, Rating: 4, ReviewText: "Good gadget", ReviewDate: date("2025-01-21")},
			{ReviewID: 3, ProductID: 1, CustomerID: 2, Rating: 3, ReviewText: "Fine", ReviewDate: date("2025-02-15")},
			{ReviewID: 4, ProductID: 2, CustomerID: 3, Rating: 2, ReviewText: "Meh", ReviewDate: date("2025-03-10")},
			{ReviewID: 5, ProductID: 2, CustomerID: 4, Rating: 5, ReviewText: "Love it", ReviewDate: date("2025-03-12")},
		},
	}
}

// MonthlyFixture returns n customers who each placed one 10.00 order, one
// calendar month apart starting January 2024. Every customer spends the
// same amount and every order falls in a different month.
func MonthlyFixture(n int) *model.Dataset {
	ds := &model.Dataset{
		Products: []model.Product{
			{ProductID: 1, ProductName: "Widget", Category: model.CategoryElectronics, Price: money("10.00"),
				StockQuantity: 10, Supplier: "Initech", Description: "A widget"},
		},
	}
	start := date("2024-01-15")
	for i := 1; i <= n; i++ {
		id := int64(i)
		ds.Customers = append(ds.Customers, model.Customer{
			CustomerID: id, FirstName: "Customer", LastName: fmt.Sprintf("%02d", i),
			Email: fmt.Sprintf("customer%d@example.com", i), RegistrationDate: date("2023-12-01"),
		})
		ds.Orders = append(ds.Orders, model.Order{
			OrderID: id, CustomerID: id, OrderDate: start.AddDate(0, i-1, 0),
			TotalAmount: money("10.00"), Status: model.StatusDelivered,
		})
		ds.OrderItems = append(ds.OrderItems, model.OrderItem{
			OrderItemID: id, OrderID: id, ProductID: 1, Quantity: 1,
			UnitPrice: money("10.00"), Subtotal: money("10.00"),
		})
	}
	return ds
}
