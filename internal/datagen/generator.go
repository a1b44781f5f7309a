//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

// Reference data
var suppliers = []string{
	"Northwind Traders", "Globex Corporation", "Initech",
	"Umbrella Supplies", "Soylent Corp", "Acme Wholesale",
}

// Weights follow model.OrderStatuses order.
var statusWeights = []int{10, 20, 35, 30, 5}

const (
	minPrice          = 5.0
	maxPrice          = 500.0
	maxStock          = 500
	maxQuantity       = 4
	ownAddressChance  = 0.7
	productRetries    = 5
	registrationYears = 2
)

// Config controls the size and randomness of a generated dataset.
type Config struct {
	Customers        int
	Products         int
	Orders           int
	MinItemsPerOrder int
	MaxItemsPerOrder int
	Reviews          int
	Seed             uint64

	// ReferenceDate is "today" for the dataset; all dates fall on or
	// before it.
	ReferenceDate time.Time
}

// DefaultConfig returns the default generation settings referenced to
// today (UTC).
func DefaultConfig() Config {
	return DefaultConfigAt(time.Now().UTC())
}

// DefaultConfigAt returns the default generation settings for a fixed
// reference date.
func DefaultConfigAt(reference time.Time) Config {
	return Config{
		Customers:        100,
		Products:         50,
		Orders:           200,
		MinItemsPerOrder: 1,
		MaxItemsPerOrder: 5,
		Reviews:          150,
		Seed:             42,
		ReferenceDate:    model.Day(reference),
	}
}

// Validate rejects non-positive counts and an inverted item range.
func (c Config) Validate() error {
	counts := []struct {
		field string
		value int
	}{
		{"generate.customers", c.Customers},
		{"generate.products", c.Products},
		{"generate.orders", c.Orders},
		{"generate.min_items_per_order", c.MinItemsPerOrder},
		{"generate.max_items_per_order", c.MaxItemsPerOrder},
		{"generate.reviews", c.Reviews},
	}
	for _, cnt := range counts {
		if cnt.value <= 0 {
			return &errdefs.ConfigurationError{
				Field:  cnt.field,
				Reason: fmt.Sprintf("must be positive, got %d", cnt.value),
			}
		}
	}
	if c.MaxItemsPerOrder < c.MinItemsPerOrder {
		return &errdefs.ConfigurationError{
			Field: "generate.max_items_per_order",
			Reason: fmt.Sprintf("must be at least min_items_per_order (%d), got %d",
				c.MinItemsPerOrder, c.MaxItemsPerOrder),
		}
	}
	if c.ReferenceDate.IsZero() {
		return &errdefs.ConfigurationError{Field: "generate.reference_date", Reason: "is not set"}
	}
	return nil
}

// Generator produces a Dataset from a Config.
type Generator struct {
	cfg   Config
	faker *Faker
	log   zerolog.Logger
}

// NewGenerator creates a generator seeded from cfg.Seed.
func NewGenerator(cfg Config, log zerolog.Logger) *Generator {
	cfg.ReferenceDate = model.Day(cfg.ReferenceDate)
	return &Generator{
		cfg:   cfg,
		faker: NewFakerWithSeed(cfg.Seed),
		log:   log,
	}
}

// Generate builds the full dataset and checks it before returning.
func (g *Generator) Generate() (*model.Dataset, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	g.log.Info().
		Int("customers", g.cfg.Customers).
		Int("products", g.cfg.Products).
		Int("orders", g.cfg.Orders).
		Int("reviews", g.cfg.Reviews).
		Uint64("seed", g.cfg.Seed).
		Str("reference_date", g.cfg.ReferenceDate.Format(model.DateLayout)).
		Msg("Generating dataset")

	ds := &model.Dataset{}
	ds.Customers = g.generateCustomers()
	ds.Products = g.generateProducts()
	ds.Orders, ds.OrderItems = g.generateOrders(ds.Customers, ds.Products)
	ds.Reviews = g.generateReviews(ds.Orders, ds.OrderItems)

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("generated dataset is inconsistent: %w", err)
	}
	return ds, nil
}

func (g *Generator) progress(table string, total int) *ProgressReporter {
	return NewProgressReporter(g.log, table, int64(total), int64(max(1, total/10)))
}

func (g *Generator) address() (street, city, state, zip string) {
	return g.faker.Street(), g.faker.City(), g.faker.State(), g.faker.Zip()
}

func formatAddress(street, city, state, zip string) string {
	return fmt.Sprintf("%s, %s, %s %s", street, city, state, zip)
}

func (g *Generator) generateCustomers() []model.Customer {
	progress := g.progress(model.TableCustomers, g.cfg.Customers)
	out := make([]model.Customer, 0, g.cfg.Customers)
	emails := make(map[string]bool, g.cfg.Customers)
	earliest := g.cfg.ReferenceDate.AddDate(-registrationYears, 0, 0)

	for i := 1; i <= g.cfg.Customers; i++ {
		first, last := g.faker.FirstName(), g.faker.LastName()
		email := g.faker.Email(first, last)
		if emails[email] {
			email = strings.Replace(email, "@", fmt.Sprintf("%d@", i), 1)
		}
		emails[email] = true

		street, city, state, zip := g.address()
		out = append(out, model.Customer{
			CustomerID:       int64(i),
			FirstName:        first,
			LastName:         last,
			Email:            email,
			Phone:            g.faker.Phone(),
			Address:          street,
			City:             city,
			State:            state,
			ZipCode:          zip,
			RegistrationDate: g.faker.Day(earliest, g.cfg.ReferenceDate),
		})
		progress.Update(1)
	}
	progress.Done()
	return out
}

func (g *Generator) generateProducts() []model.Product {
	progress := g.progress(model.TableProducts, g.cfg.Products)
	out := make([]model.Product, 0, g.cfg.Products)
	categories := model.Categories()

	for i := 1; i <= g.cfg.Products; i++ {
		out = append(out, model.Product{
			ProductID:     int64(i),
			ProductName:   g.faker.ProductName(),
			Category:      Choose(g.faker, categories),
			Price:         g.faker.Money(minPrice, maxPrice),
			StockQuantity: int64(g.faker.Int(0, maxStock)),
			Supplier:      Choose(g.faker, suppliers),
			Description:   g.faker.ProductDescription(),
		})
		progress.Update(1)
	}
	progress.Done()
	return out
}

func (g *Generator) generateOrders(customers []model.Customer, products []model.Product) ([]model.Order, []model.OrderItem) {
	orderProgress := g.progress(model.TableOrders, g.cfg.Orders)
	orders := make([]model.Order, 0, g.cfg.Orders)
	items := make([]model.OrderItem, 0, g.cfg.Orders*(g.cfg.MinItemsPerOrder+g.cfg.MaxItemsPerOrder)/2)
	statuses := model.OrderStatuses()
	var itemID int64

	for i := 1; i <= g.cfg.Orders; i++ {
		customer := Choose(g.faker, customers)
		orderID := int64(i)

		shipping := formatAddress(customer.Address, customer.City, customer.State, customer.ZipCode)
		if !g.faker.Chance(ownAddressChance) {
			shipping = formatAddress(g.address())
		}

		order := model.Order{
			OrderID:         orderID,
			CustomerID:      customer.CustomerID,
			OrderDate:       g.faker.Day(customer.RegistrationDate, g.cfg.ReferenceDate),
			Status:          ChooseWeighted(g.faker, statuses, statusWeights),
			ShippingAddress: shipping,
			TotalAmount:     decimal.Zero,
		}

		inOrder := make(map[int64]bool)
		lines := g.faker.Int(g.cfg.MinItemsPerOrder, g.cfg.MaxItemsPerOrder)
		for j := 0; j < lines; j++ {
			product := Choose(g.faker, products)
			for retry := 0; retry < productRetries && inOrder[product.ProductID]; retry++ {
				product = Choose(g.faker, products)
			}
			inOrder[product.ProductID] = true

			itemID++
			qty := int64(g.faker.Int(1, maxQuantity))
			subtotal := product.Price.Mul(decimal.NewFromInt(qty))
			items = append(items, model.OrderItem{
				OrderItemID: itemID,
				OrderID:     orderID,
				ProductID:   product.ProductID,
				Quantity:    qty,
				UnitPrice:   product.Price,
				Subtotal:    subtotal,
			})
			order.TotalAmount = order.TotalAmount.Add(subtotal)
		}

		orders = append(orders, order)
		orderProgress.Update(1)
	}
	orderProgress.Done()
	g.log.Info().Str("table", model.TableOrderItems).Int("rows", len(items)).Msg("Table complete")
	return orders, items
}

// purchase is a (customer, product) pair seen in an order, with the
// earliest date it was bought.
type purchase struct {
	customerID int64
	productID  int64
	firstDate  time.Time
}

func purchases(orders []model.Order, items []model.OrderItem) []purchase {
	byOrder := make(map[int64]model.Order, len(orders))
	for _, o := range orders {
		byOrder[o.OrderID] = o
	}

	type key struct{ customer, product int64 }
	index := make(map[key]int)
	var out []purchase
	for _, it := range items {
		o := byOrder[it.OrderID]
		k := key{o.CustomerID, it.ProductID}
		if i, ok := index[k]; ok {
			if o.OrderDate.Before(out[i].firstDate) {
				out[i].firstDate = o.OrderDate
			}
			continue
		}
		index[k] = len(out)
		out = append(out, purchase{customerID: o.CustomerID, productID: it.ProductID, firstDate: o.OrderDate})
	}
	return out
}

func (g *Generator) generateReviews(orders []model.Order, items []model.OrderItem) []model.Review {
	progress := g.progress(model.TableReviews, g.cfg.Reviews)
	pairs := purchases(orders, items)
	unused := make([]purchase, len(pairs))
	copy(unused, pairs)
	out := make([]model.Review, 0, g.cfg.Reviews)

	for i := 1; i <= g.cfg.Reviews; i++ {
		var p purchase
		if len(unused) > 0 {
			idx := g.faker.Int(0, len(unused)-1)
			p = unused[idx]
			unused[idx] = unused[len(unused)-1]
			unused = unused[:len(unused)-1]
		} else {
			p = Choose(g.faker, pairs)
		}

		out = append(out, model.Review{
			ReviewID:   int64(i),
			ProductID:  p.productID,
			CustomerID: p.customerID,
			Rating:     g.faker.Int(1, 5),
			ReviewText: g.faker.Sentence(g.faker.Int(6, 20)),
			ReviewDate: g.faker.Day(p.firstDate, g.cfg.ReferenceDate),
		})
		progress.Update(1)
	}
	if len(pairs) < g.cfg.Reviews {
		g.log.Warn().
			Int("pairs", len(pairs)).
			Int("reviews", g.cfg.Reviews).
			Msg("More reviews than purchased pairs; some pairs reviewed twice")
	}
	progress.Done()
	return out
}
