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
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

var testReference = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func smallConfig() Config {
	return Config{
		Customers:        5,
		Products:         3,
		Orders:           4,
		MinItemsPerOrder: 1,
		MaxItemsPerOrder: 2,
		Reviews:          5,
		Seed:             42,
		ReferenceDate:    testReference,
	}
}

func TestGenerateSmallDataset(t *testing.T) {
	ds, err := NewGenerator(smallConfig(), zerolog.Nop()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(ds.Customers) != 5 {
		t.Errorf("Expected 5 customers, got %d", len(ds.Customers))
	}
	if len(ds.Products) != 3 {
		t.Errorf("Expected 3 products, got %d", len(ds.Products))
	}
	if len(ds.Orders) != 4 {
		t.Errorf("Expected 4 orders, got %d", len(ds.Orders))
	}
	if len(ds.OrderItems) < 4 || len(ds.OrderItems) > 8 {
		t.Errorf("Expected 4..8 order items, got %d", len(ds.OrderItems))
	}
	if len(ds.Reviews) != 5 {
		t.Errorf("Expected 5 reviews, got %d", len(ds.Reviews))
	}

	if err := ds.Validate(); err != nil {
		t.Errorf("Generated dataset failed validation: %v", err)
	}
}

func TestGenerateInvariants(t *testing.T) {
	ds, err := NewGenerator(DefaultConfigAt(testReference), zerolog.Nop()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	customers := make(map[int64]model.Customer)
	for _, c := range ds.Customers {
		customers[c.CustomerID] = c
		if c.RegistrationDate.After(testReference) || c.RegistrationDate.Before(testReference.AddDate(-2, 0, 0)) {
			t.Errorf("Customer %d registration date %v out of range", c.CustomerID, c.RegistrationDate)
		}
	}

	for _, p := range ds.Products {
		if p.Price.InexactFloat64() < 5 || p.Price.InexactFloat64() > 500 {
			t.Errorf("Product %d price %s out of range", p.ProductID, p.Price)
		}
		if p.StockQuantity < 0 || p.StockQuantity > 500 {
			t.Errorf("Product %d stock %d out of range", p.ProductID, p.StockQuantity)
		}
	}

	orders := make(map[int64]model.Order)
	for _, o := range ds.Orders {
		orders[o.OrderID] = o
		reg := customers[o.CustomerID].RegistrationDate
		if o.OrderDate.Before(reg) || o.OrderDate.After(testReference) {
			t.Errorf("Order %d date %v outside [%v, %v]", o.OrderID, o.OrderDate, reg, testReference)
		}
	}

	lines := make(map[int64]int)
	purchased := make(map[[2]int64]time.Time)
	for _, it := range ds.OrderItems {
		lines[it.OrderID]++
		if it.Quantity < 1 || it.Quantity > 4 {
			t.Errorf("Item %d quantity %d out of range", it.OrderItemID, it.Quantity)
		}
		o := orders[it.OrderID]
		key := [2]int64{o.CustomerID, it.ProductID}
		if first, ok := purchased[key]; !ok || o.OrderDate.Before(first) {
			purchased[key] = o.OrderDate
		}
	}
	for id, n := range lines {
		if n < 1 || n > 5 {
			t.Errorf("Order %d has %d lines, want 1..5", id, n)
		}
	}

	for _, r := range ds.Reviews {
		first, ok := purchased[[2]int64{r.CustomerID, r.ProductID}]
		if !ok {
			t.Errorf("Review %d is for a product the customer never bought", r.ReviewID)
			continue
		}
		if r.ReviewDate.Before(first) || r.ReviewDate.After(testReference) {
			t.Errorf("Review %d date %v outside [%v, %v]", r.ReviewID, r.ReviewDate, first, testReference)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := NewGenerator(smallConfig(), zerolog.Nop()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := NewGenerator(smallConfig(), zerolog.Nop()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i := range a.Customers {
		if a.Customers[i].Email != b.Customers[i].Email {
			t.Errorf("Customer %d email differs: %s vs %s", i, a.Customers[i].Email, b.Customers[i].Email)
		}
	}
	for i := range a.Orders {
		if !a.Orders[i].TotalAmount.Equal(b.Orders[i].TotalAmount) {
			t.Errorf("Order %d total differs: %s vs %s", i, a.Orders[i].TotalAmount, b.Orders[i].TotalAmount)
		}
	}

	other := smallConfig()
	other.Seed = 7
	c, err := NewGenerator(other, zerolog.Nop()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	same := true
	for i := range a.Customers {
		if a.Customers[i].Email != c.Customers[i].Email {
			same = false
		}
	}
	if same {
		t.Error("Different seeds produced identical customers")
	}
}

func TestGenerateUniqueEmails(t *testing.T) {
	cfg := DefaultConfigAt(testReference)
	cfg.Customers = 2000
	ds, err := NewGenerator(cfg, zerolog.Nop()).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, c := range ds.Customers {
		if seen[c.Email] {
			t.Fatalf("Duplicate email %s", c.Email)
		}
		seen[c.Email] = true
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero customers", func(c *Config) { c.Customers = 0 }, "generate.customers"},
		{"negative products", func(c *Config) { c.Products = -1 }, "generate.products"},
		{"zero orders", func(c *Config) { c.Orders = 0 }, "generate.orders"},
		{"zero reviews", func(c *Config) { c.Reviews = 0 }, "generate.reviews"},
		{"inverted items", func(c *Config) { c.MinItemsPerOrder = 3; c.MaxItemsPerOrder = 2 }, "generate.max_items_per_order"},
		{"no reference date", func(c *Config) { c.ReferenceDate = time.Time{} }, "generate.reference_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.modify(&cfg)
			_, err := NewGenerator(cfg, zerolog.Nop()).Generate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			var cfgErr *errdefs.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Expected field %s, got %s", tt.wantField, cfgErr.Field)
			}
		})
	}
}
