//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/errdefs"
)

// Dataset is one complete generation of the five entity tables.
type Dataset struct {
	Customers  []Customer
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Reviews    []Review
}

// Counts returns the number of rows per table.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		TableCustomers:  len(d.Customers),
		TableProducts:   len(d.Products),
		TableOrders:     len(d.Orders),
		TableOrderItems: len(d.OrderItems),
		TableReviews:    len(d.Reviews),
	}
}

// Validate runs every dataset check: keys, references, then totals.
func (d *Dataset) Validate() error {
	if err := d.CheckKeys(); err != nil {
		return err
	}
	if err := d.CheckReferences(); err != nil {
		return err
	}
	return d.CheckTotals()
}

// CheckKeys rejects duplicate primary keys, duplicate emails and values
// outside the declared enums or ranges.
func (d *Dataset) CheckKeys() error {
	seen := make(map[int64]bool, len(d.Customers))
	emails := make(map[string]int64, len(d.Customers))
	for _, c := range d.Customers {
		if seen[c.CustomerID] {
			return duplicate(TableCustomers, c.CustomerID)
		}
		seen[c.CustomerID] = true
		if other, ok := emails[c.Email]; ok {
			return &errdefs.ConsistencyError{
				Table:  TableCustomers,
				Key:    c.CustomerID,
				Reason: fmt.Sprintf("email %q already used by customer %d", c.Email, other),
			}
		}
		emails[c.Email] = c.CustomerID
	}

	seen = make(map[int64]bool, len(d.Products))
	for _, p := range d.Products {
		if seen[p.ProductID] {
			return duplicate(TableProducts, p.ProductID)
		}
		seen[p.ProductID] = true
		if !p.Category.Valid() {
			return &errdefs.ConsistencyError{Table: TableProducts, Key: p.ProductID, Reason: "invalid category"}
		}
		if !p.Price.IsPositive() {
			return &errdefs.ConsistencyError{Table: TableProducts, Key: p.ProductID, Reason: "price must be positive"}
		}
		if p.StockQuantity < 0 {
			return &errdefs.ConsistencyError{Table: TableProducts, Key: p.ProductID, Reason: "negative stock quantity"}
		}
	}

	seen = make(map[int64]bool, len(d.Orders))
	for _, o := range d.Orders {
		if seen[o.OrderID] {
			return duplicate(TableOrders, o.OrderID)
		}
		seen[o.OrderID] = true
		if !o.Status.Valid() {
			return &errdefs.ConsistencyError{Table: TableOrders, Key: o.OrderID, Reason: "invalid status"}
		}
	}

	seen = make(map[int64]bool, len(d.OrderItems))
	for _, it := range d.OrderItems {
		if seen[it.OrderItemID] {
			return duplicate(TableOrderItems, it.OrderItemID)
		}
		seen[it.OrderItemID] = true
		if it.Quantity <= 0 {
			return &errdefs.ConsistencyError{Table: TableOrderItems, Key: it.OrderItemID, Reason: "quantity must be positive"}
		}
	}

	seen = make(map[int64]bool, len(d.Reviews))
	for _, r := range d.Reviews {
		if seen[r.ReviewID] {
			return duplicate(TableReviews, r.ReviewID)
		}
		seen[r.ReviewID] = true
		if r.Rating < 1 || r.Rating > 5 {
			return &errdefs.ConsistencyError{
				Table:  TableReviews,
				Key:    r.ReviewID,
				Reason: fmt.Sprintf("rating %d outside 1..5", r.Rating),
			}
		}
	}
	return nil
}

func duplicate(table string, key int64) error {
	return &errdefs.ConsistencyError{Table: table, Key: key, Reason: "duplicate primary key"}
}

// CheckReferences verifies that every foreign key resolves to an existing
// parent row. The first violation found is returned.
func (d *Dataset) CheckReferences() error {
	customers := make(map[int64]bool, len(d.Customers))
	for _, c := range d.Customers {
		customers[c.CustomerID] = true
	}
	products := make(map[int64]bool, len(d.Products))
	for _, p := range d.Products {
		products[p.ProductID] = true
	}
	orders := make(map[int64]bool, len(d.Orders))
	for _, o := range d.Orders {
		orders[o.OrderID] = true
	}

	for _, o := range d.Orders {
		if !customers[o.CustomerID] {
			return orphan(TableOrders, "customer_id", o.CustomerID, TableCustomers)
		}
	}
	for _, it := range d.OrderItems {
		if !orders[it.OrderID] {
			return orphan(TableOrderItems, "order_id", it.OrderID, TableOrders)
		}
		if !products[it.ProductID] {
			return orphan(TableOrderItems, "product_id", it.ProductID, TableProducts)
		}
	}
	for _, r := range d.Reviews {
		if !products[r.ProductID] {
			return orphan(TableReviews, "product_id", r.ProductID, TableProducts)
		}
		if !customers[r.CustomerID] {
			return orphan(TableReviews, "customer_id", r.CustomerID, TableCustomers)
		}
	}
	return nil
}

func orphan(table, column string, key int64, parent string) error {
	return &errdefs.ReferentialIntegrityError{Table: table, Column: column, Key: key, Parent: parent}
}

// CheckTotals verifies subtotal == quantity * unit_price for every item
// and total_amount == sum(subtotal) for every order.
func (d *Dataset) CheckTotals() error {
	sums := make(map[int64]decimal.Decimal, len(d.Orders))
	for _, it := range d.OrderItems {
		want := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		if !it.Subtotal.Equal(want) {
			return &errdefs.ConsistencyError{
				Table:  TableOrderItems,
				Key:    it.OrderItemID,
				Reason: fmt.Sprintf("subtotal %s != %d x %s", it.Subtotal.StringFixed(2), it.Quantity, it.UnitPrice.StringFixed(2)),
			}
		}
		sums[it.OrderID] = sums[it.OrderID].Add(it.Subtotal)
	}
	for _, o := range d.Orders {
		if !o.TotalAmount.Equal(sums[o.OrderID]) {
			return &errdefs.ConsistencyError{
				Table:  TableOrders,
				Key:    o.OrderID,
				Reason: fmt.Sprintf("total_amount %s != sum of subtotals %s", o.TotalAmount.StringFixed(2), sums[o.OrderID].StringFixed(2)),
			}
		}
	}
	return nil
}
