//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model holds the e-commerce entities shared by every stage.
//
// Monetary amounts are decimal.Decimal so that subtotals and order totals
// compare exactly. Calendar dates are time.Time values at UTC midnight.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in files.
const DateLayout = "2006-01-02"

// Table names, parents before children.
const (
	TableCustomers  = "customers"
	TableProducts   = "products"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
	TableReviews    = "reviews"
)

// Tables lists the entity tables in load order.
var Tables = []string{TableCustomers, TableProducts, TableOrders, TableOrderItems, TableReviews}

// Customer is a registered shopper.
type Customer struct {
	CustomerID       int64 `gorm:"primaryKey;autoIncrement:false"`
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	City             string
	State            string
	ZipCode          string
	RegistrationDate time.Time
}

func (Customer) TableName() string { return TableCustomers }

// FullName joins first and last name with a single space.
func (c Customer) FullName() string { return c.FirstName + " " + c.LastName }

// Product is a catalogue item.
type Product struct {
	ProductID     int64 `gorm:"primaryKey;autoIncrement:false"`
	ProductName   string
	Category      Category
	Price         decimal.Decimal
	StockQuantity int64
	Supplier      string
	Description   string
}

func (Product) TableName() string { return TableProducts }

// Order is a purchase placed by one customer.
type Order struct {
	OrderID         int64 `gorm:"primaryKey;autoIncrement:false"`
	CustomerID      int64
	OrderDate       time.Time
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	ShippingAddress string
}

func (Order) TableName() string { return TableOrders }

// OrderItem is one product line of an order.
type OrderItem struct {
	OrderItemID int64 `gorm:"primaryKey;autoIncrement:false"`
	OrderID     int64
	ProductID   int64
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

func (OrderItem) TableName() string { return TableOrderItems }

// Review is a customer's rating of a product.
type Review struct {
	ReviewID   int64 `gorm:"primaryKey;autoIncrement:false"`
	ProductID  int64
	CustomerID int64
	Rating     int
	ReviewText string
	ReviewDate time.Time
}

func (Review) TableName() string { return TableReviews }

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
