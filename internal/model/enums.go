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
	"database/sql/driver"
	"fmt"
)

// Category is the closed set of product categories. The zero value is
// not a valid category.
type Category int

const (
	CategoryElectronics Category = iota + 1
	CategoryHomeKitchen
	CategorySports
	CategoryBeauty
	CategoryBooks
	CategoryToys
	CategoryClothing
	CategoryHealth
	CategoryAutomotive
	CategoryOfficeSupplies
)

var categoryLabels = map[Category]string{
	CategoryElectronics:    "Electronics",
	CategoryHomeKitchen:    "Home & Kitchen",
	CategorySports:         "Sports",
	CategoryBeauty:         "Beauty",
	CategoryBooks:          "Books",
	CategoryToys:           "Toys",
	CategoryClothing:       "Clothing",
	CategoryHealth:         "Health",
	CategoryAutomotive:     "Automotive",
	CategoryOfficeSupplies: "Office Supplies",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryLabels))
	for c := CategoryElectronics; c <= CategoryOfficeSupplies; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) String() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a stored label back to its category.
func ParseCategory(label string) (Category, error) {
	for c, l := range categoryLabels {
		if l == label {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", label)
}

// Value stores the category as its label.
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return c.String(), nil
}

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus int

const (
	StatusPending OrderStatus = iota + 1
	StatusProcessing
	StatusShipped
	StatusDelivered
	StatusCancelled
)

var statusLabels = map[OrderStatus]string{
	StatusPending:    "pending",
	StatusProcessing: "processing",
	StatusShipped:    "shipped",
	StatusDelivered:  "delivered",
	StatusCancelled:  "cancelled",
}

// OrderStatuses returns every status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s OrderStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

// ParseOrderStatus maps a stored label back to its status.
func ParseOrderStatus(label string) (OrderStatus, error) {
	for s, l := range statusLabels {
		if l == label {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", label)
}

func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid order status %d", int(s))
	}
	return s.String(), nil
}
