//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package tabular

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-shopinsights/internal/model"
)

// Money formats an amount with exactly two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// WriteDataset writes the five entity files into dir.
func WriteDataset(dir string, ds *model.Dataset) error {
	customers := make([][]string, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		customers = append(customers, []string{
			formatID(c.CustomerID), c.FirstName, c.LastName, c.Email, c.Phone,
			c.Address, c.City, c.State, c.ZipCode, formatDate(c.RegistrationDate),
		})
	}
	if err := Customers.Write(dir, customers); err != nil {
		return err
	}

	products := make([][]string, 0, len(ds.Products))
	for _, p := range ds.Products {
		products = append(products, []string{
			formatID(p.ProductID), p.ProductName, p.Category.String(), Money(p.Price),
			formatID(p.StockQuantity), p.Supplier, p.Description,
		})
	}
	if err := Products.Write(dir, products); err != nil {
		return err
	}

	orders := make([][]string, 0, len(ds.Orders))
	for _, o := range ds.Orders {
		orders = append(orders, []string{
			formatID(o.OrderID), formatID(o.CustomerID), formatDate(o.OrderDate),
			Money(o.TotalAmount), o.Status.String(), o.ShippingAddress,
		})
	}
	if err := Orders.Write(dir, orders); err != nil {
		return err
	}

	items := make([][]string, 0, len(ds.OrderItems))
	for _, it := range ds.OrderItems {
		items = append(items, []string{
			formatID(it.OrderItemID), formatID(it.OrderID), formatID(it.ProductID),
			formatID(it.Quantity), Money(it.UnitPrice), Money(it.Subtotal),
		})
	}
	if err := OrderItems.Write(dir, items); err != nil {
		return err
	}

	reviews := make([][]string, 0, len(ds.Reviews))
	for _, r := range ds.Reviews {
		reviews = append(reviews, []string{
			formatID(r.ReviewID), formatID(r.ProductID), formatID(r.CustomerID),
			strconv.Itoa(r.Rating), r.ReviewText, formatDate(r.ReviewDate),
		})
	}
	return Reviews.Write(dir, reviews)
}

// ReadDataset reads the five entity files from dir.
func ReadDataset(dir string) (*model.Dataset, error) {
	ds := &model.Dataset{}

	err := ParseRows(dir, Customers, func(r *Row) {
		ds.Customers = append(ds.Customers, model.Customer{
			CustomerID:       r.Int(0),
			FirstName:        r.Str(1),
			LastName:         r.Str(2),
			Email:            r.Str(3),
			Phone:            r.Str(4),
			Address:          r.Str(5),
			City:             r.Str(6),
			State:            r.Str(7),
			ZipCode:          r.Str(8),
			RegistrationDate: r.Date(9),
		})
	})
	if err != nil {
		return nil, err
	}

	err = ParseRows(dir, Products, func(r *Row) {
		ds.Products = append(ds.Products, model.Product{
			ProductID:     r.Int(0),
			ProductName:   r.Str(1),
			Category:      r.Category(2),
			Price:         r.Money(3),
			StockQuantity: r.Int(4),
			Supplier:      r.Str(5),
			Description:   r.Str(6),
		})
	})
	if err != nil {
		return nil, err
	}

	err = ParseRows(dir, Orders, func(r *Row) {
		ds.Orders = append(ds.Orders, model.Order{
			OrderID:         r.Int(0),
			CustomerID:      r.Int(1),
			OrderDate:       r.Date(2),
			TotalAmount:     r.Money(3),
			Status:          r.Status(4),
			ShippingAddress: r.Str(5),
		})
	})
	if err != nil {
		return nil, err
	}

	err = ParseRows(dir, OrderItems, func(r *Row) {
		ds.OrderItems = append(ds.OrderItems, model.OrderItem{
			OrderItemID: r.Int(0),
			OrderID:     r.Int(1),
			ProductID:   r.Int(2),
			Quantity:    r.Int(3),
			UnitPrice:   r.Money(4),
			Subtotal:    r.Money(5),
		})
	})
	if err != nil {
		return nil, err
	}

	err = ParseRows(dir, Reviews, func(r *Row) {
		ds.Reviews = append(ds.Reviews, model.Review{
			ReviewID:   r.Int(0),
			ProductID:  r.Int(1),
			CustomerID: r.Int(2),
			Rating:     int(r.Int(3)),
			ReviewText: r.Str(4),
			ReviewDate: r.Date(5),
		})
	})
	if err != nil {
		return nil, err
	}

	return ds, nil
}
