//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"github.com/pgEdge/pgedge-shopinsights/internal/model"
	"github.com/pgEdge/pgedge-shopinsights/internal/tabular"
)

// MetadataTable records what was loaded and when.
const MetadataTable = "shopinsights_metadata"

// The DDL is portable across PostgreSQL, SQLite and MySQL 8: foreign keys
// are table constraints because MySQL ignores inline REFERENCES.
var createStatements = []string{
	`CREATE TABLE customers (
    customer_id       BIGINT       NOT NULL PRIMARY KEY,
    first_name        VARCHAR(100) NOT NULL,
    last_name         VARCHAR(100) NOT NULL,
    email             VARCHAR(255) NOT NULL UNIQUE,
    phone             VARCHAR(50),
    address           VARCHAR(255),
    city              VARCHAR(100),
    state             VARCHAR(50),
    zip_code          VARCHAR(20),
    registration_date DATE         NOT NULL
)`,
	`CREATE TABLE products (
    product_id     BIGINT        NOT NULL PRIMARY KEY,
    product_name   VARCHAR(255)  NOT NULL,
    category       VARCHAR(50)   NOT NULL,
    price          NUMERIC(12,2) NOT NULL CHECK (price > 0),
    stock_quantity INTEGER       NOT NULL CHECK (stock_quantity >= 0),
    supplier       VARCHAR(100),
    description    TEXT
)`,
	`CREATE TABLE orders (
    order_id         BIGINT        NOT NULL PRIMARY KEY,
    customer_id      BIGINT        NOT NULL,
    order_date       DATE          NOT NULL,
    total_amount     NUMERIC(12,2) NOT NULL,
    status           VARCHAR(20)   NOT NULL,
    shipping_address VARCHAR(255),
    FOREIGN KEY (customer_id) REFERENCES customers (customer_id)
)`,
	`CREATE TABLE order_items (
    order_item_id BIGINT        NOT NULL PRIMARY KEY,
    order_id      BIGINT        NOT NULL,
    product_id    BIGINT        NOT NULL,
    quantity      INTEGER       NOT NULL CHECK (quantity > 0),
    unit_price    NUMERIC(12,2) NOT NULL,
    subtotal      NUMERIC(12,2) NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders (order_id),
    FOREIGN KEY (product_id) REFERENCES products (product_id)
)`,
	`CREATE TABLE reviews (
    review_id   BIGINT  NOT NULL PRIMARY KEY,
    product_id  BIGINT  NOT NULL,
    customer_id BIGINT  NOT NULL,
    rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    review_text TEXT,
    review_date DATE    NOT NULL,
    FOREIGN KEY (product_id) REFERENCES products (product_id),
    FOREIGN KEY (customer_id) REFERENCES customers (customer_id)
)`,
	`CREATE INDEX idx_orders_customer ON orders (customer_id)`,
	`CREATE INDEX idx_orders_date ON orders (order_date)`,
	`CREATE INDEX idx_order_items_order ON order_items (order_id)`,
	`CREATE INDEX idx_order_items_product ON order_items (product_id)`,
	`CREATE INDEX idx_reviews_product ON reviews (product_id)`,
	`CREATE INDEX idx_reviews_customer ON reviews (customer_id)`,
	`CREATE TABLE ` + MetadataTable + ` (
    meta_key   VARCHAR(100) NOT NULL PRIMARY KEY,
    meta_value TEXT         NOT NULL
)`,
}

// Children are dropped before their parents.
var dropStatements = []string{
	"DROP TABLE IF EXISTS " + MetadataTable,
	"DROP TABLE IF EXISTS reviews",
	"DROP TABLE IF EXISTS order_items",
	"DROP TABLE IF EXISTS orders",
	"DROP TABLE IF EXISTS products",
	"DROP TABLE IF EXISTS customers",
}

// tableRows is one table's rows as driver values, columns in contract
// order.
type tableRows struct {
	name    string
	columns []string
	rows    [][]any
}

// datasetRows flattens ds into per-table rows, parents first.
func datasetRows(ds *model.Dataset) []tableRows {
	customers := make([][]any, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		customers = append(customers, []any{
			c.CustomerID, c.FirstName, c.LastName, c.Email, c.Phone,
			c.Address, c.City, c.State, c.ZipCode, c.RegistrationDate,
		})
	}

	products := make([][]any, 0, len(ds.Products))
	for _, p := range ds.Products {
		products = append(products, []any{
			p.ProductID, p.ProductName, p.Category.String(), p.Price,
			p.StockQuantity, p.Supplier, p.Description,
		})
	}

	orders := make([][]any, 0, len(ds.Orders))
	for _, o := range ds.Orders {
		orders = append(orders, []any{
			o.OrderID, o.CustomerID, o.OrderDate, o.TotalAmount,
			o.Status.String(), o.ShippingAddress,
		})
	}

	items := make([][]any, 0, len(ds.OrderItems))
	for _, it := range ds.OrderItems {
		items = append(items, []any{
			it.OrderItemID, it.OrderID, it.ProductID, it.Quantity,
			it.UnitPrice, it.Subtotal,
		})
	}

	reviews := make([][]any, 0, len(ds.Reviews))
	for _, r := range ds.Reviews {
		reviews = append(reviews, []any{
			r.ReviewID, r.ProductID, r.CustomerID, int64(r.Rating),
			r.ReviewText, r.ReviewDate,
		})
	}

	return []tableRows{
		{model.TableCustomers, tabular.Customers.Columns, customers},
		{model.TableProducts, tabular.Products.Columns, products},
		{model.TableOrders, tabular.Orders.Columns, orders},
		{model.TableOrderItems, tabular.OrderItems.Columns, items},
		{model.TableReviews, tabular.Reviews.Columns, reviews},
	}
}
