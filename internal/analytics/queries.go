package analytics

import (
	"fmt"

	"github.com/pgEdge/pgedge-shopinsights/internal/store"
)

// The statements below run unchanged on PostgreSQL, SQLite and MySQL 8
// apart from the month expression. Aggregates over child tables are
// computed in derived tables before joining so that one product's items
// and reviews never multiply each other.

func topCustomersSQL(limit int) string {
	return fmt.Sprintf(`
SELECT c.customer_id, c.first_name, c.last_name, c.email, c.phone,
       COUNT(o.order_id)             AS orders_count,
       ROUND(SUM(o.total_amount), 2) AS total_spent
FROM customers c
JOIN orders o ON o.customer_id = c.customer_id
GROUP BY c.customer_id, c.first_name, c.last_name, c.email, c.phone
ORDER BY total_spent DESC, c.customer_id ASC
LIMIT %d`, limit)
}

const productPerformanceSQL = `
SELECT p.product_id, p.product_name, p.category,
       COALESCE(s.revenue, 0) AS total_revenue,
       COALESCE(s.units, 0)   AS units_sold,
       r.avg_rating           AS average_rating
FROM products p
LEFT JOIN (
    SELECT product_id, ROUND(SUM(subtotal), 2) AS revenue, SUM(quantity) AS units
    FROM order_items
    GROUP BY product_id
) s ON s.product_id = p.product_id
LEFT JOIN (
    SELECT product_id, ROUND(AVG(rating), 2) AS avg_rating
    FROM reviews
    GROUP BY product_id
) r ON r.product_id = p.product_id
ORDER BY total_revenue DESC, p.product_id ASC`

// monthlySalesSQL selects the most recent months through a joined derived
// table; MySQL rejects LIMIT inside IN subqueries.
func monthlySalesSQL(d store.Dialect, months int) string {
	month := d.MonthExpr("order_date")
	return fmt.Sprintf(`
SELECT m.sales_month, ROUND(SUM(m.total_amount), 2) AS total_revenue, COUNT(*) AS orders_count
FROM (
    SELECT %s AS sales_month, total_amount FROM orders
) m
JOIN (
    SELECT DISTINCT %s AS sales_month FROM orders
    ORDER BY sales_month DESC
    LIMIT %d
) recent ON recent.sales_month = m.sales_month
GROUP BY m.sales_month
ORDER BY m.sales_month ASC`, month, month, months)
}

const categorySalesSQL = `
SELECT p.category,
       ROUND(SUM(oi.subtotal), 2)  AS total_revenue,
       COUNT(DISTINCT oi.order_id) AS orders_count
FROM order_items oi
JOIN products p ON p.product_id = oi.product_id
GROUP BY p.category`

// An order is covered when its customer reviewed any product in it.
const customerReviewsSQL = `
SELECT c.customer_id, c.first_name, c.last_name,
       COALESCE(rv.review_count, 0)  AS reviews_count,
       COALESCE(oc.order_count, 0)   AS orders_count,
       COALESCE(cv.covered_count, 0) AS covered_orders,
       rv.avg_rating                 AS average_rating
FROM customers c
LEFT JOIN (
    SELECT customer_id, COUNT(*) AS review_count, ROUND(AVG(rating), 2) AS avg_rating
    FROM reviews
    GROUP BY customer_id
) rv ON rv.customer_id = c.customer_id
LEFT JOIN (
    SELECT customer_id, COUNT(*) AS order_count
    FROM orders
    GROUP BY customer_id
) oc ON oc.customer_id = c.customer_id
LEFT JOIN (
    SELECT o.customer_id, COUNT(DISTINCT o.order_id) AS covered_count
    FROM orders o
    JOIN order_items oi ON oi.order_id = o.order_id
    JOIN reviews r ON r.customer_id = o.customer_id AND r.product_id = oi.product_id
    GROUP BY o.customer_id
) cv ON cv.customer_id = c.customer_id
ORDER BY reviews_count DESC, COALESCE(rv.avg_rating, 0) DESC, c.customer_id ASC`

const (
	orderTotalsSQL   = `SELECT COUNT(*), COALESCE(ROUND(SUM(total_amount), 2), 0) FROM orders`
	customerCountSQL = `SELECT COUNT(*) FROM customers`
	reviewTotalsSQL  = `SELECT COUNT(*), ROUND(AVG(rating), 2) FROM reviews`
)
