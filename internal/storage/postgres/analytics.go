package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/marketplace-api/internal/domain/analytics"
	"github.com/xenking/marketplace-api/internal/domain/product"
	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

const (
	// LEFT JOIN keeps categories with zero products in the result.
	topCategoriesSQL = `SELECT c.id, c.name, COUNT(pc.product_id) AS product_count
	FROM categories c
	LEFT JOIN product_categories pc ON pc.category_id = c.id
	GROUP BY c.id
	ORDER BY product_count DESC, c.name ASC`

	salesByDaySQL = `SELECT DATE(o.created_at) AS day,
		COALESCE(SUM(oi.quantity * oi.price), 0) AS total_sales,
		COUNT(DISTINCT o.id) AS orders_count
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id
	GROUP BY day
	ORDER BY day DESC`

	vendorsWithManyProductsSQL = `SELECT v.id, v.name, v.email, v.created_at
	FROM vendors v
	WHERE (SELECT COUNT(*) FROM products p WHERE p.vendor_id = v.id) > $1
	ORDER BY v.name ASC`

	productsNotOrderedSQL = `SELECT p.id, p.name, p.description, p.price, p.stock, p.vendor_id, p.created_at
	FROM products p
	WHERE NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.product_id = p.id)
	ORDER BY p.created_at DESC`

	topProductsSQL = `SELECT p.id, p.name, v.name AS vendor_name,
		COALESCE(SUM(oi.quantity), 0) AS qty_sold,
		COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue
	FROM products p
	JOIN vendors v ON v.id = p.vendor_id
	LEFT JOIN order_items oi ON oi.product_id = p.id
	GROUP BY p.id, v.name
	ORDER BY qty_sold DESC, revenue DESC`

	// NULLS LAST keeps products without reviews at the end.
	productRatingsSQL = `SELECT p.id, p.name,
		AVG(r.rating) AS avg_rating,
		COUNT(r.id) AS reviews_count
	FROM products p
	LEFT JOIN reviews r ON r.product_id = p.id
	GROUP BY p.id
	ORDER BY avg_rating DESC NULLS LAST, p.name ASC`
)

var _ analytics.Repository = (*AnalyticsRepository)(nil)

// AnalyticsRepository implements analytics.Repository backed by PostgreSQL.
// All queries are read-only aggregations.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns an AnalyticsRepository that uses the given
// pool.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// TopCategories returns product counts per category, most populated first.
func (r *AnalyticsRepository) TopCategories(ctx context.Context) ([]analytics.CategoryCount, error) {
	rows, err := r.pool.Query(ctx, topCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (analytics.CategoryCount, error) {
		var c analytics.CategoryCount
		err := row.Scan(&c.ID, &c.Name, &c.ProductCount)
		return c, err
	})
}

// SalesByDay returns per-day sales totals and distinct order counts.
func (r *AnalyticsRepository) SalesByDay(ctx context.Context) ([]analytics.DailySales, error) {
	rows, err := r.pool.Query(ctx, salesByDaySQL)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (analytics.DailySales, error) {
		var d analytics.DailySales
		err := row.Scan(&d.Day, &d.TotalSales, &d.OrdersCount)
		return d, err
	})
}

// VendorsWithManyProducts returns vendors listing more than minProducts
// products.
func (r *AnalyticsRepository) VendorsWithManyProducts(ctx context.Context, minProducts int) ([]vendor.Vendor, error) {
	rows, err := r.pool.Query(ctx, vendorsWithManyProductsSQL, minProducts)
	if err != nil {
		return nil, fmt.Errorf("vendors with many products: %w", err)
	}
	return pgx.CollectRows(rows, scanVendor)
}

// ProductsNotOrdered returns products that appear in no order.
func (r *AnalyticsRepository) ProductsNotOrdered(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, productsNotOrderedSQL)
	if err != nil {
		return nil, fmt.Errorf("products not ordered: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// TopProducts returns quantity sold and revenue per product; never-ordered
// products appear with zeroes.
func (r *AnalyticsRepository) TopProducts(ctx context.Context) ([]analytics.ProductSales, error) {
	rows, err := r.pool.Query(ctx, topProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (analytics.ProductSales, error) {
		var p analytics.ProductSales
		err := row.Scan(&p.ID, &p.Name, &p.VendorName, &p.QtySold, &p.Revenue)
		return p, err
	})
}

// ProductRatings returns average rating and review count per product.
func (r *AnalyticsRepository) ProductRatings(ctx context.Context) ([]analytics.ProductRating, error) {
	rows, err := r.pool.Query(ctx, productRatingsSQL)
	if err != nil {
		return nil, fmt.Errorf("product ratings: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (analytics.ProductRating, error) {
		var p analytics.ProductRating
		err := row.Scan(&p.ID, &p.Name, &p.AvgRating, &p.ReviewsCount)
		return p, err
	})
}
