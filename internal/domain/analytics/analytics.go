// Package analytics defines the read-only aggregate reports. The queries are
// stateless grouping/aggregation over the same tables the CRUD operations
// own; outer-join semantics keep zero-activity rows visible.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/marketplace-api/internal/domain/product"
	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

// CategoryCount is one row of the top-categories report. Categories with no
// products appear with ProductCount zero.
type CategoryCount struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

// DailySales is one row of the sales-by-day report.
type DailySales struct {
	Day         time.Time       `json:"day"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	OrdersCount int             `json:"orders_count"`
}

// ProductSales is one row of the top-products report. Products never ordered
// appear with zero quantity and revenue.
type ProductSales struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	VendorName string          `json:"vendor_name"`
	QtySold    int             `json:"qty_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ProductRating is one row of the product-ratings report. AvgRating is nil
// for products without reviews; those rows sort last.
type ProductRating struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	AvgRating    *decimal.Decimal `json:"avg_rating"`
	ReviewsCount int              `json:"reviews_count"`
}

// Repository defines the aggregate report queries.
type Repository interface {
	TopCategories(ctx context.Context) ([]CategoryCount, error)
	SalesByDay(ctx context.Context) ([]DailySales, error)
	VendorsWithManyProducts(ctx context.Context, minProducts int) ([]vendor.Vendor, error)
	ProductsNotOrdered(ctx context.Context) ([]product.Product, error)
	TopProducts(ctx context.Context) ([]ProductSales, error)
	ProductRatings(ctx context.Context) ([]ProductRating, error)
}
