package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/marketplace-api/internal/domain/category"
)

// Sentinel errors for product lookups and listing.
var (
	ErrNotFound    = errors.New("product not found")
	ErrInvalidSort = errors.New("invalid sort order")
)

// Product is a catalog item listed by a vendor. Stock is the shared mutable
// available-quantity counter: order placement decrements it, cancellation
// restores it.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	VendorID    int64           `json:"vendor_id"`
	CreatedAt   time.Time       `json:"created_at"`

	// VendorName and CategoryNames are denormalized for list responses.
	VendorName    string `json:"vendor_name,omitempty"`
	CategoryNames string `json:"category_names,omitempty"`
}

// Detail is a product together with its full category objects, returned by
// get-by-id.
type Detail struct {
	Product
	Categories []category.Category `json:"categories"`
}

// Sort is the closed set of accepted product list orderings.
type Sort string

const (
	SortCreatedDesc Sort = "created_desc"
	SortCreatedAsc  Sort = "created_asc"
	SortPriceAsc    Sort = "price_asc"
	SortPriceDesc   Sort = "price_desc"
)

// ParseSort maps a query string value onto the Sort enum. The empty string
// means SortCreatedDesc; anything else unknown is rejected rather than
// silently ignored.
func ParseSort(s string) (Sort, error) {
	switch s {
	case "":
		return SortCreatedDesc, nil
	case string(SortCreatedDesc), string(SortCreatedAsc), string(SortPriceAsc), string(SortPriceDesc):
		return Sort(s), nil
	}
	return "", errors.Wrapf(ErrInvalidSort, "%q", s)
}

// Filter holds the independent, AND-composed list predicates. Zero values
// disable a predicate.
type Filter struct {
	Search     string
	VendorID   int64
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       Sort
}

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Detail, error)
	// Create persists the product and its category associations.
	Create(ctx context.Context, p *Product, categoryIDs []int64) error
	// Update rewrites the product row; when categoryIDs is non-nil the
	// association set is replaced wholesale.
	Update(ctx context.Context, p *Product, categoryIDs []int64) error
	// Delete removes the product's association rows before the product row.
	Delete(ctx context.Context, id int64) error
}
