package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/marketplace-api/internal/domain/product"
)

func TestBuildProductListQuery_NoFilter(t *testing.T) {
	sql, params := buildProductListQuery(product.Filter{})

	assert.Empty(t, params)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY p.created_at DESC")
}

func TestBuildProductListQuery_Search(t *testing.T) {
	sql, params := buildProductListQuery(product.Filter{Search: "lamp"})

	require.Len(t, params, 2)
	assert.Equal(t, "%lamp%", params[0])
	assert.Equal(t, "%lamp%", params[1])
	assert.Contains(t, sql, "p.name ILIKE $1 OR p.description ILIKE $2")
}

func TestBuildProductListQuery_AllPredicates(t *testing.T) {
	minPrice := decimal.RequireFromString("10.00")
	maxPrice := decimal.RequireFromString("99.99")

	sql, params := buildProductListQuery(product.Filter{
		Search:     "mouse",
		VendorID:   3,
		CategoryID: 7,
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		Sort:       product.SortPriceAsc,
	})

	require.Len(t, params, 6)
	assert.Contains(t, sql, "p.vendor_id = $3")
	assert.Contains(t, sql, "p.price >= $4")
	assert.Contains(t, sql, "p.price <= $5")
	assert.Contains(t, sql, "pc2.category_id = $6")
	assert.Contains(t, sql, " AND ")
	assert.Contains(t, sql, "ORDER BY p.price ASC")
}

func TestBuildProductListQuery_SortVariants(t *testing.T) {
	tests := []struct {
		sort product.Sort
		want string
	}{
		{product.SortCreatedDesc, "ORDER BY p.created_at DESC"},
		{product.SortCreatedAsc, "ORDER BY p.created_at ASC"},
		{product.SortPriceAsc, "ORDER BY p.price ASC"},
		{product.SortPriceDesc, "ORDER BY p.price DESC"},
	}
	for _, tt := range tests {
		sql, _ := buildProductListQuery(product.Filter{Sort: tt.sort})
		assert.Contains(t, sql, tt.want, "sort %q", tt.sort)
	}
}

func TestBuildProductListQuery_CategoryOnly(t *testing.T) {
	sql, params := buildProductListQuery(product.Filter{CategoryID: 5})

	require.Len(t, params, 1)
	assert.EqualValues(t, 5, params[0])
	// The single predicate sits directly after WHERE, not joined to anything.
	assert.Contains(t, sql, "WHERE EXISTS (SELECT 1 FROM product_categories pc2")
}
