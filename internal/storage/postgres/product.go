package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/marketplace-api/internal/domain/product"
)

const (
	getProductSQL = `SELECT id, name, description, price, stock, vendor_id, created_at
		FROM products WHERE id = $1`

	getProductCategoriesSQL = `SELECT c.id, c.name, c.description
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.name ASC`

	insertProductSQL = `INSERT INTO products (name, description, price, stock, vendor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	updateProductSQL = `UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, vendor_id = $6
		WHERE id = $1`

	insertProductCategorySQL = `INSERT INTO product_categories (product_id, category_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`

	deleteProductAssocSQL = `DELETE FROM product_categories WHERE product_id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// buildProductListQuery renders the filtered listing query. Each predicate of
// the filter is independent; active ones are AND-composed into the WHERE
// clause with positional parameters.
func buildProductListQuery(f product.Filter) (string, []any) {
	var (
		b          strings.Builder
		conditions []string
		params     []any
	)

	next := func(v any) string {
		params = append(params, v)
		return "$" + strconv.Itoa(len(params))
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conditions = append(conditions,
			"(p.name ILIKE "+next(pattern)+" OR p.description ILIKE "+next(pattern)+")")
	}
	if f.VendorID != 0 {
		conditions = append(conditions, "p.vendor_id = "+next(f.VendorID))
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "p.price >= "+next(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "p.price <= "+next(*f.MaxPrice))
	}
	if f.CategoryID != 0 {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM product_categories pc2 WHERE pc2.product_id = p.id AND pc2.category_id = "+next(f.CategoryID)+")")
	}

	b.WriteString(`SELECT p.id, p.name, p.description, p.price, p.stock, p.vendor_id, p.created_at,
	v.name AS vendor_name,
	COALESCE(string_agg(DISTINCT c.name, ', ' ORDER BY c.name), '') AS category_names
FROM products p
JOIN vendors v ON v.id = p.vendor_id
LEFT JOIN product_categories pc ON pc.product_id = p.id
LEFT JOIN categories c ON c.id = pc.category_id`)

	if len(conditions) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	b.WriteString("\nGROUP BY p.id, v.name\nORDER BY ")
	switch f.Sort {
	case product.SortPriceAsc:
		b.WriteString("p.price ASC")
	case product.SortPriceDesc:
		b.WriteString("p.price DESC")
	case product.SortCreatedAsc:
		b.WriteString("p.created_at ASC")
	default:
		b.WriteString("p.created_at DESC")
	}

	return b.String(), params
}

// List returns products matching the filter, with vendor name and aggregated
// category names joined in.
func (r *ProductRepository) List(ctx context.Context, f product.Filter) ([]product.Product, error) {
	sql, params := buildProductListQuery(f)

	rows, err := r.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProductRow)
}

// GetByID returns a single product with its category objects.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Detail, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	catRows, err := r.pool.Query(ctx, getProductCategoriesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d categories: %w", id, err)
	}
	cats, err := pgx.CollectRows(catRows, scanCategory)
	if err != nil {
		return nil, fmt.Errorf("getting product %d categories: %w", id, err)
	}

	return &product.Detail{Product: p, Categories: cats}, nil
}

// Create persists the product and its category association rows in one
// transaction.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product, categoryIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, insertProductSQL,
		p.Name, p.Description, p.Price, p.Stock, p.VendorID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	for _, cid := range categoryIDs {
		if _, err := tx.Exec(ctx, insertProductCategorySQL, p.ID, cid); err != nil {
			return fmt.Errorf("associating product %d with category %d: %w", p.ID, cid, err)
		}
	}

	return tx.Commit(ctx)
}

// Update rewrites the product row; a non-nil categoryIDs replaces the
// association set wholesale.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product, categoryIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.VendorID,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	if categoryIDs != nil {
		if _, err := tx.Exec(ctx, deleteProductAssocSQL, p.ID); err != nil {
			return fmt.Errorf("clearing product %d associations: %w", p.ID, err)
		}
		for _, cid := range categoryIDs {
			if _, err := tx.Exec(ctx, insertProductCategorySQL, p.ID, cid); err != nil {
				return fmt.Errorf("associating product %d with category %d: %w", p.ID, cid, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// Delete removes the product's association rows before the product row.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, deleteProductAssocSQL, id); err != nil {
		return fmt.Errorf("deleting product %d associations: %w", id, err)
	}

	tag, err := tx.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.VendorID, &p.CreatedAt)
	return p, err
}

func scanProductRow(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.VendorID, &p.CreatedAt,
		&p.VendorName, &p.CategoryNames,
	)
	return p, err
}
