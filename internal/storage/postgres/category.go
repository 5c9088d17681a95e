package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/marketplace-api/internal/domain/category"
)

const (
	listCategoriesSQL = `SELECT id, name, description FROM categories ORDER BY name ASC`

	getCategorySQL = `SELECT id, name, description FROM categories WHERE id = $1`

	insertCategorySQL = `INSERT INTO categories (name, description) VALUES ($1, $2)
		RETURNING id`

	updateCategorySQL = `UPDATE categories SET name = $2, description = $3 WHERE id = $1`

	deleteCategoryAssocSQL = `DELETE FROM product_categories WHERE category_id = $1`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories sorted by name.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetByID returns a single category by its identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, getCategorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	return &c, nil
}

// Create persists a new category and fills in its generated id.
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	err := r.pool.QueryRow(ctx, insertCategorySQL, c.Name, c.Description).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

// Update rewrites an existing category row.
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	tag, err := r.pool.Exec(ctx, updateCategorySQL, c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("updating category %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

// Delete removes the category's association rows first, then the category
// itself, so no orphaned associations survive.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, deleteCategoryAssocSQL, id); err != nil {
		return fmt.Errorf("deleting category %d associations: %w", id, err)
	}

	tag, err := tx.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanCategory(row pgx.CollectableRow) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description)
	return c, err
}
