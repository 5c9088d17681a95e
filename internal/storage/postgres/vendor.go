package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/marketplace-api/internal/domain/vendor"
)

const (
	listVendorsSQL = `SELECT id, name, email, created_at FROM vendors ORDER BY name ASC`

	getVendorSQL = `SELECT id, name, email, created_at FROM vendors WHERE id = $1`

	insertVendorSQL = `INSERT INTO vendors (name, email) VALUES ($1, $2)
		RETURNING id, created_at`

	updateVendorSQL = `UPDATE vendors SET name = $2, email = $3 WHERE id = $1`

	deleteVendorSQL = `DELETE FROM vendors WHERE id = $1`
)

var _ vendor.Repository = (*VendorRepository)(nil)

// VendorRepository implements vendor.Repository backed by PostgreSQL.
type VendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository returns a VendorRepository that uses the given pool.
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

// List returns all vendors sorted by name.
func (r *VendorRepository) List(ctx context.Context) ([]vendor.Vendor, error) {
	rows, err := r.pool.Query(ctx, listVendorsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	return pgx.CollectRows(rows, scanVendor)
}

// GetByID returns a single vendor by its identifier.
func (r *VendorRepository) GetByID(ctx context.Context, id int64) (*vendor.Vendor, error) {
	rows, err := r.pool.Query(ctx, getVendorSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting vendor %d: %w", id, err)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanVendor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vendor.ErrNotFound
		}
		return nil, fmt.Errorf("getting vendor %d: %w", id, err)
	}
	return &v, nil
}

// Create persists a new vendor and fills in its generated id and timestamp.
func (r *VendorRepository) Create(ctx context.Context, v *vendor.Vendor) error {
	err := r.pool.QueryRow(ctx, insertVendorSQL, v.Name, v.Email).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating vendor: %w", err)
	}
	return nil
}

// Update rewrites an existing vendor row.
func (r *VendorRepository) Update(ctx context.Context, v *vendor.Vendor) error {
	tag, err := r.pool.Exec(ctx, updateVendorSQL, v.ID, v.Name, v.Email)
	if err != nil {
		return fmt.Errorf("updating vendor %d: %w", v.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

// Delete removes a vendor row.
func (r *VendorRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteVendorSQL, id)
	if err != nil {
		return fmt.Errorf("deleting vendor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return vendor.ErrNotFound
	}
	return nil
}

func scanVendor(row pgx.CollectableRow) (vendor.Vendor, error) {
	var v vendor.Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.CreatedAt)
	return v, err
}
