package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/marketplace-api/internal/domain/customer"
)

const (
	listCustomersSQL = `SELECT id, name, email, created_at FROM customers ORDER BY created_at DESC`

	getCustomerSQL = `SELECT id, name, email, created_at FROM customers WHERE id = $1`

	insertCustomerSQL = `INSERT INTO customers (name, email) VALUES ($1, $2)
		RETURNING id, created_at`

	updateCustomerSQL = `UPDATE customers SET name = $2, email = $3 WHERE id = $1`

	deleteCustomerSQL = `DELETE FROM customers WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// List returns all customers, newest first.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// GetByID returns a single customer by its identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}
	return &c, nil
}

// Create persists a new customer and fills in its generated id and timestamp.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	err := r.pool.QueryRow(ctx, insertCustomerSQL, c.Name, c.Email).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}
	return nil
}

// Update rewrites an existing customer row.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL, c.ID, c.Name, c.Email)
	if err != nil {
		return fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes a customer row.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	return c, err
}
