package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/marketplace-api/internal/domain/order"
)

const (
	listOrdersSQL = `SELECT o.id, o.customer_id, o.status, o.created_at, cu.name AS customer_name,
		COALESCE(SUM(oi.quantity * oi.price), 0) AS total_amount,
		COUNT(oi.id) AS item_count
	FROM orders o
	JOIN customers cu ON cu.id = o.customer_id
	LEFT JOIN order_items oi ON oi.order_id = o.id
	GROUP BY o.id, cu.name
	ORDER BY o.created_at DESC`

	getOrderSummarySQL = `SELECT o.id, o.customer_id, o.status, o.created_at, cu.name AS customer_name,
		COALESCE(SUM(oi.quantity * oi.price), 0) AS total_amount,
		COUNT(oi.id) AS item_count
	FROM orders o
	JOIN customers cu ON cu.id = o.customer_id
	LEFT JOIN order_items oi ON oi.order_id = o.id
	WHERE o.id = $1
	GROUP BY o.id, cu.name`

	getOrderSQL = `SELECT id, customer_id, status, created_at FROM orders WHERE id = $1`

	getOrderItemsSQL = `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		p.name AS product_name
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id
	WHERE oi.order_id = $1
	ORDER BY oi.id`

	insertOrderSQL = `INSERT INTO orders (customer_id, status) VALUES ($1, $2)
		RETURNING id, created_at`

	// The FOR UPDATE lock keeps the stock check and the decrement inside one
	// lock scope; concurrent placements against the same product serialize
	// here.
	selectProductForUpdateSQL = `SELECT price, stock FROM products WHERE id = $1 FOR UPDATE`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	decrementStockSQL = `UPDATE products SET stock = stock - $2 WHERE id = $1`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	lockOrderSQL = `SELECT id FROM orders WHERE id = $1 FOR UPDATE`

	selectItemsForRestoreSQL = `SELECT product_id, quantity FROM order_items WHERE order_id = $1`

	restoreStockSQL = `UPDATE products SET stock = stock + $2 WHERE id = $1`

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Place and
// Cancel run as single transactions; every exit path releases the connection
// via the deferred rollback, which is a no-op after commit.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// List returns all orders with customer name and item aggregates, newest
// first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Summary, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrderSummary)
}

// GetByID returns a single order with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Detail, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d items: %w", id, err)
	}
	items, err := pgx.CollectRows(itemRows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("getting order %d items: %w", id, err)
	}

	return &order.Detail{Order: o, Items: items}, nil
}

// Place runs the order placement transaction: insert the order row, then per
// item in request order lock the product row, check live stock, insert the
// line item with the captured price, and decrement stock. Any failure rolls
// back everything; no order, items, or stock changes persist.
func (r *OrderRepository) Place(ctx context.Context, customerID int64, status order.Status, items []order.NewItem) (*order.Summary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o order.Order
	o.CustomerID = customerID
	o.Status = status
	if err := tx.QueryRow(ctx, insertOrderSQL, customerID, status).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	total := decimal.Zero
	for _, item := range items {
		var (
			price decimal.Decimal
			stock int
		)
		err := tx.QueryRow(ctx, selectProductForUpdateSQL, item.ProductID).Scan(&price, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &order.ProductNotFoundError{ProductID: item.ProductID}
			}
			return nil, fmt.Errorf("locking product %d: %w", item.ProductID, err)
		}

		// Live value: stock checks for later items see the decrements of
		// earlier items in this same order.
		if stock < item.Quantity {
			return nil, &order.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: stock,
			}
		}

		if _, err := tx.Exec(ctx, insertOrderItemSQL, o.ID, item.ProductID, item.Quantity, price); err != nil {
			return nil, fmt.Errorf("inserting order item for product %d: %w", item.ProductID, err)
		}
		if _, err := tx.Exec(ctx, decrementStockSQL, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("decrementing stock for product %d: %w", item.ProductID, err)
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	rows, err := r.pool.Query(ctx, getOrderSummarySQL, o.ID)
	if err != nil {
		return nil, fmt.Errorf("reading back order %d: %w", o.ID, err)
	}
	summary, err := pgx.CollectExactlyOneRow(rows, scanOrderSummary)
	if err != nil {
		return nil, fmt.Errorf("reading back order %d: %w", o.ID, err)
	}
	return &summary, nil
}

// UpdateStatus sets the order status and returns the updated row.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return nil, fmt.Errorf("updating order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, order.ErrNotFound
	}

	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return &o, nil
}

// Cancel runs the cancellation transaction, the exact inverse of Place: lock
// the order row, restore each product's stock by the item quantity, delete
// the items, delete the order. A missing order is reported as ErrNotFound
// with zero mutation; any later failure rolls back the whole restoration.
func (r *OrderRepository) Cancel(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cancelling order %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Locking the order row up front serializes concurrent cancellations of
	// the same order, so stock cannot be restored twice.
	var lockedID int64
	if err := tx.QueryRow(ctx, lockOrderSQL, id).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ErrNotFound
		}
		return fmt.Errorf("locking order %d: %w", id, err)
	}

	itemRows, err := tx.Query(ctx, selectItemsForRestoreSQL, id)
	if err != nil {
		return fmt.Errorf("reading order %d items: %w", id, err)
	}
	type restore struct {
		productID int64
		quantity  int
	}
	restores, err := pgx.CollectRows(itemRows, func(row pgx.CollectableRow) (restore, error) {
		var x restore
		err := row.Scan(&x.productID, &x.quantity)
		return x, err
	})
	if err != nil {
		return fmt.Errorf("reading order %d items: %w", id, err)
	}

	for _, x := range restores {
		if _, err := tx.Exec(ctx, restoreStockSQL, x.productID, x.quantity); err != nil {
			return fmt.Errorf("restoring stock for product %d: %w", x.productID, err)
		}
	}

	if _, err := tx.Exec(ctx, deleteOrderItemsSQL, id); err != nil {
		return fmt.Errorf("deleting order %d items: %w", id, err)
	}
	if _, err := tx.Exec(ctx, deleteOrderSQL, id); err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}

	return tx.Commit(ctx)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt)
	return o, err
}

func scanOrderSummary(row pgx.CollectableRow) (order.Summary, error) {
	var s order.Summary
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.Status, &s.CreatedAt,
		&s.CustomerName, &s.TotalAmount, &s.ItemCount,
	)
	return s, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.ProductName)
	return it, err
}
