package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a customer's purchase transaction.
type Order struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Item is a line entry binding one product, a quantity, and the price frozen
// at order time. Price is an immutable snapshot: later product price changes
// never affect existing orders.
type Item struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"product_name,omitempty"`
}

// Summary is an order with its customer name and item aggregates, as
// returned by list and create responses.
type Summary struct {
	Order
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ItemCount    int             `json:"item_count"`
}

// Detail is an order together with its line items.
type Detail struct {
	Order
	Items []Item `json:"items"`
}

// NewItem is one requested line of an order being placed.
type NewItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Repository defines persistence operations for orders. Place and Cancel
// must each run as a single all-or-nothing transaction: stock checks, item
// writes and stock adjustments either all commit or all roll back.
type Repository interface {
	List(ctx context.Context) ([]Summary, error)
	GetByID(ctx context.Context, id int64) (*Detail, error)
	Place(ctx context.Context, customerID int64, status Status, items []NewItem) (*Summary, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
	Cancel(ctx context.Context, id int64) error
}
