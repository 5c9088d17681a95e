package order

import "fmt"

// ErrMissingFields is returned when the customer reference or the item list
// is absent. Checked before any transaction begins.
var ErrMissingFields = fmt.Errorf("customer_id and items required")

// InvalidItemError indicates a line item with a missing product reference or
// a non-positive quantity. The whole request fails; no partial order.
type InvalidItemError struct {
	ProductID int64
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("each item needs product_id and positive quantity (product %d)", e.ProductID)
}

// ProductNotFoundError indicates a referenced product does not exist. When
// raised mid-transaction it aborts the whole placement.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError indicates the live stock at the time the item was
// processed could not cover the requested quantity.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
