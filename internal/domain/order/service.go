package order

import (
	"context"

	"github.com/go-faster/errors"
)

// PlaceRequest holds the input for placing an order.
type PlaceRequest struct {
	CustomerID int64
	Status     string
	Items      []NewItem
}

// Service encapsulates the order lifecycle: validation up front, then the
// all-or-nothing placement and cancellation transactions delegated to the
// repository.
type Service struct {
	orders Repository
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// Place validates the request and runs the placement transaction. Validation
// failures surface before any datastore work: a missing customer or empty
// item list, an item without a product reference, or a non-positive
// quantity each fail the whole request.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Summary, error) {
	if req.CustomerID == 0 || len(req.Items) == 0 {
		return nil, ErrMissingFields
	}
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, &InvalidItemError{ProductID: item.ProductID}
		}
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	summary, err := s.orders.Place(ctx, req.CustomerID, status, req.Items)
	if err != nil {
		return nil, errors.Wrap(err, "place order")
	}
	return summary, nil
}

// Cancel runs the cancellation transaction: restore stock for every line
// item, delete the items, delete the order. It is the exact inverse of
// Place. Returns ErrNotFound (unwrapped) when the order does not exist.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if err := s.orders.Cancel(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "cancel order")
	}
	return nil
}
