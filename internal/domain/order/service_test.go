package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementation ---

type mockOrderRepo struct {
	placed     *Summary
	placeErr   error
	lastStatus Status
	lastItems  []NewItem
	cancelErr  error
	cancelled  []int64
}

func (m *mockOrderRepo) List(_ context.Context) ([]Summary, error) { return nil, nil }

func (m *mockOrderRepo) GetByID(_ context.Context, _ int64) (*Detail, error) {
	return nil, ErrNotFound
}

func (m *mockOrderRepo) Place(_ context.Context, customerID int64, status Status, items []NewItem) (*Summary, error) {
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	m.lastStatus = status
	m.lastItems = items
	if m.placed == nil {
		m.placed = &Summary{Order: Order{ID: 1, CustomerID: customerID, Status: status}}
	}
	return m.placed, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, _ int64, _ Status) (*Order, error) {
	return nil, ErrNotFound
}

func (m *mockOrderRepo) Cancel(_ context.Context, id int64) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

// --- Tests ---

func TestPlace_MissingCustomer(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	_, err := svc.Place(context.Background(), PlaceRequest{
		Items: []NewItem{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestPlace_EmptyItems(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	_, err := svc.Place(context.Background(), PlaceRequest{CustomerID: 1})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestPlace_InvalidQuantity(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), PlaceRequest{
		CustomerID: 1,
		Items: []NewItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 0},
		},
	})

	var iiErr *InvalidItemError
	require.ErrorAs(t, err, &iiErr)
	assert.EqualValues(t, 2, iiErr.ProductID)
	assert.Nil(t, repo.lastItems, "repository must not be reached on validation failure")
}

func TestPlace_MissingProductReference(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	_, err := svc.Place(context.Background(), PlaceRequest{
		CustomerID: 1,
		Items:      []NewItem{{Quantity: 3}},
	})

	var iiErr *InvalidItemError
	require.ErrorAs(t, err, &iiErr)
}

func TestPlace_StatusDefaultsToPending(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), PlaceRequest{
		CustomerID: 1,
		Items:      []NewItem{{ProductID: 1, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, repo.lastStatus)
}

func TestPlace_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	_, err := svc.Place(context.Background(), PlaceRequest{
		CustomerID: 1,
		Status:     "misplaced",
		Items:      []NewItem{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPlace_PropagatesStockConflict(t *testing.T) {
	repo := &mockOrderRepo{
		placeErr: &InsufficientStockError{ProductID: 7, Requested: 2, Available: 1},
	}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), PlaceRequest{
		CustomerID: 1,
		Items:      []NewItem{{ProductID: 7, Quantity: 2}},
	})

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 2, isErr.Requested)
	assert.Equal(t, 1, isErr.Available)
}

func TestPlace_ReturnsRepositorySummary(t *testing.T) {
	want := &Summary{
		Order:       Order{ID: 42, CustomerID: 1, Status: StatusPending},
		TotalAmount: decimal.RequireFromString("50.00"),
		ItemCount:   2,
	}
	svc := NewService(&mockOrderRepo{placed: want})

	got, err := svc.Place(context.Background(), PlaceRequest{
		CustomerID: 1,
		Items: []NewItem{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.True(t, want.TotalAmount.Equal(got.TotalAmount))
	assert.Equal(t, 2, got.ItemCount)
}

func TestCancel(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.Cancel(context.Background(), 42))
	assert.Equal(t, []int64{42}, repo.cancelled)
}

func TestCancel_NotFound(t *testing.T) {
	svc := NewService(&mockOrderRepo{cancelErr: ErrNotFound})

	err := svc.Cancel(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancel_RepositoryError(t *testing.T) {
	svc := NewService(&mockOrderRepo{cancelErr: errors.New("db down")})

	err := svc.Cancel(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancel order")
}
