package category

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested category does not exist.
var ErrNotFound = errors.New("category not found")

// Category groups products; membership is many-to-many via association rows.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	// Delete removes the category together with its product association
	// rows. It returns ErrNotFound when no such category exists.
	Delete(ctx context.Context, id int64) error
}
