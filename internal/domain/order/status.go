package order

import "github.com/go-faster/errors"

// ErrInvalidStatus is returned for a status outside the accepted set.
var ErrInvalidStatus = errors.New("invalid order status")

// Status is the closed set of order lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// ParseStatus maps a request value onto the Status enum. The empty string
// defaults to StatusPending; unknown values are rejected rather than stored
// as free text.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "":
		return StatusPending, nil
	case string(StatusPending), string(StatusPaid), string(StatusShipped), string(StatusCancelled):
		return Status(s), nil
	}
	return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
}
