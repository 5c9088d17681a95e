package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got)

	for _, s := range []Status{StatusPending, StatusPaid, StatusShipped, StatusCancelled} {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, in := range []string{"PENDING", "done", "pending "} {
		_, err := ParseStatus(in)
		assert.ErrorIs(t, err, ErrInvalidStatus, "input %q", in)
	}
}
