package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want Sort
	}{
		{"", SortCreatedDesc},
		{"created_desc", SortCreatedDesc},
		{"created_asc", SortCreatedAsc},
		{"price_asc", SortPriceAsc},
		{"price_desc", SortPriceDesc},
	}
	for _, tt := range tests {
		got, err := ParseSort(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseSort_Invalid(t *testing.T) {
	for _, in := range []string{"price", "CREATED_DESC", "name_asc", "created_desc "} {
		_, err := ParseSort(in)
		assert.ErrorIs(t, err, ErrInvalidSort, "input %q", in)
	}
}
