package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/apperr"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "3", want: 3, ok: true},
		{in: "1,000", want: 1000, ok: true},
		{in: " 1 2 ", want: 12, ok: true},
		{in: "0"},
		{in: "-2"},
		{in: "2.5"},
		{in: "ikki"},
		{in: ""},
		{in: "99999999999999999999999"},
		{in: "10,000", want: 10000, ok: true},
		{in: "10001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice(t *testing.T) {
	got, err := ParsePrice("650,000")
	require.NoError(t, err)
	assert.True(t, dec("650000").Equal(got))

	got, err = ParsePrice("1 250.50")
	require.NoError(t, err)
	assert.True(t, dec("1250.5").Equal(got))

	got, err = ParsePrice("1.55")
	require.NoError(t, err)
	assert.True(t, dec("1.55").Equal(got))

	for _, in := range []string{"0", "-5", "abc", "1.", "", "1.555", "9999999999999999"} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
		assert.True(t, apperr.IsValidation(err), in)
	}
}

func TestParsePrepayment(t *testing.T) {
	got, err := ParsePrepayment("0")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = ParsePrepayment("500,000")
	require.NoError(t, err)
	assert.True(t, dec("500000").Equal(got))

	for _, in := range []string{"-1", "yarim", "", "100.001", "9999999999999999"} {
		_, err := ParsePrepayment(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}
