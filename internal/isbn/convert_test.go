package isbn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0131103628", "9780131103627"},
		{"9780131103627", "0131103628"},
		{"0345300548", "9780345300546"},
		{"9780345300546", "0345300548"},
		{"080442957X", "9780804429573"},
		{"080442957x", "9780804429573"},
		{"9780804429573", "080442957X"},
		{"0134685997", "9780134685991"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Convert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConvert_Invalid(t *testing.T) {
	for _, input := range []string{"0131103629", "", "abc", "4006381333931", "0-13-110362-8"} {
		_, err := Convert(input)
		assert.True(t, errors.Is(err, ErrInvalidISBN), "input %q: %v", input, err)
	}
}

func TestConvert_979HasNoISBN10(t *testing.T) {
	_, err := Convert("9791032300824")
	assert.True(t, errors.Is(err, ErrNotConvertible))
	assert.False(t, errors.Is(err, ErrInvalidISBN))

	got, err := Parse("9791032300824").To13()
	require.NoError(t, err)
	assert.Equal(t, "9791032300824", got)
}

func TestConvert_RoundTrip(t *testing.T) {
	for _, s := range validISBNs {
		once, err := Convert(s)
		require.NoError(t, err, s)

		twice, err := Convert(once)
		require.NoError(t, err, once)

		assert.Equal(t, s, twice)
		assert.True(t, MatchStrings(s, once), "%s should match %s", s, once)
	}
}

func TestTo10To13_Idempotent(t *testing.T) {
	v10 := Parse("0131103628")
	got, err := v10.To10()
	require.NoError(t, err)
	assert.Equal(t, "0131103628", got)

	v13 := Parse("9780131103627")
	got, err = v13.To13()
	require.NoError(t, err)
	assert.Equal(t, "9780131103627", got)

	// lower-case x is canonicalized
	got, err = Parse("080442957x").To10()
	require.NoError(t, err)
	assert.Equal(t, "080442957X", got)
}

func TestTo10_RecomputesCheckDigit(t *testing.T) {
	// The ISBN-13 check digit (7) is never carried over.
	got, err := Parse("9780131103627").To10()
	require.NoError(t, err)
	assert.Equal(t, byte('8'), got[9])
}
