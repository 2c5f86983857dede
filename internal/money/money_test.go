package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		name  string
		in    any
		cents int
		ok    bool
	}{
		{"int is already cents", 2990, 2990, true},
		{"negative int", -100, 0, false},
		{"float reais", 29.90, 2990, true},
		{"negative float", -29.90, 0, false},
		{"plain decimal string", "29.90", 2990, true},
		{"comma decimal string", "29,90", 2990, true},
		{"legacy currency string", "R$ 29,90", 2990, true},
		{"thousands with comma decimals", "R$ 1.299,90", 129990, true},
		{"not a number", "not a number", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"negative string", "-5", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cents, ok := ParseCents(tc.in)
			assert.Equal(t, tc.cents, cents)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 29,90", FormatBRL(2990))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ 1.299,05", FormatBRL(129905))
	assert.Equal(t, "R$ 1.234.567,89", FormatBRL(123456789))
	assert.Equal(t, "-R$ 2,50", FormatBRL(-250))
}

func TestFormatBRLRoundTripsThroughParse(t *testing.T) {
	for _, cents := range []int{0, 90, 2990, 129990, 123456789} {
		got, ok := ParseCents(FormatBRL(cents))
		assert.True(t, ok)
		assert.Equal(t, cents, got)
	}
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 20, DiscountPercent(8000, 10000))
	assert.Equal(t, 25, DiscountPercent(2990, 3990)) // 25.06 rounds down
	assert.Equal(t, 0, DiscountPercent(10000, 10000))
	assert.Equal(t, 0, DiscountPercent(10000, 8000))
	assert.Equal(t, 0, DiscountPercent(2990, 0))
}
