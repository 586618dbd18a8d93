package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$99.99", FormatUSD(99.99))
	assert.Equal(t, "$1234.56", FormatUSD(1234.56))
	assert.Equal(t, "$10.00", FormatUSD(10))
	assert.Equal(t, "$0.00", FormatUSD(0))
}

func TestParseDigits(t *testing.T) {
	tests := map[string]float64{
		"1234":     12.34,
		"$12.34":   12.34,
		"$ 0,00":   0,
		"":         0,
		"abc":      0,
		"$1,999.5": 199.95,
	}
	for in, want := range tests {
		assert.InDelta(t, want, ParseDigits(in), 1e-9, "input %q", in)
	}
}
