package services

import (
	"strconv"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{186000, "$186,000"},
		{42000, "$42,000"},
		{100, "$100"},
		{1000, "$1,000"},
		{1234.5, "$1,234.5"},
		{1000000.25, "$1,000,000.25"},
	}

	for _, test := range tests {
		if got := FormatAmount(test.value); got != test.expected {
			t.Errorf("FormatAmount(%v) = %s, expected %s", test.value, got, test.expected)
		}
	}
}

func TestFormatAmount_RoundTrip(t *testing.T) {
	for _, value := range []float64{100, 999.99, 12345, 186000, 250000.5, 7654321.01} {
		formatted := FormatAmount(value)

		if formatted[0] != '$' {
			t.Errorf("Expected leading dollar sign in %s", formatted)
		}

		parsed, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(formatted, ""), 64)
		if err != nil {
			t.Fatalf("Could not parse %s back: %v", formatted, err)
		}
		if parsed != value {
			t.Errorf("Round trip of %v produced %s -> %v", value, formatted, parsed)
		}
	}
}
