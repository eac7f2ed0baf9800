package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{7, "$7.00"},
		{1234.5, "$1,234.50"},
		{-1234567.891, "-$1,234,567.89"},
		{-0.001, "$0.00"},
		{999.999, "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0.00"},
		{12000, "12,000.00"},
		{-2500.256, "-2,500.26"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := NumericCurrency(tt.amount); got != tt.expected {
				t.Errorf("NumericCurrency(%v) = %q, want %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		fraction float64
		expected string
	}{
		{0, "0.00%"},
		{0.1, "10.00%"},
		{-0.0525, "-5.25%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Percent(tt.fraction); got != tt.expected {
				t.Errorf("Percent(%v) = %q, want %q", tt.fraction, got, tt.expected)
			}
		})
	}
}
