package services

import "testing"

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		amount float64
		expect string
	}{
		{0, "R$ 0,00"},
		{10, "R$ 10,00"},
		{1234.5, "R$ 1.234,50"},
		{1234567.89, "R$ 1.234.567,89"},
		{999.999, "R$ 1.000,00"},
		{-250.75, "-R$ 250,75"},
	}

	for _, tt := range tests {
		if got := FormatBRL(tt.amount); got != tt.expect {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.amount, got, tt.expect)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		qty    float64
		expect string
	}{
		{1, "1"},
		{12, "12"},
		{2.5, "2.50"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatQty(tt.qty); got != tt.expect {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.qty, got, tt.expect)
		}
	}
}
