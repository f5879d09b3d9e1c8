package estimate

import (
	"math"
	"testing"
)

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234567.4, "1,234,567 lbs"},
		{620, "620 lbs"},
		{0, "--"},
		{math.NaN(), "--"},
	}
	for _, tt := range tests {
		if got := FormatWeight(tt.in); got != tt.want {
			t.Errorf("FormatWeight(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1020.8, "$1,021"},
		{155, "$155"},
		{0, "--"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatOptional(t *testing.T) {
	if got := FormatOptional(nil, FormatMoney); got != "--" {
		t.Errorf("expected --, got %q", got)
	}
	v := 2500.0
	if got := FormatOptional(&v, FormatNumber); got != "2,500" {
		t.Errorf("expected 2,500, got %q", got)
	}
}
