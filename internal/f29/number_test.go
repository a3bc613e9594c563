package f29

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{name: "chilean_grouping", input: "3.410.651", expected: 3410651},
		{name: "chilean_with_decimals", input: "1.234.567,89", expected: 1234567},
		{name: "international_with_decimals", input: "1,234,567.89", expected: 1234567},
		{name: "single_dot_three_digits_is_thousands", input: "1.234", expected: 1234},
		{name: "single_dot_two_digits_is_decimal", input: "12.34", expected: 12},
		{name: "ambiguous_three_digits_after_dot", input: "12.345", expected: 12345},
		{name: "single_comma_decimal", input: "12,5", expected: 12},
		{name: "currency_symbol_and_spaces", input: "$ 4.188.643 ", expected: 4188643},
		{name: "plain_digits", input: "502", expected: 502},
		{name: "sign_is_ignored", input: "-5.000", expected: 5000},
		{name: "empty", input: "", expected: 0},
		{name: "no_digits", input: "abc", expected: 0},
		{name: "lone_separator", input: ".", expected: 0},
		{name: "overflow_returns_zero", input: "1234567890123456789012", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAmount(tt.input))
		})
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	values := []int64{0, 1, 12, 999, 1000, 1001, 54321, 999999, 1000000, 3410651, 999999999}
	for n := int64(0); n < 1_000_000_000; n += 99_991 {
		values = append(values, n)
	}

	for _, n := range values {
		chilean := FormatAmount(n)
		international := strings.ReplaceAll(chilean, ".", ",")

		if got := ParseAmount(chilean); got != n {
			t.Fatalf("ParseAmount(%q) = %d, want %d", chilean, got, n)
		}
		if got := ParseAmount(international); got != n {
			t.Fatalf("ParseAmount(%q) = %d, want %d", international, got, n)
		}
		if got := ParseAmount(chilean + ",00"); got != n {
			t.Fatalf("ParseAmount(%q) = %d, want %d", chilean+",00", got, n)
		}
		if got := ParseAmount(international + ".00"); got != n {
			t.Fatalf("ParseAmount(%q) = %d, want %d", international+".00", got, n)
		}
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0,25", "0.25"},
		{"1.5", "1.5"},
		{"1.50", "1.5"},
		{"3", "3"},
		{"1.234,5", ""},
		{"", ""},
		{"tasa", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseRate(tt.input), "input %q", tt.input)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{100000, "100.000"},
		{3410651, "3.410.651"},
		{1000000, "1.000.000"},
		{-2500, "0"},
		{math.MinInt64, "0"},
		{math.MaxInt64, "9.223.372.036.854.775.807"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatAmount(tt.input))
	}
}
