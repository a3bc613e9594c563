package f29

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxIntegerDigits keeps parsed amounts inside int64
const maxIntegerDigits = 18

// ParseAmount converts a numeric-looking string written with Chilean or
// international separators into a non-negative whole amount. Anything that
// cannot be recovered yields 0, which callers treat as "no evidence".
//
//	"3.410.651"    -> 3410651
//	"1.234.567,89" -> 1234567
//	"1,234,567.89" -> 1234567
//	"1.234"        -> 1234 (single dot followed by three digits is a thousands separator)
//	"12.34"        -> 12
func ParseAmount(s string) int64 {
	d, ok := parseDecimal(s)
	if !ok {
		return 0
	}
	return d.Floor().IntPart()
}

// ParseRate normalizes a rate token ("0,25", "1.5") to a dot-decimal string.
// Rates are not grouped, so a single separator is always the decimal point.
func ParseRate(s string) string {
	cleaned := keepNumeric(s)
	if cleaned == "" || strings.Count(cleaned, ".")+strings.Count(cleaned, ",") > 1 {
		return ""
	}
	d, err := decimal.NewFromString(strings.Replace(cleaned, ",", ".", 1))
	if err != nil || d.IsNegative() {
		return ""
	}
	return d.String()
}

// FormatAmount renders an amount with Chilean thousands grouping. Amounts
// are never negative; negative input renders as "0".
func FormatAmount(n int64) string {
	if n < 0 {
		return "0"
	}
	digits := decimal.NewFromInt(n).String()
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	cleaned := keepNumeric(s)
	if cleaned == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	var normalized string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(cleaned, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastDot >= 0:
		normalized = resolveSingleSeparator(cleaned, ".")
	case lastComma >= 0:
		normalized = resolveSingleSeparator(cleaned, ",")
	default:
		normalized = cleaned
	}

	if normalized == "" || strings.Count(normalized, ".") > 1 {
		return decimal.Zero, false
	}
	intPart := normalized
	if i := strings.IndexByte(normalized, '.'); i >= 0 {
		intPart = normalized[:i]
	}
	if len(strings.TrimLeft(intPart, "0")) > maxIntegerDigits {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// resolveSingleSeparator decides whether the only separator kind present is a
// thousands separator (repeated, or exactly three digits after a single one)
// or a decimal point, and returns a dot-decimal string.
func resolveSingleSeparator(s, sep string) string {
	count := strings.Count(s, sep)
	idx := strings.LastIndex(s, sep)
	if count > 1 || len(s)-idx-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	out := strings.Replace(s, sep, ".", 1)
	if strings.HasPrefix(out, ".") {
		out = "0" + out
	}
	if strings.HasSuffix(out, ".") {
		out = strings.TrimSuffix(out, ".")
	}
	return out
}

// keepNumeric strips every character that is not a digit, '.' or ','
func keepNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
}
