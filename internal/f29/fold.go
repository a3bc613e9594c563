package f29

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold upper-cases s and strips combining accents so "CRÉD." and "cred."
// compare equal. It never changes the number of lines in s.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// containsCodeToken reports whether code occurs in s as a token not glued to
// other digits, so "538" matches "538 TOTAL" but not "15385" or "76.538.123".
func containsCodeToken(s, code string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], code)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(code)
		if !adjacentNumeric(s, i-1) && !adjacentNumeric(s, end) {
			return true
		}
		start = i + 1
	}
}

// adjacentNumeric reports whether the byte at i belongs to a number, treating a
// separator as numeric only when it sits between digits
func adjacentNumeric(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	if isDigit(c) {
		return true
	}
	if c == '.' || c == ',' {
		return (i > 0 && isDigit(s[i-1])) && (i+1 < len(s) && isDigit(s[i+1]))
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
