package format

import (
	"strings"
	"unicode"
)

// CamelCase removes whitespace runs and upper-cases the character following
// each run. Everything else is left untouched.
func CamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	capitalize := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			capitalize = true
			continue
		}
		if capitalize {
			r = unicode.ToUpper(r)
			capitalize = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TrimTrailingZeros drops insignificant zeros from the fraction of a decimal
// string and then a dangling separator, e.g. "6543.200000" -> "6543.2" and
// "100.000000" -> "100". Integer zeros are kept when there is no fraction.
func TrimTrailingZeros(s string) string {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
	}
	if n := len(s); n > 0 && (s[n-1] < '0' || s[n-1] > '9') {
		s = s[:n-1]
	}
	return s
}

// flag builds the regional indicator pair for the first two letters of an
// ISO 4217 code, which is the issuing country (or EU).
func flag(code string) string {
	if len(code) < 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(code[:2]) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}
