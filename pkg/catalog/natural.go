package catalog

import (
	"slices"
	"strings"
)

// NaturalLess orders strings the way a person reads them: runs of digits
// compare by numeric value and text compares case-insensitively, so
// "Default.2" sorts before "Default.10".
func NaturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

// SortNatural sorts values in place in natural order.
func SortNatural(values []string) {
	slices.SortFunc(values, naturalCompare)
}

func naturalCompare(a, b string) int {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		var c int
		if i%2 == 1 {
			c = compareDigits(x, y)
		} else {
			c = strings.Compare(strings.ToLower(x), strings.ToLower(y))
		}
		if c != 0 {
			return c
		}
	}
	if c := len(ca) - len(cb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// chunks splits s into alternating text and digit runs. Even indexes are
// text (possibly empty), odd indexes are digits.
func chunks(s string) []string {
	var out []string
	start, digits := 0, false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d == digits {
			continue
		}
		out = append(out, s[start:i])
		start, digits = i, d
	}
	out = append(out, s[start:])
	if digits {
		out = append(out, "")
	}
	return out
}

// compareDigits compares two digit runs by value without overflowing.
func compareDigits(x, y string) int {
	x, y = strings.TrimLeft(x, "0"), strings.TrimLeft(y, "0")
	if len(x) != len(y) {
		return len(x) - len(y)
	}
	return strings.Compare(x, y)
}
