//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// regionalIndicatorOffset maps 'A' to U+1F1E6 REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorOffset = 0x1F1E6 - 'A'

// Flag renders a two-letter ISO country code as a flag emoji.
// Codes that are not ASCII letters yield an empty string.
func Flag(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(r + regionalIndicatorOffset)
	}
	return b.String()
}

// FuzzyMatch reports whether the characters of needle appear in haystack in
// order, ignoring case. A needle longer than the haystack never matches and
// one of equal length must match exactly.
func FuzzyMatch(needle, haystack string) bool {
	nlen := utf8.RuneCountInString(needle)
	hlen := utf8.RuneCountInString(haystack)
	if nlen > hlen {
		return false
	}

	lower := cases.Lower(language.Und)
	needle = lower.String(needle)
	haystack = lower.String(haystack)

	if nlen == hlen {
		return needle == haystack
	}

	rest := haystack
	for _, want := range needle {
		idx := strings.IndexRune(rest, want)
		if idx < 0 {
			return false
		}
		rest = rest[idx+utf8.RuneLen(want):]
	}
	return true
}

// RoundToNearestMultiple rounds num to the nearest multiple of multipleOf,
// with halves rounded up. Multiples smaller than 1 in magnitude leave num
// unchanged.
func RoundToNearestMultiple(num, multipleOf float64) float64 {
	if math.Abs(multipleOf) < 1 {
		return num
	}
	return math.Floor(num/multipleOf+0.5) * multipleOf
}
