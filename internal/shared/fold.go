package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Financial records are entered by hand in Spanish-speaking installs, so
// account names and payment terms arrive with inconsistent casing and
// accents ("Crédito", "credito", "CREDITO"). Matching folds both sides.

// FoldText lowercases s and strips diacritics.
func FoldText(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// FoldContains reports whether haystack contains needle after folding both.
func FoldContains(haystack, needle string) bool {
	return strings.Contains(FoldText(haystack), FoldText(needle))
}
