package persistence

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics strips combining marks the same way the database's
// unaccent() does, so term-side and column-side folding agree.
func foldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticRemover, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeSearchTerm lowercases a search term and strips diacritics so
// "cumpleaños" and "cumpleanos" match the same rows. Catalog content is
// Spanish, searches usually are not accented. Columns are folded with
// unaccent() in the queries that use this.
func NormalizeSearchTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(foldDiacritics(s)))
}
