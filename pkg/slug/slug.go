// Package slug turns product names into URL path segments.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lowercases name, strips diacritics and joins the remaining
// alphanumeric runs with single hyphens.
//
//	"Acqua di Giò Profumo" → "acqua-di-gio-profumo"
//	"Baccarat Rouge 540"   → "baccarat-rouge-540"
func Generate(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	s := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(folded)), "-")
	return strings.Trim(s, "-")
}
