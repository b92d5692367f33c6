package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidSlug reports whether s is lowercase alphanumerics separated by single dashes.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify folds accents, lower-cases, and collapses everything else into dashes.
// "Elección de la Directiva 2025" -> "eleccion-de-la-directiva-2025".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = nonAlnumRuns.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(folded, "-")
}
