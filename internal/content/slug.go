package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	datePrefixRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)
	// Runs of anything that is not a letter, digit, underscore or dash
	// become a single dash. Unicode letters and digits stay, so non-Latin
	// tags keep usable slugs.
	nonSlugRunsRe = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	dashRunsRe    = regexp.MustCompile(`-+`)

	// foldMarks strips combining marks after canonical decomposition, so
	// "café" slugifies to "cafe" instead of carrying accents into URLs.
	foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// RemoveDatePrefix strips a leading YYYY-MM-DD- prefix from a slug.
func RemoveDatePrefix(slug string) string {
	return datePrefixRe.ReplaceAllString(slug, "")
}

// Slugify sanitizes a string for safe use in URLs and filenames: diacritics
// folded, lowercased, non-alphanumeric runs collapsed to single dashes.
// Empty results fall back to "unnamed".
func Slugify(value string) string {
	folded, _, err := transform.String(foldMarks, value)
	if err != nil {
		folded = value
	}
	s := strings.ToLower(folded)
	s = nonSlugRunsRe.ReplaceAllString(s, "-")
	s = dashRunsRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "unnamed"
	}
	return s
}
