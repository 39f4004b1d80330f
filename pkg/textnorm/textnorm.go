// Package textnorm normalises the free-text identifiers the service matches on:
// student documents and sede names typed by humans in spreadsheets.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	documentPattern = regexp.MustCompile(`^[0-9A-Z-]+$`)
	whitespace      = regexp.MustCompile(`\s+`)
	nonSlug         = regexp.MustCompile(`[^a-z0-9-]`)
)

// Document trims and upper-cases a student document.
func Document(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidDocument reports whether a normalised document only holds letters, digits and dashes.
func ValidDocument(document string) bool {
	return documentPattern.MatchString(document)
}

// Slug folds accents, lower-cases and dash-joins a sede name so that "Sede Bolívar"
// and "sede-bolivar" resolve to the same key.
func Slug(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)
	folded = whitespace.ReplaceAllString(folded, "-")
	return nonSlug.ReplaceAllString(folded, "")
}
