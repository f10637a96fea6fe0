// Package slug derives URL-safe identifiers from names and mints entity ids.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lower-cases name, folds diacritics to their base letters and collapses
// every run of other characters into a single '-'. Make(Make(s)) == Make(s).
func Make(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	s := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(s, "-")
}

// NewID returns a fresh random identifier.
func NewID() uuid.UUID {
	return uuid.New()
}

// ParseID reports whether ref is a well-formed identifier.
func ParseID(ref string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
