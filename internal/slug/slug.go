// Package slug derives machine names from human-readable labels.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Policy decides what happens to an existing name when its label changes.
type Policy int

const (
	// Rederive regenerates the name from the new label on every update.
	Rederive Policy = iota
	// Keep fixes the name at creation time; label changes never touch it.
	Keep
)

const separator = '-'

// Make lowercases label, strips diacritics and collapses every run of
// characters that are not ASCII letters or digits into a single hyphen.
// Leading and trailing hyphens are removed, so a label without any letter or
// digit yields the empty string.
func Make(label string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		label,
	)
	if err != nil {
		folded = label
	}

	var (
		b       strings.Builder
		pending bool
	)

	b.Grow(len(folded))

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteRune(separator)
			}

			pending = false

			b.WriteRune(r)

			continue
		}

		pending = true
	}

	return b.String()
}

// Next returns the name an entity should carry after its label changed to
// label under policy p.
func (p Policy) Next(current, label string) string {
	if p == Keep {
		return current
	}

	return Make(label)
}
