package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes unicode text and removes combining marks,
// so "Café" slugs to "cafe" rather than losing the letter entirely.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL slug from a display name: diacritics stripped,
// lowercased, runs of non-alphanumerics collapsed to a single hyphen,
// leading and trailing hyphens trimmed.
func Slugify(name string) string {
	cleaned, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		cleaned = name
	}

	var sb strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(cleaned) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(sb.String(), "-")
}
