// Package slug normalizes arbitrary text into valid skill names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Name converts a string into a valid skill name: lowercase letters,
// digits, and hyphens only. It NFD-normalizes, strips combining marks,
// lowercases, converts whitespace and underscores to hyphens, drops
// everything else, and collapses consecutive hyphens.
func Name(s string) string {
	s = norm.NFD.String(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
		case unicode.IsSpace(r), r == '_', r == '-':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsLetter(r):
			// Non-ASCII letters without an ASCII decomposition are dropped
			// rather than transliterated.
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
