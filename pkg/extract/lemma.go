package extract

import (
	"strings"
	"unicode"
)

// NormalizeLemma canonicalizes a surface form: an underscore is inserted at
// every lowercase-to-uppercase boundary, the result is lowercased, every
// character outside [a-z0-9_] becomes an underscore, runs of underscores
// collapse to one and leading/trailing underscores are trimmed. The function
// is idempotent, so normalizing twice equals normalizing once.
func NormalizeLemma(surface string) string {
	var b strings.Builder
	b.Grow(len(surface) + 4)

	runes := []rune(surface)
	for i, r := range runes {
		if i > 0 && unicode.IsLower(runes[i-1]) && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	var out strings.Builder
	out.Grow(b.Len())
	lastUnderscore := false
	for _, r := range b.String() {
		valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !valid {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		out.WriteRune(r)
	}

	return strings.Trim(out.String(), "_")
}
