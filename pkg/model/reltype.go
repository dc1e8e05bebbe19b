package model

import "strings"

// SanitizeRelType canonicalizes a predicate into a graph relationship type:
// uppercased, with every character outside [A-Z0-9_] replaced by an
// underscore. Relationship types cannot be parameterized in queries, so the
// sink interpolates the sanitized form directly.
func SanitizeRelType(predicate string) string {
	upper := strings.ToUpper(predicate)
	var b strings.Builder
	b.Grow(len(upper))
	for _, r := range upper {
		valid := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !valid {
			r = '_'
		}
		b.WriteRune(r)
	}
	return b.String()
}
