// Package sanitize strips characters that could alter query semantics from
// values headed into pattern-match filters. It is defense in depth: the
// store bindings parameterize every value, so this is never the sole
// barrier against injection.
package sanitize

import "strings"

// dropped covers quote characters, statement separators and the
// metacharacters of the filter grammar (parentheses, commas, wildcards).
const dropped = "'\"`;\\(),*%"

// Term cleans a free-text value for use inside a contains/ilike filter.
// Control characters are removed and whitespace is collapsed.
func Term(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch {
		case r < 0x20 || r == 0x7f:
			continue
		case strings.ContainsRune(dropped, r):
			continue
		case r == ' ' || r == '\t':
			if lastSpace {
				continue
			}
			b.WriteRune(' ')
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}
