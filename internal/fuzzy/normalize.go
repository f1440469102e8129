package fuzzy

import "strings"

// normalize lowercases the input, drops every character outside
// [a-z0-9 ], collapses runs of whitespace and trims the ends. It is
// idempotent: normalize(normalize(s)) == normalize(s).
func normalize(input string) string {
	lower := strings.ToLower(input)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize exposes the canonical form used for all comparisons so
// callers can pre-compute or display it.
func Normalize(input string) string {
	return normalize(input)
}
