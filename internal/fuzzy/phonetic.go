package fuzzy

import "strings"

// phoneticDigit maps a letter to its Soundex-style group. Vowels, digits
// and anything unmapped code to '0', which is never emitted.
func phoneticDigit(r rune) byte {
	switch r {
	case 'b', 'f', 'p', 'v':
		return '1'
	case 'c', 'g', 'j', 'k', 'q', 's', 'x', 'z':
		return '2'
	case 'd', 't':
		return '3'
	case 'l':
		return '4'
	case 'm', 'n':
		return '5'
	case 'r':
		return '6'
	}
	return '0'
}

// phoneticCode produces a compact sound key: the first normalized
// character followed by the digit groups of the remaining letters.
// Consecutive identical digits collapse, zeros are skipped, and a word
// boundary resets the run so the next word's leading consonant is kept.
// The code is truncated to 6 characters.
func phoneticCode(s string) string {
	n := normalize(s)
	if n == "" {
		return ""
	}

	runes := []rune(n)
	var b strings.Builder
	b.WriteRune(runes[0])
	last := phoneticDigit(runes[0])

	for _, r := range runes[1:] {
		if b.Len() >= 6 {
			break
		}
		d := phoneticDigit(r)
		if d != '0' && d != last {
			b.WriteByte(d)
		}
		last = d
	}

	code := b.String()
	if len(code) > 6 {
		code = code[:6]
	}
	return code
}

// PhoneticallySimilar reports whether two strings collapse to the same
// phonetic code. It is an auxiliary check, not part of the default
// scoring pipeline; callers can use it to confirm low-scoring candidates
// that merely sound alike ("robert" vs "rupert").
func PhoneticallySimilar(a string, b string) bool {
	ca := phoneticCode(a)
	cb := phoneticCode(b)
	return ca != "" && ca == cb
}
