// Package rules implements the tier-1 command interpreter: a regex-driven
// classifier that turns one line of text into exactly one typed intent.
// It is fully offline, pure, and never fails — anything outside the fixed
// grammar degrades to domain.Unrecognized so the caller can escalate.
package rules

import (
	"regexp"
	"strings"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// rule pairs one command shape with its intent constructor. A regex match
// whose payload fails validation (an unknown number word, a speed out of
// range) returns ok=false and parsing moves on to the next rule instead
// of aborting.
type rule struct {
	re    *regexp.Regexp
	build func(m []string, raw string) (domain.Intent, bool)
}

// Parser classifies normalized text against its rule families in fixed
// priority order. It holds only compiled regexes and constant tables, so
// a single instance is safe for concurrent use.
type Parser struct {
	families [][]rule
}

// New compiles the grammar. Family priority: playback, navigation, speed,
// search, library, status, queue. The first family producing an intent
// wins; later families are not consulted.
func New() *Parser {
	return &Parser{
		families: [][]rule{
			playbackRules(),
			navigationRules(),
			speedRules(),
			searchRules(),
			libraryRules(),
			statusRules(),
			queueRules(),
		},
	}
}

// Parse returns exactly one intent for any input. Only Unrecognized can
// carry confidence zero; every grammar-produced intent carries one of the
// fixed confidence constants.
func (p *Parser) Parse(text string) domain.Intent {
	norm := normalizeText(text)
	if norm == "" {
		return domain.Unrecognized{
			IntentMeta: domain.IntentMeta{Confidence: 0, RawText: text},
			Reason:     "empty input",
		}
	}

	for _, family := range p.families {
		for _, r := range family {
			m := r.re.FindStringSubmatch(norm)
			if m == nil {
				continue
			}
			if intent, ok := r.build(m, text); ok {
				return intent
			}
		}
	}

	return domain.Unrecognized{
		IntentMeta: domain.IntentMeta{Confidence: 0, RawText: text},
		Reason:     "no command pattern matched",
	}
}

// normalizeText lowercases, strips sentence punctuation, collapses
// whitespace and trims. Dots and colons survive only between digits so
// decimal speeds ("1.5") and clock positions ("1:23:45") stay intact.
func normalizeText(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	runes := []rune(lower)

	var b strings.Builder
	b.Grow(len(lower))
	for i, r := range runes {
		switch r {
		case '.', ':':
			if i > 0 && i+1 < len(runes) && isASCIIDigit(runes[i-1]) && isASCIIDigit(runes[i+1]) {
				b.WriteRune(r)
			}
		case ',', '!', '?', ';':
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func meta(confidence float64, raw string) domain.IntentMeta {
	return domain.IntentMeta{Confidence: confidence, RawText: raw}
}

// reservedTargetWords can never stand alone as a podcast name; without
// this, "pause" would parse as "play the podcast called pause" once the
// pause rule is skipped by a stray prefix.
var reservedTargetWords = map[string]struct{}{
	"pause": {},
	"stop":  {},
	"it":    {},
	"that":  {},
	"this":  {},
}

// validTargetName reports whether a captured free-text target contains at
// least one non-reserved word.
func validTargetName(name string) bool {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if _, reserved := reservedTargetWords[f]; !reserved {
			return true
		}
	}
	return false
}
