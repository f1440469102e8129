package rules

import (
	"regexp"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// navigationRules handle relative skips, absolute seeks, and episode or
// chapter jumps. "go to <something unparsable as a position>" falls
// through the seek rule into the chapter rules.
func navigationRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:(?:skip|jump|go) (?:forward|ahead)|fast forward)(?:(?: by)? (.+))?$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				seconds, ok := parseDurationSeconds(m[1])
				if !ok || seconds <= 0 {
					return nil, false
				}
				return domain.SkipForward{IntentMeta: meta(domain.ConfidenceHigh, raw), Seconds: seconds}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:skip|jump|go) (?:back|backward|backwards)|rewind)(?:(?: by)? (.+))?$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				seconds, ok := parseDurationSeconds(m[1])
				if !ok || seconds <= 0 {
					return nil, false
				}
				return domain.SkipBackward{IntentMeta: meta(domain.ConfidenceHigh, raw), Seconds: seconds}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:seek|go|jump|skip) to (.+)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				seconds, ok := parsePositionSeconds(m[1])
				if !ok || seconds < 0 {
					return nil, false
				}
				return domain.SeekTo{IntentMeta: meta(domain.ConfidenceHigh, raw), Seconds: seconds}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:play |go to |skip to )?(?:the )?next episode|next)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.NextEpisode{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:play |go to |go back to )?(?:the )?previous episode|previous)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.PreviousEpisode{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:go|jump|skip) to (?:the )?)?(next|previous) chapter$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.JumpToChapter{
					IntentMeta: meta(domain.ConfidenceHigh, raw),
					Direction:  domain.ChapterDirection(m[1]),
				}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:go|jump|skip) to )?chapter ([a-z0-9]+)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				number, ok := parseNumber(m[1])
				if !ok || number < 1 {
					return nil, false
				}
				return domain.JumpToChapter{IntentMeta: meta(domain.ConfidenceHigh, raw), Number: number}, true
			},
		},
	}
}
