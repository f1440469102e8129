package rules

import (
	"regexp"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// speedRules cover explicit rates plus relative nudges. The explicit rule
// runs first so "set speed to normal" yields SetSpeed(1.0) while the bare
// phrase "normal speed" still maps to NormalSpeed.
func speedRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:set|change) (?:the )?(?:playback )?speed to (.+?)(?:x| ?times| speed)?$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				value, ok := parseSpeedValue(m[1])
				if !ok {
					return nil, false
				}
				return domain.SetSpeed{IntentMeta: meta(domain.ConfidenceHigh, raw), Value: value}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:speed (?:it )?up|go faster|faster)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.SpeedUp{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:slow (?:it )?down|go slower|slower)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.SlowDown{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:normal speed|regular speed|reset (?:the )?speed|back to normal(?: speed)?)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.NormalSpeed{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
	}
}
