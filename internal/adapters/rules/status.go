package rules

import (
	"regexp"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// statusRules answer questions about the player without changing it.
// Apostrophes survive normalization, so both "what's" and "whats" (a
// common speech-to-text artifact) are accepted.
func statusRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:(?:what's|whats|what is) (?:playing|this|this episode)|what am i listening to|what episode is this)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.WhatsPlaying{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:playback status|status|how much (?:time is|is) left|how much longer|where am i)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.PlaybackStatus{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:what's|whats|what is) (?:in (?:the|my) queue|next|up next|coming up)|queue status|show (?:the|my) queue)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.QueueStatus{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
	}
}

// queueRules mutate the up-next queue. The episode reference in
// add-to-queue stays unresolved; the executor decides what "this" is.
func queueRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:add(?: (?:this|it|that))?(?: episode)? to (?:the |my )?queue|queue (?:this|it|that)(?: episode)?(?: up)?)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.AddToQueue{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:clear|empty) (?:the |my )?queue$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.ClearQueue{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
	}
}
