package rules

import (
	"regexp"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// libraryRules manage subscriptions and played flags. Subscribe and
// unsubscribe carry free-text podcast names, so they are MEDIUM
// confidence like the play-by-name shapes.
func libraryRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:subscribe to|follow) (?:the podcast |podcast )?(.+)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				if !validTargetName(m[1]) {
					return nil, false
				}
				return domain.Subscribe{IntentMeta: meta(domain.ConfidenceMedium, raw), PodcastName: m[1]}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:unsubscribe from|unsubscribe|unfollow|stop following) (?:the podcast |podcast )?(.+)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				if !validTargetName(m[1]) {
					return nil, false
				}
				return domain.Unsubscribe{IntentMeta: meta(domain.ConfidenceMedium, raw), PodcastName: m[1]}, true
			},
		},
		{
			re: regexp.MustCompile(`^mark(?: (?:this|it|that|this episode|the current episode))?(?: as)? played$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.MarkPlayed{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^mark(?: (?:this|it|that|this episode|the current episode))?(?: as)? (?:unplayed|unlistened)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.MarkUnplayed{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:(?:list|show|show me|what are) my (?:subscriptions|podcasts|shows)|list subscriptions)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.ListSubscriptions{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
	}
}
