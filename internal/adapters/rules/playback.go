package rules

import (
	"regexp"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// playbackRules is the highest-priority family. Sub-pattern order matters:
// the bare resume shapes must run before the catch-all "play <name>", and
// episode-by-number before episode-by-name so "episode five" is a number
// first and a title only when the number fails to parse.
func playbackRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:play|resume playing|continue playing|start playing|pick up where i left off)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.Play{IntentMeta: meta(domain.ConfidenceHigh, raw), Target: domain.ResumeLast{}}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:pause(?: (?:it|that|this|playback|the episode))?|hold on)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.Pause{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:resume|continue|unpause|keep playing|keep going)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.Resume{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^(?:stop(?: (?:it|that|this|playing|playback|the episode))?|halt playback)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				return domain.Stop{IntentMeta: meta(domain.ConfidenceHigh, raw)}, true
			},
		},
		{
			re: regexp.MustCompile(`^play (?:the )?(?:latest|newest|most recent) (?:episode|one)(?: (?:of|from) (.+))?$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				podcast := m[1]
				confidence := domain.ConfidenceHigh
				if podcast != "" {
					if !validTargetName(podcast) {
						return nil, false
					}
					confidence = domain.ConfidenceMedium
				}
				return domain.Play{
					IntentMeta: meta(confidence, raw),
					Target:     domain.LatestEpisode{PodcastName: podcast},
				}, true
			},
		},
		{
			re: regexp.MustCompile(`^play episode (?:number )?([a-z0-9]+)(?: (?:of|from) (.+))?$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				number, ok := parseNumber(m[1])
				if !ok || number < 1 {
					return nil, false
				}
				podcast := m[2]
				confidence := domain.ConfidenceHigh
				if podcast != "" {
					if !validTargetName(podcast) {
						return nil, false
					}
					confidence = domain.ConfidenceMedium
				}
				return domain.Play{
					IntentMeta: meta(confidence, raw),
					Target:     domain.EpisodeByNumber{Number: number, PodcastName: podcast},
				}, true
			},
		},
		{
			re: regexp.MustCompile(`^play (?:the )?episode (?:called |named |titled )?(.+?)(?: (?:of|from) (.+))?$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				if !validTargetName(m[1]) {
					return nil, false
				}
				return domain.Play{
					IntentMeta: meta(domain.ConfidenceMedium, raw),
					Target:     domain.EpisodeByName{EpisodeName: m[1], PodcastName: m[2]},
				}, true
			},
		},
		{
			re: regexp.MustCompile(`^play (?:the podcast |podcast |some )?(.+)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				if !validTargetName(m[1]) {
					return nil, false
				}
				return domain.Play{
					IntentMeta: meta(domain.ConfidenceMedium, raw),
					Target:     domain.PodcastByName{Name: m[1]},
				}, true
			},
		},
	}
}
