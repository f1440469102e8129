package rules

import (
	"regexp"
	"strings"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

var (
	searchLead  = regexp.MustCompile(`^(?:podcasts?|episodes?)(?: (?:about|called|named|for))? `)
	searchTrail = regexp.MustCompile(`(?: (?:about|called|named|for))? (?:podcasts?|episodes?)$`)
)

// searchRules classify the query scope from the literal words "podcast"
// and "episode" in the tail, then strip those decorations from the query
// itself. Stripping that empties the query falls back to the raw tail.
func searchRules() []rule {
	return []rule{
		{
			re: regexp.MustCompile(`^(?:search(?: for)?|find|look for|look up) (.+)$`),
			build: func(m []string, raw string) (domain.Intent, bool) {
				tail := m[1]

				scope := domain.ScopeAll
				switch {
				case strings.Contains(tail, "podcast"):
					scope = domain.ScopePodcasts
				case strings.Contains(tail, "episode"):
					scope = domain.ScopeEpisodes
				}

				query := stripSearchDecorations(tail)
				if query == "" {
					query = tail
				}

				return domain.SearchQuery{
					IntentMeta: meta(domain.ConfidenceHigh, raw),
					Query:      query,
					Scope:      scope,
				}, true
			},
		},
	}
}

func stripSearchDecorations(tail string) string {
	query := strings.TrimSpace(tail)
	for {
		next := searchLead.ReplaceAllString(query, "")
		next = searchTrail.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == query {
			return query
		}
		query = next
	}
}
