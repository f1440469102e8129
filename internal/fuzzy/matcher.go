// Package fuzzy ranks free-text names against candidate items using a
// layered similarity pipeline: exact match, substring containment, then a
// weighted blend of Levenshtein, Jaro-Winkler and token similarity.
//
// All functions are pure and safe for concurrent use; the package holds
// only immutable lookup tables.
package fuzzy

import (
	"sort"
	"strings"
)

// MatchType describes how a match was found.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchNormalized  MatchType = "normalized"
	MatchFuzzyHigh   MatchType = "fuzzy_high"
	MatchFuzzyMedium MatchType = "fuzzy_medium"
	MatchFuzzyLow    MatchType = "fuzzy_low"
	MatchToken       MatchType = "token"
	MatchNone        MatchType = "none"
)

// Score thresholds separating the fuzzy tiers. ScoreLow is also the
// default cut-off below which a candidate is not returned at all.
const (
	ScoreHigh   = 0.85
	ScoreMedium = 0.70
	ScoreLow    = 0.55
)

// DefaultLimit caps Matches result sets when the caller passes limit <= 0.
const DefaultLimit = 10

// Weights of the combined fuzzy score.
const (
	weightLevenshtein = 0.3
	weightJaroWinkler = 0.4
	weightToken       = 0.3
)

// Match wraps a candidate item with its similarity verdict.
type Match[T any] struct {
	Item  T
	Score float64
	Type  MatchType
}

// Score rates how well candidate matches query, in [0, 1]. The pipeline
// short-circuits: exact normalized equality, then substring containment
// (scaled by how much of the candidate the query covers), then the
// weighted blend of the three fuzzy measures.
func Score(query string, candidate string) (float64, MatchType) {
	q := normalize(query)
	c := normalize(candidate)
	if q == "" || c == "" {
		return 0, MatchNone
	}

	if q == c {
		return 1.0, MatchExact
	}

	if strings.Contains(c, q) {
		score := 0.85 + 0.15*float64(len(q))/float64(len(c))
		return score, MatchNormalized
	}

	score := weightLevenshtein*levenshteinSimilarity(q, c) +
		weightJaroWinkler*jaroWinklerSimilarity(q, c) +
		weightToken*tokenSimilarity(q, c)
	score = clamp01(score)

	switch {
	case score >= ScoreHigh:
		return score, MatchFuzzyHigh
	case score >= ScoreMedium:
		return score, MatchFuzzyMedium
	case score >= ScoreLow:
		return score, MatchFuzzyLow
	default:
		return score, MatchNone
	}
}

// BestMatch returns the single highest-scoring item at or above ScoreLow.
// Ties resolve to the first candidate in items order; the comparison is
// strictly greater-than, which makes that an explicit contract rather
// than an accident of iteration.
func BestMatch[T any](query string, items []T, nameOf func(T) string) (Match[T], bool) {
	var best Match[T]
	found := false

	if len(items) == 0 || normalize(query) == "" {
		return best, false
	}

	for _, item := range items {
		score, matchType := Score(query, nameOf(item))
		if score < ScoreLow {
			continue
		}
		if !found || score > best.Score {
			best = Match[T]{Item: item, Score: score, Type: matchType}
			found = true
		}
	}

	return best, found
}

// Matches returns every candidate scoring at least minScore, sorted by
// score descending and truncated to limit. The sort is stable, so items
// with equal scores keep their input order. A limit <= 0 means
// DefaultLimit; a minScore <= 0 means ScoreLow.
func Matches[T any](query string, items []T, nameOf func(T) string, minScore float64, limit int) []Match[T] {
	if minScore <= 0 {
		minScore = ScoreLow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(items) == 0 || normalize(query) == "" {
		return nil
	}

	results := make([]Match[T], 0, len(items))
	for _, item := range items {
		score, matchType := Score(query, nameOf(item))
		if score < minScore {
			continue
		}
		results = append(results, Match[T]{Item: item, Score: score, Type: matchType})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
