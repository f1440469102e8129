package fuzzy

import "strings"

// stopWords carry little distinguishing signal and are excluded from
// token similarity. The domain words at the end keep "the daily podcast"
// and "the daily" token-identical.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {},
	"of": {}, "for": {}, "to": {}, "in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "am": {},
	"do": {}, "does": {}, "did": {}, "has": {}, "have": {}, "had": {},
	"podcast": {}, "podcasts": {}, "episode": {}, "episodes": {}, "show": {}, "series": {},
}

// levenshteinDistance computes the classic edit distance (insert, delete,
// substitute, each cost 1) over runes with a single rolling row.
func levenshteinDistance(a string, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		copy(prev, curr)
	}

	return prev[len(rb)]
}

// levenshteinSimilarity maps edit distance into [0, 1]: identical strings
// (including two empty strings) score 1.0, and a string compared against
// an empty one scores 0.
func levenshteinSimilarity(a string, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := maxOf(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	sim := 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
	return clamp01(sim)
}

// jaroSimilarity implements the standard Jaro algorithm: matches within a
// window of floor(max(len1,len2)/2)-1, transpositions counted over the
// matched sequences.
func jaroSimilarity(a string, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	window := maxOf(len(ra), len(rb))/2 - 1
	if window < 0 {
		return 0
	}

	matchedA := make([]bool, len(ra))
	matchedB := make([]bool, len(rb))
	matches := 0

	for i := range ra {
		lo := maxOf(0, i-window)
		hi := minOf2(len(rb)-1, i+window)
		for j := lo; j <= hi; j++ {
			if matchedB[j] || ra[i] != rb[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := range ra {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions)
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-t/2)/m) / 3
}

// jaroWinklerSimilarity boosts Jaro by the length of the common prefix,
// capped at 4 characters with the standard 0.1 scaling factor.
func jaroWinklerSimilarity(a string, b string) float64 {
	jaro := jaroSimilarity(a, b)

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < 4 {
		if ra[prefix] != rb[prefix] {
			break
		}
		prefix++
	}

	return clamp01(jaro + float64(prefix)*0.1*(1.0-jaro))
}

// tokenSimilarity is a fuzzy Jaccard over stop-word-filtered token sets:
// each query token contributes its best Levenshtein similarity in the
// candidate set when that best similarity reaches 0.8.
func tokenSimilarity(a string, b string) float64 {
	t1 := contentTokens(a)
	t2 := contentTokens(b)
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	var matchCount float64
	for _, tok := range t1 {
		best := 0.0
		for _, other := range t2 {
			if sim := levenshteinSimilarity(tok, other); sim > best {
				best = sim
			}
		}
		if best >= 0.8 {
			matchCount += best
		}
	}

	return matchCount / (float64(len(t1)) + float64(len(t2)) - matchCount)
}

// contentTokens splits a normalized string into its unique non-stop-word
// tokens, preserving first-seen order.
func contentTokens(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, drop := stopWords[f]; drop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minOf(a int, b int, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func minOf2(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxOf(a int, b int) int {
	if a > b {
		return a
	}
	return b
}
