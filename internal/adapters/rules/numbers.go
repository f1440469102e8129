package rules

import (
	"regexp"
	"strconv"
	"strings"
)

// numberWords enumerates the cardinals and ordinals the grammar accepts.
// Anything outside this table fails the sub-pattern rather than the parse.
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"fifteen": 15,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	"hundred": 100,
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// speedWords maps spoken multipliers to playback rates.
var speedWords = map[string]float64{
	"quarter":        0.25,
	"half":           0.5,
	"three quarters": 0.75,
	"normal":         1.0,
	"one":            1.0,
	"regular":        1.0,
	"one and a half": 1.5,
	"double":         2.0,
	"two":            2.0,
	"twice":          2.0,
	"triple":         3.0,
	"three":          3.0,
	"quadruple":      4.0,
	"four":           4.0,
}

const (
	defaultSkipSeconds = 15

	minSpeed = 0.25
	maxSpeed = 4.0
)

// parseNumber accepts a digit string or a single word from the number
// table.
func parseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if isAllDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, ok := numberWords[s]
	return n, ok
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !isASCIIDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// durationToken splits an attached unit suffix off a single token, e.g.
// "30s", "5min", "2h".
var durationToken = regexp.MustCompile(`^(\d+)(s|sec|secs|m|min|mins|h|hr|hrs)$`)

// parseDurationSeconds turns a quantity phrase into seconds. An empty
// phrase yields the 15-second default used by skip commands. Units:
// minutes multiply by 60, hours by 3600, anything else is seconds.
func parseDurationSeconds(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultSkipSeconds, true
	}

	if m := durationToken.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * unitMultiplier(m[2]), true
	}

	fields := strings.Fields(s)
	mult := 1
	if len(fields) > 1 {
		if um := unitMultiplier(fields[len(fields)-1]); um > 0 {
			mult = um
			fields = fields[:len(fields)-1]
		}
	}
	if len(fields) != 1 {
		return 0, false
	}

	n, ok := parseNumber(fields[0])
	if !ok {
		return 0, false
	}
	return n * mult, true
}

// unitMultiplier returns seconds-per-unit, or 0 for an unknown word.
func unitMultiplier(unit string) int {
	switch unit {
	case "second", "seconds", "sec", "secs", "s":
		return 1
	case "minute", "minutes", "min", "mins", "m":
		return 60
	case "hour", "hours", "hr", "hrs", "h":
		return 3600
	}
	return 0
}

var clockPattern = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2}))?$`)

// parseClockSeconds reads H:MM:SS or MM:SS colon notation into absolute
// seconds. Minute and second fields above 59 reject the pattern.
func parseClockSeconds(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if m[3] == "" {
		if second > 59 {
			return 0, false
		}
		return first*60 + second, true
	}

	third, _ := strconv.Atoi(m[3])
	if second > 59 || third > 59 {
		return 0, false
	}
	return first*3600 + second*60 + third, true
}

// parsePositionSeconds resolves a seek target: colon notation first, then
// the word/number duration grammar.
func parsePositionSeconds(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if secs, ok := parseClockSeconds(s); ok {
		return secs, true
	}
	return parseDurationSeconds(s)
}

// parseSpeedValue accepts a decimal rate or a word from the speed table,
// rejecting anything outside [0.25, 4.0].
func parseSpeedValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < minSpeed || v > maxSpeed {
			return 0, false
		}
		return v, true
	}

	v, ok := speedWords[s]
	if !ok || v < minSpeed || v > maxSpeed {
		return 0, false
	}
	return v, true
}
