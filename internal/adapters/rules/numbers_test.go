package rules

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "30", want: 30, wantOK: true},
		{input: "seven", want: 7, wantOK: true},
		{input: "fifteen", want: 15, wantOK: true},
		{input: "ninety", want: 90, wantOK: true},
		{input: "hundred", want: 100, wantOK: true},
		{input: "third", want: 3, wantOK: true},
		{input: "zillion", wantOK: false},
		{input: "", wantOK: false},
		{input: "12abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseNumber(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("parseNumber(%q): got (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "", want: 15, wantOK: true},
		{input: "30", want: 30, wantOK: true},
		{input: "30 seconds", want: 30, wantOK: true},
		{input: "two minutes", want: 120, wantOK: true},
		{input: "1 hour", want: 3600, wantOK: true},
		{input: "30s", want: 30, wantOK: true},
		{input: "5min", want: 300, wantOK: true},
		{input: "2h", want: 7200, wantOK: true},
		{input: "a while", wantOK: false},
		{input: "the next chapter", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseDurationSeconds(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("parseDurationSeconds(%q): got (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseClockSeconds(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "12:30", want: 750, wantOK: true},
		{input: "1:23:45", want: 5025, wantOK: true},
		{input: "0:05", want: 5, wantOK: true},
		{input: "12:75", wantOK: false},
		{input: "1:23:99", wantOK: false},
		{input: "90", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseClockSeconds(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("parseClockSeconds(%q): got (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseSpeedValue(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: "1.5", want: 1.5, wantOK: true},
		{input: "double", want: 2.0, wantOK: true},
		{input: "half", want: 0.5, wantOK: true},
		{input: "normal", want: 1.0, wantOK: true},
		{input: "one and a half", want: 1.5, wantOK: true},
		{input: "0.25", want: 0.25, wantOK: true},
		{input: "4.0", want: 4.0, wantOK: true},
		{input: "0.1", wantOK: false},
		{input: "4.5", wantOK: false},
		{input: "warp", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseSpeedValue(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("parseSpeedValue(%q): got (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips sentence punctuation",
			input: "Play the Daily, please!",
			want:  "play the daily please",
		},
		{
			name:  "keeps decimal points between digits",
			input: "set speed to 1.5",
			want:  "set speed to 1.5",
		},
		{
			name:  "keeps clock colons between digits",
			input: "seek to 1:23:45",
			want:  "seek to 1:23:45",
		},
		{
			name:  "drops trailing colon",
			input: "do this:",
			want:  "do this",
		},
		{
			name:  "collapses whitespace",
			input: "  skip \t forward  ",
			want:  "skip forward",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeText(tt.input)
			if got != tt.want {
				t.Fatalf("normalizeText: got %q, want %q", got, tt.want)
			}
			if again := normalizeText(got); again != got {
				t.Fatalf("normalizeText not idempotent: %q became %q", got, again)
			}
		})
	}
}
