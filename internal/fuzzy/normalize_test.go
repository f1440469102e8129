package fuzzy

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and strips punctuation",
			input: "The Daily!",
			want:  "the daily",
		},
		{
			name:  "collapses whitespace",
			input: "  planet   money \t show ",
			want:  "planet money show",
		},
		{
			name:  "keeps digits",
			input: "99% Invisible",
			want:  "99 invisible",
		},
		{
			name:  "drops non alphanumerics entirely",
			input: "rock'n'roll",
			want:  "rocknroll",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.input)
			if got != tt.want {
				t.Fatalf("normalize: got %q, want %q", got, tt.want)
			}
			if again := normalize(got); again != got {
				t.Fatalf("normalize not idempotent: %q became %q", got, again)
			}
		})
	}
}
