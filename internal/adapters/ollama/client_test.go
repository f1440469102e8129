package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

func TestClient_Interpret(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		wantErr      bool
		wantKind     string
	}{
		{
			name:         "set speed",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{\"command\":\"set_speed\",\"speed\":1.5}"}}`,
			wantKind:     "set_speed",
		},
		{
			name:         "play episode by name",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{\"command\":\"play\",\"episode\":\"the one about whales\",\"name\":\"radiolab\"}"}}`,
			wantKind:     "play",
		},
		{
			name:         "not a command",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{\"command\":\"none\"}"}}`,
			wantKind:     "unrecognized",
		},
		{
			name:         "server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantErr:      true,
		},
		{
			name:         "empty content",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":""}}`,
			wantErr:      true,
		},
		{
			name:         "malformed command json",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"not json"}}`,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			intent, err := client.Interpret(context.Background(), "test message")

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if gotRequest.Model != defaultModel {
				t.Fatalf("expected model %q, got %q", defaultModel, gotRequest.Model)
			}
			if gotRequest.Format != "json" {
				t.Fatalf("expected format json, got %q", gotRequest.Format)
			}
			if len(gotRequest.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "system" || gotRequest.Messages[0].Content != systemPrompt {
				t.Fatalf("system prompt mismatch")
			}
			if gotRequest.Messages[1].Role != "user" || gotRequest.Messages[1].Content != "test message" {
				t.Fatalf("user message mismatch")
			}
			if got := domain.Kind(intent); got != tt.wantKind {
				t.Fatalf("kind: got %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestToIntent(t *testing.T) {
	tests := []struct {
		name     string
		cmd      commandObject
		wantKind string
		check    func(t *testing.T, intent domain.Intent)
	}{
		{
			name:     "speed out of range degrades to unrecognized",
			cmd:      commandObject{Command: "set_speed", Speed: 9.0},
			wantKind: "unrecognized",
		},
		{
			name:     "skip without seconds uses the default",
			cmd:      commandObject{Command: "skip_forward"},
			wantKind: "skip_forward",
			check: func(t *testing.T, intent domain.Intent) {
				if got := intent.(domain.SkipForward).Seconds; got != 15 {
					t.Fatalf("seconds: got %d, want 15", got)
				}
			},
		},
		{
			name:     "bare play resumes",
			cmd:      commandObject{Command: "play"},
			wantKind: "play",
			check: func(t *testing.T, intent domain.Intent) {
				if _, ok := intent.(domain.Play).Target.(domain.ResumeLast); !ok {
					t.Fatalf("target: got %T, want ResumeLast", intent.(domain.Play).Target)
				}
			},
		},
		{
			name:     "play with number",
			cmd:      commandObject{Command: "play", Number: 7, Name: "hardcore history"},
			wantKind: "play",
			check: func(t *testing.T, intent domain.Intent) {
				target, ok := intent.(domain.Play).Target.(domain.EpisodeByNumber)
				if !ok || target.Number != 7 || target.PodcastName != "hardcore history" {
					t.Fatalf("target: got %+v", intent.(domain.Play).Target)
				}
			},
		},
		{
			name:     "search without query degrades to unrecognized",
			cmd:      commandObject{Command: "search"},
			wantKind: "unrecognized",
		},
		{
			name:     "unknown scope widens to all",
			cmd:      commandObject{Command: "search", Query: "history", Scope: "playlists"},
			wantKind: "search",
			check: func(t *testing.T, intent domain.Intent) {
				if got := intent.(domain.SearchQuery).Scope; got != domain.ScopeAll {
					t.Fatalf("scope: got %q, want all", got)
				}
			},
		},
		{
			name:     "unknown command degrades to unrecognized",
			cmd:      commandObject{Command: "teleport"},
			wantKind: "unrecognized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := toIntent(tt.cmd, "raw text")
			if err != nil {
				t.Fatalf("toIntent: %v", err)
			}
			if got := domain.Kind(intent); got != tt.wantKind {
				t.Fatalf("kind: got %q, want %q", got, tt.wantKind)
			}
			if tt.wantKind != "unrecognized" && intent.Meta().Confidence != domain.ConfidenceLow {
				t.Fatalf("confidence: got %v, want %v", intent.Meta().Confidence, domain.ConfidenceLow)
			}
			if intent.Meta().RawText != "raw text" {
				t.Fatalf("raw text: got %q", intent.Meta().RawText)
			}
			if tt.check != nil {
				tt.check(t, intent)
			}
		})
	}
}
