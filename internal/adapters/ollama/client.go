// Package ollama provides the tier-2 fallback interpreter. Text the rule
// grammar could not classify is sent to a local Ollama instance, which
// returns a flat JSON command object that is mapped back onto the same
// intent variants the rule parser produces, at LOW confidence.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

const defaultBaseURL = "http://localhost:11434"

const defaultModel = "llama3.2:3b"

const systemPrompt = "You are the command interpreter of a podcast player. Translate the user's sentence into a single flat JSON object.\n\nRules:\nOutput: Return ONLY a valid JSON object. No conversational text.\nFields: {\"command\": string, \"name\": string, \"episode\": string, \"query\": string, \"scope\": string, \"seconds\": number, \"number\": number, \"speed\": number}. Omit fields that do not apply.\nCommands: play, pause, resume, stop, skip_forward, skip_backward, seek_to, next_episode, previous_episode, jump_to_chapter, set_speed, speed_up, slow_down, normal_speed, search, subscribe, unsubscribe, mark_played, mark_unplayed, list_subscriptions, whats_playing, playback_status, queue_status, add_to_queue, clear_queue, none.\nScope: one of podcasts, episodes, all.\nUse \"none\" when the sentence is not a podcast command at all."

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// commandObject is the flat shape the model is prompted to emit.
type commandObject struct {
	Command string  `json:"command"`
	Name    string  `json:"name,omitempty"`
	Episode string  `json:"episode,omitempty"`
	Query   string  `json:"query,omitempty"`
	Scope   string  `json:"scope,omitempty"`
	Seconds int     `json:"seconds,omitempty"`
	Number  int     `json:"number,omitempty"`
	Speed   float64 `json:"speed,omitempty"`
}

func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Interpret implements the fallback interpreter port.
func (c *Client) Interpret(ctx context.Context, text string) (domain.Intent, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("ollama: %s", parsed.Error)
	}

	if strings.TrimSpace(parsed.Message.Content) == "" {
		return nil, fmt.Errorf("ollama: empty response")
	}

	var cmd commandObject
	if err := json.Unmarshal([]byte(parsed.Message.Content), &cmd); err != nil {
		return nil, fmt.Errorf("ollama: decode command: %w", err)
	}

	return toIntent(cmd, text)
}

// toIntent validates the model output against the same ranges the rule
// parser enforces. A malformed command yields Unrecognized rather than an
// error so the caller can still answer the user.
func toIntent(cmd commandObject, raw string) (domain.Intent, error) {
	meta := domain.IntentMeta{Confidence: domain.ConfidenceLow, RawText: raw}

	switch cmd.Command {
	case "play":
		return domain.Play{IntentMeta: meta, Target: playTarget(cmd)}, nil
	case "pause":
		return domain.Pause{IntentMeta: meta}, nil
	case "resume":
		return domain.Resume{IntentMeta: meta}, nil
	case "stop":
		return domain.Stop{IntentMeta: meta}, nil

	case "skip_forward":
		return domain.SkipForward{IntentMeta: meta, Seconds: positiveOrDefault(cmd.Seconds)}, nil
	case "skip_backward":
		return domain.SkipBackward{IntentMeta: meta, Seconds: positiveOrDefault(cmd.Seconds)}, nil
	case "seek_to":
		if cmd.Seconds < 0 {
			return unrecognized(raw, "fallback returned a negative position"), nil
		}
		return domain.SeekTo{IntentMeta: meta, Seconds: cmd.Seconds}, nil
	case "next_episode":
		return domain.NextEpisode{IntentMeta: meta}, nil
	case "previous_episode":
		return domain.PreviousEpisode{IntentMeta: meta}, nil
	case "jump_to_chapter":
		if cmd.Number >= 1 {
			return domain.JumpToChapter{IntentMeta: meta, Number: cmd.Number}, nil
		}
		return domain.JumpToChapter{IntentMeta: meta, Direction: domain.ChapterNext}, nil

	case "set_speed":
		if cmd.Speed < 0.25 || cmd.Speed > 4.0 {
			return unrecognized(raw, "fallback returned a speed out of range"), nil
		}
		return domain.SetSpeed{IntentMeta: meta, Value: cmd.Speed}, nil
	case "speed_up":
		return domain.SpeedUp{IntentMeta: meta}, nil
	case "slow_down":
		return domain.SlowDown{IntentMeta: meta}, nil
	case "normal_speed":
		return domain.NormalSpeed{IntentMeta: meta}, nil

	case "search":
		query := strings.TrimSpace(cmd.Query)
		if query == "" {
			return unrecognized(raw, "fallback returned an empty search query"), nil
		}
		return domain.SearchQuery{IntentMeta: meta, Query: query, Scope: searchScope(cmd.Scope)}, nil

	case "subscribe":
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			return unrecognized(raw, "fallback returned an empty podcast name"), nil
		}
		return domain.Subscribe{IntentMeta: meta, PodcastName: name}, nil
	case "unsubscribe":
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			return unrecognized(raw, "fallback returned an empty podcast name"), nil
		}
		return domain.Unsubscribe{IntentMeta: meta, PodcastName: name}, nil
	case "mark_played":
		return domain.MarkPlayed{IntentMeta: meta}, nil
	case "mark_unplayed":
		return domain.MarkUnplayed{IntentMeta: meta}, nil
	case "list_subscriptions":
		return domain.ListSubscriptions{IntentMeta: meta}, nil

	case "whats_playing":
		return domain.WhatsPlaying{IntentMeta: meta}, nil
	case "playback_status":
		return domain.PlaybackStatus{IntentMeta: meta}, nil
	case "queue_status":
		return domain.QueueStatus{IntentMeta: meta}, nil
	case "add_to_queue":
		return domain.AddToQueue{IntentMeta: meta}, nil
	case "clear_queue":
		return domain.ClearQueue{IntentMeta: meta}, nil

	case "none", "":
		return unrecognized(raw, "not a podcast command"), nil
	}

	return unrecognized(raw, fmt.Sprintf("fallback returned unknown command %q", cmd.Command)), nil
}

func playTarget(cmd commandObject) domain.PlayTarget {
	name := strings.TrimSpace(cmd.Name)
	episode := strings.TrimSpace(cmd.Episode)
	switch {
	case episode != "":
		return domain.EpisodeByName{EpisodeName: episode, PodcastName: name}
	case cmd.Number >= 1:
		return domain.EpisodeByNumber{Number: cmd.Number, PodcastName: name}
	case name != "":
		return domain.PodcastByName{Name: name}
	default:
		return domain.ResumeLast{}
	}
}

func searchScope(scope string) domain.SearchScope {
	switch scope {
	case string(domain.ScopePodcasts):
		return domain.ScopePodcasts
	case string(domain.ScopeEpisodes):
		return domain.ScopeEpisodes
	default:
		return domain.ScopeAll
	}
}

func positiveOrDefault(seconds int) int {
	if seconds <= 0 {
		return 15
	}
	return seconds
}

func unrecognized(raw, reason string) domain.Unrecognized {
	return domain.Unrecognized{
		IntentMeta: domain.IntentMeta{RawText: raw},
		Reason:     reason,
	}
}
