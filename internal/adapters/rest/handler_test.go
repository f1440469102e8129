package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/castaway-labs/castaway/internal/adapters/rules"
	"github.com/castaway-labs/castaway/internal/core/domain"
	"github.com/castaway-labs/castaway/internal/core/services"
	"github.com/castaway-labs/castaway/internal/metrics"
)

type fakeLibrary struct {
	podcasts []domain.Podcast
	episodes map[string][]domain.Episode
}

func (f *fakeLibrary) Podcasts(context.Context) ([]domain.Podcast, error) { return f.podcasts, nil }

func (f *fakeLibrary) Subscriptions(context.Context) ([]domain.Podcast, error) {
	return f.podcasts, nil
}

func (f *fakeLibrary) SavePodcast(context.Context, domain.Podcast) error    { return nil }
func (f *fakeLibrary) SetSubscribed(context.Context, string, bool) error    { return nil }
func (f *fakeLibrary) SaveEpisodes(context.Context, []domain.Episode) error { return nil }
func (f *fakeLibrary) SetPlayed(context.Context, string, bool) error        { return nil }
func (f *fakeLibrary) QueueAdd(context.Context, string) error               { return nil }
func (f *fakeLibrary) QueueClear(context.Context) error                     { return nil }
func (f *fakeLibrary) QueueList(context.Context) ([]domain.Episode, error)  { return nil, nil }

func (f *fakeLibrary) Episodes(_ context.Context, podcastID string) ([]domain.Episode, error) {
	return f.episodes[podcastID], nil
}

func (f *fakeLibrary) LatestEpisode(_ context.Context, podcastID string) (domain.Episode, error) {
	eps := f.episodes[podcastID]
	if len(eps) == 0 {
		return domain.Episode{}, domain.ErrNotFound
	}
	return eps[len(eps)-1], nil
}

func (f *fakeLibrary) EpisodeByNumber(_ context.Context, podcastID string, number int) (domain.Episode, error) {
	for _, e := range f.episodes[podcastID] {
		if e.Number == number {
			return e, nil
		}
	}
	return domain.Episode{}, domain.ErrNotFound
}

type fakePlayer struct {
	loaded bool
	now    domain.NowPlaying
}

func (f *fakePlayer) Play(_ context.Context, e domain.Episode, p domain.Podcast) error {
	f.loaded = true
	f.now = domain.NowPlaying{Episode: e, Podcast: p, Speed: 1.0}
	return nil
}

func (f *fakePlayer) Resume(context.Context) error                { return f.idleErr() }
func (f *fakePlayer) Pause(context.Context) error                 { return f.idleErr() }
func (f *fakePlayer) Stop(context.Context) error                  { return nil }
func (f *fakePlayer) SkipBy(context.Context, time.Duration) error { return f.idleErr() }
func (f *fakePlayer) SeekTo(context.Context, time.Duration) error { return f.idleErr() }
func (f *fakePlayer) SetSpeed(context.Context, float64) error     { return nil }
func (f *fakePlayer) Speed(context.Context) (float64, error)      { return 1.0, nil }

func (f *fakePlayer) JumpToChapter(context.Context, int, domain.ChapterDirection) error {
	return f.idleErr()
}

func (f *fakePlayer) NowPlaying(context.Context) (domain.NowPlaying, error) {
	if !f.loaded {
		return domain.NowPlaying{}, domain.ErrNothingPlaying
	}
	return f.now, nil
}

func (f *fakePlayer) idleErr() error {
	if !f.loaded {
		return domain.ErrNothingPlaying
	}
	return nil
}

func newTestHandler(t *testing.T, player *fakePlayer) *Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	svc := services.NewAssistant(services.Deps{
		Parser: rules.New(),
		Library: &fakeLibrary{
			podcasts: []domain.Podcast{{ID: "p1", Title: "The Daily", Subscribed: true}},
			episodes: map[string][]domain.Episode{
				"p1": {{ID: "e1", PodcastID: "p1", Title: "Monday Briefing", Number: 1}},
			},
		},
		Player:  player,
		Metrics: metrics.New(registry),
		Log:     zerolog.Nop(),
	})
	return NewHandler(svc, registry, zerolog.Nop())
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(t, &fakePlayer{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field: got %q, want ok", body["status"])
	}
}

func TestHandleParse(t *testing.T) {
	h := newTestHandler(t, &fakePlayer{})

	t.Run("structural command", func(t *testing.T) {
		rec := postJSON(h, "/v1/parse", `{"text":"skip forward 30 seconds"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		var dto intentDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if dto.Kind != "skip_forward" || dto.Seconds != 30 {
			t.Fatalf("dto: got %+v", dto)
		}
		if dto.Confidence != domain.ConfidenceHigh {
			t.Fatalf("confidence: got %v, want %v", dto.Confidence, domain.ConfidenceHigh)
		}
	})

	t.Run("play target is encoded", func(t *testing.T) {
		rec := postJSON(h, "/v1/parse", `{"text":"play episode 4 of the daily"}`)
		var dto intentDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if dto.Target == nil || dto.Target.Type != "episode_by_number" || dto.Target.Number != 4 {
			t.Fatalf("target: got %+v", dto.Target)
		}
	})

	t.Run("unrecognized carries a reason", func(t *testing.T) {
		rec := postJSON(h, "/v1/parse", `{"text":"asdkjfh randomtext"}`)
		var dto intentDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if dto.Kind != "unrecognized" || dto.Reason == "" {
			t.Fatalf("dto: got %+v", dto)
		}
		if dto.Confidence != 0 {
			t.Fatalf("confidence: got %v, want 0", dto.Confidence)
		}
	})

	t.Run("missing text", func(t *testing.T) {
		rec := postJSON(h, "/v1/parse", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("text=pause"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("status: got %d, want 415", rec.Code)
		}
	})
}

func TestHandleCommand(t *testing.T) {
	t.Run("executes against the player", func(t *testing.T) {
		h := newTestHandler(t, &fakePlayer{loaded: true})
		rec := postJSON(h, "/v1/command", `{"text":"pause"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		var result services.CommandResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if result.Kind != "pause" || result.ID == "" {
			t.Fatalf("result: got %+v", result)
		}
	})

	t.Run("no confident match maps to 422", func(t *testing.T) {
		h := newTestHandler(t, &fakePlayer{})
		rec := postJSON(h, "/v1/command", `{"text":"play xylophone quarterly"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status: got %d, want 422 (%s)", rec.Code, rec.Body.String())
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Code != errCodeNoConfidentMatch {
			t.Fatalf("code: got %q, want %q", body.Code, errCodeNoConfidentMatch)
		}
	})

	t.Run("nothing playing maps to 409", func(t *testing.T) {
		h := newTestHandler(t, &fakePlayer{})
		rec := postJSON(h, "/v1/command", `{"text":"pause"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status: got %d, want 409 (%s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		h := newTestHandler(t, &fakePlayer{loaded: true})
		huge := `{"text":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
		rec := postJSON(h, "/v1/command", huge)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakePlayer{loaded: true})

	// Handle a command first so at least one counter exists.
	postJSON(h, "/v1/command", `{"text":"pause"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "castaway_commands_total") {
		t.Fatal("expected castaway_commands_total in metrics output")
	}
}
