package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func seedPodcast(t *testing.T, a *Adapter, p domain.Podcast, episodes ...domain.Episode) {
	t.Helper()
	if err := a.SavePodcast(context.Background(), p); err != nil {
		t.Fatalf("save podcast: %v", err)
	}
	if len(episodes) > 0 {
		if err := a.SaveEpisodes(context.Background(), episodes); err != nil {
			t.Fatalf("save episodes: %v", err)
		}
	}
}

func TestAdapter_PodcastsAndSubscriptions(t *testing.T) {
	a := newTestAdapter(t)

	seedPodcast(t, a, domain.Podcast{ID: "p1", Title: "The Daily", FeedURL: "https://feeds.test/daily", Subscribed: true})
	seedPodcast(t, a, domain.Podcast{ID: "p2", Title: "Hardcore History", FeedURL: "https://feeds.test/hh", Subscribed: false})

	all, err := a.Podcasts(context.Background())
	if err != nil {
		t.Fatalf("podcasts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("podcasts: got %d, want 2", len(all))
	}

	subs, err := a.Subscriptions(context.Background())
	if err != nil {
		t.Fatalf("subscriptions: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != "p1" {
		t.Fatalf("subscriptions: got %+v, want only p1", subs)
	}
}

func TestAdapter_SavePodcastUpserts(t *testing.T) {
	a := newTestAdapter(t)

	seedPodcast(t, a, domain.Podcast{ID: "p1", Title: "The Dialy", FeedURL: "https://feeds.test/daily"})
	seedPodcast(t, a, domain.Podcast{ID: "p1", Title: "The Daily", FeedURL: "https://feeds.test/daily", Subscribed: true})

	all, err := a.Podcasts(context.Background())
	if err != nil {
		t.Fatalf("podcasts: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("podcasts: got %d, want 1 after upsert", len(all))
	}
	if all[0].Title != "The Daily" || !all[0].Subscribed {
		t.Fatalf("podcast: got %+v, want updated title and subscription", all[0])
	}
}

func TestAdapter_SetSubscribed(t *testing.T) {
	a := newTestAdapter(t)
	seedPodcast(t, a, domain.Podcast{ID: "p1", Title: "The Daily", FeedURL: "https://feeds.test/daily", Subscribed: true})

	if err := a.SetSubscribed(context.Background(), "p1", false); err != nil {
		t.Fatalf("set subscribed: %v", err)
	}
	subs, err := a.Subscriptions(context.Background())
	if err != nil {
		t.Fatalf("subscriptions: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("subscriptions: got %+v, want none", subs)
	}

	if err := a.SetSubscribed(context.Background(), "missing", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_EpisodeLookups(t *testing.T) {
	a := newTestAdapter(t)
	seedPodcast(t, a,
		domain.Podcast{ID: "p1", Title: "The Daily", FeedURL: "https://feeds.test/daily", Subscribed: true},
		domain.Episode{
			ID: "e1", PodcastID: "p1", Title: "Monday Briefing", Number: 1,
			AudioURL:    "https://audio.test/e1.mp3",
			Duration:    30 * time.Minute,
			PublishedAt: time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC),
		},
		domain.Episode{
			ID: "e2", PodcastID: "p1", Title: "Tuesday Briefing", Number: 2,
			AudioURL:    "https://audio.test/e2.mp3",
			Duration:    28 * time.Minute,
			PublishedAt: time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC),
		},
	)

	t.Run("episodes ordered by publish date", func(t *testing.T) {
		eps, err := a.Episodes(context.Background(), "p1")
		if err != nil {
			t.Fatalf("episodes: %v", err)
		}
		if len(eps) != 2 || eps[0].ID != "e1" || eps[1].ID != "e2" {
			t.Fatalf("episodes: got %+v, want [e1 e2]", eps)
		}
		if eps[0].Duration != 30*time.Minute {
			t.Fatalf("duration: got %v, want 30m", eps[0].Duration)
		}
	})

	t.Run("latest episode", func(t *testing.T) {
		latest, err := a.LatestEpisode(context.Background(), "p1")
		if err != nil {
			t.Fatalf("latest episode: %v", err)
		}
		if latest.ID != "e2" {
			t.Fatalf("latest: got %q, want e2", latest.ID)
		}
	})

	t.Run("latest of empty podcast", func(t *testing.T) {
		_, err := a.LatestEpisode(context.Background(), "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("episode by number", func(t *testing.T) {
		ep, err := a.EpisodeByNumber(context.Background(), "p1", 1)
		if err != nil {
			t.Fatalf("episode by number: %v", err)
		}
		if ep.ID != "e1" {
			t.Fatalf("episode: got %q, want e1", ep.ID)
		}

		if _, err := a.EpisodeByNumber(context.Background(), "p1", 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAdapter_SaveEpisodesKeepsLocalState(t *testing.T) {
	a := newTestAdapter(t)
	episode := domain.Episode{
		ID: "e1", PodcastID: "p1", Title: "Monday Briefing", Number: 1,
		Duration:    30 * time.Minute,
		PublishedAt: time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC),
	}
	seedPodcast(t, a, domain.Podcast{ID: "p1", Title: "The Daily", FeedURL: "https://feeds.test/daily"}, episode)

	if err := a.SetPlayed(context.Background(), "e1", true); err != nil {
		t.Fatalf("set played: %v", err)
	}

	// A feed refresh re-saves the same episode with a corrected title.
	episode.Title = "Monday Briefing (updated)"
	if err := a.SaveEpisodes(context.Background(), []domain.Episode{episode}); err != nil {
		t.Fatalf("re-save episodes: %v", err)
	}

	got, err := a.EpisodeByNumber(context.Background(), "p1", 1)
	if err != nil {
		t.Fatalf("episode by number: %v", err)
	}
	if got.Title != "Monday Briefing (updated)" {
		t.Fatalf("title: got %q, want the refreshed title", got.Title)
	}
	if !got.Played {
		t.Fatal("played flag lost on refresh")
	}
}

func TestAdapter_Queue(t *testing.T) {
	a := newTestAdapter(t)
	seedPodcast(t, a,
		domain.Podcast{ID: "p1", Title: "The Daily", FeedURL: "https://feeds.test/daily"},
		domain.Episode{ID: "e1", PodcastID: "p1", Title: "Monday Briefing", Number: 1},
		domain.Episode{ID: "e2", PodcastID: "p1", Title: "Tuesday Briefing", Number: 2},
	)

	if err := a.QueueAdd(context.Background(), "e2"); err != nil {
		t.Fatalf("queue add: %v", err)
	}
	if err := a.QueueAdd(context.Background(), "e1"); err != nil {
		t.Fatalf("queue add: %v", err)
	}
	// Re-adding is a no-op, not a duplicate.
	if err := a.QueueAdd(context.Background(), "e2"); err != nil {
		t.Fatalf("queue re-add: %v", err)
	}

	queued, err := a.QueueList(context.Background())
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if len(queued) != 2 || queued[0].ID != "e2" || queued[1].ID != "e1" {
		t.Fatalf("queue: got %+v, want [e2 e1] in insertion order", queued)
	}

	if err := a.QueueClear(context.Background()); err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	queued, err = a.QueueList(context.Background())
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if len(queued) != 0 {
		t.Fatalf("queue: got %+v, want empty", queued)
	}
}
