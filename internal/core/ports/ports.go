// Package ports declares the interfaces between the core service and its
// adapters. The core depends on these, never on concrete adapters.
package ports

import (
	"context"
	"time"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// IntentParser is the tier-1 interpreter: offline, deterministic, total.
// No context parameter because Parse can neither block nor fail.
type IntentParser interface {
	Parse(text string) domain.Intent
}

// FallbackInterpreter is the tier-2 escalation path for text the rule
// grammar could not classify. Implementations may do network I/O.
type FallbackInterpreter interface {
	Interpret(ctx context.Context, text string) (domain.Intent, error)
}

// LibraryRepository stores the local podcast library.
type LibraryRepository interface {
	Podcasts(ctx context.Context) ([]domain.Podcast, error)
	Subscriptions(ctx context.Context) ([]domain.Podcast, error)
	SavePodcast(ctx context.Context, p domain.Podcast) error
	SetSubscribed(ctx context.Context, podcastID string, subscribed bool) error

	Episodes(ctx context.Context, podcastID string) ([]domain.Episode, error)
	LatestEpisode(ctx context.Context, podcastID string) (domain.Episode, error)
	EpisodeByNumber(ctx context.Context, podcastID string, number int) (domain.Episode, error)
	SaveEpisodes(ctx context.Context, episodes []domain.Episode) error
	SetPlayed(ctx context.Context, episodeID string, played bool) error

	QueueAdd(ctx context.Context, episodeID string) error
	QueueClear(ctx context.Context) error
	QueueList(ctx context.Context) ([]domain.Episode, error)
}

// Player drives the host audio player. The real implementation lives in
// the embedding application; this repo ships an in-process stand-in.
type Player interface {
	Play(ctx context.Context, episode domain.Episode, podcast domain.Podcast) error
	Resume(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	SkipBy(ctx context.Context, delta time.Duration) error
	SeekTo(ctx context.Context, position time.Duration) error
	SetSpeed(ctx context.Context, speed float64) error
	JumpToChapter(ctx context.Context, number int, direction domain.ChapterDirection) error
	Speed(ctx context.Context) (float64, error)
	NowPlaying(ctx context.Context) (domain.NowPlaying, error)
}

// DirectoryProvider searches a remote podcast catalog; used when a
// subscribe target is not already in the library.
type DirectoryProvider interface {
	Search(ctx context.Context, query string) ([]domain.Podcast, error)
	Episodes(ctx context.Context, podcastID string) ([]domain.Episode, error)
}
