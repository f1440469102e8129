package domain

import "time"

// Podcast is a show in the local library.
type Podcast struct {
	ID         string
	Title      string
	Author     string
	FeedURL    string
	Subscribed bool
	AddedAt    time.Time
}

// Episode is a single installment of a podcast.
type Episode struct {
	ID          string
	PodcastID   string
	Title       string
	Number      int // 0 when the feed does not number episodes
	AudioURL    string
	Duration    time.Duration
	PublishedAt time.Time
	Played      bool
	Position    time.Duration // resume point
}

// NowPlaying describes the player state surfaced by status intents.
type NowPlaying struct {
	Episode  Episode
	Podcast  Podcast
	Position time.Duration
	Speed    float64
	Paused   bool
}
