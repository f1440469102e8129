// Package domain holds the value types shared by the parser, the matcher
// and the executor. Everything here is immutable after construction.
package domain

// Confidence levels assigned by the tier-1 parser. The value reflects how
// the match was made, not text similarity: structural commands are HIGH,
// commands carrying a free-text name that still needs fuzzy resolution are
// MEDIUM, and LOW is reserved for tier-2 interpretations.
const (
	ConfidenceHigh   = 0.95
	ConfidenceMedium = 0.75
	ConfidenceLow    = 0.60
)

// IntentMeta carries the fields common to every intent variant.
type IntentMeta struct {
	Confidence float64
	RawText    string
}

// Meta satisfies the Intent interface for every variant embedding IntentMeta.
func (m IntentMeta) Meta() IntentMeta { return m }

func (IntentMeta) intent() {}

// Intent is a closed sum type: exactly one variant is produced per input
// line, and consumers branch over the variants with a type switch. The
// unexported method keeps the set of variants closed to this package.
type Intent interface {
	Meta() IntentMeta
	intent()
}

// SearchScope narrows a search to podcasts, episodes, or both.
type SearchScope string

const (
	ScopePodcasts SearchScope = "podcasts"
	ScopeEpisodes SearchScope = "episodes"
	ScopeAll      SearchScope = "all"
)

// ChapterDirection is the relative chapter reference in JumpToChapter.
type ChapterDirection string

const (
	ChapterNext     ChapterDirection = "next"
	ChapterPrevious ChapterDirection = "previous"
)

// Playback.

type Play struct {
	IntentMeta
	Target PlayTarget
}

type Pause struct{ IntentMeta }

type Resume struct{ IntentMeta }

type Stop struct{ IntentMeta }

// Navigation.

type SkipForward struct {
	IntentMeta
	Seconds int // > 0
}

type SkipBackward struct {
	IntentMeta
	Seconds int // > 0
}

type SeekTo struct {
	IntentMeta
	Seconds int // >= 0, absolute position
}

type NextEpisode struct{ IntentMeta }

type PreviousEpisode struct{ IntentMeta }

// JumpToChapter targets a chapter either by number or by relative
// direction. Number is zero when Direction is set, and vice versa.
type JumpToChapter struct {
	IntentMeta
	Number    int // >= 1 when set
	Direction ChapterDirection
}

// Speed.

type SetSpeed struct {
	IntentMeta
	Value float64 // within [0.25, 4.0]
}

type SpeedUp struct{ IntentMeta }

type SlowDown struct{ IntentMeta }

type NormalSpeed struct{ IntentMeta }

// Search.

type SearchQuery struct {
	IntentMeta
	Query string
	Scope SearchScope
}

// Library.

type Subscribe struct {
	IntentMeta
	PodcastName string
}

type Unsubscribe struct {
	IntentMeta
	PodcastName string
}

// MarkPlayed applies to the currently playing episode.
type MarkPlayed struct{ IntentMeta }

// MarkUnplayed applies to the currently playing episode.
type MarkUnplayed struct{ IntentMeta }

type ListSubscriptions struct{ IntentMeta }

// Status.

type WhatsPlaying struct{ IntentMeta }

type PlaybackStatus struct{ IntentMeta }

type QueueStatus struct{ IntentMeta }

// Queue.

// AddToQueue queues the episode currently under discussion; the episode
// reference is resolved by the executor, never by the parser.
type AddToQueue struct{ IntentMeta }

type ClearQueue struct{ IntentMeta }

// Unrecognized is the terminal fallback: always valid, confidence zero,
// with a short human-readable reason for the caller to act on.
type Unrecognized struct {
	IntentMeta
	Reason string
}

// Kind names an intent variant for logging, metrics and wire encoding.
func Kind(i Intent) string {
	switch i.(type) {
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case Stop:
		return "stop"
	case SkipForward:
		return "skip_forward"
	case SkipBackward:
		return "skip_backward"
	case SeekTo:
		return "seek_to"
	case NextEpisode:
		return "next_episode"
	case PreviousEpisode:
		return "previous_episode"
	case JumpToChapter:
		return "jump_to_chapter"
	case SetSpeed:
		return "set_speed"
	case SpeedUp:
		return "speed_up"
	case SlowDown:
		return "slow_down"
	case NormalSpeed:
		return "normal_speed"
	case SearchQuery:
		return "search"
	case Subscribe:
		return "subscribe"
	case Unsubscribe:
		return "unsubscribe"
	case MarkPlayed:
		return "mark_played"
	case MarkUnplayed:
		return "mark_unplayed"
	case ListSubscriptions:
		return "list_subscriptions"
	case WhatsPlaying:
		return "whats_playing"
	case PlaybackStatus:
		return "playback_status"
	case QueueStatus:
		return "queue_status"
	case AddToQueue:
		return "add_to_queue"
	case ClearQueue:
		return "clear_queue"
	case Unrecognized:
		return "unrecognized"
	}
	return "unknown"
}
