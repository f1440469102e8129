// Package player implements the player port in memory. It models the
// state a real audio backend would expose so the assistant can be run
// and tested without one; an embedding application swaps in its own
// implementation of the port.
package player

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/castaway-labs/castaway/internal/core/domain"
	"github.com/castaway-labs/castaway/internal/core/ports"
)

// ErrNoChapters indicates the loaded episode carries no chapter marks.
var ErrNoChapters = errors.New("player: no chapter information")

// Player holds playback state behind a mutex. All methods are safe for
// concurrent use.
type Player struct {
	mu sync.Mutex

	episode  *domain.Episode
	podcast  domain.Podcast
	position time.Duration
	speed    float64
	paused   bool
	chapters []time.Duration
}

var _ ports.Player = (*Player)(nil)

func New() *Player {
	return &Player{speed: 1.0}
}

// Play loads an episode and starts from its saved resume point.
func (p *Player) Play(_ context.Context, episode domain.Episode, podcast domain.Podcast) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := episode
	p.episode = &e
	p.podcast = podcast
	p.position = episode.Position
	p.paused = false
	p.chapters = nil
	return nil
}

// SetChapters attaches chapter start marks to the loaded episode.
func (p *Player) SetChapters(marks []time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chapters = append([]time.Duration(nil), marks...)
	sort.Slice(p.chapters, func(i, j int) bool { return p.chapters[i] < p.chapters[j] })
}

func (p *Player) Resume(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return domain.ErrNothingPlaying
	}
	p.paused = false
	return nil
}

func (p *Player) Pause(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return domain.ErrNothingPlaying
	}
	p.paused = true
	return nil
}

func (p *Player) Stop(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.episode = nil
	p.podcast = domain.Podcast{}
	p.position = 0
	p.paused = false
	p.chapters = nil
	return nil
}

// SkipBy moves relative to the current position, clamped to the episode.
func (p *Player) SkipBy(_ context.Context, delta time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return domain.ErrNothingPlaying
	}
	p.position = clampPosition(p.position+delta, p.episode.Duration)
	return nil
}

func (p *Player) SeekTo(_ context.Context, position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return domain.ErrNothingPlaying
	}
	if position < 0 {
		return fmt.Errorf("player: negative position %v", position)
	}
	p.position = clampPosition(position, p.episode.Duration)
	return nil
}

func (p *Player) SetSpeed(_ context.Context, speed float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if speed < 0.25 || speed > 4.0 {
		return fmt.Errorf("player: speed %v out of range", speed)
	}
	p.speed = speed
	return nil
}

func (p *Player) Speed(context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed, nil
}

// JumpToChapter seeks to a chapter start, either by 1-based number or
// relative to the current position.
func (p *Player) JumpToChapter(_ context.Context, number int, direction domain.ChapterDirection) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return domain.ErrNothingPlaying
	}
	if len(p.chapters) == 0 {
		return ErrNoChapters
	}

	if number >= 1 {
		if number > len(p.chapters) {
			return fmt.Errorf("player: chapter %d of %d: %w", number, len(p.chapters), domain.ErrNotFound)
		}
		p.position = p.chapters[number-1]
		return nil
	}

	switch direction {
	case domain.ChapterNext:
		for _, mark := range p.chapters {
			if mark > p.position {
				p.position = mark
				return nil
			}
		}
		return fmt.Errorf("player: no next chapter: %w", domain.ErrNotFound)
	case domain.ChapterPrevious:
		// A small grace window so "previous chapter" right after a
		// boundary goes to the chapter before it, not its own start.
		threshold := p.position - 2*time.Second
		for i := len(p.chapters) - 1; i >= 0; i-- {
			if p.chapters[i] < threshold {
				p.position = p.chapters[i]
				return nil
			}
		}
		p.position = 0
		return nil
	}

	return fmt.Errorf("player: chapter reference missing")
}

func (p *Player) NowPlaying(context.Context) (domain.NowPlaying, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return domain.NowPlaying{}, domain.ErrNothingPlaying
	}
	return domain.NowPlaying{
		Episode:  *p.episode,
		Podcast:  p.podcast,
		Position: p.position,
		Speed:    p.speed,
		Paused:   p.paused,
	}, nil
}

func clampPosition(position, duration time.Duration) time.Duration {
	if position < 0 {
		return 0
	}
	if duration > 0 && position > duration {
		return duration
	}
	return position
}
