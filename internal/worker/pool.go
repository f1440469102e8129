// Package worker provides background processing for episode refreshes.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/castaway-labs/castaway/internal/core/ports"
)

// Job represents a background refresh task for one podcast.
type Job struct {
	PodcastID string
}

// Pool manages background workers for async refresh jobs.
type Pool struct {
	library   ports.LibraryRepository
	directory ports.DirectoryProvider
	log       zerolog.Logger
	jobs      chan Job
	wg        sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size.
func NewPool(library ports.LibraryRepository, directory ports.DirectoryProvider, queueSize int, log zerolog.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		library:   library,
		directory: directory,
		log:       log,
		jobs:      make(chan Job, queueSize),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Refresh implements the assistant's refresher hook.
func (p *Pool) Refresh(podcastID string) {
	p.Submit(Job{PodcastID: podcastID})
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		p.log.Warn().Str("podcast_id", job.PodcastID).Msg("refresh queue full, dropping job")
	}
}

// RunPeriodic re-submits every subscription at the given interval until
// ctx is canceled. Meant to run in its own goroutine.
func (p *Pool) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			subs, err := p.library.Subscriptions(ctx)
			if err != nil {
				p.log.Warn().Err(err).Msg("periodic refresh: list subscriptions")
				continue
			}
			for _, podcast := range subs {
				p.Submit(Job{PodcastID: podcast.ID})
			}
		}
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	episodes, err := p.directory.Episodes(ctx, job.PodcastID)
	if err != nil {
		p.log.Warn().Err(err).Str("podcast_id", job.PodcastID).Msg("refresh: fetch episodes")
		return
	}
	if len(episodes) == 0 {
		return
	}

	// Some feeds omit durations; probe the audio itself for those.
	for i, episode := range episodes {
		if episode.Duration > 0 || episode.AudioURL == "" {
			continue
		}
		duration, err := ProbeDurationFunc(episode.AudioURL)
		if err != nil {
			p.log.Debug().Err(err).Str("episode_id", episode.ID).Msg("refresh: duration probe failed")
			continue
		}
		episodes[i].Duration = duration
	}

	if err := p.library.SaveEpisodes(ctx, episodes); err != nil {
		p.log.Warn().Err(err).Str("podcast_id", job.PodcastID).Msg("refresh: save episodes")
		return
	}

	p.log.Info().Str("podcast_id", job.PodcastID).Int("episodes", len(episodes)).Msg("refreshed podcast")
}
