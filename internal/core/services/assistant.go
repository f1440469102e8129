// Package services contains the executor that turns parsed intents into
// player and library actions.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/castaway-labs/castaway/internal/core/domain"
	"github.com/castaway-labs/castaway/internal/core/ports"
	"github.com/castaway-labs/castaway/internal/fuzzy"
	"github.com/castaway-labs/castaway/internal/metrics"
)

// Refresher schedules a background episode refresh for a podcast.
// Implemented by the worker pool; nil disables refreshes.
type Refresher interface {
	Refresh(podcastID string)
}

// CommandResult is what the assistant reports back for one input line.
type CommandResult struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Confidence float64  `json:"confidence"`
	Message    string   `json:"message"`
	Escalated  bool     `json:"escalated,omitempty"`
	Matches    []string `json:"matches,omitempty"`
}

// Deps wires the assistant. Parser, Library and Player are required;
// Fallback, Directory and Refresh are optional.
type Deps struct {
	Parser    ports.IntentParser
	Fallback  ports.FallbackInterpreter
	Library   ports.LibraryRepository
	Player    ports.Player
	Directory ports.DirectoryProvider
	Refresh   Refresher
	Metrics   *metrics.Metrics
	Log       zerolog.Logger
}

// Assistant coordinates the tiered interpretation pipeline: rule parser
// first, optional LLM fallback second, then fuzzy resolution of any
// free-text names against the library before acting.
type Assistant struct {
	deps Deps
}

// NewAssistant constructs an Assistant.
func NewAssistant(deps Deps) *Assistant {
	return &Assistant{deps: deps}
}

// HandleCommand runs one line of text through the full pipeline.
func (a *Assistant) HandleCommand(ctx context.Context, text string) (CommandResult, error) {
	intent := a.deps.Parser.Parse(text)
	escalated := false

	if _, unknown := intent.(domain.Unrecognized); unknown {
		a.deps.Metrics.UnrecognizedTotal.Inc()
		if a.deps.Fallback != nil {
			a.deps.Metrics.FallbackTotal.Inc()
			fallbackIntent, err := a.deps.Fallback.Interpret(ctx, text)
			if err != nil {
				a.deps.Metrics.FallbackErrors.Inc()
				a.deps.Log.Warn().Err(err).Str("text", text).Msg("fallback interpreter failed")
			} else {
				intent = fallbackIntent
				escalated = true
			}
		}
	}

	a.deps.Metrics.CommandsTotal.WithLabelValues(domain.Kind(intent)).Inc()

	result, err := a.execute(ctx, intent)
	if err != nil {
		return CommandResult{}, err
	}

	result.ID = uuid.NewString()
	result.Kind = domain.Kind(intent)
	result.Confidence = intent.Meta().Confidence
	result.Escalated = escalated

	a.deps.Log.Info().
		Str("command_id", result.ID).
		Str("kind", result.Kind).
		Float64("confidence", result.Confidence).
		Bool("escalated", result.Escalated).
		Msg("command handled")

	return result, nil
}

// Parse exposes tier-1 parsing without execution, for dry-run endpoints.
func (a *Assistant) Parse(text string) domain.Intent {
	return a.deps.Parser.Parse(text)
}

func (a *Assistant) execute(ctx context.Context, intent domain.Intent) (CommandResult, error) {
	switch v := intent.(type) {
	case domain.Play:
		return a.executePlay(ctx, v)
	case domain.Pause:
		if err := a.deps.Player.Pause(ctx); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: pause: %w", err)
		}
		return CommandResult{Message: "Paused."}, nil
	case domain.Resume:
		if err := a.deps.Player.Resume(ctx); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: resume: %w", err)
		}
		return CommandResult{Message: "Resuming."}, nil
	case domain.Stop:
		if err := a.deps.Player.Stop(ctx); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: stop: %w", err)
		}
		return CommandResult{Message: "Stopped."}, nil

	case domain.SkipForward:
		return a.skipBy(ctx, time.Duration(v.Seconds)*time.Second)
	case domain.SkipBackward:
		return a.skipBy(ctx, -time.Duration(v.Seconds)*time.Second)
	case domain.SeekTo:
		if err := a.deps.Player.SeekTo(ctx, time.Duration(v.Seconds)*time.Second); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: seek: %w", err)
		}
		return CommandResult{Message: fmt.Sprintf("Jumped to %s.", formatPosition(v.Seconds))}, nil
	case domain.NextEpisode:
		return a.playAdjacent(ctx, 1)
	case domain.PreviousEpisode:
		return a.playAdjacent(ctx, -1)
	case domain.JumpToChapter:
		if err := a.deps.Player.JumpToChapter(ctx, v.Number, v.Direction); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: chapter jump: %w", err)
		}
		return CommandResult{Message: "Jumped to chapter."}, nil

	case domain.SetSpeed:
		if err := a.deps.Player.SetSpeed(ctx, v.Value); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: set speed: %w", err)
		}
		return CommandResult{Message: fmt.Sprintf("Playback speed set to %gx.", v.Value)}, nil
	case domain.SpeedUp:
		return a.nudgeSpeed(ctx, 0.25)
	case domain.SlowDown:
		return a.nudgeSpeed(ctx, -0.25)
	case domain.NormalSpeed:
		if err := a.deps.Player.SetSpeed(ctx, 1.0); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: set speed: %w", err)
		}
		return CommandResult{Message: "Back to normal speed."}, nil

	case domain.SearchQuery:
		return a.executeSearch(ctx, v)

	case domain.Subscribe:
		return a.executeSubscribe(ctx, v)
	case domain.Unsubscribe:
		return a.executeUnsubscribe(ctx, v)
	case domain.MarkPlayed:
		return a.markCurrent(ctx, true)
	case domain.MarkUnplayed:
		return a.markCurrent(ctx, false)
	case domain.ListSubscriptions:
		return a.executeListSubscriptions(ctx)

	case domain.WhatsPlaying:
		now, err := a.deps.Player.NowPlaying(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: now playing: %w", err)
		}
		return CommandResult{
			Message: fmt.Sprintf("Playing %q from %s.", now.Episode.Title, now.Podcast.Title),
		}, nil
	case domain.PlaybackStatus:
		now, err := a.deps.Player.NowPlaying(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: playback status: %w", err)
		}
		remaining := now.Episode.Duration - now.Position
		if remaining < 0 {
			remaining = 0
		}
		return CommandResult{
			Message: fmt.Sprintf("%s into %q, %s left, speed %gx.",
				formatDuration(now.Position), now.Episode.Title, formatDuration(remaining), now.Speed),
		}, nil
	case domain.QueueStatus:
		episodes, err := a.deps.Library.QueueList(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: queue status: %w", err)
		}
		if len(episodes) == 0 {
			return CommandResult{Message: "The queue is empty."}, nil
		}
		titles := episodeTitles(episodes)
		return CommandResult{
			Message: fmt.Sprintf("%d in the queue. Up next: %s.", len(episodes), titles[0]),
			Matches: titles,
		}, nil

	case domain.AddToQueue:
		now, err := a.deps.Player.NowPlaying(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: add to queue: %w", err)
		}
		if err := a.deps.Library.QueueAdd(ctx, now.Episode.ID); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: add to queue: %w", err)
		}
		return CommandResult{Message: fmt.Sprintf("Added %q to the queue.", now.Episode.Title)}, nil
	case domain.ClearQueue:
		if err := a.deps.Library.QueueClear(ctx); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: clear queue: %w", err)
		}
		return CommandResult{Message: "Queue cleared."}, nil

	case domain.Unrecognized:
		return CommandResult{
			Message: fmt.Sprintf("Sorry, I didn't understand that (%s).", v.Reason),
		}, nil
	}

	return CommandResult{}, fmt.Errorf("assistant: unhandled intent %s", domain.Kind(intent))
}

func (a *Assistant) executePlay(ctx context.Context, play domain.Play) (CommandResult, error) {
	switch target := play.Target.(type) {
	case domain.ResumeLast:
		if err := a.deps.Player.Resume(ctx); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: resume last: %w", err)
		}
		return CommandResult{Message: "Resuming where you left off."}, nil

	case domain.LatestEpisode:
		podcast, err := a.resolvePodcast(ctx, target.PodcastName)
		if err != nil {
			return CommandResult{}, err
		}
		episode, err := a.deps.Library.LatestEpisode(ctx, podcast.ID)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: latest episode of %q: %w", podcast.Title, err)
		}
		return a.startEpisode(ctx, episode, podcast)

	case domain.EpisodeByNumber:
		podcast, err := a.resolvePodcast(ctx, target.PodcastName)
		if err != nil {
			return CommandResult{}, err
		}
		episode, err := a.deps.Library.EpisodeByNumber(ctx, podcast.ID, target.Number)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: episode %d of %q: %w", target.Number, podcast.Title, err)
		}
		return a.startEpisode(ctx, episode, podcast)

	case domain.EpisodeByName:
		return a.playEpisodeByName(ctx, target)

	case domain.PodcastByName:
		podcast, err := a.resolvePodcast(ctx, target.Name)
		if err != nil {
			return CommandResult{}, err
		}
		episode, err := a.deps.Library.LatestEpisode(ctx, podcast.ID)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: latest episode of %q: %w", podcast.Title, err)
		}
		return a.startEpisode(ctx, episode, podcast)
	}

	return CommandResult{}, fmt.Errorf("assistant: unhandled play target %T", play.Target)
}

// resolvePodcast maps a free-text name onto a library podcast with the
// fuzzy matcher. An empty name means the currently playing podcast.
func (a *Assistant) resolvePodcast(ctx context.Context, name string) (domain.Podcast, error) {
	if strings.TrimSpace(name) == "" {
		now, err := a.deps.Player.NowPlaying(ctx)
		if err != nil {
			return domain.Podcast{}, fmt.Errorf("assistant: no podcast named and %w", err)
		}
		return now.Podcast, nil
	}

	podcasts, err := a.deps.Library.Podcasts(ctx)
	if err != nil {
		return domain.Podcast{}, fmt.Errorf("assistant: list podcasts: %w", err)
	}

	match, ok := fuzzy.BestMatch(name, podcasts, func(p domain.Podcast) string { return p.Title })
	if !ok {
		a.deps.Metrics.UnresolvedTargets.Inc()
		return domain.Podcast{}, domain.NoConfidentMatchError{Query: name}
	}
	a.deps.Metrics.MatchScore.Observe(match.Score)

	a.deps.Log.Debug().
		Str("query", name).
		Str("resolved", match.Item.Title).
		Float64("score", match.Score).
		Str("match_type", string(match.Type)).
		Msg("podcast resolved")

	return match.Item, nil
}

func (a *Assistant) playEpisodeByName(ctx context.Context, target domain.EpisodeByName) (CommandResult, error) {
	var candidates []domain.Episode
	var podcastByID map[string]domain.Podcast

	if strings.TrimSpace(target.PodcastName) != "" {
		podcast, err := a.resolvePodcast(ctx, target.PodcastName)
		if err != nil {
			return CommandResult{}, err
		}
		episodes, err := a.deps.Library.Episodes(ctx, podcast.ID)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: episodes of %q: %w", podcast.Title, err)
		}
		candidates = episodes
		podcastByID = map[string]domain.Podcast{podcast.ID: podcast}
	} else {
		subs, err := a.deps.Library.Subscriptions(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: list subscriptions: %w", err)
		}
		podcastByID = make(map[string]domain.Podcast, len(subs))
		for _, p := range subs {
			podcastByID[p.ID] = p
			episodes, err := a.deps.Library.Episodes(ctx, p.ID)
			if err != nil {
				return CommandResult{}, fmt.Errorf("assistant: episodes of %q: %w", p.Title, err)
			}
			candidates = append(candidates, episodes...)
		}
	}

	match, ok := fuzzy.BestMatch(target.EpisodeName, candidates, func(e domain.Episode) string { return e.Title })
	if !ok {
		a.deps.Metrics.UnresolvedTargets.Inc()
		return CommandResult{}, domain.NoConfidentMatchError{Query: target.EpisodeName}
	}
	a.deps.Metrics.MatchScore.Observe(match.Score)

	return a.startEpisode(ctx, match.Item, podcastByID[match.Item.PodcastID])
}

func (a *Assistant) startEpisode(ctx context.Context, episode domain.Episode, podcast domain.Podcast) (CommandResult, error) {
	if err := a.deps.Player.Play(ctx, episode, podcast); err != nil {
		return CommandResult{}, fmt.Errorf("assistant: play %q: %w", episode.Title, err)
	}
	title := podcast.Title
	if title == "" {
		title = "your library"
	}
	return CommandResult{
		Message: fmt.Sprintf("Playing %q from %s.", episode.Title, title),
	}, nil
}

func (a *Assistant) skipBy(ctx context.Context, delta time.Duration) (CommandResult, error) {
	if err := a.deps.Player.SkipBy(ctx, delta); err != nil {
		return CommandResult{}, fmt.Errorf("assistant: skip: %w", err)
	}
	if delta >= 0 {
		return CommandResult{Message: fmt.Sprintf("Skipped forward %s.", formatDuration(delta))}, nil
	}
	return CommandResult{Message: fmt.Sprintf("Skipped back %s.", formatDuration(-delta))}, nil
}

func (a *Assistant) nudgeSpeed(ctx context.Context, delta float64) (CommandResult, error) {
	current, err := a.deps.Player.Speed(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: read speed: %w", err)
	}
	next := current + delta
	if next < 0.25 {
		next = 0.25
	}
	if next > 4.0 {
		next = 4.0
	}
	if err := a.deps.Player.SetSpeed(ctx, next); err != nil {
		return CommandResult{}, fmt.Errorf("assistant: set speed: %w", err)
	}
	return CommandResult{Message: fmt.Sprintf("Playback speed set to %gx.", next)}, nil
}

// playAdjacent moves one episode forward or back within the current
// podcast, ordered by publish date.
func (a *Assistant) playAdjacent(ctx context.Context, direction int) (CommandResult, error) {
	now, err := a.deps.Player.NowPlaying(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: adjacent episode: %w", err)
	}

	episodes, err := a.deps.Library.Episodes(ctx, now.Podcast.ID)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: episodes of %q: %w", now.Podcast.Title, err)
	}

	idx := -1
	for i, e := range episodes {
		if e.ID == now.Episode.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CommandResult{}, domain.ErrNotFound
	}

	next := idx + direction
	if next < 0 || next >= len(episodes) {
		if direction > 0 {
			return CommandResult{Message: "That was the newest episode."}, nil
		}
		return CommandResult{Message: "Already at the oldest episode."}, nil
	}

	return a.startEpisode(ctx, episodes[next], now.Podcast)
}

func (a *Assistant) executeSearch(ctx context.Context, search domain.SearchQuery) (CommandResult, error) {
	var titles []string

	if search.Scope == domain.ScopePodcasts || search.Scope == domain.ScopeAll {
		podcasts, err := a.deps.Library.Podcasts(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: search podcasts: %w", err)
		}
		for _, m := range fuzzy.Matches(search.Query, podcasts, func(p domain.Podcast) string { return p.Title }, 0, 0) {
			titles = append(titles, m.Item.Title)
		}
	}

	if search.Scope == domain.ScopeEpisodes || search.Scope == domain.ScopeAll {
		subs, err := a.deps.Library.Subscriptions(ctx)
		if err != nil {
			return CommandResult{}, fmt.Errorf("assistant: search episodes: %w", err)
		}
		var episodes []domain.Episode
		for _, p := range subs {
			eps, err := a.deps.Library.Episodes(ctx, p.ID)
			if err != nil {
				return CommandResult{}, fmt.Errorf("assistant: episodes of %q: %w", p.Title, err)
			}
			episodes = append(episodes, eps...)
		}
		for _, m := range fuzzy.Matches(search.Query, episodes, func(e domain.Episode) string { return e.Title }, 0, 0) {
			titles = append(titles, m.Item.Title)
		}
	}

	if len(titles) == 0 {
		return CommandResult{Message: fmt.Sprintf("Nothing in your library matches %q.", search.Query)}, nil
	}
	return CommandResult{
		Message: fmt.Sprintf("Found %d matches for %q.", len(titles), search.Query),
		Matches: titles,
	}, nil
}

func (a *Assistant) executeSubscribe(ctx context.Context, sub domain.Subscribe) (CommandResult, error) {
	podcasts, err := a.deps.Library.Podcasts(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: list podcasts: %w", err)
	}

	if match, ok := fuzzy.BestMatch(sub.PodcastName, podcasts, func(p domain.Podcast) string { return p.Title }); ok {
		a.deps.Metrics.MatchScore.Observe(match.Score)
		if err := a.deps.Library.SetSubscribed(ctx, match.Item.ID, true); err != nil {
			return CommandResult{}, fmt.Errorf("assistant: subscribe: %w", err)
		}
		if a.deps.Refresh != nil {
			a.deps.Refresh.Refresh(match.Item.ID)
		}
		return CommandResult{Message: fmt.Sprintf("Subscribed to %s.", match.Item.Title)}, nil
	}

	if a.deps.Directory == nil {
		a.deps.Metrics.UnresolvedTargets.Inc()
		return CommandResult{}, domain.NoConfidentMatchError{Query: sub.PodcastName}
	}

	found, err := a.deps.Directory.Search(ctx, sub.PodcastName)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: directory search: %w", err)
	}
	match, ok := fuzzy.BestMatch(sub.PodcastName, found, func(p domain.Podcast) string { return p.Title })
	if !ok {
		a.deps.Metrics.UnresolvedTargets.Inc()
		return CommandResult{}, domain.NoConfidentMatchError{Query: sub.PodcastName}
	}
	a.deps.Metrics.MatchScore.Observe(match.Score)

	podcast := match.Item
	podcast.Subscribed = true
	if err := a.deps.Library.SavePodcast(ctx, podcast); err != nil {
		return CommandResult{}, fmt.Errorf("assistant: save podcast: %w", err)
	}
	if a.deps.Refresh != nil {
		a.deps.Refresh.Refresh(podcast.ID)
	}
	return CommandResult{Message: fmt.Sprintf("Subscribed to %s.", podcast.Title)}, nil
}

func (a *Assistant) executeUnsubscribe(ctx context.Context, unsub domain.Unsubscribe) (CommandResult, error) {
	subs, err := a.deps.Library.Subscriptions(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: list subscriptions: %w", err)
	}

	match, ok := fuzzy.BestMatch(unsub.PodcastName, subs, func(p domain.Podcast) string { return p.Title })
	if !ok {
		a.deps.Metrics.UnresolvedTargets.Inc()
		return CommandResult{}, domain.NoConfidentMatchError{Query: unsub.PodcastName}
	}
	a.deps.Metrics.MatchScore.Observe(match.Score)

	if err := a.deps.Library.SetSubscribed(ctx, match.Item.ID, false); err != nil {
		return CommandResult{}, fmt.Errorf("assistant: unsubscribe: %w", err)
	}
	return CommandResult{Message: fmt.Sprintf("Unsubscribed from %s.", match.Item.Title)}, nil
}

func (a *Assistant) markCurrent(ctx context.Context, played bool) (CommandResult, error) {
	now, err := a.deps.Player.NowPlaying(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: mark episode: %w", err)
	}
	if err := a.deps.Library.SetPlayed(ctx, now.Episode.ID, played); err != nil {
		return CommandResult{}, fmt.Errorf("assistant: mark episode: %w", err)
	}
	if played {
		return CommandResult{Message: fmt.Sprintf("Marked %q as played.", now.Episode.Title)}, nil
	}
	return CommandResult{Message: fmt.Sprintf("Marked %q as unplayed.", now.Episode.Title)}, nil
}

func (a *Assistant) executeListSubscriptions(ctx context.Context) (CommandResult, error) {
	subs, err := a.deps.Library.Subscriptions(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("assistant: list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return CommandResult{Message: "You have no subscriptions yet."}, nil
	}
	titles := make([]string, 0, len(subs))
	for _, p := range subs {
		titles = append(titles, p.Title)
	}
	return CommandResult{
		Message: fmt.Sprintf("You follow %d shows.", len(subs)),
		Matches: titles,
	}, nil
}

func episodeTitles(episodes []domain.Episode) []string {
	titles := make([]string, 0, len(episodes))
	for _, e := range episodes {
		titles = append(titles, e.Title)
	}
	return titles
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatPosition(seconds int) string {
	return formatDuration(time.Duration(seconds) * time.Second)
}
