package domain

// PlayTarget is the second closed union: what a Play intent should start.
// Free-text names inside a target are unresolved; the executor runs them
// through the fuzzy matcher against the real library.
type PlayTarget interface {
	target()
}

// ResumeLast continues whatever was playing most recently.
type ResumeLast struct{}

// LatestEpisode plays the newest episode, optionally of a named podcast.
// An empty PodcastName means "of whatever podcast is current".
type LatestEpisode struct {
	PodcastName string
}

// EpisodeByNumber plays episode Number (>= 1), optionally of a named podcast.
type EpisodeByNumber struct {
	Number      int
	PodcastName string
}

// EpisodeByName plays an episode matched by title.
type EpisodeByName struct {
	EpisodeName string
	PodcastName string
}

// PodcastByName plays a podcast matched by name (its latest or next
// unplayed episode, at the executor's discretion).
type PodcastByName struct {
	Name string
}

func (ResumeLast) target()      {}
func (LatestEpisode) target()   {}
func (EpisodeByNumber) target() {}
func (EpisodeByName) target()   {}
func (PodcastByName) target()   {}
