package directory

import (
	"fmt"
	"time"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// Wire shapes follow the Podcast Index response layout: a search returns
// "feeds", an episode listing returns "items", both with unix timestamps.

type searchResponse struct {
	Feeds []wireFeed `json:"feeds"`
}

type wireFeed struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

type episodesResponse struct {
	Items []wireItem `json:"items"`
}

type wireItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Episode       int    `json:"episode"`
	EnclosureURL  string `json:"enclosureUrl"`
	Duration      int    `json:"duration"`
	DatePublished int64  `json:"datePublished"`
}

func mapFeedToDomain(f wireFeed) domain.Podcast {
	return domain.Podcast{
		ID:      fmt.Sprintf("%d", f.ID),
		Title:   f.Title,
		Author:  f.Author,
		FeedURL: f.URL,
	}
}

func mapItemToDomain(podcastID string, item wireItem) domain.Episode {
	e := domain.Episode{
		ID:        fmt.Sprintf("%d", item.ID),
		PodcastID: podcastID,
		Title:     item.Title,
		Number:    item.Episode,
		AudioURL:  item.EnclosureURL,
		Duration:  time.Duration(item.Duration) * time.Second,
	}
	if item.DatePublished > 0 {
		e.PublishedAt = time.Unix(item.DatePublished, 0).UTC()
	}
	return e
}
