// Package sqlite provides a SQLite-backed implementation of the library
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// Adapter implements the library repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local use
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

const podcastColumns = "id, title, author, feed_url, subscribed, added_at"

func (a *Adapter) Podcasts(ctx context.Context) ([]domain.Podcast, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT "+podcastColumns+" FROM podcasts ORDER BY title COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("failed to load podcasts: %w", err)
	}
	defer rows.Close()
	return scanPodcasts(rows)
}

func (a *Adapter) Subscriptions(ctx context.Context) ([]domain.Podcast, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT "+podcastColumns+" FROM podcasts WHERE subscribed = 1 ORDER BY title COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	defer rows.Close()
	return scanPodcasts(rows)
}

func scanPodcasts(rows *sql.Rows) ([]domain.Podcast, error) {
	var podcasts []domain.Podcast
	for rows.Next() {
		var p domain.Podcast
		var author sql.NullString
		var addedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.Title, &author, &p.FeedURL, &p.Subscribed, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan podcast: %w", err)
		}
		if author.Valid {
			p.Author = author.String
		}
		if addedAt.Valid {
			p.AddedAt = addedAt.Time
		}
		podcasts = append(podcasts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate podcasts: %w", err)
	}
	return podcasts, nil
}

func (a *Adapter) SavePodcast(ctx context.Context, p domain.Podcast) error {
	addedAt := p.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO podcasts (id, title, author, feed_url, subscribed, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			author=excluded.author,
			feed_url=excluded.feed_url,
			subscribed=excluded.subscribed;
	`
	if _, err := a.db.ExecContext(ctx, query, p.ID, p.Title, p.Author, p.FeedURL, p.Subscribed, addedAt); err != nil {
		return fmt.Errorf("failed to save podcast %s: %w", p.ID, err)
	}
	return nil
}

func (a *Adapter) SetSubscribed(ctx context.Context, podcastID string, subscribed bool) error {
	result, err := a.db.ExecContext(ctx,
		"UPDATE podcasts SET subscribed = ? WHERE id = ?", subscribed, podcastID)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const episodeColumns = "id, podcast_id, title, number, audio_url, duration_ms, published_at, played, position_ms"

func (a *Adapter) Episodes(ctx context.Context, podcastID string) ([]domain.Episode, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT "+episodeColumns+" FROM episodes WHERE podcast_id = ? ORDER BY published_at ASC",
		podcastID)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes: %w", err)
	}
	defer rows.Close()
	return scanEpisodes(rows)
}

func (a *Adapter) LatestEpisode(ctx context.Context, podcastID string) (domain.Episode, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT "+episodeColumns+" FROM episodes WHERE podcast_id = ? ORDER BY published_at DESC LIMIT 1",
		podcastID)
	return scanEpisode(row)
}

func (a *Adapter) EpisodeByNumber(ctx context.Context, podcastID string, number int) (domain.Episode, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT "+episodeColumns+" FROM episodes WHERE podcast_id = ? AND number = ?",
		podcastID, number)
	return scanEpisode(row)
}

func scanEpisode(row *sql.Row) (domain.Episode, error) {
	var e domain.Episode
	var durationMs, positionMs int64
	var publishedAt sql.NullTime
	err := row.Scan(&e.ID, &e.PodcastID, &e.Title, &e.Number, &e.AudioURL,
		&durationMs, &publishedAt, &e.Played, &positionMs)
	if err == sql.ErrNoRows {
		return domain.Episode{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Episode{}, fmt.Errorf("failed to load episode: %w", err)
	}
	e.Duration = time.Duration(durationMs) * time.Millisecond
	e.Position = time.Duration(positionMs) * time.Millisecond
	if publishedAt.Valid {
		e.PublishedAt = publishedAt.Time
	}
	return e, nil
}

func scanEpisodes(rows *sql.Rows) ([]domain.Episode, error) {
	var episodes []domain.Episode
	for rows.Next() {
		var e domain.Episode
		var durationMs, positionMs int64
		var publishedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.PodcastID, &e.Title, &e.Number, &e.AudioURL,
			&durationMs, &publishedAt, &e.Played, &positionMs); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.Position = time.Duration(positionMs) * time.Millisecond
		if publishedAt.Valid {
			e.PublishedAt = publishedAt.Time
		}
		episodes = append(episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate episodes: %w", err)
	}
	return episodes, nil
}

func (a *Adapter) SaveEpisodes(ctx context.Context, episodes []domain.Episode) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Played and position are local state, never overwritten by a refresh.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episodes (id, podcast_id, title, number, audio_url, duration_ms, published_at, played, position_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			number=excluded.number,
			audio_url=excluded.audio_url,
			duration_ms=excluded.duration_ms,
			published_at=excluded.published_at;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range episodes {
		if _, err := stmt.ExecContext(ctx, e.ID, e.PodcastID, e.Title, e.Number, e.AudioURL,
			e.Duration.Milliseconds(), e.PublishedAt, e.Played, e.Position.Milliseconds()); err != nil {
			return fmt.Errorf("failed to save episode %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

func (a *Adapter) SetPlayed(ctx context.Context, episodeID string, played bool) error {
	result, err := a.db.ExecContext(ctx,
		"UPDATE episodes SET played = ? WHERE id = ?", played, episodeID)
	if err != nil {
		return fmt.Errorf("failed to update played flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update played flag: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *Adapter) QueueAdd(ctx context.Context, episodeID string) error {
	query := `
		INSERT INTO queue (episode_id, position)
		VALUES (?, COALESCE((SELECT MAX(position) FROM queue), 0) + 1)
		ON CONFLICT(episode_id) DO NOTHING
	`
	if _, err := a.db.ExecContext(ctx, query, episodeID); err != nil {
		return fmt.Errorf("failed to enqueue episode %s: %w", episodeID, err)
	}
	return nil
}

func (a *Adapter) QueueClear(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM queue"); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

func (a *Adapter) QueueList(ctx context.Context) ([]domain.Episode, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT e.id, e.podcast_id, e.title, e.number, e.audio_url, e.duration_ms, e.published_at, e.played, e.position_ms
		FROM episodes e
		JOIN queue q ON q.episode_id = e.id
		ORDER BY q.position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}
	defer rows.Close()
	return scanEpisodes(rows)
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS podcasts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT,
		feed_url TEXT NOT NULL,
		subscribed BOOLEAN NOT NULL DEFAULT 0,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS episodes (
		id TEXT PRIMARY KEY,
		podcast_id TEXT NOT NULL,
		title TEXT NOT NULL,
		number INTEGER NOT NULL DEFAULT 0,
		audio_url TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		published_at DATETIME,
		played BOOLEAN NOT NULL DEFAULT 0,
		position_ms INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(podcast_id) REFERENCES podcasts(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_episodes_podcast ON episodes(podcast_id, published_at);

	CREATE TABLE IF NOT EXISTS queue (
		episode_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(episode_id) REFERENCES episodes(id) ON DELETE CASCADE
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
