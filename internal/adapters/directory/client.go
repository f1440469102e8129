// Package directory provides an HTTP client for a remote podcast catalog.
// It backs subscribe commands whose target is not already in the local
// library, and the worker pool's episode refreshes.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/castaway-labs/castaway/internal/core/domain"
	"github.com/castaway-labs/castaway/internal/core/ports"
)

// Client is an HTTP client for the directory adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time interface assertion
var _ ports.DirectoryProvider = (*Client)(nil)

// Credentials configures the OAuth2 client-credentials flow most podcast
// directories require for their search APIs.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewClient constructs a directory client. With non-empty credentials the
// underlying transport fetches and refreshes bearer tokens transparently;
// otherwise requests go out unauthenticated.
func NewClient(baseURL string, creds Credentials) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	if creds.ClientID != "" {
		cfg := clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
		}
		httpClient = cfg.Client(context.Background())
		httpClient.Timeout = 15 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewClientWithHTTP constructs a client around an existing http.Client,
// used by tests to point at an httptest server.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Search queries the catalog and maps the results to domain podcasts.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Podcast, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("directory adapter: invalid search url: %w", err)
	}

	params := searchURL.Query()
	params.Set("q", query)
	params.Set("limit", "10")
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("directory adapter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory adapter: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("directory adapter: decode search response: %w", err)
	}

	podcasts := make([]domain.Podcast, 0, len(body.Feeds))
	for _, feed := range body.Feeds {
		podcasts = append(podcasts, mapFeedToDomain(feed))
	}
	return podcasts, nil
}

// Episodes fetches the episode list for a podcast.
func (c *Client) Episodes(ctx context.Context, podcastID string) ([]domain.Episode, error) {
	epURL := fmt.Sprintf("%s/podcasts/%s/episodes", c.baseURL, url.PathEscape(podcastID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, epURL, nil)
	if err != nil {
		return nil, fmt.Errorf("directory adapter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory adapter: episodes request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory adapter: episodes status %d", resp.StatusCode)
	}

	var body episodesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("directory adapter: decode episodes response: %w", err)
	}

	episodes := make([]domain.Episode, 0, len(body.Items))
	for _, item := range body.Items {
		episodes = append(episodes, mapItemToDomain(podcastID, item))
	}
	return episodes, nil
}
