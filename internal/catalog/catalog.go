// Package catalog resolves synthesized queries to playable Spotify playlists.
//
// Resolution is best effort: search failures degrade toward the fallback
// query and finally to an empty result instead of surfacing transport errors
// to the caller. A nil playlist with a nil error means the catalog had
// nothing usable for this mood.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibescan/internal/synth"
	"golang.org/x/oauth2"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"
	searchLimit    = 10
)

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type owner struct {
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// Playlist is a search result the player can act on.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	URL         string `json:"url"`
	TrackCount  int    `json:"track_count"`
}

// searchItem mirrors the wire shape. Search pages routinely pad items with
// null entries, so everything funnels through a pointer before filtering.
type searchItem struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Owner        owner          `json:"owner"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Tracks       playlistTracks `json:"tracks"`
}

type searchResponse struct {
	Playlists struct {
		Items []*searchItem `json:"items"`
	} `json:"playlists"`
}

// Resolver searches the catalog with an application token.
type Resolver struct {
	source     oauth2.TokenSource
	httpClient *http.Client
	baseURL    string
	rng        *rand.Rand
	logger     *log.Logger
}

// NewResolver creates a Resolver. The token source must be self-refreshing;
// the resolver never handles credential lifecycles itself. A nil rng falls
// back to a time-seeded source.
func NewResolver(source oauth2.TokenSource, client *http.Client, rng *rand.Rand, logger *log.Logger) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Resolver{
		source:     source,
		httpClient: client,
		baseURL:    spotifyBaseURL,
		rng:        rng,
		logger:     logger,
	}
}

// Resolve finds a playlist for a synthesized query.
//
// The primary query is searched at the query's offset and a uniform random
// pick is taken from the usable results. When nothing usable comes back, a
// single fallback search runs without an offset and the first usable result
// wins. Both failing yields (nil, nil).
func (r *Resolver) Resolve(ctx context.Context, query synth.Query) (*Playlist, error) {
	usable, err := r.search(ctx, query.Primary, query.Offset)
	if err != nil {
		r.logger.Warn("primary search failed", "error", err)
	}

	if len(usable) > 0 {
		pick := usable[r.rng.Intn(len(usable))]
		r.logger.Debug("resolved from primary", "playlist", pick.Name, "candidates", len(usable))
		return &pick, nil
	}

	usable, err = r.search(ctx, query.Fallback, 0)
	if err != nil {
		r.logger.Warn("fallback search failed", "error", err)
	}

	if len(usable) > 0 {
		pick := usable[0]
		r.logger.Debug("resolved from fallback", "playlist", pick.Name)
		return &pick, nil
	}

	return nil, nil
}

// search runs one playlist search and filters the page down to usable items:
// entries that are present and carry an ID.
func (r *Resolver) search(ctx context.Context, query string, offset int) ([]Playlist, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get app token: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "playlist")
	params.Set("limit", strconv.Itoa(searchLimit))
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	endpoint := fmt.Sprintf("%s/search?%s", r.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	var usable []Playlist
	for _, item := range decoded.Playlists.Items {
		if item == nil || item.ID == "" {
			continue
		}
		usable = append(usable, Playlist{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Owner:       item.Owner.DisplayName,
			URL:         item.ExternalURLs.Spotify,
			TrackCount:  item.Tracks.Total,
		})
	}

	return usable, nil
}
