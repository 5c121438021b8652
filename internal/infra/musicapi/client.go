// Package musicapi provides a client for the music server's REST API.
package musicapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/solfeggio/quaver/internal/domain/grid"
	"github.com/solfeggio/quaver/internal/domain/playlist"
	"github.com/solfeggio/quaver/internal/domain/track"
)

// Config represents music API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// dashCall is a single dashboard fetch shared between callers. The
// dashboard endpoint is the only one whose requests are deduplicated:
// concurrent and repeated calls reuse one result.
type dashCall struct {
	done  chan struct{}
	items []grid.Item
	err   error
}

// Client is a music API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	dashMu sync.Mutex
	dash   *dashCall
}

// New creates a new music API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("music api base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// EscapeKey substitutes any literal "/" in a genre key with "*", the
// server's path-segment escaping convention. Already percent-escaped
// sequences are left alone.
func EscapeKey(key string) string {
	return strings.ReplaceAll(key, "/", "*")
}

// StreamURL returns the audio stream URL for a file key.
func (c *Client) StreamURL(fileKey string) string {
	return c.baseURL + "/api/stream/" + url.PathEscape(fileKey)
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request failed: %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Newf("unexpected status %d from %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response: %s", path)
	}
	return nil
}

// TrackPage is a paginated track listing.
type TrackPage struct {
	Count   int           `json:"count"`
	Records []track.Track `json:"records"`
}

// GridPage is a paginated grid listing.
type GridPage struct {
	Count   int         `json:"count"`
	Records []grid.Item `json:"records"`
}

// Artist is the artist row returned by detail endpoints.
type Artist struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Artwork    string `json:"artwork"`
	TrackCount int    `json:"trackCount"`
}

// Album is the album row returned by detail endpoints.
type Album struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	ArtistID int    `json:"artistId"`
	Artwork  string `json:"artwork"`
}

// Genre is the genre row returned by detail endpoints.
type Genre struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ArtistDetail is the artist detail response.
type ArtistDetail struct {
	Row     []Artist  `json:"row"`
	Related TrackPage `json:"related"`
}

// AlbumDetail is the album detail response.
type AlbumDetail struct {
	Row     []Album   `json:"row"`
	Related TrackPage `json:"related"`
}

// GenreDetail is the genre detail response.
type GenreDetail struct {
	Row     []Genre   `json:"row"`
	Related TrackPage `json:"related"`
}

// PlaylistPage is the playlist library listing.
type PlaylistPage struct {
	Count   int                 `json:"count"`
	Records []playlist.Playlist `json:"records"`
}

// PlaylistDetail is the playlist detail response.
type PlaylistDetail struct {
	Row     []playlist.Playlist `json:"row"`
	Related TrackPage           `json:"related"`
}

// GetDashboard retrieves the dashboard grid. In-flight and completed
// requests share a single fetch; a failed fetch is forgotten so the
// next call retries.
func (c *Client) GetDashboard(ctx context.Context) ([]grid.Item, error) {
	c.dashMu.Lock()
	call := c.dash
	if call == nil {
		call = &dashCall{done: make(chan struct{})}
		c.dash = call
		c.dashMu.Unlock()

		call.items, call.err = c.fetchDashboard(ctx)
		if call.err != nil {
			c.dashMu.Lock()
			c.dash = nil
			c.dashMu.Unlock()
		}
		close(call.done)
		return call.items, call.err
	}
	c.dashMu.Unlock()

	select {
	case <-call.done:
		return call.items, call.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "dashboard request cancelled")
	}
}

func (c *Client) fetchDashboard(ctx context.Context) ([]grid.Item, error) {
	var items []grid.Item
	if err := c.get(ctx, "/api/dashboard", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetLibrary retrieves one page of the full track library.
func (c *Client) GetLibrary(ctx context.Context, page int) (*TrackPage, error) {
	var out TrackPage
	if err := c.get(ctx, "/api/library", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArtistGrid retrieves one page of the artist grid.
func (c *Client) GetArtistGrid(ctx context.Context, page int) (*GridPage, error) {
	var out GridPage
	if err := c.get(ctx, "/api/artists", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAlbumGrid retrieves one page of the album grid.
func (c *Client) GetAlbumGrid(ctx context.Context, page int) (*GridPage, error) {
	var out GridPage
	if err := c.get(ctx, "/api/albums", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGenreGrid retrieves one page of the genre grid.
func (c *Client) GetGenreGrid(ctx context.Context, page int) (*GridPage, error) {
	var out GridPage
	if err := c.get(ctx, "/api/genres", pageQuery(page), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArtistDetail retrieves one artist and their tracks.
func (c *Client) GetArtistDetail(ctx context.Context, id int) (*ArtistDetail, error) {
	var out ArtistDetail
	if err := c.get(ctx, "/api/artist/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Row) == 0 {
		return nil, errors.Newf("artist %d: empty row in response", id)
	}
	return &out, nil
}

// GetAlbumDetail retrieves one album and its tracks.
func (c *Client) GetAlbumDetail(ctx context.Context, id int) (*AlbumDetail, error) {
	var out AlbumDetail
	if err := c.get(ctx, "/api/album/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Row) == 0 {
		return nil, errors.Newf("album %d: empty row in response", id)
	}
	return &out, nil
}

// GetGenreDetail retrieves one genre and a page of its tracks. The key
// must already be escaped with EscapeKey.
func (c *Client) GetGenreDetail(ctx context.Context, key string, page int) (*GenreDetail, error) {
	var out GenreDetail
	if err := c.get(ctx, "/api/genre/"+url.PathEscape(key), pageQuery(page), &out); err != nil {
		return nil, err
	}
	if len(out.Row) == 0 {
		return nil, errors.Newf("genre %q: empty row in response", key)
	}
	return &out, nil
}

// GetPlaylistGrid retrieves the full playlist library.
func (c *Client) GetPlaylistGrid(ctx context.Context) (*PlaylistPage, error) {
	var out PlaylistPage
	if err := c.get(ctx, "/api/playlists", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPlaylistDetail retrieves one playlist and its tracks.
func (c *Client) GetPlaylistDetail(ctx context.Context, key string) (*PlaylistDetail, error) {
	var out PlaylistDetail
	if err := c.get(ctx, "/api/playlist/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Row) == 0 {
		return nil, errors.Newf("playlist %q: empty row in response", key)
	}
	return &out, nil
}

// SearchTracks searches the catalog for tracks matching term.
func (c *Client) SearchTracks(ctx context.Context, term string) (*TrackPage, error) {
	var out TrackPage
	if err := c.get(ctx, "/api/search/music", termQuery(term), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchArtists searches the catalog for artists matching term.
func (c *Client) SearchArtists(ctx context.Context, term string) (*GridPage, error) {
	var out GridPage
	if err := c.get(ctx, "/api/search/artist", termQuery(term), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchAlbums searches the catalog for albums matching term.
func (c *Client) SearchAlbums(ctx context.Context, term string) (*GridPage, error) {
	var out GridPage
	if err := c.get(ctx, "/api/search/album", termQuery(term), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePlaylist upserts a playlist by key.
func (c *Client) SavePlaylist(ctx context.Context, p playlist.Playlist) error {
	if p.Key == "" {
		return errors.New("playlist key is required")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode playlist")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/playlist", strings.NewReader(string(body)))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to save playlist %q", p.Key)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf("unexpected status %d saving playlist %q", resp.StatusCode, p.Key)
	}
	return nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

func termQuery(term string) url.Values {
	return url.Values{"term": []string{term}}
}
