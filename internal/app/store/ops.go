package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/solfeggio/quaver/internal/domain/grid"
	"github.com/solfeggio/quaver/internal/domain/playlist"
	"github.com/solfeggio/quaver/internal/domain/track"
	"github.com/solfeggio/quaver/internal/infra/musicapi"
)

// ErrNoMenuTrack is returned by UpdateList when no track is selected
// in the playlist picker.
var ErrNoMenuTrack = errors.New("no track selected")

// DataSource is the data-access API the store calls. Implemented by
// musicapi.Client; tests substitute a stub. Failures are surfaced to
// the caller unwrapped: the store adds no retry or conversion.
type DataSource interface {
	GetDashboard(ctx context.Context) ([]grid.Item, error)
	GetLibrary(ctx context.Context, page int) (*musicapi.TrackPage, error)
	GetArtistGrid(ctx context.Context, page int) (*musicapi.GridPage, error)
	GetAlbumGrid(ctx context.Context, page int) (*musicapi.GridPage, error)
	GetGenreGrid(ctx context.Context, page int) (*musicapi.GridPage, error)
	GetArtistDetail(ctx context.Context, id int) (*musicapi.ArtistDetail, error)
	GetAlbumDetail(ctx context.Context, id int) (*musicapi.AlbumDetail, error)
	GetGenreDetail(ctx context.Context, key string, page int) (*musicapi.GenreDetail, error)
	GetPlaylistGrid(ctx context.Context) (*musicapi.PlaylistPage, error)
	GetPlaylistDetail(ctx context.Context, key string) (*musicapi.PlaylistDetail, error)
	SearchTracks(ctx context.Context, term string) (*musicapi.TrackPage, error)
	SearchArtists(ctx context.Context, term string) (*musicapi.GridPage, error)
	SearchAlbums(ctx context.Context, term string) (*musicapi.GridPage, error)
	SavePlaylist(ctx context.Context, p playlist.Playlist) error
}

// LoadDash loads the dashboard grid.
func (s *Store) LoadDash(ctx context.Context) error {
	gen := s.beginNav()
	items, err := s.api.GetDashboard(ctx)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	s.SetState(Patch{
		View:          Set(ViewDashboard),
		DetailID:      Set(""),
		DisplayedGrid: Set(items),
		Page:          Set(0),
		Count:         Set(0),
	})
	return nil
}

// LoadLibrary loads one page of the full track library.
func (s *Store) LoadLibrary(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	gen := s.beginNav()
	res, err := s.api.GetLibrary(ctx, page)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	s.SetState(Patch{
		View:            Set(ViewLibrary),
		DetailID:        Set(""),
		DisplayedTracks: Set(s.matchAll(res.Records)),
		Page:            Set(page),
		Count:           Set(res.Count),
	})
	return nil
}

// LoadArtists loads one page of the artist grid.
func (s *Store) LoadArtists(ctx context.Context, page int) error {
	return s.loadGrid(ctx, ViewArtists, page, s.api.GetArtistGrid)
}

// LoadAlbums loads one page of the album grid.
func (s *Store) LoadAlbums(ctx context.Context, page int) error {
	return s.loadGrid(ctx, ViewAlbums, page, s.api.GetAlbumGrid)
}

// LoadGenres loads one page of the genre grid.
func (s *Store) LoadGenres(ctx context.Context, page int) error {
	return s.loadGrid(ctx, ViewGenres, page, s.api.GetGenreGrid)
}

func (s *Store) loadGrid(ctx context.Context, view View, page int, fetch func(context.Context, int) (*musicapi.GridPage, error)) error {
	if page < 1 {
		page = 1
	}
	gen := s.beginNav()
	res, err := fetch(ctx, page)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	s.SetState(Patch{
		View:          Set(view),
		DetailID:      Set(""),
		DisplayedGrid: Set(res.Records),
		Page:          Set(page),
		Count:         Set(res.Count),
	})
	return nil
}

// LoadPlaylists loads the playlist library grid and refreshes the
// membership set that favorite flags derive from.
func (s *Store) LoadPlaylists(ctx context.Context) error {
	gen := s.beginNav()
	res, err := s.api.GetPlaylistGrid(ctx)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	s.SetState(Patch{
		View:             Set(ViewPlaylists),
		DetailID:         Set(""),
		DisplayedGrid:    Set(playlistGridItems(res.Records)),
		PlaylistLib:      Set(res.Records),
		RelatedPlaylists: Set(ExtractRelated(res.Records)),
		Page:             Set(0),
		Count:            Set(res.Count),
	})
	return nil
}

// LoadAlbum loads the album detail view. The id is the numeric album
// id carried in the URL. Album detail does not use standard
// pagination, so page and count are zeroed.
func (s *Store) LoadAlbum(ctx context.Context, id string) error {
	albumID, err := strconv.Atoi(id)
	if err != nil {
		return errors.Wrapf(err, "invalid album id %q", id)
	}
	gen := s.beginNav()
	res, err := s.api.GetAlbumDetail(ctx, albumID)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	tracks := s.matchAll(res.Related.Records)
	s.SetState(Patch{
		View:            Set(ViewAlbum),
		DetailID:        Set(id),
		DisplayedTracks: Set(tracks),
		Page:            Set(0),
		Count:           Set(0),
	})
	return s.loadBanner(ctx, gen, tracks)
}

// LoadArtist loads the artist detail view.
func (s *Store) LoadArtist(ctx context.Context, id string) error {
	artistID, err := strconv.Atoi(id)
	if err != nil {
		return errors.Wrapf(err, "invalid artist id %q", id)
	}
	gen := s.beginNav()
	res, err := s.api.GetArtistDetail(ctx, artistID)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	tracks := s.matchAll(res.Related.Records)
	s.SetState(Patch{
		View:            Set(ViewArtist),
		DetailID:        Set(id),
		DisplayedTracks: Set(tracks),
		Page:            Set(0),
		Count:           Set(0),
	})
	return s.loadBanner(ctx, gen, tracks)
}

// LoadGenre loads one page of the genre detail view. Genre keys may
// contain literal slashes; those are substituted per the server's
// escaping convention before the fetch, while the state keeps the
// original key.
func (s *Store) LoadGenre(ctx context.Context, key string, page int) error {
	if page < 1 {
		page = 1
	}
	gen := s.beginNav()
	res, err := s.api.GetGenreDetail(ctx, musicapi.EscapeKey(key), page)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	tracks := s.matchAll(res.Related.Records)
	s.SetState(Patch{
		View:            Set(ViewGenre),
		DetailID:        Set(key),
		DisplayedTracks: Set(tracks),
		Page:            Set(page),
		Count:           Set(res.Related.Count),
	})
	return s.loadBanner(ctx, gen, tracks)
}

// LoadPlaylist loads the playlist detail view.
func (s *Store) LoadPlaylist(ctx context.Context, key string) error {
	gen := s.beginNav()
	res, err := s.api.GetPlaylistDetail(ctx, key)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	tracks := s.matchAll(res.Related.Records)
	s.SetState(Patch{
		View:            Set(ViewPlaylist),
		DetailID:        Set(key),
		DisplayedTracks: Set(tracks),
		Page:            Set(0),
		Count:           Set(0),
	})
	return s.loadBanner(ctx, gen, tracks)
}

// loadBanner derives the banner from the first artist-bearing track of
// a detail view. A track list with no artist foreign key is a
// recognized empty case, not an error: the banner is cleared.
func (s *Store) loadBanner(ctx context.Context, gen uint64, tracks []track.Track) error {
	var artistID int
	for _, t := range tracks {
		if t.HasArtist() {
			artistID = t.ArtistID
			break
		}
	}
	if artistID == 0 {
		if !s.navStale(gen) {
			s.SetState(Patch{Banner: Set[*Banner](nil)})
		}
		return nil
	}

	res, err := s.api.GetArtistDetail(ctx, artistID)
	if err != nil {
		return err
	}
	if s.navStale(gen) {
		return nil
	}
	row := res.Row[0]
	s.SetState(Patch{Banner: Set(&Banner{
		Title:      row.Name,
		Artwork:    row.Artwork,
		TrackCount: len(tracks),
	})})
	return nil
}

// SearchByParam runs the three catalog searches concurrently and
// commits the combined result only when every search succeeded. A
// single failure fails the whole call with nothing committed.
func (s *Store) SearchByParam(ctx context.Context, term string) error {
	gen := s.beginNav()

	var (
		wg       sync.WaitGroup
		tracks   *musicapi.TrackPage
		artists  *musicapi.GridPage
		albums   *musicapi.GridPage
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		r, err := s.api.SearchTracks(ctx, term)
		if err != nil {
			fail(err)
			return
		}
		tracks = r
	}()
	go func() {
		defer wg.Done()
		r, err := s.api.SearchArtists(ctx, term)
		if err != nil {
			fail(err)
			return
		}
		artists = r
	}()
	go func() {
		defer wg.Done()
		r, err := s.api.SearchAlbums(ctx, term)
		if err != nil {
			fail(err)
			return
		}
		albums = r
	}()
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if s.navStale(gen) {
		return nil
	}

	s.SetState(Patch{
		View:        Set(ViewSearch),
		SearchParam: Set(term),
		SearchResults: Set(&SearchResults{
			Tracks:  s.matchAll(tracks.Records),
			Artists: artists.Records,
			Albums:  albums.Records,
		}),
	})
	return nil
}

// UpdateList toggles the selected track's membership in the given
// playlist, persists it, closes the playlist picker and refreshes the
// playlist library so favorite flags are recomputed.
func (s *Store) UpdateList(ctx context.Context, pl playlist.Playlist) error {
	s.mu.Lock()
	menu := s.state.MenuTrack
	s.mu.Unlock()
	if menu == nil {
		return ErrNoMenuTrack
	}

	updated := pl.WithToggled(menu.FileKey)
	if err := s.api.SavePlaylist(ctx, updated); err != nil {
		return err
	}
	s.SetState(Patch{ListOpen: Set(false)})
	return s.Rematch(ctx)
}

// Rematch re-fetches the playlist library, recomputes the membership
// set and re-annotates the displayed tracks with it.
func (s *Store) Rematch(ctx context.Context) error {
	res, err := s.api.GetPlaylistGrid(ctx)
	if err != nil {
		return err
	}
	related := ExtractRelated(res.Records)

	s.mu.Lock()
	displayed := s.state.DisplayedTracks
	s.mu.Unlock()

	rematched := make([]track.Track, len(displayed))
	for i, t := range displayed {
		rematched[i] = matchTrack(t, related)
	}

	s.SetState(Patch{
		PlaylistLib:      Set(res.Records),
		RelatedPlaylists: Set(related),
		DisplayedTracks:  Set(rematched),
	})
	return nil
}

// MatchTrack returns a copy of t with Favorite derived from the
// current playlist membership set. The input is never mutated.
func (s *Store) MatchTrack(t track.Track) track.Track {
	s.mu.Lock()
	related := s.state.RelatedPlaylists
	s.mu.Unlock()
	return matchTrack(t, related)
}

func matchTrack(t track.Track, related []string) track.Track {
	t.Favorite = false
	for _, k := range related {
		if k == t.FileKey {
			t.Favorite = true
			break
		}
	}
	return t
}

func (s *Store) matchAll(tracks []track.Track) []track.Track {
	s.mu.Lock()
	related := s.state.RelatedPlaylists
	s.mu.Unlock()

	out := make([]track.Track, len(tracks))
	for i, t := range tracks {
		out[i] = matchTrack(t, related)
	}
	return out
}

// ExtractRelated flattens every playlist's membership list into one
// sequence of file keys. Duplicates are harmless; only membership
// matters.
func ExtractRelated(playlists []playlist.Playlist) []string {
	var related []string
	for _, p := range playlists {
		related = append(related, p.Related...)
	}
	return related
}

func playlistGridItems(playlists []playlist.Playlist) []grid.Item {
	items := make([]grid.Item, len(playlists))
	for i, p := range playlists {
		items[i] = grid.Item{
			Type:      "playlist",
			ID:        p.Key,
			Name:      p.Title,
			Thumbnail: p.Artwork,
		}
	}
	return items
}
