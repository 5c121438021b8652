package store

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfeggio/quaver/internal/domain/grid"
	"github.com/solfeggio/quaver/internal/domain/playlist"
	"github.com/solfeggio/quaver/internal/domain/track"
	"github.com/solfeggio/quaver/internal/infra/musicapi"
)

// fakeAPI is a DataSource stub. Unset hooks return empty responses.
type fakeAPI struct {
	dashboard      func(ctx context.Context) ([]grid.Item, error)
	library        func(ctx context.Context, page int) (*musicapi.TrackPage, error)
	artistGrid     func(ctx context.Context, page int) (*musicapi.GridPage, error)
	albumGrid      func(ctx context.Context, page int) (*musicapi.GridPage, error)
	genreGrid      func(ctx context.Context, page int) (*musicapi.GridPage, error)
	artistDetail   func(ctx context.Context, id int) (*musicapi.ArtistDetail, error)
	albumDetail    func(ctx context.Context, id int) (*musicapi.AlbumDetail, error)
	genreDetail    func(ctx context.Context, key string, page int) (*musicapi.GenreDetail, error)
	playlistGrid   func(ctx context.Context) (*musicapi.PlaylistPage, error)
	playlistDetail func(ctx context.Context, key string) (*musicapi.PlaylistDetail, error)
	searchTracks   func(ctx context.Context, term string) (*musicapi.TrackPage, error)
	searchArtists  func(ctx context.Context, term string) (*musicapi.GridPage, error)
	searchAlbums   func(ctx context.Context, term string) (*musicapi.GridPage, error)
	savePlaylist   func(ctx context.Context, p playlist.Playlist) error
}

func (f *fakeAPI) GetDashboard(ctx context.Context) ([]grid.Item, error) {
	if f.dashboard != nil {
		return f.dashboard(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) GetLibrary(ctx context.Context, page int) (*musicapi.TrackPage, error) {
	if f.library != nil {
		return f.library(ctx, page)
	}
	return &musicapi.TrackPage{}, nil
}

func (f *fakeAPI) GetArtistGrid(ctx context.Context, page int) (*musicapi.GridPage, error) {
	if f.artistGrid != nil {
		return f.artistGrid(ctx, page)
	}
	return &musicapi.GridPage{}, nil
}

func (f *fakeAPI) GetAlbumGrid(ctx context.Context, page int) (*musicapi.GridPage, error) {
	if f.albumGrid != nil {
		return f.albumGrid(ctx, page)
	}
	return &musicapi.GridPage{}, nil
}

func (f *fakeAPI) GetGenreGrid(ctx context.Context, page int) (*musicapi.GridPage, error) {
	if f.genreGrid != nil {
		return f.genreGrid(ctx, page)
	}
	return &musicapi.GridPage{}, nil
}

func (f *fakeAPI) GetArtistDetail(ctx context.Context, id int) (*musicapi.ArtistDetail, error) {
	if f.artistDetail != nil {
		return f.artistDetail(ctx, id)
	}
	return &musicapi.ArtistDetail{Row: []musicapi.Artist{{ID: id}}}, nil
}

func (f *fakeAPI) GetAlbumDetail(ctx context.Context, id int) (*musicapi.AlbumDetail, error) {
	if f.albumDetail != nil {
		return f.albumDetail(ctx, id)
	}
	return &musicapi.AlbumDetail{Row: []musicapi.Album{{ID: id}}}, nil
}

func (f *fakeAPI) GetGenreDetail(ctx context.Context, key string, page int) (*musicapi.GenreDetail, error) {
	if f.genreDetail != nil {
		return f.genreDetail(ctx, key, page)
	}
	return &musicapi.GenreDetail{Row: []musicapi.Genre{{Key: key}}}, nil
}

func (f *fakeAPI) GetPlaylistGrid(ctx context.Context) (*musicapi.PlaylistPage, error) {
	if f.playlistGrid != nil {
		return f.playlistGrid(ctx)
	}
	return &musicapi.PlaylistPage{}, nil
}

func (f *fakeAPI) GetPlaylistDetail(ctx context.Context, key string) (*musicapi.PlaylistDetail, error) {
	if f.playlistDetail != nil {
		return f.playlistDetail(ctx, key)
	}
	return &musicapi.PlaylistDetail{Row: []playlist.Playlist{{Key: key}}}, nil
}

func (f *fakeAPI) SearchTracks(ctx context.Context, term string) (*musicapi.TrackPage, error) {
	if f.searchTracks != nil {
		return f.searchTracks(ctx, term)
	}
	return &musicapi.TrackPage{}, nil
}

func (f *fakeAPI) SearchArtists(ctx context.Context, term string) (*musicapi.GridPage, error) {
	if f.searchArtists != nil {
		return f.searchArtists(ctx, term)
	}
	return &musicapi.GridPage{}, nil
}

func (f *fakeAPI) SearchAlbums(ctx context.Context, term string) (*musicapi.GridPage, error) {
	if f.searchAlbums != nil {
		return f.searchAlbums(ctx, term)
	}
	return &musicapi.GridPage{}, nil
}

func (f *fakeAPI) SavePlaylist(ctx context.Context, p playlist.Playlist) error {
	if f.savePlaylist != nil {
		return f.savePlaylist(ctx, p)
	}
	return nil
}

func TestLoadLibrary(t *testing.T) {
	tracks := []track.Track{
		{ID: 1, FileKey: "a.flac"},
		{ID: 2, FileKey: "b.flac"},
	}
	api := &fakeAPI{
		library: func(_ context.Context, page int) (*musicapi.TrackPage, error) {
			assert.Equal(t, 2, page)
			return &musicapi.TrackPage{Count: 120, Records: tracks}, nil
		},
	}
	s := New(api)

	require.NoError(t, s.LoadLibrary(context.Background(), 2))

	st := s.GetState()
	assert.Equal(t, ViewLibrary, st.View)
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, 120, st.Count)
	assert.Len(t, st.DisplayedTracks, 2)
}

func TestLoadLibraryClampsPage(t *testing.T) {
	var got int
	api := &fakeAPI{
		library: func(_ context.Context, page int) (*musicapi.TrackPage, error) {
			got = page
			return &musicapi.TrackPage{}, nil
		},
	}
	require.NoError(t, New(api).LoadLibrary(context.Background(), 0))
	assert.Equal(t, 1, got)
}

func TestLoadAlbum(t *testing.T) {
	api := &fakeAPI{
		albumDetail: func(_ context.Context, id int) (*musicapi.AlbumDetail, error) {
			require.Equal(t, 42, id)
			return &musicapi.AlbumDetail{
				Row: []musicapi.Album{{ID: 42, Name: "Kind of Blue", ArtistID: 7}},
				Related: musicapi.TrackPage{Count: 5, Records: []track.Track{
					{ID: 1, FileKey: "so-what.flac", ArtistID: 7},
					{ID: 2, FileKey: "freddie.flac", ArtistID: 7},
				}},
			}, nil
		},
		artistDetail: func(_ context.Context, id int) (*musicapi.ArtistDetail, error) {
			require.Equal(t, 7, id)
			return &musicapi.ArtistDetail{
				Row: []musicapi.Artist{{ID: 7, Name: "Miles Davis", Artwork: "miles.jpg"}},
			}, nil
		},
	}
	s := New(api)

	require.NoError(t, s.LoadAlbum(context.Background(), "42"))

	st := s.GetState()
	assert.Equal(t, ViewAlbum, st.View)
	assert.Equal(t, "42", st.DetailID)
	assert.Equal(t, 0, st.Page)
	assert.Equal(t, 0, st.Count)
	assert.Len(t, st.DisplayedTracks, 2)
	require.NotNil(t, st.Banner)
	assert.Equal(t, "Miles Davis", st.Banner.Title)
	assert.Equal(t, "miles.jpg", st.Banner.Artwork)
	assert.Equal(t, 2, st.Banner.TrackCount)
}

func TestLoadAlbumRejectsBadID(t *testing.T) {
	s := New(&fakeAPI{})
	err := s.LoadAlbum(context.Background(), "not-a-number")
	require.Error(t, err)
	assert.Equal(t, ViewDashboard, s.GetState().View)
}

func TestLoadPlaylistClearsBannerWithoutArtist(t *testing.T) {
	api := &fakeAPI{
		playlistDetail: func(_ context.Context, key string) (*musicapi.PlaylistDetail, error) {
			return &musicapi.PlaylistDetail{
				Row: []playlist.Playlist{{Key: key, Title: "Mix"}},
				Related: musicapi.TrackPage{Records: []track.Track{
					{ID: 1, FileKey: "unknown.flac"},
				}},
			}, nil
		},
	}
	s := New(api)
	s.SetState(Patch{Banner: Set(&Banner{Title: "stale"})})

	require.NoError(t, s.LoadPlaylist(context.Background(), "mix"))

	st := s.GetState()
	assert.Equal(t, ViewPlaylist, st.View)
	assert.Nil(t, st.Banner)
}

func TestLoadGenreEscapesKey(t *testing.T) {
	var fetched string
	api := &fakeAPI{
		genreDetail: func(_ context.Context, key string, page int) (*musicapi.GenreDetail, error) {
			fetched = key
			return &musicapi.GenreDetail{
				Row:     []musicapi.Genre{{Key: key}},
				Related: musicapi.TrackPage{Count: 9},
			}, nil
		},
	}
	s := New(api)

	require.NoError(t, s.LoadGenre(context.Background(), "rock/fusion", 1))
	assert.Equal(t, "rock*fusion", fetched)
	// The state keeps the unescaped key for display and URL building.
	assert.Equal(t, "rock/fusion", s.GetState().DetailID)
	assert.Equal(t, 9, s.GetState().Count)

	require.NoError(t, s.LoadGenre(context.Background(), "rock%2Ffusion", 1))
	assert.Equal(t, "rock%2Ffusion", fetched)
}

func TestLoadPlaylists(t *testing.T) {
	api := &fakeAPI{
		playlistGrid: func(context.Context) (*musicapi.PlaylistPage, error) {
			return &musicapi.PlaylistPage{Count: 2, Records: []playlist.Playlist{
				{Key: "faves", Title: "Favorites", Related: []string{"a.flac"}},
				{Key: "road", Title: "Road Trip", Related: []string{"b.flac", "c.flac"}},
			}}, nil
		},
	}
	s := New(api)

	require.NoError(t, s.LoadPlaylists(context.Background()))

	st := s.GetState()
	assert.Equal(t, ViewPlaylists, st.View)
	assert.Equal(t, []string{"a.flac", "b.flac", "c.flac"}, st.RelatedPlaylists)
	require.Len(t, st.DisplayedGrid, 2)
	assert.Equal(t, "playlist", st.DisplayedGrid[0].Type)
	assert.Equal(t, "faves", st.DisplayedGrid[0].ID)
	assert.Equal(t, "Favorites", st.DisplayedGrid[0].Name)
}

func TestSearchByParamCommitsAllOrNothing(t *testing.T) {
	boom := errors.New("artist search down")
	api := &fakeAPI{
		searchTracks: func(_ context.Context, term string) (*musicapi.TrackPage, error) {
			return &musicapi.TrackPage{Records: []track.Track{{ID: 1, FileKey: "hit.flac"}}}, nil
		},
		searchArtists: func(_ context.Context, term string) (*musicapi.GridPage, error) {
			return nil, boom
		},
	}
	s := New(api)

	err := s.SearchByParam(context.Background(), "miles")
	require.ErrorIs(t, err, boom)

	st := s.GetState()
	assert.Equal(t, ViewDashboard, st.View)
	assert.Nil(t, st.SearchResults)
	assert.Equal(t, "", st.SearchParam)
}

func TestSearchByParam(t *testing.T) {
	api := &fakeAPI{
		searchTracks: func(_ context.Context, term string) (*musicapi.TrackPage, error) {
			return &musicapi.TrackPage{Records: []track.Track{{ID: 1, FileKey: "hit.flac"}}}, nil
		},
		searchArtists: func(_ context.Context, term string) (*musicapi.GridPage, error) {
			return &musicapi.GridPage{Records: []grid.Item{{Type: "artist", ID: "7"}}}, nil
		},
		searchAlbums: func(_ context.Context, term string) (*musicapi.GridPage, error) {
			return &musicapi.GridPage{Records: []grid.Item{{Type: "album", ID: "42"}}}, nil
		},
	}
	s := New(api)

	require.NoError(t, s.SearchByParam(context.Background(), "miles"))

	st := s.GetState()
	assert.Equal(t, ViewSearch, st.View)
	assert.Equal(t, "miles", st.SearchParam)
	require.NotNil(t, st.SearchResults)
	assert.Len(t, st.SearchResults.Tracks, 1)
	assert.Len(t, st.SearchResults.Artists, 1)
	assert.Len(t, st.SearchResults.Albums, 1)
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	dash := []grid.Item{{Type: "album", ID: "1", Name: "Latest"}}

	var s *Store
	api := &fakeAPI{
		dashboard: func(context.Context) ([]grid.Item, error) {
			return dash, nil
		},
		library: func(ctx context.Context, page int) (*musicapi.TrackPage, error) {
			// A newer navigation completes while this fetch is still in
			// flight.
			require.NoError(t, s.LoadDash(ctx))
			return &musicapi.TrackPage{Count: 50, Records: []track.Track{{ID: 9}}}, nil
		},
	}
	s = New(api)

	require.NoError(t, s.LoadLibrary(context.Background(), 3))

	st := s.GetState()
	assert.Equal(t, ViewDashboard, st.View)
	assert.Equal(t, dash, st.DisplayedGrid)
	assert.Empty(t, st.DisplayedTracks)
}

func TestMatchTrackDerivesFavorite(t *testing.T) {
	s := New(&fakeAPI{})
	s.SetState(Patch{RelatedPlaylists: Set([]string{"a.flac"})})

	fav := s.MatchTrack(track.Track{FileKey: "a.flac"})
	assert.True(t, fav.Favorite)

	plain := s.MatchTrack(track.Track{FileKey: "b.flac", Favorite: true})
	assert.False(t, plain.Favorite)
}

func TestUpdateListRequiresMenuTrack(t *testing.T) {
	s := New(&fakeAPI{})
	err := s.UpdateList(context.Background(), playlist.Playlist{Key: "faves"})
	assert.ErrorIs(t, err, ErrNoMenuTrack)
}

func TestUpdateListTogglesAndRematches(t *testing.T) {
	lib := []playlist.Playlist{{Key: "faves", Title: "Favorites"}}

	var saved playlist.Playlist
	api := &fakeAPI{
		savePlaylist: func(_ context.Context, p playlist.Playlist) error {
			saved = p
			lib = []playlist.Playlist{p}
			return nil
		},
		playlistGrid: func(context.Context) (*musicapi.PlaylistPage, error) {
			return &musicapi.PlaylistPage{Count: len(lib), Records: lib}, nil
		},
	}
	s := New(api)
	menu := track.Track{ID: 1, FileKey: "a.flac"}
	s.SetState(Patch{
		DisplayedTracks: Set([]track.Track{
			{ID: 1, FileKey: "a.flac"},
			{ID: 2, FileKey: "b.flac"},
		}),
		MenuTrack: Set(&menu),
		ListOpen:  Set(true),
	})

	require.NoError(t, s.UpdateList(context.Background(), playlist.Playlist{Key: "faves", Title: "Favorites"}))

	assert.Equal(t, []string{"a.flac"}, saved.Related)

	st := s.GetState()
	assert.False(t, st.ListOpen)
	assert.Equal(t, []string{"a.flac"}, st.RelatedPlaylists)
	require.Len(t, st.DisplayedTracks, 2)
	assert.True(t, st.DisplayedTracks[0].Favorite)
	assert.False(t, st.DisplayedTracks[1].Favorite)

	// Toggling again removes the membership and clears the flag.
	s.SetState(Patch{MenuTrack: Set(&menu)})
	require.NoError(t, s.UpdateList(context.Background(), saved))

	st = s.GetState()
	assert.Empty(t, saved.Related)
	assert.Empty(t, st.RelatedPlaylists)
	assert.False(t, st.DisplayedTracks[0].Favorite)
}
