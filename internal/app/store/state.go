// Package store owns the single mutable application state and the
// domain operations that drive it. Controllers receive a *Store at
// construction time and observe it through Subscribe; SetState is the
// only mutation path.
package store

import (
	"github.com/solfeggio/quaver/internal/domain/grid"
	"github.com/solfeggio/quaver/internal/domain/playlist"
	"github.com/solfeggio/quaver/internal/domain/track"
)

// View identifies the active screen. The value doubles as the first
// segment of the location hash.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewLibrary   View = "library"
	ViewArtists   View = "artists"
	ViewAlbums    View = "albums"
	ViewGenres    View = "genres"
	ViewPlaylists View = "playlists"
	ViewAlbum     View = "album"
	ViewArtist    View = "artist"
	ViewGenre     View = "genre"
	ViewPlaylist  View = "playlist"
	ViewSearch    View = "search"
	ViewSettings  View = "settings"
)

// Valid reports whether v is a recognized view name.
func (v View) Valid() bool {
	switch v {
	case ViewDashboard, ViewLibrary, ViewArtists, ViewAlbums, ViewGenres,
		ViewPlaylists, ViewAlbum, ViewArtist, ViewGenre, ViewPlaylist,
		ViewSearch, ViewSettings:
		return true
	}
	return false
}

// IsDetail reports whether v shows a single entity identified by a
// detail id.
func (v View) IsDetail() bool {
	switch v {
	case ViewAlbum, ViewArtist, ViewGenre, ViewPlaylist:
		return true
	}
	return false
}

// ParseView maps a view name to a View, falling back to the dashboard
// for unrecognized names.
func ParseView(s string) View {
	if v := View(s); v.Valid() {
		return v
	}
	return ViewDashboard
}

// SearchResults holds the combined result of the three catalog
// searches. It is committed all-or-nothing.
type SearchResults struct {
	Tracks  []track.Track `json:"tracks"`
	Artists []grid.Item   `json:"artists"`
	Albums  []grid.Item   `json:"albums"`
}

// Banner is the summary display shown atop detail views.
type Banner struct {
	Title      string `json:"title"`
	Artwork    string `json:"artwork"`
	TrackCount int    `json:"trackCount"`
}

// Previous records the view shown before the last accepted state
// change, enabling return-to-previous flows.
type Previous struct {
	View View   `json:"view"`
	ID   string `json:"id"`
}

// State is the single application state aggregate. It is owned
// exclusively by the Store; snapshots handed to listeners share the
// slice backing arrays and must be treated as read-only.
type State struct {
	View     View   `json:"view"`
	DetailID string `json:"detailId"`
	Page     int    `json:"page"`  // 1-based; 0 for non-paginated views
	Count    int    `json:"count"` // total item count backing pagination

	DisplayedTracks []track.Track `json:"displayedTracks"`
	DisplayedGrid   []grid.Item   `json:"displayedGrid"`

	SongList      []track.Track `json:"songList"`
	CurrentSongID string        `json:"currentSongId"`
	CurrentSong   *track.Track  `json:"currentSong"`

	RelatedPlaylists []string            `json:"relatedPlaylists"`
	PlaylistLib      []playlist.Playlist `json:"playlistLib"`

	SearchResults *SearchResults `json:"searchResults"`
	SearchParam   string         `json:"searchParam"`

	Banner *Banner `json:"banner"`

	DrawerOpen   bool         `json:"drawerOpen"`
	ListOpen     bool         `json:"listOpen"`
	SongListOpen bool         `json:"songListOpen"`
	MenuTrack    *track.Track `json:"menuTrack"`

	ChatType         string `json:"chatType"`
	ChatName         string `json:"chatName"`
	ChatZip          string `json:"chatZip"`
	AnnouncerEnabled bool   `json:"announcerEnabled"`

	Previous Previous `json:"previous"`
}

// equal is the shallow state comparison used to decide whether a
// notification is due. Sequences compare by length and pairwise
// elements; in-place mutation of a shared slice is deliberately not
// detected.
func (s State) equal(o State) bool {
	return s.View == o.View &&
		s.DetailID == o.DetailID &&
		s.Page == o.Page &&
		s.Count == o.Count &&
		tracksEqual(s.DisplayedTracks, o.DisplayedTracks) &&
		gridEqual(s.DisplayedGrid, o.DisplayedGrid) &&
		tracksEqual(s.SongList, o.SongList) &&
		s.CurrentSongID == o.CurrentSongID &&
		trackPtrEqual(s.CurrentSong, o.CurrentSong) &&
		stringsEqual(s.RelatedPlaylists, o.RelatedPlaylists) &&
		playlistsEqual(s.PlaylistLib, o.PlaylistLib) &&
		searchResultsEqual(s.SearchResults, o.SearchResults) &&
		s.SearchParam == o.SearchParam &&
		bannerEqual(s.Banner, o.Banner) &&
		s.DrawerOpen == o.DrawerOpen &&
		s.ListOpen == o.ListOpen &&
		s.SongListOpen == o.SongListOpen &&
		trackPtrEqual(s.MenuTrack, o.MenuTrack) &&
		s.ChatType == o.ChatType &&
		s.ChatName == o.ChatName &&
		s.ChatZip == o.ChatZip &&
		s.AnnouncerEnabled == o.AnnouncerEnabled &&
		s.Previous == o.Previous
}

func tracksEqual(a, b []track.Track) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func gridEqual(a, b []grid.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func playlistsEqual(a, b []playlist.Playlist) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func trackPtrEqual(a, b *track.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func bannerEqual(a, b *Banner) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func searchResultsEqual(a, b *SearchResults) bool {
	if a == nil || b == nil {
		return a == b
	}
	return tracksEqual(a.Tracks, b.Tracks) &&
		gridEqual(a.Artists, b.Artists) &&
		gridEqual(a.Albums, b.Albums)
}
