package store

import (
	"github.com/solfeggio/quaver/internal/domain/grid"
	"github.com/solfeggio/quaver/internal/domain/playlist"
	"github.com/solfeggio/quaver/internal/domain/track"
)

// Field is an optional Patch field. The zero value means "not part of
// the patch"; use Set to include a value.
type Field[T any] struct {
	value T
	valid bool
}

// Set wraps a value for inclusion in a Patch.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, valid: true}
}

// Value returns the wrapped value and whether the field was set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.valid
}

// Patch is a partial state update. Unset fields keep their current
// value; Previous is managed by the store and cannot be patched.
type Patch struct {
	View     Field[View]
	DetailID Field[string]
	Page     Field[int]
	Count    Field[int]

	DisplayedTracks Field[[]track.Track]
	DisplayedGrid   Field[[]grid.Item]

	SongList      Field[[]track.Track]
	CurrentSongID Field[string]
	CurrentSong   Field[*track.Track]

	RelatedPlaylists Field[[]string]
	PlaylistLib      Field[[]playlist.Playlist]

	SearchResults Field[*SearchResults]
	SearchParam   Field[string]

	Banner Field[*Banner]

	DrawerOpen   Field[bool]
	ListOpen     Field[bool]
	SongListOpen Field[bool]
	MenuTrack    Field[*track.Track]

	ChatType         Field[string]
	ChatName         Field[string]
	ChatZip          Field[string]
	AnnouncerEnabled Field[bool]
}

// changes reports whether at least one set field differs by value from
// the given state. The comparison is shallow: scalars by identity,
// sequences by length and pairwise elements.
func (p Patch) changes(s State) bool {
	if v, ok := p.View.Value(); ok && v != s.View {
		return true
	}
	if v, ok := p.DetailID.Value(); ok && v != s.DetailID {
		return true
	}
	if v, ok := p.Page.Value(); ok && v != s.Page {
		return true
	}
	if v, ok := p.Count.Value(); ok && v != s.Count {
		return true
	}
	if v, ok := p.DisplayedTracks.Value(); ok && !tracksEqual(v, s.DisplayedTracks) {
		return true
	}
	if v, ok := p.DisplayedGrid.Value(); ok && !gridEqual(v, s.DisplayedGrid) {
		return true
	}
	if v, ok := p.SongList.Value(); ok && !tracksEqual(v, s.SongList) {
		return true
	}
	if v, ok := p.CurrentSongID.Value(); ok && v != s.CurrentSongID {
		return true
	}
	if v, ok := p.CurrentSong.Value(); ok && !trackPtrEqual(v, s.CurrentSong) {
		return true
	}
	if v, ok := p.RelatedPlaylists.Value(); ok && !stringsEqual(v, s.RelatedPlaylists) {
		return true
	}
	if v, ok := p.PlaylistLib.Value(); ok && !playlistsEqual(v, s.PlaylistLib) {
		return true
	}
	if v, ok := p.SearchResults.Value(); ok && !searchResultsEqual(v, s.SearchResults) {
		return true
	}
	if v, ok := p.SearchParam.Value(); ok && v != s.SearchParam {
		return true
	}
	if v, ok := p.Banner.Value(); ok && !bannerEqual(v, s.Banner) {
		return true
	}
	if v, ok := p.DrawerOpen.Value(); ok && v != s.DrawerOpen {
		return true
	}
	if v, ok := p.ListOpen.Value(); ok && v != s.ListOpen {
		return true
	}
	if v, ok := p.SongListOpen.Value(); ok && v != s.SongListOpen {
		return true
	}
	if v, ok := p.MenuTrack.Value(); ok && !trackPtrEqual(v, s.MenuTrack) {
		return true
	}
	if v, ok := p.ChatType.Value(); ok && v != s.ChatType {
		return true
	}
	if v, ok := p.ChatName.Value(); ok && v != s.ChatName {
		return true
	}
	if v, ok := p.ChatZip.Value(); ok && v != s.ChatZip {
		return true
	}
	if v, ok := p.AnnouncerEnabled.Value(); ok && v != s.AnnouncerEnabled {
		return true
	}
	return false
}

// applyTo merges every set field into s.
func (p Patch) applyTo(s *State) {
	if v, ok := p.View.Value(); ok {
		s.View = v
	}
	if v, ok := p.DetailID.Value(); ok {
		s.DetailID = v
	}
	if v, ok := p.Page.Value(); ok {
		s.Page = v
	}
	if v, ok := p.Count.Value(); ok {
		s.Count = v
	}
	if v, ok := p.DisplayedTracks.Value(); ok {
		s.DisplayedTracks = v
	}
	if v, ok := p.DisplayedGrid.Value(); ok {
		s.DisplayedGrid = v
	}
	if v, ok := p.SongList.Value(); ok {
		s.SongList = v
	}
	if v, ok := p.CurrentSongID.Value(); ok {
		s.CurrentSongID = v
	}
	if v, ok := p.CurrentSong.Value(); ok {
		s.CurrentSong = v
	}
	if v, ok := p.RelatedPlaylists.Value(); ok {
		s.RelatedPlaylists = v
	}
	if v, ok := p.PlaylistLib.Value(); ok {
		s.PlaylistLib = v
	}
	if v, ok := p.SearchResults.Value(); ok {
		s.SearchResults = v
	}
	if v, ok := p.SearchParam.Value(); ok {
		s.SearchParam = v
	}
	if v, ok := p.Banner.Value(); ok {
		s.Banner = v
	}
	if v, ok := p.DrawerOpen.Value(); ok {
		s.DrawerOpen = v
	}
	if v, ok := p.ListOpen.Value(); ok {
		s.ListOpen = v
	}
	if v, ok := p.SongListOpen.Value(); ok {
		s.SongListOpen = v
	}
	if v, ok := p.MenuTrack.Value(); ok {
		s.MenuTrack = v
	}
	if v, ok := p.ChatType.Value(); ok {
		s.ChatType = v
	}
	if v, ok := p.ChatName.Value(); ok {
		s.ChatName = v
	}
	if v, ok := p.ChatZip.Value(); ok {
		s.ChatZip = v
	}
	if v, ok := p.AnnouncerEnabled.Value(); ok {
		s.AnnouncerEnabled = v
	}
}
