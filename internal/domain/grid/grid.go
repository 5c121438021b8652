// Package grid provides the grid item entity shown on dashboard and grid views.
package grid

// Item is a single tile in a grid view (artists, albums, genres,
// playlists or the dashboard).
type Item struct {
	Type      string `json:"type"` // "artist", "album", "genre" or "playlist"
	ID        string `json:"id"`
	Name      string `json:"name"`
	Caption   string `json:"caption,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	ImageLg   string `json:"imageLg,omitempty"`
}
