// Package track provides the Track domain entity.
package track

// Track represents a single playable track as served by the music API.
//
// Tracks carry two identities: the numeric ID identifies a catalog row
// in the UI, while FileKey identifies the underlying audio file. Queue
// membership and the now-playing marker always join on FileKey.
type Track struct {
	ID       int    `json:"id"`
	FileKey  string `json:"fileKey"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	ArtistID int    `json:"artistId"`
	Album    string `json:"album"`
	AlbumID  int    `json:"albumId"`
	Genre    string `json:"genre"`
	GenreKey string `json:"genreKey"`
	Duration int    `json:"duration"` // milliseconds
	Disc     int    `json:"disc"`
	Number   int    `json:"number"`
	Artwork  string `json:"artwork"`
	Favorite bool   `json:"favorite"` // derived from playlist membership
	Queued   bool   `json:"queued"`   // inserted into the queue out of list order
}

// HasArtist reports whether the track carries an artist foreign key.
func (t Track) HasArtist() bool {
	return t.ArtistID != 0
}

// SameFile reports whether two tracks refer to the same audio file.
func (t Track) SameFile(o Track) bool {
	return t.FileKey == o.FileKey
}
