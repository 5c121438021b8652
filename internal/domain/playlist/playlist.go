// Package playlist provides the Playlist domain entity.
package playlist

// Playlist represents a user playlist. Related holds the file keys of
// member tracks; membership, not order, is what matters.
type Playlist struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Artwork string   `json:"artwork,omitempty"`
	Related []string `json:"related"`
}

// Contains reports whether fileKey is a member of the playlist.
func (p Playlist) Contains(fileKey string) bool {
	for _, k := range p.Related {
		if k == fileKey {
			return true
		}
	}
	return false
}

// WithToggled returns a copy with fileKey's membership flipped:
// removed when present, appended when absent. The receiver is not
// mutated.
func (p Playlist) WithToggled(fileKey string) Playlist {
	out := p
	if p.Contains(fileKey) {
		related := make([]string, 0, len(p.Related))
		for _, k := range p.Related {
			if k != fileKey {
				related = append(related, k)
			}
		}
		out.Related = related
		return out
	}

	related := make([]string, len(p.Related), len(p.Related)+1)
	copy(related, p.Related)
	out.Related = append(related, fileKey)
	return out
}

// Equal reports whether two playlists are identical. Related is
// compared by length and pairwise elements.
func (p Playlist) Equal(o Playlist) bool {
	if p.Key != o.Key || p.Title != o.Title || p.Artwork != o.Artwork {
		return false
	}
	if len(p.Related) != len(o.Related) {
		return false
	}
	for i := range p.Related {
		if p.Related[i] != o.Related[i] {
			return false
		}
	}
	return true
}
