package store

import "github.com/solfeggio/quaver/internal/domain/track"

// SetSongList replaces the playback queue and selects the current
// track. This is the sole entry point for "play this list starting at
// this track"; passing nil for current clears the now-playing marker.
func (s *Store) SetSongList(tracks []track.Track, current *track.Track) {
	p := Patch{SongList: Set(tracks)}
	if current != nil {
		t := *current
		p.CurrentSong = Set(&t)
		p.CurrentSongID = Set(t.FileKey)
	} else {
		p.CurrentSong = Set[*track.Track](nil)
		p.CurrentSongID = Set("")
	}
	s.SetState(p)
}

// AdvanceTrack moves the now-playing marker by direction (+1 or -1)
// within the queue, joining on file key. An out-of-bounds target is a
// no-op: reaching either end of the queue simply stops advancing.
//
// The index is computed and applied under one lock so a concurrent
// queue mutation cannot invalidate it in between.
func (s *Store) AdvanceTrack(direction int) {
	s.mu.Lock()
	list := s.state.SongList
	target := indexByFileKey(list, s.state.CurrentSongID) + direction
	if target < 0 || target >= len(list) {
		s.mu.Unlock()
		return
	}
	next := list[target]

	p := Patch{CurrentSong: Set(&next), CurrentSongID: Set(next.FileKey)}
	if !p.changes(s.state) {
		s.mu.Unlock()
		return
	}
	s.applyLocked(p)
	s.mu.Unlock()

	s.Notify()
}

// AddToQueue inserts a copy of t, tagged Queued, immediately after the
// last contiguous run of queued entries that follows the current
// track. Explicit insertions therefore accumulate in FIFO order right
// behind whatever is playing, ahead of the untouched tail of the
// original list.
func (s *Store) AddToQueue(t track.Track) {
	s.mu.Lock()
	list := s.state.SongList
	cur := indexByFileKey(list, s.state.CurrentSongID)

	// Scan backward from the end down to (but not including) the
	// current index; the first queued entry marks the insertion point.
	insertAt := cur + 1
	for i := len(list) - 1; i > cur; i-- {
		if list[i].Queued {
			insertAt = i + 1
			break
		}
	}

	qt := t
	qt.Queued = true

	next := make([]track.Track, 0, len(list)+1)
	next = append(next, list[:insertAt]...)
	next = append(next, qt)
	next = append(next, list[insertAt:]...)

	s.applyLocked(Patch{SongList: Set(next)})
	s.mu.Unlock()

	s.Notify()
}

func indexByFileKey(list []track.Track, fileKey string) int {
	if fileKey == "" {
		return -1
	}
	for i, t := range list {
		if t.FileKey == fileKey {
			return i
		}
	}
	return -1
}
