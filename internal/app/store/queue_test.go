package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfeggio/quaver/internal/domain/track"
)

func queueFixture() (a, b, c track.Track) {
	a = track.Track{ID: 1, FileKey: "a.flac", Title: "A"}
	b = track.Track{ID: 2, FileKey: "b.flac", Title: "B"}
	c = track.Track{ID: 3, FileKey: "c.flac", Title: "C"}
	return
}

func TestAdvanceTrack(t *testing.T) {
	a, b, c := queueFixture()

	tests := []struct {
		name      string
		current   *track.Track
		direction int
		wantID    string
	}{
		{name: "forward", current: &a, direction: 1, wantID: "b.flac"},
		{name: "backward", current: &b, direction: -1, wantID: "a.flac"},
		{name: "forward at end is a no-op", current: &c, direction: 1, wantID: "c.flac"},
		{name: "backward at start is a no-op", current: &a, direction: -1, wantID: "a.flac"},
		{name: "forward with no current selects the first", current: nil, direction: 1, wantID: "a.flac"},
		{name: "backward with no current is a no-op", current: nil, direction: -1, wantID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			s.SetSongList([]track.Track{a, b, c}, tt.current)

			s.AdvanceTrack(tt.direction)
			assert.Equal(t, tt.wantID, s.GetState().CurrentSongID)
		})
	}
}

func TestAdvanceTrackEmptyQueue(t *testing.T) {
	s := New(nil)
	s.AdvanceTrack(1)
	assert.Equal(t, "", s.GetState().CurrentSongID)
}

func TestAddToQueue(t *testing.T) {
	a, b, c := queueFixture()
	x := track.Track{ID: 10, FileKey: "x.flac", Title: "X"}
	y := track.Track{ID: 11, FileKey: "y.flac", Title: "Y"}

	s := New(nil)
	s.SetSongList([]track.Track{a, b, c}, &b)

	// Insertions land behind the current track in request order, ahead
	// of the untouched tail.
	s.AddToQueue(x)
	s.AddToQueue(y)

	list := s.GetState().SongList
	require.Len(t, list, 5)
	keys := make([]string, len(list))
	for i, tr := range list {
		keys[i] = tr.FileKey
	}
	assert.Equal(t, []string{"a.flac", "b.flac", "x.flac", "y.flac", "c.flac"}, keys)
	assert.True(t, list[2].Queued)
	assert.True(t, list[3].Queued)
	assert.False(t, list[4].Queued)
}

func TestAddToQueueWithoutCurrent(t *testing.T) {
	a, b, _ := queueFixture()
	x := track.Track{ID: 10, FileKey: "x.flac"}

	s := New(nil)
	s.SetSongList([]track.Track{a, b}, nil)

	s.AddToQueue(x)

	list := s.GetState().SongList
	require.Len(t, list, 3)
	assert.Equal(t, "x.flac", list[0].FileKey)
	assert.True(t, list[0].Queued)
}

func TestAdvanceThroughQueuedInsertions(t *testing.T) {
	a, b, c := queueFixture()
	x := track.Track{ID: 10, FileKey: "x.flac"}

	s := New(nil)
	s.SetSongList([]track.Track{a, b, c}, &b)
	s.AddToQueue(x)

	// Playback order visits the queued insertion before the original
	// tail.
	s.AdvanceTrack(1)
	assert.Equal(t, "x.flac", s.GetState().CurrentSongID)

	s.AdvanceTrack(1)
	assert.Equal(t, "c.flac", s.GetState().CurrentSongID)

	s.AdvanceTrack(1)
	assert.Equal(t, "c.flac", s.GetState().CurrentSongID)
}

func TestAddToQueueDoesNotMutateInput(t *testing.T) {
	a, b, _ := queueFixture()

	s := New(nil)
	s.SetSongList([]track.Track{a, b}, &a)

	s.AddToQueue(b)
	assert.False(t, b.Queued)

	list := s.GetState().SongList
	require.Len(t, list, 3)
	assert.True(t, list[1].Queued)
	assert.Equal(t, "b.flac", list[1].FileKey)
}
