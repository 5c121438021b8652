package playback

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/solfeggio/quaver/internal/app/store"
	"github.com/solfeggio/quaver/internal/domain/track"
)

// Announcer speaks a track introduction before it plays. Announcement
// failures never block playback.
type Announcer interface {
	Announce(ctx context.Context, t track.Track) error
}

// AnnouncerFunc adapts a function to the Announcer interface.
type AnnouncerFunc func(ctx context.Context, t track.Track) error

func (f AnnouncerFunc) Announce(ctx context.Context, t track.Track) error {
	return f(ctx, t)
}

// Controller watches the now-playing marker and drives the backend
// through stop, load, announce, play on every change. A finished
// stream advances the queue, which feeds the next change back in.
type Controller struct {
	store     *store.Store
	backend   Backend
	announcer Announcer
	streamURL func(fileKey string) string

	mu      sync.Mutex
	lastID  string
	gen     uint64
	playing bool

	// transMu serializes transitions so a rapid sequence of track
	// changes cannot interleave their backend calls.
	transMu sync.Mutex

	unsub func()
}

// NewController creates a playback controller. announcer may be nil.
func NewController(st *store.Store, backend Backend, announcer Announcer, streamURL func(string) string) *Controller {
	return &Controller{
		store:     st,
		backend:   backend,
		announcer: announcer,
		streamURL: streamURL,
	}
}

// Init hooks the controller up to the store and the backend.
func (c *Controller) Init() {
	c.backend.OnEnded(c.onEnded)
	c.backend.OnError(c.onError)
	c.unsub = c.store.Subscribe(c.onState)
}

// Close stops observing the store and halts playback.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.mu.Lock()
	c.gen++
	c.playing = false
	c.mu.Unlock()
	if err := c.backend.Stop(); err != nil {
		zlog.Debug().Err(err).Msg("failed to stop backend on close")
	}
}

// Resume restarts playback of the loaded stream.
func (c *Controller) Resume() error {
	if err := c.backend.Play(); err != nil {
		return err
	}
	c.setPlaying(true)
	return nil
}

// Stop halts playback without touching the queue. The next track
// change starts playing again.
func (c *Controller) Stop() error {
	c.mu.Lock()
	c.gen++
	c.playing = false
	c.mu.Unlock()
	return c.backend.Stop()
}

// IsPlaying reports whether a stream is currently playing.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Position returns the elapsed play time of the current stream.
func (c *Controller) Position() time.Duration {
	return c.backend.Position()
}

// onState reacts only to edges of the now-playing marker; every other
// state change passes through untouched.
func (c *Controller) onState(st store.State) {
	c.mu.Lock()
	if st.CurrentSongID == c.lastID {
		c.mu.Unlock()
		return
	}
	c.lastID = st.CurrentSongID
	c.gen++
	gen := c.gen
	var cur *track.Track
	if st.CurrentSong != nil {
		t := *st.CurrentSong
		cur = &t
	}
	announce := st.AnnouncerEnabled
	c.mu.Unlock()

	c.transition(gen, cur, announce)
}

func (c *Controller) stale(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != gen
}

func (c *Controller) setPlaying(v bool) {
	c.mu.Lock()
	c.playing = v
	c.mu.Unlock()
}

// transition performs one full track change. Each step re-checks the
// generation so that a newer change supersedes this one between steps
// rather than after it.
func (c *Controller) transition(gen uint64, t *track.Track, announce bool) {
	c.transMu.Lock()
	defer c.transMu.Unlock()

	if c.stale(gen) {
		return
	}
	if err := c.backend.Stop(); err != nil {
		zlog.Warn().Err(err).Msg("failed to stop backend")
	}
	c.setPlaying(false)

	if t == nil {
		return
	}

	url := c.streamURL(t.FileKey)
	if err := c.backend.Load(url); err != nil {
		zlog.Error().Err(err).Str("fileKey", t.FileKey).Msg("failed to load stream")
		return
	}
	if c.stale(gen) {
		return
	}

	if announce && c.announcer != nil {
		if err := c.announcer.Announce(context.Background(), *t); err != nil {
			zlog.Warn().Err(err).Str("title", t.Title).Msg("announcement failed")
		}
	}
	if c.stale(gen) {
		return
	}

	if err := c.backend.Play(); err != nil {
		zlog.Error().Err(err).Str("fileKey", t.FileKey).Msg("failed to start playback")
		return
	}
	c.setPlaying(true)
	zlog.Debug().Str("fileKey", t.FileKey).Str("title", t.Title).Msg("playing")
}

// onEnded advances the queue when a stream finishes. At the end of the
// queue the advance is a no-op and playback simply stops.
func (c *Controller) onEnded() {
	c.setPlaying(false)
	c.store.AdvanceTrack(1)
}

func (c *Controller) onError(err error) {
	zlog.Error().Err(err).Msg("playback failed")
	c.setPlaying(false)
}
