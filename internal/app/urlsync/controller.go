package urlsync

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/solfeggio/quaver/internal/app/store"
)

// Source identifies who is currently driving a navigation. While one
// side holds the guard, the opposite side's reaction is suppressed so
// a change cannot bounce back and forth.
type Source int

const (
	SourceNone Source = iota
	SourceURL
	SourceState
)

func (s Source) String() string {
	switch s {
	case SourceURL:
		return "url"
	case SourceState:
		return "state"
	}
	return "none"
}

// Controller mirrors navigation state into the location hash and
// applies external hash changes back onto the store.
type Controller struct {
	store *store.Store
	loc   Location

	mu     sync.Mutex
	source Source

	unsubStore func()
	unsubLoc   func()
}

// New creates a sync controller. Call Init to start observing.
func New(st *store.Store, loc Location) *Controller {
	return &Controller{store: st, loc: loc}
}

// Init subscribes to both sides and resolves the initial direction: a
// non-empty hash is a deep link and wins over the default state;
// otherwise the state is written out as the initial hash.
func (c *Controller) Init(ctx context.Context) error {
	c.unsubStore = c.store.Subscribe(c.onState)
	c.unsubLoc = c.loc.OnChange(func(hash string) {
		if err := c.HandleURLChange(context.Background(), hash); err != nil {
			zlog.Error().Err(err).Str("hash", hash).Msg("failed to apply location change")
		}
	})

	if hash := c.loc.Hash(); hash != "" && hash != "#" {
		return c.HandleURLChange(ctx, hash)
	}
	c.updateURL(c.store.GetState())
	return nil
}

// Close stops observing both sides.
func (c *Controller) Close() {
	if c.unsubStore != nil {
		c.unsubStore()
		c.unsubStore = nil
	}
	if c.unsubLoc != nil {
		c.unsubLoc()
		c.unsubLoc = nil
	}
}

// HandleURLChange applies an external hash change to the store. Hash
// changes produced by the controller's own write-back, and changes
// that decode to the state already shown, are ignored.
func (c *Controller) HandleURLChange(ctx context.Context, hash string) error {
	if !c.acquire(SourceURL) {
		return nil
	}
	defer c.release(SourceURL)

	p := ParseHash(hash)
	st := c.store.GetState()
	if p.View == st.View && p.DetailID == st.DetailID && samePage(p.Page, st.Page) {
		return nil
	}

	zlog.Debug().Str("hash", hash).Str("view", string(p.View)).Msg("navigating from location change")
	return c.dispatch(ctx, p)
}

// Navigate runs a state-driven navigation; the resulting state change
// is written back to the hash through the normal listener path.
func (c *Controller) Navigate(ctx context.Context, view store.View, id string, page int) error {
	return c.dispatch(ctx, Parsed{View: view, DetailID: id, Page: page})
}

func (c *Controller) dispatch(ctx context.Context, p Parsed) error {
	switch p.View {
	case store.ViewLibrary:
		return c.store.LoadLibrary(ctx, p.Page)
	case store.ViewArtists:
		return c.store.LoadArtists(ctx, p.Page)
	case store.ViewAlbums:
		return c.store.LoadAlbums(ctx, p.Page)
	case store.ViewGenres:
		return c.store.LoadGenres(ctx, p.Page)
	case store.ViewPlaylists:
		return c.store.LoadPlaylists(ctx)
	case store.ViewAlbum:
		return c.store.LoadAlbum(ctx, p.DetailID)
	case store.ViewArtist:
		return c.store.LoadArtist(ctx, p.DetailID)
	case store.ViewGenre:
		return c.store.LoadGenre(ctx, p.DetailID, p.Page)
	case store.ViewPlaylist:
		return c.store.LoadPlaylist(ctx, p.DetailID)
	case store.ViewSearch, store.ViewSettings:
		// These views carry no fetchable identity of their own.
		c.store.SetState(store.Patch{
			View:     store.Set(p.View),
			DetailID: store.Set(""),
			Page:     store.Set(0),
			Count:    store.Set(0),
		})
		return nil
	}
	return c.store.LoadDash(ctx)
}

// onState is the store listener. While a URL-driven navigation is in
// flight its own state changes must not be written back to the hash.
func (c *Controller) onState(st store.State) {
	if c.current() == SourceURL {
		return
	}
	c.updateURL(st)
}

// updateURL writes the state's hash to the location. The synchronous
// hash-change callback this triggers sees the guard held and ignores
// the echo.
func (c *Controller) updateURL(st store.State) {
	h := BuildHash(st)
	if h == c.loc.Hash() {
		return
	}
	if !c.acquire(SourceState) {
		return
	}
	defer c.release(SourceState)

	c.loc.SetHash(h)
}

func (c *Controller) acquire(src Source) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source != SourceNone {
		return false
	}
	c.source = src
	return true
}

func (c *Controller) release(src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == src {
		c.source = SourceNone
	}
}

func (c *Controller) current() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}
