// Package settings persists the user's player settings across
// sessions.
package settings

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/solfeggio/quaver/internal/app/store"
)

const blobKey = "player.settings"

// Blob is the persisted settings document.
type Blob struct {
	Type      string `json:"chatType"`
	Name      string `json:"chatName"`
	Zip       string `json:"chatZip"`
	Announcer bool   `json:"announcer"`
}

// KV is the key-value storage the settings live in.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// Repository loads and saves the settings blob.
type Repository interface {
	Load(ctx context.Context) (*Blob, error)
	Save(ctx context.Context, b Blob) error
}

type kvRepository struct {
	kv KV
}

// NewKVRepository stores the settings as one JSON document in a
// key-value store.
func NewKVRepository(kv KV) Repository {
	return &kvRepository{kv: kv}
}

// Load returns the stored settings, or nil when none were saved yet.
func (r *kvRepository) Load(ctx context.Context) (*Blob, error) {
	raw, ok, err := r.kv.Get(ctx, blobKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}
	if !ok {
		return nil, nil
	}

	var b Blob
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	return &b, nil
}

func (r *kvRepository) Save(ctx context.Context, b Blob) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	if err := r.kv.Put(ctx, blobKey, string(raw)); err != nil {
		return errors.Wrap(err, "failed to save settings")
	}
	return nil
}

// Controller connects the settings repository to the store.
type Controller struct {
	store *store.Store
	repo  Repository
}

// NewController creates a settings controller.
func NewController(st *store.Store, repo Repository) *Controller {
	return &Controller{store: st, repo: repo}
}

// Init applies previously saved settings to the state. A missing blob
// leaves the defaults in place.
func (c *Controller) Init(ctx context.Context) error {
	b, err := c.repo.Load(ctx)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	c.apply(*b)
	return nil
}

// Save persists the settings and applies them to the state.
func (c *Controller) Save(ctx context.Context, b Blob) error {
	if err := c.repo.Save(ctx, b); err != nil {
		return err
	}
	c.apply(b)
	return nil
}

func (c *Controller) apply(b Blob) {
	c.store.SetState(store.Patch{
		ChatType:         store.Set(b.Type),
		ChatName:         store.Set(b.Name),
		ChatZip:          store.Set(b.Zip),
		AnnouncerEnabled: store.Set(b.Announcer),
	})
}
