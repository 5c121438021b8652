package playback

import (
	"sync"
	"time"
)

// NullBackend accepts every command and produces no sound. It is the
// default backend for deployments where an external client handles the
// actual audio.
type NullBackend struct {
	mu      sync.Mutex
	url     string
	playing bool
	started time.Time
}

// NewNullBackend creates a silent backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

func (b *NullBackend) Load(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
	b.playing = false
	return nil
}

func (b *NullBackend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playing = true
	b.started = time.Now()
	return nil
}

func (b *NullBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = ""
	b.playing = false
	return nil
}

func (b *NullBackend) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.playing {
		return 0
	}
	return time.Since(b.started)
}

func (b *NullBackend) OnEnded(func())      {}
func (b *NullBackend) OnError(func(error)) {}
