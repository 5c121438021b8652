// Package playback drives an audio backend from the now-playing state.
package playback

import "time"

// Backend plays one audio stream at a time. Implementations are not
// required to be safe for concurrent use; the controller serializes
// all calls.
type Backend interface {
	// Load prepares the stream at url, replacing any loaded stream.
	Load(url string) error
	// Play starts or resumes the loaded stream.
	Play() error
	// Stop halts playback and discards the loaded stream.
	Stop() error
	// Position returns the elapsed play time of the current stream.
	Position() time.Duration
	// OnEnded registers the callback invoked when a stream plays to
	// completion.
	OnEnded(fn func())
	// OnError registers the callback invoked on asynchronous playback
	// failures.
	OnError(fn func(error))
}
