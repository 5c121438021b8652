package playback

import (
	"github.com/cockroachdb/errors"

	"github.com/solfeggio/quaver/internal/infra/config"
)

// NewBackendFromConfig creates the audio backend named by the
// configuration.
func NewBackendFromConfig(cfg config.BackendConfig) (Backend, error) {
	switch cfg.Type {
	case "", "null":
		return NewNullBackend(), nil
	case "exec":
		return NewExecBackend(cfg.Settings)
	default:
		return nil, errors.Newf("unknown playback backend type: %s", cfg.Type)
	}
}
