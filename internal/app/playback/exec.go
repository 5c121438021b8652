package playback

import (
	"os/exec"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// ExecConfig represents exec backend configuration.
type ExecConfig struct {
	// Command is the player executable; the stream URL is appended to
	// Args as the final argument.
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// ExecBackend plays streams by running an external player process, one
// process per track. The process exiting with status zero counts as
// the stream ending; any other exit is a playback error.
type ExecBackend struct {
	cfg ExecConfig

	mu      sync.Mutex
	url     string
	cmd     *exec.Cmd
	gen     uint64
	started time.Time

	onEnded func()
	onError func(error)
}

// NewExecBackend creates an exec backend from raw backend settings.
func NewExecBackend(settings map[string]any) (*ExecBackend, error) {
	var cfg ExecConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode exec backend settings")
	}
	if cfg.Command == "" {
		return nil, errors.New("exec backend requires a command")
	}
	return &ExecBackend{cfg: cfg}, nil
}

func (b *ExecBackend) Load(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.killLocked()
	b.url = url
	return nil
}

func (b *ExecBackend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.url == "" {
		return errors.New("no stream loaded")
	}
	b.killLocked()

	args := make([]string, 0, len(b.cfg.Args)+1)
	args = append(args, b.cfg.Args...)
	args = append(args, b.url)

	cmd := exec.Command(b.cfg.Command, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start player %q", b.cfg.Command)
	}

	b.gen++
	gen := b.gen
	b.cmd = cmd
	b.started = time.Now()

	go b.wait(cmd, gen)
	return nil
}

// wait reaps the player process. A Stop or a newer Play bumps the
// generation, in which case the exit belongs to a superseded process
// and is ignored.
func (b *ExecBackend) wait(cmd *exec.Cmd, gen uint64) {
	err := cmd.Wait()

	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		return
	}
	b.cmd = nil
	ended, failed := b.onEnded, b.onError
	b.mu.Unlock()

	if err != nil {
		zlog.Debug().Err(err).Str("command", b.cfg.Command).Msg("player process exited abnormally")
		if failed != nil {
			failed(errors.Wrapf(err, "player %q failed", b.cfg.Command))
		}
		return
	}
	if ended != nil {
		ended()
	}
}

func (b *ExecBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.killLocked()
	b.url = ""
	return nil
}

// killLocked terminates the running player, if any, and detaches its
// reaper by bumping the generation.
func (b *ExecBackend) killLocked() {
	if b.cmd == nil {
		return
	}
	b.gen++
	if b.cmd.Process != nil {
		if err := b.cmd.Process.Kill(); err != nil {
			zlog.Debug().Err(err).Msg("failed to kill player process")
		}
	}
	b.cmd = nil
}

func (b *ExecBackend) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cmd == nil {
		return 0
	}
	return time.Since(b.started)
}

func (b *ExecBackend) OnEnded(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEnded = fn
}

func (b *ExecBackend) OnError(fn func(error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}
