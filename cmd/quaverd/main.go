// Package main provides the player daemon entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/solfeggio/quaver/internal/api/rest"
	"github.com/solfeggio/quaver/internal/app/playback"
	"github.com/solfeggio/quaver/internal/app/settings"
	"github.com/solfeggio/quaver/internal/app/store"
	"github.com/solfeggio/quaver/internal/app/urlsync"
	"github.com/solfeggio/quaver/internal/domain/track"
	"github.com/solfeggio/quaver/internal/infra/config"
	"github.com/solfeggio/quaver/internal/infra/logger"
	"github.com/solfeggio/quaver/internal/infra/musicapi"
	"github.com/solfeggio/quaver/internal/infra/settingsdb"
)

var (
	app        = kingpin.New("quaverd", "quaver music player daemon")
	configPath = app.Flag("config", "Path to config file").Default("config/quaver.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main daemon logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	apiClient, err := musicapi.New(musicapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("failed to create music api client: %w", err)
	}

	st := store.New(apiClient)

	settingsDB, err := settingsdb.Open(cfg.Settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open settings database: %w", err)
	}
	defer settingsDB.Close()

	settingsCtl := settings.NewController(st, settings.NewKVRepository(settingsDB))
	if err := settingsCtl.Init(ctx); err != nil {
		zlog.Warn().Err(err).Msg("Failed to restore settings, continuing with defaults")
	}
	if cfg.Playback.AnnouncerEnabled {
		st.SetState(store.Patch{AnnouncerEnabled: store.Set(true)})
	}

	backend, err := playback.NewBackendFromConfig(cfg.Playback.Backend)
	if err != nil {
		return fmt.Errorf("failed to create playback backend: %w", err)
	}

	player := playback.NewController(st, backend, logAnnouncer(st), apiClient.StreamURL)
	player.Init()
	defer player.Close()

	loc := urlsync.NewMemoryLocation("")
	sync := urlsync.New(st, loc)
	if err := sync.Init(ctx); err != nil {
		zlog.Warn().Err(err).Msg("Failed to apply initial location")
	}
	defer sync.Close()

	// Populate the dashboard up front; the catalog being down at boot
	// is not fatal.
	if err := st.LoadDash(ctx); err != nil {
		zlog.Warn().Err(err).Msg("Failed to load dashboard")
	}
	if err := st.Rematch(ctx); err != nil {
		zlog.Warn().Err(err).Msg("Failed to load playlist library")
	}

	server := rest.NewServer(st, sync, loc, player, settingsCtl)

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.Start(cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// logAnnouncer writes track introductions to the log. The spoken
// announcer lives in the client; the daemon only records what it would
// have said.
func logAnnouncer(st *store.Store) playback.Announcer {
	return playback.AnnouncerFunc(func(_ context.Context, t track.Track) error {
		state := st.GetState()
		zlog.Info().
			Str("title", t.Title).
			Str("artist", t.Artist).
			Str("host", state.ChatName).
			Msg("Now playing")
		return nil
	})
}
