// Package rest exposes the player over HTTP.
package rest

import (
	"context"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/solfeggio/quaver/internal/app/playback"
	"github.com/solfeggio/quaver/internal/app/settings"
	"github.com/solfeggio/quaver/internal/app/store"
	"github.com/solfeggio/quaver/internal/app/urlsync"
)

// Server is the HTTP front of the player.
type Server struct {
	echo     *echo.Echo
	store    *store.Store
	sync     *urlsync.Controller
	loc      urlsync.Location
	player   *playback.Controller
	settings *settings.Controller
}

// NewServer wires the HTTP routes to the application controllers.
func NewServer(st *store.Store, sync *urlsync.Controller, loc urlsync.Location, player *playback.Controller, sc *settings.Controller) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		store:    st,
		sync:     sync,
		loc:      loc,
		player:   player,
		settings: sc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("/health", s.health)
	api.GET("/state", s.getState)

	api.GET("/hash", s.getHash)
	api.PUT("/hash", s.putHash)
	api.POST("/navigate", s.navigate)

	api.GET("/search", s.search)

	api.PUT("/songlist", s.putSongList)
	api.POST("/queue", s.addToQueue)
	api.GET("/playback", s.getPlayback)
	api.POST("/playback/play", s.play)
	api.POST("/playback/stop", s.stop)
	api.POST("/playback/next", s.next)
	api.POST("/playback/prev", s.prev)

	api.PUT("/settings", s.putSettings)
	api.PUT("/ui", s.putUI)
	api.POST("/playlist/update", s.updatePlaylist)
}

// Start begins serving on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
