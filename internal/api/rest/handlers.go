package rest

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo"

	"github.com/solfeggio/quaver/internal/app/settings"
	"github.com/solfeggio/quaver/internal/app/store"
	"github.com/solfeggio/quaver/internal/domain/playlist"
	"github.com/solfeggio/quaver/internal/domain/track"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// upstreamError maps a failed catalog fetch to a gateway error.
func upstreamError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.GetState())
}

type hashResponse struct {
	Hash string `json:"hash"`
}

func (s *Server) getHash(c echo.Context) error {
	return c.JSON(http.StatusOK, hashResponse{Hash: s.loc.Hash()})
}

type putHashRequest struct {
	Hash string `json:"hash"`
}

// putHash behaves like typing a new hash into the address bar: the
// sync controller picks the change up and navigates.
func (s *Server) putHash(c echo.Context) error {
	var req putHashRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Hash == "" {
		return badRequest(c, "hash is required")
	}

	s.loc.SetHash(req.Hash)
	return c.JSON(http.StatusOK, s.store.GetState())
}

type navigateRequest struct {
	View string `json:"view"`
	ID   string `json:"id"`
	Page int    `json:"page"`
}

func (s *Server) navigate(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	view := store.View(req.View)
	if !view.Valid() {
		return badRequest(c, fmt.Sprintf("unknown view: %s", req.View))
	}
	if view.IsDetail() && req.ID == "" {
		return badRequest(c, "detail view requires an id")
	}

	if err := s.sync.Navigate(c.Request().Context(), view, req.ID, req.Page); err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, s.store.GetState())
}

func (s *Server) search(c echo.Context) error {
	term := c.QueryParam("term")
	if term == "" {
		return badRequest(c, "term is required")
	}

	if err := s.store.SearchByParam(c.Request().Context(), term); err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, s.store.GetState().SearchResults)
}

type songListRequest struct {
	Tracks    []track.Track `json:"tracks"`
	CurrentID string        `json:"currentId"`
}

func (s *Server) putSongList(c echo.Context) error {
	var req songListRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	var current *track.Track
	if req.CurrentID != "" {
		for i := range req.Tracks {
			if req.Tracks[i].FileKey == req.CurrentID {
				current = &req.Tracks[i]
				break
			}
		}
		if current == nil {
			return badRequest(c, fmt.Sprintf("currentId %q not in tracks", req.CurrentID))
		}
	}

	s.store.SetSongList(req.Tracks, current)
	return c.JSON(http.StatusOK, s.store.GetState())
}

type queueRequest struct {
	Track track.Track `json:"track"`
}

func (s *Server) addToQueue(c echo.Context) error {
	var req queueRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Track.FileKey == "" {
		return badRequest(c, "track fileKey is required")
	}

	s.store.AddToQueue(req.Track)
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Added %s to queue", req.Track.Title),
	})
}

type playbackResponse struct {
	Playing     bool         `json:"playing"`
	PositionMs  int64        `json:"positionMs"`
	CurrentSong *track.Track `json:"currentSong"`
}

func (s *Server) getPlayback(c echo.Context) error {
	return c.JSON(http.StatusOK, playbackResponse{
		Playing:     s.player.IsPlaying(),
		PositionMs:  s.player.Position().Milliseconds(),
		CurrentSong: s.store.GetState().CurrentSong,
	})
}

func (s *Server) play(c echo.Context) error {
	if s.store.GetState().CurrentSong == nil {
		return badRequest(c, "nothing to play")
	}
	if err := s.player.Resume(); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return s.getPlayback(c)
}

func (s *Server) stop(c echo.Context) error {
	if err := s.player.Stop(); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return s.getPlayback(c)
}

func (s *Server) next(c echo.Context) error {
	s.store.AdvanceTrack(1)
	return c.JSON(http.StatusOK, s.store.GetState())
}

func (s *Server) prev(c echo.Context) error {
	s.store.AdvanceTrack(-1)
	return c.JSON(http.StatusOK, s.store.GetState())
}

func (s *Server) putSettings(c echo.Context) error {
	var req settings.Blob
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := s.settings.Save(c.Request().Context(), req); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, s.store.GetState())
}

// uiRequest carries pointer fields so absent keys leave their state
// untouched.
type uiRequest struct {
	DrawerOpen   *bool        `json:"drawerOpen"`
	ListOpen     *bool        `json:"listOpen"`
	SongListOpen *bool        `json:"songListOpen"`
	MenuTrack    *track.Track `json:"menuTrack"`
}

func (s *Server) putUI(c echo.Context) error {
	var req uiRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	var p store.Patch
	if req.DrawerOpen != nil {
		p.DrawerOpen = store.Set(*req.DrawerOpen)
	}
	if req.ListOpen != nil {
		p.ListOpen = store.Set(*req.ListOpen)
	}
	if req.SongListOpen != nil {
		p.SongListOpen = store.Set(*req.SongListOpen)
	}
	if req.MenuTrack != nil {
		p.MenuTrack = store.Set(req.MenuTrack)
	}

	s.store.SetState(p)
	return c.JSON(http.StatusOK, s.store.GetState())
}

type updatePlaylistRequest struct {
	Playlist playlist.Playlist `json:"playlist"`
}

func (s *Server) updatePlaylist(c echo.Context) error {
	var req updatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Playlist.Key == "" {
		return badRequest(c, "playlist key is required")
	}

	err := s.store.UpdateList(c.Request().Context(), req.Playlist)
	if errors.Is(err, store.ErrNoMenuTrack) {
		return badRequest(c, err.Error())
	}
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, s.store.GetState())
}
