package playlists

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/labstack/echo/v4"
)

type (
	Store interface {
		ListPlaylists() ([]*catalog.Playlist, error)
		ListPlaylistVideos(playlistRowID int64) ([]*catalog.PlaylistVideo, error)
	}

	Controller struct {
		store Store
	}
)

func New(store Store) *Controller {
	return &Controller{store: store}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("", controller.list)
	eg.GET("/:id/videos", controller.listVideos)
}

func (controller *Controller) list(ec echo.Context) error {
	playlists, err := controller.store.ListPlaylists()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to list playlists: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, playlists)
}

// listVideos returns the downloaded videos of the playlist in playlist order.
func (controller *Controller) listVideos(ec echo.Context) error {
	id, err := strconv.ParseInt(ec.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Playlist ID must be an integer")
	}

	videos, err := controller.store.ListPlaylistVideos(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Playlist with ID %d does not exist", id))
		}

		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to list playlist videos: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, videos)
}
