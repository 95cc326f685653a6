package videos

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
		ListVideos(isShort *bool) ([]*catalog.Video, error)
		GetVideoWithTags(id int64) (*catalog.VideoWithTags, error)
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
	eg.GET("/:id", controller.get)
}

// list returns the completed videos in the catalog, newest first. The optional
// 'is_short' query param restricts the list to shorts (true) or regular videos (false).
func (controller *Controller) list(ec echo.Context) error {
	var isShort *bool
	if raw := ec.QueryParam("is_short"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Query param 'is_short' must be a boolean, got '%s'", raw))
		}
		isShort = &v
	}

	videos, err := controller.store.ListVideos(isShort)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to list videos: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, videos)
}

func (controller *Controller) get(ec echo.Context) error {
	id, err := strconv.ParseInt(ec.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Video ID must be an integer")
	}

	video, err := controller.store.GetVideoWithTags(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Video with ID %d does not exist", id))
		}

		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to get video: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, video)
}
