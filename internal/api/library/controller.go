package library

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/labstack/echo/v4"
)

type (
	Store interface {
		SearchVideos(term string) ([]*catalog.Video, error)
		GetStats() (*catalog.Stats, error)
	}

	// Controller serves the library wide endpoints (search and stats).
	Controller struct {
		store Store
	}
)

func New(store Store) *Controller {
	return &Controller{store: store}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/search", controller.search)
	eg.GET("/stats", controller.stats)
}

func (controller *Controller) search(ec echo.Context) error {
	term := strings.TrimSpace(ec.QueryParam("q"))
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query param 'q' is required")
	}

	videos, err := controller.store.SearchVideos(term)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to search videos: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, videos)
}

func (controller *Controller) stats(ec echo.Context) error {
	stats, err := controller.store.GetStats()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to get stats: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, stats)
}
