package jobs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/ingest"
	"github.com/labstack/echo/v4"
)

type (
	Store interface {
		ListJobs() ([]*catalog.Job, error)
		GetJob(uuid.UUID) (*catalog.Job, error)
	}

	Service interface {
		CancelJob(uuid.UUID) error
	}

	Controller struct {
		store   Store
		service Service
	}
)

func New(store Store, service Service) *Controller {
	return &Controller{store: store, service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("", controller.list)
	eg.GET("/:id", controller.get)
	eg.DELETE("/:id", controller.cancel)
}

func (controller *Controller) list(ec echo.Context) error {
	jobs, err := controller.store.ListJobs()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to list jobs: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, jobs)
}

// get returns the job, including the per-video entries recorded so far.
func (controller *Controller) get(ec echo.Context) error {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Job ID is not a valid UUID")
	}

	job, err := controller.store.GetJob(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Job with ID %s does not exist", id))
		}

		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to get job: %s", err.Error()))
	}

	return ec.JSON(http.StatusOK, job)
}

// cancel cancels the job. A queued job is cancelled immediately, whereas a
// running job is cancelled asynchronously (poll the job for it's final status).
func (controller *Controller) cancel(ec echo.Context) error {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Job ID is not a valid UUID")
	}

	if err := controller.service.CancelJob(id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Job with ID %s does not exist", id))
		case errors.Is(err, ingest.ErrJobNotCancellable):
			return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("Job with ID %s has already finished", id))
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to cancel job: %s", err.Error()))
		}
	}

	return ec.NoContent(http.StatusAccepted)
}
