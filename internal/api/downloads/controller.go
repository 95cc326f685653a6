package downloads

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/labstack/echo/v4"
)

const StatusQueued = "queued"

type (
	DownloadRequest struct {
		URL  string   `json:"url" validate:"required,url"`
		Tags []string `json:"tags" validate:"omitempty,dive,required,max=64"`
	}

	// DownloadResponse is returned as soon as the download has been
	// queued; progress is reported by the job (see the jobs endpoints).
	DownloadResponse struct {
		Status  string    `json:"status"`
		Message string    `json:"message"`
		JobID   uuid.UUID `json:"job_id"`
	}

	Service interface {
		QueueVideo(url string, tags []string) (*catalog.Job, error)
		QueuePlaylist(url string, tags []string) (*catalog.Job, error)
	}

	Controller struct {
		service  Service
		validate *validator.Validate
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{service: service, validate: validate}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/download-video", controller.downloadVideo)
	eg.POST("/download-playlist", controller.downloadPlaylist)
}

func (controller *Controller) downloadVideo(ec echo.Context) error {
	return controller.queue(ec, controller.service.QueueVideo, "Video download queued")
}

func (controller *Controller) downloadPlaylist(ec echo.Context) error {
	return controller.queue(ec, controller.service.QueuePlaylist, "Playlist download queued")
}

func (controller *Controller) queue(ec echo.Context, queueFn func(string, []string) (*catalog.Job, error), message string) error {
	var request DownloadRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	job, err := queueFn(request.URL, request.Tags)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to queue download: %s", err.Error()))
	}

	return ec.JSON(http.StatusAccepted, DownloadResponse{Status: StatusQueued, Message: message, JobID: job.ID})
}
