package streams

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/stream"
	"github.com/hbomb79/Trove/pkg/logger"
	"github.com/labstack/echo/v4"
)

const (
	headerAcceptRanges = "Accept-Ranges"
	headerContentRange = "Content-Range"
	headerRange        = "Range"
)

var log = logger.Get("StreamsController")

type (
	Service interface {
		OpenVideo(id int64) (*stream.Media, error)
		ThumbnailPath(id int64) (string, error)
	}

	Controller struct {
		service Service
	}
)

func New(service Service) *Controller {
	return &Controller{service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/stream-by-id/:id", controller.streamByID)
	eg.GET("/thumbnail/:id", controller.thumbnail)
}

// streamByID streams the file of a completed video. Requests with a single
// byte Range are answered with 206 and only the requested bytes, otherwise
// the whole file is sent.
func (controller *Controller) streamByID(ec echo.Context) error {
	id, err := parseID(ec)
	if err != nil {
		return err
	}

	media, err := controller.service.OpenVideo(id)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("Video with ID %d cannot be streamed", id))
	}
	defer media.Close()

	res := ec.Response()
	res.Header().Set(headerAcceptRanges, "bytes")
	res.Header().Set(echo.HeaderContentType, media.ContentType)

	section := media.Full()
	status := http.StatusOK
	if header := ec.Request().Header.Get(headerRange); header != "" {
		byteRange, err := stream.ParseRange(header, media.Size)
		if err != nil {
			if errors.Is(err, stream.ErrUnsatisfiableRange) {
				res.Header().Set(headerContentRange, fmt.Sprintf("bytes */%d", media.Size))
				return echo.NewHTTPError(http.StatusRequestedRangeNotSatisfiable, err.Error())
			}

			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		section = media.Section(byteRange)
		status = http.StatusPartialContent
		res.Header().Set(headerContentRange, byteRange.ContentRange(media.Size))
	}

	res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(section.Size(), 10))
	res.WriteHeader(status)
	if _, err := stream.Copy(res, section); err != nil {
		// Headers have already been sent, so the client (which has most
		// likely gone away) cannot be told.
		log.Emit(logger.DEBUG, "Stream of video %d ended early: %v\n", id, err)
	}

	return nil
}

func (controller *Controller) thumbnail(ec echo.Context) error {
	id, err := parseID(ec)
	if err != nil {
		return err
	}

	path, err := controller.service.ThumbnailPath(id)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("Thumbnail for video %d not found", id))
	}

	return ec.File(path)
}

func parseID(ec echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ec.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Video ID must be an integer")
	}

	return id, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, message)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
