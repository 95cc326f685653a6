package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Trove/internal/api/downloads"
	"github.com/hbomb79/Trove/internal/api/jobs"
	"github.com/hbomb79/Trove/internal/api/library"
	"github.com/hbomb79/Trove/internal/api/playlists"
	"github.com/hbomb79/Trove/internal/api/streams"
	"github.com/hbomb79/Trove/internal/api/videos"
	"github.com/hbomb79/Trove/internal/http/websocket"
	"github.com/hbomb79/Trove/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// dataStore represents a union of all the controller store requirements
	dataStore interface {
		jobs.Store
		videos.Store
		playlists.Store
		library.Store
	}

	// ingestService represents a union of the controller requirements
	// of the ingestion job service
	ingestService interface {
		downloads.Service
		jobs.Service
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsibility
	// is to create the routes Trove exposes, and to manage ongoing web socket connections and events.
	RestGateway struct {
		*broadcaster
		config             *RestConfig
		ec                 *echo.Echo
		socket             *websocket.SocketHub
		downloadController controller
		jobController      controller
		videoController    controller
		playlistController controller
		libraryController  controller
		streamController   controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the various controllers. Each controller requires access
// to a data store or service, which are provided as arguments.
func NewRestGateway(
	config *RestConfig,
	ingestService ingestService,
	streamService streams.Service,
	store dataStore,
) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	validate := validator.New()
	socket := websocket.New()
	gateway := &RestGateway{
		broadcaster:        newBroadcaster(socket, store),
		config:             config,
		ec:                 ec,
		socket:             socket,
		downloadController: downloads.New(validate, ingestService),
		jobController:      jobs.New(store, ingestService),
		videoController:    videos.New(store),
		playlistController: playlists.New(store),
		libraryController:  library.New(store),
		streamController:   streams.New(streamService),
	}
	socket.WithConnectionCallback(gateway.connectionPayload)

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	ec.Use(middleware.CORS())
	ec.Pre(middleware.RemoveTrailingSlash())

	root := ec.Group("/api")
	root.GET("/activity/ws", func(ec echo.Context) error {
		gateway.socket.UpgradeToSocket(ec.Response(), ec.Request())
		return nil
	})

	gateway.downloadController.SetRoutes(root)
	gateway.libraryController.SetRoutes(root)
	gateway.streamController.SetRoutes(root)

	jobs := root.Group("/jobs")
	gateway.jobController.SetRoutes(jobs)

	videos := root.Group("/videos")
	gateway.videoController.SetRoutes(videos)

	playlists := root.Group("/playlists")
	gateway.playlistController.SetRoutes(playlists)

	return gateway
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.INFO, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	// Start websocket
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.socket.Start(ctx)
	}()

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// ServeHTTP exposes the router directly, allowing the gateway to be
// exercised without binding to a port.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

// StartSocket runs the activity socket hub until the context is cancelled.
// Run starts the hub automatically, so this is only required when the
// gateway is served via ServeHTTP.
func (gateway *RestGateway) StartSocket(ctx context.Context) {
	gateway.socket.Start(ctx)
}
