package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Trove/internal/api"
	"github.com/hbomb79/Trove/internal/database"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/hbomb79/Trove/internal/extract"
	"github.com/hbomb79/Trove/internal/ingest"
	"github.com/hbomb79/Trove/internal/stream"
	"github.com/hbomb79/Trove/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}

	RestGateway interface {
		RunnableService
		broadcaster
	}
)

// Trove represents the top-level object for the server, and is responsible
// for connecting to the database and initialising the services, stores
// and event handling.
type troveImpl struct {
	config   TroveConfig
	eventBus event.EventCoordinator
	db       database.Manager

	store           *dataOrchestrator
	ingestService   RunnableService
	restGateway     RestGateway
	activityService *activityService
}

func New(config TroveConfig) *troveImpl {
	log.Emit(logger.DEBUG, "Bootstrapping Trove services using config: %#v\n", config)
	return &troveImpl{
		config:   config,
		eventBus: event.New(),
		db:       database.New(),
	}
}

// Run will start all of Trove by connecting to the database and bringing up
// the ingest service, activity service and REST gateway.
//
// This function will not return until Trove is stopped.
// To stop Trove, the provided context must be cancelled. Errors from which Trove cannot recover
// will also cause Trove to stop.
func (trove *troveImpl) Run(parent context.Context) error {
	log.Emit(logger.NEW, "Connecting to %s database...\n", trove.config.Database.Driver)
	if err := trove.db.Connect(trove.config.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer trove.db.Close()

	if err := trove.initialiseServices(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)
	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel(fmt.Errorf("service %s crashed: %w", label, err))
	}

	wg := &sync.WaitGroup{}
	trove.spawnAsyncService(ctx, wg, trove.activityService, "activity-service", crashHandler)
	trove.spawnAsyncService(ctx, wg, trove.ingestService, "ingest-service", crashHandler)
	trove.spawnAsyncService(ctx, wg, trove.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Trove services spawned!\n")

	wg.Wait()
	log.Emit(logger.STOP, "Trove stopped\n")

	// Cancellation of the parent context is a clean shutdown
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

func (trove *troveImpl) initialiseServices() error {
	store, err := NewDataOrchestrator(trove.db)
	if err != nil {
		return err
	}
	trove.store = store

	extractor := extract.NewClient(trove.config.Extractor)
	orchestrator := ingest.NewOrchestrator(trove.config.Ingest, extractor, store, trove.eventBus)
	ingestService, err := ingest.New(trove.config.Ingest, orchestrator, store, trove.eventBus)
	if err != nil {
		return fmt.Errorf("failed to construct ingest service: %w", err)
	}
	trove.ingestService = ingestService

	trove.restGateway = api.NewRestGateway(&trove.config.RestConfig, ingestService, stream.New(store), store)
	trove.activityService = newActivityService(trove.restGateway, trove.eventBus)
	return nil
}

// spawnAsyncService will run the provided function/service as it's own
// go-routine, ensuring that the Trove service waitgroup is updated correctly
func (trove *troveImpl) spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(label string, crash func(string, error)) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		if err := service.Run(ctx); err != nil {
			crash(label, err)
		}
	}(serviceLabel, crashHandler)
}
