package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/hbomb79/Trove/pkg/logger"
)

const (
	DEBOUNCE_DURATION  time.Duration = time.Second
	MAX_TIMER_DURATION time.Duration = time.Second * 3

	RAPID_EVENT_DEBOUNCE_DURATION  time.Duration = time.Millisecond * 250
	RAPID_EVENT_MAX_TIMER_DURATION time.Duration = time.Second
)

type (
	broadcastHandler func(payload event.Payload) error

	broadcaster interface {
		BroadcastJobUpdate(uuid.UUID) error
		BroadcastDownloadProgress(event.DownloadProgress) error
		BroadcastDownloadComplete(event.DownloadComplete) error
	}

	// eventKey identifies the resource an event refers to, so that
	// bursts of events for the same resource are collapsed in to one broadcast.
	eventKey struct {
		ev  event.Event
		key string
	}

	pendingBroadcast struct {
		debounce *time.Timer
		max      *time.Timer
		payload  event.Payload
		handler  broadcastHandler
	}

	// activityService listens for events on the event bus and relays
	// them to the activity socket. Rapid events (job progress, download progress)
	// are debounced per resource, and only the latest payload is sent.
	activityService struct {
		*sync.Mutex
		broadcaster
		eventBus event.EventHandler
		pending  map[eventKey]*pendingBroadcast
	}
)

func newActivityService(broadcaster broadcaster, eventBus event.EventHandler) *activityService {
	return &activityService{
		Mutex:       &sync.Mutex{},
		broadcaster: broadcaster,
		eventBus:    eventBus,
		pending:     make(map[eventKey]*pendingBroadcast),
	}
}

func (service *activityService) Run(ctx context.Context) error {
	messageChan := make(chan event.HandlerEvent, 100)
	service.eventBus.RegisterHandlerChannel(messageChan,
		event.JOB_UPDATE, event.JOB_COMPLETE, event.DOWNLOAD_PROGRESS, event.DOWNLOAD_COMPLETE)

	log.Emit(logger.NEW, "Activity service started\n")
	for {
		select {
		case ev := <-messageChan:
			if err := service.handleEvent(ev); err != nil {
				log.Emit(logger.ERROR, "Handling of event %v failed: %v\n", ev, err)
			}
		case <-ctx.Done():
			service.stopAll()
			log.Emit(logger.STOP, "Activity service closed\n")
			return nil
		}
	}
}

func (service *activityService) handleEvent(ev event.HandlerEvent) error {
	switch payload := ev.Payload.(type) {
	case uuid.UUID:
		key := eventKey{ev: event.JOB_UPDATE, key: payload.String()}
		handler := func(p event.Payload) error { return service.BroadcastJobUpdate(p.(uuid.UUID)) }
		if ev.Event == event.JOB_COMPLETE {
			service.broadcastNow(key, payload, handler)
		} else {
			service.scheduleEventBroadcast(key, payload, handler)
		}
	case event.DownloadProgress:
		key := eventKey{ev: event.DOWNLOAD_PROGRESS, key: payload.VideoID}
		service.scheduleRapidEventBroadcast(key, payload, func(p event.Payload) error {
			return service.BroadcastDownloadProgress(p.(event.DownloadProgress))
		})
	case event.DownloadComplete:
		// Any pending progress for this video is now stale
		service.cancel(eventKey{ev: event.DOWNLOAD_PROGRESS, key: payload.VideoID})
		return service.BroadcastDownloadComplete(payload)
	default:
		return fmt.Errorf("illegal payload %T for event %s", ev.Payload, ev.Event)
	}

	return nil
}

func (service *activityService) scheduleEventBroadcast(key eventKey, payload event.Payload, handler broadcastHandler) {
	service._scheduleEventBroadcast(key, payload, handler, DEBOUNCE_DURATION, MAX_TIMER_DURATION)
}

func (service *activityService) scheduleRapidEventBroadcast(key eventKey, payload event.Payload, handler broadcastHandler) {
	service._scheduleEventBroadcast(key, payload, handler, RAPID_EVENT_DEBOUNCE_DURATION, RAPID_EVENT_MAX_TIMER_DURATION)
}

// _scheduleEventBroadcast (re)starts the debounce timer for the resource, and
// starts a max timer if one is not already running. Whichever timer fires first
// broadcasts the latest payload seen for the resource.
func (service *activityService) _scheduleEventBroadcast(key eventKey, payload event.Payload, handler broadcastHandler, debounceTime time.Duration, maxTime time.Duration) {
	service.Lock()
	defer service.Unlock()

	fire := func() { service.flush(key) }
	pending, ok := service.pending[key]
	if !ok {
		pending = &pendingBroadcast{max: time.AfterFunc(maxTime, fire)}
		service.pending[key] = pending
	} else {
		pending.debounce.Stop()
	}

	pending.payload = payload
	pending.handler = handler
	pending.debounce = time.AfterFunc(debounceTime, fire)
}

// broadcastNow discards any pending broadcast for the resource and
// broadcasts the payload immediately.
func (service *activityService) broadcastNow(key eventKey, payload event.Payload, handler broadcastHandler) {
	service.cancel(key)
	if err := handler(payload); err != nil {
		log.Emit(logger.ERROR, "Broadcast of %v failed: %v\n", key, err)
	}
}

func (service *activityService) flush(key eventKey) {
	pending := service.take(key)
	if pending == nil {
		return
	}

	if err := pending.handler(pending.payload); err != nil {
		log.Emit(logger.ERROR, "Broadcast of %v failed: %v\n", key, err)
	}
}

func (service *activityService) cancel(key eventKey) {
	service.take(key)
}

// take removes the pending broadcast for the key (stopping it's timers) and
// returns it. Nil is returned if no broadcast was pending.
func (service *activityService) take(key eventKey) *pendingBroadcast {
	service.Lock()
	defer service.Unlock()

	pending, ok := service.pending[key]
	if !ok {
		return nil
	}

	pending.debounce.Stop()
	pending.max.Stop()
	delete(service.pending, key)
	return pending
}

func (service *activityService) stopAll() {
	service.Lock()
	defer service.Unlock()

	for key, pending := range service.pending {
		pending.debounce.Stop()
		pending.max.Stop()
		delete(service.pending, key)
	}
}
