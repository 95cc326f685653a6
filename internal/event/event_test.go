package event_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Dispatch_DeliversToHandlers(t *testing.T) {
	bus := event.New()
	ch := make(event.HandlerChannel, 2)
	bus.RegisterHandlerChannel(ch, event.JOB_UPDATE, event.DOWNLOAD_PROGRESS)

	var received []event.Event
	bus.RegisterHandlerFunction(event.JOB_UPDATE, func(ev event.Event, _ event.Payload) {
		received = append(received, ev)
	})

	jobID := uuid.New()
	bus.Dispatch(event.JOB_UPDATE, jobID)
	bus.Dispatch(event.DOWNLOAD_PROGRESS, event.DownloadProgress{VideoID: "abc", Percent: 50})

	require.Len(t, ch, 2)
	first := <-ch
	assert.Equal(t, event.JOB_UPDATE, first.Event)
	assert.Equal(t, jobID, first.Payload)

	second := <-ch
	assert.Equal(t, event.DOWNLOAD_PROGRESS, second.Event)
	assert.Equal(t, "abc", second.Payload.(event.DownloadProgress).VideoID)

	assert.Equal(t, []event.Event{event.JOB_UPDATE}, received)
}

func Test_Dispatch_RejectsIllegalPayload(t *testing.T) {
	bus := event.New()
	ch := make(event.HandlerChannel, 3)
	bus.RegisterHandlerChannel(ch, event.JOB_UPDATE, event.DOWNLOAD_COMPLETE)

	bus.Dispatch(event.JOB_UPDATE, "not-a-uuid")
	bus.Dispatch(event.DOWNLOAD_COMPLETE, event.DownloadProgress{})
	bus.Dispatch(event.Event("unknown"), uuid.New())

	select {
	case ev := <-ch:
		t.Fatalf("expected no events to be delivered, got %v", ev)
	case <-time.After(10 * time.Millisecond):
	}
}
