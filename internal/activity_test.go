package internal

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	sync.Mutex
	jobs     []uuid.UUID
	progress []event.DownloadProgress
	complete []event.DownloadComplete
}

func (r *recordingBroadcaster) BroadcastJobUpdate(id uuid.UUID) error {
	r.Lock()
	defer r.Unlock()
	r.jobs = append(r.jobs, id)
	return nil
}

func (r *recordingBroadcaster) BroadcastDownloadProgress(p event.DownloadProgress) error {
	r.Lock()
	defer r.Unlock()
	r.progress = append(r.progress, p)
	return nil
}

func (r *recordingBroadcaster) BroadcastDownloadComplete(c event.DownloadComplete) error {
	r.Lock()
	defer r.Unlock()
	r.complete = append(r.complete, c)
	return nil
}

func (r *recordingBroadcaster) snapshot() ([]uuid.UUID, []event.DownloadProgress, []event.DownloadComplete) {
	r.Lock()
	defer r.Unlock()
	return append([]uuid.UUID{}, r.jobs...), append([]event.DownloadProgress{}, r.progress...), append([]event.DownloadComplete{}, r.complete...)
}

func TestActivity_ProgressIsDebouncedToLatest(t *testing.T) {
	recorder := &recordingBroadcaster{}
	service := newActivityService(recorder, event.New())

	for _, percent := range []float64{10, 20, 30} {
		require.NoError(t, service.handleEvent(event.HandlerEvent{
			Event:   event.DOWNLOAD_PROGRESS,
			Payload: event.DownloadProgress{VideoID: "abc", Percent: percent},
		}))
	}

	require.Eventually(t, func() bool {
		_, progress, _ := recorder.snapshot()
		return len(progress) == 1
	}, time.Second*2, time.Millisecond*10)

	time.Sleep(RAPID_EVENT_MAX_TIMER_DURATION)
	_, progress, _ := recorder.snapshot()
	require.Len(t, progress, 1, "debounced progress must be broadcast exactly once")
	assert.Equal(t, float64(30), progress[0].Percent)
}

func TestActivity_JobCompleteSupersedesPendingUpdate(t *testing.T) {
	recorder := &recordingBroadcaster{}
	service := newActivityService(recorder, event.New())

	id := uuid.New()
	require.NoError(t, service.handleEvent(event.HandlerEvent{Event: event.JOB_UPDATE, Payload: id}))
	require.NoError(t, service.handleEvent(event.HandlerEvent{Event: event.JOB_COMPLETE, Payload: id}))

	jobs, _, _ := recorder.snapshot()
	assert.Equal(t, []uuid.UUID{id}, jobs, "completion is broadcast immediately")

	time.Sleep(DEBOUNCE_DURATION + 100*time.Millisecond)
	jobs, _, _ = recorder.snapshot()
	assert.Len(t, jobs, 1, "pending update must be discarded once the job completes")
}

func TestActivity_DownloadCompleteDropsStaleProgress(t *testing.T) {
	recorder := &recordingBroadcaster{}
	service := newActivityService(recorder, event.New())

	require.NoError(t, service.handleEvent(event.HandlerEvent{
		Event:   event.DOWNLOAD_PROGRESS,
		Payload: event.DownloadProgress{VideoID: "abc", Percent: 99},
	}))
	require.NoError(t, service.handleEvent(event.HandlerEvent{
		Event:   event.DOWNLOAD_COMPLETE,
		Payload: event.DownloadComplete{VideoID: "abc", VideoRowID: 1},
	}))

	time.Sleep(RAPID_EVENT_MAX_TIMER_DURATION + 100*time.Millisecond)
	_, progress, complete := recorder.snapshot()
	assert.Empty(t, progress)
	require.Len(t, complete, 1)
	assert.Equal(t, int64(1), complete[0].VideoRowID)
}

func TestActivity_RejectsUnknownPayload(t *testing.T) {
	service := newActivityService(&recordingBroadcaster{}, event.New())
	assert.Error(t, service.handleEvent(event.HandlerEvent{Event: event.JOB_UPDATE, Payload: "not a uuid"}))
}
