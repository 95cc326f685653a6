package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/extract"
	"github.com/hbomb79/Trove/internal/ingest"
	"github.com/hbomb79/Trove/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIngestor stands in for the orchestrator. When block is set, downloads
// wait for the context to be cancelled before returning.
type fakeIngestor struct {
	block   bool
	started chan string
}

func (f *fakeIngestor) DownloadVideo(ctx context.Context, url string, _ []string, _ string) *ingest.VideoResult {
	if hook := ingest.ProgressHookFrom(ctx); hook != nil {
		hook(extract.Progress{Percent: 50})
	}
	if f.started != nil {
		f.started <- url
	}
	if f.block {
		<-ctx.Done()
		return &ingest.VideoResult{Status: ingest.StatusError, Message: context.Cause(ctx).Error(), Err: context.Cause(ctx)}
	}

	return &ingest.VideoResult{Status: ingest.StatusSuccess, Message: "ok", VideoID: "abc", Title: "Title " + url}
}

func (f *fakeIngestor) DownloadPlaylist(_ context.Context, url string, _ []string, onEntry ingest.EntryCallback) *ingest.PlaylistResult {
	results := []ingest.EntryResult{
		{Position: 0, URL: url + "#0", VideoResult: ingest.VideoResult{Status: ingest.StatusSuccess, Title: "First"}},
		{Position: 1, URL: url + "#1", VideoResult: ingest.VideoResult{Status: ingest.StatusError, Message: "video unavailable"}},
	}
	for _, r := range results {
		onEntry(r, len(results))
	}

	return &ingest.PlaylistResult{Status: ingest.StatusSuccess, Message: "1 of 2 videos downloaded", Total: 2, Results: results}
}

type jobStore interface {
	ingest.JobStore
	ListJobs() ([]*catalog.Job, error)
}

// finishGate holds every FinishJob call until released, reporting the
// job ID on finishing as each call arrives.
type finishGate struct {
	jobStore
	finishing chan uuid.UUID
	release   chan struct{}
	once      sync.Once
}

func (gate *finishGate) FinishJob(id uuid.UUID, status catalog.JobStatus, message string) error {
	gate.finishing <- id
	<-gate.release
	return gate.jobStore.FinishJob(id, status, message)
}

func (gate *finishGate) open() { gate.once.Do(func() { close(gate.release) }) }

type jobService interface {
	QueueVideo(string, []string) (*catalog.Job, error)
	QueuePlaylist(string, []string) (*catalog.Job, error)
	CancelJob(uuid.UUID) error
}

func newJobStore(t *testing.T) jobStore {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	return store
}

func startService(t *testing.T, ingestor *fakeIngestor) (jobService, jobStore) {
	store := newJobStore(t)
	return runService(t, ingestor, store), store
}

func runService(t *testing.T, ingestor *fakeIngestor, store ingest.JobStore) jobService {
	service, err := ingest.New(testConfig(t), ingestor, store, defaultEventBus)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, service.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return service
}

func awaitStatus(t *testing.T, store jobStore, id uuid.UUID, status catalog.JobStatus) *catalog.Job {
	var job *catalog.Job
	require.Eventually(t, func() bool {
		j, err := store.GetJob(id)
		if err != nil {
			return false
		}
		job = j
		return j.Status == status
	}, 5*time.Second, 10*time.Millisecond, "job %s never reached status %s", id, status)

	return job
}

func TestService_VideoJobCompletes(t *testing.T) {
	service, store := startService(t, &fakeIngestor{})

	job, err := service.QueueVideo("https://youtu.be/abc", []string{"cats"})
	require.NoError(t, err)
	assert.Equal(t, catalog.JobQueued, job.Status)

	finished := awaitStatus(t, store, job.ID, catalog.JobCompleted)
	assert.Equal(t, 100, finished.Progress)
	assert.Equal(t, "downloaded Title https://youtu.be/abc", finished.Message)
	require.Len(t, finished.Entries, 1)
	assert.Equal(t, catalog.EntrySuccess, finished.Entries[0].Status)
}

func TestService_PlaylistJobRecordsEntries(t *testing.T) {
	service, store := startService(t, &fakeIngestor{})

	job, err := service.QueuePlaylist("https://youtube.com/playlist?list=PL1", nil)
	require.NoError(t, err)

	finished := awaitStatus(t, store, job.ID, catalog.JobCompleted)
	assert.Equal(t, "1 of 2 videos downloaded", finished.Message)
	require.Len(t, finished.Entries, 2)
	assert.Equal(t, catalog.EntrySuccess, finished.Entries[0].Status)
	assert.Equal(t, catalog.EntryError, finished.Entries[1].Status)
	assert.Equal(t, "video unavailable", finished.Entries[1].Message)
}

func TestService_CancelRunningAndQueuedJobs(t *testing.T) {
	ingestor := &fakeIngestor{block: true, started: make(chan string, 1)}
	service, store := startService(t, ingestor)

	running, err := service.QueueVideo("https://youtu.be/running", nil)
	require.NoError(t, err)
	select {
	case <-ingestor.started:
	case <-time.After(5 * time.Second):
		t.Fatal("job was never started")
	}

	// Single worker, so this job stays queued behind the running one
	queued, err := service.QueueVideo("https://youtu.be/queued", nil)
	require.NoError(t, err)

	require.NoError(t, service.CancelJob(queued.ID))
	awaitStatus(t, store, queued.ID, catalog.JobCancelled)

	require.NoError(t, service.CancelJob(running.ID))
	awaitStatus(t, store, running.ID, catalog.JobCancelled)

	assert.ErrorIs(t, service.CancelJob(running.ID), ingest.ErrJobNotCancellable)
	assert.ErrorIs(t, service.CancelJob(uuid.New()), catalog.ErrNotFound)
}

func TestService_CancelWhileFinishingIsRejected(t *testing.T) {
	store := newJobStore(t)
	gate := &finishGate{jobStore: store, finishing: make(chan uuid.UUID, 1), release: make(chan struct{})}
	service := runService(t, &fakeIngestor{}, gate)
	t.Cleanup(gate.open)

	job, err := service.QueueVideo("https://youtu.be/abc", nil)
	require.NoError(t, err)

	select {
	case id := <-gate.finishing:
		require.Equal(t, job.ID, id)
	case <-time.After(5 * time.Second):
		t.Fatal("job never reached FinishJob")
	}

	assert.ErrorIs(t, service.CancelJob(job.ID), ingest.ErrJobNotCancellable, "a job being finished must not be cancellable")

	gate.open()
	awaitStatus(t, store, job.ID, catalog.JobCompleted)
}
