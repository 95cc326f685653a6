package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/hbomb79/Trove/internal/extract"
	"github.com/hbomb79/Trove/pkg/logger"
	tsync "github.com/hbomb79/Trove/pkg/sync"
	"github.com/hbomb79/Trove/pkg/worker"
)

var (
	ErrJobCancelled      = errors.New("job cancelled")
	ErrJobNotCancellable = errors.New("job has already finished")
	ErrServiceStopped    = errors.New("ingest service stopped")
)

type (
	// JobStore is the subset of the catalog which persists
	// ingestion jobs and their entries.
	JobStore interface {
		CreateJob(job *catalog.Job) error
		ClaimNextJob() (*catalog.Job, error)
		UpdateJobProgress(id uuid.UUID, progress int, message string) error
		FinishJob(id uuid.UUID, status catalog.JobStatus, message string) error
		CancelQueuedJob(id uuid.UUID) (bool, error)
		AppendJobEntry(entry *catalog.JobEntry) error
		GetJob(id uuid.UUID) (*catalog.Job, error)
		FailInterruptedJobs() (int64, error)
	}

	ingestor interface {
		DownloadVideo(ctx context.Context, url string, tags []string, playlistName string) *VideoResult
		DownloadPlaylist(ctx context.Context, url string, tags []string, onEntry EntryCallback) *PlaylistResult
	}

	// ingestService is responsible for processing the ingestion jobs
	// persisted in the catalog. Jobs are:
	// - Queued by the API, which returns the job ID immediately
	// - Claimed by the first available worker in creation order
	// - Run by the orchestrator, with progress and per-entry results
	//   persisted as the job runs
	// - Moved to a terminal status once finished, cancelled, or interrupted
	ingestService struct {
		*sync.Mutex
		config       Config
		orchestrator ingestor
		store        JobStore
		eventBus     event.EventDispatcher
		workerPool   *worker.WorkerPool

		ctx     context.Context
		cancels tsync.TypedSyncMap[uuid.UUID, context.CancelCauseFunc]
	}
)

// New creates a new ingest service. The library path in the config is
// created if it does not yet exist; if it exists but is not a directory an
// error is returned.
func New(config Config, orchestrator ingestor, store JobStore, eventBus event.EventDispatcher) (*ingestService, error) {
	if err := ensureDirectory(config.LibraryPath); err != nil {
		return nil, err
	}

	service := &ingestService{
		Mutex:        &sync.Mutex{},
		config:       config,
		orchestrator: orchestrator,
		store:        store,
		eventBus:     eventBus,
		workerPool:   worker.NewWorkerPool(),
	}

	for i := 0; i < max(1, config.Workers); i++ {
		label := fmt.Sprintf("ingest-worker-%d", i)
		if err := service.workerPool.PushWorker(worker.NewWorker(label, service.PerformJob)); err != nil {
			return nil, err
		}
	}

	return service, nil
}

// Run starts the worker pool and blocks until the context is cancelled. Any
// jobs left running by a previous process are marked as interrupted before
// the workers start. When the context is cancelled, the running jobs are
// interrupted and Run waits for the workers to exit.
func (service *ingestService) Run(ctx context.Context) error {
	if _, err := service.store.FailInterruptedJobs(); err != nil {
		return err
	}

	service.Lock()
	service.ctx = ctx
	service.Unlock()

	if err := service.workerPool.Start(); err != nil {
		return err
	}

	log.Emit(logger.NEW, "Ingest service started with %d worker(s)\n", max(1, service.config.Workers))
	service.wakeupWorkerPool()

	<-ctx.Done()
	service.cancels.Range(func(_ uuid.UUID, cancel context.CancelCauseFunc) bool {
		cancel(ErrServiceStopped)
		return true
	})
	service.workerPool.Close()

	log.Emit(logger.STOP, "Ingest service stopped\n")
	return nil
}

// QueueVideo persists a new job to download the video at the given URL and
// wakes the workers.
func (service *ingestService) QueueVideo(url string, tags []string) (*catalog.Job, error) {
	return service.queue(catalog.JobVideo, url, tags)
}

// QueuePlaylist persists a new job to download every video in the playlist at
// the given URL and wakes the workers.
func (service *ingestService) QueuePlaylist(url string, tags []string) (*catalog.Job, error) {
	return service.queue(catalog.JobPlaylist, url, tags)
}

func (service *ingestService) queue(kind catalog.JobKind, url string, tags []string) (*catalog.Job, error) {
	job := catalog.NewJob(kind, url, tags)
	if err := service.store.CreateJob(job); err != nil {
		return nil, err
	}

	log.Emit(logger.NEW, "Queued %s\n", job)
	service.eventBus.Dispatch(event.JOB_UPDATE, job.ID)
	service.wakeupWorkerPool()

	return job, nil
}

// CancelJob cancels the job with the given ID. A running job has it's context
// cancelled (the worker will then move it to the cancelled status), whereas a
// queued job is moved to the cancelled status immediately.
func (service *ingestService) CancelJob(id uuid.UUID) error {
	service.Lock()
	defer service.Unlock()

	if cancel, ok := service.cancels.Load(id); ok {
		log.Emit(logger.STOP, "Cancelling running job %s\n", id)
		cancel(ErrJobCancelled)
		return nil
	}

	cancelled, err := service.store.CancelQueuedJob(id)
	if err != nil {
		return err
	}
	if cancelled {
		log.Emit(logger.STOP, "Cancelled queued job %s\n", id)
		service.eventBus.Dispatch(event.JOB_COMPLETE, id)
		return nil
	}

	if _, err := service.store.GetJob(id); err != nil {
		return err
	}

	return ErrJobNotCancellable
}

// PerformJob is the worker function for the ingest service, which is called
// by the services WorkerPool.
// This function will claim the oldest queued job and run it to completion,
// returning false if there was no job to claim.
func (service *ingestService) PerformJob(w worker.Worker) (bool, error) {
	job, ctx, err := service.claimJob()
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return false, nil
		}

		return false, err
	}
	defer func() {
		if cancel, ok := service.cancels.LoadAndDelete(job.ID); ok {
			cancel(nil)
		}
	}()

	log.Emit(logger.INFO, "Worker %s claimed %s\n", w.Label(), job)
	service.eventBus.Dispatch(event.JOB_UPDATE, job.ID)

	var status catalog.JobStatus
	var message string
	switch job.Kind {
	case catalog.JobVideo:
		status, message = service.runVideoJob(ctx, job)
	case catalog.JobPlaylist:
		status, message = service.runPlaylistJob(ctx, job)
	default:
		status, message = catalog.JobError, fmt.Sprintf("unknown job kind %s", job.Kind)
	}

	if cause := service.releaseJob(ctx, job.ID); cause != nil {
		status, message = statusForCause(cause)
	}

	if err := service.store.FinishJob(job.ID, status, message); err != nil {
		return true, fmt.Errorf("failed to finish %s: %w", job, err)
	}

	log.Emit(logger.SUCCESS, "Finished %s with status %s (%s)\n", job, status, message)
	service.eventBus.Dispatch(event.JOB_COMPLETE, job.ID)
	return true, nil
}

func (service *ingestService) runVideoJob(ctx context.Context, job *catalog.Job) (catalog.JobStatus, string) {
	last := -1
	ctx = WithProgressHook(ctx, func(p extract.Progress) {
		if percent := int(p.Percent); percent != last {
			last = percent
			service.updateProgress(job, percent, "downloading")
		}
	})

	result := service.orchestrator.DownloadVideo(ctx, job.URL, job.Tags, "")
	service.appendEntry(job, EntryResult{Position: 0, URL: job.URL, VideoResult: *result})
	if result.Status != StatusSuccess {
		return catalog.JobError, result.Message
	}

	return catalog.JobCompleted, fmt.Sprintf("downloaded %s", result.Title)
}

func (service *ingestService) runPlaylistJob(ctx context.Context, job *catalog.Job) (catalog.JobStatus, string) {
	done := 0
	result := service.orchestrator.DownloadPlaylist(ctx, job.URL, job.Tags, func(entry EntryResult, total int) {
		done++
		service.appendEntry(job, entry)
		service.updateProgress(job, done*100/max(1, total), fmt.Sprintf("processed %d of %d videos", done, total))
	})
	if result.Status != StatusSuccess {
		return catalog.JobError, result.Message
	}

	return catalog.JobCompleted, result.Message
}

// claimJob claims the next queued job and registers a cancel function
// for it. The mutex is held so that CancelJob cannot observe a running
// job which is not yet cancellable.
func (service *ingestService) claimJob() (*catalog.Job, context.Context, error) {
	service.Lock()
	defer service.Unlock()

	if service.ctx == nil || service.ctx.Err() != nil {
		return nil, nil, catalog.ErrNotFound
	}

	job, err := service.store.ClaimNextJob()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancelCause(service.ctx)
	service.cancels.Store(job.ID, cancel)
	return job, ctx, nil
}

// releaseJob removes the cancel function of the job, so CancelJob no longer treats it
// as running, and returns the cause of the jobs context cancellation (if any). The
// cause is read under the mutex so a cancellation can never be accepted after it.
func (service *ingestService) releaseJob(ctx context.Context, id uuid.UUID) error {
	service.Lock()
	defer service.Unlock()

	cancel, ok := service.cancels.LoadAndDelete(id)
	cause := context.Cause(ctx)
	if ok {
		cancel(nil)
	}

	return cause
}

func (service *ingestService) updateProgress(job *catalog.Job, progress int, message string) {
	if err := service.store.UpdateJobProgress(job.ID, progress, message); err != nil {
		log.Emit(logger.WARNING, "Failed to update progress of %s: %v\n", job, err)
		return
	}

	service.eventBus.Dispatch(event.JOB_UPDATE, job.ID)
}

func (service *ingestService) appendEntry(job *catalog.Job, entry EntryResult) {
	status := catalog.EntrySuccess
	var videoRowID *int64
	if entry.Status != StatusSuccess {
		status = catalog.EntryError
	}
	if entry.VideoRowID != 0 {
		id := entry.VideoRowID
		videoRowID = &id
	}

	if err := service.store.AppendJobEntry(&catalog.JobEntry{
		JobID:      job.ID,
		Position:   entry.Position,
		URL:        entry.URL,
		Title:      entry.Title,
		Status:     status,
		Message:    entry.Message,
		VideoRowID: videoRowID,
	}); err != nil {
		log.Emit(logger.WARNING, "Failed to record entry %d of %s: %v\n", entry.Position, job, err)
	}
}

func (service *ingestService) wakeupWorkerPool() {
	if err := service.workerPool.WakeupWorkers(); err != nil {
		log.Emit(logger.DEBUG, "Unable to wake workers: %v\n", err)
	}
}

func statusForCause(cause error) (catalog.JobStatus, string) {
	switch {
	case errors.Is(cause, ErrJobCancelled):
		return catalog.JobCancelled, "cancelled"
	case errors.Is(cause, ErrServiceStopped):
		return catalog.JobError, "interrupted"
	default:
		return catalog.JobError, cause.Error()
	}
}

// ensureDirectory ensures the path is a directory, creating it if
// it's missing. If the path points to an existing FILE, an error is returned.
func ensureDirectory(path string) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("library path '%s' is not a directory", path)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(path, os.ModeDir|os.ModePerm); err != nil {
			return fmt.Errorf("library path '%s' could not be created: %w", path, err)
		}
	} else {
		return fmt.Errorf("library path '%s' could not be accessed: %w", path, err)
	}

	return nil
}
