package api

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/hbomb79/Trove/internal/http/websocket"
	"github.com/hbomb79/Trove/pkg/logger"
)

const (
	TITLE_JOB_UPDATE        = "JOB_UPDATE"
	TITLE_DOWNLOAD_PROGRESS = "DOWNLOAD_PROGRESS"
	TITLE_DOWNLOAD_COMPLETE = "DOWNLOAD_COMPLETE"
)

type (
	JobUpdate struct {
		JobID uuid.UUID    `json:"job_id"`
		Job   *catalog.Job `json:"job"`
	}

	jobStore interface {
		GetJob(uuid.UUID) (*catalog.Job, error)
		ListJobs() ([]*catalog.Job, error)
	}

	broadcaster struct {
		socketHub *websocket.SocketHub
		jobStore  jobStore
	}
)

func newBroadcaster(socketHub *websocket.SocketHub, jobStore jobStore) *broadcaster {
	return &broadcaster{socketHub, jobStore}
}

// BroadcastJobUpdate sends the current state of the job to all clients. The
// job is loaded from the store at send time, so debounced updates always carry
// the latest progress.
func (hub *broadcaster) BroadcastJobUpdate(id uuid.UUID) error {
	job, err := hub.jobStore.GetJob(id)
	if err != nil {
		return fmt.Errorf("failed to load job %s for broadcast: %w", id, err)
	}

	hub.broadcast(TITLE_JOB_UPDATE, JobUpdate{JobID: id, Job: job})
	return nil
}

func (hub *broadcaster) BroadcastDownloadProgress(progress event.DownloadProgress) error {
	hub.broadcast(TITLE_DOWNLOAD_PROGRESS, progress)
	return nil
}

func (hub *broadcaster) BroadcastDownloadComplete(complete event.DownloadComplete) error {
	hub.broadcast(TITLE_DOWNLOAD_COMPLETE, complete)
	return nil
}

// connectionPayload furnishes newly connected clients with the jobs
// which have not yet finished.
func (hub *broadcaster) connectionPayload() map[string]any {
	jobs, err := hub.jobStore.ListJobs()
	if err != nil {
		log.Emit(logger.WARNING, "Failed to list jobs for new socket client: %v\n", err)
		return nil
	}

	active := make([]*catalog.Job, 0, len(jobs))
	for _, job := range jobs {
		if !job.Status.IsTerminal() {
			active = append(active, job)
		}
	}

	return map[string]any{"active_jobs": active}
}

func (hub *broadcaster) broadcast(title string, update any) {
	hub.socketHub.Send(&websocket.SocketMessage{
		Title: title,
		Body:  map[string]any{"payload": update},
		Type:  websocket.Update,
	})
}
