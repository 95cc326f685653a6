package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/database"
)

type (
	JobKind   string
	JobStatus string

	EntryStatus string
)

const (
	JobVideo    JobKind = "video"
	JobPlaylist JobKind = "playlist"

	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
	JobCancelled JobStatus = "cancelled"

	EntrySuccess EntryStatus = "success"
	EntryError   EntryStatus = "error"
)

// IsTerminal returns true if a job in this status will never
// be picked up by a worker again.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobError || s == JobCancelled
}

type (
	jobBase struct {
		ID        uuid.UUID `db:"id" json:"id"`
		Kind      JobKind   `db:"kind" json:"kind"`
		URL       string    `db:"url" json:"url"`
		Status    JobStatus `db:"status" json:"status"`
		Progress  int       `db:"progress" json:"progress"`
		Message   string    `db:"message" json:"message"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
		UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	}

	// jobModel contains the tags for the job as a JSON column, which
	// is hidden from the public API of this package
	jobModel struct {
		jobBase
		Tags database.JsonColumn[[]string] `db:"tags"`
	}

	// Job is a persisted request to ingest a video or playlist. Jobs
	// are processed by the ingestion workers in creation order.
	Job struct {
		jobBase
		Tags    []string    `json:"tags"`
		Entries []*JobEntry `json:"entries,omitempty"`
	}

	// JobEntry records the outcome of ingesting a single video as part of a job.
	JobEntry struct {
		ID         int64       `db:"id" json:"-"`
		JobID      uuid.UUID   `db:"job_id" json:"-"`
		Position   int         `db:"position" json:"position"`
		URL        string      `db:"url" json:"url"`
		Title      string      `db:"title" json:"title"`
		Status     EntryStatus `db:"status" json:"status"`
		Message    string      `db:"message" json:"message"`
		VideoRowID *int64      `db:"video_row_id" json:"video_row_id"`
	}
)

// NewJob constructs a queued job, ready to be persisted
func NewJob(kind JobKind, url string, tags []string) *Job {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}

	return &Job{
		jobBase: jobBase{
			ID:        uuid.New(),
			Kind:      kind,
			URL:       url,
			Status:    JobQueued,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Tags: tags,
	}
}

func (job *Job) String() string {
	return "Job{id=" + job.ID.String() + " kind=" + string(job.Kind) + " url=" + job.URL + "}"
}

func jobModelToJob(model *jobModel) *Job {
	tags := model.Tags.Get()
	if tags == nil {
		tags = []string{}
	}

	return &Job{jobBase: model.jobBase, Tags: tags}
}
