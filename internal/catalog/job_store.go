package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/database"
)

type JobStore struct{}

func (store *JobStore) CreateJob(db database.Queryable, job *Job) error {
	model := jobModel{jobBase: job.jobBase, Tags: database.NewJsonColumn(job.Tags)}
	if _, err := db.NamedExec(`
		INSERT INTO jobs(id, kind, url, tags, status, progress, message, created_at, updated_at)
		VALUES(:id, :kind, :url, :tags, :status, :progress, :message, :created_at, :updated_at)
	`, model); err != nil {
		return fmt.Errorf("failed to insert job %s: %w", job.ID, err)
	}

	return nil
}

// ClaimNextJob atomically transitions the oldest queued job to running and returns
// it. ErrNotFound is returned if there is no queued job available.
func (store *JobStore) ClaimNextJob(db database.Queryable) (*Job, error) {
	var model jobModel
	err := db.Get(&model, db.Rebind(`
		UPDATE jobs SET status=?, updated_at=?
		WHERE id = (SELECT id FROM jobs WHERE status=? ORDER BY created_at ASC, id ASC LIMIT 1)
			AND status=?
		RETURNING *
	`), JobRunning, time.Now().UTC(), JobQueued, JobQueued)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to claim queued job: %w", err)
	}

	return jobModelToJob(&model), nil
}

func (store *JobStore) UpdateJobProgress(db database.Queryable, id uuid.UUID, progress int, message string) error {
	_, err := db.Exec(db.Rebind(`UPDATE jobs SET progress=?, message=?, updated_at=? WHERE id=?`),
		clampProgress(progress), message, time.Now().UTC(), id)
	return err
}

// FinishJob moves the job in to a terminal status. Completed jobs always
// have their progress set to 100.
func (store *JobStore) FinishJob(db database.Queryable, id uuid.UUID, status JobStatus, message string) error {
	if !status.IsTerminal() {
		return fmt.Errorf("cannot finish job %s with non-terminal status %s", id, status)
	}

	builder := squirrel.Update("jobs").
		Set("status", status).
		Set("message", message).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})
	if status == JobCompleted {
		builder = builder.Set("progress", 100)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to construct finish job query: %w", err)
	}

	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to finish job %s: %w", id, err)
	}

	return nil
}

// CancelQueuedJob marks the job as cancelled if, and only if, it has not yet
// been claimed by a worker. Returns true if the job was cancelled.
func (store *JobStore) CancelQueuedJob(db database.Queryable, id uuid.UUID) (bool, error) {
	res, err := db.Exec(db.Rebind(`UPDATE jobs SET status=?, message=?, updated_at=? WHERE id=? AND status=?`),
		JobCancelled, "cancelled before starting", time.Now().UTC(), id, JobQueued)
	if err != nil {
		return false, fmt.Errorf("failed to cancel job %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

// FailInterruptedJobs marks any job left in the running state as errored. This is
// expected to be called on startup, before any workers are started, as any
// running job at that point must have been interrupted by a shutdown.
func (store *JobStore) FailInterruptedJobs(db database.Queryable) (int64, error) {
	res, err := db.Exec(db.Rebind(`UPDATE jobs SET status=?, message=?, updated_at=? WHERE status=?`),
		JobError, "interrupted", time.Now().UTC(), JobRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to fail interrupted jobs: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		log.Warnf("Marked %d interrupted job(s) as errored\n", affected)
	}

	return affected, nil
}

func (store *JobStore) AppendJobEntry(db database.Queryable, entry *JobEntry) error {
	if _, err := db.NamedExec(`
		INSERT INTO job_entries(job_id, position, url, title, status, message, video_row_id)
		VALUES(:job_id, :position, :url, :title, :status, :message, :video_row_id)
	`, entry); err != nil {
		return fmt.Errorf("failed to insert entry %d for job %s: %w", entry.Position, entry.JobID, err)
	}

	return nil
}

// GetJob returns the job with the given ID, including all entries recorded for it so far.
func (store *JobStore) GetJob(db database.Queryable, id uuid.UUID) (*Job, error) {
	var model jobModel
	if err := db.Get(&model, db.Rebind(`SELECT * FROM jobs WHERE id=?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to select job %s: %w", id, err)
	}

	entries := make([]*JobEntry, 0)
	if err := db.Select(&entries, db.Rebind(`SELECT * FROM job_entries WHERE job_id=? ORDER BY position ASC, id ASC`), id); err != nil {
		return nil, fmt.Errorf("failed to select entries for job %s: %w", id, err)
	}

	job := jobModelToJob(&model)
	job.Entries = entries
	return job, nil
}

// ListJobs returns all jobs, newest first. Entries are not populated.
func (store *JobStore) ListJobs(db database.Queryable) ([]*Job, error) {
	var models []jobModel
	if err := db.Select(&models, `SELECT * FROM jobs ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}

	output := make([]*Job, len(models))
	for k, v := range models {
		output[k] = jobModelToJob(&v)
	}

	return output, nil
}

func clampProgress(progress int) int {
	return max(0, min(100, progress))
}
