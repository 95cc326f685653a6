package internal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/database"
	"github.com/jmoiron/sqlx"
)

type (
	// dataOrchestrator is responsible for managing all of Trove's resources,
	// especially relational data. You can think of all
	// the data stores below this layer being 'dumb', and this store
	// linking them together and providing the database instance
	//
	// If consumers need to be able to access data stores directly, they're
	// welcome to do so - however caution should be taken as stores have no
	// obligation to take care of relational data (which is the orchestrator's job)
	dataOrchestrator struct {
		db            database.Manager
		VideoStore    *catalog.VideoStore
		PlaylistStore *catalog.PlaylistStore
		JobStore      *catalog.JobStore
	}
)

func NewDataOrchestrator(db database.Manager) (*dataOrchestrator, error) {
	if db.GetSqlxDb() == nil {
		return nil, errors.New("cannot construct data store with a database which is not yet connected")
	}

	return &dataOrchestrator{
		db:            db,
		VideoStore:    &catalog.VideoStore{},
		PlaylistStore: &catalog.PlaylistStore{},
		JobStore:      &catalog.JobStore{},
	}, nil
}

// SaveVideo upserts the video and replaces it's tags in a single
// transaction, returning the catalog row ID of the video.
func (orchestrator *dataOrchestrator) SaveVideo(video *catalog.Video, tags []string) (int64, error) {
	var id int64
	err := orchestrator.db.WrapTx(func(tx *sqlx.Tx) error {
		rowID, err := orchestrator.VideoStore.UpsertVideo(tx, video)
		if err != nil {
			return err
		}

		if err := orchestrator.VideoStore.ReplaceTags(tx, rowID, tags); err != nil {
			return err
		}

		id = rowID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save video %s: %w", video.VideoID, err)
	}

	video.ID = id
	return id, nil
}

// SavePlaylist inserts the playlist if it does not already exist, and returns
// the catalog row ID of the (new or existing) playlist.
func (orchestrator *dataOrchestrator) SavePlaylist(playlistID string, name string, description string) (int64, error) {
	var id int64
	err := orchestrator.db.WrapTx(func(tx *sqlx.Tx) error {
		if err := orchestrator.PlaylistStore.InsertPlaylistIfAbsent(tx, playlistID, name, description); err != nil {
			return err
		}

		rowID, err := orchestrator.PlaylistStore.GetPlaylistRowID(tx, playlistID)
		if err != nil {
			return err
		}

		id = rowID
		return nil
	})

	return id, err
}

func (orchestrator *dataOrchestrator) LinkPlaylistItem(playlistRowID int64, videoRowID int64, position int) error {
	return orchestrator.PlaylistStore.InsertPlaylistItem(orchestrator.db.GetSqlxDb(), playlistRowID, videoRowID, position)
}

func (orchestrator *dataOrchestrator) GetVideo(id int64) (*catalog.Video, error) {
	return orchestrator.VideoStore.GetVideo(orchestrator.db.GetSqlxDb(), id)
}

// GetVideoWithTags returns the completed video with the given ID, along with it's tags. Videos
// which have not completed are not visible, and ErrNotFound is returned.
func (orchestrator *dataOrchestrator) GetVideoWithTags(id int64) (*catalog.VideoWithTags, error) {
	db := orchestrator.db.GetSqlxDb()
	video, err := orchestrator.VideoStore.GetVideo(db, id)
	if err != nil {
		return nil, err
	}
	if video.Status != catalog.VideoCompleted {
		return nil, catalog.ErrNotFound
	}

	tags, err := orchestrator.VideoStore.GetVideoTags(db, id)
	if err != nil {
		return nil, err
	}

	return &catalog.VideoWithTags{Video: video, Tags: tags}, nil
}

func (orchestrator *dataOrchestrator) ListVideos(isShort *bool) ([]*catalog.Video, error) {
	return orchestrator.VideoStore.ListVideos(orchestrator.db.GetSqlxDb(), isShort)
}

func (orchestrator *dataOrchestrator) SearchVideos(term string) ([]*catalog.Video, error) {
	return orchestrator.VideoStore.SearchVideos(orchestrator.db.GetSqlxDb(), term)
}

func (orchestrator *dataOrchestrator) GetStats() (*catalog.Stats, error) {
	return orchestrator.VideoStore.GetStats(orchestrator.db.GetSqlxDb())
}

func (orchestrator *dataOrchestrator) ListPlaylists() ([]*catalog.Playlist, error) {
	return orchestrator.PlaylistStore.ListPlaylists(orchestrator.db.GetSqlxDb())
}

// ListPlaylistVideos returns the videos of the playlist in order. ErrNotFound
// is returned if the playlist does not exist.
func (orchestrator *dataOrchestrator) ListPlaylistVideos(playlistRowID int64) ([]*catalog.PlaylistVideo, error) {
	db := orchestrator.db.GetSqlxDb()
	if _, err := orchestrator.PlaylistStore.GetPlaylist(db, playlistRowID); err != nil {
		return nil, err
	}

	return orchestrator.PlaylistStore.ListPlaylistVideos(db, playlistRowID)
}

func (orchestrator *dataOrchestrator) CreateJob(job *catalog.Job) error {
	return orchestrator.JobStore.CreateJob(orchestrator.db.GetSqlxDb(), job)
}

func (orchestrator *dataOrchestrator) ClaimNextJob() (*catalog.Job, error) {
	return orchestrator.JobStore.ClaimNextJob(orchestrator.db.GetSqlxDb())
}

func (orchestrator *dataOrchestrator) UpdateJobProgress(id uuid.UUID, progress int, message string) error {
	return orchestrator.JobStore.UpdateJobProgress(orchestrator.db.GetSqlxDb(), id, progress, message)
}

func (orchestrator *dataOrchestrator) FinishJob(id uuid.UUID, status catalog.JobStatus, message string) error {
	return orchestrator.JobStore.FinishJob(orchestrator.db.GetSqlxDb(), id, status, message)
}

func (orchestrator *dataOrchestrator) CancelQueuedJob(id uuid.UUID) (bool, error) {
	return orchestrator.JobStore.CancelQueuedJob(orchestrator.db.GetSqlxDb(), id)
}

func (orchestrator *dataOrchestrator) AppendJobEntry(entry *catalog.JobEntry) error {
	return orchestrator.JobStore.AppendJobEntry(orchestrator.db.GetSqlxDb(), entry)
}

func (orchestrator *dataOrchestrator) GetJob(id uuid.UUID) (*catalog.Job, error) {
	return orchestrator.JobStore.GetJob(orchestrator.db.GetSqlxDb(), id)
}

func (orchestrator *dataOrchestrator) ListJobs() ([]*catalog.Job, error) {
	return orchestrator.JobStore.ListJobs(orchestrator.db.GetSqlxDb())
}

func (orchestrator *dataOrchestrator) FailInterruptedJobs() (int64, error) {
	return orchestrator.JobStore.FailInterruptedJobs(orchestrator.db.GetSqlxDb())
}
