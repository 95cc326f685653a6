package internal_test

import (
	"testing"
	"time"

	"github.com/hbomb79/Trove/internal"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newCompletedVideo(videoID string, title string, isShort bool, duration int) *catalog.Video {
	return &catalog.Video{
		VideoID:      videoID,
		Title:        title,
		Uploader:     "CatsInc",
		UploadDate:   "20240102",
		Duration:     duration,
		IsShort:      isShort,
		FilePath:     ptr("/library/videos/CatsInc/" + title + ".mp4"),
		DownloadDate: time.Now().UTC(),
		OriginalURL:  "https://www.youtube.com/watch?v=" + videoID,
		Status:       catalog.VideoCompleted,
	}
}

func TestSaveVideo_UpsertReplacesExistingRow(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	first := newCompletedVideo("abc123", "Original", false, 100)
	firstID, err := store.SaveVideo(first, []string{catalog.DefaultTag, "cats"})
	require.NoError(t, err)

	second := newCompletedVideo("abc123", "Renamed", false, 200)
	secondID, err := store.SaveVideo(second, []string{catalog.DefaultTag, "dogs", " ", "dogs"})
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID, "re-ingesting a video must keep it's row ID")

	videos, err := store.ListVideos(nil)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Renamed", videos[0].Title)
	assert.Equal(t, 200, videos[0].Duration)

	withTags, err := store.GetVideoWithTags(secondID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{catalog.DefaultTag, "dogs"}, withTags.Tags)
}

func TestListVideos_FiltersShortsAndPending(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	_, err = store.SaveVideo(newCompletedVideo("long1", "Long one", false, 600), nil)
	require.NoError(t, err)
	_, err = store.SaveVideo(newCompletedVideo("short1", "Short one", true, 30), nil)
	require.NoError(t, err)

	pending := newCompletedVideo("pending1", "Not yet", false, 10)
	pending.FilePath = nil
	pending.Status = catalog.VideoPending
	pendingID, err := store.SaveVideo(pending, nil)
	require.NoError(t, err)

	all, err := store.ListVideos(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	shorts, err := store.ListVideos(ptr(true))
	require.NoError(t, err)
	require.Len(t, shorts, 1)
	assert.Equal(t, "short1", shorts[0].VideoID)

	longs, err := store.ListVideos(ptr(false))
	require.NoError(t, err)
	require.Len(t, longs, 1)
	assert.Equal(t, "long1", longs[0].VideoID)

	_, err = store.GetVideoWithTags(pendingID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSearchVideos(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	_, err = store.SaveVideo(newCompletedVideo("a", "Funny CATS compilation", false, 60), nil)
	require.NoError(t, err)
	reality := newCompletedVideo("b", "100% real", false, 60)
	reality.Uploader = "RealityChannel"
	_, err = store.SaveVideo(reality, nil)
	require.NoError(t, err)
	dog := newCompletedVideo("c", "Dogs", false, 60)
	dog.Uploader = "DogChannel"
	_, err = store.SaveVideo(dog, nil)
	require.NoError(t, err)

	tests := []struct {
		term     string
		expected []string
	}{
		{term: "cats", expected: []string{"a"}},
		{term: "dogchan", expected: []string{"c"}},
		{term: "catsinc", expected: []string{"a"}},
		{term: "channel", expected: []string{"b", "c"}},
		{term: "100%", expected: []string{"b"}},
		{term: "%", expected: []string{"b"}},
		{term: "nothing", expected: []string{}},
	}

	for _, test := range tests {
		t.Run(test.term, func(t *testing.T) {
			results, err := store.SearchVideos(test.term)
			require.NoError(t, err)

			ids := make([]string, 0, len(results))
			for _, v := range results {
				ids = append(ids, v.VideoID)
			}
			assert.ElementsMatch(t, test.expected, ids)
		})
	}
}

func TestGetStats(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{}, *stats)

	_, err = store.SaveVideo(newCompletedVideo("long1", "Long", false, 3600), nil)
	require.NoError(t, err)
	_, err = store.SaveVideo(newCompletedVideo("short1", "Short", true, 45), nil)
	require.NoError(t, err)
	_, err = store.SavePlaylist("PL1", "Mix", "")
	require.NoError(t, err)

	stats, err = store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalVideos)
	assert.Equal(t, 1, stats.TotalShorts)
	assert.Equal(t, 1, stats.TotalPlaylists)
	assert.Equal(t, int64(3645), stats.TotalDurationSeconds)
	assert.Equal(t, 1.01, stats.TotalDurationHours)
}

func TestPlaylists_OrderedAndIdempotent(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	playlistID, err := store.SavePlaylist("PL1", "Mix", "first description")
	require.NoError(t, err)
	again, err := store.SavePlaylist("PL1", "Renamed", "second description")
	require.NoError(t, err)
	assert.Equal(t, playlistID, again)

	firstID, err := store.SaveVideo(newCompletedVideo("v1", "First", false, 10), nil)
	require.NoError(t, err)
	secondID, err := store.SaveVideo(newCompletedVideo("v2", "Second", false, 10), nil)
	require.NoError(t, err)

	require.NoError(t, store.LinkPlaylistItem(playlistID, secondID, 2))
	require.NoError(t, store.LinkPlaylistItem(playlistID, firstID, 0))
	// Re-linking an existing video moves it rather than duplicating it
	require.NoError(t, store.LinkPlaylistItem(playlistID, secondID, 1))

	playlists, err := store.ListPlaylists()
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Mix", playlists[0].Name)

	videos, err := store.ListPlaylistVideos(playlistID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "v1", videos[0].VideoID)
	assert.Equal(t, 0, videos[0].Position)
	assert.Equal(t, "v2", videos[1].VideoID)
	assert.Equal(t, 1, videos[1].Position)

	_, err = store.ListPlaylistVideos(playlistID + 100)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestJobs_Lifecycle(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	first := catalog.NewJob(catalog.JobVideo, "https://youtu.be/first", []string{"music"})
	require.NoError(t, store.CreateJob(first))
	second := catalog.NewJob(catalog.JobPlaylist, "https://youtube.com/playlist?list=PL1", nil)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	second.UpdatedAt = second.CreatedAt
	require.NoError(t, store.CreateJob(second))

	claimed, err := store.ClaimNextJob()
	require.NoError(t, err)
	assert.Equal(t, first.ID, claimed.ID)
	assert.Equal(t, catalog.JobRunning, claimed.Status)
	assert.Equal(t, []string{"music"}, claimed.Tags)

	cancelled, err := store.CancelQueuedJob(first.ID)
	require.NoError(t, err)
	assert.False(t, cancelled, "running jobs cannot be cancelled through the queue")

	require.NoError(t, store.UpdateJobProgress(first.ID, 150, "almost"))
	job, err := store.GetJob(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "almost", job.Message)

	require.NoError(t, store.AppendJobEntry(&catalog.JobEntry{JobID: first.ID, Position: 0, URL: first.URL, Title: "First", Status: catalog.EntrySuccess}))
	require.NoError(t, store.FinishJob(first.ID, catalog.JobCompleted, "done"))
	assert.Error(t, store.FinishJob(first.ID, catalog.JobRunning, "nope"))

	job, err = store.GetJob(first.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.JobCompleted, job.Status)
	require.Len(t, job.Entries, 1)
	assert.Equal(t, "First", job.Entries[0].Title)

	cancelled, err = store.CancelQueuedJob(second.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	_, err = store.ClaimNextJob()
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	jobs, err := store.ListJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID, "jobs are listed newest first")
}

func TestFailInterruptedJobs(t *testing.T) {
	store, err := internal.NewDataOrchestrator(helpers.NewTestDatabase(t))
	require.NoError(t, err)

	job := catalog.NewJob(catalog.JobVideo, "https://youtu.be/x", nil)
	require.NoError(t, store.CreateJob(job))
	_, err = store.ClaimNextJob()
	require.NoError(t, err)

	affected, err := store.FailInterruptedJobs()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	job, err = store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.JobError, job.Status)
	assert.Equal(t, "interrupted", job.Message)
}
