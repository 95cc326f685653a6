package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/hbomb79/Trove/internal/database"
	"github.com/jmoiron/sqlx"
)

type VideoStore struct{}

// UpsertVideo inserts the video, or replaces the existing row which shares
// the same external video ID. The catalog row ID of the video is returned, and
// is stable across replacements.
func (store *VideoStore) UpsertVideo(db database.Queryable, video *Video) (int64, error) {
	query, args, err := sqlx.Named(`
		INSERT INTO videos(video_id, title, uploader, upload_date, duration, description, view_count,
			is_short, file_path, thumbnail_path, download_date, original_url, status)
		VALUES(:video_id, :title, :uploader, :upload_date, :duration, :description, :view_count,
			:is_short, :file_path, :thumbnail_path, :download_date, :original_url, :status)
		ON CONFLICT(video_id) DO UPDATE SET
			title=EXCLUDED.title,
			uploader=EXCLUDED.uploader,
			upload_date=EXCLUDED.upload_date,
			duration=EXCLUDED.duration,
			description=EXCLUDED.description,
			view_count=EXCLUDED.view_count,
			is_short=EXCLUDED.is_short,
			file_path=EXCLUDED.file_path,
			thumbnail_path=EXCLUDED.thumbnail_path,
			download_date=EXCLUDED.download_date,
			original_url=EXCLUDED.original_url,
			status=EXCLUDED.status
		RETURNING id
	`, video)
	if err != nil {
		return 0, fmt.Errorf("failed to construct video upsert query: %w", err)
	}

	var id int64
	if err := db.QueryRowx(db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert video %s: %w", video.VideoID, err)
	}

	return id, nil
}

// ReplaceTags drops all tags currently associated with the video
// and inserts the provided tags in their place. Duplicate tags are
// collapsed.
func (store *VideoStore) ReplaceTags(db database.Queryable, videoRowID int64, tags []string) error {
	if _, err := db.Exec(db.Rebind(`DELETE FROM tags WHERE video_id=?`), videoRowID); err != nil {
		return fmt.Errorf("failed to drop existing tags for video %d: %w", videoRowID, err)
	}

	type tagRow struct {
		VideoID int64  `db:"video_id"`
		Tag     string `db:"tag"`
	}

	rows := make([]tagRow, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		rows = append(rows, tagRow{videoRowID, tag})
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := db.NamedExec(`
		INSERT INTO tags(video_id, tag)
		VALUES(:video_id, :tag)
		ON CONFLICT(video_id, tag) DO NOTHING
	`, rows); err != nil {
		return fmt.Errorf("failed to insert tags for video %d: %w", videoRowID, err)
	}

	return nil
}

// GetVideo returns the video with the given catalog row ID, regardless of it's status.
func (store *VideoStore) GetVideo(db database.Queryable, id int64) (*Video, error) {
	query, args, err := squirrel.Select("*").From("videos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct select video query: %w", err)
	}

	var video Video
	if err := db.Get(&video, db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to select video %d: %w", id, err)
	}

	return &video, nil
}

func (store *VideoStore) GetVideoTags(db database.Queryable, id int64) ([]string, error) {
	tags := make([]string, 0)
	if err := db.Select(&tags, db.Rebind(`SELECT tag FROM tags WHERE video_id=? ORDER BY id`), id); err != nil {
		return nil, fmt.Errorf("failed to select tags for video %d: %w", id, err)
	}

	return tags, nil
}

// ListVideos returns all completed videos, newest first. If isShort is
// non-nil, only videos with a matching classification are returned.
func (store *VideoStore) ListVideos(db database.Queryable, isShort *bool) ([]*Video, error) {
	builder := selectCompletedVideosBuilder()
	if isShort != nil {
		builder = builder.Where(squirrel.Eq{"is_short": *isShort})
	}

	return selectVideos(db, builder)
}

// SearchVideos returns all completed videos where the title or the uploader
// contains the search term (case-insensitive).
func (store *VideoStore) SearchVideos(db database.Queryable, term string) ([]*Video, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	builder := selectCompletedVideosBuilder().
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(uploader) LIKE ? ESCAPE '\')`, pattern, pattern)

	return selectVideos(db, builder)
}

// GetStats aggregates the completed videos in the catalog. TotalVideos
// counts only regular (non-short) videos.
func (store *VideoStore) GetStats(db database.Queryable) (*Stats, error) {
	var stats Stats
	if err := db.Get(&stats, db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN is_short THEN 0 ELSE 1 END), 0) AS total_videos,
			COALESCE(SUM(CASE WHEN is_short THEN 1 ELSE 0 END), 0) AS total_shorts,
			(SELECT COUNT(*) FROM playlists) AS total_playlists,
			COALESCE(SUM(duration), 0) AS total_duration_seconds
		FROM videos
		WHERE status=?
	`), VideoCompleted); err != nil {
		return nil, fmt.Errorf("failed to aggregate catalog stats: %w", err)
	}

	stats.TotalDurationHours = math.Round(float64(stats.TotalDurationSeconds)/3600*100) / 100
	return &stats, nil
}

func selectCompletedVideosBuilder() squirrel.SelectBuilder {
	return squirrel.Select("*").
		From("videos").
		Where(squirrel.Eq{"status": VideoCompleted}).
		OrderBy("download_date DESC", "id DESC")
}

func selectVideos(db database.Queryable, builder squirrel.SelectBuilder) ([]*Video, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct select videos query: %w", err)
	}

	videos := make([]*Video, 0)
	if err := db.Select(&videos, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to select videos: %w", err)
	}

	return videos, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
