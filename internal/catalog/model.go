package catalog

import (
	"errors"
	"time"

	"github.com/hbomb79/Trove/pkg/logger"
)

// DefaultTag is attached to every video ingested in to the catalog, in addition
// to any tags supplied by the caller.
const DefaultTag = "YouTube"

var (
	ErrNotFound = errors.New("catalog entry does not exist")

	log = logger.Get("Catalog")
)

type VideoStatus string

const (
	VideoPending   VideoStatus = "pending"
	VideoCompleted VideoStatus = "completed"
	VideoError     VideoStatus = "error"
)

type (
	// Video is a single entry in the catalog. FilePath is only
	// populated once the video has been successfully downloaded
	// (Status == VideoCompleted).
	Video struct {
		ID            int64       `db:"id" json:"id"`
		VideoID       string      `db:"video_id" json:"video_id"`
		Title         string      `db:"title" json:"title"`
		Uploader      string      `db:"uploader" json:"uploader"`
		UploadDate    string      `db:"upload_date" json:"upload_date"`
		Duration      int         `db:"duration" json:"duration"`
		Description   string      `db:"description" json:"description"`
		ViewCount     int64       `db:"view_count" json:"view_count"`
		IsShort       bool        `db:"is_short" json:"is_short"`
		FilePath      *string     `db:"file_path" json:"file_path"`
		ThumbnailPath string      `db:"thumbnail_path" json:"thumbnail_path"`
		DownloadDate  time.Time   `db:"download_date" json:"download_date"`
		OriginalURL   string      `db:"original_url" json:"original_url"`
		Status        VideoStatus `db:"status" json:"status"`
	}

	// VideoWithTags is a Video combined with the labels attached to it.
	VideoWithTags struct {
		*Video
		Tags []string `json:"tags"`
	}

	Playlist struct {
		ID          int64     `db:"id" json:"id"`
		PlaylistID  string    `db:"playlist_id" json:"playlist_id"`
		Name        string    `db:"name" json:"name"`
		Description string    `db:"description" json:"description"`
		CreatedDate time.Time `db:"created_date" json:"created_date"`
	}

	// PlaylistVideo is a video as it appears inside of a playlist, annotated
	// with it's ordinal position at ingestion time.
	PlaylistVideo struct {
		Video
		Position int `db:"position" json:"position"`
	}

	Stats struct {
		TotalVideos          int     `db:"total_videos" json:"total_videos"`
		TotalShorts          int     `db:"total_shorts" json:"total_shorts"`
		TotalPlaylists       int     `db:"total_playlists" json:"total_playlists"`
		TotalDurationSeconds int64   `db:"total_duration_seconds" json:"total_duration_seconds"`
		TotalDurationHours   float64 `db:"-" json:"total_duration_hours"`
	}
)

// IsPlayable returns true if this video has been completely downloaded
// and has a known location on disk.
func (v *Video) IsPlayable() bool {
	return v.Status == VideoCompleted && v.FilePath != nil && *v.FilePath != ""
}
