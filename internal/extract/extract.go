// Package extract adapts the external extraction tool (yt-dlp) to the
// contract required by ingestion: metadata probing, flattened playlist
// listing and downloading with progress notifications.
package extract

import (
	"context"
	"time"
)

// WatchURLTemplate is used to construct a canonical URL for a video
// when only it's ID is known.
const WatchURLTemplate = "https://www.youtube.com/watch?v=%s"

type (
	// Metadata is the subset of the information reported by the extractor
	// that is required to catalog a video.
	Metadata struct {
		ID          string
		Title       string
		Uploader    string
		UploadDate  string
		Duration    int
		Description string
		ViewCount   int64
		Width       int
		Height      int
		Thumbnail   string
		WebpageURL  string
	}

	PlaylistEntry struct {
		ID    string
		URL   string
		Title string
	}

	// PlaylistListing is the flattened listing of a playlist. Entries are
	// in the playlists order and have not been individually resolved.
	PlaylistListing struct {
		ID          string
		Title       string
		Description string
		Entries     []PlaylistEntry
	}

	DownloadOptions struct {
		// Directory is the directory the media (and it's sibling thumbnail
		// and subtitle files) will be written to.
		Directory string
		// Filename is the stem of the output file; the extension is decided
		// by the extractor.
		Filename            string
		Format              string
		ConcurrentFragments int
		RateLimit           string
		WriteThumbnail      bool
		WriteSubtitles      bool
		EmbedSubtitles      bool
	}

	Progress struct {
		Percent         float64
		DownloadedBytes int64
		TotalBytes      int64
		// Speed is the average transfer rate in bytes/second
		Speed float64
		ETA   time.Duration
	}

	ProgressFunc func(Progress)

	// Download describes the files produced by a successful download.
	Download struct {
		FilePath      string
		ThumbnailPath string
	}

	// Extractor is the contract the ingestion orchestrator requires of an
	// external extraction tool: given a URL, return structured metadata and
	// a path to the retrieved media file, or fail.
	Extractor interface {
		Probe(ctx context.Context, url string) (*Metadata, error)
		ListPlaylist(ctx context.Context, url string) (*PlaylistListing, error)
		Download(ctx context.Context, url string, opts DownloadOptions, onProgress ProgressFunc) (*Download, error)
	}
)
