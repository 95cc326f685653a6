package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/classify"
	"github.com/hbomb79/Trove/internal/event"
	"github.com/hbomb79/Trove/internal/extract"
	"github.com/hbomb79/Trove/pkg/logger"
	"github.com/hbomb79/Trove/pkg/sync"
)

var (
	ErrExtraction      = errors.New("extraction failed")
	ErrFilesystem      = errors.New("filesystem failure")
	ErrCatalog         = errors.New("catalog update failed")
	ErrEntryUnusable   = errors.New("playlist entry has no URL or ID")
	ErrDownloadTimeout = errors.New("download timed out")

	log = logger.Get("Ingest")
)

const UnknownPlaylist = "Unknown Playlist"

type (
	// DataStore is the subset of the catalog the orchestrator commits
	// ingested media to.
	DataStore interface {
		SaveVideo(video *catalog.Video, tags []string) (int64, error)
		SavePlaylist(playlistID string, name string, description string) (int64, error)
		LinkPlaylistItem(playlistRowID int64, videoRowID int64, position int) error
	}

	ResultStatus string

	VideoResult struct {
		Status     ResultStatus `json:"status"`
		Message    string       `json:"message,omitempty"`
		VideoID    string       `json:"video_id,omitempty"`
		Title      string       `json:"title,omitempty"`
		IsShort    bool         `json:"is_short"`
		VideoRowID int64        `json:"db_id,omitempty"`
		FilePath   string       `json:"file_path,omitempty"`

		// Err is the cause of an error result, and wraps one of the
		// sentinel errors of this package (or a context error)
		Err error `json:"-"`
	}

	EntryResult struct {
		Position int    `json:"position"`
		URL      string `json:"url"`
		VideoResult
	}

	PlaylistResult struct {
		Status        ResultStatus  `json:"status"`
		Message       string        `json:"message,omitempty"`
		PlaylistName  string        `json:"playlist_name,omitempty"`
		PlaylistRowID int64         `json:"playlist_id,omitempty"`
		Total         int           `json:"total_videos"`
		Results       []EntryResult `json:"results"`
		Err           error         `json:"-"`
	}

	// EntryCallback is called after every entry of a playlist has been
	// processed (successfully or otherwise).
	EntryCallback func(entry EntryResult, total int)

	// ProgressHook receives the download progress of the video being
	// downloaded by DownloadVideo. See WithProgressHook.
	ProgressHook func(extract.Progress)

	progressHookKey struct{}

	// Orchestrator turns URLs in to completed, queryable catalog entries by
	// retrieving them using the extractor, classifying them, and storing the
	// media in the library.
	Orchestrator struct {
		config    Config
		extractor extract.Extractor
		store     DataStore
		eventBus  event.EventDispatcher
		locks     sync.KeyedMutex[string]
	}
)

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

func NewOrchestrator(config Config, extractor extract.Extractor, store DataStore, eventBus event.EventDispatcher) *Orchestrator {
	return &Orchestrator{config: config, extractor: extractor, store: store, eventBus: eventBus}
}

// WithProgressHook returns a context which carries the hook provided. Calls
// to DownloadVideo using this context will report the download progress
// to the hook (in addition to the DOWNLOAD_PROGRESS events).
func WithProgressHook(ctx context.Context, hook ProgressHook) context.Context {
	return context.WithValue(ctx, progressHookKey{}, hook)
}

func ProgressHookFrom(ctx context.Context) ProgressHook {
	if hook, ok := ctx.Value(progressHookKey{}).(ProgressHook); ok {
		return hook
	}

	return nil
}

// DownloadVideo retrieves the metadata for the URL and, after classifying it, downloads
// the media to the library before saving it to the catalog. The playlist name, if
// provided, is informational only.
//
// Downloads of the same video are serialised. If the download fails, or the context is
// cancelled, nothing is committed to the catalog.
func (orchestrator *Orchestrator) DownloadVideo(ctx context.Context, url string, tags []string, playlistName string) *VideoResult {
	meta, err := orchestrator.extractor.Probe(ctx, url)
	if err != nil {
		return videoFailure(ErrExtraction, err)
	}

	unlock := orchestrator.locks.Lock(meta.ID)
	defer unlock()

	if playlistName != "" {
		log.Emit(logger.NEW, "Downloading %s (%s) from playlist %s\n", meta.ID, meta.Title, playlistName)
	} else {
		log.Emit(logger.NEW, "Downloading %s (%s)\n", meta.ID, meta.Title)
	}

	// The submitted URL may be a plain watch URL for a video the extractor
	// reports under a shorts page.
	isShort := classify.IsShort(meta.Duration, meta.Width, meta.Height, url) ||
		strings.Contains(meta.WebpageURL, classify.ShortsMarker)
	title := SanitizePathSegment(meta.Title, UntitledVideo)
	dir := filepath.Join(
		orchestrator.config.LibraryPath,
		string(classify.BucketFor(isShort)),
		SanitizePathSegment(meta.Uploader, UnknownUploader),
	)
	if err := os.MkdirAll(dir, os.ModeDir|os.ModePerm); err != nil {
		return videoFailure(ErrFilesystem, err)
	}

	downloadCtx, cancel := orchestrator.downloadContext(ctx)
	defer cancel()

	hook := ProgressHookFrom(ctx)
	download, err := orchestrator.extractor.Download(downloadCtx, url, orchestrator.downloadOptions(dir, title), func(p extract.Progress) {
		orchestrator.eventBus.Dispatch(event.DOWNLOAD_PROGRESS, event.DownloadProgress{
			VideoID:    meta.ID,
			Title:      meta.Title,
			Percent:    p.Percent,
			Speed:      p.Speed,
			ETASeconds: int(p.ETA.Seconds()),
		})
		if hook != nil {
			hook(p)
		}
	})
	if cause := context.Cause(downloadCtx); cause != nil {
		log.Emit(logger.STOP, "Download of %s stopped: %v\n", meta.ID, cause)
		return videoFailure(ErrExtraction, cause)
	}
	if err != nil {
		return videoFailure(ErrExtraction, err)
	}

	filePath := download.FilePath
	thumbnailPath := download.ThumbnailPath
	if thumbnailPath == "" {
		thumbnailPath = meta.Thumbnail
	}

	video := &catalog.Video{
		VideoID:       meta.ID,
		Title:         meta.Title,
		Uploader:      meta.Uploader,
		UploadDate:    meta.UploadDate,
		Duration:      meta.Duration,
		Description:   meta.Description,
		ViewCount:     meta.ViewCount,
		IsShort:       isShort,
		FilePath:      &filePath,
		ThumbnailPath: thumbnailPath,
		DownloadDate:  time.Now().UTC(),
		OriginalURL:   url,
		Status:        catalog.VideoCompleted,
	}

	rowID, err := orchestrator.store.SaveVideo(video, append([]string{catalog.DefaultTag}, tags...))
	if err != nil {
		return videoFailure(ErrCatalog, err)
	}

	log.Emit(logger.SUCCESS, "Downloaded %s to %s\n", meta.ID, filePath)
	orchestrator.eventBus.Dispatch(event.DOWNLOAD_COMPLETE, event.DownloadComplete{
		VideoID:    meta.ID,
		Title:      meta.Title,
		VideoRowID: rowID,
		FilePath:   filePath,
		IsShort:    isShort,
	})

	return &VideoResult{
		Status:     StatusSuccess,
		VideoID:    meta.ID,
		Title:      meta.Title,
		IsShort:    isShort,
		VideoRowID: rowID,
		FilePath:   filePath,
	}
}

// DownloadPlaylist retrieves the flattened listing of the playlist and downloads each
// entry in order, linking every successful download to the playlist at it's position
// in the listing. The failure of an entry does not affect it's siblings; failures are
// itemised in the result. If the context is cancelled, the remaining entries are
// reported as failures without being attempted.
func (orchestrator *Orchestrator) DownloadPlaylist(ctx context.Context, url string, tags []string, onEntry EntryCallback) *PlaylistResult {
	listing, err := orchestrator.extractor.ListPlaylist(ctx, url)
	if err != nil {
		return playlistFailure(ErrExtraction, err)
	}

	name := listing.Title
	if name == "" {
		name = UnknownPlaylist
	}

	playlistRowID, err := orchestrator.store.SavePlaylist(listing.ID, name, listing.Description)
	if err != nil {
		return playlistFailure(ErrCatalog, err)
	}

	total := len(listing.Entries)
	log.Emit(logger.NEW, "Downloading playlist %s (%s) with %d entries\n", listing.ID, name, total)

	results := make([]EntryResult, 0, total)
	succeeded := 0
	for position, entry := range listing.Entries {
		entryURL := entry.URL
		if entryURL == "" && entry.ID != "" {
			entryURL = fmt.Sprintf(extract.WatchURLTemplate, entry.ID)
		}

		var result *VideoResult
		switch {
		case ctx.Err() != nil:
			result = videoFailure(ErrExtraction, context.Cause(ctx))
		case entryURL == "":
			result = videoFailure(ErrEntryUnusable, fmt.Errorf("entry %d is unavailable", position))
		default:
			log.Emit(logger.INFO, "Downloading %d/%d: %s\n", position+1, total, entry.Title)
			result = orchestrator.DownloadVideo(ctx, entryURL, tags, name)
		}

		if result.Status == StatusSuccess {
			if err := orchestrator.store.LinkPlaylistItem(playlistRowID, result.VideoRowID, position); err != nil {
				result = &VideoResult{
					Status:     StatusError,
					Message:    err.Error(),
					VideoID:    result.VideoID,
					Title:      result.Title,
					VideoRowID: result.VideoRowID,
					Err:        fmt.Errorf("%w: %w", ErrCatalog, err),
				}
			} else {
				succeeded++
			}
		}

		if result.Title == "" {
			result.Title = entry.Title
		}

		entryResult := EntryResult{Position: position, URL: entryURL, VideoResult: *result}
		results = append(results, entryResult)
		if onEntry != nil {
			onEntry(entryResult, total)
		}
	}

	log.Emit(logger.SUCCESS, "Playlist %s finished: %d of %d entries downloaded\n", listing.ID, succeeded, total)
	return &PlaylistResult{
		Status:        StatusSuccess,
		Message:       fmt.Sprintf("%d of %d videos downloaded", succeeded, total),
		PlaylistName:  name,
		PlaylistRowID: playlistRowID,
		Total:         total,
		Results:       results,
	}
}

// downloadContext derives the context a single download runs within, bounded by
// the configured download timeout (if any).
func (orchestrator *Orchestrator) downloadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if orchestrator.config.DownloadTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeoutCause(ctx, orchestrator.config.DownloadTimeout, ErrDownloadTimeout)
}

func (orchestrator *Orchestrator) downloadOptions(dir string, filename string) extract.DownloadOptions {
	return extract.DownloadOptions{
		Directory:           dir,
		Filename:            filename,
		Format:              orchestrator.config.FormatSelector(),
		ConcurrentFragments: orchestrator.config.ConcurrentFragments,
		RateLimit:           orchestrator.config.RateLimit,
		WriteThumbnail:      true,
		WriteSubtitles:      true,
		EmbedSubtitles:      true,
	}
}

// videoFailure constructs an error result. The message is the raw message
// of the cause, so that extractor failures are surfaced verbatim.
func videoFailure(kind error, cause error) *VideoResult {
	log.Emit(logger.ERROR, "Video ingestion failed (%v): %v\n", kind, cause)
	return &VideoResult{Status: StatusError, Message: cause.Error(), Err: fmt.Errorf("%w: %w", kind, cause)}
}

func playlistFailure(kind error, cause error) *PlaylistResult {
	log.Emit(logger.ERROR, "Playlist ingestion failed (%v): %v\n", kind, cause)
	return &PlaylistResult{Status: StatusError, Message: cause.Error(), Results: []EntryResult{}, Err: fmt.Errorf("%w: %w", kind, cause)}
}
