package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hbomb79/Trove/pkg/logger"
	"github.com/lrstanley/go-ytdlp"
)

var (
	ErrNoMediaFile = errors.New("extractor reported success but no media file was found")

	log = logger.Get("Extractor")

	mediaExtensions     = []string{".mp4", ".mkv", ".webm", ".mov", ".m4v"}
	thumbnailExtensions = []string{".jpg", ".webp", ".png"}
)

// Client is an Extractor backed by the yt-dlp executable.
type Client struct {
	config Config
}

func NewClient(config Config) *Client {
	return &Client{config: config}
}

func (c *Client) command() *ytdlp.Command {
	cmd := ytdlp.New().NoWarnings()
	if c.config.Binary != "" {
		cmd.SetExecutable(c.config.Binary)
	}

	return cmd
}

// Probe retrieves the metadata of a single video, without downloading it.
func (c *Client) Probe(ctx context.Context, url string) (*Metadata, error) {
	result, err := c.command().DumpSingleJSON().NoPlaylist().SkipDownload().Run(ctx, url)
	if err != nil {
		return nil, extractorError(result, err)
	}

	return decodeMetadata([]byte(result.Stdout))
}

// ListPlaylist retrieves the flattened listing of a playlist.
func (c *Client) ListPlaylist(ctx context.Context, url string) (*PlaylistListing, error) {
	result, err := c.command().DumpSingleJSON().FlatPlaylist().Run(ctx, url)
	if err != nil {
		return nil, extractorError(result, err)
	}

	return decodePlaylist([]byte(result.Stdout))
}

// Download retrieves the media to the directory and filename stem described by the
// options. The progress callback, if provided, is called periodically while
// the download is running.
func (c *Client) Download(ctx context.Context, url string, opts DownloadOptions, onProgress ProgressFunc) (*Download, error) {
	cmd := c.command().
		NoPlaylist().
		Output(outputTemplate(opts.Directory, opts.Filename))

	if opts.Format != "" {
		cmd.Format(opts.Format).MergeOutputFormat("mp4")
	}
	if opts.ConcurrentFragments > 0 {
		cmd.ConcurrentFragments(opts.ConcurrentFragments)
	}
	if opts.RateLimit != "" {
		cmd.LimitRate(opts.RateLimit)
	}
	if opts.WriteThumbnail {
		cmd.WriteThumbnail()
	}
	if opts.WriteSubtitles {
		cmd.WriteSubs().WriteAutoSubs()
	}
	if opts.EmbedSubtitles {
		cmd.EmbedSubs()
	}
	if onProgress != nil {
		cmd.ProgressFunc(c.config.ProgressInterval, func(update ytdlp.ProgressUpdate) {
			onProgress(progressFromUpdate(update))
		})
	}

	log.Verbosef("Downloading %s to %s\n", url, opts.Directory)
	if result, err := cmd.Run(ctx, url); err != nil {
		return nil, extractorError(result, err)
	}

	return locateDownload(opts.Directory, opts.Filename)
}

// outputTemplate returns the yt-dlp output template for the directory and
// filename stem. The stem is escaped so it is never expanded as a template field.
func outputTemplate(dir string, filename string) string {
	return filepath.Join(dir, strings.ReplaceAll(filename, "%", "%%")) + ".%(ext)s"
}

func progressFromUpdate(update ytdlp.ProgressUpdate) Progress {
	progress := Progress{
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETA:             update.ETA(),
	}
	if update.TotalBytes > 0 {
		progress.Percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
	}
	if !update.Started.IsZero() {
		if elapsed := time.Since(update.Started).Seconds(); elapsed > 0 {
			progress.Speed = float64(update.DownloadedBytes) / elapsed
		}
	}

	return progress
}

// locateDownload finds the media file (and thumbnail, if any) written by
// the extractor for the given stem. The extension of the media file is
// chosen by the extractor so cannot be known ahead of time.
func locateDownload(dir string, stem string) (*Download, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read download directory %s: %w", dir, err)
	}

	download := &Download{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if strings.TrimSuffix(name, filepath.Ext(name)) != stem {
			continue
		}

		switch {
		case slices.Contains(mediaExtensions, ext):
			download.FilePath = filepath.Join(dir, name)
		case slices.Contains(thumbnailExtensions, ext):
			download.ThumbnailPath = filepath.Join(dir, name)
		}
	}

	if download.FilePath == "" {
		return nil, fmt.Errorf("%w (directory %s, filename %s)", ErrNoMediaFile, dir, stem)
	}

	return download, nil
}

// extractorError builds an error containing the extractors own diagnostic output,
// which is surfaced to the caller verbatim.
func extractorError(result *ytdlp.Result, err error) error {
	if result != nil {
		if msg := lastErrorLine(result.Stderr); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}

	return err
}

func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}

	return ""
}

// rawInfo mirrors the JSON document printed by yt-dlp's --dump-single-json. Numeric
// fields are frequently null or fractional, hence the pointers to floats.
type rawInfo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Uploader    string     `json:"uploader"`
	Channel     string     `json:"channel"`
	UploadDate  string     `json:"upload_date"`
	Duration    *float64   `json:"duration"`
	Description string     `json:"description"`
	ViewCount   *float64   `json:"view_count"`
	Width       *float64   `json:"width"`
	Height      *float64   `json:"height"`
	Thumbnail   string     `json:"thumbnail"`
	WebpageURL  string     `json:"webpage_url"`
	URL         string     `json:"url"`
	Entries     []*rawInfo `json:"entries"`
}

func decodeMetadata(raw []byte) (*Metadata, error) {
	var info rawInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode extractor metadata: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("extractor metadata is missing a video ID")
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = info.Channel
	}

	return &Metadata{
		ID:          info.ID,
		Title:       info.Title,
		Uploader:    uploader,
		UploadDate:  info.UploadDate,
		Duration:    intOrZero(info.Duration),
		Description: info.Description,
		ViewCount:   int64(intOrZero(info.ViewCount)),
		Width:       intOrZero(info.Width),
		Height:      intOrZero(info.Height),
		Thumbnail:   info.Thumbnail,
		WebpageURL:  info.WebpageURL,
	}, nil
}

func decodePlaylist(raw []byte) (*PlaylistListing, error) {
	var info rawInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode extractor playlist listing: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("extractor playlist listing is missing a playlist ID")
	}

	listing := &PlaylistListing{
		ID:          info.ID,
		Title:       info.Title,
		Description: info.Description,
		Entries:     make([]PlaylistEntry, 0, len(info.Entries)),
	}
	for _, entry := range info.Entries {
		// Unavailable (e.g. private) entries are reported as null. They're kept
		// as empty entries so that the positions of the remaining entries hold.
		if entry == nil {
			listing.Entries = append(listing.Entries, PlaylistEntry{})
			continue
		}

		listing.Entries = append(listing.Entries, PlaylistEntry{ID: entry.ID, URL: entry.URL, Title: entry.Title})
	}

	return listing, nil
}

func intOrZero(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}

	return int(*v)
}
