package stream

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/pkg/logger"
)

const (
	ChunkSize          = 64 * 1024
	DefaultContentType = "video/mp4"
)

var (
	log = logger.Get("StreamService")

	// ThumbnailExtensions are checked, in order, for a thumbnail saved
	// alongside a video file.
	ThumbnailExtensions = []string{".jpg", ".webp", ".png"}

	bufferPool = sync.Pool{New: func() any { b := make([]byte, ChunkSize); return &b }}
)

type (
	VideoStore interface {
		GetVideo(id int64) (*catalog.Video, error)
	}

	// Media is an opened, completed video file ready to be streamed. The caller
	// must Close the media once finished.
	Media struct {
		file        *os.File
		Size        int64
		ContentType string
	}

	// streamService resolves catalog IDs to files on disk. It holds no
	// per-request state.
	streamService struct {
		store VideoStore
	}
)

// The platform mime tables are not guaranteed to know about video containers.
func init() {
	for ext, typ := range map[string]string{
		".mp4":  "video/mp4",
		".m4v":  "video/x-m4v",
		".mkv":  "video/x-matroska",
		".webm": "video/webm",
		".mov":  "video/quicktime",
	} {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

func New(store VideoStore) *streamService {
	return &streamService{store: store}
}

// OpenVideo opens the file of the completed video with the given catalog ID. If the
// video is unknown, not completed, or it's file has gone missing, an error wrapping
// catalog.ErrNotFound is returned.
func (service *streamService) OpenVideo(id int64) (*Media, error) {
	video, err := service.store.GetVideo(id)
	if err != nil {
		return nil, err
	}
	if !video.IsPlayable() {
		return nil, fmt.Errorf("video %d has not been downloaded: %w", id, catalog.ErrNotFound)
	}

	file, err := os.Open(*video.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Emit(logger.WARNING, "File for video %d is missing from %s\n", id, *video.FilePath)
			return nil, fmt.Errorf("file for video %d is missing: %w", id, catalog.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to open file for video %d: %w", id, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file for video %d: %w", id, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("file for video %d is a directory: %w", id, catalog.ErrNotFound)
	}

	return &Media{
		file:        file,
		Size:        info.Size(),
		ContentType: contentType(file, info.Size()),
	}, nil
}

// ThumbnailPath returns the path to a local thumbnail for the video with the given
// catalog ID. A thumbnail saved alongside the video file is preferred, falling back to
// the stored thumbnail path if it refers to an existing local file.
func (service *streamService) ThumbnailPath(id int64) (string, error) {
	video, err := service.store.GetVideo(id)
	if err != nil {
		return "", err
	}

	if video.FilePath != nil {
		stem := strings.TrimSuffix(*video.FilePath, filepath.Ext(*video.FilePath))
		for _, ext := range ThumbnailExtensions {
			if isFile(stem + ext) {
				return stem + ext, nil
			}
		}
	}

	if video.ThumbnailPath != "" && filepath.IsAbs(video.ThumbnailPath) && isFile(video.ThumbnailPath) {
		return video.ThumbnailPath, nil
	}

	return "", fmt.Errorf("no thumbnail for video %d: %w", id, catalog.ErrNotFound)
}

// Section returns a reader over the inclusive byte range of the media.
func (media *Media) Section(r ByteRange) *io.SectionReader {
	return io.NewSectionReader(media.file, r.Start, r.Length())
}

// Full returns a reader over the entire media file.
func (media *Media) Full() *io.SectionReader {
	return io.NewSectionReader(media.file, 0, media.Size)
}

func (media *Media) Close() error {
	return media.file.Close()
}

// Copy streams the reader to the writer in fixed size chunks.
func Copy(w io.Writer, r io.Reader) (int64, error) {
	buf := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(buf)

	return io.CopyBuffer(w, r, *buf)
}

// contentType derives the content type of the file from it's extension,
// sniffing the file header when the extension is not recognised.
func contentType(file *os.File, size int64) string {
	if byExt := mime.TypeByExtension(filepath.Ext(file.Name())); byExt != "" {
		return byExt
	}

	detected, err := mimetype.DetectReader(io.NewSectionReader(file, 0, size))
	if err != nil || !strings.HasPrefix(detected.String(), "video/") {
		return DefaultContentType
	}

	return detected.String()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
