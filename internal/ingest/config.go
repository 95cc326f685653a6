package ingest

import (
	"fmt"
	"time"
)

// Config contains configuration options that allow
// customization of how Trove retrieves and stores media.
type Config struct {
	// The root of the library. Media is stored beneath this
	// directory as <bucket>/<uploader>/<title>.<ext>
	LibraryPath string `yaml:"library_path" env:"LIBRARY_PATH" env-default:"~/Trove"`

	// Controls the number of workers that can process jobs. Reducing
	// to 1 means one download at a time.
	Workers int `yaml:"workers" env:"INGEST_WORKERS" env-default:"1" validate:"min=1"`

	// The transfer-rate ceiling passed to the extractor (e.g. 5M)
	RateLimit string `yaml:"rate_limit" env:"INGEST_RATE_LIMIT" env-default:"5M"`

	// The maximum vertical resolution to download
	MaxHeight int `yaml:"max_height" env:"INGEST_MAX_HEIGHT" env-default:"1080" validate:"min=144"`

	ConcurrentFragments int `yaml:"concurrent_fragments" env:"INGEST_CONCURRENT_FRAGMENTS" env-default:"1" validate:"min=1"`

	// Every download is cancelled if it has not completed within this duration
	DownloadTimeout time.Duration `yaml:"download_timeout" env:"INGEST_DOWNLOAD_TIMEOUT" env-default:"2h"`
}

// FormatSelector returns the extractor format selection which prefers a separate mp4
// video and m4a audio stream (merged after download), capped at the configured height.
func (config *Config) FormatSelector() string {
	return fmt.Sprintf("bestvideo[height<=%[1]d][ext=mp4]+bestaudio[ext=m4a]/best[height<=%[1]d]", config.MaxHeight)
}
