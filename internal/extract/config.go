package extract

import "time"

type Config struct {
	// Binary is the path to the yt-dlp executable. When empty, yt-dlp
	// is resolved from the PATH.
	Binary           string        `yaml:"binary" env:"YTDLP_BINARY"`
	ProgressInterval time.Duration `yaml:"progress_interval" env:"YTDLP_PROGRESS_INTERVAL" env-default:"500ms"`
}
