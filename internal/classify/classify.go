// Package classify decides whether a video belongs in the "shorts" bucket
// of the library or alongside regular videos.
package classify

import "strings"

const (
	// ShortsMarker is the path segment present in the URL of short-form videos.
	ShortsMarker = "/shorts/"

	// MaxShortDuration is the longest a video may run (in seconds) and still
	// be considered short-form by it's dimensions alone.
	MaxShortDuration = 60
)

type Bucket string

const (
	BucketVideos Bucket = "videos"
	BucketShorts Bucket = "shorts"
)

// IsShort returns true if the video is short-form. A video is short-form if
// the URL it was retrieved from is a shorts URL, or if it is no longer than
// MaxShortDuration and is presented in portrait. Unknown (zero) dimensions
// never satisfy the portrait check.
func IsShort(durationSeconds, width, height int, sourceURL string) bool {
	if strings.Contains(sourceURL, ShortsMarker) {
		return true
	}

	return durationSeconds <= MaxShortDuration && width > 0 && height > 0 && height > width
}

// BucketFor returns the library bucket a video with the given
// classification is stored within.
func BucketFor(isShort bool) Bucket {
	if isShort {
		return BucketShorts
	}

	return BucketVideos
}
