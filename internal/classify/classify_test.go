package classify_test

import (
	"testing"

	"github.com/hbomb79/Trove/internal/classify"
	"github.com/stretchr/testify/assert"
)

func Test_IsShort(t *testing.T) {
	tests := []struct {
		summary  string
		duration int
		width    int
		height   int
		url      string
		expected bool
	}{
		{"Shorts URL, long landscape", 3600, 1920, 1080, "https://www.youtube.com/shorts/abc123", true},
		{"Shorts URL, unknown dimensions", 0, 0, 0, "https://youtube.com/shorts/abc123?feature=share", true},
		{"Short portrait", 45, 720, 1280, "https://www.youtube.com/watch?v=abc123", true},
		{"Exactly sixty seconds portrait", 60, 1080, 1920, "https://www.youtube.com/watch?v=abc123", true},
		{"Short landscape", 45, 1280, 720, "https://www.youtube.com/watch?v=abc123", false},
		{"Long portrait", 120, 720, 1280, "https://www.youtube.com/watch?v=abc123", false},
		{"Square", 30, 1080, 1080, "https://www.youtube.com/watch?v=abc123", false},
		{"Missing duration, portrait", 0, 720, 1280, "https://www.youtube.com/watch?v=abc123", true},
		{"Missing duration, unknown width", 0, 0, 1280, "https://www.youtube.com/watch?v=abc123", false},
		{"Missing duration, unknown height", 0, 720, 0, "https://www.youtube.com/watch?v=abc123", false},
		{"Shorts marker without slashes", 45, 1280, 720, "https://www.youtube.com/shortsabc", false},
	}

	for _, test := range tests {
		t.Run(test.summary, func(t *testing.T) {
			assert.Equal(t, test.expected, classify.IsShort(test.duration, test.width, test.height, test.url))
		})
	}
}

func Test_BucketFor(t *testing.T) {
	assert.Equal(t, classify.BucketShorts, classify.BucketFor(true))
	assert.Equal(t, classify.BucketVideos, classify.BucketFor(false))
}
