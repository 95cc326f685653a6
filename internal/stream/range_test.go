package stream_test

import (
	"testing"

	"github.com/hbomb79/Trove/internal/stream"
	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		Summary  string
		Header   string
		Size     int64
		Expected stream.ByteRange
		Err      error
	}{
		{Summary: "closed range", Header: "bytes=100-199", Size: 1000, Expected: stream.ByteRange{Start: 100, End: 199}},
		{Summary: "open ended range", Header: "bytes=100-", Size: 1000, Expected: stream.ByteRange{Start: 100, End: 999}},
		{Summary: "suffix range", Header: "bytes=-100", Size: 1000, Expected: stream.ByteRange{Start: 900, End: 999}},
		{Summary: "suffix larger than file", Header: "bytes=-5000", Size: 1000, Expected: stream.ByteRange{Start: 0, End: 999}},
		{Summary: "end clamped to file", Header: "bytes=900-5000", Size: 1000, Expected: stream.ByteRange{Start: 900, End: 999}},
		{Summary: "single byte", Header: "bytes=0-0", Size: 1000, Expected: stream.ByteRange{Start: 0, End: 0}},
		{Summary: "start beyond file", Header: "bytes=1000-", Size: 1000, Err: stream.ErrUnsatisfiableRange},
		{Summary: "start after end", Header: "bytes=500-100", Size: 1000, Err: stream.ErrUnsatisfiableRange},
		{Summary: "zero suffix", Header: "bytes=-0", Size: 1000, Err: stream.ErrUnsatisfiableRange},
		{Summary: "empty file", Header: "bytes=0-", Size: 0, Err: stream.ErrUnsatisfiableRange},
		{Summary: "wrong unit", Header: "items=0-10", Size: 1000, Err: stream.ErrMalformedRange},
		{Summary: "multiple ranges", Header: "bytes=0-10,20-30", Size: 1000, Err: stream.ErrMalformedRange},
		{Summary: "missing dash", Header: "bytes=100", Size: 1000, Err: stream.ErrMalformedRange},
		{Summary: "bare dash", Header: "bytes=-", Size: 1000, Err: stream.ErrMalformedRange},
		{Summary: "not a number", Header: "bytes=abc-def", Size: 1000, Err: stream.ErrMalformedRange},
		{Summary: "negative end", Header: "bytes=10--5", Size: 1000, Err: stream.ErrMalformedRange},
	}

	for _, test := range tests {
		t.Run(test.Summary, func(t *testing.T) {
			r, err := stream.ParseRange(test.Header, test.Size)
			if test.Err != nil {
				assert.ErrorIs(t, err, test.Err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.Expected, r)
		})
	}
}

func TestByteRange_ContentRange(t *testing.T) {
	r := stream.ByteRange{Start: 100, End: 199}
	assert.Equal(t, int64(100), r.Length())
	assert.Equal(t, "bytes 100-199/1000", r.ContentRange(1000))
}
