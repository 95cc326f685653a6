package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const rangeUnit = "bytes="

var (
	ErrMalformedRange     = errors.New("malformed range header")
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)

// ByteRange is an inclusive range of bytes within a file.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// ContentRange formats the range as the value of a Content-Range header
// for a file of the given size.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// ParseRange parses a single 'bytes=' range from a Range header for a file
// of the given size. Supported forms are 'a-b', 'a-' and '-n' (the final n bytes).
// An end beyond the file is clamped to the last byte.
//
// ErrMalformedRange is returned if the header cannot be parsed (including
// multi-range requests), and ErrUnsatisfiableRange if the range lies
// outside of the file.
func ParseRange(header string, size int64) (ByteRange, error) {
	rangeSet, ok := strings.CutPrefix(strings.TrimSpace(header), rangeUnit)
	if !ok || strings.Contains(rangeSet, ",") {
		return ByteRange{}, ErrMalformedRange
	}

	startStr, endStr, ok := strings.Cut(strings.TrimSpace(rangeSet), "-")
	if !ok || (startStr == "" && endStr == "") {
		return ByteRange{}, ErrMalformedRange
	}

	if startStr == "" {
		suffix, err := parseOffset(endStr)
		if err != nil {
			return ByteRange{}, err
		}
		if suffix == 0 || size == 0 {
			return ByteRange{}, ErrUnsatisfiableRange
		}

		return ByteRange{Start: max(0, size-suffix), End: size - 1}, nil
	}

	start, err := parseOffset(startStr)
	if err != nil {
		return ByteRange{}, err
	}

	end := size - 1
	if endStr != "" {
		if end, err = parseOffset(endStr); err != nil {
			return ByteRange{}, err
		}
		end = min(end, size-1)
	}

	if start >= size || start > end {
		return ByteRange{}, ErrUnsatisfiableRange
	}

	return ByteRange{Start: start, End: end}, nil
}

func parseOffset(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, ErrMalformedRange
	}

	return v, nil
}
