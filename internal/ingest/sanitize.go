package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSegmentLength is the maximum number of characters retained
	// in a sanitized path segment.
	MaxSegmentLength = 200

	// MaxSegmentBytes bounds the encoded length of a sanitized path segment,
	// leaving room under the common 255 byte file name limit for the
	// extension and any temporary suffixes added by the extractor.
	MaxSegmentBytes = 240

	UnknownUploader = "Unknown"
	UntitledVideo   = "Untitled"
)

const illegalPathChars = `<>:"/\|?*`

// SanitizePathSegment makes the given string safe for use as a single segment of a
// file path on all supported filesystems: characters which are illegal on any of
// them (and control characters) are removed, trailing dots and spaces are trimmed,
// and the result is truncated to MaxSegmentLength characters and MaxSegmentBytes
// bytes. If nothing remains, the fallback is returned instead.
func SanitizePathSegment(s string, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(illegalPathChars, r) || r == unicode.ReplacementChar {
			return -1
		}

		return r
	}, s)

	cleaned = trimSegment(cleaned)
	if runes := []rune(cleaned); len(runes) > MaxSegmentLength {
		cleaned = trimSegment(string(runes[:MaxSegmentLength]))
	}
	if len(cleaned) > MaxSegmentBytes {
		cut := MaxSegmentBytes
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = trimSegment(cleaned[:cut])
	}

	if cleaned == "" {
		return fallback
	}

	return cleaned
}

func trimSegment(s string) string {
	return strings.TrimRight(strings.TrimLeftFunc(s, unicode.IsSpace), ". ")
}
