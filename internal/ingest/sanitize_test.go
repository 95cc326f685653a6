package ingest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hbomb79/Trove/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SanitizePathSegment(t *testing.T) {
	tests := []struct {
		summary  string
		input    string
		expected string
	}{
		{"Untouched", "My Great Video", "My Great Video"},
		{"Illegal characters removed", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"Control characters removed", "tab\there\x00nul\x1b", "tabherenul"},
		{"Trailing dots and spaces trimmed", "Ends with dots... ", "Ends with dots"},
		{"Leading whitespace trimmed", "   padded", "padded"},
		{"Unicode retained", "日本語のタイトル", "日本語のタイトル"},
		{"Only illegal characters falls back", `<>:"/\|?*`, "Fallback"},
		{"Empty falls back", "", "Fallback"},
		{"Only dots falls back", "...", "Fallback"},
	}

	for _, test := range tests {
		t.Run(test.summary, func(t *testing.T) {
			assert.Equal(t, test.expected, ingest.SanitizePathSegment(test.input, "Fallback"))
		})
	}
}

func Test_SanitizePathSegment_Truncates(t *testing.T) {
	long := strings.Repeat("a/b", 150) // 450 chars, 300 once the slashes are removed
	result := ingest.SanitizePathSegment(long, ingest.UntitledVideo)

	assert.Equal(t, ingest.MaxSegmentLength, utf8.RuneCountInString(result))
	assert.NotContains(t, result, "/")
	assert.Equal(t, strings.Repeat("ab", 100), result)
}

func Test_SanitizePathSegment_TruncationCountsCharacters(t *testing.T) {
	long := strings.Repeat("é", 40) + strings.Repeat("a", 210)
	result := ingest.SanitizePathSegment(long, ingest.UntitledVideo)

	assert.True(t, utf8.ValidString(result))
	assert.Equal(t, ingest.MaxSegmentLength, utf8.RuneCountInString(result))
	assert.LessOrEqual(t, len(result), ingest.MaxSegmentBytes)
}

func Test_SanitizePathSegment_MultiByteFitsFileNameLimit(t *testing.T) {
	result := ingest.SanitizePathSegment(strings.Repeat("猫", 250), ingest.UntitledVideo)

	assert.True(t, utf8.ValidString(result))
	assert.LessOrEqual(t, len(result), ingest.MaxSegmentBytes)
	assert.Equal(t, strings.Repeat("猫", ingest.MaxSegmentBytes/3), result)

	path := filepath.Join(t.TempDir(), result+".mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644), "sanitized segment must be writable as a file name")
}

func Test_SanitizePathSegment_ByteTruncationRespectsRuneBoundary(t *testing.T) {
	// 4 byte runes do not divide MaxSegmentBytes evenly once prefixed.
	result := ingest.SanitizePathSegment("a"+strings.Repeat("😀", 100), ingest.UntitledVideo)

	assert.True(t, utf8.ValidString(result))
	assert.LessOrEqual(t, len(result), ingest.MaxSegmentBytes)
	assert.Equal(t, "a"+strings.Repeat("😀", (ingest.MaxSegmentBytes-1)/4), result)
}

func Test_SanitizePathSegment_TrimsAfterTruncation(t *testing.T) {
	long := strings.Repeat("a", 199) + "." + strings.Repeat("b", 10)
	result := ingest.SanitizePathSegment(long, ingest.UntitledVideo)

	assert.Equal(t, strings.Repeat("a", 199), result)
}
