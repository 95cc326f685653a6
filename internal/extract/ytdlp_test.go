package extract

import (
	"path/filepath"
	"testing"

	"github.com/hbomb79/Trove/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DecodeMetadata(t *testing.T) {
	raw := `{
		"id": "dQw4w9WgXcQ",
		"title": "Never Gonna Give You Up",
		"uploader": "",
		"channel": "Rick Astley",
		"upload_date": "20091025",
		"duration": 212.0,
		"description": "The official video",
		"view_count": 1500000000,
		"width": 1920,
		"height": null,
		"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	}`

	meta, err := decodeMetadata([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, "Rick Astley", meta.Uploader, "uploader should fall back to channel")
	assert.Equal(t, 212, meta.Duration)
	assert.Equal(t, int64(1500000000), meta.ViewCount)
	assert.Equal(t, 1920, meta.Width)
	assert.Equal(t, 0, meta.Height)
}

func Test_DecodeMetadata_MissingID(t *testing.T) {
	_, err := decodeMetadata([]byte(`{"title": "no id"}`))
	assert.Error(t, err)

	_, err = decodeMetadata([]byte(`not json`))
	assert.Error(t, err)
}

func Test_DecodePlaylist(t *testing.T) {
	raw := `{
		"id": "PL123",
		"title": "My Playlist",
		"description": "Things",
		"entries": [
			{"id": "a", "url": "https://www.youtube.com/watch?v=a", "title": "A"},
			null,
			{"id": "c", "title": "C"}
		]
	}`

	listing, err := decodePlaylist([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "PL123", listing.ID)
	assert.Equal(t, "My Playlist", listing.Title)
	require.Len(t, listing.Entries, 3)
	assert.Equal(t, PlaylistEntry{ID: "a", URL: "https://www.youtube.com/watch?v=a", Title: "A"}, listing.Entries[0])
	assert.Equal(t, PlaylistEntry{}, listing.Entries[1])
	assert.Equal(t, PlaylistEntry{ID: "c", Title: "C"}, listing.Entries[2])
}

func Test_LocateDownload(t *testing.T) {
	dir, _ := helpers.TempDirWithFiles(t, []string{"My Video.mp4", "My Video.webp", "My Video.en.vtt", "Other.mp4"})

	download, err := locateDownload(dir, "My Video")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My Video.mp4"), download.FilePath)
	assert.Equal(t, filepath.Join(dir, "My Video.webp"), download.ThumbnailPath)

	_, err = locateDownload(dir, "Missing")
	assert.ErrorIs(t, err, ErrNoMediaFile)
}

func Test_OutputTemplate_EscapesStem(t *testing.T) {
	tests := []struct {
		summary  string
		stem     string
		expected string
	}{
		{"Plain stem", "My Video", filepath.Join("lib", "My Video") + ".%(ext)s"},
		{"Percent escaped", "100% real", filepath.Join("lib", "100%% real") + ".%(ext)s"},
		{"Template field escaped", "%(id)s trick", filepath.Join("lib", "%%(id)s trick") + ".%(ext)s"},
	}

	for _, test := range tests {
		t.Run(test.summary, func(t *testing.T) {
			assert.Equal(t, test.expected, outputTemplate("lib", test.stem))
		})
	}
}

func Test_LocateDownload_StemWithTemplateSyntax(t *testing.T) {
	dir, _ := helpers.TempDirWithFiles(t, []string{"%(id)s trick.mp4"})

	download, err := locateDownload(dir, "%(id)s trick")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "%(id)s trick.mp4"), download.FilePath)
}

func Test_LastErrorLine(t *testing.T) {
	stderr := "WARNING: something\nERROR: [youtube] abc: Video unavailable\n"
	assert.Equal(t, "ERROR: [youtube] abc: Video unavailable", lastErrorLine(stderr))
	assert.Equal(t, "", lastErrorLine("WARNING: only a warning"))
}
