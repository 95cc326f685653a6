package stream_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hbomb79/Trove/internal/catalog"
	"github.com/hbomb79/Trove/internal/stream"
	"github.com/hbomb79/Trove/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStore map[int64]*catalog.Video

func (s staticStore) GetVideo(id int64) (*catalog.Video, error) {
	if v, ok := s[id]; ok {
		return v, nil
	}

	return nil, catalog.ErrNotFound
}

func completedVideo(path string) *catalog.Video {
	return &catalog.Video{FilePath: &path, Status: catalog.VideoCompleted}
}

func writeFile(t *testing.T, path string, content []byte) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestOpenVideo(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte{0xAB}, 1000)
	writeFile(t, filepath.Join(dir, "a.mp4"), content)
	writeFile(t, filepath.Join(dir, "b.webm"), content)

	pending := completedVideo(filepath.Join(dir, "a.mp4"))
	pending.Status = catalog.VideoPending
	service := stream.New(staticStore{
		1: completedVideo(filepath.Join(dir, "a.mp4")),
		2: completedVideo(filepath.Join(dir, "b.webm")),
		3: completedVideo(filepath.Join(dir, "missing.mp4")),
		4: pending,
	})

	media, err := service.OpenVideo(1)
	require.NoError(t, err)
	defer media.Close()
	assert.Equal(t, int64(1000), media.Size)
	assert.Equal(t, "video/mp4", media.ContentType)

	var out bytes.Buffer
	n, err := stream.Copy(&out, media.Section(stream.ByteRange{Start: 100, End: 199}))
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	assert.Equal(t, content[100:200], out.Bytes())

	webm, err := service.OpenVideo(2)
	require.NoError(t, err)
	defer webm.Close()
	assert.Equal(t, "video/webm", webm.ContentType)

	for _, id := range []int64{3, 4, 99} {
		_, err := service.OpenVideo(id)
		assert.ErrorIs(t, err, catalog.ErrNotFound, "video %d should not be streamable", id)
	}
}

func TestThumbnailPath(t *testing.T) {
	dir, _ := helpers.TempDirWithFiles(t, []string{
		"sibling.mp4", "sibling.webp", "sibling.png",
		"stored.mp4", filepath.Join("thumbs", "stored.jpg"),
	})

	stored := completedVideo(filepath.Join(dir, "stored.mp4"))
	stored.ThumbnailPath = filepath.Join(dir, "thumbs", "stored.jpg")
	remote := completedVideo(filepath.Join(dir, "remote.mp4"))
	remote.ThumbnailPath = "https://i.ytimg.com/vi/x/hq.jpg"

	service := stream.New(staticStore{
		1: completedVideo(filepath.Join(dir, "sibling.mp4")),
		2: stored,
		3: remote,
	})

	path, err := service.ThumbnailPath(1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sibling.webp"), path, ".webp is preferred over .png")

	path, err = service.ThumbnailPath(2)
	require.NoError(t, err)
	assert.Equal(t, stored.ThumbnailPath, path)

	_, err = service.ThumbnailPath(3)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCopy_LargerThanChunk(t *testing.T) {
	content := bytes.Repeat([]byte("trove"), stream.ChunkSize)
	var out bytes.Buffer
	n, err := stream.Copy(&out, io.NopCloser(bytes.NewReader(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)
	assert.Equal(t, content, out.Bytes())
}
