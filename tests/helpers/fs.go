package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempDirWithFiles creates a temporary directory containing the files named,
// returning the directory and the full path of each file. Names may
// contain sub-directories, which are created as needed.
func TempDirWithFiles(t *testing.T, files []string) (string, []string) {
	dirPath := t.TempDir()
	filePaths := make([]string, 0, len(files))
	for _, filename := range files {
		path := filepath.Join(dirPath, filename)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm), "failed to create parent directory for temporary file")
		require.NoError(t, os.WriteFile(path, []byte(filename), 0o644), "failed to create temporary file in temporary dir")
		filePaths = append(filePaths, path)
	}

	return dirPath, filePaths
}
