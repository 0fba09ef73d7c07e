package testutil

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tempDir := CreateTempDir(t)
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	require.NoError(t, EnsureDir(testDir))
	assert.True(t, DirExists(testDir))
}

func TestFileExists(t *testing.T) {
	assert.False(t, FileExists("/non/existent/file"))
	assert.False(t, DirExists("/non/existent/dir"))
}

func TestCreateBatchDirs(t *testing.T) {
	in, out := CreateBatchDirs(t)
	assert.True(t, DirExists(in))
	assert.False(t, DirExists(out))
	assert.Equal(t, filepath.Dir(in), filepath.Dir(out))
}

func TestWriteSolidImageRoundTrip(t *testing.T) {
	path := filepath.Join(CreateTempDir(t), "gray.jpg")
	WriteSolidImage(t, path, 16, 8, color.Gray{Y: 128})

	img := LoadImage(t, path)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	AssertUniformGray(t, img, 128, 1)
}
