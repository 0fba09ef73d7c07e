package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempDir creates a temporary directory for testing.
func CreateTempDir(t *testing.T) string {
	t.Helper()

	return t.TempDir()
}

// CreateBatchDirs creates an "images" input directory inside a fresh temp dir
// and returns it together with the (not yet created) "processed_images" path.
func CreateBatchDirs(t *testing.T) (string, string) {
	t.Helper()

	root := CreateTempDir(t)
	in := filepath.Join(root, "images")
	if err := EnsureDir(in); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}
	return in, filepath.Join(root, "processed_images")
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o750)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
