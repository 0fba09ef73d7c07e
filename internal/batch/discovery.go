package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// discoverImageFiles lists the regular files directly inside dir whose base
// name matches pattern, in name order. Subdirectories are not descended into.
func discoverImageFiles(dir, pattern string, caseInsensitive bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !isRegular(dir, entry) {
			continue
		}
		ok, err := matchPattern(pattern, entry.Name(), caseInsensitive)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// matchPattern matches a base name against a glob, optionally folding case.
func matchPattern(pattern, name string, caseInsensitive bool) (bool, error) {
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
		name = strings.ToLower(name)
	}
	return filepath.Match(pattern, name)
}

// isRegular reports whether entry is a regular file, following symlinks.
func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
