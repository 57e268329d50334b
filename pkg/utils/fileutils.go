package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ocr-refine/pkg/constants"
)

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return os.MkdirAll(dirPath, constants.DefaultDirPermission)
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// BaseStem returns the file name without directory or extension,
// used to derive artifact names from an input image path.
func BaseStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListImageFiles returns the supported image files directly inside dir,
// sorted by name so batch order is deterministic.
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapError(err, ErrorTypeIO, "cannot read images directory")
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if constants.IsSupportedImage(ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// WriteTextFile writes content to path, creating parent directories.
func WriteTextFile(path, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), constants.DefaultFilePermission); err != nil {
		return WrapError(err, ErrorTypeIO, fmt.Sprintf("cannot write %s", path))
	}
	return nil
}
