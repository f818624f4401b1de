package handler

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type FileHandler struct {
	notesDir string
}

func NewFileHandler(notesDir string) *FileHandler {
	return &FileHandler{notesDir: notesDir}
}

// WalkFiles returns every note under the notes directory carrying ext,
// skipping hidden entries (including in-flight temp files) and excludeDirs.
func (h *FileHandler) WalkFiles(ext string, excludeDirs []string) ([]string, error) {
	var files []string

	ext = "." + strings.TrimPrefix(ext, ".")

	excludePaths := make(map[string]struct{}, len(excludeDirs))
	for _, d := range excludeDirs {
		excludePaths[filepath.Clean(filepath.Join(h.notesDir, d))] = struct{}{}
	}

	err := filepath.WalkDir(
		h.notesDir,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == h.notesDir {
					return err
				}
				return nil
			}

			if path == h.notesDir {
				return nil
			}

			if d.IsDir() {
				if _, skip := excludePaths[filepath.Clean(path)]; skip {
					return filepath.SkipDir
				}
			}

			name := d.Name()
			if strings.HasPrefix(name, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.IsDir() && filepath.Ext(name) == ext {
				files = append(files, path)
			}

			return nil
		},
	)

	return files, err
}

// Exists reports whether path names an existing entry. Errors other than
// not-exist are treated as existing so callers never overwrite blindly.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	return !os.IsNotExist(err)
}
