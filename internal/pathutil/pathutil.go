package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// Relative returns target relative to dir using forward slashes.
func Relative(dir, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(dir), NormalizePath(target))
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// Label returns the short form of target shown in tab bars and pickers:
// the notes-relative path when target lives under dir, otherwise the base name.
func Label(dir, target string) string {
	if target == "" {
		return ""
	}

	rel, err := Relative(dir, target)
	if err != nil || rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return filepath.Base(target)
	}

	return rel
}
