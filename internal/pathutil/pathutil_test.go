package pathutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRelativeReturnsForwardSlashes(t *testing.T) {
	dirParts := []string{"home", "user", "notes"}
	fileParts := append(append([]string{}, dirParts...), "subdir", "file.md")

	posixDir := filepath.Join(dirParts...)
	posixFile := filepath.Join(fileParts...)

	rel, err := Relative(posixDir, posixFile)
	if err != nil {
		t.Fatalf("Relative returned error for POSIX paths: %v", err)
	}
	if rel != "subdir/file.md" {
		t.Fatalf("expected relative path 'subdir/file.md', got %q", rel)
	}

	windowsDir := strings.ReplaceAll(posixDir, string(filepath.Separator), "\\")
	windowsFile := strings.ReplaceAll(posixFile, string(filepath.Separator), "\\")

	rel, err = Relative(windowsDir, windowsFile)
	if err != nil {
		t.Fatalf("Relative returned error for Windows paths: %v", err)
	}
	if rel != "subdir/file.md" {
		t.Fatalf("expected relative path 'subdir/file.md', got %q", rel)
	}
}

func TestLabel(t *testing.T) {
	dir := filepath.Join("/", "notes")

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "inside", target: filepath.Join(dir, "draft.md"), want: "draft.md"},
		{name: "nested", target: filepath.Join(dir, "a", "b.md"), want: "a/b.md"},
		{name: "outside", target: filepath.Join("/", "tmp", "other.md"), want: "other.md"},
		{name: "empty", target: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(dir, tt.target); got != tt.want {
				t.Fatalf("Label(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}
