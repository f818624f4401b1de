// Package note persists editor notes as plain files in the notes directory.
package note

import (
	"path/filepath"
	"time"
)

// Note is a single unit of text with an optional on-disk binding. An empty ID
// means the note has never been saved.
type Note struct {
	ID      string
	Content string
	Created time.Time
}

// New returns an unsaved, empty note stamped with created.
func New(created time.Time) Note {
	return Note{Created: created}
}

// Bound reports whether the note has been assigned a file.
func (n Note) Bound() bool {
	return n.ID != ""
}

// Name returns the file name of a bound note, or "untitled".
func (n Note) Name() string {
	if !n.Bound() {
		return "untitled"
	}
	return filepath.Base(n.ID)
}
