package note

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an identifier has no backing file.
	ErrNotFound = errors.New("note not found")
	// ErrNameTaken is returned when an explicitly chosen name already exists.
	ErrNameTaken = errors.New("note name already in use")
	// ErrIO matches every *IOError via errors.Is.
	ErrIO = errors.New("note storage failure")
)

// IOError wraps a read or write failure (permissions, disk space, bad path).
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
