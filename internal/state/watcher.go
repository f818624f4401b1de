package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/notator/internal/pathutil"
)

// NoteChangedMsg reports that a note file was written or removed by
// something other than the editor's event loop. The editor decides whether
// the change concerns an open tab.
type NoteChangedMsg struct {
	Path    string
	Removed bool
}

type WatcherErrMsg struct {
	Err error
}

type NotesWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	ext      string
	done     chan struct{}
	once     sync.Once
	onChange func(NoteChangedMsg)
}

func NewNotesWatcher(dir, ext string) (*NotesWatcher, error) {
	normalized := pathutil.NormalizePath(dir)
	if normalized == "" {
		return nil, errors.New("notes directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &NotesWatcher{
		watcher: w,
		dir:     normalized,
		ext:     "." + strings.TrimPrefix(ext, "."),
		done:    make(chan struct{}),
	}

	if err := watcher.addRecursive(normalized); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Next blocks until the next relevant event and returns it as a message.
// The editor re-issues Next after handling each message.
func (w *NotesWatcher) Next() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.addRecursive(event.Name)
						continue
					}
				}

				if !w.isRelevant(event) {
					continue
				}

				msg := NoteChangedMsg{
					Path:    pathutil.NormalizePath(event.Name),
					Removed: event.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
				}
				if w.onChange != nil {
					w.onChange(msg)
				}
				return msg
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return WatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *NotesWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
	})

	return closeErr
}

// OnChange registers a callback invoked from the watcher goroutine for every
// relevant event.
func (w *NotesWatcher) OnChange(fn func(NoteChangedMsg)) {
	if w == nil {
		return
	}
	w.onChange = fn
}

func (w *NotesWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if path != normalized && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

func (w *NotesWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := pathutil.Relative(w.dir, event.Name)
	if err != nil || rel == "." || rel == "" || strings.HasPrefix(rel, "..") {
		return false
	}

	base := filepath.Base(rel)
	if strings.HasPrefix(base, ".") {
		return false
	}

	return strings.EqualFold(filepath.Ext(base), w.ext)
}
