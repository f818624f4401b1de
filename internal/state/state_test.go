package state_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/notator/internal/config"
	"github.com/Paintersrp/notator/internal/state"
)

func newState(t *testing.T) *state.State {
	t.Helper()

	home := t.TempDir()
	s, err := state.New(home, config.Default(home))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRejectsUnusableNotesDir(t *testing.T) {
	home := t.TempDir()
	blocker := filepath.Join(home, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := config.Default(home)
	cfg.NotesDir = filepath.Join(blocker, "notes")

	_, err := state.New(home, cfg)
	assert.Error(t, err)
}

func TestNewRejectsBadKeymap(t *testing.T) {
	home := t.TempDir()
	cfg := config.Default(home)
	cfg.Keymap["not-a-command"] = "ctrl+x"

	_, err := state.New(home, cfg)
	assert.Error(t, err)
}

func TestRestoreAndShutdown(t *testing.T) {
	s := newState(t)

	note := filepath.Join(s.Store.Dir(), "kept.md")
	require.NoError(t, os.WriteFile(note, []byte("kept"), 0o644))

	require.NoError(t, s.Restore([]string{note}, false))
	require.Equal(t, 1, s.Tabs.Len())
	assert.Equal(t, note, s.Tabs.Active().Note.ID)

	require.NoError(t, s.Shutdown())

	sess, err := s.Session.Load()
	require.NoError(t, err)
	require.Len(t, sess.Tabs, 1)
	assert.Equal(t, note, sess.Tabs[0].ID)
}

func TestRestoreFreshIgnoresSession(t *testing.T) {
	s := newState(t)

	require.NoError(t, s.Restore(nil, true))
	require.Equal(t, 1, s.Tabs.Len())
	assert.False(t, s.Tabs.Active().Note.Bound())
}

func TestRestoreReportsMissingFiles(t *testing.T) {
	s := newState(t)

	err := s.Restore([]string{"does-not-exist"}, true)
	assert.Error(t, err)
	assert.Equal(t, 1, s.Tabs.Len())
}

func TestWatcherReportsNoteChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := state.NewNotesWatcher(dir, "md")
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Next()() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "changed.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	select {
	case msg := <-msgs:
		changed, ok := msg.(state.NoteChangedMsg)
		require.True(t, ok, "unexpected message %T", msg)
		assert.Equal(t, path, changed.Path)
		assert.False(t, changed.Removed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
}

func TestWatcherCloseUnblocksNext(t *testing.T) {
	w, err := state.NewNotesWatcher(t.TempDir(), "md")
	require.NoError(t, err)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Next()() }()

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case msg := <-msgs:
		assert.Nil(t, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after Close")
	}
}
