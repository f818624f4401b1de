package session

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/notator/internal/config"
	"github.com/Paintersrp/notator/internal/state"
)

func newState(t *testing.T) *state.State {
	t.Helper()
	home := t.TempDir()
	st, err := state.New(home, config.Default(home))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func run(t *testing.T, st *state.State, args ...string) string {
	t.Helper()
	cmd := NewCmdSession(st)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSessionShowsSavedTabs(t *testing.T) {
	st := newState(t)

	tab, err := st.Tabs.Open("")
	require.NoError(t, err)
	st.Tabs.Edit(tab, "some words")
	_, err = st.Tabs.Save(tab, "shown")
	require.NoError(t, err)
	require.NoError(t, st.Session.Commit())

	out := run(t, st)
	assert.Contains(t, out, "shown.md")
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "NOTE")
}

func TestSessionEmpty(t *testing.T) {
	st := newState(t)
	assert.Contains(t, run(t, st), "No saved session")
}

func TestSessionClear(t *testing.T) {
	st := newState(t)
	_, err := st.Tabs.Open("")
	require.NoError(t, err)
	require.NoError(t, st.Session.Commit())
	_, err = os.Stat(st.Session.Path())
	require.NoError(t, err)

	out := run(t, st, "clear", "--yes")
	assert.Contains(t, out, "Session cleared")
	_, err = os.Stat(st.Session.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestSessionClearDeclined(t *testing.T) {
	st := newState(t)
	_, err := st.Tabs.Open("")
	require.NoError(t, err)
	require.NoError(t, st.Session.Commit())

	orig := confirm
	confirm = func(string) (bool, error) { return false, nil }
	t.Cleanup(func() { confirm = orig })

	run(t, st, "clear")
	_, err = os.Stat(st.Session.Path())
	assert.NoError(t, err)
}
