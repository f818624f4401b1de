package autosave_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Paintersrp/notator/internal/autosave"
	"github.com/Paintersrp/notator/internal/note"
	"github.com/Paintersrp/notator/internal/tabs"
)

type countingCommitter struct {
	commits int
	err     error
}

func (c *countingCommitter) Commit() error {
	c.commits++
	return c.err
}

type guardedStore struct {
	*note.Store
	reject map[string]bool
}

func (g *guardedStore) Save(n note.Note, rename string) (string, error) {
	if g.reject[n.Content] {
		return "", &note.IOError{Op: "write", Path: n.ID, Err: errors.New("no space left on device")}
	}
	return g.Store.Save(n, rename)
}

func newScheduler(t *testing.T, opts ...autosave.Option) (*autosave.Scheduler, *tabs.Model, *guardedStore, *countingCommitter) {
	t.Helper()

	s, err := note.NewStore(t.TempDir(), "md")
	require.NoError(t, err)

	gs := &guardedStore{Store: s, reject: map[string]bool{}}
	tm := tabs.New(gs)
	c := &countingCommitter{}
	return autosave.New(tm, c, 10*time.Second, opts...), tm, gs, c
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFireNeverLosesEdits(t *testing.T) {
	sched, tm, _, c := newScheduler(t)
	tab, err := tm.Open("")
	require.NoError(t, err)

	tm.Edit(tab, "one")
	r := sched.Fire()
	require.Len(t, r.Saved, 1)
	assert.Equal(t, "one", readFile(t, tab.Note.ID))
	assert.False(t, tab.Dirty)

	tm.Edit(tab, "one two")
	assert.True(t, tab.Dirty)

	r = sched.Fire()
	require.Len(t, r.Saved, 1)
	assert.Equal(t, r.Saved[0], tab.Note.ID)
	assert.Equal(t, "one two", readFile(t, tab.Note.ID))
	assert.Equal(t, 2, c.commits)
}

func TestFireWithNothingDirtyDoesNotCommit(t *testing.T) {
	sched, tm, _, c := newScheduler(t)
	_, err := tm.Open("")
	require.NoError(t, err)

	r := sched.Fire()
	assert.Empty(t, r.Saved)
	assert.Zero(t, c.commits)
}

func TestFireSkipsInFlightAndReportsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sched, tm, gs, c := newScheduler(t, autosave.WithLogger(zap.New(core)))

	inflight, _ := tm.Open("")
	broken, _ := tm.Open("")
	fine, _ := tm.Open("")

	tm.Edit(inflight, "in flight")
	tm.Edit(broken, "bad")
	tm.Edit(fine, "good")
	gs.reject["bad"] = true

	_, err := tm.BeginSave(inflight, "")
	require.NoError(t, err)

	r := sched.Fire()
	assert.Equal(t, 1, r.Skipped)
	require.Len(t, r.Failed, 1)
	assert.Equal(t, broken.ID, r.Failed[0].Tab)
	assert.ErrorIs(t, r.Failed[0].Err, note.ErrIO)
	assert.Equal(t, []string{fine.Note.ID}, r.Saved)
	assert.True(t, broken.Dirty)
	assert.Equal(t, 1, c.commits)

	assert.Equal(t, 1, logs.FilterMessage("autosave failed").Len())
}

func TestFireReportsCommitError(t *testing.T) {
	sched, tm, _, c := newScheduler(t)
	c.err = errors.New("session dir gone")

	tab, _ := tm.Open("")
	tm.Edit(tab, "x")

	r := sched.Fire()
	assert.Len(t, r.Saved, 1)
	assert.EqualError(t, r.CommitErr, "session dir gone")
}

func TestStopInvalidatesScheduledFires(t *testing.T) {
	sched, _, _, _ := newScheduler(t)

	assert.True(t, sched.Accept(autosave.FireMsg{Gen: 0}))
	sched.Stop()
	assert.False(t, sched.Accept(autosave.FireMsg{Gen: 0}))
	assert.True(t, sched.Accept(autosave.FireMsg{Gen: 1}))
}

func TestTickDeliversCurrentGeneration(t *testing.T) {
	s, err := note.NewStore(t.TempDir(), "md")
	require.NoError(t, err)

	sched := autosave.New(tabs.New(s), nil, time.Millisecond)
	sched.Stop()

	cmd := sched.Tick()
	require.NotNil(t, cmd)
	msg, ok := cmd().(autosave.FireMsg)
	require.True(t, ok)
	assert.True(t, sched.Accept(msg))

	assert.Nil(t, autosave.New(tabs.New(s), nil, 0).Tick())
}
