// Package autosave periodically writes dirty tabs without prompting.
package autosave

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Paintersrp/notator/internal/tabs"
)

// Committer persists the session after a fire saved something.
type Committer interface {
	Commit() error
}

// FireMsg is delivered to the event loop when an interval elapses.
type FireMsg struct {
	Gen int
}

type Failure struct {
	Tab  int
	Name string
	Err  error
}

// Report summarizes one fire. Fire never fails as a whole; problems are
// listed here and logged.
type Report struct {
	Saved     []string
	Failed    []Failure
	Skipped   int
	CommitErr error
}

type Option func(*Scheduler)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

type Scheduler struct {
	tm        *tabs.Model
	committer Committer
	interval  time.Duration
	log       *zap.Logger

	gen    int
	firing bool
}

func New(tm *tabs.Model, committer Committer, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		tm:        tm,
		committer: committer,
		interval:  interval,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Interval() time.Duration { return s.interval }

// Tick schedules the next fire for the current generation. A non-positive
// interval disables autosave.
func (s *Scheduler) Tick() tea.Cmd {
	if s.interval <= 0 {
		return nil
	}

	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return FireMsg{Gen: gen}
	})
}

// Stop invalidates every scheduled fire.
func (s *Scheduler) Stop() {
	s.gen++
}

// Accept reports whether msg belongs to the live schedule.
func (s *Scheduler) Accept(msg FireMsg) bool {
	return msg.Gen == s.gen && !s.firing
}

// Fire saves every dirty tab under its current name, or a generated one for
// notes that were never saved. Tabs with a manual save in flight are left to
// that save.
func (s *Scheduler) Fire() Report {
	var r Report
	if s.firing {
		return r
	}
	s.firing = true
	defer func() { s.firing = false }()

	for _, t := range s.tm.Dirty() {
		if t.Saving() {
			r.Skipped++
			continue
		}

		id, err := s.tm.Save(t, "")
		if err != nil {
			s.log.Warn(
				"autosave failed",
				zap.Int("tab", t.ID),
				zap.String("id", t.Note.ID),
				zap.Error(err),
			)
			r.Failed = append(r.Failed, Failure{Tab: t.ID, Name: t.Note.Name(), Err: err})
			continue
		}
		r.Saved = append(r.Saved, id)
	}

	if len(r.Saved) > 0 && s.committer != nil {
		if err := s.committer.Commit(); err != nil {
			s.log.Error("autosave session commit failed", zap.Error(err))
			r.CommitErr = err
		}
	}

	if len(r.Saved) > 0 || len(r.Failed) > 0 {
		s.log.Info(
			"autosave",
			zap.Int("saved", len(r.Saved)),
			zap.Int("failed", len(r.Failed)),
			zap.Int("skipped", r.Skipped),
		)
	}
	return r
}
