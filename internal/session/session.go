// Package session persists the set of open tabs between runs and restores
// it on startup.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/notator/internal/note"
	"github.com/Paintersrp/notator/internal/tabs"
)

const currentVersion = 1

var ErrCorrupt = errors.New("session descriptor is corrupt")

type Entry struct {
	ID   string `yaml:"id"`
	Zoom int    `yaml:"zoom"`
	Row  int    `yaml:"row,omitempty"`
	Col  int    `yaml:"col,omitempty"`
}

type Session struct {
	Version     int       `yaml:"version"`
	Tabs        []Entry   `yaml:"tabs"`
	Active      int       `yaml:"active"`
	DefaultZoom int       `yaml:"default_zoom"`
	SavedAt     time.Time `yaml:"saved_at"`
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager owns the session descriptor at a single path.
type Manager struct {
	path string
	tm   *tabs.Model
	log  *zap.Logger
	now  func() time.Time

	warnings []string
}

func NewManager(path string, tm *tabs.Model, opts ...Option) *Manager {
	m := &Manager{
		path: path,
		tm:   tm,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Path() string { return m.path }

func (m *Manager) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.warnings = append(m.warnings, msg)
	m.log.Warn("session", zap.String("warning", msg))
}

// Warnings returns and clears the warnings recorded since the last call.
func (m *Manager) Warnings() []string {
	out := m.warnings
	m.warnings = nil
	return out
}

// Snapshot saves every dirty tab and describes the tabs that have a file.
// Empty new notes and new notes that could not be saved are left out; a
// bound note whose save failed is kept so its tab comes back next run.
func (m *Manager) Snapshot() Session {
	s := Session{
		Version:     currentVersion,
		Tabs:        []Entry{},
		DefaultZoom: m.tm.DefaultZoom(),
		SavedAt:     m.now().UTC(),
	}

	active := m.tm.Active()
	activeKept := false
	keptBeforeActive := 0
	passedActive := false

	for _, t := range m.tm.Tabs() {
		if t == active {
			passedActive = true
		}

		if t.Dirty && !t.Saving() {
			if _, err := m.tm.Save(t, ""); err != nil {
				if !t.Note.Bound() {
					m.warn("unsaved note dropped from session: %v", err)
					continue
				}
				m.warn("%s could not be saved: %v", t.Note.Name(), err)
			}
		}

		if !t.Note.Bound() {
			continue
		}

		if t == active {
			s.Active = len(s.Tabs)
			activeKept = true
		} else if !passedActive {
			keptBeforeActive++
		}

		s.Tabs = append(s.Tabs, Entry{ID: t.Note.ID, Zoom: t.Zoom, Row: t.Row, Col: t.Col})
	}

	if !activeKept {
		s.Active = max(keptBeforeActive-1, 0)
	}

	return s
}

// Persist writes s to the descriptor path, replacing the previous one.
func (m *Manager) Persist(s Session) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return note.WriteFileAtomic(m.path, data, 0o644)
}

// Load reads the descriptor without touching any tabs. A missing file is an
// empty session.
func (m *Manager) Load() (Session, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, &note.IOError{Op: "read session", Path: m.path, Err: err}
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.Version > currentVersion {
		return Session{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, s.Version)
	}

	return s, nil
}

// Restore reopens the persisted tabs into an empty tab model. Entries that
// cannot be opened are skipped with a warning, and a fresh tab is created
// when nothing could be restored.
func (m *Manager) Restore() (Session, error) {
	s, err := m.Load()
	if err != nil {
		m.warn("session not restored: %v", err)
		if m.tm.Len() == 0 {
			if _, openErr := m.tm.Open(""); openErr != nil {
				return Session{}, errors.Join(err, openErr)
			}
		}
		return Session{}, err
	}

	if s.Version > 0 {
		m.tm.SetDefaultZoom(s.DefaultZoom)
	}

	restored := make(map[int]int, len(s.Tabs))
	for i, e := range s.Tabs {
		if e.ID == "" {
			m.warn("session entry %d has no note", i)
			continue
		}

		t, err := m.tm.Open(e.ID)
		if err != nil {
			m.warn("could not restore %s: %v", e.ID, err)
			continue
		}

		m.tm.SetZoom(t, e.Zoom)
		m.tm.SetCursor(t, e.Row, e.Col)
		restored[i] = m.tm.Index(t)
	}

	if m.tm.Len() == 0 {
		if _, err := m.tm.Open(""); err != nil {
			return s, err
		}
		return s, nil
	}

	if idx, ok := restored[s.Active]; ok {
		_ = m.tm.SetActive(idx)
	} else {
		_ = m.tm.SetActive(0)
	}

	m.log.Info(
		"session restored",
		zap.Int("entries", len(s.Tabs)),
		zap.Int("tabs", m.tm.Len()),
	)
	return s, nil
}

// Commit snapshots the current tabs and persists the result.
func (m *Manager) Commit() error {
	s := m.Snapshot()
	if err := m.Persist(s); err != nil {
		m.log.Error("session commit failed", zap.Error(err))
		return err
	}

	m.log.Debug("session committed", zap.Int("tabs", len(s.Tabs)), zap.Int("active", s.Active))
	return nil
}

// Shutdown performs the final commit before exit.
func (m *Manager) Shutdown() error {
	if err := m.Commit(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.log.Info("session persisted", zap.String("path", m.path))
	return nil
}
