// Package tabs holds the ordered set of open notes and the active selection.
package tabs

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Paintersrp/notator/internal/constants"
	"github.com/Paintersrp/notator/internal/note"
)

var (
	ErrSaveInFlight = errors.New("save already in progress")
	ErrNoTab        = errors.New("no such tab")
)

// Store is the persistence surface the tab model needs. *note.Store
// satisfies it.
type Store interface {
	Load(id string) (note.Note, error)
	Save(n note.Note, rename string) (string, error)
	SaveAs(n note.Note, name string) (string, error)
	Rename(id, name string) (string, error)
}

// Tab wraps an open note with its editing state.
type Tab struct {
	ID    int
	Note  note.Note
	Dirty bool
	Zoom  int
	Row   int
	Col   int

	persisted string
	saving    bool
}

// Persisted returns the content last written to (or read from) disk.
func (t *Tab) Persisted() string { return t.persisted }

// Saving reports whether a two-phase save is outstanding for the tab.
func (t *Tab) Saving() bool { return t.saving }

type Option func(*Model)

// WithZoom sets the zoom range and the level new tabs start at.
func WithZoom(lo, hi, def int) Option {
	return func(m *Model) {
		m.zoomMin, m.zoomMax = lo, hi
		m.zoomDefault = clamp(def, lo, hi)
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// Model is the ordered tab list. It is not safe for concurrent use; all
// calls happen on the editor's event loop. Only SaveRequest.Run may execute
// elsewhere.
type Model struct {
	store  Store
	tabs   []*Tab
	active int
	nextID int

	zoomMin     int
	zoomMax     int
	zoomDefault int

	now func() time.Time
	log *zap.Logger
}

func New(store Store, opts ...Option) *Model {
	m := &Model{
		store:       store,
		active:      -1,
		zoomMin:     constants.MinZoom,
		zoomMax:     constants.MaxZoom,
		zoomDefault: constants.DefaultZoom,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a tab. An empty id starts a new unsaved note; otherwise the
// note is loaded, and a note that is already open is activated instead of
// duplicated. The resulting tab is active.
func (m *Model) Open(id string) (*Tab, error) {
	if id == "" {
		return m.add(note.New(m.now())), nil
	}

	n, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}

	if existing := m.Find(n.ID); existing != nil {
		m.active = m.Index(existing)
		return existing, nil
	}

	return m.add(n), nil
}

func (m *Model) add(n note.Note) *Tab {
	m.nextID++
	t := &Tab{
		ID:        m.nextID,
		Note:      n,
		Zoom:      m.zoomDefault,
		persisted: n.Content,
	}
	m.tabs = append(m.tabs, t)
	m.active = len(m.tabs) - 1

	m.log.Debug("tab opened", zap.Int("tab", t.ID), zap.String("id", n.ID))
	return t
}

// Edit replaces the tab's content. The tab is dirty exactly when the content
// differs from what was last persisted.
func (m *Model) Edit(t *Tab, content string) {
	t.Note.Content = content
	t.Dirty = content != t.persisted
}

// Save writes the tab synchronously. rename names an unbound note on its
// first save and is ignored afterwards.
func (m *Model) Save(t *Tab, rename string) (string, error) {
	if t.saving {
		return "", ErrSaveInFlight
	}

	snapshot := t.Note
	id, err := m.store.Save(snapshot, rename)
	if err != nil {
		return "", err
	}

	m.markSaved(t, id, snapshot.Content)
	return id, nil
}

// SaveAs writes the tab under a new name and rebinds it there.
func (m *Model) SaveAs(t *Tab, name string) (string, error) {
	if t.saving {
		return "", ErrSaveInFlight
	}

	snapshot := t.Note
	id, err := m.store.SaveAs(snapshot, name)
	if err != nil {
		return "", err
	}

	m.markSaved(t, id, snapshot.Content)
	return id, nil
}

// Rename moves a bound tab's file to name and rebinds the tab. Unsaved edits
// stay dirty.
func (m *Model) Rename(t *Tab, name string) (string, error) {
	if t.saving {
		return "", ErrSaveInFlight
	}
	if !t.Note.Bound() {
		return "", fmt.Errorf("rename %s: note has never been saved", t.Note.Name())
	}

	id, err := m.store.Rename(t.Note.ID, name)
	if err != nil {
		return "", err
	}

	m.log.Debug("tab renamed", zap.Int("tab", t.ID), zap.String("from", t.Note.ID), zap.String("id", id))
	t.Note.ID = id
	return id, nil
}

func (m *Model) markSaved(t *Tab, id, content string) {
	t.Note.ID = id
	t.persisted = content
	t.Dirty = t.Note.Content != content
}

// SaveRequest is a content snapshot taken by BeginSave. Run performs the
// write and may be called from any goroutine.
type SaveRequest struct {
	Tab   int
	note  note.Note
	name  string
	as    bool
	store Store
}

// SaveResult is handed back to Complete on the event loop.
type SaveResult struct {
	Tab     int
	ID      string
	Content string
	As      bool
	Err     error
}

func (r *SaveRequest) Run() SaveResult {
	res := SaveResult{Tab: r.Tab, Content: r.note.Content, As: r.as}
	if r.as {
		res.ID, res.Err = r.store.SaveAs(r.note, r.name)
	} else {
		res.ID, res.Err = r.store.Save(r.note, r.name)
	}
	return res
}

// BeginSave snapshots t for a background write.
func (m *Model) BeginSave(t *Tab, rename string) (*SaveRequest, error) {
	return m.begin(t, rename, false)
}

// BeginSaveAs is BeginSave for a save-as.
func (m *Model) BeginSaveAs(t *Tab, name string) (*SaveRequest, error) {
	return m.begin(t, name, true)
}

func (m *Model) begin(t *Tab, name string, as bool) (*SaveRequest, error) {
	if m.Index(t) < 0 {
		return nil, ErrNoTab
	}
	if t.saving {
		return nil, ErrSaveInFlight
	}

	t.saving = true
	return &SaveRequest{
		Tab:   t.ID,
		note:  t.Note,
		name:  name,
		as:    as,
		store: m.store,
	}, nil
}

// Complete applies a finished save. Edits made while the write was running
// keep the tab dirty.
func (m *Model) Complete(res SaveResult) (*Tab, error) {
	t := m.Get(res.Tab)
	if t == nil {
		return nil, fmt.Errorf("complete save for tab %d: %w", res.Tab, ErrNoTab)
	}

	t.saving = false
	if res.Err != nil {
		return t, res.Err
	}

	m.markSaved(t, res.ID, res.Content)
	return t, nil
}

// Close removes t. A dirty tab is saved first unless discard is set, and a
// failed save keeps the tab open. Closing the last tab leaves a fresh one.
func (m *Model) Close(t *Tab, discard bool) error {
	idx := m.Index(t)
	if idx < 0 {
		return ErrNoTab
	}
	if t.saving {
		return ErrSaveInFlight
	}

	if t.Dirty && !discard {
		if _, err := m.Save(t, ""); err != nil {
			return fmt.Errorf("close %s: %w", t.Note.Name(), err)
		}
	}

	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)
	switch {
	case m.active > idx:
		m.active--
	case m.active == idx && m.active >= len(m.tabs):
		m.active = len(m.tabs) - 1
	}

	m.log.Debug("tab closed", zap.Int("tab", t.ID), zap.String("id", t.Note.ID), zap.Bool("discard", discard))

	if len(m.tabs) == 0 {
		m.add(note.New(m.now()))
	}
	return nil
}

func (m *Model) Active() *Tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

func (m *Model) ActiveIndex() int { return m.active }

func (m *Model) SetActive(idx int) error {
	if idx < 0 || idx >= len(m.tabs) {
		return fmt.Errorf("activate tab %d: %w", idx, ErrNoTab)
	}
	m.active = idx
	return nil
}

// Next moves to the tab on the right, stopping at the last tab.
func (m *Model) Next() *Tab {
	if m.active < len(m.tabs)-1 {
		m.active++
	}
	return m.Active()
}

// Prev moves to the tab on the left, stopping at the first tab.
func (m *Model) Prev() *Tab {
	if m.active > 0 {
		m.active--
	}
	return m.Active()
}

func (m *Model) Tabs() []*Tab {
	out := make([]*Tab, len(m.tabs))
	copy(out, m.tabs)
	return out
}

func (m *Model) Len() int { return len(m.tabs) }

func (m *Model) Index(t *Tab) int {
	for i, tab := range m.tabs {
		if tab == t {
			return i
		}
	}
	return -1
}

// Get returns the tab with the given handle, or nil.
func (m *Model) Get(handle int) *Tab {
	for _, tab := range m.tabs {
		if tab.ID == handle {
			return tab
		}
	}
	return nil
}

// Find returns the open tab bound to id, or nil.
func (m *Model) Find(id string) *Tab {
	if id == "" {
		return nil
	}
	for _, tab := range m.tabs {
		if tab.Note.ID == id {
			return tab
		}
	}
	return nil
}

// Dirty returns the tabs with unsaved changes, in tab order.
func (m *Model) Dirty() []*Tab {
	var out []*Tab
	for _, tab := range m.tabs {
		if tab.Dirty {
			out = append(out, tab)
		}
	}
	return out
}

func (m *Model) SetCursor(t *Tab, row, col int) {
	t.Row, t.Col = max(row, 0), max(col, 0)
}

func (m *Model) ZoomIn(t *Tab) int {
	return m.SetZoom(t, t.Zoom+1)
}

func (m *Model) ZoomOut(t *Tab) int {
	return m.SetZoom(t, t.Zoom-1)
}

// SetZoom stores z clamped to the configured range and returns the result.
func (m *Model) SetZoom(t *Tab, z int) int {
	t.Zoom = clamp(z, m.zoomMin, m.zoomMax)
	return t.Zoom
}

func (m *Model) DefaultZoom() int { return m.zoomDefault }

func (m *Model) SetDefaultZoom(z int) {
	m.zoomDefault = clamp(z, m.zoomMin, m.zoomMax)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
