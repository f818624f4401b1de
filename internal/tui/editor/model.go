// Package editor is the notator terminal UI: a tabbed plain-text editor with
// autosave, a writing timer and Hemingway mode.
package editor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/Paintersrp/notator/internal/autosave"
	"github.com/Paintersrp/notator/internal/battery"
	"github.com/Paintersrp/notator/internal/cache"
	"github.com/Paintersrp/notator/internal/constants"
	"github.com/Paintersrp/notator/internal/keymap"
	"github.com/Paintersrp/notator/internal/logs"
	"github.com/Paintersrp/notator/internal/state"
	"github.com/Paintersrp/notator/internal/tabs"
	"github.com/Paintersrp/notator/internal/timer"
)

type mode int

const (
	modeEdit mode = iota
	modePrompt
	modePicker
)

type promptKind int

const (
	promptSaveName promptKind = iota
	promptSaveAs
	promptCustomTimer
)

type saveDoneMsg struct {
	res tabs.SaveResult
}

type statusClearMsg struct {
	gen int
}

type Model struct {
	st   *state.State
	tabs *tabs.Model
	keys *keymap.Keymap
	log  *zap.Logger
	now  func() time.Time

	area   textarea.Model
	input  textinput.Model
	help   help.Model
	picker *picker

	mode      mode
	prompt    promptKind
	loaded    int
	hemingway bool
	showTabs  bool
	preview   bool
	quitting  bool

	previewStyle string
	previewCache *cache.LRUCache[previewKey, string]

	status       string
	statusGen    int
	batteryLine  string
	batteryPoll  battery.Reader
	pendingClose map[int]bool // tab handle -> discard
	naming       int

	width  int
	height int
}

// New builds the editor on top of st. The tab model must already hold at
// least one tab (see state.Restore).
func New(st *state.State) *Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = "Start writing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	ti := textinput.New()
	ti.CharLimit = 256

	previewStyle := "dark"
	if !termenv.HasDarkBackground() {
		previewStyle = "light"
	}

	m := &Model{
		st:           st,
		tabs:         st.Tabs,
		keys:         st.Keymap,
		log:          logs.OrNop(st.Logger),
		now:          time.Now,
		area:         ta,
		input:        ti,
		help:         help.New(),
		hemingway:    st.Config.Hemingway,
		showTabs:     true,
		previewStyle: previewStyle,
		previewCache: newPreviewCache(),
		pendingClose: make(map[int]bool),
		width:        80,
		height:       24,
	}
	if m.tabs.Len() == 0 {
		if _, err := m.tabs.Open(""); err != nil {
			m.status = err.Error()
		}
	}
	m.loadActive()

	if warnings := st.Session.Warnings(); len(warnings) > 0 {
		m.status = summarize(warnings)
	}

	m.resize()
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.st.Autosave.Tick(),
		m.batteryPoll.Poll(),
	}
	if m.st.Watcher != nil {
		cmds = append(cmds, m.st.Watcher.Next())
	}
	if m.status != "" {
		cmds = append(cmds, m.clearStatusLater())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case autosave.FireMsg:
		return m, m.handleAutosave(msg)

	case timer.TickMsg:
		return m, m.handleTimerTick(msg)

	case saveDoneMsg:
		return m, m.handleSaveDone(msg)

	case statusClearMsg:
		if msg.gen == m.statusGen {
			m.status = ""
		}
		return m, nil

	case battery.Msg:
		return m, m.handleBattery(msg)

	case state.NoteChangedMsg:
		return m, m.handleNoteChanged(msg)

	case state.WatcherErrMsg:
		m.log.Warn("notes watcher error", zap.Error(msg.Err))
		return m, m.st.Watcher.Next()
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modePrompt:
		return m, m.updatePrompt(msg)
	case modePicker:
		return m, m.updatePicker(msg)
	}

	if m.st.Timer.SelectorOpen() {
		if cmd, handled := m.updateSelector(msg); handled {
			return m, cmd
		}
	}

	if c := m.keys.Lookup(msg); c != keymap.None {
		return m.dispatch(c)
	}

	if m.preview {
		return m, nil
	}
	if m.hemingway && blockedInHemingway(msg) {
		return m, nil
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	m.syncActive()
	return m, cmd
}

// syncActive copies the text area back into the active tab.
func (m *Model) syncActive() {
	t := m.tabs.Active()
	if t == nil || t.ID != m.loaded {
		return
	}

	if v := m.area.Value(); v != t.Note.Content {
		m.tabs.Edit(t, v)
	}

	li := m.area.LineInfo()
	m.tabs.SetCursor(t, m.area.Line(), li.StartColumn+li.ColumnOffset)
}

// loadActive puts the active tab into the text area and restores its cursor.
func (m *Model) loadActive() {
	t := m.tabs.Active()
	if t == nil {
		return
	}

	m.area.SetValue(t.Note.Content)
	for i := 0; i <= len(t.Note.Content) && m.area.Line() > t.Row; i++ {
		m.area.CursorUp()
	}
	m.area.SetCursor(t.Col)

	m.loaded = t.ID
	m.resize()
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.status = msg
	return m.clearStatusLater()
}

func (m *Model) clearStatusLater() tea.Cmd {
	m.statusGen++
	gen := m.statusGen
	return tea.Tick(constants.StatusMessageLifetime, func(time.Time) tea.Msg {
		return statusClearMsg{gen: gen}
	})
}

// commit persists the session and surfaces any warning it produced.
func (m *Model) commit() tea.Cmd {
	if err := m.st.Session.Commit(); err != nil {
		return m.setStatus("session not saved: " + err.Error())
	}
	if warnings := m.st.Session.Warnings(); len(warnings) > 0 {
		return m.setStatus(summarize(warnings))
	}
	return nil
}

func (m *Model) savesInFlight() bool {
	for _, t := range m.tabs.Tabs() {
		if t.Saving() {
			return true
		}
	}
	return false
}

func (m *Model) finish() tea.Cmd {
	m.st.Autosave.Stop()
	if err := m.st.Session.Commit(); err != nil {
		m.log.Error("final session commit failed", zap.Error(err))
	}
	return tea.Quit
}

func (m *Model) resize() {
	m.help.Width = m.width

	height := m.height - 2
	if m.showTabs {
		height -= 2
	}
	if m.help.ShowAll {
		height -= 4
	}
	if m.mode == modePrompt {
		height -= 2
	}
	if m.st.Timer.SelectorOpen() {
		height -= 3
	}

	m.area.SetWidth(m.columnWidth())
	m.area.SetHeight(max(height, 3))
	m.input.Width = max(m.width-20, 10)
}

// columnWidth is the text column for the active tab's zoom: zooming in
// narrows the column, zooming out widens it up to the terminal width.
func (m *Model) columnWidth() int {
	zoom := 0
	if t := m.tabs.Active(); t != nil {
		zoom = t.Zoom
	}

	base := min(m.width-4, 88)
	return min(max(base-zoom*8, 24), max(m.width-2, 24))
}

func summarize(lines []string) string {
	if len(lines) == 1 {
		return lines[0]
	}
	return fmt.Sprintf("%s (+%d more)", lines[0], len(lines)-1)
}
