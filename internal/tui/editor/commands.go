package editor

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Paintersrp/notator/internal/autosave"
	"github.com/Paintersrp/notator/internal/battery"
	"github.com/Paintersrp/notator/internal/constants"
	"github.com/Paintersrp/notator/internal/keymap"
	"github.com/Paintersrp/notator/internal/note"
	"github.com/Paintersrp/notator/internal/state"
	"github.com/Paintersrp/notator/internal/tabs"
	"github.com/Paintersrp/notator/internal/timer"
)

var writeClipboard = clipboard.WriteAll

func (m *Model) dispatch(c keymap.Command) (tea.Model, tea.Cmd) {
	m.syncActive()

	switch c {
	case keymap.NewNote:
		if _, err := m.tabs.Open(""); err != nil {
			return m, m.setStatus("could not create note: " + err.Error())
		}
		m.loadActive()
		return m, tea.Batch(m.setStatus("note created"), m.commit())

	case keymap.OpenFile:
		return m, m.openPicker()

	case keymap.Save:
		t := m.tabs.Active()
		if !t.Note.Bound() {
			cmd := m.openPrompt(promptSaveName, "name: ", "leave empty for a timestamped name")
			m.naming = t.ID
			return m, cmd
		}
		return m, m.beginSave(t, "", false)

	case keymap.SaveAs:
		return m, m.openPrompt(promptSaveAs, "save as: ", "new note name")

	case keymap.CloseTab:
		return m, m.closeActive(false)

	case keymap.DiscardTab:
		return m, m.closeActive(true)

	case keymap.NextTab:
		m.tabs.Next()
		m.loadActive()
		return m, nil

	case keymap.PrevTab:
		m.tabs.Prev()
		m.loadActive()
		return m, nil

	case keymap.ToggleTabBar:
		m.showTabs = !m.showTabs
		m.resize()
		return m, nil

	case keymap.TimerStart:
		return m, m.timerStart()

	case keymap.TimerResetStop:
		return m, m.timerStop()

	case keymap.ToggleHemingwayMode:
		m.hemingway = !m.hemingway
		if m.hemingway {
			return m, m.setStatus("Hemingway mode on: no going back")
		}
		return m, m.setStatus("Hemingway mode off")

	case keymap.ZoomIn:
		z := m.tabs.ZoomIn(m.tabs.Active())
		m.resize()
		return m, m.setStatus(fmt.Sprintf("zoom %+d", z))

	case keymap.ZoomOut:
		z := m.tabs.ZoomOut(m.tabs.Active())
		m.resize()
		return m, m.setStatus(fmt.Sprintf("zoom %+d", z))

	case keymap.TogglePreview:
		m.preview = !m.preview
		return m, nil

	case keymap.CopyNote:
		if err := writeClipboard(m.tabs.Active().Note.Content); err != nil {
			return m, m.setStatus("copy failed: " + err.Error())
		}
		return m, m.setStatus("note copied to clipboard")

	case keymap.ToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case keymap.Quit:
		m.quitting = true
		if m.savesInFlight() {
			return m, m.setStatus("waiting for saves to finish")
		}
		return m, m.finish()
	}

	return m, nil
}

// beginSave starts a background write of t. The result comes back as a
// saveDoneMsg.
func (m *Model) beginSave(t *tabs.Tab, name string, as bool) tea.Cmd {
	var (
		req *tabs.SaveRequest
		err error
	)
	if as {
		req, err = m.tabs.BeginSaveAs(t, name)
	} else {
		req, err = m.tabs.BeginSave(t, name)
	}
	if err != nil {
		return m.setStatus("save: " + err.Error())
	}

	m.status = "saving..."
	return func() tea.Msg {
		return saveDoneMsg{res: req.Run()}
	}
}

func (m *Model) handleSaveDone(msg saveDoneMsg) tea.Cmd {
	t, err := m.tabs.Complete(msg.res)

	var cmds []tea.Cmd
	switch {
	case t == nil:
		cmds = append(cmds, m.setStatus(err.Error()))
	case err != nil:
		m.log.Warn("save failed", zap.Int("tab", t.ID), zap.Error(err))
		discard, pending := m.pendingClose[t.ID]
		delete(m.pendingClose, t.ID)
		switch {
		case pending && discard:
			cmds = append(cmds, m.closeTab(t, true))
		case pending:
			cmds = append(cmds, m.setStatus("close aborted, save failed: "+saveError(err)))
		default:
			cmds = append(cmds, m.setStatus("save failed: "+saveError(err)))
		}
	default:
		cmds = append(cmds, m.setStatus("saved "+m.st.Store.Label(t.Note.ID)))
		if discard, pending := m.pendingClose[t.ID]; pending {
			delete(m.pendingClose, t.ID)
			cmds = append(cmds, m.closeTab(t, discard))
		}
		cmds = append(cmds, m.commit())
	}

	if m.quitting && !m.savesInFlight() {
		cmds = append(cmds, m.finish())
	}
	return tea.Batch(cmds...)
}

func saveError(err error) string {
	switch {
	case errors.Is(err, note.ErrNameTaken):
		return "that name is already in use"
	case errors.Is(err, note.ErrIO):
		var ioErr *note.IOError
		if errors.As(err, &ioErr) {
			return ioErr.Err.Error()
		}
	}
	return err.Error()
}

func (m *Model) closeActive(discard bool) tea.Cmd {
	t := m.tabs.Active()
	if t.Saving() {
		m.pendingClose[t.ID] = discard
		return m.setStatus("closing after save finishes")
	}
	return m.closeTab(t, discard)
}

func (m *Model) closeTab(t *tabs.Tab, discard bool) tea.Cmd {
	wasActive := t.ID == m.loaded
	if err := m.tabs.Close(t, discard); err != nil {
		return m.setStatus("close aborted: " + saveError(err))
	}

	if wasActive || m.tabs.Active().ID != m.loaded {
		m.loadActive()
	}
	return m.commit()
}

func (m *Model) openPrompt(kind promptKind, prompt, placeholder string) tea.Cmd {
	m.mode = modePrompt
	m.prompt = kind
	m.naming = 0
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.area.Blur()
	m.resize()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeEdit
	m.input.Blur()
	m.area.Focus()
	m.resize()
}

func (m *Model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		value := m.input.Value()
		kind := m.prompt
		m.closePrompt()
		return m.submitPrompt(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) submitPrompt(kind promptKind, value string) tea.Cmd {
	t := m.tabs.Active()

	switch kind {
	case promptSaveName:
		named := m.tabs.Get(m.naming)
		m.naming = 0
		if named == nil {
			return m.setStatus("note closed before it was named")
		}
		if named.Note.Bound() {
			return m.renameNamed(named, value)
		}
		return m.beginSave(named, value, false)

	case promptSaveAs:
		if value == "" {
			return m.setStatus("save as cancelled")
		}
		return m.beginSave(t, value, true)

	case promptCustomTimer:
		if err := m.st.Timer.SetCustomInput(value); err != nil {
			return m.setStatus(err.Error())
		}
		return m.startHighlighted()
	}

	return nil
}

// renameNamed finishes a first save for a tab that autosave or a session
// commit already bound to a default name while the prompt was open. The
// file is moved, never copied.
func (m *Model) renameNamed(t *tabs.Tab, name string) tea.Cmd {
	if name != "" {
		if _, err := m.tabs.Rename(t, name); err != nil {
			return m.setStatus("rename failed: " + saveError(err))
		}
	}
	if t.Dirty {
		return m.beginSave(t, "", false)
	}
	return tea.Batch(m.setStatus("saved "+m.st.Store.Label(t.Note.ID)), m.commit())
}

func (m *Model) openPicker() tea.Cmd {
	paths, err := m.st.Store.List()
	if err != nil {
		return m.setStatus("could not list notes: " + err.Error())
	}

	labels := make([]string, len(paths))
	for i, p := range paths {
		labels[i] = m.st.Store.Label(p)
	}

	m.picker = newPicker(paths, labels)
	m.mode = modePicker
	m.area.Blur()
	return nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.picker = nil
		m.mode = modeEdit
		m.area.Focus()
		return nil
	case tea.KeyEnter:
		choice := m.picker.choice()
		m.picker = nil
		m.mode = modeEdit
		m.area.Focus()
		if choice == "" {
			return nil
		}
		return m.open(choice)
	}

	return m.picker.update(msg)
}

func (m *Model) open(id string) tea.Cmd {
	t, err := m.tabs.Open(id)
	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			return m.setStatus("no such note: " + id)
		}
		return m.setStatus("could not open note: " + err.Error())
	}

	m.loadActive()
	return tea.Batch(m.setStatus("opened "+m.st.Store.Label(t.Note.ID)), m.commit())
}

func (m *Model) updateSelector(msg tea.KeyMsg) (tea.Cmd, bool) {
	t := m.st.Timer

	switch msg.String() {
	case "up", "left", "shift+tab", "k":
		t.Prev()
	case "down", "right", "tab", "j":
		t.Next()
	case "enter":
		return m.startHighlighted(), true
	case "esc":
		t.CloseSelector()
		m.resize()
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) timerStart() tea.Cmd {
	t := m.st.Timer

	switch {
	case t.SelectorOpen():
		return m.startHighlighted()
	case t.State() == timer.Expired:
		t.OpenSelector()
		return m.startHighlighted()
	default:
		t.OpenSelector()
		m.resize()
		return nil
	}
}

func (m *Model) startHighlighted() tea.Cmd {
	t := m.st.Timer
	p := t.Highlighted()

	if p.Custom && t.Custom() <= 0 {
		t.CloseSelector()
		return m.openPrompt(promptCustomTimer, "minutes: ", "e.g. 25 or 90s")
	}

	if err := t.StartSelected(m.now()); err != nil {
		return m.setStatus(err.Error())
	}
	m.resize()

	label := p.Label
	if p.Custom {
		label = timer.FormatClock(t.Custom())
	}
	return tea.Batch(m.setStatus("timer started: "+label), t.TickCmd())
}

func (m *Model) timerStop() tea.Cmd {
	switch m.st.Timer.Stop(m.now()) {
	case timer.StopStopped:
		return m.setStatus("timer stopped")
	case timer.StopAcknowledged:
		return m.setStatus("timer cleared")
	case timer.StopReset:
		m.resize()
		return m.setStatus("timer reset")
	default:
		return m.setStatus("press again to reset the timer")
	}
}

func (m *Model) handleTimerTick(msg timer.TickMsg) tea.Cmd {
	t := m.st.Timer
	if !t.Accept(msg) {
		return nil
	}

	if t.Tick(timer.TickInterval) {
		m.log.Info("timer expired", zap.Duration("total", t.Total()))
		return tea.Batch(m.setStatus("time's up"), t.TickCmd())
	}
	return t.TickCmd()
}

func (m *Model) handleAutosave(msg autosave.FireMsg) tea.Cmd {
	as := m.st.Autosave
	if !as.Accept(msg) {
		return nil
	}

	m.syncActive()
	r := as.Fire()

	cmds := []tea.Cmd{as.Tick()}
	switch {
	case len(r.Failed) > 0:
		f := r.Failed[0]
		cmds = append(cmds, m.setStatus(fmt.Sprintf("autosave failed for %s: %s", f.Name, saveError(f.Err))))
	case r.CommitErr != nil:
		cmds = append(cmds, m.setStatus("session not saved: "+r.CommitErr.Error()))
	case len(r.Saved) > 0:
		if warnings := m.st.Session.Warnings(); len(warnings) > 0 {
			cmds = append(cmds, m.setStatus(summarize(warnings)))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleBattery(msg battery.Msg) tea.Cmd {
	if errors.Is(msg.Err, battery.ErrNoBattery) {
		m.batteryLine = ""
		return nil
	}
	if msg.Err == nil {
		m.batteryLine = msg.Status.String()
	}
	return m.batteryPoll.PollEvery(constants.BatteryPollInterval)
}

func (m *Model) handleNoteChanged(msg state.NoteChangedMsg) tea.Cmd {
	next := m.st.Watcher.Next()

	t := m.tabs.Find(msg.Path)
	if t == nil || t.Saving() {
		return next
	}

	label := m.st.Store.Label(t.Note.ID)
	if msg.Removed {
		if _, err := os.Stat(t.Note.ID); err == nil {
			return next
		}
		return tea.Batch(next, m.setStatus(label+" was removed on disk"))
	}

	data, err := os.ReadFile(t.Note.ID)
	if err != nil || string(data) == t.Persisted() {
		return next
	}
	return tea.Batch(next, m.setStatus(label+" changed on disk"))
}
