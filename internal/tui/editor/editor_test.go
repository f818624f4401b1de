package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/notator/internal/autosave"
	"github.com/Paintersrp/notator/internal/config"
	"github.com/Paintersrp/notator/internal/state"
	"github.com/Paintersrp/notator/internal/timer"
)

func newTestModel(t *testing.T, files map[string]string) *Model {
	t.Helper()

	home := t.TempDir()
	cfg := config.Default(home)

	st, err := state.New(home, cfg)
	if err != nil {
		t.Fatalf("failed to build state: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(st.Store.Dir(), name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write note %s: %v", name, err)
		}
	}

	if err := st.Restore(nil, true); err != nil {
		t.Fatalf("failed to restore: %v", err)
	}

	m := New(st)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func pressAlt(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true})
	return cmd
}

func TestTypingMarksActiveTabDirty(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "hello")

	tab := m.tabs.Active()
	if tab.Note.Content != "hello" {
		t.Fatalf("expected content %q, got %q", "hello", tab.Note.Content)
	}
	if !tab.Dirty {
		t.Fatal("expected tab to be dirty after typing")
	}
}

func TestTabSwitchingKeepsBuffers(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "first")
	press(m, tea.KeyCtrlN)
	if m.tabs.Len() != 2 {
		t.Fatalf("expected 2 tabs, got %d", m.tabs.Len())
	}
	if m.area.Value() != "" {
		t.Fatalf("expected empty buffer for new note, got %q", m.area.Value())
	}

	typeText(m, "second")
	press(m, tea.KeyCtrlLeft)
	if got := m.area.Value(); got != "first" {
		t.Fatalf("expected first buffer, got %q", got)
	}

	press(m, tea.KeyCtrlRight)
	if got := m.area.Value(); got != "second" {
		t.Fatalf("expected second buffer, got %q", got)
	}

	press(m, tea.KeyCtrlRight)
	if m.tabs.ActiveIndex() != 1 {
		t.Fatalf("next tab should not wrap, active index %d", m.tabs.ActiveIndex())
	}
}

func TestHemingwayModeBlocksErasing(t *testing.T) {
	m := newTestModel(t, nil)

	pressAlt(m, 'h')
	if !m.hemingway {
		t.Fatal("expected hemingway mode to be on")
	}

	typeText(m, "abc")
	press(m, tea.KeyBackspace)
	press(m, tea.KeyLeft)
	typeText(m, "d")
	if got := m.area.Value(); got != "abcd" {
		t.Fatalf("expected %q in hemingway mode, got %q", "abcd", got)
	}

	pressAlt(m, 'h')
	press(m, tea.KeyBackspace)
	if got := m.area.Value(); got != "abc" {
		t.Fatalf("expected backspace to work after leaving hemingway mode, got %q", got)
	}
}

func TestSavePromptsForNameOnFirstSave(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "draft")
	press(m, tea.KeyCtrlS)
	if m.mode != modePrompt || m.prompt != promptSaveName {
		t.Fatalf("expected save name prompt, mode=%v prompt=%v", m.mode, m.prompt)
	}

	typeText(m, "chapter")
	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected save command")
	}
	if !m.tabs.Active().Saving() {
		t.Fatal("expected save to be in flight")
	}

	msg, ok := cmd().(saveDoneMsg)
	if !ok {
		t.Fatal("expected saveDoneMsg from save command")
	}
	m.Update(msg)

	tab := m.tabs.Active()
	want := filepath.Join(m.st.Store.Dir(), "chapter.md")
	if tab.Note.ID != want {
		t.Fatalf("expected note bound to %s, got %s", want, tab.Note.ID)
	}
	if tab.Dirty {
		t.Fatal("expected tab to be clean after save")
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "draft" {
		t.Fatalf("expected saved content %q, got %q (%v)", "draft", data, err)
	}
	if !strings.HasPrefix(m.status, "saved") {
		t.Fatalf("expected saved status, got %q", m.status)
	}
}

func TestSaveBoundNoteSkipsPrompt(t *testing.T) {
	m := newTestModel(t, map[string]string{"kept.md": "kept"})

	press(m, tea.KeyCtrlO)
	typeText(m, "kept")
	press(m, tea.KeyEnter)
	typeText(m, " more")

	cmd := press(m, tea.KeyCtrlS)
	if m.mode != modeEdit {
		t.Fatalf("bound note should save without prompt, mode=%v", m.mode)
	}
	msg, ok := cmd().(saveDoneMsg)
	if !ok {
		t.Fatal("expected saveDoneMsg from save command")
	}
	m.Update(msg)

	data, err := os.ReadFile(filepath.Join(m.st.Store.Dir(), "kept.md"))
	if err != nil {
		t.Fatalf("failed to read note: %v", err)
	}
	if string(data) != m.tabs.Active().Note.Content || !strings.Contains(string(data), " more") {
		t.Fatalf("expected edited content on disk, got %q", data)
	}
}

func TestPickerOpensFuzzyMatch(t *testing.T) {
	m := newTestModel(t, map[string]string{
		"alpha.md": "# Alpha",
		"beta.md":  "# Beta",
	})

	press(m, tea.KeyCtrlO)
	if m.mode != modePicker {
		t.Fatalf("expected picker mode, got %v", m.mode)
	}

	typeText(m, "bet")
	press(m, tea.KeyEnter)

	if m.mode != modeEdit {
		t.Fatalf("expected edit mode after choosing, got %v", m.mode)
	}
	if got := filepath.Base(m.tabs.Active().Note.ID); got != "beta.md" {
		t.Fatalf("expected beta.md to be active, got %s", got)
	}
	if m.tabs.Len() != 2 {
		t.Fatalf("expected picked note in a new tab, got %d tabs", m.tabs.Len())
	}
}

func TestTimerSelectorAndDoubleStop(t *testing.T) {
	m := newTestModel(t, nil)
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return t0 }

	press(m, tea.KeyCtrlT)
	if !m.st.Timer.SelectorOpen() {
		t.Fatal("expected timer selector to open")
	}

	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)
	if m.st.Timer.State() != timer.Running {
		t.Fatalf("expected running timer, got %v", m.st.Timer.State())
	}
	if m.st.Timer.Remaining() != 3*time.Minute {
		t.Fatalf("expected 3m preset, got %v", m.st.Timer.Remaining())
	}

	press(m, tea.KeyCtrlR)
	if m.st.Timer.State() != timer.Idle {
		t.Fatalf("expected idle after stop, got %v", m.st.Timer.State())
	}

	press(m, tea.KeyCtrlR)
	if m.status != "timer reset" {
		t.Fatalf("expected hard stop, status %q", m.status)
	}
}

func TestCustomTimerPrompt(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, tea.KeyCtrlT)
	press(m, tea.KeyLeft)
	press(m, tea.KeyEnter)
	if m.mode != modePrompt || m.prompt != promptCustomTimer {
		t.Fatalf("expected custom timer prompt, mode=%v prompt=%v", m.mode, m.prompt)
	}

	typeText(m, "2")
	press(m, tea.KeyEnter)

	if m.st.Timer.State() != timer.Running || m.st.Timer.Remaining() != 2*time.Minute {
		t.Fatalf("expected 2m running timer, got %v %v", m.st.Timer.State(), m.st.Timer.Remaining())
	}
}

func TestTimerTickExpires(t *testing.T) {
	m := newTestModel(t, nil)

	if err := m.st.Timer.Start(time.Now(), time.Second); err != nil {
		t.Fatalf("failed to start timer: %v", err)
	}
	m.Update(timer.TickMsg{Gen: m.st.Timer.Gen()})

	if m.st.Timer.State() != timer.Expired {
		t.Fatalf("expected expired timer, got %v", m.st.Timer.State())
	}
	if m.status != "time's up" {
		t.Fatalf("expected expiry status, got %q", m.status)
	}

	m.Update(timer.TickMsg{Gen: m.st.Timer.Gen() - 1})
	if m.st.Timer.State() != timer.Expired {
		t.Fatal("stale tick should be ignored")
	}
}

func TestAutosaveFireSavesDirtyTabs(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "autosaved words")
	m.Update(autosave.FireMsg{Gen: 0})

	tab := m.tabs.Active()
	if !tab.Note.Bound() || tab.Dirty {
		t.Fatalf("expected autosave to bind and clean the tab, bound=%v dirty=%v", tab.Note.Bound(), tab.Dirty)
	}
	data, err := os.ReadFile(tab.Note.ID)
	if err != nil || string(data) != "autosaved words" {
		t.Fatalf("expected autosaved content, got %q (%v)", data, err)
	}
	if _, err := os.Stat(m.st.Config.SessionFile); err != nil {
		t.Fatalf("expected session to be committed: %v", err)
	}
}

func TestCloseLastTabLeavesFreshTab(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "closing")
	press(m, tea.KeyCtrlW)

	if m.tabs.Len() != 1 {
		t.Fatalf("expected one tab, got %d", m.tabs.Len())
	}
	if m.tabs.Active().Note.Bound() || m.area.Value() != "" {
		t.Fatal("expected a fresh empty tab")
	}

	files, err := m.st.Store.List()
	if err != nil || len(files) != 1 {
		t.Fatalf("expected closed note saved to disk, got %v (%v)", files, err)
	}
}

func TestZoomKeysClamp(t *testing.T) {
	m := newTestModel(t, nil)

	for i := 0; i < 20; i++ {
		pressAlt(m, '=')
	}
	if got := m.tabs.Active().Zoom; got != m.st.Config.Zoom.Max {
		t.Fatalf("expected zoom clamped to %d, got %d", m.st.Config.Zoom.Max, got)
	}

	for i := 0; i < 40; i++ {
		pressAlt(m, '-')
	}
	if got := m.tabs.Active().Zoom; got != m.st.Config.Zoom.Min {
		t.Fatalf("expected zoom clamped to %d, got %d", m.st.Config.Zoom.Min, got)
	}
}

func TestQuitCommitsSession(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "last words")
	cmd := press(m, tea.KeyCtrlQ)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}

	sess, err := m.st.Session.Load()
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if len(sess.Tabs) != 1 {
		t.Fatalf("expected one persisted tab, got %d", len(sess.Tabs))
	}
}

func TestViewShowsTabsAndStatus(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "# Heading")
	press(m, tea.KeyEnter)
	typeText(m, "body")
	view := m.View()

	if !strings.Contains(view, "● Heading") {
		t.Fatalf("expected dirty tab label in view:\n%s", view)
	}
	if !strings.Contains(view, "3 words") {
		t.Fatalf("expected word count in view:\n%s", view)
	}

	press(m, tea.KeyF11)
	if strings.Contains(m.View(), "● Heading") {
		t.Fatal("expected tab bar to be hidden")
	}
}

func TestHemingwayBlockedKeys(t *testing.T) {
	blocked := []tea.KeyMsg{
		{Type: tea.KeyBackspace},
		{Type: tea.KeyDelete},
		{Type: tea.KeyCtrlW},
		{Type: tea.KeyLeft},
		{Type: tea.KeyUp},
		{Type: tea.KeyHome},
		{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: true},
	}
	for _, k := range blocked {
		if !blockedInHemingway(k) {
			t.Fatalf("expected %q to be blocked", k.String())
		}
	}

	allowed := []tea.KeyMsg{
		{Type: tea.KeyRight},
		{Type: tea.KeyDown},
		{Type: tea.KeyEnter},
		{Type: tea.KeyRunes, Runes: []rune{'x'}},
	}
	for _, k := range allowed {
		if blockedInHemingway(k) {
			t.Fatalf("expected %q to be allowed", k.String())
		}
	}
}

func TestAutosaveRunsWhileNamePromptIsOpen(t *testing.T) {
	m := newTestModel(t, nil)

	typeText(m, "draft")
	press(m, tea.KeyCtrlS)
	m.Update(autosave.FireMsg{Gen: 0})

	tab := m.tabs.Active()
	if m.mode != modePrompt {
		t.Fatalf("expected the name prompt to stay open, mode=%v", m.mode)
	}
	if !tab.Note.Bound() || tab.Dirty {
		t.Fatalf("expected autosave to save the tab behind the prompt, bound=%v dirty=%v", tab.Note.Bound(), tab.Dirty)
	}

	typeText(m, "mynote")
	press(m, tea.KeyEnter)

	want := filepath.Join(m.st.Store.Dir(), "mynote.md")
	if tab.Note.ID != want {
		t.Fatalf("expected note renamed to %s, got %s", want, tab.Note.ID)
	}
	files, err := m.st.Store.List()
	if err != nil || len(files) != 1 {
		t.Fatalf("expected a single note file, got %v (%v)", files, err)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "draft" {
		t.Fatalf("expected renamed content %q, got %q (%v)", "draft", data, err)
	}

	s, err := m.st.Session.Load()
	if err != nil || len(s.Tabs) != 1 || s.Tabs[0].ID != want {
		t.Fatalf("expected session to point at the renamed note, got %+v (%v)", s.Tabs, err)
	}
}

func TestFirstSaveAfterBackgroundCommitRenames(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.md": "alpha"})
	bound := filepath.Join(m.st.Store.Dir(), "a.md")
	m.open(bound)

	typeText(m, "more ")
	saveA := press(m, tea.KeyCtrlS)
	if saveA == nil {
		t.Fatal("expected save command for the bound note")
	}

	press(m, tea.KeyCtrlN)
	typeText(m, "draft")
	press(m, tea.KeyCtrlS)
	if m.mode != modePrompt || m.prompt != promptSaveName {
		t.Fatalf("expected save name prompt, mode=%v prompt=%v", m.mode, m.prompt)
	}

	msg, ok := saveA().(saveDoneMsg)
	if !ok {
		t.Fatal("expected saveDoneMsg from save command")
	}
	m.Update(msg)

	draft := m.tabs.Active()
	if !draft.Note.Bound() {
		t.Fatal("expected the session commit to bind the unnamed note")
	}

	typeText(m, "mynote")
	press(m, tea.KeyEnter)

	want := filepath.Join(m.st.Store.Dir(), "mynote.md")
	if draft.Note.ID != want {
		t.Fatalf("expected note bound to %s, got %s", want, draft.Note.ID)
	}
	files, err := m.st.Store.List()
	if err != nil || len(files) != 2 {
		t.Fatalf("expected a.md and mynote.md only, got %v (%v)", files, err)
	}
	for _, f := range files {
		if f != bound && f != want {
			t.Fatalf("unexpected duplicate note %s", f)
		}
	}
}

func TestDiscardWhileSavingDropsLaterEdits(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.md": "alpha"})
	path := filepath.Join(m.st.Store.Dir(), "a.md")
	m.open(path)

	typeText(m, "more ")
	saved := m.tabs.Active().Note.Content
	cmd := press(m, tea.KeyCtrlS)
	if cmd == nil {
		t.Fatal("expected save command")
	}

	typeText(m, "scrap ")
	pressAlt(m, 'w')
	if m.tabs.Find(path) == nil {
		t.Fatal("expected the tab to stay open until the save finishes")
	}

	msg, ok := cmd().(saveDoneMsg)
	if !ok {
		t.Fatal("expected saveDoneMsg from save command")
	}
	m.Update(msg)

	if m.tabs.Find(path) != nil {
		t.Fatal("expected the tab to close once the save finished")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != saved {
		t.Fatalf("expected %q on disk without discarded edits, got %q (%v)", saved, data, err)
	}
}
