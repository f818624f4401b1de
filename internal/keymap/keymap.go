// Package keymap maps key presses to editor commands.
package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrConflict       = errors.New("key bound to more than one command")
)

type Command int

const (
	None Command = iota
	NewNote
	OpenFile
	Save
	SaveAs
	CloseTab
	DiscardTab
	NextTab
	PrevTab
	ToggleTabBar
	TimerStart
	TimerResetStop
	ToggleHemingwayMode
	ZoomIn
	ZoomOut
	TogglePreview
	CopyNote
	ToggleHelp
	Quit
)

var commandNames = map[Command]string{
	NewNote:             "new-note",
	OpenFile:            "open-file",
	Save:                "save",
	SaveAs:              "save-as",
	CloseTab:            "close-tab",
	DiscardTab:          "discard-tab",
	NextTab:             "next-tab",
	PrevTab:             "prev-tab",
	ToggleTabBar:        "toggle-tab-bar",
	TimerStart:          "timer-start",
	TimerResetStop:      "timer-reset-stop",
	ToggleHemingwayMode: "toggle-hemingway",
	ZoomIn:              "zoom-in",
	ZoomOut:             "zoom-out",
	TogglePreview:       "toggle-preview",
	CopyNote:            "copy-note",
	ToggleHelp:          "toggle-help",
	Quit:                "quit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "none"
}

// Parse returns the command with the given configuration name.
func Parse(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range commandNames {
		if n == name {
			return c, true
		}
	}
	return None, false
}

// Names lists every command name, sorted.
func Names() []string {
	out := make([]string, 0, len(commandNames))
	for _, n := range commandNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type Keymap struct {
	bindings map[Command]key.Binding
	order    []Command
}

func Default() *Keymap {
	km := &Keymap{bindings: make(map[Command]key.Binding)}

	km.set(NewNote, "new", "ctrl+n")
	km.set(OpenFile, "open", "ctrl+o")
	km.set(Save, "save", "ctrl+s")
	km.set(SaveAs, "save as", "alt+s")
	km.set(CloseTab, "close", "ctrl+w")
	km.set(DiscardTab, "discard", "alt+w")
	km.set(NextTab, "next tab", "ctrl+right", "alt+.")
	km.set(PrevTab, "prev tab", "ctrl+left", "alt+,")
	km.set(ToggleTabBar, "tab bar", "f11")
	km.set(TimerStart, "timer", "ctrl+t")
	km.set(TimerResetStop, "stop timer", "ctrl+r")
	km.set(ToggleHemingwayMode, "hemingway", "alt+h")
	km.set(ZoomIn, "zoom in", "alt+=")
	km.set(ZoomOut, "zoom out", "alt+-")
	km.set(TogglePreview, "preview", "alt+p")
	km.set(CopyNote, "copy", "alt+y")
	km.set(ToggleHelp, "help", "f1")
	km.set(Quit, "quit", "ctrl+q", "ctrl+c")

	return km
}

func (km *Keymap) set(c Command, desc string, keys ...string) {
	if _, ok := km.bindings[c]; !ok {
		km.order = append(km.order, c)
	}
	km.bindings[c] = key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// New returns the default keymap with the configured overrides applied.
func New(overrides map[string]string) (*Keymap, error) {
	km := Default()
	if err := km.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return km, nil
}

// ApplyOverrides rebinds commands from "command: key,key" pairs. An empty
// key list unbinds the command.
func (km *Keymap) ApplyOverrides(overrides map[string]string) error {
	var errs []error
	for name, raw := range overrides {
		c, ok := Parse(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCommand, name))
			continue
		}

		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}

		if len(keys) == 0 {
			b := km.bindings[c]
			b.SetEnabled(false)
			km.bindings[c] = b
			continue
		}
		km.set(c, km.bindings[c].Help().Desc, keys...)
	}

	if err := km.checkConflicts(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (km *Keymap) checkConflicts() error {
	owner := make(map[string]Command)
	for _, c := range km.order {
		b := km.bindings[c]
		if !b.Enabled() {
			continue
		}
		for _, k := range b.Keys() {
			if prev, taken := owner[k]; taken {
				return fmt.Errorf("%w: %q used by %s and %s", ErrConflict, k, prev, c)
			}
			owner[k] = c
		}
	}
	return nil
}

// Lookup returns the command bound to msg, or None.
func (km *Keymap) Lookup(msg tea.KeyMsg) Command {
	for _, c := range km.order {
		if key.Matches(msg, km.bindings[c]) {
			return c
		}
	}
	return None
}

func (km *Keymap) Binding(c Command) key.Binding {
	return km.bindings[c]
}

func (km *Keymap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.bindings[Save],
		km.bindings[NewNote],
		km.bindings[OpenFile],
		km.bindings[CloseTab],
		km.bindings[TimerStart],
		km.bindings[ToggleHelp],
		km.bindings[Quit],
	}
}

func (km *Keymap) FullHelp() [][]key.Binding {
	group := func(cs ...Command) []key.Binding {
		out := make([]key.Binding, 0, len(cs))
		for _, c := range cs {
			out = append(out, km.bindings[c])
		}
		return out
	}

	return [][]key.Binding{
		group(NewNote, OpenFile, Save, SaveAs, CloseTab, DiscardTab),
		group(NextTab, PrevTab, ToggleTabBar, ZoomIn, ZoomOut),
		group(TimerStart, TimerResetStop, ToggleHemingwayMode),
		group(TogglePreview, CopyNote, ToggleHelp, Quit),
	}
}
