// Package timer implements the writing countdown: presets, a custom
// duration, expiry flashing and the double-press hard stop.
package timer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrInvalidDuration = errors.New("timer duration must be positive")

type State int

const (
	Idle State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "idle"
	}
}

// StopResult describes what a stop press did.
type StopResult int

const (
	StopIgnored StopResult = iota
	StopStopped
	StopAcknowledged
	StopReset
)

type Preset struct {
	Label    string
	Duration time.Duration
	Custom   bool
}

const (
	DefaultWindow = 2 * time.Second
	TickInterval  = time.Second
)

var DefaultPresets = []Preset{
	{Label: "30s", Duration: 30 * time.Second},
	{Label: "3m", Duration: 3 * time.Minute},
	{Label: "7m", Duration: 7 * time.Minute},
	{Label: "11m", Duration: 11 * time.Minute},
	{Label: "custom", Custom: true},
}

// PresetsFrom builds a preset list from durations and appends the custom
// entry.
func PresetsFrom(durations []time.Duration) []Preset {
	out := make([]Preset, 0, len(durations)+1)
	for _, d := range durations {
		out = append(out, Preset{Label: shortLabel(d), Duration: d})
	}
	return append(out, Preset{Label: "custom", Custom: true})
}

func shortLabel(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

// TickMsg drives the countdown once per second.
type TickMsg struct {
	Gen int
}

type Option func(*Timer)

func WithPresets(durations []time.Duration) Option {
	return func(t *Timer) {
		if len(durations) > 0 {
			t.presets = PresetsFrom(durations)
		}
	}
}

func WithWindow(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.window = d
		}
	}
}

type Timer struct {
	presets []Preset
	window  time.Duration

	state     State
	remaining time.Duration
	total     time.Duration
	started   time.Time
	flash     bool
	gen       int

	selected     int
	cursor       int
	selectorOpen bool
	custom       time.Duration
	customInput  string

	lastStop time.Time
}

func New(opts ...Option) *Timer {
	t := &Timer{
		presets: append([]Preset(nil), DefaultPresets...),
		window:  DefaultWindow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a new countdown of d, replacing any running or expired one.
func (t *Timer) Start(now time.Time, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, d)
	}

	t.state = Running
	t.remaining = d
	t.total = d
	t.started = now
	t.flash = false
	t.selectorOpen = false
	t.gen++
	return nil
}

// StartSelected starts the highlighted preset. The custom preset uses the
// duration from SetCustomInput.
func (t *Timer) StartSelected(now time.Time) error {
	p := t.Highlighted()
	d := p.Duration
	if p.Custom {
		d = t.custom
	}

	if err := t.Start(now, d); err != nil {
		return err
	}
	t.selected = t.cursor
	return nil
}

// Stop handles a reset/stop press. A press while idle that lands strictly
// inside the window of the previous press is a hard stop and clears the
// custom duration and selector.
func (t *Timer) Stop(now time.Time) StopResult {
	double := !t.lastStop.IsZero() && now.Sub(t.lastStop) >= 0 && now.Sub(t.lastStop) < t.window
	t.lastStop = now

	switch t.state {
	case Running:
		t.state = Idle
		t.remaining = 0
		t.gen++
		return StopStopped
	case Expired:
		t.state = Idle
		t.remaining = 0
		t.flash = false
		t.gen++
		return StopAcknowledged
	}

	if double {
		t.custom = 0
		t.customInput = ""
		t.selectorOpen = false
		return StopReset
	}
	return StopIgnored
}

// Tick advances the countdown by elapsed. It reports true exactly when the
// timer expires; while expired each tick toggles the flash.
func (t *Timer) Tick(elapsed time.Duration) bool {
	switch t.state {
	case Running:
		t.remaining -= elapsed
		if t.remaining <= 0 {
			t.remaining = 0
			t.state = Expired
			t.flash = true
			return true
		}
	case Expired:
		t.flash = !t.flash
	}
	return false
}

// TickCmd schedules the next TickMsg for the current generation.
func (t *Timer) TickCmd() tea.Cmd {
	if t.state == Idle {
		return nil
	}

	gen := t.gen
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// Accept reports whether msg belongs to the current countdown.
func (t *Timer) Accept(msg TickMsg) bool {
	return msg.Gen == t.gen && t.state != Idle
}

func (t *Timer) OpenSelector() {
	t.selectorOpen = true
	t.cursor = t.selected
}

func (t *Timer) CloseSelector() { t.selectorOpen = false }

func (t *Timer) SelectorOpen() bool { return t.selectorOpen }

func (t *Timer) Next() {
	t.cursor = (t.cursor + 1) % len(t.presets)
}

func (t *Timer) Prev() {
	t.cursor = (t.cursor - 1 + len(t.presets)) % len(t.presets)
}

func (t *Timer) Cursor() int { return t.cursor }

func (t *Timer) Highlighted() Preset { return t.presets[t.cursor] }

func (t *Timer) Presets() []Preset {
	return append([]Preset(nil), t.presets...)
}

// SetCustomInput parses the custom duration. A bare integer is minutes;
// anything else must be a Go duration such as "90s" or "1h15m".
func (t *Timer) SetCustomInput(s string) error {
	s = strings.TrimSpace(s)

	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > math.MaxInt64/int64(time.Minute) {
			return fmt.Errorf("%w: %q is too long", ErrInvalidDuration, s)
		}
		d = time.Duration(n) * time.Minute
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		d = parsed
	}

	if d <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	t.custom = d
	t.customInput = s
	return nil
}

func (t *Timer) CustomInput() string { return t.customInput }
func (t *Timer) Custom() time.Duration { return t.custom }
func (t *Timer) State() State { return t.state }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) Total() time.Duration { return t.total }
func (t *Timer) Started() time.Time { return t.started }
func (t *Timer) Flash() bool { return t.flash }
func (t *Timer) Gen() int { return t.gen }
func (t *Timer) Window() time.Duration { return t.window }

// Clock formats the remaining time as m:ss, or h:mm:ss past an hour.
func (t *Timer) Clock() string {
	return FormatClock(t.remaining)
}

func FormatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
