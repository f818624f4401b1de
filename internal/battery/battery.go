// Package battery reads the charge level shown in the editor's status bar.
package battery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const DefaultRoot = "/sys/class/power_supply"

var ErrNoBattery = errors.New("no battery found")

type Status struct {
	Percent  int
	Charging bool
}

func (s Status) String() string {
	if s.Charging {
		return fmt.Sprintf("⚡%d%%", s.Percent)
	}
	return fmt.Sprintf("%d%%", s.Percent)
}

// Reader looks up the first battery under a power_supply style directory.
type Reader struct {
	Root string
}

func (r Reader) Read() (Status, error) {
	root := r.Root
	if root == "" {
		root = DefaultRoot
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return Status{}, ErrNoBattery
	}

	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		kind, err := readTrimmed(filepath.Join(dir, "type"))
		if err != nil || kind != "Battery" {
			continue
		}

		raw, err := readTrimmed(filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		pct, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}

		status, _ := readTrimmed(filepath.Join(dir, "status"))
		return Status{
			Percent:  min(max(pct, 0), 100),
			Charging: status == "Charging" || status == "Full",
		}, nil
	}

	return Status{}, ErrNoBattery
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Msg carries a reading to the event loop. Err is ErrNoBattery on machines
// without one.
type Msg struct {
	Status Status
	Err    error
}

// Poll reads immediately and returns the reading as a Msg.
func (r Reader) Poll() tea.Cmd {
	return func() tea.Msg {
		s, err := r.Read()
		return Msg{Status: s, Err: err}
	}
}

// PollEvery schedules the next reading after interval.
func (r Reader) PollEvery(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		s, err := r.Read()
		return Msg{Status: s, Err: err}
	})
}
