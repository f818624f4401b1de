package editor

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Paintersrp/notator/internal/state"
)

// ErrNotTerminal is returned when the editor is started without a terminal
// on stdin.
var ErrNotTerminal = errors.New("notator needs an interactive terminal")

// Run starts the editor on st and blocks until it quits or ctx is done.
// The session is persisted on the way out either way.
func Run(ctx context.Context, st *state.State) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	originalState, err := term.GetState(fd)
	if err != nil {
		return fmt.Errorf("failed to get terminal state: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, originalState); err != nil {
			st.Logger.Warn("failed to restore terminal state", zap.Error(err))
		}
	}()

	p := tea.NewProgram(
		New(st),
		tea.WithInput(os.Stdin),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		st.Logger.Info("editor interrupted", zap.Error(ctx.Err()))
		runErr = nil
	}

	return errors.Join(runErr, st.Shutdown())
}
