package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notator/internal/state"
	"github.com/Paintersrp/notator/internal/tui/editor"
)

// LaunchOptions control how the editor starts.
type LaunchOptions struct {
	// Fresh skips restoring the previous session.
	Fresh bool
	// Paste starts an extra note holding the clipboard contents.
	Paste bool
}

var readClipboard = clipboard.ReadAll

// Launch restores the session, opens files and runs the editor until it
// quits.
func Launch(cmd *cobra.Command, s *state.State, files []string, opts LaunchOptions) error {
	paths, err := ResolveNotePaths(s, files)
	if err != nil {
		return err
	}

	if err := s.Restore(paths, opts.Fresh); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if opts.Paste {
		if err := PasteNote(s); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}

	if err := editor.Run(cmd.Context(), s); err != nil {
		if errors.Is(err, editor.ErrNotTerminal) {
			_ = s.Close()
		}
		return err
	}
	return nil
}

// PasteNote opens a new tab holding the clipboard contents. An empty
// clipboard opens nothing.
func PasteNote(s *state.State) error {
	text, err := readClipboard()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("clipboard is empty")
	}

	t, err := s.Tabs.Open("")
	if err != nil {
		return err
	}
	s.Tabs.Edit(t, text)

	if tabs := s.Tabs.Tabs(); len(tabs) > 1 {
		if first := tabs[0]; !first.Note.Bound() && !first.Dirty {
			_ = s.Tabs.Close(first, true)
		}
	}
	return nil
}
