/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package session

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	sess "github.com/Paintersrp/notator/internal/session"
	"github.com/Paintersrp/notator/internal/state"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))

// confirm is replaced in tests.
var confirm = func(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.No).RunPrompt()
}

func NewCmdSession(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"ss"},
		Short:   "Show the tabs that will be restored on the next start",
		Long: heredoc.Doc(`
			Prints the saved session: one row per tab with its note, zoom and
			cursor position. The active tab is marked with an asterisk.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := s.Session.Load()
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s, loaded)
		},
	}

	cmd.AddCommand(newCmdClear(s))
	return cmd
}

func newCmdClear(s *state.State) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved session",
		Long: heredoc.Doc(`
			Removes the session file so the next start opens a single empty tab.
			Notes on disk are not touched.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm("Forget the saved session?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			err := os.Remove(s.Session.Path())
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func render(w io.Writer, s *state.State, loaded sess.Session) error {
	if len(loaded.Tabs) == 0 {
		_, err := fmt.Fprintln(w, "No saved session")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "NOTE", "ZOOM", "CURSOR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	for i, e := range loaded.Tabs {
		marker := ""
		if i == loaded.Active {
			marker = "*"
		}
		t.Row(
			marker,
			s.Store.Label(e.ID),
			strconv.Itoa(e.Zoom),
			fmt.Sprintf("%d:%d", e.Row+1, e.Col+1),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
