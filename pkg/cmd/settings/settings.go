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
package settings

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notator/internal/config"
	"github.com/Paintersrp/notator/internal/keymap"
	"github.com/Paintersrp/notator/internal/state"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))

func NewCmdSettings(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"s"},
		Short:   "Show and change settings",
		Long: heredoc.Doc(`
			Without a subcommand, prints the config file location, the main
			settings and every key binding.
		`),
		Example: heredoc.Doc(`
			notator settings
			notator settings bind timer-start ctrl+t f5
			notator settings notes-dir ~/writing
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd.OutOrStdout(), s.Config, s.Keymap)
		},
	}

	cmd.AddCommand(newCmdBind(s), newCmdNotesDir(s))
	return cmd
}

func newCmdBind(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "bind <command> [keys...]",
		Short: "Rebind an editor command",
		Long: heredoc.Doc(`
			Replaces the keys bound to a command. Giving no keys unbinds it.
			Commands: ` + strings.Join(keymap.Names(), ", ") + `
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, keys := args[0], args[1:]
			c, ok := keymap.Parse(command)
			if !ok {
				return fmt.Errorf("%w: %q", keymap.ErrUnknownCommand, command)
			}

			overrides := make(map[string]string, len(s.Config.Keymap)+1)
			for k, v := range s.Config.Keymap {
				overrides[k] = v
			}
			overrides[c.String()] = strings.Join(keys, ",")
			if _, err := keymap.New(overrides); err != nil {
				return err
			}

			if err := s.Config.SetKeys(c.String(), keys); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bound to %s\n", c, describe(keys))
			return nil
		},
	}
}

func newCmdNotesDir(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "notes-dir <dir>",
		Short: "Change the notes directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Config.SetNotesDir(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notes directory set to %s\n", s.Config.NotesDir)
			return nil
		},
	}
}

func show(w io.Writer, cfg *config.Config, km *keymap.Keymap) error {
	fmt.Fprintf(w, "config:     %s\n", cfg.GetConfigPath())
	fmt.Fprintf(w, "notes:      %s (*.%s)\n", cfg.NotesDir, cfg.Extension)
	fmt.Fprintf(w, "session:    %s\n", cfg.SessionFile)
	fmt.Fprintf(w, "autosave:   %s\n", cfg.Autosave.Interval)
	fmt.Fprintf(w, "hemingway:  %t\n", cfg.Hemingway)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("COMMAND", "KEYS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	for _, name := range keymap.Names() {
		c, _ := keymap.Parse(name)
		b := km.Binding(c)
		keys := "unbound"
		if b.Enabled() {
			keys = strings.Join(b.Keys(), ", ")
		}
		t.Row(name, keys)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func describe(keys []string) string {
	if len(keys) == 0 {
		return "nothing"
	}
	return strings.Join(keys, ", ")
}
