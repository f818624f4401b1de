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
package initialize

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notator/internal/config"
	"github.com/Paintersrp/notator/internal/state"
)

// Answers holds the choices collected by the init walkthrough.
type Answers struct {
	NotesDir  string
	Extension string
	Autosave  time.Duration
	Hemingway bool
}

var extensions = []string{"md", "txt", "markdown", "org"}

// ask is replaced in tests.
var ask = askInteractive

func NewCmdInit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"i", "init"},
		Short:   "Set up notator",
		Long: heredoc.Doc(`
			Walks you through the notes directory, file extension, autosave interval
			and whether Hemingway mode starts enabled, then writes the config file.
		`),
		Example: "notator init",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := ask(s.Config)
			if err != nil {
				return err
			}
			if err := Apply(s.Config, answers); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", s.Config.GetConfigPath())
			return nil
		},
	}

	return cmd
}

// Apply copies answers into cfg and persists it.
func Apply(cfg *config.Config, a Answers) error {
	dir := strings.TrimSpace(a.NotesDir)
	if dir == "" {
		return fmt.Errorf("notes directory cannot be empty")
	}

	updated := *cfg
	updated.NotesDir = dir
	if ext := strings.TrimPrefix(strings.TrimSpace(a.Extension), "."); ext != "" {
		updated.Extension = ext
	}
	updated.Autosave.Interval = a.Autosave
	updated.Hemingway = a.Hemingway

	if err := updated.SetNotesDir(dir); err != nil {
		return err
	}
	*cfg = updated
	return nil
}

func askInteractive(cfg *config.Config) (Answers, error) {
	var a Answers

	dirInput := textinput.New("Notes directory:")
	dirInput.InitialValue = cfg.NotesDir
	dirInput.Validate = func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("notes directory cannot be empty")
		}
		return nil
	}
	dir, err := dirInput.RunPrompt()
	if err != nil {
		return a, err
	}
	a.NotesDir = dir

	extSelect := selection.New("File extension for new notes:", extensions)
	extSelect.Filter = nil
	ext, err := extSelect.RunPrompt()
	if err != nil {
		return a, err
	}
	a.Extension = ext

	intervalInput := textinput.New("Autosave interval:")
	intervalInput.InitialValue = cfg.Autosave.Interval.String()
	intervalInput.Validate = func(v string) error {
		_, err := parseInterval(v)
		return err
	}
	raw, err := intervalInput.RunPrompt()
	if err != nil {
		return a, err
	}
	if a.Autosave, err = parseInterval(raw); err != nil {
		return a, err
	}

	initial := confirmation.No
	if cfg.Hemingway {
		initial = confirmation.Yes
	}
	hemingway, err := confirmation.New("Start in Hemingway mode?", initial).RunPrompt()
	if err != nil {
		return a, err
	}
	a.Hemingway = hemingway

	return a, nil
}

func parseInterval(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid interval %q: must be positive", v)
	}
	return d, nil
}
