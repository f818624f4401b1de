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
package open

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notator/internal/fzf"
	"github.com/Paintersrp/notator/internal/state"
	pathcmd "github.com/Paintersrp/notator/pkg/cmd"
)

// LaunchFunc starts the editor with files opened.
type LaunchFunc func(cmd *cobra.Command, s *state.State, files []string, opts pathcmd.LaunchOptions) error

type finder interface {
	Run(query string) (string, error)
}

var newFinder = func(l fzf.Lister, header string) finder {
	return fzf.NewFuzzyFinder(l, header)
}

func NewCmdOpen(s *state.State, launch LaunchFunc) *cobra.Command {
	var opts pathcmd.LaunchOptions

	cmd := &cobra.Command{
		Use:     "open [query]",
		Aliases: []string{"o"},
		Short:   "Pick a note with a fuzzy finder and open it.",
		Long: heredoc.Doc(`
			Lists the notes directory in a fuzzy finder with a rendered preview.
			The chosen note is opened in a tab next to the restored session.
		`),
		Example: heredoc.Doc(`
			notator open
			notator open chapter
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			path, err := newFinder(s.Store, "Select a note to open").Run(query)
			if err != nil {
				if errors.Is(err, fzf.ErrNoSelection) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return nil
				}
				return err
			}

			return launch(cmd, s, []string{path}, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Fresh, "fresh", "f", false, "Open only the chosen note, without the previous session")
	return cmd
}
