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
package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/notator/internal/constants"
	"github.com/Paintersrp/notator/internal/state"
	pathcmd "github.com/Paintersrp/notator/pkg/cmd"
	"github.com/Paintersrp/notator/pkg/cmd/initialize"
	"github.com/Paintersrp/notator/pkg/cmd/open"
	"github.com/Paintersrp/notator/pkg/cmd/session"
	"github.com/Paintersrp/notator/pkg/cmd/settings"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	var opts pathcmd.LaunchOptions

	cmd := &cobra.Command{
		Use:     constants.AppName + " [files...]",
		Short:   "A distraction free, tabbed note editor for the terminal.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Write in tabs that survive restarts. Every open note is autosaved, notes
			that were never named get a timestamp name, and the open tabs come back
			the next time you start.

			A writing timer (ctrl+t) and Hemingway mode (alt+h) help you keep going.
		`),
		Example: heredoc.Doc(`
			notator
			notator ideas.md ~/drafts/chapter-1.md
			notator --fresh
			notator --paste
		`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pathcmd.Launch(cmd, s, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Fresh, "fresh", "f", false, "Start without restoring the previous session")
	cmd.Flags().BoolVarP(&opts.Paste, "paste", "p", false, "Start a new note with the clipboard contents")

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		open.NewCmdOpen(s, pathcmd.Launch),
		session.NewCmdSession(s),
		settings.NewCmdSettings(s),
	)

	return cmd, nil
}
