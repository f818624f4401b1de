package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/notator/internal/state"
)

// ResolveNotePaths turns command line file arguments into note ids.
// Absolute paths are kept, paths that exist relative to the working
// directory are made absolute, and everything else is a note name inside
// the notes directory.
func ResolveNotePaths(s *state.State, args []string) ([]string, error) {
	if s == nil || s.Store == nil {
		return nil, fmt.Errorf("state is not initialized")
	}

	resolved := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		if filepath.IsAbs(arg) {
			resolved = append(resolved, filepath.Clean(arg))
			continue
		}

		if _, err := os.Stat(arg); err == nil {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
			}
			resolved = append(resolved, abs)
			continue
		}

		resolved = append(resolved, s.Store.Resolve(arg))
	}

	return resolved, nil
}
