package editor

import tea "github.com/charmbracelet/bubbletea"

// hemingwayBlocked lists the keys that erase text or move the cursor
// backwards. In Hemingway mode the writer can only go forward.
var hemingwayBlocked = map[string]bool{
	"backspace":     true,
	"ctrl+h":        true,
	"delete":        true,
	"ctrl+d":        true,
	"alt+backspace": true,
	"alt+delete":    true,
	"alt+d":         true,
	"ctrl+w":        true,
	"ctrl+k":        true,
	"ctrl+u":        true,
	"left":          true,
	"ctrl+b":        true,
	"alt+left":      true,
	"alt+b":         true,
	"up":            true,
	"ctrl+p":        true,
	"home":          true,
	"ctrl+a":        true,
	"ctrl+home":     true,
	"alt+<":         true,
	"pgup":          true,
	"alt+u":         true,
	"alt+l":         true,
	"alt+c":         true,
}

func blockedInHemingway(msg tea.KeyMsg) bool {
	return hemingwayBlocked[msg.String()]
}
