package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// picker is the in-editor open-file list, filtered as the user types.
type picker struct {
	input  textinput.Model
	paths  []string
	labels []string

	matches []fuzzy.Match
	cursor  int
}

func newPicker(paths, labels []string) *picker {
	ti := textinput.New()
	ti.Prompt = "open: "
	ti.Placeholder = "type to filter, or a new name"
	ti.Focus()

	p := &picker{input: ti, paths: paths, labels: labels}
	p.filter()
	return p
}

func (p *picker) filter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		p.matches = make([]fuzzy.Match, len(p.labels))
		for i, l := range p.labels {
			p.matches[i] = fuzzy.Match{Str: l, Index: i}
		}
	} else {
		p.matches = fuzzy.Find(query, p.labels)
	}

	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

func (p *picker) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "ctrl+p", "shift+tab":
		if p.cursor > 0 {
			p.cursor--
		}
		return nil
	case "down", "ctrl+n", "tab":
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.cursor = 0
		p.filter()
	}
	return cmd
}

// choice returns the highlighted path, or the typed query when nothing
// matches so a note can be opened by name.
func (p *picker) choice() string {
	if len(p.matches) > 0 {
		return p.paths[p.matches[p.cursor].Index]
	}
	return strings.TrimSpace(p.input.Value())
}

func (p *picker) view(width, height int) string {
	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")

	rows := max(height-3, 1)
	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}

	if len(p.matches) == 0 {
		b.WriteString(placeholderStyle.Render("no matching notes, enter opens the typed name"))
	}
	for i := start; i < len(p.matches) && i < start+rows; i++ {
		line := highlight(p.matches[i])
		if i == p.cursor {
			line = pickerSelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(p.matches)-1 && i < start+rows-1 {
			b.WriteString("\n")
		}
	}

	footer := fmt.Sprintf("%d/%d", len(p.matches), len(p.labels))
	return pickerStyle.Width(max(width-4, 20)).Render(b.String() + "\n" + placeholderStyle.Render(footer))
}

func highlight(m fuzzy.Match) string {
	if len(m.MatchedIndexes) == 0 {
		return m.Str
	}

	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range m.Str {
		if matched[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
