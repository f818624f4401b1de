package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/notator/internal/parser"
	"github.com/Paintersrp/notator/internal/tabs"
	"github.com/Paintersrp/notator/internal/timer"
)

func (m *Model) View() string {
	var sections []string

	if m.showTabs {
		sections = append(sections, m.tabBarView())
	}

	body := m.bodyView()
	sections = append(sections, body)

	if m.st.Timer.SelectorOpen() {
		sections = append(sections, m.selectorView())
	}
	if m.mode == modePrompt {
		sections = append(sections, promptStyle.Width(m.width).Render(m.input.View()))
	}

	sections = append(sections, m.statusBarView())
	sections = append(sections, helpStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) bodyView() string {
	if m.mode == modePicker && m.picker != nil {
		return m.picker.view(m.width, m.area.Height()+1)
	}

	width := m.columnWidth()
	var content string
	if m.preview {
		content = m.renderPreview(m.tabs.Active().Note.Content, width)
		content = clipLines(content, m.area.Height())
	} else {
		content = m.area.View()
	}

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, content)
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) tabLabel(t *tabs.Tab) string {
	label := parser.Title(t.Note.Content)
	if label == "" {
		if t.Note.Bound() {
			label = m.st.Store.Label(t.Note.ID)
		} else {
			label = "untitled"
		}
	}
	if t.Dirty {
		label = "● " + label
	}
	return label
}

func (m *Model) tabBarView() string {
	active := m.tabs.Active()

	var rendered []string
	for _, t := range m.tabs.Tabs() {
		style := tabStyle
		if t == active {
			style = activeTabStyle
		}
		rendered = append(rendered, style.Render(m.tabLabel(t)))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return tabBarStyle.Width(m.width).MaxWidth(m.width).Render(bar)
}

func (m *Model) selectorView() string {
	t := m.st.Timer

	var items []string
	for i, p := range t.Presets() {
		label := p.Label
		if p.Custom && t.Custom() > 0 {
			label = fmt.Sprintf("custom (%s)", timer.FormatClock(t.Custom()))
		}
		if i == t.Cursor() {
			items = append(items, selectorCursorStyle.Render(label))
		} else {
			items = append(items, selectorItemStyle.Render(label))
		}
	}

	return selectorStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func (m *Model) statusBarView() string {
	left := ""
	if m.status != "" {
		left = statusMessageStyle.Render(m.status)
	}

	var right []string
	stats := parser.Count(m.tabs.Active().Note.Content)
	right = append(right, statusSegmentStyle.Render(fmt.Sprintf("%d words", stats.Words)))

	if z := m.tabs.Active().Zoom; z != 0 {
		right = append(right, statusSegmentStyle.Render(fmt.Sprintf("zoom %+d", z)))
	}
	if m.hemingway {
		right = append(right, hemingwayStyle.Render("hemingway"))
	}
	if m.preview {
		right = append(right, statusSegmentStyle.Render("preview"))
	}

	switch tm := m.st.Timer; tm.State() {
	case timer.Running:
		right = append(right, timerStyle.Render(tm.Clock()))
	case timer.Expired:
		if tm.Flash() {
			right = append(right, timerFlashStyle.Render("0:00"))
		} else {
			right = append(right, timerStyle.Render("0:00"))
		}
	}

	if m.batteryLine != "" {
		right = append(right, statusSegmentStyle.Render(m.batteryLine))
	}

	rightView := lipgloss.JoinHorizontal(lipgloss.Top, right...)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(rightView), 0)

	return statusBarStyle.Render(left + strings.Repeat(" ", gap) + rightView)
}
