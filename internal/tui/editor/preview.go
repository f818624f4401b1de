package editor

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/notator/internal/cache"
)

const previewCacheSize = 16

type previewKey struct {
	content string
	width   int
}

func newPreviewCache() *cache.LRUCache[previewKey, string] {
	c, _ := cache.New[previewKey, string](previewCacheSize)
	return c
}

// renderPreview renders content as markdown. Renders are cached per content
// and width so switching tabs in preview mode stays cheap.
func (m *Model) renderPreview(content string, width int) string {
	k := previewKey{content: content, width: width}
	if out, ok := m.previewCache.Get(k); ok {
		return out
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.previewStyle),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return content
	}

	out, err := r.Render(content)
	if err != nil {
		return content
	}

	m.previewCache.Put(k, out)
	return out
}
