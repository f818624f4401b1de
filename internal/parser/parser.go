// Package parser extracts display metadata from note content.
package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const maxTitleRunes = 40

var frontMatter = regexp.MustCompile(`(?s)\A---\r?\n(.+?)\r?\n---\r?\n?`)

// Title returns a short label for content: the front matter title, then the
// first heading, then the first non-blank line. Empty content has no title.
func Title(content string) string {
	body := content
	if m := frontMatter.FindStringSubmatchIndex(content); m != nil {
		var data struct {
			Title string `yaml:"title"`
		}
		if err := yaml.Unmarshal([]byte(content[m[2]:m[3]]), &data); err == nil {
			if t := strings.TrimSpace(data.Title); t != "" {
				return truncate(t)
			}
		}
		body = content[m[1]:]
	}

	if h := firstHeading([]byte(body)); h != "" {
		return truncate(h)
	}

	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncate(line)
		}
	}
	return ""
}

func firstHeading(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(string(h.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return title
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxTitleRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimRightFunc(string(r[:maxTitleRunes-1]), unicode.IsSpace) + "…"
}

// Stats are the counters shown in the status bar.
type Stats struct {
	Words int
	Chars int
	Lines int
}

func Count(content string) Stats {
	s := Stats{
		Words: len(strings.Fields(content)),
		Chars: utf8.RuneCountInString(content),
	}
	if content != "" {
		s.Lines = strings.Count(content, "\n") + 1
	}
	return s
}
