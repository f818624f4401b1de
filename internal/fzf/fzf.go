package fzf

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/notator/internal/cache"
	"github.com/Paintersrp/notator/internal/parser"
)

// ErrNoSelection is returned when the picker is aborted.
var ErrNoSelection = errors.New("no note selected")

// Lister supplies note paths and their display labels.
type Lister interface {
	List() ([]string, error)
	Label(id string) string
}

// FuzzyFinder picks a note from the notes directory with a rendered preview.
type FuzzyFinder struct {
	lister Lister
	Header string
	files  []string
	labels []string
	cache  *cache.LRUCache[previewKey, string]

	find func(files []string, label func(int) string, opts ...fuzzyfinder.Option) (int, error)
}

type previewKey struct {
	path  string
	width int
}

func NewFuzzyFinder(lister Lister, header string) *FuzzyFinder {
	c, _ := cache.New[previewKey, string](64)
	return &FuzzyFinder{
		lister: lister,
		Header: header,
		cache:  c,
		find: func(files []string, label func(int) string, opts ...fuzzyfinder.Option) (int, error) {
			return fuzzyfinder.Find(files, label, opts...)
		},
	}
}

// Run shows the picker, pre-filled with query, and returns the chosen path.
func (f *FuzzyFinder) Run(query string) (string, error) {
	files, err := f.lister.List()
	if err != nil {
		return "", fmt.Errorf("error listing notes: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: the notes directory is empty", ErrNoSelection)
	}

	f.files = files
	f.labels = make([]string, len(files))
	for i, file := range files {
		f.labels[i] = f.label(file)
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(f.files, func(i int) string { return f.labels[i] }, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("error selecting note: %w", err)
	}
	if idx < 0 {
		return "", ErrNoSelection
	}

	return f.files[idx], nil
}

func (f *FuzzyFinder) label(file string) string {
	rel := f.lister.Label(file)

	content, err := os.ReadFile(file)
	if err != nil {
		return rel
	}
	if title := parser.Title(string(content)); title != "" {
		return fmt.Sprintf("%s  [%s]", title, rel)
	}
	return rel
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	k := previewKey{path: f.files[i], width: w}
	if out, ok := f.cache.Get(k); ok {
		return out
	}

	content, err := os.ReadFile(f.files[i])
	if err != nil {
		return "Error reading file"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(max(w-4, 20)),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return string(content)
	}

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}

	f.cache.Put(k, markdown)
	return markdown
}
