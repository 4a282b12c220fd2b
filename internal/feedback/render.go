package feedback

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns section bodies into terminal markdown. Glamour renderers
// are built lazily and cached per word-wrap width.
type Renderer struct {
	style string
	cache map[int]*glamour.TermRenderer
}

// NewRenderer returns a renderer using a glamour standard style ("dark" or
// "light").
func NewRenderer(style string) *Renderer {
	if style != "light" {
		style = "dark"
	}
	return &Renderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

// Style returns the glamour standard style name.
func (r *Renderer) Style() string { return r.style }

// SetStyle switches between "dark" and "light", dropping cached renderers.
func (r *Renderer) SetStyle(style string) {
	if style != "light" {
		style = "dark"
	}
	if style == r.style {
		return
	}
	r.style = style
	r.cache = make(map[int]*glamour.TermRenderer)
}

func (r *Renderer) term(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.cache[width] = tr
	return tr, nil
}

// Markdown renders md at width. On renderer failure the raw text is
// returned so a partial analysis is never hidden.
func (r *Renderer) Markdown(md string, width int) string {
	tr, err := r.term(width)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// Section renders one section body. Output sections are shown as a fenced
// block of their display text.
func (r *Renderer) Section(s Section, width int) string {
	switch s := s.(type) {
	case OutputSection:
		return r.Markdown("```\n"+s.Display()+"\n```", width)
	case CodeSection:
		return r.Markdown("```\n"+s.Code()+"\n```", width)
	default:
		return r.Markdown(s.Body(), width)
	}
}
