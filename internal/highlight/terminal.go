package highlight

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/codetutor/codetutor/internal/lang"
)

// chromaTypes maps our token classes onto chroma's token hierarchy so any
// chroma style can color them.
var chromaTypes = map[Class]chroma.TokenType{
	ClassNone:        chroma.Text,
	ClassComment:     chroma.Comment,
	ClassString:      chroma.LiteralString,
	ClassKeyword:     chroma.Keyword,
	ClassNumber:      chroma.LiteralNumber,
	ClassOperator:    chroma.Operator,
	ClassPunctuation: chroma.Punctuation,
}

// Palette holds one lipgloss style per token class.
type Palette struct {
	Name   string
	styles map[Class]lipgloss.Style
}

// NewPalette derives a palette from the named chroma style. Unknown names
// use chroma's fallback style.
func NewPalette(name string) Palette {
	sty := styles.Get(name)
	if sty == nil {
		sty = styles.Fallback
	}

	p := Palette{Name: name, styles: make(map[Class]lipgloss.Style, len(chromaTypes))}
	for class, tt := range chromaTypes {
		entry := sty.Get(tt)
		s := lipgloss.NewStyle()
		if entry.Colour.IsSet() {
			s = s.Foreground(lipgloss.Color(entry.Colour.String()))
		}
		if entry.Bold == chroma.Yes {
			s = s.Bold(true)
		}
		if entry.Italic == chroma.Yes {
			s = s.Italic(true)
		}
		p.styles[class] = s
	}
	return p
}

// Style returns the style for a token class.
func (p Palette) Style(c Class) lipgloss.Style {
	if s, ok := p.styles[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Render colors a single token.
func (p Palette) Render(tok Token) string {
	return p.Style(tok.Class).Render(tok.Text)
}

// Terminal renders code with ANSI colors, one output line per input line.
func Terminal(code string, l lang.Language, p Palette) string {
	lines := Lines(Tokenize(code, l))
	out := make([]string, len(lines))
	for i, line := range lines {
		var b strings.Builder
		for _, tok := range line {
			b.WriteString(p.Render(tok))
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}
