package feedback

import (
	"strings"
)

// CodeFallback is shown when a code section has no fenced block.
const CodeFallback = "Could not display code."

// Section is one "### " block of an analysis. The concrete types are
// AnalysisSection, OutputSection and CodeSection.
type Section interface {
	Title() string
	Body() string
	section()
}

// AnalysisSection is prose feedback (analysis, bugs, suggestions).
type AnalysisSection struct {
	Heading string
	Content string
}

func (s AnalysisSection) Title() string { return s.Heading }
func (s AnalysisSection) Body() string  { return s.Content }
func (AnalysisSection) section()        {}

// OutputSection is the predicted program output.
type OutputSection struct {
	Heading string
	Content string
	Failed  bool
}

func (s OutputSection) Title() string { return s.Heading }
func (s OutputSection) Body() string  { return s.Content }
func (OutputSection) section()        {}

// Display returns the fenced output with one layer of wrapping quotes
// removed. Without a fence the trimmed body is used.
func (s OutputSection) Display() string {
	out, ok := ExtractFence(s.Content)
	if !ok {
		out = strings.TrimSpace(s.Content)
	}
	return stripQuotes(out)
}

// CodeSection holds corrected or enhanced code.
type CodeSection struct {
	Heading string
	Content string
}

func (s CodeSection) Title() string { return s.Heading }
func (s CodeSection) Body() string  { return s.Content }
func (CodeSection) section()        {}

// Code returns the fenced code, or CodeFallback.
func (s CodeSection) Code() string {
	if code, ok := ExtractFence(s.Content); ok {
		return code
	}
	return CodeFallback
}

// Parse splits text on "### " headers. Text before the first header is
// dropped, as are headers with an empty title. Parse never fails; a
// partial stream yields whatever sections have started so far.
func Parse(text string) []Section {
	parts := strings.Split(text, "### ")
	if len(parts) < 2 {
		return nil
	}

	var sections []Section
	for _, part := range parts[1:] {
		title, body, _ := strings.Cut(part, "\n")
		title = strings.TrimSpace(title)
		body = strings.TrimSpace(body)
		if title == "" {
			continue
		}
		sections = append(sections, classify(title, body))
	}
	return sections
}

func classify(title, body string) Section {
	switch {
	case strings.Contains(title, "Corrected Code"), strings.Contains(title, "Enhanced Code"):
		return CodeSection{Heading: title, Content: body}
	case strings.Contains(title, "Code Output"):
		return OutputSection{
			Heading: title,
			Content: body,
			Failed:  strings.Contains(body, "cannot be run"),
		}
	default:
		return AnalysisSection{Heading: title, Content: body}
	}
}

// DefaultOpen reports whether the i-th section starts expanded.
func DefaultOpen(i int) bool { return i == 0 }

// Split separates code sections from the rest, preserving order.
func Split(sections []Section) (rest []Section, code *CodeSection) {
	for _, s := range sections {
		if c, ok := s.(CodeSection); ok && code == nil {
			code = &c
			continue
		}
		rest = append(rest, s)
	}
	return rest, code
}

// ExtractFence returns the contents of the first ``` fenced block in body.
// A first line that looks like a language tag is dropped. It reports false
// when no complete fence exists.
func ExtractFence(body string) (string, bool) {
	start := strings.Index(body, "```")
	if start < 0 {
		return "", false
	}
	rest := body[start+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	inner := rest[:end]

	if first, after, ok := strings.Cut(inner, "\n"); ok && isLanguageTag(first) {
		inner = after
	}
	return strings.TrimSpace(inner), true
}

func isLanguageTag(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '+', r == '#', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
