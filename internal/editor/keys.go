package editor

import (
	"strings"

	"github.com/codetutor/codetutor/internal/lang"
)

// IndentUnit is the text inserted per indentation level.
const IndentUnit = "  "

// Edit is the result of applying a keystroke policy: the new full text and
// the byte offset the cursor should land on.
type Edit struct {
	Text   string
	Cursor int
}

// Enter computes the text after pressing Enter with the selection
// [selStart, selEnd) in text. It carries the current line's indentation
// forward, opens a block after ':' (Python) or '{' (brace languages),
// expands an empty brace pair into a three-line block, and dedents when
// the current line holds only whitespace.
func Enter(text string, selStart, selEnd int, l lang.Language) Edit {
	selStart, selEnd = clampSelection(text, selStart, selEnd)

	lineStart := strings.LastIndexByte(text[:selStart], '\n') + 1
	currentLine := text[lineStart:selStart]
	indent := leadingWhitespace(currentLine)
	trimmed := strings.TrimSpace(currentLine)

	opener := "{"
	if l.UsesColonBlocks() {
		opener = ":"
	}

	var insert string
	cursor := -1
	switch {
	case strings.HasSuffix(trimmed, opener):
		newIndent := indent + IndentUnit
		if selEnd < len(text) && text[selEnd] == '}' {
			insert = "\n" + newIndent + "\n" + indent
			cursor = selStart + 1 + len(newIndent)
		} else {
			insert = "\n" + newIndent
		}
	case trimmed == "" && indent != "":
		insert = "\n" + dedent(indent)
	default:
		insert = "\n" + indent
	}

	if cursor < 0 {
		cursor = selStart + len(insert)
	}
	return Edit{
		Text:   text[:selStart] + insert + text[selEnd:],
		Cursor: cursor,
	}
}

// Tab replaces the selection with two spaces.
func Tab(text string, selStart, selEnd int) Edit {
	selStart, selEnd = clampSelection(text, selStart, selEnd)
	return Edit{
		Text:   text[:selStart] + IndentUnit + text[selEnd:],
		Cursor: selStart + len(IndentUnit),
	}
}

// Insert replaces the selection with s.
func Insert(text string, selStart, selEnd int, s string) Edit {
	selStart, selEnd = clampSelection(text, selStart, selEnd)
	return Edit{
		Text:   text[:selStart] + s + text[selEnd:],
		Cursor: selStart + len(s),
	}
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// dedent drops one indentation unit's worth of characters.
func dedent(indent string) string {
	if len(indent) <= len(IndentUnit) {
		return ""
	}
	return indent[:len(indent)-len(IndentUnit)]
}

func clampSelection(text string, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > len(text) {
		start = len(text)
	}
	if end < start {
		end = start
	}
	return start, end
}
