// Package highlight is a small pattern-based tokenizer for the tutor's
// languages. It is best-effort: tokens are recognized greedily from the
// left with no lexical state carried between them.
package highlight

import (
	"strings"
	"unicode/utf8"

	"github.com/codetutor/codetutor/internal/lang"
)

// Class is the token category a span of source belongs to.
type Class string

const (
	ClassNone        Class = ""
	ClassComment     Class = "comment"
	ClassString      Class = "string"
	ClassKeyword     Class = "keyword"
	ClassNumber      Class = "number"
	ClassOperator    Class = "operator"
	ClassPunctuation Class = "punctuation"
)

// Token is one recognized span. Unrecognized characters are emitted one
// at a time with ClassNone.
type Token struct {
	Class Class
	Text  string
}

// Tokenize splits code into tokens for the given language. At every
// position the language's patterns are tried in order against the rest of
// the input and the first match becomes a token. When nothing matches, a
// single character passes through unclassified. Concatenating the Text of
// every returned token always yields code.
func Tokenize(code string, l lang.Language) []Token {
	if code == "" {
		return nil
	}
	matchers := patterns[l]

	// Patterns run over one rune slice; offsets maps rune positions back
	// to byte positions in code so token text is always sliced from code.
	runes := []rune(code)
	offsets := make([]int, 0, len(runes)+1)
	for i := 0; i < len(code); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(code[i:])
		i += size
	}
	offsets = append(offsets, len(code))

	var tokens []Token
	for pos := 0; pos < len(runes); {
		if class, n, ok := matchAt(runes[pos:], matchers); ok {
			tokens = appendToken(tokens, Token{Class: class, Text: code[offsets[pos]:offsets[pos+n]]})
			pos += n
			continue
		}
		tokens = appendToken(tokens, Token{Class: ClassNone, Text: code[offsets[pos]:offsets[pos+1]]})
		pos++
	}
	return tokens
}

// matchAt returns the class and rune length of the first pattern that
// matches at the start of rest.
func matchAt(rest []rune, matchers []matcher) (Class, int, bool) {
	for _, m := range matchers {
		match, err := m.pattern.FindRunesMatch(rest)
		// An empty match would never advance.
		if err != nil || match == nil || match.Index != 0 || match.Length == 0 {
			continue
		}
		return m.class, match.Length, true
	}
	return ClassNone, 0, false
}

// appendToken adds tok, folding consecutive passthrough characters into one
// token so renderers see whole runs of plain text.
func appendToken(tokens []Token, tok Token) []Token {
	if tok.Class == ClassNone && len(tokens) > 0 && tokens[len(tokens)-1].Class == ClassNone {
		tokens[len(tokens)-1].Text += tok.Text
		return tokens
	}
	return append(tokens, tok)
}

// Lines regroups tokens into per-line slices, splitting any token that
// spans a newline. The newline characters themselves are dropped, so a
// text with n newlines always produces n+1 lines.
func Lines(tokens []Token) [][]Token {
	lines := [][]Token{nil}
	for _, tok := range tokens {
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				cur := len(lines) - 1
				lines[cur] = append(lines[cur], Token{Class: tok.Class, Text: part})
			}
		}
	}
	return lines
}
