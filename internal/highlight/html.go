package highlight

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/codetutor/codetutor/internal/lang"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the three characters that matter inside a <code>
// element. Quotes are left alone.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTML renders code as escaped markup where every recognized token is
// wrapped in <span class="token-CLASS">. A trailing newline in the input
// yields an extra trailing newline so a <pre> block keeps its last line.
func HTML(code string, l lang.Language) string {
	if code == "" {
		return ""
	}
	var b strings.Builder
	for _, tok := range Tokenize(code, l) {
		if tok.Class == ClassNone {
			b.WriteString(EscapeHTML(tok.Text))
			continue
		}
		fmt.Fprintf(&b, `<span class="token-%s">%s</span>`, tok.Class, EscapeHTML(tok.Text))
	}
	if strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}

var markupPolicy = newMarkupPolicy()

func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^token-[a-z]+$`)).OnElements("span")
	return p
}

// Sanitize strips anything from highlighted markup that is not a token
// span. Markup produced by HTML passes through with its text intact.
func Sanitize(markup string) string {
	return markupPolicy.Sanitize(markup)
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { background: #0f172a; color: #f8fafc; font-family: ui-monospace, monospace; }
pre { padding: 1rem; }
.token-comment { color: #94a3b8; font-style: italic; }
.token-string { color: #22c55e; }
.token-keyword { color: #8b5cf6; font-weight: bold; }
.token-number { color: #f97316; }
.token-operator { color: #14b8a6; }
.token-punctuation { color: #cbd5e1; }
</style>
</head>
<body>
<pre><code class="language-%s">%s</code></pre>
</body>
</html>
`

// Document wraps highlighted code in a standalone HTML page.
func Document(title, code string, l lang.Language) string {
	return fmt.Sprintf(documentTemplate, EscapeHTML(title), l.Fence(), Sanitize(HTML(code, l)))
}
