package highlight

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/codetutor/codetutor/internal/lang"
)

func TestTokenizePythonCommentThenCall(t *testing.T) {
	got := Tokenize("# a\nprint(1)", lang.Python)
	want := []Token{
		{ClassComment, "# a"},
		{ClassNone, "\n"},
		{ClassKeyword, "print"},
		{ClassPunctuation, "("},
		{ClassNumber, "1"},
		{ClassPunctuation, ")"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTokenizeFirstPatternWins(t *testing.T) {
	// A quote inside a comment belongs to the comment.
	got := Tokenize(`# it's "fine"`, lang.Python)
	if len(got) != 1 || got[0].Class != ClassComment {
		t.Fatalf("expected a single comment token, got %+v", got)
	}
}

func TestTokenizeCppScope(t *testing.T) {
	got := Tokenize("std::cout", lang.CPP)
	want := []Token{
		{ClassKeyword, "std"},
		{ClassOperator, "::"},
		{ClassKeyword, "cout"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTokenizeJavaScriptStrings(t *testing.T) {
	code := "let s = `a\\`b`;"
	got := Tokenize(code, lang.JavaScript)

	var found bool
	for _, tok := range got {
		if tok.Class == ClassString {
			found = true
			if tok.Text != "`a\\`b`" {
				t.Errorf("template string = %q", tok.Text)
			}
		}
	}
	if !found {
		t.Fatalf("no string token in %+v", got)
	}
}

func TestTokenizeRoundTrips(t *testing.T) {
	samples := map[lang.Language]string{
		lang.Python:     "def f(x):\n    return x * 2  # double\n",
		lang.JavaScript: "/* c */ const a = [1, 2.5];\nconsole.log(a?.length);",
		lang.Java:       "public class Main { int x = 42; }",
		lang.CPP:        "#include <iostream>\nint main() { std::cout << \"hi\"; }",
		lang.C:          "int main(void) { printf(\"%d\\n\", 1 + 2); }",
	}

	for l, code := range samples {
		var b strings.Builder
		for _, tok := range Tokenize(code, l) {
			b.WriteString(tok.Text)
		}
		if b.String() != code {
			t.Errorf("%s: tokens reassemble to %q, want %q", l, b.String(), code)
		}
	}
}

func TestTokenizeMultibyteRoundTrips(t *testing.T) {
	code := "s = 'héllo 🌍'  # ünïcode\nprint(s)\xff\n"
	var b strings.Builder
	for _, tok := range Tokenize(code, lang.Python) {
		b.WriteString(tok.Text)
	}
	if b.String() != code {
		t.Errorf("tokens reassemble to %q, want %q", b.String(), code)
	}
}

func pythonFile(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("def area(w, h):  # rectangle\n    return w * h + 3.5 if w > 0 else \"none\"\n")
	}
	return b.String()
}

func fastest(runs int, f func()) time.Duration {
	best := time.Duration(math.MaxInt64)
	for i := 0; i < runs; i++ {
		start := time.Now()
		f()
		if d := time.Since(start); d < best {
			best = d
		}
	}
	return best
}

func TestTokenizeScalesLinearly(t *testing.T) {
	small, large := pythonFile(100), pythonFile(800)
	ts := fastest(3, func() { Tokenize(small, lang.Python) })
	tl := fastest(3, func() { Tokenize(large, lang.Python) })

	// 8x the input; quadratic work would be about 64x slower.
	if tl > 24*ts+20*time.Millisecond {
		t.Errorf("tokenizing 800 lines took %v, 100 lines took %v", tl, ts)
	}
}

func BenchmarkTokenize(b *testing.B) {
	code := pythonFile(400)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(code, lang.Python)
	}
}

func TestTokenizeUnknownLanguagePassesThrough(t *testing.T) {
	got := Tokenize("fn main() {}", lang.Language("Rust"))
	if len(got) != 1 || got[0].Class != ClassNone {
		t.Fatalf("expected one passthrough token, got %+v", got)
	}
}

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		code string
		l    lang.Language
		want string
	}{
		{"empty", "", lang.Python, ""},
		{
			"escapes operators",
			"a < b && c",
			lang.Python,
			`a <span class="token-operator">&lt;</span> b <span class="token-operator">&amp;&amp;</span> c`,
		},
		{
			"trailing newline kept",
			"x\n",
			lang.Python,
			"x\n\n",
		},
		{
			"comment",
			"# <b>",
			lang.Python,
			`<span class="token-comment"># &lt;b&gt;</span>`,
		},
		{
			"unknown language escapes raw",
			"a<b",
			lang.Language("Rust"),
			"a&lt;b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.code, tt.l); got != tt.want {
				t.Errorf("HTML(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestSanitizeKeepsTokenSpans(t *testing.T) {
	got := Sanitize(HTML("x = 1", lang.Python))
	if !strings.Contains(got, `<span class="token-number">1</span>`) {
		t.Errorf("sanitized markup lost token span: %q", got)
	}

	dirty := Sanitize(`<script>alert(1)</script><span class="evil" onclick="x()">y</span>`)
	if strings.Contains(dirty, "<script") || strings.Contains(dirty, "evil") || strings.Contains(dirty, "onclick") {
		t.Errorf("sanitize kept unsafe markup: %q", dirty)
	}
}

func TestLines(t *testing.T) {
	lines := Lines(Tokenize("a\n\n'x\ny'", lang.Python))
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %+v", len(lines), lines)
	}
	if len(lines[1]) != 0 {
		t.Errorf("line 2 should be empty, got %+v", lines[1])
	}
	// The multi-line string is split across lines but keeps its class.
	if lines[2][0].Class != ClassString || lines[3][0].Class != ClassString {
		t.Errorf("string token should span lines 3 and 4: %+v %+v", lines[2], lines[3])
	}
}

func TestTerminalLineCount(t *testing.T) {
	p := NewPalette("monokai")
	out := Terminal("a\nb\nc", lang.Python, p)
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("expected 2 newlines in rendered output, got %d", n)
	}
}

func TestNewPaletteUnknownStyle(t *testing.T) {
	p := NewPalette("no-such-style")
	_ = p.Style(ClassKeyword).Render("x")
}
