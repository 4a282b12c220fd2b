package highlight

import (
	"github.com/dlclark/regexp2"

	"github.com/codetutor/codetutor/internal/lang"
)

// matcher pairs a token class with the pattern that recognizes it at the
// start of the unconsumed input.
type matcher struct {
	class   Class
	pattern *regexp2.Regexp
}

const (
	blockOrLineComment = `^\/\*[\s\S]*?\*\/|^\/\/.*`
	doubleQuoted       = `^"(?:\\"|[^"])*"`
	number             = `^\b\d+(\.\d+)?\b`
	cOperator          = `^[+\-*/%=&|<>!^~?:]+`
	cPunctuation       = `^[{}()[\].,;]`
)

// patterns holds the ordered matchers per language. Order is significant:
// the first pattern that matches wins.
var patterns = map[lang.Language][]matcher{
	lang.Python: compile(
		ClassComment, `^#.*`,
		ClassString, `^(?:'''[\s\S]*?'''|"""[\s\S]*?"""|'[^']*'|"[^"]*")`,
		ClassKeyword, `^\b(def|class|if|else|elif|for|while|return|import|from|in|and|or|not|is|True|False|None|try|except|finally|with|as|lambda|pass|break|continue|global|nonlocal|yield|assert|del|async|await|print)\b`,
		ClassNumber, number,
		ClassOperator, `^[+\-*/%=&|<>!^~]+`,
		ClassPunctuation, `^[{}()[\].,;:]`,
	),
	lang.JavaScript: compile(
		ClassComment, blockOrLineComment,
		ClassString, "^`(?:\\\\`|[^`])*`|^'(?:\\\\'|[^'])*'|^\"(?:\\\\\"|[^\"])*\"",
		ClassKeyword, `^\b(function|class|if|else|for|while|return|import|from|const|let|var|new|true|false|null|undefined|async|await|try|catch|finally|switch|case|break|continue|do|export|default|of|in|instanceof|typeof|yield|delete|void|with|this|super|get|set|debugger)\b`,
		ClassNumber, number,
		ClassOperator, cOperator,
		ClassPunctuation, cPunctuation,
	),
	lang.Java: compile(
		ClassComment, blockOrLineComment,
		ClassString, doubleQuoted,
		ClassKeyword, `^\b(public|private|protected|static|final|void|int|double|char|boolean|String|class|interface|enum|if|else|for|while|return|import|package|new|true|false|null|try|catch|finally|switch|case|break|continue|do|this|super|extends|implements|throws|throw|instanceof|synchronized)\b`,
		ClassNumber, number,
		ClassOperator, cOperator,
		ClassPunctuation, cPunctuation,
	),
	lang.CPP: compile(
		ClassComment, blockOrLineComment,
		ClassString, doubleQuoted,
		ClassKeyword, `^\b(int|double|char|bool|string|void|if|else|for|while|return|#include|using|namespace|std|cout|cin|class|struct|enum|public|private|protected|virtual|const|static|new|delete|true|false|nullptr|try|catch|throw|template|typename)\b`,
		ClassNumber, number,
		ClassOperator, `^(?:[+\-*/%=&|<>!^~?:]+|::)`,
		ClassPunctuation, cPunctuation,
	),
	lang.C: compile(
		ClassComment, blockOrLineComment,
		ClassString, doubleQuoted,
		ClassKeyword, `^\b(int|float|double|char|void|if|else|for|while|return|#include|#define|struct|enum|typedef|sizeof|const|static|extern|volatile|break|continue|switch|case|default|goto|long|short|signed|unsigned|union)\b`,
		ClassNumber, number,
		ClassOperator, cOperator,
		ClassPunctuation, cPunctuation,
	),
}

// compile builds a matcher list from alternating class/pattern pairs. Each
// pattern is wrapped in a top-level ^ so regexp2 gives up after the first
// position instead of scanning the rest of the input.
func compile(pairs ...any) []matcher {
	out := make([]matcher, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, matcher{
			class:   pairs[i].(Class),
			pattern: regexp2.MustCompile(`^(?:`+pairs[i+1].(string)+`)`, regexp2.ECMAScript),
		})
	}
	return out
}
