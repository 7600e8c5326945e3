package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/TimelordUK/mfold/internal/source"
)

// SyntaxRenderer applies syntax highlighting based on file type.
// Lines are highlighted one at a time, so multi-line constructs such as
// block comments are only approximated.
type SyntaxRenderer struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewSyntaxRenderer creates a renderer for filename using the named chroma
// style. Unknown styles fall back to chroma's default.
func NewSyntaxRenderer(filename, theme string) *SyntaxRenderer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	return &SyntaxRenderer{
		lexer:     chroma.Coalesce(lexer),
		style:     styles.Get(theme),
		formatter: formatters.Get("terminal16m"),
	}
}

// Highlightable reports whether chroma knows a lexer for filename
func Highlightable(filename string) bool {
	return lexers.Match(filename) != nil
}

// Render applies syntax highlighting to a line
func (r *SyntaxRenderer) Render(line *source.Line) string {
	content := string(line.Content)
	if content == "" {
		return ""
	}

	iterator, err := r.lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return content
	}

	// The formatter may emit a trailing newline
	return strings.NewReplacer("\n", "", "\r", "").Replace(buf.String())
}
