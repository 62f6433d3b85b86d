package detail

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gotermdiff/internal/theme"
)

// Highlighter colors change scripts with chroma tokens mapped onto the
// theme's SQL styles.
type Highlighter struct {
	lexer chroma.Lexer
}

// NewHighlighter prefers the T-SQL lexer, since comparison scripts come from
// SQL Server, and falls back to generic SQL.
func NewHighlighter() *Highlighter {
	var l chroma.Lexer
	for _, name := range []string{"tsql", "sql"} {
		if l = lexers.Get(name); l != nil {
			break
		}
	}
	if l == nil {
		l = lexers.Fallback
	}
	return &Highlighter{lexer: chroma.Coalesce(l)}
}

// Highlight returns script with every recognised token styled. Newlines are
// emitted unstyled so line counts stay the same.
func (h *Highlighter) Highlight(script string, th *theme.Theme) string {
	if th == nil || script == "" {
		return script
	}

	iter, err := h.lexer.Tokenise(nil, script)
	if err != nil {
		return script
	}

	var b strings.Builder
	b.Grow(len(script) * 2)
	for _, tok := range iter.Tokens() {
		if tok.Value == "" {
			continue
		}
		style, ok := tokenStyle(tok.Type, th)
		if !ok {
			b.WriteString(tok.Value)
			continue
		}
		for i, seg := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if seg != "" {
				b.WriteString(style.Render(seg))
			}
		}
	}
	return b.String()
}

func tokenStyle(tt chroma.TokenType, th *theme.Theme) (lipgloss.Style, bool) {
	switch {
	// KeywordType sits inside the keyword category; give types their own color.
	case tt == chroma.KeywordType || tt == chroma.NameBuiltin:
		return th.SQLType, true
	case tt == chroma.NameFunction:
		return th.SQLFunction, true
	case tt.InCategory(chroma.Keyword):
		return th.SQLKeyword, true
	case tt.InSubCategory(chroma.LiteralString):
		return th.SQLString, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return th.SQLNumber, true
	case tt.InCategory(chroma.Comment):
		return th.SQLComment, true
	case tt.InCategory(chroma.Operator):
		return th.SQLOperator, true
	case tt == chroma.NameVariable || tt == chroma.Name:
		return th.SQLIdentifier, true
	default:
		return lipgloss.Style{}, false
	}
}
