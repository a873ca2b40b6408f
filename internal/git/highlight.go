package git

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex color, empty for default
}

// HighlightedLine is one rendered diff line: the diff op plus the
// highlighted content with the op marker stripped.
type HighlightedLine struct {
	Op     byte // '+', '-', ' ' or '@' for hunk headers
	Tokens []Token
}

// Plain returns the concatenated text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// HighlightPatch syntax-highlights a unified diff body for the preview
// pane. Hunk headers pass through as single tokens; content lines are
// tokenised together so multi-line constructs keep their colors.
func HighlightPatch(path, patch string) []HighlightedLine {
	raw := strings.Split(strings.TrimSuffix(patch, "\n"), "\n")
	ops := make([]byte, len(raw))
	content := make([]string, len(raw))
	for i, l := range raw {
		switch {
		case strings.HasPrefix(l, "@@"):
			ops[i] = '@'
			content[i] = l
		case strings.HasPrefix(l, "+"):
			ops[i] = '+'
			content[i] = l[1:]
		case strings.HasPrefix(l, "-"):
			ops[i] = '-'
			content[i] = l[1:]
		default:
			ops[i] = ' '
			content[i] = strings.TrimPrefix(l, " ")
		}
	}

	lines := highlightLines(path, content)
	for i := range lines {
		if i < len(ops) {
			lines[i].Op = ops[i]
			if ops[i] == '@' {
				// Headers keep their own styling in the TUI.
				lines[i].Tokens = []Token{{Text: content[i]}}
			}
		}
	}
	return lines
}

// highlightLines tokenises source lines for a filename, one result line
// per input line.
func highlightLines(filename string, lines []string) []HighlightedLine {
	lexer := lexerForFile(filename)
	if lexer == nil {
		return plainLines(lines)
	}

	source := strings.Join(lines, "\n")
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}

	for _, token := range iterator.Tokens() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	for len(result) < len(lines) {
		result = append(result, HighlightedLine{Tokens: []Token{{Text: ""}}})
	}
	return result[:len(lines)]
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
