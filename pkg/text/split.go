package text

import (
	"strings"
	"unicode"
)

// Token is one inline unit of text: a word, an explicit space, a whole
// verbatim block, or a line. BreakAfter forces a line break after it.
type Token struct {
	Text       string
	BreakAfter bool
}

// IsSpace reports whether the token is the collapsed single space emitted
// between words in normal mode.
func (t Token) IsSpace() bool {
	return t.Text == " " && !t.BreakAfter
}

// Split segments s into tokens according to ws. It does not measure
// anything; wrapping decisions are left to the layout.
func Split(s string, ws WhiteSpace) []Token {
	if s == "" {
		return nil
	}
	switch {
	case !ws.KeepNewline() && ws.Wraps():
		return splitWords(s)
	case ws.KeepNewline() && !ws.Wraps():
		return []Token{{Text: s}}
	default:
		return splitLines(s, ws.KeepSpace())
	}
}

func splitWords(s string) []Token {
	var tokens []Token
	i := 0
	for i < len(s) {
		r := rune(s[i])
		if isSpace(r) {
			for i < len(s) && isSpace(rune(s[i])) {
				i++
			}
			tokens = append(tokens, Token{Text: " "})
			continue
		}
		j := i
		for j < len(s) && !isSpace(rune(s[j])) {
			j++
		}
		tokens = append(tokens, Token{Text: s[i:j]})
		i = j
	}
	return tokens
}

func splitLines(s string, keepSpace bool) []Token {
	var tokens []Token
	i := 0
	for i < len(s) {
		if s[i] == '\n' {
			tokens = append(tokens, Token{BreakAfter: true})
			i++
			continue
		}
		rest := s[i:]
		end := strings.IndexByte(rest, '\n')
		brk := end >= 0
		if !brk {
			end = len(rest)
		}
		line := rest[:end]
		i += end
		if brk {
			i++
		}
		if !keepSpace {
			line = collapseSpaces(line)
		}
		tokens = append(tokens, Token{Text: line, BreakAfter: brk})
	}
	return tokens
}

// collapseSpaces replaces every run of intraline whitespace with one space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		if isSpace(rune(s[i])) {
			if !inRun {
				b.WriteByte(' ')
			}
			inRun = true
			continue
		}
		inRun = false
		b.WriteByte(s[i])
	}
	return b.String()
}

// Lines splits a verbatim token on its embedded newlines.
func Lines(s string) []string {
	return strings.Split(s, "\n")
}

func isSpace(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsSpace(r)
}
