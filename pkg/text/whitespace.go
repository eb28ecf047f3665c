package text

import "strings"

// WhiteSpace selects how runs of spaces and newlines in text content are handled.
type WhiteSpace int

const (
	Normal WhiteSpace = iota
	NoWrap
	Pre
	PreWrap
	PreLine
)

var whiteSpaceNames = [...]string{
	Normal:  "normal",
	NoWrap:  "nowrap",
	Pre:     "pre",
	PreWrap: "pre-wrap",
	PreLine: "pre-line",
}

func (ws WhiteSpace) String() string {
	if ws < 0 || int(ws) >= len(whiteSpaceNames) {
		return "normal"
	}
	return whiteSpaceNames[ws]
}

// KeepNewline reports whether newlines in the source end a line.
func (ws WhiteSpace) KeepNewline() bool {
	return ws == Pre || ws == PreWrap || ws == PreLine
}

// KeepSpace reports whether runs of spaces and tabs are preserved verbatim.
func (ws WhiteSpace) KeepSpace() bool {
	return ws == Pre || ws == PreWrap
}

// Wraps reports whether the layout may break lines between tokens.
func (ws WhiteSpace) Wraps() bool {
	return ws != NoWrap && ws != Pre
}

// ParseWhiteSpace maps a CSS white-space keyword to a mode.
func ParseWhiteSpace(s string) (WhiteSpace, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range whiteSpaceNames {
		if name == s {
			return WhiteSpace(i), true
		}
	}
	return Normal, false
}
