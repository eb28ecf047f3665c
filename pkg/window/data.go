package window

import (
	"image/color"

	"hyperflow/pkg/layout"
)

// TextData carries per-run overrides for AddText. Nil fields inherit.
type TextData struct {
	Color     *color.RGBA
	Underline *bool
	// KeepTogether places the text in its own breakup sub-cell so it is
	// never split across lines.
	KeepTogether bool
}

type ImageData struct {
	ID     string
	Src    string
	Alt    string
	Width  int
	Height int
	Align  layout.VAlign
	Border int
	HSpace int
	VSpace int
}

type CanvasData struct {
	ID     string
	Width  int
	Height int
}

// RuleData mirrors the attributes of a horizontal rule. Width below zero
// spans the line.
type RuleData struct {
	Align   layout.HAlign
	NoShade bool
	Size    int
	Width   int
	Percent bool
}

type LinkData struct {
	ID     string
	Href   string
	Name   string
	Title  string
	Target string
}

// TableData describes a table. Padding and Spacing below zero keep the
// layout defaults.
type TableData struct {
	ID         string
	Border     int
	Padding    int
	Spacing    int
	Width      int
	Percent    bool
	Background *color.RGBA
}

// CellData describes a table cell. A nil VAlign centers the content
// vertically.
type CellData struct {
	Header     bool
	Align      layout.HAlign
	VAlign     *layout.VAlign
	Background *color.RGBA
}
