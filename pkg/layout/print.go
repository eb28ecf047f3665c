package layout

import (
	"fmt"
	"io"
	"strings"
)

// Visitor is called for every element of a layout tree in order.
type Visitor interface {
	VisitArea(a *Area, depth int)
	VisitCell(c *Cell, depth int)
	VisitSubCell(s *SubCell, depth int)
	VisitBox(b Box, depth int)
}

// Walk visits a and everything nested in it, including table cells.
func Walk(a *Area, v Visitor) {
	walkArea(a, v, 0)
}

func walkArea(a *Area, v Visitor, depth int) {
	v.VisitArea(a, depth)
	for _, c := range a.cells {
		v.VisitCell(c, depth+1)
		for _, s := range c.subCells {
			v.VisitSubCell(s, depth+2)
			for _, b := range s.boxes {
				v.VisitBox(b, depth+3)
				switch b := b.(type) {
				case *Area:
					walkArea(b, v, depth+4)
				case *TableBox:
					for _, r := range b.Rows {
						for _, tc := range r.Cells {
							walkArea(tc.Area, v, depth+4)
						}
					}
				}
			}
		}
	}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
}

func (p *printer) VisitArea(a *Area, depth int) {
	p.printf(depth, "area %dx%d indent=%d/%d", a.fmtWidth, a.fmtHeight, a.IndentLeft, a.IndentRight)
}

func (p *printer) VisitCell(c *Cell, depth int) {
	p.printf(depth, "cell %s at %d,%d width=%d height=%d lines=%d", c.Placement, c.x, c.y, c.width, c.height, len(c.lines))
}

func (p *printer) VisitSubCell(s *SubCell, depth int) {
	p.printf(depth, "subcell %s breakup=%t width=%d ascent=%d descent=%d", s.Placement, s.Breakup, s.width, s.ascent, s.descent)
}

func (p *printer) VisitBox(b Box, depth int) {
	switch b := b.(type) {
	case *TextBox:
		if b.BreakOnly {
			p.printf(depth, "break")
			return
		}
		p.printf(depth, "text %q words=%d", b.Text, len(b.words))
	case *ImageBox:
		w, h := b.size()
		p.printf(depth, "image %dx%d", w, h)
	case *CanvasBox:
		p.printf(depth, "canvas %dx%d", b.Width, b.Height)
	case *RuleBox:
		p.printf(depth, "rule width=%d size=%d", b.drawWidth, b.thickness())
	case *LabelBox:
		p.printf(depth, "label %q width=%d", b.Text, b.width())
	case *SymbolBox:
		p.printf(depth, "symbol %s", b.Type)
	case *TableBox:
		p.printf(depth, "table %dx%d rows=%d columns=%v", b.width, b.height, len(b.Rows), b.colWidths)
	case *Area:
		p.printf(depth, "nested area")
	}
}

// Print writes an indented dump of the layout tree.
func Print(w io.Writer, a *Area) error {
	p := &printer{w: w}
	Walk(a, p)
	return p.err
}
