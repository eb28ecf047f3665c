package layout

import (
	"image/color"

	"hyperflow/pkg/dom"
)

// TableBox lays out rows of cells, each cell being its own Area.
type TableBox struct {
	Node        *dom.Node
	Border      int
	Padding     int
	Spacing     int
	Width       int
	Percent     bool
	Background  *color.RGBA
	BorderColor color.RGBA

	Rows []*TableRow

	colWidths []int
	width     int
	height    int
}

type TableRow struct {
	Cells []*TableCell
}

// TableCell positions are relative to the table after formatting.
type TableCell struct {
	Node       *dom.Node
	Area       *Area
	VAlign     VAlign
	Background *color.RGBA

	x, y, w, h int
}

func NewTableBox(n *dom.Node) *TableBox {
	return &TableBox{Node: n, Spacing: 2, Padding: 1}
}

func (*TableBox) Kind() Kind { return KindTable }
func (*TableBox) isBox()     {}

func (t *TableBox) AddRow() *TableRow {
	r := &TableRow{}
	t.Rows = append(t.Rows, r)
	return r
}

// CurrentRow returns the last row, adding one if the table has none.
func (t *TableBox) CurrentRow() *TableRow {
	if len(t.Rows) == 0 {
		return t.AddRow()
	}
	return t.Rows[len(t.Rows)-1]
}

func (r *TableRow) AddCell(n *dom.Node) *TableCell {
	c := &TableCell{Node: n, Area: NewArea(), VAlign: AlignMiddle}
	r.Cells = append(r.Cells, c)
	return c
}

// ColumnWidths reports the inner widths chosen by the last format.
func (t *TableBox) ColumnWidths() []int { return t.colWidths }

func (t *TableBox) Size() (w, h int) { return t.width, t.height }

// Bounds reports the cell rectangle relative to the table.
func (c *TableCell) Bounds() (x, y, w, h int) { return c.x, c.y, c.w, c.h }

func (t *TableBox) columns() int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

func (t *TableBox) cellBorder() int {
	if t.Border > 0 {
		return 1
	}
	return 0
}

// unwrapped is the width cells are formatted at to measure their content.
const unwrapped = 1 << 20

// format sizes columns from the natural width of their content, scaling
// them down proportionally when they do not fit in avail.
func (t *TableBox) format(ctx *Context, avail int) {
	ncols := t.columns()
	t.colWidths = t.colWidths[:0]
	if ncols == 0 {
		t.width, t.height = 2*t.Border, 2*t.Border
		return
	}
	cb := t.cellBorder()
	overhead := 2*t.Border + t.Spacing*(ncols+1) + ncols*2*(t.Padding+cb)

	target := avail
	explicit := t.Width > 0
	if explicit {
		if t.Percent {
			target = avail * t.Width / 100
		} else {
			target = min(t.Width, avail)
		}
	}
	space := max(target-overhead, ncols)

	// Natural widths come from unwrapped content, capped at the space
	// a single column could ever get.
	natural := make([]int, ncols)
	for _, r := range t.Rows {
		for i, c := range r.Cells {
			c.Area.Format(ctx, unwrapped)
			if w := min(c.Area.ContentWidth(), space); w > natural[i] {
				natural[i] = w
			}
		}
	}
	sum := 0
	for _, w := range natural {
		sum += w
	}

	t.colWidths = append(t.colWidths, natural...)
	if explicit || sum > space {
		t.scaleColumns(natural, sum, space)
	}

	y := t.Border + t.Spacing
	for _, r := range t.Rows {
		x := t.Border + t.Spacing
		rowH := 0
		for i, c := range r.Cells {
			c.Area.Format(ctx, t.colWidths[i])
			c.x, c.y = x, y
			c.w = t.colWidths[i] + 2*(t.Padding+cb)
			x += c.w + t.Spacing
			if h := c.Area.FormattedHeight() + 2*(t.Padding+cb); h > rowH {
				rowH = h
			}
		}
		for _, c := range r.Cells {
			c.h = rowH
		}
		y += rowH + t.Spacing
	}

	t.width = overhead
	for _, w := range t.colWidths {
		t.width += w
	}
	t.height = y + t.Border
}

func (t *TableBox) scaleColumns(natural []int, sum, space int) {
	n := len(natural)
	used := 0
	for i := range t.colWidths {
		if sum == 0 {
			t.colWidths[i] = space / n
		} else {
			t.colWidths[i] = natural[i] * space / sum
		}
		if t.colWidths[i] < 1 {
			t.colWidths[i] = 1
		}
		used += t.colWidths[i]
	}
	if rest := space - used; rest > 0 {
		t.colWidths[n-1] += rest
	}
}

func (t *TableBox) draw(ctx *DrawContext, r Region) {
	visible := ctx.visible(r)
	if visible {
		if t.Background != nil {
			ctx.Sink.FillRect(r.X, r.Y, t.width, t.height, *t.Background)
		}
		for i := 0; i < t.Border; i++ {
			ctx.Sink.DrawRect(r.X+i, r.Y+i, t.width-2*i, t.height-2*i, t.BorderColor)
		}
	}
	cb := t.cellBorder()
	for _, row := range t.Rows {
		for _, c := range row.Cells {
			cx, cy := r.X+c.x, r.Y+c.y
			cellRegion := Region{X: cx, Y: cy, Width: c.w, Ascent: c.h}
			if ctx.visible(cellRegion) {
				if c.Background != nil {
					ctx.Sink.FillRect(cx, cy, c.w, c.h, *c.Background)
				}
				if cb > 0 {
					ctx.Sink.DrawRect(cx, cy, c.w, c.h, t.BorderColor)
				}
			}
			inner := c.h - 2*(t.Padding+cb)
			off := 0
			switch c.VAlign {
			case AlignMiddle:
				off = (inner - c.Area.FormattedHeight()) / 2
			case AlignBottom:
				off = inner - c.Area.FormattedHeight()
			}
			c.Area.Draw(ctx, cx+cb+t.Padding, cy+cb+t.Padding+off)
		}
	}
}
