package layout

import (
	"github.com/charmbracelet/log"

	"hyperflow/pkg/text"
)

// Context carries what formatting needs besides the tree itself.
type Context struct {
	Logger *log.Logger
}

func (ctx *Context) logger() *log.Logger {
	if ctx == nil || ctx.Logger == nil {
		return log.Default()
	}
	return ctx.Logger
}

// piece is one placeable item: a word of a text box or a whole box.
type piece struct {
	box     Box
	word    int
	width   int
	ascent  int
	descent int
	space   bool
	brk     bool
	block   bool
	top     bool
	nowrap  bool

	x int
}

// line is one formatted line of a cell; y is relative to the cell.
type line struct {
	y       int
	ascent  int
	descent int
	width   int
	pieces  []piece
}

// Format lays the area out for the given available width. Every position
// is recomputed from scratch, so formatting an unchanged tree twice gives
// identical results.
func (a *Area) Format(ctx *Context, avail int) {
	w := avail
	if a.Width > 0 {
		w = a.Width
	}
	if w < 1 {
		w = 1
	}
	a.fmtWidth = w
	a.contentWidth = 0

	rowY, rowH, x := 0, 0, 0
	for i, c := range a.cells {
		if i == 0 || c.Placement == Below {
			rowY += rowH
			rowH = 0
			x = c.IndentLeft
		}
		cw := w - x - c.IndentRight
		if cw < 1 {
			cw = 1
		}
		c.format(ctx, cw)
		c.x, c.y = x, rowY
		x += c.width
		if c.height > rowH {
			rowH = c.height
		}
		if right := c.x + c.width + c.IndentRight; right > a.contentWidth {
			a.contentWidth = right
		}
	}
	a.fmtHeight = rowY + rowH
	if a.Height > a.fmtHeight {
		a.fmtHeight = a.Height
	}
}

type flow struct {
	avail    int
	align    HAlign
	y        int
	maxWidth int
	cur      []piece
	curW     int
	lines    []line

	// lineSub is the width each sub-cell has taken on the current line.
	lineSub map[*SubCell]int
}

func (c *Cell) format(ctx *Context, avail int) {
	c.width, c.ascent, c.descent = 0, 0, 0
	f := &flow{avail: avail, align: c.HAlign, lineSub: make(map[*SubCell]int)}
	for i, s := range c.subCells {
		s.resetExtents()
		if i > 0 && s.Placement == Below {
			f.endLine()
		}
		ps := pieces(ctx, s.boxes, avail)
		if s.Breakup {
			f.addUnit(s, ps)
			continue
		}
		for _, p := range ps {
			f.addUnit(s, []piece{p})
		}
	}
	f.endLine()
	c.lines = f.lines
	c.height = f.y
	c.width = f.maxWidth
}

func (f *flow) lastIsSpace() bool {
	return len(f.cur) > 0 && f.cur[len(f.cur)-1].space
}

func (f *flow) addUnit(s *SubCell, ps []piece) {
	if len(ps) == 0 {
		return
	}
	if len(ps) == 1 && ps[0].block {
		f.endLine()
		f.place(s, ps)
		f.endLine()
		return
	}
	space := len(ps) == 1 && ps[0].space
	if space && (len(f.cur) == 0 || f.lastIsSpace()) {
		return
	}
	w := 0
	for _, p := range ps {
		w += p.width
	}
	if len(f.cur) > 0 && f.curW+w > f.avail && !f.glued(ps[0]) {
		f.endLine()
		if space {
			return
		}
	}
	f.place(s, ps)
	if ps[len(ps)-1].brk {
		f.endLine()
	}
}

// glued reports whether p must stay on the current line: no-wrap text
// offers no break opportunity against the no-wrap text before it.
func (f *flow) glued(p piece) bool {
	return p.nowrap && len(f.cur) > 0 && f.cur[len(f.cur)-1].nowrap
}

func (f *flow) place(s *SubCell, ps []piece) {
	for _, p := range ps {
		p.x = f.curW
		f.curW += p.width
		f.cur = append(f.cur, p)
		f.lineSub[s] += p.width
		s.fitWidth(f.lineSub[s])
		s.UpdateHeight(p.ascent, p.descent)
	}
}

func (f *flow) endLine() {
	if len(f.cur) == 0 {
		return
	}
	l := line{y: f.y, pieces: f.cur}
	for _, p := range f.cur {
		if p.top {
			continue
		}
		if p.ascent > l.ascent {
			l.ascent = p.ascent
		}
		if p.descent > l.descent {
			l.descent = p.descent
		}
	}
	// Top aligned pieces hang from the line top.
	for _, p := range f.cur {
		if p.top && p.descent-l.ascent > l.descent {
			l.descent = p.descent - l.ascent
		}
	}
	l.width = f.curW
	for i := len(f.cur) - 1; i >= 0 && f.cur[i].space; i-- {
		l.width -= f.cur[i].width
	}
	shift := 0
	switch f.align {
	case AlignCenter:
		shift = (f.avail - l.width) / 2
	case AlignRight:
		shift = f.avail - l.width
	}
	if shift > 0 {
		for i := range l.pieces {
			l.pieces[i].x += shift
		}
	}
	f.lines = append(f.lines, l)
	f.y += l.ascent + l.descent
	if l.width > f.maxWidth {
		f.maxWidth = l.width
	}
	f.cur = nil
	f.curW = 0
	clear(f.lineSub)
}

// pieces expands boxes into placeable items for a line of width avail.
func pieces(ctx *Context, boxes []Box, avail int) []piece {
	var out []piece
	for _, b := range boxes {
		switch b := b.(type) {
		case *TextBox:
			out = append(out, textPieces(ctx, b)...)
		case *ImageBox:
			w, h := b.size()
			p := piece{box: b, word: -1, width: w}
			switch b.Align {
			case AlignTop:
				p.descent, p.top = h, true
			case AlignMiddle:
				p.ascent, p.descent = (h+1)/2, h/2
			default:
				p.ascent = h
			}
			out = append(out, p)
		case *CanvasBox:
			out = append(out, piece{box: b, word: -1, width: b.Width, ascent: b.Height})
		case *RuleBox:
			b.avail = avail
			switch {
			case b.Width < 0:
				b.drawWidth = avail
			case b.Percent:
				b.drawWidth = avail * b.Width / 100
			default:
				b.drawWidth = min(b.Width, avail)
			}
			out = append(out, piece{box: b, word: -1, width: avail, ascent: b.thickness() + ruleMargin, descent: ruleMargin, block: true})
		case *LabelBox:
			p := piece{box: b, word: -1, width: b.width()}
			if b.Font != nil {
				p.ascent, p.descent = b.Font.Ascent(), b.Font.Descent()
			}
			out = append(out, p)
		case *SymbolBox:
			w, a, d := b.size()
			out = append(out, piece{box: b, word: -1, width: w, ascent: a, descent: d})
		case *TableBox:
			b.format(ctx, avail)
			out = append(out, piece{box: b, word: -1, width: b.width, ascent: b.height, block: true})
		case *Area:
			if b.Width > 0 {
				b.Format(ctx, b.Width)
				out = append(out, piece{box: b, word: -1, width: b.fmtWidth, ascent: b.fmtHeight})
				continue
			}
			b.Format(ctx, avail)
			out = append(out, piece{box: b, word: -1, width: b.fmtWidth, ascent: b.fmtHeight, block: true})
		}
	}
	return out
}

const ruleMargin = 6

func textPieces(ctx *Context, b *TextBox) []piece {
	b.words = b.words[:0]
	if b.Node == nil {
		ctx.logger().Error("text box without a node")
		return nil
	}
	font := b.Node.HierFont()
	if font == nil {
		ctx.logger().Error("no font for text", "id", b.Node.ID)
		return nil
	}
	if b.BreakOnly {
		return []piece{{box: b, word: -1, ascent: font.Ascent(), descent: font.Descent(), brk: true}}
	}
	mode := b.Node.HierWhiteSpace()
	fg := b.Node.HierFgColor()
	selected := b.Node.IsHierSelected()
	toks := text.Split(b.Text, mode)
	out := make([]piece, 0, len(toks))
	for _, tok := range toks {
		b.words = append(b.words, Word{Token: tok, Font: font, Color: fg, Selected: selected, Mode: mode})
		p := piece{
			box:     b,
			word:    len(b.words) - 1,
			width:   font.Width(tok.Text),
			ascent:  font.Ascent(),
			descent: font.Descent(),
			space:   mode == text.Normal && tok.IsSpace(),
			brk:     tok.BreakAfter,
			nowrap:  !mode.Wraps(),
		}
		if n := len(text.Lines(tok.Text)); n > 1 {
			p.descent += (n - 1) * font.Height()
		}
		out = append(out, p)
	}
	return out
}
