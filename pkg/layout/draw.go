package layout

import (
	"image"
	"image/color"

	"hyperflow/pkg/links"
	"hyperflow/pkg/render"
)

var (
	shadeDark  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	shadeLight = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	outline    = color.RGBA{R: 0x00, G: 0xa0, B: 0x00, A: 0xff}
)

// DrawContext receives paint instructions. Boxes whose region does not
// intersect Visible are not painted; an empty Visible paints everything.
// Link rectangles are recorded for every box either way.
type DrawContext struct {
	Sink      render.Sink
	Visible   image.Rectangle
	Selection color.RGBA
	Outline   bool
}

func (ctx *DrawContext) visible(r Region) bool {
	if ctx.Visible.Empty() {
		return true
	}
	rect := r.Rect()
	if rect.Dx() == 0 {
		rect.Max.X++
	}
	if rect.Dy() == 0 {
		rect.Max.Y++
	}
	return rect.Overlaps(ctx.Visible)
}

func addLinkRect(l *links.AnchorLink, r Region) {
	if l == nil {
		return
	}
	x2 := max(r.X+r.Width-1, r.X)
	y2 := max(r.Y+r.Height()-1, r.Y)
	l.AddRect(r.X, r.Y, x2, y2)
}

// Draw paints the formatted area with its top left corner at (x, y).
func (a *Area) Draw(ctx *DrawContext, x, y int) {
	a.X, a.Y = x, y
	if a.Background != nil {
		r := Region{X: x, Y: y, Width: a.fmtWidth, Ascent: a.fmtHeight}
		if ctx.visible(r) {
			ctx.Sink.FillRect(x, y, a.fmtWidth, a.fmtHeight, *a.Background)
		}
	}
	for _, c := range a.cells {
		for _, l := range c.lines {
			top := y + c.y + l.y
			for _, p := range l.pieces {
				r := Region{X: x + c.x + p.x, Y: top + l.ascent - p.ascent, Width: p.width, Ascent: p.ascent, Descent: p.descent}
				if p.top {
					r.Y = top
				}
				drawPiece(ctx, p, r)
			}
		}
	}
}

func drawPiece(ctx *DrawContext, p piece, r Region) {
	visible := ctx.visible(r)
	if visible && ctx.Outline {
		ctx.Sink.DrawRect(r.X, r.Y, r.Width, r.Height(), outline)
	}
	switch b := p.box.(type) {
	case *TextBox:
		if p.word >= 0 {
			b.drawWord(ctx, b.words[p.word], r, visible)
		}
	case *ImageBox:
		b.draw(ctx, r, visible)
	case *CanvasBox:
		b.region = r
		if visible {
			if b.Background != nil {
				ctx.Sink.FillRect(r.X, r.Y, r.Width, r.Height(), *b.Background)
			}
			if b.Image != nil {
				ctx.Sink.DrawImage(r.X, r.Y, b.Image)
			}
			if b.Node != nil && b.Node.IsHierSelected() {
				ctx.Sink.DrawRect(r.X, r.Y, r.Width, r.Height(), ctx.Selection)
			}
		}
	case *RuleBox:
		if visible {
			b.draw(ctx, r)
		}
	case *LabelBox:
		if visible && b.Font != nil && b.Text != "" {
			x := r.X
			switch b.Align {
			case AlignCenter:
				x += (r.Width - b.Font.Width(b.Text)) / 2
			case AlignRight:
				x += r.Width - b.Font.Width(b.Text)
			}
			ctx.Sink.DrawText(x, r.Baseline(), b.Text, b.Font, b.Color)
		}
		addLinkRect(b.Link, r)
	case *SymbolBox:
		if visible {
			b.draw(ctx, r)
		}
		addLinkRect(b.Link, r)
	case *TableBox:
		b.draw(ctx, r)
	case *Area:
		b.Draw(ctx, r.X, r.Y)
	}
}

func (b *TextBox) drawWord(ctx *DrawContext, w Word, r Region, visible bool) {
	if visible {
		if bg, ok := b.Node.HierBgColor(); ok {
			ctx.Sink.FillRect(r.X, r.Y, r.Width, r.Height(), bg)
		}
		if w.Text != "" {
			ctx.Sink.DrawText(r.X, r.Baseline(), w.Text, w.Font, w.Color)
		}
		if b.Node.HierUnderline() && r.Width > 0 {
			y := r.Baseline() + 1
			ctx.Sink.DrawLine(r.X, y, r.X+r.Width-1, y, w.Color)
		}
		if w.Selected {
			ctx.Sink.DrawRect(r.X, r.Y, r.Width, r.Height(), ctx.Selection)
		}
	}
	addLinkRect(b.Link, r)
}

func (b *ImageBox) draw(ctx *DrawContext, r Region, visible bool) {
	if visible {
		w, h := b.size()
		for i := 0; i < b.Border; i++ {
			ctx.Sink.DrawRect(r.X+b.HSpace+i, r.Y+b.VSpace+i, w-2*(b.HSpace+i), h-2*(b.VSpace+i), b.BorderColor)
		}
		if b.Image != nil {
			ctx.Sink.DrawImage(r.X+b.HSpace+b.Border, r.Y+b.VSpace+b.Border, b.Image)
		}
		if b.Node != nil && b.Node.IsHierSelected() {
			ctx.Sink.DrawRect(r.X, r.Y, w, h, ctx.Selection)
		}
	}
	addLinkRect(b.Link, r)
}

func (b *RuleBox) draw(ctx *DrawContext, r Region) {
	x := r.X
	switch b.Align {
	case AlignCenter:
		x += (b.avail - b.drawWidth) / 2
	case AlignRight:
		x += b.avail - b.drawWidth
	}
	y := r.Y + ruleMargin
	w, h := b.drawWidth, b.thickness()
	if w <= 0 {
		return
	}
	if !b.Shade {
		ctx.Sink.FillRect(x, y, w, h, b.Color)
		return
	}
	ctx.Sink.DrawLine(x, y, x+w-1, y, shadeDark)
	ctx.Sink.DrawLine(x, y, x, y+h-1, shadeDark)
	ctx.Sink.DrawLine(x, y+h-1, x+w-1, y+h-1, shadeLight)
	ctx.Sink.DrawLine(x+w-1, y, x+w-1, y+h-1, shadeLight)
}

func (b *SymbolBox) draw(ctx *DrawContext, r Region) {
	d := max(r.Width/2, 3)
	cx := r.X + r.Width/2
	cy := r.Baseline() - r.Ascent/3
	switch b.Type {
	case SymbolDisc:
		ctx.Sink.FillCircle(cx, cy, d/2, b.Color)
	case SymbolCircle:
		ctx.Sink.DrawCircle(cx, cy, d/2, b.Color)
	case SymbolSquare:
		ctx.Sink.DrawRect(cx-d/2, cy-d/2, d, d, b.Color)
	case SymbolBlock:
		ctx.Sink.FillRect(cx-d/2, cy-d/2, d, d, b.Color)
	}
}
