package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
)

// Canvas is an offscreen surface painted by scripts and shown by a
// canvas box. Paths follow the 2D canvas model: Fill and Stroke keep the
// current path until BeginPath.
type Canvas struct {
	dc     *gg.Context
	fill   color.RGBA
	stroke color.RGBA
	width  float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		dc:     gg.NewContext(max(w, 1), max(h, 1)),
		fill:   color.RGBA{A: 0xff},
		stroke: color.RGBA{A: 0xff},
		width:  1,
	}
	c.dc.SetLineWidth(c.width)
	return c
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

func (c *Canvas) Image() image.Image { return c.dc.Image() }

// Resize replaces the surface, keeping the overlapping part of the old
// content. Paint state is kept; the transform and path are reset.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == c.Width() && h == c.Height() {
		return
	}
	old := c.dc.Image()
	c.dc = gg.NewContext(w, h)
	c.dc.DrawImage(old, 0, 0)
	c.dc.SetLineWidth(c.width)
}

func (c *Canvas) SetFill(col color.RGBA)   { c.fill = col }
func (c *Canvas) SetStroke(col color.RGBA) { c.stroke = col }

func (c *Canvas) Fill() color.RGBA   { return c.fill }
func (c *Canvas) Stroke() color.RGBA { return c.stroke }

func (c *Canvas) SetLineWidth(w float64) {
	c.width = w
	c.dc.SetLineWidth(w)
}

func (c *Canvas) LineWidth() float64 { return c.width }

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.dc.Push()
	c.dc.NewSubPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.fill)
	c.dc.Fill()
	c.dc.Pop()
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	c.dc.Push()
	c.dc.NewSubPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(c.stroke)
	c.dc.Stroke()
	c.dc.Pop()
}

// ClearRect makes the rectangle fully transparent. It ignores the
// current transform.
func (c *Canvas) ClearRect(x, y, w, h float64) {
	dst, ok := c.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	r := image.Rect(int(x), int(y), int(x+w), int(y+h))
	draw.Draw(dst, r, image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) BeginPath()                  { c.dc.ClearPath() }
func (c *Canvas) MoveTo(x, y float64)         { c.dc.MoveTo(x, y) }
func (c *Canvas) LineTo(x, y float64)         { c.dc.LineTo(x, y) }
func (c *Canvas) ClosePath()                  { c.dc.ClosePath() }
func (c *Canvas) Rect(x, y, w, h float64)     { c.dc.DrawRectangle(x, y, w, h) }
func (c *Canvas) Arc(x, y, r, a1, a2 float64) { c.dc.DrawArc(x, y, r, a1, a2) }

func (c *Canvas) FillPath() {
	c.dc.SetColor(c.fill)
	c.dc.FillPreserve()
}

func (c *Canvas) StrokePath() {
	c.dc.SetColor(c.stroke)
	c.dc.StrokePreserve()
}

// FillText draws s with its baseline at y in gg's built-in face.
func (c *Canvas) FillText(s string, x, y float64) {
	c.dc.SetColor(c.fill)
	c.dc.DrawString(s, x, y)
}

func (c *Canvas) Save()    { c.dc.Push() }
func (c *Canvas) Restore() { c.dc.Pop() }

func (c *Canvas) Translate(x, y float64) { c.dc.Translate(x, y) }
func (c *Canvas) Scale(x, y float64)     { c.dc.Scale(x, y) }
func (c *Canvas) Rotate(angle float64)   { c.dc.Rotate(angle) }
