package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
)

// Raster paints instructions onto an RGBA image through a gg context.
type Raster struct {
	context *gg.Context
}

func NewRaster(width, height int) *Raster {
	return &Raster{context: gg.NewContext(width, height)}
}

// NewRasterForImage paints directly into target.
func NewRasterForImage(target *image.RGBA) *Raster {
	return &Raster{context: gg.NewContextForRGBA(target)}
}

func (r *Raster) Width() int  { return r.context.Width() }
func (r *Raster) Height() int { return r.context.Height() }

// Clear fills the whole surface with c.
func (r *Raster) Clear(c color.RGBA) {
	r.context.SetColor(c)
	r.context.Clear()
}

func (r *Raster) DrawText(x, y int, s string, f *style.Font, c color.RGBA) {
	if f == nil || s == "" {
		return
	}
	r.context.SetFontFace(f.Face)
	r.context.SetColor(c)
	for i, line := range text.Lines(s) {
		r.context.DrawString(line, float64(x), float64(y+i*f.Height()))
	}
}

func (r *Raster) DrawImage(x, y int, img image.Image) {
	if img == nil {
		return
	}
	r.context.DrawImage(img, x, y)
}

func (r *Raster) FillRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r.context.SetColor(c)
	r.context.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	r.context.Fill()
}

// DrawRect strokes a one pixel outline inside the rectangle.
func (r *Raster) DrawRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r.context.SetColor(c)
	r.context.SetLineWidth(1)
	r.context.DrawRectangle(float64(x)+0.5, float64(y)+0.5, float64(w-1), float64(h-1))
	r.context.Stroke()
}

func (r *Raster) DrawLine(x1, y1, x2, y2 int, c color.RGBA) {
	r.context.SetColor(c)
	r.context.SetLineWidth(1)
	r.context.DrawLine(float64(x1)+0.5, float64(y1)+0.5, float64(x2)+0.5, float64(y2)+0.5)
	r.context.Stroke()
}

func (r *Raster) DrawCircle(x, y, rad int, c color.RGBA) {
	r.context.SetColor(c)
	r.context.SetLineWidth(1)
	r.context.DrawCircle(float64(x), float64(y), float64(rad))
	r.context.Stroke()
}

func (r *Raster) FillCircle(x, y, rad int, c color.RGBA) {
	r.context.SetColor(c)
	r.context.DrawCircle(float64(x), float64(y), float64(rad))
	r.context.Fill()
}

func (r *Raster) Image() image.Image { return r.context.Image() }

func (r *Raster) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
