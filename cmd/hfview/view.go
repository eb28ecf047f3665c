package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"hyperflow/pkg/render"
	"hyperflow/pkg/window"
)

const scrollStep = 3

// pageView shows one document window and forwards pointer input to it.
type pageView struct {
	widget.BaseWidget

	img *canvas.Image
	win *window.Window
}

var (
	_ desktop.Hoverable = (*pageView)(nil)
	_ fyne.Tappable     = (*pageView)(nil)
	_ fyne.Scrollable   = (*pageView)(nil)
)

func newPageView() *pageView {
	v := &pageView{img: canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))}
	v.img.FillMode = canvas.ImageFillOriginal
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

// SetWindow replaces the displayed document.
func (v *pageView) SetWindow(w *window.Window) {
	v.win = w
	v.relayout()
}

func (v *pageView) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	v.relayout()
}

func (v *pageView) relayout() {
	if v.win == nil {
		return
	}
	w, h := v.pixels()
	if w <= 0 || h <= 0 {
		return
	}
	if cw, ch := v.win.Size(); cw != w || ch != h {
		v.win.Resize(w, h)
	}
	v.repaint()
}

func (v *pageView) repaint() {
	if v.win == nil {
		return
	}
	w, h := v.win.Size()
	r := render.NewRaster(w, h)
	v.win.Draw(r)
	v.img.Image = r.Image()
	v.img.Refresh()
}

func (v *pageView) pixels() (int, int) {
	s := v.Size()
	return int(s.Width), int(s.Height)
}

func (v *pageView) MouseIn(e *desktop.MouseEvent) { v.MouseMoved(e) }

func (v *pageView) MouseMoved(e *desktop.MouseEvent) {
	if v.win != nil {
		v.win.HoverLink(int(e.Position.X), int(e.Position.Y))
	}
}

func (v *pageView) MouseOut() {
	if v.win != nil {
		v.win.HoverLink(-1, -1)
	}
}

func (v *pageView) Tapped(e *fyne.PointEvent) {
	if v.win != nil {
		v.win.ActivateLink(int(e.Position.X), int(e.Position.Y))
	}
}

func (v *pageView) Scrolled(e *fyne.ScrollEvent) {
	if v.win == nil {
		return
	}
	x, y := v.win.Scroll()
	v.win.ScrollTo(x-int(e.Scrolled.DX)*scrollStep, y-int(e.Scrolled.DY)*scrollStep)
	v.repaint()
}
