package window

import (
	"image"
	"io"
	"strings"
	"time"

	"hyperflow/pkg/layout"
	"hyperflow/pkg/render"
)

// Recalc formats the document for a window of the given size and records
// the link rectangles for the current scroll offset. A Recalc started
// while another is running is logged and dropped.
func (w *Window) Recalc(width, height int) {
	if w.inRecalc {
		w.logger.Error("recalc while recalculating")
		return
	}
	w.inRecalc = true
	defer func() { w.inRecalc = false }()

	start := time.Now()
	w.width, w.height = width, height
	w.links.DeleteLinkRects()
	w.root.Height = max(height-2*w.marginY, 0)
	w.root.Format(&layout.Context{Logger: w.logger}, width-2*w.marginX)
	w.docW = w.root.FormattedWidth() + 2*w.marginX
	w.docH = w.root.FormattedHeight() + 2*w.marginY
	w.scrollX, w.scrollY = w.clampScroll(w.scrollX, w.scrollY)
	w.drawTo(render.Discard{})

	w.logger.Debug("recalc",
		"width", width, "height", height,
		"doc_width", w.docW, "doc_height", w.docH,
		"elapsed", time.Since(start))
}

// Draw paints the visible part of the document into sink, which is
// assumed to cover the window.
func (w *Window) Draw(sink render.Sink) {
	sink.FillRect(0, 0, w.width, w.height, w.bg)
	w.drawTo(sink)
}

func (w *Window) drawTo(sink render.Sink) {
	w.links.DeleteLinkRects()
	ctx := &layout.DrawContext{
		Sink:      sink,
		Visible:   image.Rect(0, 0, w.width, w.height),
		Selection: w.selection,
		Outline:   w.cfg.Behavior.Outline,
	}
	w.root.Draw(ctx, w.marginX-w.scrollX, w.marginY-w.scrollY)
}

// Resize lays the document out again and, when a target anchor is set,
// scrolls it into view.
func (w *Window) Resize(width, height int) {
	w.Recalc(width, height)
	if w.target != "" {
		w.ScrollToAnchor(w.target)
	}
}

// ScrollToAnchor scrolls the named destination to the top margin.
func (w *Window) ScrollToAnchor(name string) bool {
	r, ok := w.links.DestLinkPos(name)
	if !ok {
		w.logger.Warn("anchor not found", "name", name)
		return false
	}
	w.ScrollTo(w.scrollX, r.Y1+w.scrollY-w.marginY)
	return true
}

// ScrollTo sets the scroll offset, clamped to the document size.
func (w *Window) ScrollTo(x, y int) {
	w.scrollX, w.scrollY = w.clampScroll(x, y)
	w.drawTo(render.Discard{})
}

func (w *Window) clampScroll(x, y int) (int, int) {
	x = min(x, w.docW-w.width)
	y = min(y, w.docH-w.height)
	return max(x, 0), max(y, 0)
}

func (w *Window) Scroll() (x, y int) { return w.scrollX, w.scrollY }

// DocumentSize is the formatted size including margins.
func (w *Window) DocumentSize() (width, height int) { return w.docW, w.docH }

// IsVisible reports whether the rectangle, in window coordinates,
// touches the region inside the margins.
func (w *Window) IsVisible(x1, y1, x2, y2 int) bool {
	left, top := w.marginX, w.marginY
	right := left + w.width - 2*w.marginX
	bottom := top + w.height - 2*w.marginY
	return !(x1 > right || x2 < left || y1 > bottom || y2 < top)
}

// HoverLink reports the title of the link under (x, y). changed is false
// when the pointer is over the same link, or no link, as on the previous
// call.
func (w *Window) HoverLink(x, y int) (title string, changed bool) {
	l := w.links.SourceLink(x, y)
	if l != nil {
		title = l.Title
	}
	if l == w.hover {
		return title, false
	}
	w.hover = l
	if w.status != nil {
		w.status(title)
	}
	return title, true
}

// ActivateLink follows the link under (x, y). Fragment links scroll this
// window; anything else goes to the navigator.
func (w *Window) ActivateLink(x, y int) (dest string, ok bool) {
	l := w.links.SourceLink(x, y)
	if l == nil {
		return "", false
	}
	if name, frag := strings.CutPrefix(l.Dest, "#"); frag {
		if w.ScrollToAnchor(name) {
			w.requestRedraw()
		}
		return l.Dest, true
	}
	if w.navigate != nil {
		w.navigate(l.Dest)
	}
	return l.Dest, true
}

// Print writes the layout tree of the document to out.
func (w *Window) Print(out io.Writer) error { return layout.Print(out, w.root) }
