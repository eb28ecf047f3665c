package window

import (
	"image"
	"image/color"
	"strings"

	"hyperflow/pkg/config"
	"hyperflow/pkg/dom"
	"hyperflow/pkg/images"
	"hyperflow/pkg/layout"
	"hyperflow/pkg/links"
	"hyperflow/pkg/render"
	"hyperflow/pkg/script"
	"hyperflow/pkg/text"
)

// NamedImagePrefix marks an image source that refers to an image
// registered with RegisterImage rather than a file or URI.
const NamedImagePrefix = "_html_"

// Begin discards the current document and starts an empty one.
func (w *Window) Begin() {
	w.fg = config.Color(w.cfg.Colors.Foreground)
	w.bg = config.Color(w.cfg.Colors.Background)
	w.title, w.target = "", ""
	w.scrollX, w.scrollY = 0, 0
	w.docW, w.docH = 0, 0
	w.hover = nil

	w.tree = dom.NewTree(dom.Defaults{}, w.logger)
	w.script = nil
	if w.cfg.Behavior.Scripts {
		w.script = script.New(w, w.logger)
		w.tree.SetObserver(w.script)
	}

	w.links.Reset()
	w.layout.Init()
	w.root = layout.NewArea()
	w.layout.StartArea(w.root)
	w.layout.NewCellBelow()

	w.style.Reset()
	if !w.style.EnterFontFace(w.cfg.Fonts.Face) {
		w.style.EnterFontFace(defaultFace)
	}
	w.style.SetBaseSize(w.cfg.Fonts.BaseSize)
	w.style.SetColor(w.fg)
	w.tree.SetDefaults(dom.Defaults{Font: w.style.Font(), Foreground: w.fg, WhiteSpace: text.Normal})

	w.canvases = make(map[*dom.Node]*canvasEntry)
	w.tables = nil
	w.linkFrames = nil

	w.attach(dom.NewNode(dom.KindRoot, "document", ""), true)
}

// End closes the document, runs its scripts and lays it out for the
// current size.
func (w *Window) End() {
	for len(w.tables) > 0 {
		w.logger.Error("unterminated table at end of document")
		w.EndTable()
	}
	for len(w.linkFrames) > 0 {
		w.EndLink()
	}
	w.layout.EndArea()
	if w.script != nil && w.script.Pending() > 0 {
		if err := w.script.Run(); err != nil {
			w.logger.Error("script failed", "err", err)
			w.DisplayError(err.Error())
		}
	}
	if w.width > 0 && w.height > 0 {
		w.Resize(w.width, w.height)
	}
}

// attach adds n under the current object. The node gets an explicit font
// or color only where the style state differs from what it would
// inherit.
func (w *Window) attach(n *dom.Node, start bool) *dom.Node {
	defaults := w.tree.Defaults()
	hierFont, hierFg := defaults.Font, defaults.Foreground
	if parent := w.tree.CurrentObject(); parent != nil {
		hierFont, hierFg = parent.HierFont(), parent.HierFgColor()
	}
	if f := w.style.Font(); n.Font == nil && f != nil && f != hierFont {
		n.Font = f
	}
	if fg := w.style.Color(); n.Foreground == nil && fg != hierFg {
		n.Foreground = &fg
	}
	if start {
		return w.tree.StartObject(n)
	}
	return w.tree.AddObject(n)
}

// StartObject opens n as the current object.
func (w *Window) StartObject(n *dom.Node) *dom.Node { return w.attach(n, true) }

// EndObject closes the current object.
func (w *Window) EndObject() { w.tree.EndObject() }

// CurrentObject returns the innermost open object.
func (w *Window) CurrentObject() *dom.Node { return w.tree.CurrentObject() }

// AddText adds a run of text to the current line. Empty runs are
// ignored.
func (w *Window) AddText(s string, d TextData) *dom.Node {
	if s == "" {
		return nil
	}
	n := dom.NewText(s)
	if d.Color != nil {
		c := *d.Color
		n.Foreground = &c
	}
	if d.Underline != nil {
		u := *d.Underline
		n.Underline = &u
	}
	w.attach(n, false)
	b := layout.NewTextBox(n, s, w.links.Current())
	if d.KeepTogether {
		w.layout.NewSubCellRight(true)
		w.layout.AddBox(b)
		w.layout.NewSubCellRight(false)
		return n
	}
	w.layout.AddBox(b)
	return n
}

// AddBreak ends the current line.
func (w *Window) AddBreak() {
	n := w.attach(dom.NewNode(dom.KindElement, "br", ""), false)
	w.layout.AddBox(layout.NewBreakBox(n))
}

// AddImage loads d.Src and places it on the current line. An image that
// cannot be loaded is replaced by its alt text when UseAlt is set and the
// text is not empty, and by a placeholder otherwise.
func (w *Window) AddImage(d ImageData) *dom.Node {
	if name, ok := strings.CutPrefix(d.Src, NamedImagePrefix); ok {
		return w.AddNamedImage(name)
	}
	n := dom.NewNode(dom.KindImage, "img", d.ID)
	n.SetAttribute("src", d.Src)
	if d.Alt != "" {
		n.SetAttribute("alt", d.Alt)
	}
	w.attach(n, false)

	img, err := w.images.Load(d.Src)
	if err != nil {
		w.logger.Warn("image unavailable", "src", d.Src, "err", err)
		if w.cfg.Behavior.UseAlt && d.Alt != "" {
			w.layout.AddBox(layout.NewTextBox(n, d.Alt, w.links.Current()))
			return n
		}
		pw, ph := d.Width, d.Height
		if pw <= 0 {
			pw = placeholderPx
		}
		if ph <= 0 {
			ph = placeholderPx
		}
		img = images.Placeholder(pw, ph)
	} else if d.Width > 0 || d.Height > 0 {
		img = images.Resize(img, d.Width, d.Height)
	}

	b := layout.NewImageBox(n, img, w.links.Current())
	b.Align = d.Align
	b.Border = d.Border
	b.HSpace = d.HSpace
	b.VSpace = d.VSpace
	b.BorderColor = n.HierFgColor()
	w.layout.AddBox(b)
	return n
}

// RegisterImage makes img available to AddNamedImage under name.
func (w *Window) RegisterImage(name string, img image.Image) {
	w.named[name] = img
}

func (w *Window) AddNamedImage(name string) *dom.Node {
	n := dom.NewNode(dom.KindImage, "img", "")
	n.SetAttribute("src", NamedImagePrefix+name)
	w.attach(n, false)
	img, ok := w.named[name]
	if !ok {
		w.logger.Warn("unknown named image", "name", name)
		img = images.Placeholder(placeholderPx, placeholderPx)
	}
	w.layout.AddBox(layout.NewImageBox(n, img, w.links.Current()))
	return n
}

// AddCanvas places a script-paintable surface on the current line.
func (w *Window) AddCanvas(d CanvasData) *dom.Node {
	cw, ch := d.Width, d.Height
	if cw <= 0 {
		cw = canvasWidth
	}
	if ch <= 0 {
		ch = canvasHeight
	}
	n := w.attach(dom.NewNode(dom.KindCanvas, "canvas", d.ID), false)
	surface := render.NewCanvas(cw, ch)
	b := layout.NewCanvasBox(n, surface.Width(), surface.Height())
	b.Image = surface.Image()
	b.OnResize = w.relayout
	w.canvases[n] = &canvasEntry{box: b, surface: surface}
	w.layout.AddBox(b)
	return n
}

func (w *Window) AddSymbol(t layout.SymbolType) {
	b := layout.NewSymbolBox(t, w.style.Font(), w.style.Color())
	b.Link = w.links.Current()
	w.layout.AddBox(b)
}

// AddLabel adds s in a field at least width pixels wide.
func (w *Window) AddLabel(s string, width int, align layout.HAlign, c color.RGBA) {
	b := layout.NewLabelBox(s, width, align, w.style.Font(), c)
	b.Link = w.links.Current()
	w.layout.AddBox(b)
}

// AddRule adds a horizontal rule on a line of its own.
func (w *Window) AddRule(d RuleData) *dom.Node {
	n := w.attach(dom.NewNode(dom.KindRule, "hr", ""), false)
	b := layout.NewRuleBox()
	b.Align = d.Align
	b.Shade = !d.NoShade
	b.Size = d.Size
	b.Width = d.Width
	b.Percent = d.Percent
	b.Color = n.HierFgColor()
	if d.Size == 0 {
		b.Size = -1
	}
	if d.Width == 0 {
		b.Width = -1
	}
	w.layout.AddBox(b)
	return n
}

// StartLink opens an anchor. With an href it is a link source drawn in
// the link color and underlined; with only a name it is a destination.
// The anchor node is opened either way and EndLink closes it.
func (w *Window) StartLink(d LinkData) *dom.Node {
	n := dom.NewNode(dom.KindAnchor, "a", d.ID)
	for _, a := range [...]struct{ k, v string }{
		{"href", d.Href}, {"name", d.Name}, {"title", d.Title}, {"target", d.Target},
	} {
		if a.v != "" {
			n.SetAttribute(a.k, a.v)
		}
	}
	frame := linkFrame{prev: w.style.Color()}
	data := links.Data{Href: d.Href, Name: d.Name, Title: d.Title, Target: d.Target}

	var dest *links.AnchorLink
	switch {
	case d.Href != "":
		if l := w.links.StartSourceLink(data); l != nil {
			frame.opened = true
			w.style.SetColor(w.linkColor)
			underline := true
			n.Underline = &underline
		}
	case d.Name != "":
		if l := w.links.StartDestLink(data); l != nil {
			frame.opened = true
			dest = l
		}
	default:
		w.logger.Error("No 'href' or 'name' specified for 'a' tag")
	}
	w.linkFrames = append(w.linkFrames, frame)
	w.attach(n, true)

	if dest != nil {
		// Zero width marker so an empty destination still gets a position.
		m := layout.NewLabelBox("", 0, layout.AlignLeft, w.style.Font(), w.style.Color())
		m.Link = dest
		w.layout.AddBox(m)
	}
	return n
}

// EndLink closes the innermost anchor. Without an open anchor it does
// nothing.
func (w *Window) EndLink() {
	n := len(w.linkFrames)
	if n == 0 {
		w.logger.Debug("end of link without a link")
		return
	}
	f := w.linkFrames[n-1]
	w.linkFrames = w.linkFrames[:n-1]
	if f.opened {
		w.links.EndLink()
	}
	w.style.SetColor(f.prev)
	w.tree.EndObject()
}

func (w *Window) NewLine()   { w.layout.NewCellBelow() }
func (w *Window) NewColumn() { w.layout.NewCellRight() }

// SkipLine ends the current line and leaves one empty line below it.
func (w *Window) SkipLine() {
	w.layout.NewCellBelow()
	w.layout.AddBox(layout.NewLabelBox("", 0, layout.AlignLeft, w.style.Font(), w.style.Color()))
	w.layout.NewCellBelow()
}

func (w *Window) NewSubCellBelow(breakup bool) { w.layout.NewSubCellBelow(breakup) }
func (w *Window) NewSubCellRight(breakup bool) { w.layout.NewSubCellRight(breakup) }

// IndentLeft changes the left indent of the current area by n steps. The
// new indent applies from the next line.
func (w *Window) IndentLeft(n int) {
	if a := w.currentArea("indent"); a != nil {
		a.IndentLeft = max(a.IndentLeft+n*indentStep, 0)
	}
}

func (w *Window) IndentRight(n int) {
	if a := w.currentArea("indent"); a != nil {
		a.IndentRight = max(a.IndentRight+n*indentStep, 0)
	}
}

func (w *Window) currentArea(op string) *layout.Area {
	a := w.layout.CurrentArea()
	if a == nil {
		w.logger.Error(op + " outside of an area")
	}
	return a
}

// SetAlign sets the alignment of the current line and of the lines that
// follow it.
func (w *Window) SetAlign(h layout.HAlign, v layout.VAlign) { w.layout.SetAlign(h, v) }

// SetAreaAlign changes the alignment of lines opened from now on, leaving
// the current one as it is.
func (w *Window) SetAreaAlign(h layout.HAlign, v layout.VAlign) {
	if a := w.currentArea("align"); a != nil {
		a.HAlign, a.VAlign = h, v
	}
}

// StartTable adds a table on a line of its own. Rows and cells follow
// until EndTable.
func (w *Window) StartTable(d TableData) *dom.Node {
	n := w.attach(dom.NewNode(dom.KindTable, "table", d.ID), true)
	b := layout.NewTableBox(n)
	b.Border = d.Border
	if d.Padding >= 0 {
		b.Padding = d.Padding
	}
	if d.Spacing >= 0 {
		b.Spacing = d.Spacing
	}
	b.Width = d.Width
	b.Percent = d.Percent
	b.Background = d.Background
	b.BorderColor = n.HierFgColor()
	w.layout.AddBox(b)
	w.tables = append(w.tables, &tableFrame{box: b})
	return n
}

func (w *Window) currentTable(op string) *tableFrame {
	if len(w.tables) == 0 {
		w.logger.Error(op + " outside of a table")
		return nil
	}
	return w.tables[len(w.tables)-1]
}

func (w *Window) StartTableRow() {
	t := w.currentTable("table row")
	if t == nil {
		return
	}
	if t.cell != nil {
		w.EndTableCell()
	}
	t.row = t.box.AddRow()
}

// StartTableCell opens a cell in the current row, starting a row if
// none is open. The cell's content goes into its own area until
// EndTableCell.
func (w *Window) StartTableCell(d CellData) *dom.Node {
	t := w.currentTable("table cell")
	if t == nil {
		return nil
	}
	if t.cell != nil {
		w.EndTableCell()
	}
	if t.row == nil {
		t.row = t.box.AddRow()
	}
	tag := "td"
	if d.Header {
		tag = "th"
	}
	n := w.attach(dom.NewNode(dom.KindTableCell, tag, ""), true)
	c := t.row.AddCell(n)
	if d.VAlign != nil {
		c.VAlign = *d.VAlign
	}
	c.Background = d.Background
	c.Area.HAlign = d.Align
	w.layout.StartArea(c.Area)
	w.layout.NewCellBelow()
	if d.Header {
		w.style.StartBold()
	}
	t.cell, t.header = c, d.Header
	return n
}

func (w *Window) EndTableCell() {
	t := w.currentTable("end of table cell")
	if t == nil || t.cell == nil {
		return
	}
	for len(w.linkFrames) > 0 && w.tree.CurrentObject() != t.cell.Node {
		w.EndLink()
	}
	w.layout.EndArea()
	w.tree.EndObject()
	if t.header {
		w.style.EndBold()
	}
	t.cell, t.header = nil, false
}

func (w *Window) EndTable() {
	t := w.currentTable("end of table")
	if t == nil {
		return
	}
	if t.cell != nil {
		w.EndTableCell()
	}
	w.tables = w.tables[:len(w.tables)-1]
	w.tree.EndObject()
}
