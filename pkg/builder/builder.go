// Package builder walks parsed HTML and drives the builder API of a
// window. It understands the presentational subset of HTML plus a few
// inline style properties; there is no cascade.
package builder

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"hyperflow/pkg/dom"
	"hyperflow/pkg/layout"
	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
	"hyperflow/pkg/window"
)

// Builder feeds one document at a time into a window.
type Builder struct {
	w      *window.Window
	logger *log.Logger

	lists   []listFrame
	aligns  []layout.HAlign
	pre     int
	started bool
}

type listFrame struct {
	ordered bool
	symbol  layout.SymbolType
	count   int
}

func New(w *window.Window) *Builder {
	return &Builder{w: w, logger: w.Logger()}
}

// Build parses r and replaces the window's document with it.
func (b *Builder) Build(r io.Reader) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	b.lists, b.aligns = nil, nil
	b.pre, b.started = 0, false

	b.w.Begin()
	b.node(doc)
	b.w.End()
	return nil
}

func (b *Builder) BuildString(s string) error {
	return b.Build(strings.NewReader(s))
}

func (b *Builder) node(n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		b.children(n)
	case html.ElementNode:
		b.element(n)
	case html.TextNode:
		b.text(n)
	}
}

func (b *Builder) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.node(c)
	}
}

func (b *Builder) text(n *html.Node) {
	s := n.Data
	if b.pre == 0 && strings.TrimSpace(s) == "" {
		if !b.started || skipsWhitespace(n.Parent) {
			return
		}
	}
	b.w.AddText(s, window.TextData{})
	b.started = true
}

// skipsWhitespace reports elements whose whitespace-only text is layout
// noise.
func skipsWhitespace(n *html.Node) bool {
	if n == nil {
		return true
	}
	switch n.Data {
	case "html", "head", "table", "tbody", "thead", "tfoot", "tr", "ul", "ol", "dl":
		return true
	}
	return false
}

func (b *Builder) element(n *html.Node) {
	decl := inlineStyle(n)
	if strings.EqualFold(decl["display"], "none") {
		return
	}
	switch n.Data {
	case "head":
		b.children(n)
		return
	case "title":
		b.w.SetTitle(strings.TrimSpace(textOf(n)))
		return
	case "script":
		b.script(n)
		return
	case "style", "noscript", "meta", "link":
		return
	case "br":
		b.w.AddBreak()
		return
	case "img":
		b.image(n)
		return
	case "hr":
		b.rule(n)
		return
	case "canvas":
		b.canvas(n)
		return
	case "basefont":
		if v, ok := attr(n, "size"); ok {
			b.w.SetBaseFontSize(fontSize(v, b.w.Style().BaseSize()))
		}
		return
	case "a":
		b.anchor(n, decl)
		return
	case "table":
		b.table(n, decl)
		return
	case "tr":
		b.w.StartTableRow()
		b.children(n)
		return
	case "td", "th":
		b.cell(n, decl)
		return
	case "body":
		b.body(n)
	}

	id, _ := attr(n, "id")
	node := dom.NewNode(dom.KindElement, n.Data, id)
	copyAttrs(node, n)

	var undo []func()
	undo = append(undo, b.open(n, node)...)
	undo = append(undo, b.applyStyle(node, decl)...)

	b.w.StartObject(node)
	b.children(n)
	b.w.EndObject()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

// open performs the element specific start actions and returns what
// undoes them, first to last.
func (b *Builder) open(n *html.Node, node *dom.Node) []func() {
	w := b.w
	var undo []func()
	switch n.Data {
	case "p":
		b.paragraph()
		undo = append(undo, b.alignAttr(n)...)
		undo = append(undo, w.NewLine)
	case "div", "address", "blockquote":
		w.NewLine()
		if n.Data == "blockquote" {
			w.IndentLeft(4)
			w.IndentRight(4)
			undo = append(undo, func() { w.IndentLeft(-4); w.IndentRight(-4) })
		}
		undo = append(undo, b.alignAttr(n)...)
		undo = append(undo, w.NewLine)
	case "center":
		w.NewLine()
		undo = append(undo, b.pushAlign(layout.AlignCenter), w.NewLine)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.paragraph()
		size := headingSizes[n.Data]
		prev := w.Style().RelativeSize()
		w.SetFontSize(size)
		w.StartBold()
		undo = append(undo, func() { w.EndBold(); w.SetFontSize(prev) })
		undo = append(undo, b.alignAttr(n)...)
		undo = append(undo, w.NewLine)
	case "pre", "listing", "xmp":
		b.paragraph()
		if exit, ok := b.enterFace("courier"); ok {
			undo = append(undo, exit)
		}
		ws := text.Pre
		node.WhiteSpace = &ws
		b.pre++
		undo = append(undo, func() { b.pre-- }, w.NewLine)
	case "b", "strong":
		w.StartBold()
		undo = append(undo, w.EndBold)
	case "i", "em", "cite", "var", "dfn":
		w.StartItalic()
		undo = append(undo, w.EndItalic)
	case "u", "ins":
		underline := true
		node.Underline = &underline
	case "tt", "code", "kbd", "samp":
		if exit, ok := b.enterFace("courier"); ok {
			undo = append(undo, exit)
		}
	case "big":
		w.IncreaseFontSize()
		undo = append(undo, w.DecreaseFontSize)
	case "small":
		w.DecreaseFontSize()
		undo = append(undo, w.IncreaseFontSize)
	case "font":
		undo = append(undo, b.font(n)...)
	case "ul", "ol", "menu", "dir":
		undo = append(undo, b.list(n)...)
	case "li":
		b.item()
	case "dl":
		w.NewLine()
		undo = append(undo, w.NewLine)
	case "dt":
		w.NewLine()
	case "dd":
		w.IndentLeft(2)
		w.NewLine()
		undo = append(undo, func() { w.IndentLeft(-2); w.NewLine() })
	}
	return undo
}

// enterFace makes the first available face of a comma separated list
// current while keeping the size and weight in effect.
func (b *Builder) enterFace(faces string) (exit func(), ok bool) {
	st := b.w.Style()
	base, rel, flags := st.BaseSize(), st.RelativeSize(), st.Flags()
	restore := func() {
		st.SetBaseSize(base)
		st.SetRelativeSize(rel)
		if flags&style.Bold != 0 {
			st.StartBold()
		}
		if flags&style.Italic != 0 {
			st.StartItalic()
		}
	}
	if !b.w.EnterFontFace(faces) {
		return nil, false
	}
	restore()
	return func() { b.w.ExitFontFace(); restore() }, true
}

var headingSizes = map[string]int{
	"h1": 7, "h2": 6, "h3": 5, "h4": 4, "h5": 3, "h6": 2,
}

// paragraph starts a new block, leaving a blank line when something was
// already added.
func (b *Builder) paragraph() {
	if b.started {
		b.w.SkipLine()
	} else {
		b.w.NewLine()
	}
}

func (b *Builder) currentAlign() layout.HAlign {
	if len(b.aligns) == 0 {
		return layout.AlignLeft
	}
	return b.aligns[len(b.aligns)-1]
}

func (b *Builder) pushAlign(h layout.HAlign) func() {
	b.aligns = append(b.aligns, h)
	b.w.SetAlign(h, layout.AlignBottom)
	return func() {
		b.aligns = b.aligns[:len(b.aligns)-1]
		b.w.SetAreaAlign(b.currentAlign(), layout.AlignBottom)
	}
}

func (b *Builder) alignAttr(n *html.Node) []func() {
	v, ok := attr(n, "align")
	if !ok {
		return nil
	}
	h, ok := parseHAlign(v)
	if !ok {
		b.logger.Warn("unknown alignment", "tag", n.Data, "align", v)
		return nil
	}
	return []func(){b.pushAlign(h)}
}

func (b *Builder) body(n *html.Node) {
	w := b.w
	if c, ok := b.colorAttr(n, "bgcolor"); ok {
		w.SetBackground(c)
	}
	if c, ok := b.colorAttr(n, "text"); ok {
		w.SetForeground(c)
	}
	if c, ok := b.colorAttr(n, "link"); ok {
		w.SetLinkColor(c)
	}
}

func (b *Builder) font(n *html.Node) []func() {
	w := b.w
	var undo []func()
	if face, ok := attr(n, "face"); ok {
		if exit, ok := b.enterFace(face); ok {
			undo = append(undo, exit)
		}
	}
	if v, ok := attr(n, "size"); ok {
		prev := w.Style().RelativeSize()
		w.SetFontSize(fontSize(v, prev))
		undo = append(undo, func() { w.SetFontSize(prev) })
	}
	if v, ok := attr(n, "color"); ok {
		prev := w.FontColor()
		if w.SetFontColor(v) {
			undo = append(undo, func() { w.SetColor(prev) })
		}
	}
	return undo
}

func (b *Builder) list(n *html.Node) []func() {
	w := b.w
	f := listFrame{ordered: n.Data == "ol"}
	switch len(b.lists) % 3 {
	case 0:
		f.symbol = layout.SymbolDisc
	case 1:
		f.symbol = layout.SymbolCircle
	default:
		f.symbol = layout.SymbolSquare
	}
	if v, ok := attr(n, "type"); ok && !f.ordered {
		if s, ok := symbolTypes[strings.ToLower(v)]; ok {
			f.symbol = s
		}
	}
	if v, ok := attr(n, "start"); ok && f.ordered {
		if start, _, ok := parseLength(v); ok {
			f.count = start - 1
		}
	}
	if len(b.lists) == 0 {
		b.paragraph()
	} else {
		w.NewLine()
	}
	b.lists = append(b.lists, f)
	w.IndentLeft(2)
	return []func(){func() {
		b.lists = b.lists[:len(b.lists)-1]
		w.IndentLeft(-2)
		w.NewLine()
	}}
}

var symbolTypes = map[string]layout.SymbolType{
	"disc":   layout.SymbolDisc,
	"circle": layout.SymbolCircle,
	"square": layout.SymbolSquare,
	"block":  layout.SymbolBlock,
}

const markerWidth = 24

// item starts a list item with its marker.
func (b *Builder) item() {
	w := b.w
	w.NewLine()
	if len(b.lists) == 0 {
		w.AddSymbol(layout.SymbolDisc)
		w.AddLabel("", 6, layout.AlignLeft, w.FontColor())
		return
	}
	f := &b.lists[len(b.lists)-1]
	if f.ordered {
		f.count++
		w.AddLabel(fmt.Sprintf("%d.", f.count), markerWidth, layout.AlignRight, w.FontColor())
	} else {
		w.AddSymbol(f.symbol)
	}
	w.AddLabel("", 6, layout.AlignLeft, w.FontColor())
	b.started = true
}

func (b *Builder) script(n *html.Node) {
	if typ, ok := attr(n, "type"); ok && typ != "" && !strings.Contains(strings.ToLower(typ), "javascript") {
		b.logger.Debug("script type ignored", "type", typ)
		return
	}
	if src, ok := attr(n, "src"); ok {
		b.logger.Warn("external scripts are not loaded", "src", src)
		return
	}
	b.w.AddScript(textOf(n))
}

func (b *Builder) anchor(n *html.Node, decl map[string]string) {
	d := window.LinkData{}
	d.ID, _ = attr(n, "id")
	d.Href, _ = attr(n, "href")
	d.Name, _ = attr(n, "name")
	d.Title, _ = attr(n, "title")
	d.Target, _ = attr(n, "target")
	if d.Name == "" && d.Href == "" && d.ID != "" {
		d.Name = d.ID
	}
	node := b.w.StartLink(d)
	undo := b.applyStyle(node, decl)
	b.children(n)
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	b.w.EndLink()
}

func (b *Builder) image(n *html.Node) {
	d := window.ImageData{}
	d.ID, _ = attr(n, "id")
	d.Src, _ = attr(n, "src")
	d.Alt, _ = attr(n, "alt")
	d.Width = intAttr(n, "width")
	d.Height = intAttr(n, "height")
	d.Border = intAttr(n, "border")
	d.HSpace = intAttr(n, "hspace")
	d.VSpace = intAttr(n, "vspace")
	if v, ok := attr(n, "align"); ok {
		va, ok := parseVAlign(v)
		if !ok {
			b.logger.Warn("unknown image alignment", "align", v)
		}
		d.Align = va
	}
	b.w.AddImage(d)
	b.started = true
}

func (b *Builder) rule(n *html.Node) {
	d := window.RuleData{Align: layout.AlignCenter, Width: -1}
	if v, ok := attr(n, "align"); ok {
		if h, ok := parseHAlign(v); ok {
			d.Align = h
		}
	}
	_, d.NoShade = attr(n, "noshade")
	d.Size = intAttr(n, "size")
	if v, ok := attr(n, "width"); ok {
		if width, pct, ok := parseLength(v); ok {
			d.Width, d.Percent = width, pct
		}
	}
	b.w.NewLine()
	b.w.AddRule(d)
	b.w.NewLine()
	b.started = true
}

func (b *Builder) canvas(n *html.Node) {
	id, _ := attr(n, "id")
	b.w.AddCanvas(window.CanvasData{ID: id, Width: intAttr(n, "width"), Height: intAttr(n, "height")})
	b.started = true
}

func (b *Builder) table(n *html.Node, decl map[string]string) {
	w := b.w
	d := window.TableData{Padding: -1, Spacing: -1}
	d.ID, _ = attr(n, "id")
	if v, ok := attr(n, "border"); ok {
		d.Border = 1
		if width, _, ok := parseLength(v); ok {
			d.Border = width
		}
	}
	if v, ok := attr(n, "cellpadding"); ok {
		d.Padding, _, _ = parseLength(v)
	}
	if v, ok := attr(n, "cellspacing"); ok {
		d.Spacing, _, _ = parseLength(v)
	}
	if v, ok := attr(n, "width"); ok {
		d.Width, d.Percent, _ = parseLength(v)
	}
	if c, ok := b.colorAttr(n, "bgcolor"); ok {
		d.Background = &c
	}
	if v, ok := decl["background-color"]; ok {
		if c, ok := b.cssColor(v); ok {
			d.Background = &c
		}
	}
	w.NewLine()
	w.StartTable(d)
	b.children(n)
	w.EndTable()
	w.NewLine()
	b.started = true
}

func (b *Builder) cell(n *html.Node, decl map[string]string) {
	d := window.CellData{Header: n.Data == "th"}
	if d.Header {
		d.Align = layout.AlignCenter
	}
	if v, ok := attr(n, "align"); ok {
		if h, ok := parseHAlign(v); ok {
			d.Align = h
		}
	}
	if v, ok := attr(n, "valign"); ok {
		if va, ok := parseVAlign(v); ok {
			d.VAlign = &va
		}
	}
	if c, ok := b.colorAttr(n, "bgcolor"); ok {
		d.Background = &c
	}
	saved := b.aligns
	b.aligns = []layout.HAlign{d.Align}
	node := b.w.StartTableCell(d)
	var undo []func()
	if node != nil {
		undo = b.applyStyle(node, decl)
	}
	b.children(n)
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	b.w.EndTableCell()
	b.aligns = saved
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		} else {
			sb.WriteString(textOf(c))
		}
	}
	return sb.String()
}
