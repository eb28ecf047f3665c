package layout

import (
	"image"
	"image/color"

	"hyperflow/pkg/dom"
	"hyperflow/pkg/links"
	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
)

type Kind int

const (
	KindText Kind = iota
	KindImage
	KindCanvas
	KindRule
	KindLabel
	KindSymbol
	KindTable
	KindArea
)

var kindNames = [...]string{"text", "image", "canvas", "rule", "label", "symbol", "table", "area"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Box is a drawable unit. The set of implementations is closed: TextBox,
// ImageBox, CanvasBox, RuleBox, LabelBox, SymbolBox, TableBox and Area.
type Box interface {
	Kind() Kind
	isBox()
}

// Region is where a box was placed: the top left corner, the width, and
// the extents above and below the baseline.
type Region struct {
	X, Y    int
	Width   int
	Ascent  int
	Descent int
}

func (r Region) Height() int   { return r.Ascent + r.Descent }
func (r Region) Baseline() int { return r.Y + r.Ascent }

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height())
}

// Word is a token with the attributes it is drawn with.
type Word struct {
	text.Token
	Font     *style.Font
	Color    color.RGBA
	Selected bool
	Mode     text.WhiteSpace
}

// TextBox draws the text of one content node. A BreakOnly box ends the
// current line and draws nothing.
type TextBox struct {
	Node      *dom.Node
	Text      string
	Link      *links.AnchorLink
	BreakOnly bool

	words []Word
}

func NewTextBox(n *dom.Node, s string, link *links.AnchorLink) *TextBox {
	return &TextBox{Node: n, Text: s, Link: link}
}

func NewBreakBox(n *dom.Node) *TextBox {
	return &TextBox{Node: n, BreakOnly: true}
}

func (*TextBox) Kind() Kind { return KindText }
func (*TextBox) isBox()     {}

// Words returns the tokens resolved by the last Format.
func (b *TextBox) Words() []Word { return b.words }

// ImageBox draws a decoded image.
type ImageBox struct {
	Node        *dom.Node
	Image       image.Image
	Align       VAlign
	Border      int
	HSpace      int
	VSpace      int
	BorderColor color.RGBA
	Link        *links.AnchorLink
}

func NewImageBox(n *dom.Node, img image.Image, link *links.AnchorLink) *ImageBox {
	return &ImageBox{Node: n, Image: img, Link: link}
}

func (*ImageBox) Kind() Kind { return KindImage }
func (*ImageBox) isBox()     {}

func (b *ImageBox) size() (w, h int) {
	iw, ih := 0, 0
	if b.Image != nil {
		bounds := b.Image.Bounds()
		iw, ih = bounds.Dx(), bounds.Dy()
	}
	pad := b.Border
	return iw + 2*(b.HSpace+pad), ih + 2*(b.VSpace+pad)
}

// CanvasBox reserves space for content painted by someone else and draws
// Image, when set, at its top left corner. Region reports where it was
// last drawn.
type CanvasBox struct {
	Node       *dom.Node
	Width      int
	Height     int
	Background *color.RGBA
	Image      image.Image

	// OnResize is called after SetSize changes the size.
	OnResize func()

	region Region
}

func NewCanvasBox(n *dom.Node, w, h int) *CanvasBox {
	return &CanvasBox{Node: n, Width: w, Height: h}
}

func (*CanvasBox) Kind() Kind { return KindCanvas }
func (*CanvasBox) isBox()     {}

func (b *CanvasBox) Region() Region { return b.region }

func (b *CanvasBox) SetSize(w, h int) {
	if w == b.Width && h == b.Height {
		return
	}
	b.Width, b.Height = w, h
	if b.OnResize != nil {
		b.OnResize()
	}
}

// RuleBox is a horizontal rule. Width below zero spans the available
// width; with Percent set it is a percentage of it.
type RuleBox struct {
	Align   HAlign
	Shade   bool
	Size    int
	Width   int
	Percent bool
	Color   color.RGBA

	drawWidth int
	avail     int
}

// NewRuleBox returns a centered, shaded rule of default size spanning the
// available width.
func NewRuleBox() *RuleBox {
	return &RuleBox{Align: AlignCenter, Shade: true, Size: -1, Width: -1}
}

func (*RuleBox) Kind() Kind { return KindRule }
func (*RuleBox) isBox()     {}

func (b *RuleBox) thickness() int {
	if b.Size <= 0 {
		return 2
	}
	return b.Size
}

// LabelBox draws a string in a field of at least Width pixels.
type LabelBox struct {
	Text  string
	Width int
	Align HAlign
	Font  *style.Font
	Color color.RGBA
	Link  *links.AnchorLink
}

func NewLabelBox(s string, width int, align HAlign, f *style.Font, c color.RGBA) *LabelBox {
	return &LabelBox{Text: s, Width: width, Align: align, Font: f, Color: c}
}

func (*LabelBox) Kind() Kind { return KindLabel }
func (*LabelBox) isBox()     {}

func (b *LabelBox) width() int {
	w := b.Width
	if b.Font != nil {
		if tw := b.Font.Width(b.Text); tw > w {
			w = tw
		}
	}
	return w
}

type SymbolType int

const (
	SymbolDisc SymbolType = iota
	SymbolCircle
	SymbolSquare
	SymbolBlock
)

var symbolNames = [...]string{"disc", "circle", "square", "block"}

func (s SymbolType) String() string {
	if s < 0 || int(s) >= len(symbolNames) {
		return "unknown"
	}
	return symbolNames[s]
}

// SymbolBox is a list marker sized like the letter X in Font.
type SymbolBox struct {
	Type  SymbolType
	Font  *style.Font
	Color color.RGBA
	Link  *links.AnchorLink
}

func NewSymbolBox(t SymbolType, f *style.Font, c color.RGBA) *SymbolBox {
	return &SymbolBox{Type: t, Font: f, Color: c}
}

func (*SymbolBox) Kind() Kind { return KindSymbol }
func (*SymbolBox) isBox()     {}

func (b *SymbolBox) size() (w, ascent, descent int) {
	if b.Font == nil {
		return 8, 8, 0
	}
	return b.Font.Width("X"), b.Font.Ascent(), b.Font.Descent()
}

// intrinsicSize reports sizes that are known before formatting.
func intrinsicSize(b Box) (w, ascent, descent int, ok bool) {
	switch b := b.(type) {
	case *ImageBox:
		w, h := b.size()
		return w, h, 0, true
	case *CanvasBox:
		return b.Width, b.Height, 0, true
	case *LabelBox:
		if b.Font == nil {
			return b.Width, 0, 0, true
		}
		return b.width(), b.Font.Ascent(), b.Font.Descent(), true
	case *SymbolBox:
		w, a, d := b.size()
		return w, a, d, true
	}
	return 0, 0, 0, false
}
