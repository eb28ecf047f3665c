// Package dom holds the content tree built from a document: nodes with
// parent and child links, an id index and hierarchical attribute lookup.
package dom

import (
	"image/color"
	"strings"

	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
)

type Kind int

const (
	KindRoot Kind = iota
	KindElement
	KindText
	KindAnchor
	KindImage
	KindCanvas
	KindTable
	KindTableCell
	KindRule
	KindList
)

var kindNames = [...]string{
	KindRoot:      "root",
	KindElement:   "element",
	KindText:      "text",
	KindAnchor:    "anchor",
	KindImage:     "image",
	KindCanvas:    "canvas",
	KindTable:     "table",
	KindTableCell: "cell",
	KindRule:      "rule",
	KindList:      "list",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

// Node is one content object. Explicit attributes are nil when unset and
// are then inherited from the parent.
type Node struct {
	ID       string
	Kind     Kind
	Tag      string
	Text     string
	Children []*Node
	Parent   *Node

	Display    Display
	Font       *style.Font
	Foreground *color.RGBA
	Background *color.RGBA
	WhiteSpace *text.WhiteSpace
	Underline  *bool
	Selected   bool

	// Attrs holds attributes with no dedicated field.
	Attrs map[string]string

	tree *Tree
}

func NewNode(kind Kind, tag, id string) *Node {
	return &Node{Kind: kind, Tag: strings.ToLower(tag), ID: id}
}

// NewText returns a text node holding s.
func NewText(s string) *Node {
	return &Node{Kind: KindText, Tag: "#text", Text: s}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attrs == nil {
		return "", false
	}
	val, ok := n.Attrs[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// AddChild appends child and sets its parent link.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child, returning nil if it is not a child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Depth is the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Tree returns the tree n was registered in, or nil.
func (n *Node) Tree() *Tree { return n.tree }

func (n *Node) defaults() Defaults {
	if n.tree == nil {
		return Defaults{}
	}
	return n.tree.defaults
}

// HierFont returns the nearest explicit font walking toward the root,
// falling back to the tree default.
func (n *Node) HierFont() *style.Font {
	for p := n; p != nil; p = p.Parent {
		if p.Font != nil {
			return p.Font
		}
	}
	return n.defaults().Font
}

func (n *Node) HierFgColor() color.RGBA {
	for p := n; p != nil; p = p.Parent {
		if p.Foreground != nil {
			return *p.Foreground
		}
	}
	return n.defaults().Foreground
}

// HierBgColor reports the nearest explicit background, if any.
func (n *Node) HierBgColor() (color.RGBA, bool) {
	for p := n; p != nil; p = p.Parent {
		if p.Background != nil {
			return *p.Background, true
		}
	}
	return color.RGBA{}, false
}

func (n *Node) HierWhiteSpace() text.WhiteSpace {
	for p := n; p != nil; p = p.Parent {
		if p.WhiteSpace != nil {
			return *p.WhiteSpace
		}
	}
	return n.defaults().WhiteSpace
}

func (n *Node) HierUnderline() bool {
	for p := n; p != nil; p = p.Parent {
		if p.Underline != nil {
			return *p.Underline
		}
	}
	return false
}

// IsHierSelected reports whether n or any ancestor is selected.
func (n *Node) IsHierSelected() bool {
	for p := n; p != nil; p = p.Parent {
		if p.Selected {
			return true
		}
	}
	return false
}
