package dom

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"

	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
)

// Defaults terminate hierarchical lookups.
type Defaults struct {
	Font       *style.Font
	Foreground color.RGBA
	WhiteSpace text.WhiteSpace
}

// Observer is told about every node added to a tree. Errors are logged
// and otherwise ignored.
type Observer interface {
	NodeAdded(n *Node) error
}

// Tree owns the nodes of one document.
type Tree struct {
	root     *Node
	stack    []*Node
	index    map[string]*Node
	defaults Defaults
	observer Observer
	logger   *log.Logger
	seq      int
	count    int
}

func NewTree(defaults Defaults, logger *log.Logger) *Tree {
	if logger == nil {
		logger = log.Default()
	}
	return &Tree{
		index:    make(map[string]*Node),
		defaults: defaults,
		logger:   logger,
	}
}

func (t *Tree) SetObserver(o Observer) { t.observer = o }

func (t *Tree) SetDefaults(d Defaults) { t.defaults = d }

func (t *Tree) Defaults() Defaults { return t.defaults }

// StartObject attaches n under the current object, or makes it the root
// when no object is open, and makes it current.
func (t *Tree) StartObject(n *Node) *Node {
	t.attach(n)
	t.stack = append(t.stack, n)
	return n
}

// AddObject attaches n like StartObject without making it current.
func (t *Tree) AddObject(n *Node) *Node {
	t.attach(n)
	return n
}

func (t *Tree) attach(n *Node) {
	if parent := t.CurrentObject(); parent != nil {
		parent.AddChild(n)
	} else if t.root == nil {
		t.root = n
	} else {
		// A second top-level object hangs off the existing root.
		t.root.AddChild(n)
	}
	n.tree = t
	if n.ID == "" {
		t.seq++
		n.ID = fmt.Sprintf("%s:%d", n.Tag, t.seq)
	}
	t.index[n.ID] = n
	t.count++
	if t.observer != nil {
		if err := t.observer.NodeAdded(n); err != nil {
			t.logger.Warn("node observer failed", "id", n.ID, "err", err)
		}
	}
}

// EndObject closes the current object. With no object open it does nothing.
func (t *Tree) EndObject() {
	if len(t.stack) == 0 {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// CurrentObject returns the innermost open object, or nil.
func (t *Tree) CurrentObject() *Node {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *Tree) Root() *Node { return t.root }

// Len is the number of nodes added to the tree.
func (t *Tree) Len() int { return t.count }

// GetObject looks a node up by id. A later registration of the same id
// replaces the earlier one.
func (t *Tree) GetObject(id string) *Node { return t.index[id] }

func (t *Tree) SetSelected(n *Node, selected bool) {
	if n != nil {
		n.Selected = selected
	}
}

// Walk visits nodes in document order until fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t.root != nil {
		walk(t.root, fn)
	}
}

func walk(n *Node, fn func(n *Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
