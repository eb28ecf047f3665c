package dom

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
)

func testFonts(t *testing.T) (a, b *style.Font) {
	t.Helper()
	ff, err := style.NewFontFace("helvetica")
	if err != nil {
		t.Fatal(err)
	}
	a, err = ff.Font(3, style.Normal)
	if err != nil {
		t.Fatal(err)
	}
	b, err = ff.Font(5, style.Bold)
	if err != nil {
		t.Fatal(err)
	}
	return a, b
}

func TestStartObject_BuildsTree(t *testing.T) {
	tr := NewTree(Defaults{}, nil)
	root := tr.StartObject(NewNode(KindRoot, "document", "root"))
	p := tr.StartObject(NewNode(KindElement, "p", ""))
	txt := tr.AddObject(NewText("hi"))
	tr.EndObject()
	sib := tr.StartObject(NewNode(KindElement, "div", "d"))

	if tr.Root() != root {
		t.Fatal("first object should become root")
	}
	if p.Parent != root || txt.Parent != p || sib.Parent != root {
		t.Error("parent links not set from the object stack")
	}
	if len(root.Children) != 2 || root.Children[0] != p || root.Children[1] != sib {
		t.Errorf("root children = %v", root.Children)
	}
	if tr.CurrentObject() != sib {
		t.Error("StartObject should make the node current")
	}
	if tr.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tr.Len())
	}
	if !strings.HasPrefix(p.ID, "p:") {
		t.Errorf("generated id = %q, want p:<n>", p.ID)
	}
	if tr.GetObject(p.ID) != p {
		t.Error("generated id not indexed")
	}
}

func TestEndObject_EmptyIsNoop(t *testing.T) {
	tr := NewTree(Defaults{}, nil)
	tr.EndObject()
	tr.EndObject()
	if tr.CurrentObject() != nil {
		t.Fatal("expected no current object")
	}
	n := tr.StartObject(NewNode(KindRoot, "document", ""))
	tr.EndObject()
	tr.EndObject()
	if tr.Root() != n {
		t.Error("root lost after extra EndObject calls")
	}
}

func TestGetObject_LastWriteWins(t *testing.T) {
	tr := NewTree(Defaults{}, nil)
	tr.StartObject(NewNode(KindRoot, "document", ""))
	first := tr.AddObject(NewNode(KindElement, "span", "dup"))
	second := tr.AddObject(NewNode(KindElement, "b", "dup"))
	if got := tr.GetObject("dup"); got != second {
		t.Errorf("GetObject(dup) = %v, want the second node", got)
	}
	if first.Parent == nil {
		t.Error("overwritten node should stay in the tree")
	}
	if tr.GetObject("missing") != nil {
		t.Error("GetObject(missing) should be nil")
	}
}

func TestHierFont(t *testing.T) {
	a, b := testFonts(t)
	def, _ := testFonts(t)
	tr := NewTree(Defaults{Font: def}, nil)

	root := NewNode(KindRoot, "document", "")
	root.Font = a
	tr.StartObject(root)
	child := tr.StartObject(NewNode(KindElement, "span", ""))
	grandchild := NewNode(KindElement, "b", "")
	grandchild.Font = b
	tr.StartObject(grandchild)

	if got := grandchild.HierFont(); got != b {
		t.Errorf("HierFont(grandchild) = %v, want %v", got, b)
	}
	if got := child.HierFont(); got != a {
		t.Errorf("HierFont(child) = %v, want %v", got, a)
	}
	if got := root.HierFont(); got != a {
		t.Errorf("HierFont(root) = %v, want %v", got, a)
	}
}

func TestHierarchicalDefaults(t *testing.T) {
	def, _ := testFonts(t)
	fg := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}
	tr := NewTree(Defaults{Font: def, Foreground: fg, WhiteSpace: text.Normal}, nil)
	root := tr.StartObject(NewNode(KindRoot, "document", ""))
	leaf := tr.AddObject(NewText("x"))

	if leaf.HierFont() != def {
		t.Error("HierFont should fall back to the tree default")
	}
	if leaf.HierFgColor() != fg {
		t.Errorf("HierFgColor = %v, want %v", leaf.HierFgColor(), fg)
	}
	if leaf.HierWhiteSpace() != text.Normal {
		t.Errorf("HierWhiteSpace = %v, want normal", leaf.HierWhiteSpace())
	}
	if _, ok := leaf.HierBgColor(); ok {
		t.Error("HierBgColor should report no background")
	}

	pre := text.Pre
	red := color.RGBA{R: 0xff, A: 0xff}
	on := true
	root.WhiteSpace = &pre
	root.Foreground = &red
	root.Underline = &on
	if leaf.HierWhiteSpace() != text.Pre || leaf.HierFgColor() != red || !leaf.HierUnderline() {
		t.Error("explicit root attributes not inherited")
	}
}

func TestDetachedNodeDefaults(t *testing.T) {
	n := NewNode(KindElement, "p", "")
	if n.HierFont() != nil || n.HierWhiteSpace() != text.Normal {
		t.Error("detached node should resolve to zero defaults")
	}
}

func TestIsHierSelected(t *testing.T) {
	tr := NewTree(Defaults{}, nil)
	root := tr.StartObject(NewNode(KindRoot, "document", ""))
	mid := tr.StartObject(NewNode(KindElement, "div", ""))
	leaf := tr.AddObject(NewText("x"))

	if leaf.IsHierSelected() {
		t.Fatal("nothing selected yet")
	}
	tr.SetSelected(mid, true)
	if !leaf.IsHierSelected() || !mid.IsHierSelected() || root.IsHierSelected() {
		t.Error("selection should propagate to descendants only")
	}
	tr.SetSelected(mid, false)
	tr.SetSelected(nil, true)
	if leaf.IsHierSelected() {
		t.Error("deselect did not clear")
	}
}

type recordingObserver struct {
	seen []*Node
	err  error
}

func (o *recordingObserver) NodeAdded(n *Node) error {
	o.seen = append(o.seen, n)
	return o.err
}

func TestObserverNotified(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTree(Defaults{}, log.New(&buf))
	obs := &recordingObserver{err: errors.New("bridge down")}
	tr.SetObserver(obs)

	root := tr.StartObject(NewNode(KindRoot, "document", ""))
	leaf := tr.AddObject(NewText("x"))

	if len(obs.seen) != 2 || obs.seen[0] != root || obs.seen[1] != leaf {
		t.Fatalf("observer saw %v", obs.seen)
	}
	if leaf.Parent != root {
		t.Error("observer failure must not affect the tree")
	}
	if !strings.Contains(buf.String(), "bridge down") {
		t.Errorf("expected observer error in log, got %q", buf.String())
	}
}

func TestWalkAndTextContent(t *testing.T) {
	tr := NewTree(Defaults{}, nil)
	tr.StartObject(NewNode(KindRoot, "document", ""))
	tr.StartObject(NewNode(KindElement, "p", ""))
	tr.AddObject(NewText("hello "))
	tr.StartObject(NewNode(KindElement, "b", ""))
	tr.AddObject(NewText("world"))

	var tags []string
	tr.Walk(func(n *Node) bool {
		tags = append(tags, n.Tag)
		return true
	})
	if got := strings.Join(tags, ","); got != "document,p,#text,b,#text" {
		t.Errorf("walk order = %s", got)
	}
	if got := tr.Root().TextContent(); got != "hello world" {
		t.Errorf("TextContent = %q", got)
	}

	count := 0
	tr.Walk(func(n *Node) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Walk did not stop early, visited %d", count)
	}
}

func TestNodeHelpers(t *testing.T) {
	parent := NewNode(KindElement, "DIV", "p")
	child := NewNode(KindElement, "span", "c")
	parent.AddChild(child)
	if parent.Tag != "div" {
		t.Errorf("tag not lowercased: %q", parent.Tag)
	}
	if !parent.Contains(child) || child.Contains(parent) {
		t.Error("Contains wrong")
	}
	if child.Depth() != 1 {
		t.Errorf("Depth = %d", child.Depth())
	}
	child.SetAttribute("href", "x.html")
	if v, ok := child.GetAttribute("href"); !ok || v != "x.html" {
		t.Errorf("GetAttribute = %q, %v", v, ok)
	}
	if parent.RemoveChild(child) != child || child.Parent != nil || len(parent.Children) != 0 {
		t.Error("RemoveChild failed")
	}
	if parent.RemoveChild(child) != nil {
		t.Error("RemoveChild of non-child should return nil")
	}
}
