package builder

import (
	"bytes"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"hyperflow/pkg/config"
	"hyperflow/pkg/dom"
	"hyperflow/pkg/layout"
	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
	"hyperflow/pkg/window"
)

func build(t *testing.T, doc string) (*window.Window, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 400, 300
	w := window.New(nil, window.WithLogger(log.New(&buf)), window.WithConfig(cfg), window.WithErrorOutput(io.Discard))
	if err := New(w).BuildString(doc); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return w, &buf
}

func findText(t *testing.T, w *window.Window, s string) *dom.Node {
	t.Helper()
	var found *dom.Node
	w.Tree().Walk(func(n *dom.Node) bool {
		if n.Kind == dom.KindText && strings.TrimSpace(n.Text) == s {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		t.Fatalf("no text node %q", s)
	}
	return found
}

func labels(w *window.Window) []string {
	var out []string
	for _, c := range w.Root().Cells() {
		for _, s := range c.SubCells() {
			for _, b := range s.Boxes() {
				if l, ok := b.(*layout.LabelBox); ok && l.Text != "" {
					out = append(out, l.Text)
				}
			}
		}
	}
	return out
}

func TestTitleAndParagraphs(t *testing.T) {
	w, _ := build(t, `<html><head><title> A document </title></head>
<body><p>first</p><p>second</p></body></html>`)
	if got := w.Title(); got != "A document" {
		t.Errorf("Title() = %q", got)
	}
	findText(t, w, "first")
	findText(t, w, "second")
	w.Tree().Walk(func(n *dom.Node) bool {
		if n.Kind == dom.KindText && strings.Contains(n.Text, "A document") {
			t.Error("title text added to the body")
		}
		return true
	})
	if _, h := w.DocumentSize(); h == 0 {
		t.Error("document has no height")
	}
}

func TestBodyColors(t *testing.T) {
	w, _ := build(t, `<body bgcolor="#102030" text="green">words</body>`)
	if got, want := w.Background(), (color.RGBA{0x10, 0x20, 0x30, 0xff}); got != want {
		t.Errorf("Background() = %v, want %v", got, want)
	}
	want, _ := style.ParseColor("green")
	if got := findText(t, w, "words").HierFgColor(); got != want {
		t.Errorf("text color = %v, want %v", got, want)
	}
}

func TestLinks(t *testing.T) {
	w, _ := build(t, `<body><a href="#sec" title="Section">go</a>
<p><a name="sec">target</a></p><a id="plain">marked</a></body>`)
	srcs := w.Links().Sources()
	if len(srcs) != 1 {
		t.Fatalf("sources = %d, want 1", len(srcs))
	}
	if srcs[0].Dest != "#sec" || srcs[0].Title != "Section" {
		t.Errorf("source = %+v", srcs[0])
	}
	dests := w.Links().Dests()
	if len(dests) != 2 || dests[0].Name != "sec" || dests[1].Name != "plain" {
		t.Fatalf("dests = %+v", dests)
	}
	if !findText(t, w, "go").HierUnderline() {
		t.Error("link text not underlined")
	}
	if _, ok := w.Links().DestLinkPos("sec"); !ok {
		t.Error("destination has no position")
	}
}

func TestPreformatted(t *testing.T) {
	w, _ := build(t, "<body><p>before</p><pre>a  b\n  c</pre><p>after</p></body>")
	pre := findText(t, w, "a  b\n  c")
	if got := pre.HierWhiteSpace(); got != text.Pre {
		t.Errorf("white space = %v, want pre", got)
	}
	if got := pre.HierFont().Name(); got != "courier" {
		t.Errorf("pre font = %q, want courier", got)
	}
	if got := findText(t, w, "after").HierFont().Name(); got == "courier" {
		t.Error("monospace face leaked past the pre block")
	}
}

func TestLists(t *testing.T) {
	w, _ := build(t, `<body><ol start="3"><li>three<li>four</ol><ul><li>dot</ul></body>`)
	got := labels(w)
	if len(got) != 2 || got[0] != "3." || got[1] != "4." {
		t.Errorf("labels = %q, want [3. 4.]", got)
	}
	var symbols int
	for _, c := range w.Root().Cells() {
		for _, s := range c.SubCells() {
			for _, b := range s.Boxes() {
				if b.Kind() == layout.KindSymbol {
					symbols++
				}
			}
		}
	}
	if symbols != 1 {
		t.Errorf("symbols = %d, want 1", symbols)
	}
}

func TestTable(t *testing.T) {
	w, _ := build(t, `<body><table border="2" cellpadding="4" width="50%">
<tr><th>head</th><td align="right" valign="top" bgcolor="yellow">cell</td></tr>
<tr><td>a</td></tr></table></body>`)
	var tb *layout.TableBox
	for _, c := range w.Root().Cells() {
		for _, s := range c.SubCells() {
			for _, b := range s.Boxes() {
				if b, ok := b.(*layout.TableBox); ok {
					tb = b
				}
			}
		}
	}
	if tb == nil {
		t.Fatal("no table box")
	}
	if tb.Border != 2 || tb.Padding != 4 || tb.Spacing != 2 || tb.Width != 50 || !tb.Percent {
		t.Errorf("table = border %d padding %d spacing %d width %d%%=%v",
			tb.Border, tb.Padding, tb.Spacing, tb.Width, tb.Percent)
	}
	if len(tb.Rows) != 2 || len(tb.Rows[0].Cells) != 2 || len(tb.Rows[1].Cells) != 1 {
		t.Fatalf("table shape wrong: %d rows", len(tb.Rows))
	}
	head, cell := tb.Rows[0].Cells[0], tb.Rows[0].Cells[1]
	if head.Area.HAlign != layout.AlignCenter {
		t.Errorf("header align = %v, want center", head.Area.HAlign)
	}
	if cell.Area.HAlign != layout.AlignRight || cell.VAlign != layout.AlignTop {
		t.Errorf("cell align = %v/%v", cell.Area.HAlign, cell.VAlign)
	}
	if cell.Background == nil {
		t.Error("cell background missing")
	}
	if !findText(t, w, "head").HierFont().IsBold() {
		t.Error("header text not bold")
	}
	if findText(t, w, "cell").HierFont().IsBold() {
		t.Error("bold leaked out of the header cell")
	}
}

func TestInlineStyle(t *testing.T) {
	w, _ := build(t, `<body><p style="color: #ff0000; font-weight: bold">loud</p>
<span style="font-style:italic;text-decoration:underline">slanted</span> plain
<div style="display:none">hidden</div></body>`)
	loud := findText(t, w, "loud")
	if got := loud.HierFgColor(); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("color = %v, want red", got)
	}
	if !loud.HierFont().IsBold() {
		t.Error("font-weight not applied")
	}
	slanted := findText(t, w, "slanted")
	if !slanted.HierFont().IsItalic() || !slanted.HierUnderline() {
		t.Error("font-style or text-decoration not applied")
	}
	plain := findText(t, w, "plain")
	if plain.HierFont().IsItalic() || plain.HierFont().IsBold() || plain.HierUnderline() {
		t.Error("inline style leaked to following text")
	}
	if plain.HierFgColor() != (color.RGBA{A: 0xff}) {
		t.Errorf("following text color = %v", plain.HierFgColor())
	}
	w.Tree().Walk(func(n *dom.Node) bool {
		if n.Text == "hidden" {
			t.Error("display:none content was added")
		}
		return true
	})
}

func TestHeadingAndFont(t *testing.T) {
	w, _ := build(t, `<body><h1>big</h1><font size="+2" face="times" color="blue">fancy</font>normal</body>`)
	big, normal := findText(t, w, "big").HierFont(), findText(t, w, "normal").HierFont()
	if !big.IsBold() || big.Size() <= normal.Size() {
		t.Errorf("heading font %v vs body %v", big, normal)
	}
	fancy := findText(t, w, "fancy")
	if fancy.HierFont().Name() != "times" || fancy.HierFont().Size() <= normal.Size() {
		t.Errorf("font tag font = %v", fancy.HierFont())
	}
	blue, _ := style.ParseColor("blue")
	if fancy.HierFgColor() != blue {
		t.Errorf("font color = %v", fancy.HierFgColor())
	}
	if normal.Name() == "times" || normal.IsBold() {
		t.Errorf("font leaked: %v", normal)
	}
}

func TestScript(t *testing.T) {
	w, _ := build(t, `<body><p id="para">hello</p>
<script>document.getElementById("para").selected = true;</script></body>`)
	para := w.GetObject("para")
	if para == nil {
		t.Fatal("element id not registered")
	}
	if !para.Selected {
		t.Error("script did not run")
	}
	w.Tree().Walk(func(n *dom.Node) bool {
		if strings.Contains(n.Text, "getElementById") {
			t.Error("script source added as text")
		}
		return true
	})
}

func TestWarnings(t *testing.T) {
	_, buf := build(t, `<body><p align="sideways">x</p><font color="nocolor">y</font>
<script src="ext.js"></script></body>`)
	for _, want := range []string{"unknown alignment", "external scripts are not loaded"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		v       int
		percent bool
		ok      bool
	}{
		{"120", 120, false, true},
		{" 120px ", 120, false, true},
		{"50%", 50, true, true},
		{"wide", 0, false, false},
	}
	for _, tt := range tests {
		v, pct, ok := parseLength(tt.in)
		if v != tt.v || pct != tt.percent || ok != tt.ok {
			t.Errorf("parseLength(%q) = %d, %v, %v", tt.in, v, pct, ok)
		}
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		in   string
		cur  int
		want int
	}{
		{"5", 3, 5},
		{"+1", 3, 4},
		{"-2", 3, 1},
		{"x", 3, 3},
	}
	for _, tt := range tests {
		if got := fontSize(tt.in, tt.cur); got != tt.want {
			t.Errorf("fontSize(%q, %d) = %d, want %d", tt.in, tt.cur, got, tt.want)
		}
	}
}
