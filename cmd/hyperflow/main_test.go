package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<html><body><p>Some <a href="#bottom" title="Bottom">text</a></p>
<p><a name="bottom">bottom</a></p></body></html>`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	c := newCLI(io.Discard)
	root := c.rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("hyperflow %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	doc := writePage(t)
	out := filepath.Join(t.TempDir(), "page.png")
	execute(t, "render", doc, "-o", out, "--width", "200", "--height", "100")

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("image size = %v", b)
	}
}

func TestDumpCommand(t *testing.T) {
	doc := writePage(t)
	if out := execute(t, "dump", doc); !strings.Contains(out, "text") {
		t.Errorf("dump lacks the document text:\n%s", out)
	}
	if out := execute(t, "dump", "--draw", doc); !strings.Contains(out, "bottom") {
		t.Errorf("draw dump lacks the document text:\n%s", out)
	}
}

func TestLinksCommand(t *testing.T) {
	out := execute(t, "links", writePage(t))
	if !strings.Contains(out, `source #bottom "Bottom"`) || !strings.Contains(out, "dest bottom") {
		t.Errorf("links output:\n%s", out)
	}
}

func TestHitCommand(t *testing.T) {
	if out := execute(t, "hit", writePage(t), "0", "0"); strings.TrimSpace(out) != "no link" {
		t.Errorf("hit at the origin = %q", out)
	}
}

func TestBadConfig(t *testing.T) {
	c := newCLI(io.Discard)
	root := c.rootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "links", "x.html"})
	if err := root.Execute(); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestCompareCommand(t *testing.T) {
	doc := writePage(t)
	ref := filepath.Join(t.TempDir(), "ref.png")
	execute(t, "compare", doc, ref, "--width", "200", "--height", "100", "--update")
	if out := execute(t, "compare", doc, ref, "--width", "200", "--height", "100"); !strings.Contains(out, "0/20000 pixels differ") {
		t.Errorf("compare output = %q", out)
	}
}
