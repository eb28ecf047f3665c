package visualtest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"hyperflow/pkg/config"
	"hyperflow/pkg/resource"
)

func newRenderer(dir string) *resource.PageRenderer {
	return resource.NewPageRenderer(resource.NewFetcher(dir, false), config.Default(), log.New(io.Discard))
}

func TestCheckReference(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "page.html")
	if err := os.WriteFile(doc, []byte(`<body><h1>Title</h1><p>Some words to lay out.</p></body>`), 0o644); err != nil {
		t.Fatal(err)
	}
	ref := filepath.Join(dir, "refs", "page.png")
	r := newRenderer(dir)
	ctx := context.Background()

	res, err := CheckReference(ctx, r, "page.html", ref, 200, 120, DefaultOptions(), false)
	if err != nil || !res.Match {
		t.Fatalf("first run = %v, %v", res, err)
	}
	if _, err := os.Stat(ref); err != nil {
		t.Fatalf("reference not written: %v", err)
	}

	res, err = CheckReference(ctx, r, "page.html", ref, 200, 120, DefaultOptions(), false)
	if err != nil || !res.Match || res.Different != 0 {
		t.Errorf("rendering is not stable: %v, %v", res, err)
	}

	if err := os.WriteFile(doc, []byte(`<body bgcolor="black"><h1>Title</h1></body>`), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err = CheckReference(ctx, r, "page.html", ref, 200, 120, DefaultOptions(), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Match {
		t.Error("changed document still matches the reference")
	}

	if res, err = CheckReference(ctx, r, "page.html", ref, 200, 120, DefaultOptions(), true); err != nil || !res.Match {
		t.Errorf("update = %v, %v", res, err)
	}
	if res, err = CheckReference(ctx, r, "page.html", ref, 200, 120, DefaultOptions(), false); err != nil || !res.Match {
		t.Errorf("after update = %v, %v", res, err)
	}
}
