package resource

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"hyperflow/pkg/config"
	"hyperflow/pkg/window"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, uri    string
		target, frag string
	}{
		{"/docs", "page.html", "/docs/page.html", ""},
		{"/docs", "page.html#top", "/docs/page.html", "top"},
		{"/docs", "/abs/x.html", "/abs/x.html", ""},
		{"/docs", "file:///etc/x.html#a", "/etc/x.html", "a"},
		{"", "page.html", "page.html", ""},
		{"http://example.com/a/", "b.html", "http://example.com/a/b.html", ""},
		{"/docs", "https://example.com/", "https://example.com/", ""},
		{"/docs", "mailto:someone", "mailto:someone", ""},
	}
	for _, tt := range tests {
		target, frag := NewFetcher(tt.base, false).Resolve(tt.uri)
		if target != tt.target || frag != tt.frag {
			t.Errorf("Resolve(%q) against %q = %q, %q; want %q, %q", tt.uri, tt.base, target, frag, tt.target, tt.frag)
		}
	}
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.html", []byte("<p>hi</p>"))

	f := NewFetcher(dir, false)
	doc, err := f.Fetch(context.Background(), "doc.html#part")
	if err != nil {
		t.Fatal(err)
	}
	if string(doc.Body) != "<p>hi</p>" || doc.Fragment != "part" || !doc.IsFile() {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Base != dir {
		t.Errorf("Base = %q, want %q", doc.Base, dir)
	}
	if !strings.HasPrefix(doc.ContentType, "text/html") {
		t.Errorf("ContentType = %q", doc.ContentType)
	}

	if _, err := f.Fetch(context.Background(), "missing.html"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := f.Fetch(context.Background(), "ftp://example.com/x"); !errors.Is(err, ErrScheme) {
		t.Errorf("ftp err = %v, want ErrScheme", err)
	}
	if _, err := f.Fetch(context.Background(), "http://example.com/x"); !errors.Is(err, ErrScheme) {
		t.Errorf("disabled network err = %v, want ErrScheme", err)
	}
}

func TestFetchHTTP(t *testing.T) {
	data := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/img.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, "<p>remote</p>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/", true)
	doc, err := f.Fetch(context.Background(), "page.html")
	if err != nil {
		t.Fatal(err)
	}
	if string(doc.Body) != "<p>remote</p>" || doc.IsFile() {
		t.Errorf("doc = %+v", doc)
	}
	if got, err := f.FetchImage("img.png"); err != nil || !bytes.Equal(got, data) {
		t.Errorf("FetchImage = %d bytes, %v", len(got), err)
	}
	if _, err := f.FetchImage("page.html"); err == nil {
		t.Error("FetchImage accepted an html body")
	}
	if _, err := f.Fetch(context.Background(), "nothing"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("404 err = %v", err)
	}
}

func TestPageRendererOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pic.png", pngBytes(t, 30, 20))
	var body strings.Builder
	body.WriteString(`<html><head><title>Local</title></head><body><img src="pic.png"><a href="next.html">next</a>`)
	for i := 0; i < 40; i++ {
		body.WriteString("<p>filler</p>")
	}
	body.WriteString(`<a name="end">end</a></body></html>`)
	writeFile(t, dir, "index.html", []byte(body.String()))

	var logs bytes.Buffer
	r := NewPageRenderer(NewFetcher(dir, false), config.Default(), log.New(&logs),
		window.WithErrorOutput(io.Discard))
	w, err := r.Open(context.Background(), "index.html#end", 300, 200)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if w.Title() != "Local" {
		t.Errorf("Title() = %q", w.Title())
	}
	if strings.Contains(logs.String(), "image unavailable") {
		t.Errorf("relative image did not load:\n%s", logs.String())
	}
	if _, y := w.Scroll(); y == 0 {
		t.Error("fragment did not scroll the window")
	}
	srcs := w.Links().Sources()
	if len(srcs) != 1 || srcs[0].Dest != "file://"+filepath.Join(dir, "next.html") {
		t.Errorf("link sources = %+v", srcs)
	}
	if len(r.Session().Windows()) != 1 {
		t.Errorf("session holds %d windows", len(r.Session().Windows()))
	}
}

func TestPageRendererRender(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", []byte(`<body bgcolor="#00ff00"><p>text</p></body>`))

	r := NewPageRenderer(NewFetcher(dir, false), config.Default(), log.New(io.Discard))
	target := image.NewRGBA(image.Rect(0, 0, 120, 80))
	if err := r.Render(context.Background(), "page.html", target); err != nil {
		t.Fatal(err)
	}
	if got := target.RGBAAt(119, 79); got != (color.RGBA{G: 0xff, A: 0xff}) {
		t.Errorf("corner pixel = %v, want the body background", got)
	}
	if n := len(r.Session().Windows()); n != 0 {
		t.Errorf("Render left %d windows open", n)
	}

	if err := r.Render(context.Background(), "absent.html", target); err == nil {
		t.Error("missing document did not fail")
	}
}
