package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testDataURI(t *testing.T) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 2, 2))
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestDecodeDataURI_Invalid(t *testing.T) {
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64", // no comma
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=", // valid base64 but not an image
	}
	for _, uri := range tests {
		if _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestLoader_DataURICached(t *testing.T) {
	l := NewLoader("", nil)
	uri := testDataURI(t)
	img, err := l.Load(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", b.Dx(), b.Dy())
	}
	img2, err := l.Load(uri)
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if img != img2 || l.Len() != 1 {
		t.Error("expected the second load to hit the cache")
	}
}

func TestLoader_Files(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), testPNG(t, 3, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(dir, nil)
	for _, src := range []string{"a.png", filepath.Join(dir, "a.png"), "file://" + filepath.Join(dir, "a.png")} {
		w, h, err := l.Dimensions(src)
		if err != nil {
			t.Errorf("Dimensions(%q): %v", src, err)
			continue
		}
		if w != 3 || h != 5 {
			t.Errorf("Dimensions(%q) = %dx%d, want 3x5", src, w, h)
		}
	}
	if _, err := l.Load("missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
}

func TestLoader_Fetch(t *testing.T) {
	if _, err := NewLoader("", nil).Load("http://example.com/x.png"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}

	var asked string
	l := NewLoader("", func(uri string) ([]byte, error) {
		asked = uri
		return testPNG(t, 4, 4), nil
	})
	if _, err := l.Load("http://example.com/x.png"); err != nil {
		t.Fatal(err)
	}
	if asked != "http://example.com/x.png" {
		t.Errorf("fetch called with %q", asked)
	}
}

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{0, 0, 40, 20},
		{20, 0, 20, 10},
		{0, 40, 80, 40},
		{10, 30, 10, 30},
	}
	for _, tt := range tests {
		b := Resize(src, tt.w, tt.h).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("Resize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder(20, 10)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("size = %v", b)
	}
	r, g, b, _ := img.At(10, 0).RGBA()
	if r>>8 < 0xd0 || r != g || g != b {
		t.Errorf("background pixel = %d,%d,%d, want light gray", r>>8, g>>8, b>>8)
	}
	if b := Placeholder(0, -3).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("degenerate placeholder size = %v", b)
	}
}
