package visualtest

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

func TestCompare(t *testing.T) {
	shifted := solid(10, 10, red)
	shifted.Set(4, 4, blue)
	expected := solid(10, 10, red)
	expected.Set(5, 4, blue)

	nearlyRed := solid(10, 10, color.RGBA{R: 0xfd, A: 0xff})

	tests := []struct {
		name      string
		actual    image.Image
		expected  image.Image
		opts      Options
		match     bool
		different int
	}{
		{"identical", solid(10, 10, red), solid(10, 10, red), DefaultOptions(), true, 0},
		{"different", solid(10, 10, red), solid(10, 10, blue), DefaultOptions(), false, 100},
		{"within tolerance", nearlyRed, solid(10, 10, red), DefaultOptions(), true, 0},
		{"beyond tolerance", nearlyRed, solid(10, 10, red), Options{}, false, 100},
		{"shifted exact", shifted, expected, Options{}, false, 2},
		{"shifted fuzzy", shifted, expected, Options{Radius: 1}, true, 0},
		{"shifted percent", shifted, expected, Options{MaxPercent: 5}, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compare(tt.actual, tt.expected, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if res.Match != tt.match || res.Different != tt.different {
				t.Errorf("Compare = %v (match %v), want match %v with %d different", res, res.Match, tt.match, tt.different)
			}
			if res.Total != 100 {
				t.Errorf("Total = %d", res.Total)
			}
		})
	}
}

func TestCompareSize(t *testing.T) {
	_, err := Compare(solid(10, 10, red), solid(10, 12, red), DefaultOptions())
	if !errors.Is(err, ErrSize) {
		t.Errorf("err = %v, want ErrSize", err)
	}
}

func TestDiffImage(t *testing.T) {
	actual := solid(4, 4, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
	expected := solid(4, 4, color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
	expected.Set(1, 2, blue)
	res, err := Compare(actual, expected, Options{Diff: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Diff == nil {
		t.Fatal("no diff image")
	}
	if got := res.Diff.RGBAAt(1, 2); got != red {
		t.Errorf("differing pixel = %v, want red", got)
	}
	if got := res.Diff.RGBAAt(0, 0); got.R != got.G || got.G != got.B {
		t.Errorf("matching pixel = %v, want gray", got)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if err := WritePNG(path, solid(3, 2, blue)); err != nil {
		t.Fatal(err)
	}
	res, err := CompareFiles(path, path, Options{})
	if err != nil || !res.Match {
		t.Errorf("CompareFiles = %v, %v", res, err)
	}
	if _, err := ReadPNG(filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Error("missing file read without error")
	}
}
