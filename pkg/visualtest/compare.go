// Package visualtest compares rendered pages with reference images.
package visualtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ErrSize is returned when the compared images differ in size.
var ErrSize = errors.New("image sizes differ")

// Result summarizes a comparison.
type Result struct {
	Match         bool
	Different     int
	Total         int
	MaxDifference int // largest channel difference, 0-255

	// Diff marks differing pixels red over a gray copy of the actual
	// image. It is only set when Options.Diff is true.
	Diff *image.RGBA
}

// Percent is the share of differing pixels.
func (r Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Different) / float64(r.Total) * 100
}

func (r Result) String() string {
	return fmt.Sprintf("%d/%d pixels differ (%.2f%%), max difference %d", r.Different, r.Total, r.Percent(), r.MaxDifference)
}

type Options struct {
	// Tolerance is the largest channel difference still counted as equal.
	Tolerance int
	// Radius lets a pixel match any reference pixel this close to it.
	Radius int
	// MaxPercent accepts images whose differing share is at most this.
	MaxPercent float64
	Diff       bool
}

func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Compare checks actual against expected pixel by pixel.
func Compare(actual, expected image.Image, opts Options) (Result, error) {
	ab, eb := actual.Bounds(), expected.Bounds()
	if ab.Size() != eb.Size() {
		return Result{}, fmt.Errorf("%w: %v and %v", ErrSize, ab.Size(), eb.Size())
	}
	res := Result{Match: true, Total: ab.Dx() * ab.Dy()}
	if opts.Diff {
		res.Diff = image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	}
	off := eb.Min.Sub(ab.Min)

	for y := ab.Min.Y; y < ab.Max.Y; y++ {
		for x := ab.Min.X; x < ab.Max.X; x++ {
			a := actual.At(x, y)
			d := channelDiff(a, expected.At(x+off.X, y+off.Y))
			res.MaxDifference = max(res.MaxDifference, d)
			same := d <= opts.Tolerance ||
				opts.Radius > 0 && nearMatch(a, expected, image.Pt(x, y).Add(off), opts.Radius, opts.Tolerance)
			if !same {
				res.Different++
			}
			if res.Diff != nil {
				px := image.Pt(x, y).Sub(ab.Min)
				if same {
					res.Diff.Set(px.X, px.Y, color.GrayModel.Convert(a))
				} else {
					res.Diff.Set(px.X, px.Y, color.RGBA{R: 0xff, A: 0xff})
				}
			}
		}
	}
	if res.Different > 0 {
		res.Match = opts.MaxPercent > 0 && res.Percent() <= opts.MaxPercent
	}
	return res, nil
}

// CompareFiles compares two PNG files.
func CompareFiles(actualPath, expectedPath string, opts Options) (Result, error) {
	actual, err := ReadPNG(actualPath)
	if err != nil {
		return Result{}, err
	}
	expected, err := ReadPNG(expectedPath)
	if err != nil {
		return Result{}, err
	}
	return Compare(actual, expected, opts)
}

func ReadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// nearMatch reports whether c matches any pixel of img within radius of p.
func nearMatch(c color.Color, img image.Image, p image.Point, radius, tolerance int) bool {
	b := img.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			q := p.Add(image.Pt(dx, dy))
			if !q.In(b) {
				continue
			}
			if channelDiff(c, img.At(q.X, q.Y)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func channelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(abs(ar, br), abs(ag, bg), abs(ab, bb), abs(aa, ba))
}

func abs(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}
