// Package style tracks the active font face, size, weight, slant and color
// while a document is being built.
package style

import (
	"fmt"

	"golang.org/x/image/font"

	"hyperflow/pkg/text"
)

// Flags combine weight and slant. Bits outside Bold|Italic are not a
// recognized combination and resolve to Normal.
type Flags int

const (
	Normal Flags = 0
	Bold   Flags = 1 << 0
	Italic Flags = 1 << 1
)

const (
	MinSize     = 0
	MaxSize     = 6
	DefaultSize = 3
)

// PointSizes maps the size scale to point sizes.
var PointSizes = [MaxSize + 1]float64{8, 10, 12, 14, 18, 24, 36}

// ClampSize limits a size index to the 0..6 scale.
func ClampSize(n int) int {
	if n < MinSize {
		return MinSize
	}
	if n > MaxSize {
		return MaxSize
	}
	return n
}

func (f Flags) variant() text.Variant {
	switch f {
	case Bold:
		return text.Bold
	case Italic:
		return text.Italic
	case Bold | Italic:
		return text.BoldItalic
	default:
		return text.Regular
	}
}

// Font is one resolved variant of a face at one size.
type Font struct {
	face    *FontFace
	size    int
	flags   Flags
	Face    font.Face
	ascent  int
	descent int
}

func (f *Font) Name() string   { return f.face.name }
func (f *Font) Size() int      { return f.size }
func (f *Font) Flags() Flags   { return f.flags }
func (f *Font) IsBold() bool   { return f.flags&Bold != 0 }
func (f *Font) IsItalic() bool { return f.flags&Italic != 0 }
func (f *Font) Points() float64 {
	return PointSizes[f.size]
}

func (f *Font) Ascent() int  { return f.ascent }
func (f *Font) Descent() int { return f.descent }

// Height is the distance between consecutive baselines.
func (f *Font) Height() int { return f.ascent + f.descent }

// Width measures s; multi-line strings report their widest line.
func (f *Font) Width(s string) int { return text.Width(f.Face, s) }

func (f *Font) String() string {
	return fmt.Sprintf("%s/%d/%d", f.face.name, f.size, f.flags)
}

// FontFace is a named face with a lazily filled variant cache, one entry
// per size and weight/slant combination.
type FontFace struct {
	name     string
	family   *text.Family
	variants [MaxSize + 1][4]*Font
}

// NewFontFace resolves name to a font family.
func NewFontFace(name string) (*FontFace, error) {
	fam, ok := text.LookupFamily(name)
	if !ok {
		return nil, fmt.Errorf("unknown font face %q", name)
	}
	return &FontFace{name: name, family: fam}, nil
}

func (ff *FontFace) Name() string { return ff.name }

// Font returns the cached variant for size and flags, creating it on
// first use.
func (ff *FontFace) Font(size int, flags Flags) (*Font, error) {
	size = ClampSize(size)
	if flags&^(Bold|Italic) != 0 {
		flags = Normal
	}
	v := flags.variant()
	if f := ff.variants[size][v]; f != nil {
		return f, nil
	}
	face, err := ff.family.NewFace(v, PointSizes[size])
	if err != nil {
		return nil, err
	}
	ascent, descent := text.Extents(face)
	f := &Font{face: ff, size: size, flags: flags, Face: face, ascent: ascent, descent: descent}
	ff.variants[size][v] = f
	return f, nil
}
