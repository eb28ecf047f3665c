package text

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Variant indexes the four members of a family. The values match the
// style package's bold and italic flag bits.
type Variant int

const (
	Regular Variant = iota
	Bold
	Italic
	BoldItalic
)

// Family holds the TrueType data for the four variants of one design.
// Parsing happens once per process; the parsed fonts are read-only.
type Family struct {
	Name string
	data [4][]byte

	once   sync.Once
	parsed [4]*truetype.Font
	err    error
}

func newFamily(name string, regular, bold, italic, boldItalic []byte) *Family {
	return &Family{Name: name, data: [4][]byte{regular, bold, italic, boldItalic}}
}

var (
	Sans  = newFamily("sans", goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF)
	Serif = newFamily("serif", gomedium.TTF, gobold.TTF, gomediumitalic.TTF, gobolditalic.TTF)
	Mono  = newFamily("mono", gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF)
)

var familyAliases = map[string]*Family{
	"helvetica":  Sans,
	"arial":      Sans,
	"sans":       Sans,
	"sans-serif": Sans,
	"go":         Sans,
	"times":      Serif,
	"serif":      Serif,
	"courier":    Mono,
	"monospace":  Mono,
	"mono":       Mono,
	"fixed":      Mono,
}

// LookupFamily resolves a face name, which may be a comma separated list
// of candidates, to the first family it names.
func LookupFamily(name string) (*Family, bool) {
	for _, part := range strings.Split(name, ",") {
		key := strings.ToLower(strings.Trim(strings.TrimSpace(part), `"'`))
		if f, ok := familyAliases[key]; ok {
			return f, true
		}
	}
	return nil, false
}

func (f *Family) parse() {
	for i, data := range f.data {
		ft, err := truetype.Parse(data)
		if err != nil {
			f.err = fmt.Errorf("parse %s variant %d: %w", f.Name, i, err)
			return
		}
		f.parsed[i] = ft
	}
}

// Font returns the parsed font for v.
func (f *Family) Font(v Variant) (*truetype.Font, error) {
	f.once.Do(f.parse)
	if f.err != nil {
		return nil, f.err
	}
	if v < Regular || v > BoldItalic {
		v = Regular
	}
	return f.parsed[v], nil
}

// NewFace creates a face for v at the given point size. Faces are not safe
// for concurrent use and belong to a single window.
func (f *Family) NewFace(v Variant, points float64) (font.Face, error) {
	ft, err := f.Font(v)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ft, &truetype.Options{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Width returns the advance of s in pixels. For text with embedded
// newlines it is the width of the widest line.
func Width(face font.Face, s string) int {
	widest := 0
	for _, line := range Lines(s) {
		if w := font.MeasureString(face, line).Ceil(); w > widest {
			widest = w
		}
	}
	return widest
}

// Extents returns the ascent and descent of face in pixels.
func Extents(face font.Face) (ascent, descent int) {
	m := face.Metrics()
	return m.Ascent.Ceil(), m.Descent.Ceil()
}
