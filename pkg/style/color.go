package style

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts #rgb, #rrggbb, bare hex as written in old HTML
// attributes, and CSS color names.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, false
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return color.RGBA{}, false
		}
		r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
		return color.RGBA{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 0xff}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
	}
	return color.RGBA{}, false
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) color.RGBA {
	c, ok := ParseColor(s)
	if !ok {
		panic("style: invalid color " + strconv.Quote(s))
	}
	return c
}
