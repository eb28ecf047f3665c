// Package render turns positioned paint calls into pixels or into an
// inspectable instruction list.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"hyperflow/pkg/style"
)

// Sink receives paint instructions in window coordinates. DrawText takes
// the baseline position; text may contain newlines, each further line sits
// one font height lower.
type Sink interface {
	DrawText(x, y int, s string, f *style.Font, c color.RGBA)
	DrawImage(x, y int, img image.Image)
	FillRect(x, y, w, h int, c color.RGBA)
	DrawRect(x, y, w, h int, c color.RGBA)
	DrawLine(x1, y1, x2, y2 int, c color.RGBA)
	DrawCircle(x, y, r int, c color.RGBA)
	FillCircle(x, y, r int, c color.RGBA)
}

// Discard drops everything.
type Discard struct{}

func (Discard) DrawText(int, int, string, *style.Font, color.RGBA) {}
func (Discard) DrawImage(int, int, image.Image)                    {}
func (Discard) FillRect(int, int, int, int, color.RGBA)            {}
func (Discard) DrawRect(int, int, int, int, color.RGBA)            {}
func (Discard) DrawLine(int, int, int, int, color.RGBA)            {}
func (Discard) DrawCircle(int, int, int, color.RGBA)               {}
func (Discard) FillCircle(int, int, int, color.RGBA)               {}

type Op int

const (
	OpText Op = iota
	OpImage
	OpFillRect
	OpDrawRect
	OpLine
	OpCircle
	OpFillCircle
)

var opNames = [...]string{"text", "image", "fill-rect", "rect", "line", "circle", "fill-circle"}

func (o Op) String() string { return opNames[o] }

// Instruction is one recorded paint call. Unused fields are zero.
type Instruction struct {
	Op    Op
	X, Y  int
	W, H  int
	X2    int
	Y2    int
	R     int
	Text  string
	Font  *style.Font
	Color color.RGBA
	Image image.Image
}

func (in Instruction) String() string {
	switch in.Op {
	case OpText:
		return fmt.Sprintf("text %d,%d %q %v", in.X, in.Y, in.Text, in.Font)
	case OpImage:
		b := in.Image.Bounds()
		return fmt.Sprintf("image %d,%d %dx%d", in.X, in.Y, b.Dx(), b.Dy())
	case OpLine:
		return fmt.Sprintf("line %d,%d %d,%d", in.X, in.Y, in.X2, in.Y2)
	case OpCircle, OpFillCircle:
		return fmt.Sprintf("%s %d,%d r%d", in.Op, in.X, in.Y, in.R)
	default:
		return fmt.Sprintf("%s %d,%d %dx%d", in.Op, in.X, in.Y, in.W, in.H)
	}
}

// Recorder keeps every instruction in call order.
type Recorder struct {
	Instructions []Instruction
}

func (r *Recorder) Reset() { r.Instructions = r.Instructions[:0] }

func (r *Recorder) add(in Instruction) { r.Instructions = append(r.Instructions, in) }

func (r *Recorder) DrawText(x, y int, s string, f *style.Font, c color.RGBA) {
	r.add(Instruction{Op: OpText, X: x, Y: y, Text: s, Font: f, Color: c})
}

func (r *Recorder) DrawImage(x, y int, img image.Image) {
	r.add(Instruction{Op: OpImage, X: x, Y: y, Image: img})
}

func (r *Recorder) FillRect(x, y, w, h int, c color.RGBA) {
	r.add(Instruction{Op: OpFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawRect(x, y, w, h int, c color.RGBA) {
	r.add(Instruction{Op: OpDrawRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 int, c color.RGBA) {
	r.add(Instruction{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: c})
}

func (r *Recorder) DrawCircle(x, y, rad int, c color.RGBA) {
	r.add(Instruction{Op: OpCircle, X: x, Y: y, R: rad, Color: c})
}

func (r *Recorder) FillCircle(x, y, rad int, c color.RGBA) {
	r.add(Instruction{Op: OpFillCircle, X: x, Y: y, R: rad, Color: c})
}

// Texts returns the recorded text instructions.
func (r *Recorder) Texts() []Instruction {
	var out []Instruction
	for _, in := range r.Instructions {
		if in.Op == OpText {
			out = append(out, in)
		}
	}
	return out
}

// Dump writes one instruction per line.
func (r *Recorder) Dump(w io.Writer) error {
	for _, in := range r.Instructions {
		if _, err := fmt.Fprintln(w, in); err != nil {
			return err
		}
	}
	return nil
}
