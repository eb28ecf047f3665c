package style

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestStack(t *testing.T) (*Stack, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s := NewStack(log.New(&buf))
	if !s.EnterFontFace("helvetica") {
		t.Fatal("EnterFontFace(helvetica) failed")
	}
	return s, &buf
}

func TestStack_DefaultState(t *testing.T) {
	s, _ := newTestStack(t)
	f := s.Font()
	if f == nil {
		t.Fatal("expected a font after EnterFontFace")
	}
	if f.Size() != DefaultSize || f.Flags() != Normal {
		t.Errorf("default font = size %d flags %d, want %d/%d", f.Size(), f.Flags(), DefaultSize, Normal)
	}
	if s.BaseSize() != DefaultSize+1 || s.RelativeSize() != DefaultSize+1 {
		t.Errorf("BaseSize/RelativeSize = %d/%d", s.BaseSize(), s.RelativeSize())
	}
}

func TestStack_SizeClamping(t *testing.T) {
	tests := []struct {
		name      string
		base, rel int
		want      int
	}{
		{"defaults", 4, 4, 3},
		{"largest relative", 4, 7, 6},
		{"beyond scale", 7, 7, 6},
		{"below scale", 1, 1, 0},
		{"mixed", 3, 6, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStack(t)
			s.SetBaseSize(tt.base)
			s.SetRelativeSize(tt.rel)
			if got := s.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
			if got := s.Font().Size(); got != tt.want {
				t.Errorf("Font().Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStack_IncreaseDecrease(t *testing.T) {
	s, _ := newTestStack(t)
	for i := 0; i < 10; i++ {
		s.IncreaseRelativeSize()
	}
	if s.Size() != MaxSize {
		t.Errorf("Size() after increases = %d, want %d", s.Size(), MaxSize)
	}
	s.ResetRelativeSize()
	s.DecreaseBaseSize()
	if s.Size() != DefaultSize-1 {
		t.Errorf("Size() after DecreaseBaseSize = %d, want %d", s.Size(), DefaultSize-1)
	}
	s.ResetBaseSize()
	if s.Size() != DefaultSize {
		t.Errorf("Size() after resets = %d, want %d", s.Size(), DefaultSize)
	}
}

func TestStack_BoldItalicFlags(t *testing.T) {
	s, _ := newTestStack(t)
	s.StartBold()
	s.StartItalic()
	if f := s.Font(); !f.IsBold() || !f.IsItalic() {
		t.Errorf("expected bold italic, got flags %d", f.Flags())
	}
	s.EndBold()
	if f := s.Font(); f.IsBold() || !f.IsItalic() {
		t.Errorf("expected italic only, got flags %d", f.Flags())
	}
	s.EndItalic()
	if f := s.Font(); f.Flags() != Normal {
		t.Errorf("expected normal, got flags %d", f.Flags())
	}
}

func TestStack_EnterExitFontFace(t *testing.T) {
	s, _ := newTestStack(t)
	s.SetRelativeSize(6)
	s.StartBold()

	if !s.EnterFontFace("courier") {
		t.Fatal("EnterFontFace(courier) failed")
	}
	if s.Face().Name() != "courier" {
		t.Errorf("Face() = %q, want courier", s.Face().Name())
	}
	if s.Size() != DefaultSize || s.Flags() != Normal {
		t.Errorf("enter did not reset size/flags: size %d flags %d", s.Size(), s.Flags())
	}
	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}

	s.ExitFontFace()
	if s.Face().Name() != "helvetica" {
		t.Errorf("Face() after exit = %q, want helvetica", s.Face().Name())
	}

	// Exiting past the bottom is a no-op.
	s.ExitFontFace()
	s.ExitFontFace()
	if s.Face() == nil || s.Face().Name() != "helvetica" {
		t.Error("exit on empty stack changed the face")
	}
}

func TestStack_UnknownFaceIsNoop(t *testing.T) {
	s, buf := newTestStack(t)
	before := s.Font()
	if s.EnterFontFace("wingdings") {
		t.Fatal("EnterFontFace(wingdings) should fail")
	}
	if s.Font() != before || s.Depth() != 0 {
		t.Error("unknown face changed the stack")
	}
	if !strings.Contains(buf.String(), "font face unavailable") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestFontFace_VariantCache(t *testing.T) {
	ff, err := NewFontFace("times")
	if err != nil {
		t.Fatal(err)
	}
	a, err := ff.Font(2, Bold)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := ff.Font(2, Bold)
	if a != b {
		t.Error("expected cached variant to be returned")
	}
	c, _ := ff.Font(2, Italic)
	if c == a {
		t.Error("different flags returned the same variant")
	}
	odd, _ := ff.Font(2, Flags(8))
	plain, _ := ff.Font(2, Normal)
	if odd != plain {
		t.Error("unrecognized flags should resolve to normal")
	}
	big, _ := ff.Font(99, Normal)
	if big.Size() != MaxSize {
		t.Errorf("size clamped to %d, want %d", big.Size(), MaxSize)
	}
}

func TestFont_MetricsScale(t *testing.T) {
	ff, err := NewFontFace("helvetica")
	if err != nil {
		t.Fatal(err)
	}
	small, _ := ff.Font(0, Normal)
	large, _ := ff.Font(6, Normal)
	if small.Height() >= large.Height() {
		t.Errorf("Height small=%d large=%d", small.Height(), large.Height())
	}
	if small.Width("hello") >= large.Width("hello") {
		t.Errorf("Width small=%d large=%d", small.Width("hello"), large.Width("hello"))
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}, true},
		{"#0f0", color.RGBA{G: 0xff, A: 0xff}, true},
		{"0000ee", color.RGBA{B: 0xee, A: 0xff}, true},
		{"Navy", color.RGBA{B: 0x80, A: 0xff}, true},
		{"#12", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStack_SetColorName(t *testing.T) {
	s, buf := newTestStack(t)
	if !s.SetColorName("red") {
		t.Fatal("SetColorName(red) failed")
	}
	if s.SetColorName("not-a-color") {
		t.Fatal("SetColorName accepted an unknown name")
	}
	if s.Color() != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Color() = %v, want red", s.Color())
	}
	if !strings.Contains(buf.String(), "unknown color") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}
