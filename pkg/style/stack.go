package style

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/log"
)

// Stack is the per-window style state used while a document is built.
// Faces are loaded on first use and kept for the lifetime of the stack.
type Stack struct {
	logger *log.Logger

	faces map[string]*FontFace
	saved []*FontFace
	face  *FontFace

	baseSize int
	relSize  int
	flags    Flags
	color    color.RGBA

	font *Font
}

// NewStack returns an empty stack. EnterFontFace must be called before
// Font returns a usable value.
func NewStack(logger *log.Logger) *Stack {
	if logger == nil {
		logger = log.Default()
	}
	return &Stack{
		logger:   logger,
		faces:    make(map[string]*FontFace),
		baseSize: DefaultSize,
		relSize:  DefaultSize,
		color:    color.RGBA{A: 0xff},
	}
}

// Reset drops the face stack and restores default sizes, flags and color.
// Loaded faces stay cached.
func (s *Stack) Reset() {
	s.saved = s.saved[:0]
	s.face = nil
	s.font = nil
	s.baseSize = DefaultSize
	s.relSize = DefaultSize
	s.flags = Normal
	s.color = color.RGBA{A: 0xff}
}

func (s *Stack) lookupFace(name string) (*FontFace, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if ff, ok := s.faces[key]; ok {
		return ff, true
	}
	ff, err := NewFontFace(name)
	if err != nil {
		s.logger.Warn("font face unavailable", "face", name, "err", err)
		return nil, false
	}
	s.faces[key] = ff
	return ff, true
}

// EnterFontFace makes name the current face and resets size and weight.
// It returns false, leaving the current face in place, if name cannot be
// resolved.
func (s *Stack) EnterFontFace(name string) bool {
	ff, ok := s.lookupFace(name)
	if !ok {
		return false
	}
	if s.face != nil {
		s.saved = append(s.saved, s.face)
	}
	s.face = ff
	s.baseSize = DefaultSize
	s.relSize = DefaultSize
	s.flags = Normal
	s.update()
	return true
}

// ExitFontFace restores the face that was current before the matching
// EnterFontFace. Exiting with nothing saved is a no-op.
func (s *Stack) ExitFontFace() {
	n := len(s.saved)
	if n == 0 {
		return
	}
	s.face = s.saved[n-1]
	s.saved = s.saved[:n-1]
	s.update()
}

// Depth reports the number of saved faces.
func (s *Stack) Depth() int { return len(s.saved) }

// Face returns the current face, or nil before the first EnterFontFace.
func (s *Stack) Face() *FontFace { return s.face }

// SetBaseSize takes a 1-based HTML size.
func (s *Stack) SetBaseSize(n int) {
	s.baseSize = n - 1
	s.update()
}

func (s *Stack) BaseSize() int { return s.baseSize + 1 }

func (s *Stack) ResetBaseSize() {
	s.baseSize = DefaultSize
	s.update()
}

func (s *Stack) IncreaseBaseSize() {
	s.baseSize++
	s.update()
}

func (s *Stack) DecreaseBaseSize() {
	s.baseSize--
	s.update()
}

// SetRelativeSize takes a 1-based HTML size.
func (s *Stack) SetRelativeSize(n int) {
	s.relSize = n - 1
	s.update()
}

func (s *Stack) RelativeSize() int { return s.relSize + 1 }

func (s *Stack) ResetRelativeSize() {
	s.relSize = DefaultSize
	s.update()
}

func (s *Stack) IncreaseRelativeSize() {
	s.relSize++
	s.update()
}

func (s *Stack) DecreaseRelativeSize() {
	s.relSize--
	s.update()
}

// Size is the effective index on the 0..6 scale.
func (s *Stack) Size() int {
	return ClampSize(s.relSize + s.baseSize - DefaultSize)
}

func (s *Stack) StartBold()   { s.setFlag(Bold, true) }
func (s *Stack) EndBold()     { s.setFlag(Bold, false) }
func (s *Stack) StartItalic() { s.setFlag(Italic, true) }
func (s *Stack) EndItalic()   { s.setFlag(Italic, false) }

func (s *Stack) setFlag(f Flags, on bool) {
	if on {
		s.flags |= f
	} else {
		s.flags &^= f
	}
	s.update()
}

func (s *Stack) Flags() Flags { return s.flags }

func (s *Stack) SetColor(c color.RGBA) { s.color = c }

// SetColorName parses name and makes it current. Unknown names are logged
// and ignored.
func (s *Stack) SetColorName(name string) bool {
	c, ok := ParseColor(name)
	if !ok {
		s.logger.Warn("unknown color", "color", name)
		return false
	}
	s.color = c
	return true
}

func (s *Stack) Color() color.RGBA { return s.color }

// Font returns the effective font for the current face, size and flags.
func (s *Stack) Font() *Font { return s.font }

func (s *Stack) update() {
	if s.face == nil {
		return
	}
	f, err := s.face.Font(s.Size(), s.flags)
	if err != nil {
		s.logger.Error("font variant unavailable", "face", s.face.name, "size", s.Size(), "err", err)
		return
	}
	s.font = f
}
