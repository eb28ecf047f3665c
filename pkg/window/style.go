package window

import (
	"image/color"

	"hyperflow/pkg/text"
)

// EnterFontFace makes face current until the matching ExitFontFace.
func (w *Window) EnterFontFace(face string) bool { return w.style.EnterFontFace(face) }
func (w *Window) ExitFontFace()                  { w.style.ExitFontFace() }

// SetBaseFontSize and SetFontSize take 1-based HTML sizes.
func (w *Window) SetBaseFontSize(n int)         { w.style.SetBaseSize(n) }
func (w *Window) ResetBaseFontSize()            { w.style.ResetBaseSize() }
func (w *Window) IncreaseBaseFontSize()         { w.style.IncreaseBaseSize() }
func (w *Window) DecreaseBaseFontSize()         { w.style.DecreaseBaseSize() }
func (w *Window) SetFontSize(n int)             { w.style.SetRelativeSize(n) }
func (w *Window) ResetFontSize()                { w.style.ResetRelativeSize() }
func (w *Window) IncreaseFontSize()             { w.style.IncreaseRelativeSize() }
func (w *Window) DecreaseFontSize()             { w.style.DecreaseRelativeSize() }
func (w *Window) StartBold()                    { w.style.StartBold() }
func (w *Window) EndBold()                      { w.style.EndBold() }
func (w *Window) StartItalic()                  { w.style.StartItalic() }
func (w *Window) EndItalic()                    { w.style.EndItalic() }
func (w *Window) SetColor(c color.RGBA)         { w.style.SetColor(c) }
func (w *Window) FontColor() color.RGBA         { return w.style.Color() }
func (w *Window) SetFontColor(name string) bool { return w.style.SetColorName(name) }

// SetWhiteSpace sets the white space mode of the current object and so of
// everything added inside it.
func (w *Window) SetWhiteSpace(ws text.WhiteSpace) {
	if n := w.tree.CurrentObject(); n != nil {
		n.WhiteSpace = &ws
	}
}

func (w *Window) SetUnderline(on bool) {
	if n := w.tree.CurrentObject(); n != nil {
		n.Underline = &on
	}
}

// SetObjectBackground paints the text of the current object over c.
func (w *Window) SetObjectBackground(c color.RGBA) {
	if n := w.tree.CurrentObject(); n != nil {
		n.Background = &c
	}
}

func (w *Window) SetTitle(title string) { w.title = title }

// SetBackground sets the color the whole window is cleared to.
func (w *Window) SetBackground(c color.RGBA) { w.bg = c }

// SetForeground changes the document text color. Text already added
// without an explicit color follows the change.
func (w *Window) SetForeground(c color.RGBA) {
	w.fg = c
	d := w.tree.Defaults()
	d.Foreground = c
	w.tree.SetDefaults(d)
	if root := w.tree.Root(); root != nil {
		root.Foreground = nil
	}
	if len(w.linkFrames) == 0 {
		w.style.SetColor(c)
	}
}

func (w *Window) SetLinkColor(c color.RGBA) { w.linkColor = c }

// SetMargins sets the space kept around the document.
func (w *Window) SetMargins(x, y int) {
	w.marginX, w.marginY = max(x, 0), max(y, 0)
}

// SetTarget names the anchor to scroll to on the next Resize.
func (w *Window) SetTarget(name string) { w.target = name }

func (w *Window) Target() string { return w.target }

// AddScript queues src to run when the document ends.
func (w *Window) AddScript(src string) {
	if w.script == nil {
		w.logger.Debug("script ignored, scripting disabled")
		return
	}
	w.script.AddScript(src)
}
