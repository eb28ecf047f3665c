package layout

import (
	"image/color"

	"github.com/charmbracelet/log"
)

type Placement int

const (
	Below Placement = iota
	Right
)

func (p Placement) String() string {
	if p == Right {
		return "right"
	}
	return "below"
}

type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

type VAlign int

const (
	AlignBottom VAlign = iota
	AlignMiddle
	AlignTop
)

// Area is a rectangular flow region holding rows of cells. X and Y are
// set when the area is drawn; every other position is relative.
type Area struct {
	X, Y        int
	Width       int // fixed width, 0 to use the available width
	Height      int // minimum height
	IndentLeft  int
	IndentRight int
	HAlign      HAlign
	VAlign      VAlign
	Background  *color.RGBA

	cells []*Cell

	fmtWidth     int
	fmtHeight    int
	contentWidth int
}

func NewArea() *Area { return &Area{} }

func (a *Area) Kind() Kind { return KindArea }
func (*Area) isBox()       {}

func (a *Area) Cells() []*Cell { return a.cells }

// FormattedWidth and FormattedHeight report the size from the last Format.
func (a *Area) FormattedWidth() int  { return a.fmtWidth }
func (a *Area) FormattedHeight() int { return a.fmtHeight }

// ContentWidth is the width actually used by content in the last Format.
func (a *Area) ContentWidth() int { return a.contentWidth }

// NewCell closes the current cell and opens one placed relative to it.
// The new cell takes the area's current indents and alignment.
func (a *Area) NewCell(p Placement) *Cell {
	c := &Cell{
		Placement:   p,
		IndentLeft:  a.IndentLeft,
		IndentRight: a.IndentRight,
		HAlign:      a.HAlign,
	}
	a.cells = append(a.cells, c)
	return c
}

// CurrentCell returns the open cell, creating the first one if needed.
func (a *Area) CurrentCell() *Cell {
	if len(a.cells) == 0 {
		return a.NewCell(Below)
	}
	return a.cells[len(a.cells)-1]
}

// Cell is a row, or part of a row when placed to the right of its
// predecessor.
type Cell struct {
	Placement   Placement
	IndentLeft  int
	IndentRight int
	HAlign      HAlign

	subCells []*SubCell

	width   int
	ascent  int
	descent int

	x, y   int
	height int
	lines  []line
}

func (c *Cell) SubCells() []*SubCell { return c.subCells }

func (c *Cell) NewSubCell(p Placement, breakup bool) *SubCell {
	s := &SubCell{Placement: p, Breakup: breakup, cell: c}
	c.subCells = append(c.subCells, s)
	return s
}

// CurrentSubCell returns the open sub-cell, creating one if needed.
func (c *Cell) CurrentSubCell() *SubCell {
	if len(c.subCells) == 0 {
		return c.NewSubCell(Right, false)
	}
	return c.subCells[len(c.subCells)-1]
}

func (c *Cell) AddBox(b Box) {
	c.CurrentSubCell().AddBox(b)
}

// Width is the running width of the widest sub-cell, and after Format
// the width of the widest line.
func (c *Cell) Width() int   { return c.width }
func (c *Cell) Ascent() int  { return c.ascent }
func (c *Cell) Descent() int { return c.descent }

// Position is the offset of the cell inside its area after Format.
func (c *Cell) Position() (x, y int) { return c.x, c.y }

// FormattedHeight is the height of all lines after Format.
func (c *Cell) FormattedHeight() int { return c.height }

// Lines reports the number of lines the last Format produced.
func (c *Cell) Lines() int { return len(c.lines) }

func (c *Cell) updateExtents(s *SubCell) {
	if s.width > c.width {
		c.width = s.width
	}
	if s.ascent > c.ascent {
		c.ascent = s.ascent
	}
	if s.descent > c.descent {
		c.descent = s.descent
	}
}

// SubCell is an inline run inside a cell. A Breakup run is laid out as
// one unit and never split across lines.
type SubCell struct {
	Placement Placement
	Breakup   bool

	boxes []Box
	cell  *Cell

	width   int
	ascent  int
	descent int
}

func (s *SubCell) Boxes() []Box { return s.boxes }

func (s *SubCell) AddBox(b Box) { s.boxes = append(s.boxes, b) }

func (s *SubCell) Width() int   { return s.width }
func (s *SubCell) Ascent() int  { return s.ascent }
func (s *SubCell) Descent() int { return s.descent }

// UpdateWidth accumulates horizontal extent while boxes are added.
func (s *SubCell) UpdateWidth(w int) {
	s.width += w
	if s.cell != nil {
		s.cell.updateExtents(s)
	}
}

// fitWidth raises the width to w, the extent of the sub-cell on one
// formatted line.
func (s *SubCell) fitWidth(w int) {
	if w > s.width {
		s.width = w
	}
	if s.cell != nil {
		s.cell.updateExtents(s)
	}
}

// UpdateHeight raises the running ascent and descent.
func (s *SubCell) UpdateHeight(ascent, descent int) {
	if ascent > s.ascent {
		s.ascent = ascent
	}
	if descent > s.descent {
		s.descent = descent
	}
	if s.cell != nil {
		s.cell.updateExtents(s)
	}
}

func (s *SubCell) resetExtents() {
	s.width, s.ascent, s.descent = 0, 0, 0
}

// Manager holds the stack of areas being filled while a document is built.
type Manager struct {
	logger *log.Logger
	areas  []*Area
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{logger: logger}
}

// Init drops every open area.
func (m *Manager) Init() { m.areas = m.areas[:0] }

func (m *Manager) StartArea(a *Area) { m.areas = append(m.areas, a) }

// EndArea closes the innermost area. With none open it does nothing.
func (m *Manager) EndArea() {
	if len(m.areas) == 0 {
		return
	}
	m.areas = m.areas[:len(m.areas)-1]
}

func (m *Manager) Depth() int { return len(m.areas) }

func (m *Manager) CurrentArea() *Area {
	if len(m.areas) == 0 {
		return nil
	}
	return m.areas[len(m.areas)-1]
}

func (m *Manager) CurrentCell() *Cell {
	a := m.CurrentArea()
	if a == nil {
		return nil
	}
	return a.CurrentCell()
}

func (m *Manager) CurrentSubCell() *SubCell {
	c := m.CurrentCell()
	if c == nil {
		return nil
	}
	return c.CurrentSubCell()
}

func (m *Manager) NewCellBelow() *Cell { return m.newCell(Below) }
func (m *Manager) NewCellRight() *Cell { return m.newCell(Right) }

func (m *Manager) newCell(p Placement) *Cell {
	a := m.CurrentArea()
	if a == nil {
		m.logger.Error("new cell outside of an area")
		return nil
	}
	return a.NewCell(p)
}

func (m *Manager) NewSubCellBelow(breakup bool) *SubCell { return m.newSubCell(Below, breakup) }
func (m *Manager) NewSubCellRight(breakup bool) *SubCell { return m.newSubCell(Right, breakup) }

func (m *Manager) newSubCell(p Placement, breakup bool) *SubCell {
	c := m.CurrentCell()
	if c == nil {
		m.logger.Error("new sub-cell outside of an area")
		return nil
	}
	return c.NewSubCell(p, breakup)
}

// SetAlign sets the alignment of the current area for cells opened from
// now on and of the current cell.
func (m *Manager) SetAlign(h HAlign, v VAlign) {
	a := m.CurrentArea()
	if a == nil {
		return
	}
	a.HAlign = h
	a.VAlign = v
	if len(a.cells) > 0 {
		a.cells[len(a.cells)-1].HAlign = h
	}
}

// AddBox appends b to the current sub-cell and records any size known
// before formatting.
func (m *Manager) AddBox(b Box) {
	s := m.CurrentSubCell()
	if s == nil {
		m.logger.Error("box added outside of an area", "kind", b.Kind())
		return
	}
	s.AddBox(b)
	if w, a, d, ok := intrinsicSize(b); ok {
		s.UpdateWidth(w)
		s.UpdateHeight(a, d)
	}
}

func (m *Manager) UpdateSubCellWidth(w int) {
	if s := m.CurrentSubCell(); s != nil {
		s.UpdateWidth(w)
	}
}

func (m *Manager) UpdateSubCellHeight(ascent, descent int) {
	if s := m.CurrentSubCell(); s != nil {
		s.UpdateHeight(ascent, descent)
	}
}
