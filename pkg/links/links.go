// Package links tracks hyperlink sources and named destinations together
// with the screen rectangles each one occupied in the last draw.
package links

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

type Type int

const (
	Source Type = iota
	Dest
)

func (t Type) String() string {
	if t == Dest {
		return "dest"
	}
	return "source"
}

// Rect is a hit rectangle with inclusive bounds.
type Rect struct {
	X1, Y1, X2, Y2 int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// AnchorLink is either a link source or a named destination.
type AnchorLink struct {
	Type  Type
	Name  string
	Dest  string
	Title string
	Rects []Rect
}

func (l *AnchorLink) AddRect(x1, y1, x2, y2 int) {
	l.Rects = append(l.Rects, Rect{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// Contains reports whether any rectangle of l contains (x, y).
func (l *AnchorLink) Contains(x, y int) bool {
	for _, r := range l.Rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// Data is the attribute bundle of an anchor.
type Data struct {
	Href   string
	Name   string
	Title  string
	Target string
}

// Registry is the per-window link state.
type Registry struct {
	logger  *log.Logger
	current *AnchorLink
	sources []*AnchorLink
	dests   []*AnchorLink

	// Getwd resolves relative file destinations.
	Getwd func() (string, error)
}

func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{logger: logger, Getwd: os.Getwd}
}

// StartSourceLink opens a link to d.Href. While another link is open the
// call is logged and ignored, and nil is returned.
func (r *Registry) StartSourceLink(d Data) *AnchorLink {
	if r.current != nil {
		r.logger.Error("Invalid link within a link", "href", d.Href)
		return nil
	}
	dest := r.ExpandDest(d.Href)
	if dest == "" {
		dest = "????"
	}
	title := d.Title
	if title == "" {
		title = dest
	}
	l := &AnchorLink{Type: Source, Dest: dest, Title: title}
	r.sources = append(r.sources, l)
	r.current = l
	return l
}

// StartDestLink opens a named destination.
func (r *Registry) StartDestLink(d Data) *AnchorLink {
	if r.current != nil {
		r.logger.Error("Invalid link within a link", "name", d.Name)
		return nil
	}
	title := d.Title
	if title == "" {
		title = d.Name
	}
	l := &AnchorLink{Type: Dest, Name: d.Name, Title: title}
	r.dests = append(r.dests, l)
	r.current = l
	return l
}

func (r *Registry) EndLink() { r.current = nil }

// Current returns the open link, or nil.
func (r *Registry) Current() *AnchorLink { return r.current }

// AddRect adds a rectangle to the open link.
func (r *Registry) AddRect(x1, y1, x2, y2 int) {
	if r.current == nil {
		r.logger.Debug("link rect outside of a link", "x", x1, "y", y1)
		return
	}
	r.current.AddRect(x1, y1, x2, y2)
}

// DeleteLinkRects clears the rectangles of every link and destination.
func (r *Registry) DeleteLinkRects() {
	for _, l := range r.sources {
		l.Rects = l.Rects[:0]
	}
	for _, l := range r.dests {
		l.Rects = l.Rects[:0]
	}
}

// Reset forgets every link, as when a new document is started.
func (r *Registry) Reset() {
	r.current = nil
	r.sources = nil
	r.dests = nil
}

func (r *Registry) Sources() []*AnchorLink { return r.sources }
func (r *Registry) Dests() []*AnchorLink   { return r.dests }

// RectCount totals the rectangles held by all links.
func (r *Registry) RectCount() int {
	n := 0
	for _, l := range r.sources {
		n += len(l.Rects)
	}
	for _, l := range r.dests {
		n += len(l.Rects)
	}
	return n
}

// SourceLink returns the first registered source link with a rectangle
// containing (x, y).
func (r *Registry) SourceLink(x, y int) *AnchorLink {
	for _, l := range r.sources {
		if l.Contains(x, y) {
			return l
		}
	}
	return nil
}

// DestLinkPos returns the first rectangle of the first destination called
// name. ok is false if there is no such destination or it was never drawn.
func (r *Registry) DestLinkPos(name string) (Rect, bool) {
	for _, l := range r.dests {
		if l.Name != name {
			continue
		}
		if len(l.Rects) == 0 {
			return Rect{}, false
		}
		return l.Rects[0], true
	}
	return Rect{}, false
}

// ExpandDest normalizes a link destination. Fragment references are kept
// as they are. A destination without a scheme is a file; relative file
// paths are made absolute against the working directory.
func (r *Registry) ExpandDest(dest string) string {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") {
		return dest
	}
	scheme, rest := "file", dest
	if i := strings.IndexByte(dest, ':'); i > 0 {
		scheme, rest = strings.ToLower(dest[:i]), dest[i+1:]
	}
	rest = strings.TrimPrefix(rest, "//")
	if scheme == "file" && !filepath.IsAbs(rest) {
		if r.Getwd != nil {
			if wd, err := r.Getwd(); err == nil {
				rest = filepath.Join(wd, rest)
			} else {
				r.logger.Warn("cannot resolve relative link", "dest", dest, "err", err)
			}
		}
	}
	return scheme + "://" + rest
}
