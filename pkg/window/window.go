// Package window ties the content tree, layout tree, link registry and
// style state of one document together. A builder fills a window between
// Begin and End; Recalc, Draw and the hit tests then run against what was
// built.
package window

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"hyperflow/pkg/config"
	"hyperflow/pkg/dom"
	"hyperflow/pkg/images"
	"hyperflow/pkg/layout"
	"hyperflow/pkg/links"
	"hyperflow/pkg/render"
	"hyperflow/pkg/script"
	"hyperflow/pkg/style"
)

const (
	indentStep    = 8
	defaultFace   = "helvetica"
	canvasWidth   = 300
	canvasHeight  = 150
	placeholderPx = 24
)

type canvasEntry struct {
	box     *layout.CanvasBox
	surface *render.Canvas
}

type tableFrame struct {
	box    *layout.TableBox
	row    *layout.TableRow
	cell   *layout.TableCell
	header bool
}

type linkFrame struct {
	prev   color.RGBA
	opened bool
}

// Window is one document view.
type Window struct {
	ID uuid.UUID

	cfg     config.Config
	logger  *log.Logger
	session *Session

	tree   *dom.Tree
	layout *layout.Manager
	root   *layout.Area
	links  *links.Registry
	style  *style.Stack
	images *images.Loader
	script *script.Engine

	named      map[string]image.Image
	canvases   map[*dom.Node]*canvasEntry
	tables     []*tableFrame
	linkFrames []linkFrame

	title  string
	target string

	bg, fg     color.RGBA
	linkColor  color.RGBA
	selection  color.RGBA
	marginX    int
	marginY    int
	width      int
	height     int
	docW, docH int
	scrollX    int
	scrollY    int
	inRecalc   bool
	hover      *links.AnchorLink

	baseDir  string
	fetch    images.FetchFunc
	navigate func(dest string)
	status   func(msg string)
	redraw   func()
	errOut   io.Writer
}

// Option configures a window at construction.
type Option func(*Window)

func WithLogger(l *log.Logger) Option {
	return func(w *Window) { w.logger = l }
}

func WithConfig(c config.Config) Option {
	return func(w *Window) { w.cfg = c }
}

// WithNavigator sets the callback run when a link to another document is
// activated.
func WithNavigator(fn func(dest string)) Option {
	return func(w *Window) { w.navigate = fn }
}

// WithStatus sets the callback receiving the title of the hovered link,
// or "" when the pointer leaves a link.
func WithStatus(fn func(msg string)) Option {
	return func(w *Window) { w.status = fn }
}

// WithRedraw sets the callback run when the window needs repainting
// outside of a resize, such as after a script changes a selection.
func WithRedraw(fn func()) Option {
	return func(w *Window) { w.redraw = fn }
}

func WithImageFetch(fn images.FetchFunc) Option {
	return func(w *Window) { w.fetch = fn }
}

// WithBaseDir sets the directory relative image paths resolve against.
func WithBaseDir(dir string) Option {
	return func(w *Window) { w.baseDir = dir }
}

func WithErrorOutput(out io.Writer) Option {
	return func(w *Window) { w.errOut = out }
}

// New returns an empty window. Most callers use Session.Open instead.
func New(s *Session, opts ...Option) *Window {
	w := &Window{
		ID:      uuid.New(),
		cfg:     config.Default(),
		session: s,
		named:   make(map[string]image.Image),
		errOut:  os.Stderr,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		if s != nil {
			w.logger = s.logger
		} else {
			w.logger = log.Default()
		}
	}
	w.logger = w.logger.With("window", w.ID.String()[:8])

	w.fg = config.Color(w.cfg.Colors.Foreground)
	w.bg = config.Color(w.cfg.Colors.Background)
	w.linkColor = config.Color(w.cfg.Colors.Link)
	w.selection = config.Color(w.cfg.Colors.Selection)
	w.marginX, w.marginY = w.cfg.Window.Margin, w.cfg.Window.Margin
	w.width, w.height = w.cfg.Window.Width, w.cfg.Window.Height

	w.tree = dom.NewTree(dom.Defaults{}, w.logger)
	w.layout = layout.NewManager(w.logger)
	w.root = layout.NewArea()
	w.links = links.NewRegistry(w.logger)
	w.style = style.NewStack(w.logger)
	w.images = images.NewLoader(w.baseDir, w.fetch)
	w.canvases = make(map[*dom.Node]*canvasEntry)
	return w
}

func (w *Window) Logger() *log.Logger       { return w.logger }
func (w *Window) Config() config.Config     { return w.cfg }
func (w *Window) Tree() *dom.Tree           { return w.tree }
func (w *Window) Links() *links.Registry    { return w.links }
func (w *Window) Root() *layout.Area        { return w.root }
func (w *Window) Style() *style.Stack       { return w.style }
func (w *Window) Images() *images.Loader    { return w.images }
func (w *Window) Title() string             { return w.title }
func (w *Window) Background() color.RGBA    { return w.bg }
func (w *Window) Size() (width, height int) { return w.width, w.height }

// SetBaseDir changes where relative image paths and file links resolve.
func (w *Window) SetBaseDir(dir string) {
	w.baseDir = dir
	w.images.SetBaseDir(dir)
	w.links.Getwd = func() (string, error) { return dir, nil }
}

// Close removes the window from its session.
func (w *Window) Close() {
	if w.session != nil {
		w.session.Close(w)
	}
}

// DisplayError shows msg to the user unless the window is quiet.
func (w *Window) DisplayError(msg string) {
	if w.cfg.Behavior.Quiet || w.errOut == nil {
		return
	}
	fmt.Fprintln(w.errOut, msg)
}

func (w *Window) requestRedraw() {
	if w.redraw != nil {
		w.redraw()
	}
}

// GetObject looks up a content node by id.
func (w *Window) GetObject(id string) *dom.Node { return w.tree.GetObject(id) }

// SetSelected changes the selection state of n and asks for a redraw.
func (w *Window) SetSelected(n *dom.Node, selected bool) {
	w.tree.SetSelected(n, selected)
	w.requestRedraw()
}

// Canvas returns the drawing surface of a canvas node, or nil.
func (w *Window) Canvas(n *dom.Node) *render.Canvas {
	if e, ok := w.canvases[n]; ok {
		return e.surface
	}
	return nil
}

// ResizeCanvas changes the size of a canvas node and lays the document out
// again.
func (w *Window) ResizeCanvas(n *dom.Node, width, height int) {
	e, ok := w.canvases[n]
	if !ok {
		w.logger.Warn("resize of a node that is not a canvas", "id", n.ID)
		return
	}
	e.surface.Resize(width, height)
	e.box.Image = e.surface.Image()
	e.box.SetSize(e.surface.Width(), e.surface.Height())
}

func (w *Window) relayout() {
	if w.width <= 0 || w.height <= 0 || w.inRecalc {
		return
	}
	w.Recalc(w.width, w.height)
	w.requestRedraw()
}
