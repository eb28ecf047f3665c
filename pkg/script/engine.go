// Package script runs page scripts against the content tree of a window.
package script

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
	"go.uber.org/multierr"

	"hyperflow/pkg/dom"
	"hyperflow/pkg/render"
)

// Host is the window side of the bridge. Canvas returns nil for nodes
// that are not canvases.
type Host interface {
	GetObject(id string) *dom.Node
	SetSelected(n *dom.Node, selected bool)
	Canvas(n *dom.Node) *render.Canvas
	ResizeCanvas(n *dom.Node, w, h int)
}

// Engine collects nodes and scripts while a document is built and runs
// the scripts once the document is complete.
type Engine struct {
	vm      *goja.Runtime
	host    Host
	logger  *log.Logger
	dom     *domContext
	scripts []string
	loaded  []goja.Callable
}

// New creates an engine with a fresh goja runtime. host may be nil, in
// which case lookups use the nodes reported through NodeAdded.
func New(host Host, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	vm := goja.New()
	e := &Engine{vm: vm, host: host, logger: logger}

	c := &consoleAPI{logger: logger}
	c.register(vm)
	e.dom = registerDocument(vm, e)
	e.registerWindow()
	return e
}

// NodeAdded implements dom.Observer.
func (e *Engine) NodeAdded(n *dom.Node) error {
	if n == nil {
		return errors.New("nil node")
	}
	e.dom.nodes = append(e.dom.nodes, n)
	return nil
}

// AddScript queues src to run on the next Run.
func (e *Engine) AddScript(src string) {
	e.scripts = append(e.scripts, src)
}

// Pending reports how many scripts are queued.
func (e *Engine) Pending() int { return len(e.scripts) }

// Run executes the queued scripts in order, then the load handlers they
// registered. A failing script does not stop the ones after it; all
// failures are returned together.
func (e *Engine) Run() error {
	var errs error
	scripts := e.scripts
	e.scripts = nil
	for i, src := range scripts {
		if _, err := e.vm.RunString(src); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("script %d: %w", i, err))
		}
	}
	handlers := e.loaded
	e.loaded = nil
	if fn, ok := goja.AssertFunction(e.window().Get("onload")); ok {
		handlers = append(handlers, fn)
	}
	for _, fn := range handlers {
		if _, err := fn(goja.Undefined()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("load handler: %w", err))
		}
	}
	return errs
}

func (e *Engine) window() *goja.Object {
	return e.vm.Get("window").ToObject(e.vm)
}

func (e *Engine) registerWindow() {
	win := e.vm.NewObject()
	win.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 || call.Arguments[0].String() != "load" {
			return goja.Undefined()
		}
		if fn, ok := goja.AssertFunction(call.Arguments[1]); ok {
			e.loaded = append(e.loaded, fn)
		}
		return goja.Undefined()
	})
	win.Set("document", e.vm.Get("document"))
	e.vm.Set("window", win)
}

func (e *Engine) lookup(id string) *dom.Node {
	if e.host != nil {
		return e.host.GetObject(id)
	}
	for _, n := range e.dom.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (e *Engine) canvas(n *dom.Node) *render.Canvas {
	if e.host == nil {
		return nil
	}
	return e.host.Canvas(n)
}

func (e *Engine) setSelected(n *dom.Node, selected bool) {
	if e.host != nil {
		e.host.SetSelected(n, selected)
		return
	}
	n.Selected = selected
}
