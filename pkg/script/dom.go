package script

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"hyperflow/pkg/dom"
)

// domContext maps content nodes to the JS objects standing for them, so
// the same node always yields the same object.
type domContext struct {
	vm     *goja.Runtime
	engine *Engine
	nodes  []*dom.Node
	cache  map[*dom.Node]goja.Value
}

func registerDocument(vm *goja.Runtime, e *Engine) *domContext {
	ctx := &domContext{vm: vm, engine: e, cache: make(map[*dom.Node]goja.Value)}

	doc := vm.NewDynamicObject(&documentAccessor{ctx: ctx})
	vm.Set("document", doc)
	return ctx
}

// documentAccessor exposes document.getElementById and document.all,
// which is live over every element added so far.
type documentAccessor struct {
	ctx *domContext
}

func (d *documentAccessor) Get(key string) goja.Value {
	vm := d.ctx.vm
	switch key {
	case "getElementById":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			n := d.ctx.engine.lookup(call.Arguments[0].String())
			if n == nil {
				return goja.Null()
			}
			return d.ctx.elementProxy(n)
		})
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return d.ctx.elementArray(nil)
			}
			tag := strings.ToLower(call.Arguments[0].String())
			var out []*dom.Node
			for _, n := range d.ctx.elements() {
				if n.Tag == tag {
					out = append(out, n)
				}
			}
			return d.ctx.elementArray(out)
		})
	case "all":
		return d.ctx.elementArray(d.ctx.elements())
	}
	return goja.Undefined()
}

func (d *documentAccessor) Set(string, goja.Value) bool { return false }

func (d *documentAccessor) Has(key string) bool {
	switch key {
	case "getElementById", "getElementsByTagName", "all":
		return true
	}
	return false
}

func (d *documentAccessor) Delete(string) bool { return false }

func (d *documentAccessor) Keys() []string {
	return []string{"getElementById", "getElementsByTagName", "all"}
}

func (ctx *domContext) elements() []*dom.Node {
	out := make([]*dom.Node, 0, len(ctx.nodes))
	for _, n := range ctx.nodes {
		if n.Kind != dom.KindText {
			out = append(out, n)
		}
	}
	return out
}

func (ctx *domContext) elementArray(nodes []*dom.Node) goja.Value {
	arr := ctx.vm.NewArray()
	for i, n := range nodes {
		arr.Set(strconv.Itoa(i), ctx.elementProxy(n))
	}
	arr.Set("length", len(nodes))
	return arr
}

func (ctx *domContext) elementProxy(n *dom.Node) goja.Value {
	if v, ok := ctx.cache[n]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: n})
	ctx.cache[n] = v
	return v
}

type elementAccessor struct {
	ctx     *domContext
	node    *dom.Node
	context goja.Value
}

var elementKeys = []string{
	"id", "tagName", "nodeType", "kind", "selected", "textContent",
	"className", "parentNode", "children", "childNodes",
	"getAttribute", "setAttribute", "hasAttribute",
	"width", "height", "getContext",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node
	switch key {
	case "id":
		return vm.ToValue(n.ID)
	case "tagName":
		if n.Kind == dom.KindText {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.Tag))
	case "nodeType":
		if n.Kind == dom.KindText {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "kind":
		return vm.ToValue(n.Kind.String())
	case "selected":
		return vm.ToValue(n.Selected)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "parentNode":
		if n.Parent == nil {
			return goja.Null()
		}
		return e.ctx.elementProxy(n.Parent)
	case "children":
		var kids []*dom.Node
		for _, c := range n.Children {
			if c.Kind != dom.KindText {
				kids = append(kids, c)
			}
		}
		return e.ctx.elementArray(kids)
	case "childNodes":
		return e.ctx.elementArray(n.Children)
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := n.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			n.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := n.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "width", "height", "getContext":
		return e.canvasGet(key)
	}
	return goja.Undefined()
}

func (e *elementAccessor) canvasGet(key string) goja.Value {
	vm := e.ctx.vm
	cv := e.ctx.engine.canvas(e.node)
	if cv == nil {
		return goja.Undefined()
	}
	switch key {
	case "width":
		return vm.ToValue(cv.Width())
	case "height":
		return vm.ToValue(cv.Height())
	}
	return vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || call.Arguments[0].String() != "2d" {
			return goja.Null()
		}
		if e.context == nil {
			e.context = vm.NewDynamicObject(&context2D{vm: vm, canvas: cv})
		}
		return e.context
	})
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "selected":
		e.ctx.engine.setSelected(e.node, val.ToBoolean())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "width", "height":
		cv := e.ctx.engine.canvas(e.node)
		if cv == nil || e.ctx.engine.host == nil {
			return false
		}
		w, h := cv.Width(), cv.Height()
		if key == "width" {
			w = int(val.ToInteger())
		} else {
			h = int(val.ToInteger())
		}
		e.ctx.engine.host.ResizeCanvas(e.node, w, h)
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }
