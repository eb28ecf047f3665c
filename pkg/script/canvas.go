package script

import (
	"fmt"
	"image/color"

	"github.com/dop251/goja"

	"hyperflow/pkg/render"
	"hyperflow/pkg/style"
)

// context2D is the object returned by canvas.getContext("2d").
type context2D struct {
	vm     *goja.Runtime
	canvas *render.Canvas
}

var context2DKeys = []string{
	"fillStyle", "strokeStyle", "lineWidth",
	"fillRect", "strokeRect", "clearRect",
	"beginPath", "moveTo", "lineTo", "rect", "arc", "closePath", "fill", "stroke",
	"fillText", "save", "restore", "translate", "scale", "rotate",
}

func args(call goja.FunctionCall, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(call.Arguments); i++ {
		out[i] = call.Arguments[i].ToFloat()
	}
	return out
}

func (c *context2D) method(n int, fn func(a []float64)) goja.Value {
	return c.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		fn(args(call, n))
		return goja.Undefined()
	})
}

func (c *context2D) Get(key string) goja.Value {
	cv := c.canvas
	switch key {
	case "fillStyle":
		return c.vm.ToValue(hexColor(cv.Fill()))
	case "strokeStyle":
		return c.vm.ToValue(hexColor(cv.Stroke()))
	case "lineWidth":
		return c.vm.ToValue(cv.LineWidth())
	case "fillRect":
		return c.method(4, func(a []float64) { cv.FillRect(a[0], a[1], a[2], a[3]) })
	case "strokeRect":
		return c.method(4, func(a []float64) { cv.StrokeRect(a[0], a[1], a[2], a[3]) })
	case "clearRect":
		return c.method(4, func(a []float64) { cv.ClearRect(a[0], a[1], a[2], a[3]) })
	case "beginPath":
		return c.method(0, func([]float64) { cv.BeginPath() })
	case "moveTo":
		return c.method(2, func(a []float64) { cv.MoveTo(a[0], a[1]) })
	case "lineTo":
		return c.method(2, func(a []float64) { cv.LineTo(a[0], a[1]) })
	case "rect":
		return c.method(4, func(a []float64) { cv.Rect(a[0], a[1], a[2], a[3]) })
	case "arc":
		return c.method(5, func(a []float64) { cv.Arc(a[0], a[1], a[2], a[3], a[4]) })
	case "closePath":
		return c.method(0, func([]float64) { cv.ClosePath() })
	case "fill":
		return c.method(0, func([]float64) { cv.FillPath() })
	case "stroke":
		return c.method(0, func([]float64) { cv.StrokePath() })
	case "fillText":
		return c.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 3 {
				return goja.Undefined()
			}
			cv.FillText(call.Arguments[0].String(), call.Arguments[1].ToFloat(), call.Arguments[2].ToFloat())
			return goja.Undefined()
		})
	case "save":
		return c.method(0, func([]float64) { cv.Save() })
	case "restore":
		return c.method(0, func([]float64) { cv.Restore() })
	case "translate":
		return c.method(2, func(a []float64) { cv.Translate(a[0], a[1]) })
	case "scale":
		return c.method(2, func(a []float64) { cv.Scale(a[0], a[1]) })
	case "rotate":
		return c.method(1, func(a []float64) { cv.Rotate(a[0]) })
	}
	return goja.Undefined()
}

// Set accepts colors in any form style.ParseColor understands; invalid
// values are ignored as in browsers.
func (c *context2D) Set(key string, val goja.Value) bool {
	switch key {
	case "fillStyle":
		if col, ok := style.ParseColor(val.String()); ok {
			c.canvas.SetFill(col)
		}
		return true
	case "strokeStyle":
		if col, ok := style.ParseColor(val.String()); ok {
			c.canvas.SetStroke(col)
		}
		return true
	case "lineWidth":
		if w := val.ToFloat(); w > 0 {
			c.canvas.SetLineWidth(w)
		}
		return true
	}
	return false
}

func (c *context2D) Has(key string) bool {
	for _, k := range context2DKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (c *context2D) Delete(string) bool { return false }

func (c *context2D) Keys() []string { return context2DKeys }

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
