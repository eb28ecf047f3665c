package script

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

// consoleAPI routes console.log, console.warn and console.error to the
// window logger.
type consoleAPI struct {
	logger *log.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.log)
	console.Set("info", c.log)
	console.Set("warn", c.warn)
	console.Set("error", c.errorFn)
	vm.Set("console", console)
}

func (c *consoleAPI) log(call goja.FunctionCall) goja.Value {
	c.logger.Info(formatArgs(call.Arguments), "source", "script")
	return goja.Undefined()
}

func (c *consoleAPI) warn(call goja.FunctionCall) goja.Value {
	c.logger.Warn(formatArgs(call.Arguments), "source", "script")
	return goja.Undefined()
}

func (c *consoleAPI) errorFn(call goja.FunctionCall) goja.Value {
	c.logger.Error(formatArgs(call.Arguments), "source", "script")
	return goja.Undefined()
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
