// Package convert rewrites a resolved source unit into a target tree. The walk
// is a single synchronous recursive descent; all mutable state lives in a
// Context that is created for one unit and dropped afterwards.
package convert

import (
	"go.uber.org/zap"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// DefaultAmbientImports are the project-level imports every target project has.
var DefaultAmbientImports = []string{
	"System",
	"System.Collections",
	"System.Collections.Generic",
	"System.Data",
	"System.Diagnostics",
	"System.Linq",
	"System.Xml.Linq",
	"System.Threading.Tasks",
	"Microsoft.VisualBasic",
}

// Options configure one conversion.
type Options struct {
	// Logger is used as given; callers attach the file to it.
	Logger *zap.Logger
	// Strict makes the first recoverable failure abort the unit.
	Strict bool
	// AmbientImports are pruned from the emitted import list. Nil means DefaultAmbientImports.
	AmbientImports []string
	FilePath       string
	LicenseHeader  string
	// TypeMappings rewrite named source types to target types.
	TypeMappings map[string]string
	// RootNamespace is implied by the target project, so it is removed from
	// the front of top-level namespace names.
	RootNamespace string
}

// Context holds state during the conversion of one unit
type Context struct {
	Model   semantic.Model
	Options Options

	log     *zap.Logger
	imports *ImportAccumulator
	// counter feeds generated names and counts placeholders.
	counter      int
	placeholders int
	helpers      []*helperFrame
	loops        []string
	// functions holds the Exit keyword of each enclosing function body.
	functions  []string
	namespaces int
	typeNames  map[string]*semantic.Symbol
}

func newContext(model semantic.Model, opts Options) *Context {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ambient := opts.AmbientImports
	if ambient == nil {
		ambient = DefaultAmbientImports
	}
	return &Context{
		Model:     model,
		Options:   opts,
		log:       log,
		imports:   NewImportAccumulator(ambient),
		typeNames: make(map[string]*semantic.Symbol),
	}
}

func (ctx *Context) nextID() int {
	ctx.counter++
	return ctx.counter
}

func (ctx *Context) symbolFor(n cs.Node) *semantic.Symbol {
	if ctx.Model == nil {
		return nil
	}
	sym, ok := ctx.Model.SymbolFor(n)
	if !ok {
		return nil
	}
	return sym
}

func (ctx *Context) typeOf(e cs.Expr) (*semantic.Type, bool) {
	if ctx.Model == nil {
		return nil, false
	}
	return ctx.Model.TypeOf(e)
}

func (ctx *Context) constantValue(e cs.Expr) (any, bool) {
	if ctx.Model == nil {
		return nil, false
	}
	return ctx.Model.ConstantValue(e)
}

// name builds a target identifier bound to the symbol n declares or references.
func (ctx *Context) name(text string, n cs.Node) *vbsrc.Name {
	return &vbsrc.Name{Text: escapeIdentifier(text), Symbol: ctx.symbolFor(n)}
}

func (ctx *Context) pushLoop(kind string) {
	ctx.loops = append(ctx.loops, kind)
}

func (ctx *Context) popLoop() {
	ctx.loops = ctx.loops[:len(ctx.loops)-1]
}

func (ctx *Context) currentLoop() (string, bool) {
	if len(ctx.loops) == 0 {
		return "", false
	}
	return ctx.loops[len(ctx.loops)-1], true
}

// continueTarget is the innermost loop, skipping Select blocks, which
// continue passes through.
func (ctx *Context) continueTarget() (string, bool) {
	for i := len(ctx.loops) - 1; i >= 0; i-- {
		if ctx.loops[i] != "Select" {
			return ctx.loops[i], true
		}
	}
	return "", false
}

// enterFunction records the body being converted until the returned func
// is called.
func (ctx *Context) enterFunction(exit string) func() {
	ctx.functions = append(ctx.functions, exit)
	return func() { ctx.functions = ctx.functions[:len(ctx.functions)-1] }
}

func (ctx *Context) currentFunction() (string, bool) {
	if len(ctx.functions) == 0 {
		return "", false
	}
	return ctx.functions[len(ctx.functions)-1], true
}
