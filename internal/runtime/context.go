// Package runtime implements the Runtime Helper Library (§4.1): the fixed
// C-ABI surface the generated code calls into for allocation, field
// access, pattern probes, application and effect sequencing. Every entry
// point is modeled as a method on *Context, taking the context implicitly
// via the receiver rather than as an explicit first argument — the Go
// equivalent of the spec's "every entry point takes a context pointer
// first".
//
// Grounded in the teacher's split between internal/vm (helpers that touch
// VM-global state: globals, call stack, builtins dispatch) and
// internal/evaluator (the Object operations those helpers delegate to).
package runtime

import (
	"sync"

	"github.com/funvibe/aivi-core/internal/diag"
	"github.com/funvibe/aivi-core/internal/rtconfig"
	"github.com/funvibe/aivi-core/internal/sigil"
	"github.com/funvibe/aivi-core/internal/value"
)

// FuncEntry is one row of the JIT-functions registry a Function Compiler
// installs into after finalizing a compiled function (§4.5 step 8).
type FuncEntry struct {
	Ptr            value.FuncPtr
	Arity          int
	ParamTypes     []*int // nil entries mean boxed; non-nil values are 0=Int,1=Float,2=Bool
	HasReturnType  bool
	ReturnTypeCode int
}

// Context is the process-wide runtime context (§6.2): the global-name
// table, the call-depth counter, the diagnostics frame stack, and the
// JIT-functions registry call sites route direct calls through.
type Context struct {
	globalsMu sync.RWMutex
	globals   map[string]*value.Value

	callDepth    int
	maxCallDepth int

	Stack  *diag.Stack
	Sigils *sigil.Registry

	fnMu sync.RWMutex
	fns  map[string]*FuncEntry

	ctorMu    sync.RWMutex
	ctorArity map[string]int
}

// New constructs a fresh Context with the built-in globals installed
// (§6.2 Construction): at the core layer that means nothing beyond an
// empty, ready-to-populate global table, since constructors and primitive
// operators are registered by whatever installs the compiled program
// (mirrors the teacher's VM.RegisterBuiltins, called by the backend driver
// rather than by vm.New itself).
func New() *Context {
	max := rtconfig.MaxCallDepth
	if max <= 0 {
		max = rtconfig.DefaultMaxCallDepth
	}
	return &Context{
		globals:      map[string]*value.Value{},
		maxCallDepth: max,
		Stack:        diag.NewStack(),
		Sigils:       sigil.NewRegistry(),
		fns:          map[string]*FuncEntry{},
		ctorArity:    map[string]int{},
	}
}

// RegisterConstructorArity declares name's fixed arity so apply() knows
// when a Constructor value becomes fully saturated (§4.1 ArgumentArityMismatch).
func (c *Context) RegisterConstructorArity(name string, arity int) {
	c.ctorMu.Lock()
	defer c.ctorMu.Unlock()
	c.ctorArity[name] = arity
}

func (c *Context) constructorArity(name string) (int, bool) {
	c.ctorMu.RLock()
	defer c.ctorMu.RUnlock()
	a, ok := c.ctorArity[name]
	return a, ok
}

// ConstructorArityOf is constructorArity's exported form, for callers
// outside package runtime that need a registered constructor's declared
// arity ahead of time (the lowering engine's saturated-application check
// for reuse routing, §4.4).
func (c *Context) ConstructorArityOf(name string) (int, bool) {
	return c.constructorArity(name)
}

// Close drops every globally-reachable value, per §6.2 "Destruction drops
// every value transitively".
func (c *Context) Close() {
	c.globalsMu.Lock()
	defer c.globalsMu.Unlock()
	for name, v := range c.globals {
		value.Drop(v)
		delete(c.globals, name)
	}
}

// CallDepthGuard implements value.Context so closures can guard re-entrant
// apply() chains the same way a compiled function's own prologue does.
func (c *Context) CallDepthGuard() *value.Value { return c.CheckCallDepth() }
