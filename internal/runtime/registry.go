package runtime

import "github.com/funvibe/aivi-core/internal/value"

// RegisterJITFn installs a compiled function's entry point into the
// JIT-functions registry a Function Compiler populates at link time
// (§4.5 step 8). Direct-call routing (§4.3.4) looks names up here instead
// of going through apply/get_global for statically-known callees.
func (c *Context) RegisterJITFn(name string, entry *FuncEntry) {
	c.fnMu.Lock()
	defer c.fnMu.Unlock()
	c.fns[name] = entry
}

// LookupJITFn returns the registered entry for name, if any.
func (c *Context) LookupJITFn(name string) (*FuncEntry, bool) {
	c.fnMu.RLock()
	defer c.fnMu.RUnlock()
	e, ok := c.fns[name]
	return e, ok
}

// CallDirect invokes a registered function by name without going through
// Apply/Closure allocation, the specialization routing's fast path
// (§4.3.4) for a statically-known callee at its declared arity.
func (c *Context) CallDirect(name string, args []*value.Value) *value.Value {
	entry, ok := c.LookupJITFn(name)
	if !ok {
		return value.NewError(value.UndefinedGlobal, "call_direct: no registered function named "+name)
	}
	if len(args) != entry.Arity {
		return value.NewError(value.ArgumentArityMismatch, "call_direct: arity mismatch calling "+name)
	}
	return entry.Ptr(c, args)
}
