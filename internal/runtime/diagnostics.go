package runtime

import "github.com/funvibe/aivi-core/internal/value"

// CheckCallDepth is check_call_depth (§4.1): returns nil when the call may
// proceed, or a CallDepthExceeded Error sentinel when the configured
// ceiling has been reached. Every compiled function's prologue brackets its
// body with this call (§4.3.2, §8 invariant).
func (c *Context) CheckCallDepth() *value.Value {
	c.callDepth++
	if c.callDepth > c.maxCallDepth {
		c.callDepth--
		return value.NewError(value.CallDepthExceeded, "call depth exceeded")
	}
	return nil
}

// DecCallDepth is dec_call_depth (§4.1), called on every return path.
func (c *Context) DecCallDepth() {
	if c.callDepth > 0 {
		c.callDepth--
	}
}

// CallDepth reports the current depth, for tests and diagnostics.
func (c *Context) CallDepth() int { return c.callDepth }

// EnterFn is enter_fn (§4.1): pushes a diagnostics frame at function entry.
func (c *Context) EnterFn(name string) { c.Stack.EnterFn(name) }

// ExitFn pops the frame EnterFn pushed. Not part of the C-ABI surface
// itself (the ABI only names enter_fn) but needed to keep the frame stack
// balanced across returns; emitted by the same epilogue that calls
// dec_call_depth.
func (c *Context) ExitFn() { c.Stack.ExitFn() }

// SetLocation is set_location (§4.1, §6.6): annotates the innermost frame
// with a source location. The lowering engine emits no call to it.
func (c *Context) SetLocation(loc string) { c.Stack.SetLocation(loc) }

// SignalMatchFail is signal_match_fail (§4.1): produced when every arm of a
// match fails (§4.3.5 step "After the last arm").
func (c *Context) SignalMatchFail() *value.Value {
	return value.NewError(value.NonExhaustiveMatch, "non-exhaustive match")
}
