package runtime

import "github.com/funvibe/aivi-core/internal/value"

// Apply is apply (§4.1, §8): feeds one argument to a Closure or an
// under-applied Constructor. Closures and Constructors are the only two
// callable tags; anything else is an ArgumentArityMismatch.
func (c *Context) Apply(fn, arg *value.Value) *value.Value {
	switch fn.Tag {
	case value.Closure:
		return c.applyClosure(fn, arg)
	case value.Constructor:
		return c.applyConstructor(fn, arg)
	default:
		return value.NewError(value.ArgumentArityMismatch, "apply: value is not callable")
	}
}

// applyClosure implements the §8 invariant: applying the last remaining
// argument invokes FuncPtr directly instead of allocating a new Closure.
func (c *Context) applyClosure(fn, arg *value.Value) *value.Value {
	clo := fn.Clo
	if clo.RemainingArity <= 0 {
		return value.NewError(value.ArgumentArityMismatch, "apply: closure is already saturated")
	}
	args := make([]*value.Value, 0, len(clo.Captured)+1)
	args = append(args, clo.Captured...)
	args = append(args, arg)

	if clo.RemainingArity == 1 {
		return clo.FuncPtr(c, args)
	}
	return value.NewClosure(&value.ClosureData{
		FuncPtr:        clo.FuncPtr,
		Captured:       args,
		RemainingArity: clo.RemainingArity - 1,
		OrigArity:      clo.OrigArity,
	})
}

// applyConstructor grows a Constructor's applied-args list one argument at
// a time until it reaches its declared arity (§4.1), allocating a new
// Constructor value at each step since a Constructor's Args are fixed once
// built.
func (c *Context) applyConstructor(fn, arg *value.Value) *value.Value {
	arity, ok := c.constructorArity(fn.Name)
	if !ok {
		return value.NewError(value.UndefinedGlobal, "apply: unregistered constructor "+fn.Name)
	}
	if len(fn.Args) >= arity {
		return value.NewError(value.ArgumentArityMismatch, "apply: constructor "+fn.Name+" is already saturated")
	}
	args := make([]*value.Value, 0, len(fn.Args)+1)
	args = append(args, fn.Args...)
	args = append(args, arg)
	return value.NewConstructor(fn.Name, args)
}

// MakeClosure is make_closure (§4.1): builds a Closure value over a hoisted
// lambda's entry point and its captured free variables.
func (c *Context) MakeClosure(fn value.FuncPtr, captured []*value.Value, arity int) *value.Value {
	remaining := arity - len(captured)
	if remaining <= 0 {
		remaining = 0
	}
	return value.NewClosure(&value.ClosureData{
		FuncPtr:        fn,
		Captured:       captured,
		RemainingArity: remaining,
		OrigArity:      arity,
	})
}
