package runtime

import "github.com/funvibe/aivi-core/internal/value"

// RunEffect is run_effect (§4.1, §9): the small driver that dispatches an
// Effect value once and returns. Multi-layer composition is expressed by
// Bind nodes, which the driver re-enters rather than recursing through a
// generic continuation-passing trampoline.
func (c *Context) RunEffect(eff *value.Value) *value.Value {
	if eff.Tag != value.Effect {
		return value.NewError(value.TypeMismatch, "run_effect: value is not an Effect")
	}
	switch eff.Eff.Kind {
	case value.EffectWrap:
		return eff.Eff.Wrapped
	case value.EffectThunk:
		result := eff.Eff.Fn()
		if result.Tag == value.Effect {
			return c.RunEffect(result)
		}
		return result
	case value.EffectBind:
		inner := c.RunEffect(eff.Eff.Inner)
		if inner.Tag == value.Error {
			return inner
		}
		next := c.Apply(eff.Eff.Cont, inner)
		if next.Tag == value.Effect {
			return c.RunEffect(next)
		}
		return next
	default:
		return value.NewError(value.TypeMismatch, "run_effect: unknown effect kind")
	}
}

// BindEffect is bind_effect (§4.1): builds the Bind node run_effect later
// re-enters, without itself running anything.
func (c *Context) BindEffect(inner, cont *value.Value) *value.Value {
	return value.NewEffect(&value.EffectData{
		Kind:  value.EffectBind,
		Inner: inner,
		Cont:  cont,
	})
}

// WrapEffect is wrap_effect: lifts an already-evaluated Value into an
// Effect that resolves to it immediately.
func (c *Context) WrapEffect(v *value.Value) *value.Value {
	return value.NewEffect(&value.EffectData{
		Kind:    value.EffectWrap,
		Wrapped: v,
	})
}

// ThunkEffect is thunk_effect: defers fn's invocation until run_effect
// dispatches this Effect.
func (c *Context) ThunkEffect(fn func() *value.Value) *value.Value {
	return value.NewEffect(&value.EffectData{
		Kind: value.EffectThunk,
		Fn:   fn,
	})
}

// ForceThunk is force_thunk (§4.1), delegated to package value since the
// memoization state on ThunkData is unexported outside it.
func (c *Context) ForceThunk(v *value.Value) *value.Value {
	return value.ForceThunk(v)
}
