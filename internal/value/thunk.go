package value

// ForceThunk is force_thunk (§4.1): forces a lazy Thunk on first demand and
// memoizes the result for every subsequent force.
func ForceThunk(v *Value) *Value {
	if v.Tag != Thunk {
		return NewError(TypeMismatch, "force_thunk: value is not a Thunk")
	}
	if !v.Thk.forced {
		v.Thk.result = v.Thk.compute()
		v.Thk.forced = true
	}
	return v.Thk.result
}
