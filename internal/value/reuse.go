package value

// ReuseToken is a raw heap-slot pointer produced by TryReuse when a Value is
// uniquely owned. It is consumed at most once, by the next allocating
// construct (constructor/record/list/tuple) in the same arm body (§4.4).
type ReuseToken struct {
	slot *Value
}

// TryReuse returns a reuse token for v if v is uniquely owned, else nil. It
// does not mutate v (idempotence property in §8: calling TryReuse on a
// shared Value must be side-effect-free).
func TryReuse(v *Value) *ReuseToken {
	if v == nil || !v.IsUniquelyOwned() {
		return nil
	}
	return &ReuseToken{slot: v}
}

// reset clears every payload field of v so a fresh variant can be written
// into the same slot without retaining stale references.
func (v *Value) reset() {
	*v = Value{}
}

// ReuseConstructor repurposes tok's slot as a Constructor if tok is non-nil,
// else allocates fresh. Matches the runtime helper's fallback rule (§4.1).
func ReuseConstructor(tok *ReuseToken, name string, args []*Value) *Value {
	if tok == nil {
		return NewConstructor(name, args)
	}
	v := tok.slot
	v.reset()
	v.Tag = Constructor
	v.Name = name
	v.Args = args
	v.refcount.Store(1)
	return v
}

func ReuseRecord(tok *ReuseToken, fields []RecordField) *Value {
	if tok == nil {
		return NewRecord(fields)
	}
	v := tok.slot
	v.reset()
	v.Tag = Record
	v.Rec = fields
	v.refcount.Store(1)
	return v
}

func ReuseList(tok *ReuseToken, items []*Value) *Value {
	if tok == nil {
		return NewList(items)
	}
	v := tok.slot
	v.reset()
	v.Tag = List
	v.Lst = items
	v.refcount.Store(1)
	return v
}

func ReuseTuple(tok *ReuseToken, items []*Value) *Value {
	if tok == nil {
		return NewTuple(items)
	}
	v := tok.slot
	v.reset()
	v.Tag = Tuple
	v.Lst = items
	v.refcount.Store(1)
	return v
}
