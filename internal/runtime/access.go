package runtime

import "github.com/funvibe/aivi-core/internal/value"

// RecordField is record_field (§4.1): lookup by name, not position (§3.2
// invariant 5).
func (c *Context) RecordField(v *value.Value, name string) *value.Value {
	if v.Tag != value.Record {
		return value.NewError(value.TypeMismatch, "record_field: value is not a Record")
	}
	for _, f := range v.Rec {
		if f.Name == name {
			return f.Value
		}
	}
	return value.NewError(value.UndefinedGlobal, "record_field: no field named "+name)
}

func (c *Context) ListIndex(v *value.Value, i int64) *value.Value {
	if v.Tag != value.List {
		return value.NewError(value.TypeMismatch, "list_index: value is not a List")
	}
	if i < 0 || i >= int64(len(v.Lst)) {
		return value.NewError(value.ArgumentArityMismatch, "list_index: index out of range")
	}
	return v.Lst[i]
}

func (c *Context) ConstructorArg(v *value.Value, i int64) *value.Value {
	if v.Tag != value.Constructor {
		return value.NewError(value.TypeMismatch, "constructor_arg: value is not a Constructor")
	}
	if i < 0 || i >= int64(len(v.Args)) {
		return value.NewError(value.ArgumentArityMismatch, "constructor_arg: index out of range")
	}
	return v.Args[i]
}

func (c *Context) ConstructorArity(v *value.Value) int64 {
	if v.Tag != value.Constructor {
		return 0
	}
	return int64(len(v.Args))
}

func (c *Context) ConstructorNameEq(v *value.Value, name string) bool {
	return v.Tag == value.Constructor && v.Name == name
}

func (c *Context) TupleItem(v *value.Value, i int64) *value.Value {
	if v.Tag != value.Tuple {
		return value.NewError(value.TypeMismatch, "tuple_item: value is not a Tuple")
	}
	if i < 0 || i >= int64(len(v.Lst)) {
		return value.NewError(value.ArgumentArityMismatch, "tuple_item: index out of range")
	}
	return v.Lst[i]
}

func (c *Context) TupleLen(v *value.Value) int64 {
	if v.Tag != value.Tuple {
		return 0
	}
	return int64(len(v.Lst))
}

func (c *Context) ListLen(v *value.Value) int64 {
	if v.Tag != value.List {
		return 0
	}
	return int64(len(v.Lst))
}

// ListTail is list_tail: the sublist starting at index start (sharing the
// underlying element Values, not deep-copying them).
func (c *Context) ListTail(v *value.Value, start int64) *value.Value {
	if v.Tag != value.List {
		return value.NewError(value.TypeMismatch, "list_tail: value is not a List")
	}
	if start < 0 {
		start = 0
	}
	if start >= int64(len(v.Lst)) {
		return value.NewList(nil)
	}
	rest := make([]*value.Value, len(v.Lst)-int(start))
	copy(rest, v.Lst[start:])
	return value.NewList(rest)
}

func (c *Context) ListConcat(a, b *value.Value) *value.Value {
	if a.Tag != value.List || b.Tag != value.List {
		return value.NewError(value.TypeMismatch, "list_concat: both operands must be Lists")
	}
	out := make([]*value.Value, 0, len(a.Lst)+len(b.Lst))
	out = append(out, a.Lst...)
	out = append(out, b.Lst...)
	return value.NewList(out)
}
