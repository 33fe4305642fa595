// Package value implements the runtime Value representation: a tagged,
// refcounted heap record with a stable layout, as consumed by the generated
// code and the runtime helper library.
//
// The layout follows the stack-allocated tagged union in the teacher's
// internal/vm/value.go (Type/Data/Obj), extended to a heap record carrying
// its own atomic refcount so that the lowering engine's reuse analysis
// (Perceus-style) has something concrete to probe.
package value

import "sync/atomic"

// Tag discriminates the Value variants.
type Tag uint8

const (
	Unit Tag = iota
	Bool
	Int
	Float
	Text
	BigInt
	Rational
	Decimal
	DateTime
	Bytes
	List
	Tuple
	Record
	Constructor
	Map
	Set
	Closure
	Effect
	Resource
	Thunk
	Error
)

func (t Tag) String() string {
	switch t {
	case Unit:
		return "Unit"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Text:
		return "Text"
	case BigInt:
		return "BigInt"
	case Rational:
		return "Rational"
	case Decimal:
		return "Decimal"
	case DateTime:
		return "DateTime"
	case Bytes:
		return "Bytes"
	case List:
		return "List"
	case Tuple:
		return "Tuple"
	case Record:
		return "Record"
	case Constructor:
		return "Constructor"
	case Map:
		return "Map"
	case Set:
		return "Set"
	case Closure:
		return "Closure"
	case Effect:
		return "Effect"
	case Resource:
		return "Resource"
	case Thunk:
		return "Thunk"
	case Error:
		return "Error"
	default:
		return "?"
	}
}

// IsArbitraryPrecision reports whether t is one of the arbitrary-precision
// numeric variants, for binary_op / value_equals promotion rules (§A.3: BigInt,
// Rational and Decimal never silently promote to Float).
func (t Tag) IsArbitraryPrecision() bool {
	return t == BigInt || t == Rational || t == Decimal
}

// RecordField is one named slot of a Record, in allocation (insertion) order.
type RecordField struct {
	Name  string
	Value *Value
}

// MapEntry is one (key, value) pair of a Map, in insertion order.
type MapEntry struct {
	Key   *Value
	Value *Value
}

// ClosureData backs the Closure variant: a function pointer paired with the
// arguments already supplied and the number of arguments still needed.
type ClosureData struct {
	FuncPtr        FuncPtr
	Captured       []*Value
	RemainingArity int
	// OrigArity is the closure's total arity (captured plus remaining
	// arguments); each partial application carries it over unchanged.
	OrigArity int
}

// FuncPtr is the uniform ABI every compiled function exposes: context first,
// then exactly OrigArity boxed arguments, returning one boxed Value.
type FuncPtr func(ctx Context, args []*Value) *Value

// Context is the minimal surface the value package needs back from the
// runtime context (kept as an interface here to avoid an import cycle with
// package runtime, which depends on package value).
type Context interface {
	CallDepthGuard() *Value
	DecCallDepth()
}

// EffectKind discriminates the three Effect shapes.
type EffectKind uint8

const (
	EffectThunk EffectKind = iota
	EffectBind
	EffectWrap
)

// EffectData backs the Effect variant.
type EffectData struct {
	Kind EffectKind
	// Thunk: Fn is invoked with no arguments to produce a Value.
	Fn func() *Value
	// Bind: Inner is the effect to run first, Cont consumes its result and
	// produces a new Effect Value.
	Inner *Value
	Cont  *Value
	// Wrap: Wrapped is the pure Value lifted into effect space.
	Wrapped *Value
}

// ThunkData backs the Thunk variant: a deferred, memoized computation.
type ThunkData struct {
	compute func() *Value
	forced  bool
	result  *Value
}

// ErrorData backs the Error variant (§7).
type ErrorData struct {
	Kind    ErrorKind
	Message string
}

// ErrorKind enumerates the five recognised error kinds (§7).
type ErrorKind uint8

const (
	TypeMismatch ErrorKind = iota
	NonExhaustiveMatch
	CallDepthExceeded
	UndefinedGlobal
	ArgumentArityMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case NonExhaustiveMatch:
		return "NonExhaustiveMatch"
	case CallDepthExceeded:
		return "CallDepthExceeded"
	case UndefinedGlobal:
		return "UndefinedGlobal"
	case ArgumentArityMismatch:
		return "ArgumentArityMismatch"
	default:
		return "?"
	}
}

// Value is the tagged heap record described by §3.1. It is always passed by
// pointer; the pointer identity IS the heap slot, which is what makes
// in-place reuse (§4.4) possible: repurposing a Value means mutating Tag and
// the payload fields of an existing *Value rather than allocating a new one.
type Value struct {
	Tag      Tag
	refcount atomic.Int64

	B    bool
	I    int64
	F    float64
	S    string // Text, BigInt/Rational/Decimal digits, DateTime ISO-8601 text
	Byt  []byte
	Lst  []*Value // List and Tuple share this field
	Rec  []RecordField
	Name string // Constructor name
	Args []*Value
	Ents []MapEntry // Map and Set share this field (Set ignores .Value)
	Clo  *ClosureData
	Eff  *EffectData
	Res  []*Value // Resource: retained sequence of pre-reified items
	Thk  *ThunkData
	Err  *ErrorData
}

// NewUnit, and the other New* constructors, allocate a fresh Value with
// refcount 1, per "every boxed Value returned by an allocation helper has
// refcount == 1" (§8).

func NewUnit() *Value { v := &Value{Tag: Unit}; v.refcount.Store(1); return v }

func NewBool(b bool) *Value { v := &Value{Tag: Bool, B: b}; v.refcount.Store(1); return v }

func NewInt(i int64) *Value { v := &Value{Tag: Int, I: i}; v.refcount.Store(1); return v }

func NewFloat(f float64) *Value { v := &Value{Tag: Float, F: f}; v.refcount.Store(1); return v }

func NewText(s string) *Value { v := &Value{Tag: Text, S: s}; v.refcount.Store(1); return v }

func NewBigInt(digits string) *Value { v := &Value{Tag: BigInt, S: digits}; v.refcount.Store(1); return v }

func NewRational(s string) *Value { v := &Value{Tag: Rational, S: s}; v.refcount.Store(1); return v }

func NewDecimal(s string) *Value { v := &Value{Tag: Decimal, S: s}; v.refcount.Store(1); return v }

func NewDateTime(iso string) *Value { v := &Value{Tag: DateTime, S: iso}; v.refcount.Store(1); return v }

func NewBytes(b []byte) *Value {
	cp := append([]byte(nil), b...)
	v := &Value{Tag: Bytes, Byt: cp}
	v.refcount.Store(1)
	return v
}

func NewList(items []*Value) *Value {
	v := &Value{Tag: List, Lst: items}
	v.refcount.Store(1)
	return v
}

func NewTuple(items []*Value) *Value {
	v := &Value{Tag: Tuple, Lst: items}
	v.refcount.Store(1)
	return v
}

func NewRecord(fields []RecordField) *Value {
	v := &Value{Tag: Record, Rec: fields}
	v.refcount.Store(1)
	return v
}

func NewConstructor(name string, args []*Value) *Value {
	v := &Value{Tag: Constructor, Name: name, Args: args}
	v.refcount.Store(1)
	return v
}

func NewMap(entries []MapEntry) *Value {
	v := &Value{Tag: Map, Ents: entries}
	v.refcount.Store(1)
	return v
}

func NewSet(entries []MapEntry) *Value {
	v := &Value{Tag: Set, Ents: entries}
	v.refcount.Store(1)
	return v
}

func NewClosure(data *ClosureData) *Value {
	v := &Value{Tag: Closure, Clo: data}
	v.refcount.Store(1)
	return v
}

func NewEffect(data *EffectData) *Value {
	v := &Value{Tag: Effect, Eff: data}
	v.refcount.Store(1)
	return v
}

func NewResource(items []*Value) *Value {
	v := &Value{Tag: Resource, Res: items}
	v.refcount.Store(1)
	return v
}

func NewThunk(compute func() *Value) *Value {
	v := &Value{Tag: Thunk, Thk: &ThunkData{compute: compute}}
	v.refcount.Store(1)
	return v
}

func NewError(kind ErrorKind, message string) *Value {
	v := &Value{Tag: Error, Err: &ErrorData{Kind: kind, Message: message}}
	v.refcount.Store(1)
	return v
}

// Refcount returns the current reference count. Never zero for a live Value.
func (v *Value) Refcount() int64 { return v.refcount.Load() }

// IsUniquelyOwned reports whether v may be safely repurposed (§3.2 inv. 1).
func (v *Value) IsUniquelyOwned() bool { return v.refcount.Load() == 1 }

// Clone increments the refcount and returns the same pointer: Values are
// shared by reference, never copied structurally (§3.1 Ownership & lifetime).
func Clone(v *Value) *Value {
	if v == nil {
		return nil
	}
	v.refcount.Add(1)
	return v
}

// Drop decrements the refcount and, when it reaches zero, recursively drops
// every child Value before discarding v itself. Values are immutable after
// construction, so no cycle can form and plain refcounting is sound (§9).
func Drop(v *Value) {
	if v == nil {
		return
	}
	if v.refcount.Add(-1) > 0 {
		return
	}
	switch v.Tag {
	case List, Tuple:
		for _, e := range v.Lst {
			Drop(e)
		}
	case Record:
		for _, f := range v.Rec {
			Drop(f.Value)
		}
	case Constructor:
		for _, a := range v.Args {
			Drop(a)
		}
	case Map, Set:
		for _, e := range v.Ents {
			Drop(e.Key)
			if e.Value != nil {
				Drop(e.Value)
			}
		}
	case Closure:
		for _, c := range v.Clo.Captured {
			Drop(c)
		}
	case Effect:
		switch v.Eff.Kind {
		case EffectBind:
			Drop(v.Eff.Inner)
			Drop(v.Eff.Cont)
		case EffectWrap:
			Drop(v.Eff.Wrapped)
		}
	case Resource:
		for _, r := range v.Res {
			Drop(r)
		}
	case Thunk:
		if v.Thk.forced && v.Thk.result != nil {
			Drop(v.Thk.result)
		}
	}
}
