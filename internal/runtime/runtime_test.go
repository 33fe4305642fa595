package runtime

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/value"
)

func TestConstructorArityOfRoundTrip(t *testing.T) {
	c := New()
	c.RegisterConstructorArity("Pair", 2)
	if a, ok := c.ConstructorArityOf("Pair"); !ok || a != 2 {
		t.Fatalf("ConstructorArityOf(Pair) = (%d, %v), want (2, true)", a, ok)
	}
	if _, ok := c.ConstructorArityOf("Nope"); ok {
		t.Fatalf("expected no arity registered for Nope")
	}
}

func TestCallDirectArityMismatch(t *testing.T) {
	c := New()
	c.RegisterJITFn("id", &FuncEntry{
		Ptr:   func(ctx value.Context, args []*value.Value) *value.Value { return args[0] },
		Arity: 1,
	})
	if r := c.CallDirect("id", []*value.Value{value.NewInt(1), value.NewInt(2)}); r.Tag != value.Error || r.Err.Kind != value.ArgumentArityMismatch {
		t.Fatalf("expected ArgumentArityMismatch, got %+v", r)
	}
	if r := c.CallDirect("missing", nil); r.Tag != value.Error || r.Err.Kind != value.UndefinedGlobal {
		t.Fatalf("expected UndefinedGlobal, got %+v", r)
	}
}

func TestApplyToLastArgInvokesDirectly(t *testing.T) {
	c := New()
	invoked := false
	fn := value.FuncPtr(func(ctx value.Context, args []*value.Value) *value.Value {
		invoked = true
		return args[0]
	})
	clo := value.NewClosure(&value.ClosureData{FuncPtr: fn, RemainingArity: 1, OrigArity: 1})
	result := c.Apply(clo, value.NewInt(7))
	if !invoked {
		t.Fatal("expected FuncPtr to be invoked directly when RemainingArity is 1")
	}
	if result.Tag != value.Int || result.I != 7 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestApplyPartialReturnsNewClosure(t *testing.T) {
	c := New()
	fn := value.FuncPtr(func(ctx value.Context, args []*value.Value) *value.Value {
		return value.NewInt(args[0].I + args[1].I)
	})
	clo := value.NewClosure(&value.ClosureData{FuncPtr: fn, RemainingArity: 2, OrigArity: 2})
	partial := c.Apply(clo, value.NewInt(3))
	if partial.Tag != value.Closure || partial.Clo.RemainingArity != 1 {
		t.Fatalf("expected a 1-remaining closure, got %+v", partial)
	}
	result := c.Apply(partial, value.NewInt(4))
	if result.Tag != value.Int || result.I != 7 {
		t.Fatalf("got %+v, want Int 7", result)
	}
}

func TestApplyConstructorSaturation(t *testing.T) {
	c := New()
	c.RegisterConstructorArity("Pair", 2)
	ctor := value.NewConstructor("Pair", nil)
	step1 := c.Apply(ctor, value.NewInt(1))
	if step1.Tag != value.Constructor || len(step1.Args) != 1 {
		t.Fatalf("expected partially applied constructor, got %+v", step1)
	}
	step2 := c.Apply(step1, value.NewInt(2))
	if step2.Tag != value.Constructor || len(step2.Args) != 2 {
		t.Fatalf("expected saturated constructor, got %+v", step2)
	}
	step3 := c.Apply(step2, value.NewInt(3))
	if step3.Tag != value.Error || step3.Err.Kind != value.ArgumentArityMismatch {
		t.Fatalf("expected ArgumentArityMismatch, got %+v", step3)
	}
}

func TestRecordFieldLookup(t *testing.T) {
	c := New()
	rec := value.NewRecord([]value.RecordField{
		{Name: "x", Value: value.NewInt(1)},
		{Name: "y", Value: value.NewInt(2)},
	})
	v := c.RecordField(rec, "y")
	if v.Tag != value.Int || v.I != 2 {
		t.Fatalf("got %+v, want Int 2", v)
	}
}

func TestGlobalUndefinedError(t *testing.T) {
	c := New()
	v := c.GetGlobal("missing")
	if v.Tag != value.Error || v.Err.Kind != value.UndefinedGlobal {
		t.Fatalf("expected UndefinedGlobal, got %+v", v)
	}
}

func TestCallDepthExceeded(t *testing.T) {
	c := New()
	c.maxCallDepth = 2
	if e := c.CheckCallDepth(); e != nil {
		t.Fatalf("unexpected error at depth 1: %v", e)
	}
	if e := c.CheckCallDepth(); e != nil {
		t.Fatalf("unexpected error at depth 2: %v", e)
	}
	e := c.CheckCallDepth()
	if e == nil || e.Tag != value.Error || e.Err.Kind != value.CallDepthExceeded {
		t.Fatalf("expected CallDepthExceeded, got %+v", e)
	}
}

func TestBinaryOpIntArithmetic(t *testing.T) {
	c := New()
	r := c.BinaryOp("+", value.NewInt(2), value.NewInt(3))
	if r.Tag != value.Int || r.I != 5 {
		t.Fatalf("got %+v, want Int 5", r)
	}
}

func TestBinaryOpBigIntArithmetic(t *testing.T) {
	c := New()
	a := value.NewBigInt("340282366920938463463374607431768211456")
	b := value.NewBigInt("1")
	r := c.BinaryOp("+", a, b)
	if r.Tag != value.BigInt || r.S != "340282366920938463463374607431768211457" {
		t.Fatalf("got %+v", r)
	}
}

func TestRunEffectBindChain(t *testing.T) {
	c := New()
	inner := c.WrapEffect(value.NewInt(1))
	cont := value.NewClosure(&value.ClosureData{
		FuncPtr: func(ctx value.Context, args []*value.Value) *value.Value {
			return c.WrapEffect(value.NewInt(args[0].I + 41))
		},
		RemainingArity: 1,
		OrigArity:      1,
	})
	bound := c.BindEffect(inner, cont)
	result := c.RunEffect(bound)
	if result.Tag != value.Int || result.I != 42 {
		t.Fatalf("got %+v, want Int 42", result)
	}
}

func TestForceThunkMemoizes(t *testing.T) {
	calls := 0
	th := value.NewThunk(func() *value.Value {
		calls++
		return value.NewInt(9)
	})
	c := New()
	first := c.ForceThunk(th)
	second := c.ForceThunk(th)
	if first.I != 9 || second.I != 9 {
		t.Fatalf("unexpected thunk results %+v %+v", first, second)
	}
	if calls != 1 {
		t.Fatalf("expected compute to run once, ran %d times", calls)
	}
}

func TestPatchRecordLeavesOtherFieldsUntouched(t *testing.T) {
	c := New()
	rec := value.NewRecord([]value.RecordField{
		{Name: "x", Value: value.NewInt(1)},
		{Name: "y", Value: value.NewInt(2)},
	})
	patched := c.PatchRecord(rec, []string{"y"}, []*value.Value{value.NewInt(99)})
	if c.RecordField(patched, "x").I != 1 {
		t.Fatalf("expected x untouched")
	}
	if c.RecordField(patched, "y").I != 99 {
		t.Fatalf("expected y patched")
	}
}
