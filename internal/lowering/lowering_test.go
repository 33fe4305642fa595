package lowering_test

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/compiler"
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/lambdareg"
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/value"
)

func mustCompile(t *testing.T, def *ir.Def, rt *runtime.Context) string {
	t.Helper()
	name, err := compiler.Compile(def, rt, lambdareg.New())
	if err != nil {
		t.Fatalf("Compile(%s): %v", def.Name, err)
	}
	return name
}

func TestMatchConstructorArms(t *testing.T) {
	// match scrutinee { Some(v) => v, None => 0 }
	def := &ir.Def{
		Name:        "unwrap_or_zero",
		Params:      []string{"opt"},
		ParamRefIDs: []int{1},
		Body: &ir.Match{
			Scrutinee: ir.NewLocalRef("opt", 1),
			Arms: []ir.MatchArm{
				{
					Pattern: ir.PConstructor{Name: "Some", Args: []ir.Pattern{ir.PVar{RefID: 2}}},
					Body:    ir.NewLocalRef("v", 2),
				},
				{
					Pattern: ir.PConstructor{Name: "None"},
					Body:    ir.NewLitInt(0),
				},
			},
		},
	}

	rt := runtime.New()
	rt.RegisterConstructorArity("Some", 1)
	rt.RegisterConstructorArity("None", 0)
	name := mustCompile(t, def, rt)

	some := rt.AllocConstructor("Some", []*value.Value{value.NewInt(9)})
	if got := rt.CallDirect(name, []*value.Value{some}); got.Tag != value.Int || got.I != 9 {
		t.Fatalf("unwrap_or_zero(Some(9)) = %+v, want Int(9)", got)
	}

	none := rt.AllocConstructor("None", nil)
	if got := rt.CallDirect(name, []*value.Value{none}); got.Tag != value.Int || got.I != 0 {
		t.Fatalf("unwrap_or_zero(None) = %+v, want Int(0)", got)
	}
}

func TestMatchConstructorArmReusesScrutineeSlot(t *testing.T) {
	// rewrap(xs) = match xs { Cons(h, t) => Cons(h, t), Nil => Nil }. xs is
	// dead after the Cons arm binds h and t, so lowerMatch must emit
	// try_reuse right after binding and route the arm's Cons(h, t)
	// construction through reuse_constructor (§4.4), reclaiming xs's own
	// heap slot instead of allocating a fresh Constructor Value.
	def := &ir.Def{
		Name:        "rewrap",
		Params:      []string{"xs"},
		ParamRefIDs: []int{1},
		Body: ir.NewMatch(ir.NewLocalRef("xs", 1), 1, []ir.MatchArm{
			{
				Pattern: ir.PConstructor{Name: "Cons", Args: []ir.Pattern{
					ir.PVar{Name: "h", RefID: 2},
					ir.PVar{Name: "t", RefID: 3},
				}},
				Body: ir.NewApply(
					ir.NewApply(ir.NewCtorRef("Cons"), ir.NewLocalRef("h", 2)),
					ir.NewLocalRef("t", 3),
				),
			},
			{
				Pattern: ir.PConstructor{Name: "Nil"},
				Body:    ir.NewCtorRef("Nil"),
			},
		}),
	}

	rt := runtime.New()
	rt.RegisterConstructorArity("Cons", 2)
	rt.RegisterConstructorArity("Nil", 0)
	name := mustCompile(t, def, rt)

	nilVal := rt.AllocConstructor("Nil", nil)
	original := rt.AllocConstructor("Cons", []*value.Value{value.NewInt(7), nilVal})
	if !original.IsUniquelyOwned() {
		t.Fatalf("test setup: original scrutinee must be uniquely owned")
	}

	got := rt.CallDirect(name, []*value.Value{original})
	if got.Tag != value.Constructor || got.Name != "Cons" {
		t.Fatalf("rewrap result = %+v, want Constructor Cons", got)
	}
	if got != original {
		t.Fatalf("rewrap did not reuse the scrutinee's heap slot: got %p, want %p", got, original)
	}
	if len(got.Args) != 2 || got.Args[0].I != 7 || got.Args[1] != nilVal {
		t.Fatalf("rewrap result fields = %+v, want [7, Nil]", got.Args)
	}
}

func TestPatchRecordFreshWhenTargetReadAgain(t *testing.T) {
	// fresh patch: the target is read again after the patch expression, so
	// the use-analysis pass marks it as not-last-use and lowerPatch must
	// allocate a new Record rather than mutate the original.
	def := &ir.Def{
		Name:        "bump_age",
		Params:      []string{"p"},
		ParamRefIDs: []int{1},
		Body: ir.NewPlainBlock([]ir.Expr{
			&ir.Patch{
				Target: ir.NewLocalRef("p", 1),
				Fields: []ir.RecordFieldInit{{Name: "age", Value: ir.NewLitInt(30)}},
			},
			ir.NewLocalRef("p", 1),
		}),
	}

	rt := runtime.New()
	name := mustCompile(t, def, rt)

	original := rt.AllocRecord([]string{"age"}, []*value.Value{value.NewInt(1)})
	got := rt.CallDirect(name, []*value.Value{original})
	if got.Tag != value.Record {
		t.Fatalf("bump_age result tag = %v, want Record", got.Tag)
	}
	if rt.RecordField(original, "age").I != 1 {
		t.Fatalf("fresh patch mutated the original record in place")
	}
}

func TestCallDirectInvokesAlreadyCompiledCallee(t *testing.T) {
	// double(n) = n + n; apply_double(n) = double(n), lowered as an ir.Call
	// against a GlobalRef the runtime already has a JIT entry for, so it
	// must take the call_direct fast path (§4.3.4) rather than desugar to
	// apply.
	double := &ir.Def{
		Name:        "double",
		Params:      []string{"n"},
		ParamRefIDs: []int{1},
		Body: &ir.BinOp{
			Op:  "+",
			Lhs: ir.NewLocalRef("n", 1),
			Rhs: ir.NewLocalRef("n", 1),
		},
	}
	applyDouble := &ir.Def{
		Name:        "apply_double",
		Params:      []string{"n"},
		ParamRefIDs: []int{1},
		Body:        ir.NewCall(ir.NewGlobalRef("double"), []ir.Expr{ir.NewLocalRef("n", 1)}),
	}

	rt := runtime.New()
	mustCompile(t, double, rt)
	name := mustCompile(t, applyDouble, rt)

	if got := rt.CallDirect(name, []*value.Value{value.NewInt(21)}); got.Tag != value.Int || got.I != 42 {
		t.Fatalf("apply_double(21) = %+v, want Int(42)", got)
	}
}

func TestPlainBlockReturnsLastExpr(t *testing.T) {
	def := &ir.Def{
		Name:        "seq",
		Params:      nil,
		ParamRefIDs: nil,
		Body: ir.NewPlainBlock([]ir.Expr{
			ir.NewLitInt(1),
			ir.NewLitInt(2),
			ir.NewLitInt(3),
		}),
	}
	rt := runtime.New()
	name := mustCompile(t, def, rt)
	if got := rt.CallDirect(name, nil); got.Tag != value.Int || got.I != 3 {
		t.Fatalf("seq() = %+v, want Int(3)", got)
	}
}
