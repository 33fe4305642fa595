package compiler

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/lambdareg"
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/value"
)

func TestCompileIdentity(t *testing.T) {
	def := &ir.Def{
		Name:        "id",
		Params:      []string{"x"},
		ParamRefIDs: []int{1},
		Body:        ir.NewLocalRef("x", 1),
	}

	rt := runtime.New()
	name, err := Compile(def, rt, lambdareg.New())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := rt.CallDirect(name, []*value.Value{value.NewInt(42)})
	if got.Tag != value.Int || got.I != 42 {
		t.Fatalf("id(42) = %+v, want Int(42)", got)
	}
}

func TestCompileAddTwoParams(t *testing.T) {
	def := &ir.Def{
		Name:        "add",
		Params:      []string{"a", "b"},
		ParamRefIDs: []int{1, 2},
		Body: &ir.BinOp{
			Op:  "+",
			Lhs: ir.NewLocalRef("a", 1),
			Rhs: ir.NewLocalRef("b", 2),
		},
	}

	rt := runtime.New()
	name, err := Compile(def, rt, lambdareg.New())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := rt.CallDirect(name, []*value.Value{value.NewInt(2), value.NewInt(3)})
	if got.Tag != value.Int || got.I != 5 {
		t.Fatalf("add(2,3) = %+v, want Int(5)", got)
	}
}

func TestCompileAllReportsEveryError(t *testing.T) {
	bad := &ir.Def{
		Name:        "broken",
		Params:      nil,
		ParamRefIDs: nil,
		Body:        ir.NewLocalRef("nope", 99),
	}

	rt := runtime.New()
	err := CompileAll([]*ir.Def{bad}, rt, lambdareg.New())
	if err == nil {
		t.Fatal("expected an error for an unbound local reference")
	}
}
