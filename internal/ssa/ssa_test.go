package ssa

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/value"
)

func TestExecAddTwoParams(t *testing.T) {
	b := NewBuilder("add", 2)
	sum := b.EmitBinOp("+", b.Param(0), b.Param(1))
	b.EmitReturn(sum)
	fn := b.Finish()

	ctx := runtime.New()
	result := Exec(fn, ctx, []*value.Value{value.NewInt(3), value.NewInt(4)})
	if result.Tag != value.Int || result.I != 7 {
		t.Fatalf("got %+v, want Int 7", result)
	}
}

func TestExecBranch(t *testing.T) {
	b := NewBuilder("pick", 1)
	thenBlk := b.NewBlock()
	elseBlk := b.NewBlock()
	b.EmitBranch(b.Param(0), thenBlk, elseBlk)

	b.SetBlock(thenBlk)
	one := b.EmitConst(value.NewInt(1))
	b.EmitReturn(one)

	b.SetBlock(elseBlk)
	zero := b.EmitConst(value.NewInt(0))
	b.EmitReturn(zero)

	fn := b.Finish()
	ctx := runtime.New()

	r1 := Exec(fn, ctx, []*value.Value{value.NewBool(true)})
	if r1.I != 1 {
		t.Fatalf("got %+v, want Int 1", r1)
	}
	r2 := Exec(fn, ctx, []*value.Value{value.NewBool(false)})
	if r2.I != 0 {
		t.Fatalf("got %+v, want Int 0", r2)
	}
}
