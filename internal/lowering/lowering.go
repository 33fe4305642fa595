// Package lowering implements the Lowering Engine (§4.3): the pass that
// walks a typed IR function body and emits the SSA form the Function
// Compiler hands to the runtime's Exec. It is the single largest
// component of the core (§4.3 prose budget), grounded throughout in the
// teacher's internal/vm/compiler_expressions.go — a type-switch over AST
// node kinds emitting bytecode, generalized here to emit SSA registers
// instead of a stack-machine's push/pop stream.
package lowering

import (
	"fmt"

	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/pipeline"
	"github.com/funvibe/aivi-core/internal/ssa"
)

// PrologueStage is the Function Compiler's first lowering stage (§4.5 step
// 3): reserves one ssa register per declared parameter and records it in
// cctx.Locals so LocalRef lookups for parameters resolve without special
// casing.
type PrologueStage struct{}

func (PrologueStage) Process(cctx *pipeline.CompileContext) *pipeline.CompileContext {
	cctx.Builder = ssa.NewBuilder(cctx.Def.Name, len(cctx.Def.Params))
	if cctx.Locals == nil {
		cctx.Locals = map[int]ssa.Reg{}
	}
	if cctx.LocalNames == nil {
		cctx.LocalNames = map[string]int{}
	}
	nameReg := cctx.Builder.EmitConst(nameConstMarker(cctx.Def.Name))
	cctx.Builder.EmitHelperCall("EnterFn", nameReg)

	guard := cctx.Builder.EmitHelperCall("CheckCallDepth")
	errBlk := cctx.Builder.NewBlock()
	okBlk := cctx.Builder.NewBlock()

	// CheckCallDepth returns Unit on success and an Error Value on failure
	// (§4.1, documented on package ssa's dispatchHelper). Unit == Unit
	// compares true; Unit == Error never does, regardless of message, so
	// this doubles as an is-error test without a dedicated opcode.
	unitReg := cctx.Builder.EmitConst(unitValueMarker())
	cond := cctx.Builder.EmitHelperCall("ValueEquals", guard, unitReg)
	cctx.Builder.EmitBranch(cond, okBlk, errBlk)

	cctx.Builder.SetBlock(errBlk)
	cctx.Builder.EmitHelperCall("ExitFn")
	cctx.Builder.EmitReturn(guard)

	cctx.Builder.SetBlock(okBlk)
	for i, refID := range cctx.Def.ParamRefIDs {
		cctx.Locals[refID] = cctx.Builder.Param(i)
		if i < len(cctx.Def.Params) {
			cctx.LocalNames[cctx.Def.Params[i]] = refID
		}
	}
	return cctx
}

// LoweringStage is the Function Compiler's body-lowering stage (§4.5 step
// 4): emits the expression tree, then an epilogue that decrements the
// call-depth counter on every return path before the final OpReturn.
type LoweringStage struct{}

func (LoweringStage) Process(cctx *pipeline.CompileContext) *pipeline.CompileContext {
	l := &lowerer{cctx: cctx}
	result, err := l.lowerExpr(cctx.Def.Body)
	if err != nil {
		cctx.Errors = append(cctx.Errors, err)
		return cctx
	}
	cctx.Builder.EmitHelperCall("ExitFn")
	cctx.Builder.EmitHelperCall("DecCallDepth")
	cctx.Builder.EmitReturn(result)
	return cctx
}

// lowerer carries the per-function state the expression/pattern/block
// lowering rules thread through: the shared CompileContext, plus a
// single pending reuse token (§4.4) a match arm can hand to the next
// allocating construct its body lowers.
type lowerer struct {
	cctx *pipeline.CompileContext

	// reuseToken, when non-nil, names the register holding a TryReuse
	// result a match arm made available to its guard and body (§4.3.5 step
	// 4). It is consumed by the first constructor/record/tuple/list
	// allocation emitted after it is set, then cleared. A saturated
	// constructor application takes it before lowering its arguments; a
	// tuple, record or list literal lowers its items first, so an
	// allocation inside one of its items can take it instead.
	reuseToken *ssa.Reg
}

// takeReuseToken returns the pending reuse token register (if any) and
// clears it, so at most one allocation per arm consumes it.
func (l *lowerer) takeReuseToken() (ssa.Reg, bool) {
	if l.reuseToken == nil {
		return 0, false
	}
	tok := *l.reuseToken
	l.reuseToken = nil
	return tok, true
}

func (l *lowerer) err(format string, args ...any) error {
	return fmt.Errorf("lowering %s: %s", l.cctx.Def.Name, fmt.Sprintf(format, args...))
}

// unitValueMarker gives the prologue's call-depth guard a constant Unit
// Value to compare against; it is an ordinary boxed constant, not a
// sentinel the runtime treats specially.
func unitValueMarker() any { return unitValue() }

// nameConstMarker gives enter_fn a constant Text Value to pass as the
// function name it pushes onto the diagnostics frame stack.
func nameConstMarker(name string) any { return textValue(name) }
