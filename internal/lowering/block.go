package lowering

import (
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/ssa"
	"github.com/funvibe/aivi-core/internal/value"
)

// lowerBlock dispatches on the four block shapes a typed-IR Block node can
// take (§3.3, §4.3.3).
func (l *lowerer) lowerBlock(n *ir.Block) (ssa.Reg, error) {
	switch n.Kind {
	case ir.BlockPlain:
		return l.lowerPlainBlock(n)
	case ir.BlockEffectDo:
		return l.lowerEffectDoBlock(n)
	case ir.BlockGenerate:
		return l.lowerGenerateBlock(n)
	case ir.BlockResource:
		return l.lowerResourceBlock(n)
	default:
		return 0, l.err("no lowering rule for block kind %d", n.Kind)
	}
}

// lowerPlainBlock sequences every item for its side effects and returns the
// last one's register; the Go runtime's own garbage collector reclaims
// discarded intermediate results, so no explicit drop is emitted here.
func (l *lowerer) lowerPlainBlock(n *ir.Block) (ssa.Reg, error) {
	if len(n.Plain) == 0 {
		return l.cctx.Builder.EmitConst(value.NewUnit()), nil
	}
	var last ssa.Reg
	for _, item := range n.Plain {
		reg, err := l.lowerExpr(item)
		if err != nil {
			return 0, err
		}
		last = reg
	}
	return last, nil
}

// lowerEffectDoBlock lowers `pattern <- rhs` notation by forcing each step's
// Effect inline with run_effect as soon as it is reached, binding its result
// via an irrefutable pattern, then rewrapping the final step's value as a
// fresh Effect (wrap_effect) so the block's own result still denotes an
// Effect a caller can run_effect again — this core has no independent
// scheduler to defer the composition the way a multi-shot effect runtime
// would, and the teacher's own evaluator runs effects eagerly too.
func (l *lowerer) lowerEffectDoBlock(n *ir.Block) (ssa.Reg, error) {
	b := l.cctx.Builder
	var last ssa.Reg
	have := false
	for _, item := range n.Do {
		rhsReg, err := l.lowerExpr(item.Rhs)
		if err != nil {
			return 0, err
		}
		resultReg := b.EmitHelperCall("RunEffect", rhsReg)
		if item.Pattern != nil {
			_, binds, err := l.testPattern(item.Pattern, resultReg)
			if err != nil {
				return 0, err
			}
			l.installBindings(binds)
		}
		last, have = resultReg, true
	}
	if !have {
		last = b.EmitConst(value.NewUnit())
	}
	return b.EmitHelperCall("WrapEffect", last), nil
}

// lowerGenerateBlock builds a generator vector by walking the block's items
// in order (§4.3.3): GenYield pushes a value, GenFilter short-circuits the
// remaining items for the current pass when false, and GenBind loops over a
// List's elements, re-running the remaining items once per element.
func (l *lowerer) lowerGenerateBlock(n *ir.Block) (ssa.Reg, error) {
	b := l.cctx.Builder
	vecReg := b.EmitHelperCall("GenVecNew")
	finalVec, err := l.lowerGenItems(n.Gen, 0, vecReg)
	if err != nil {
		return 0, err
	}
	return b.EmitHelperCall("GenVecIntoGenerator", finalVec), nil
}

func (l *lowerer) lowerGenItems(items []ir.GenItem, idx int, vecReg ssa.Reg) (ssa.Reg, error) {
	b := l.cctx.Builder
	if idx >= len(items) {
		return vecReg, nil
	}
	item := items[idx]

	switch item.Kind {
	case ir.GenYield:
		valReg, err := l.lowerExpr(item.Rhs)
		if err != nil {
			return 0, err
		}
		newVec := b.EmitHelperCall("GenVecPush", vecReg, valReg)
		return l.lowerGenItems(items, idx+1, newVec)

	case ir.GenFilter:
		condReg, err := l.lowerExpr(item.Rhs)
		if err != nil {
			return 0, err
		}
		contBlk := b.NewBlock()
		skipBlk := b.NewBlock()
		joinBlk := b.NewBlock()
		b.EmitBranch(condReg, contBlk, skipBlk)

		b.SetBlock(contBlk)
		contVec, err := l.lowerGenItems(items, idx+1, vecReg)
		if err != nil {
			return 0, err
		}
		contExit := b.CurrentBlock()
		b.EmitJump(joinBlk)

		b.SetBlock(skipBlk)
		b.EmitJump(joinBlk)

		b.SetBlock(joinBlk)
		return b.EmitPhi(map[ssa.BlockID]ssa.Reg{
			contExit.ID: contVec,
			skipBlk.ID:  vecReg,
		}), nil

	case ir.GenBind:
		return l.lowerGenBind(item, items, idx, vecReg)

	default:
		return 0, l.err("no lowering rule for generate-block item kind %d", item.Kind)
	}
}

// lowerGenBind compiles `pattern <- rhs` as a real loop over rhs's elements:
// a header block tests the index against the list length with index and
// accumulator threaded through as phi values, a body block binds the
// current element and lowers the remaining items, and an exit block hands
// back whatever accumulator value the loop produced.
func (l *lowerer) lowerGenBind(item ir.GenItem, items []ir.GenItem, idx int, vecIn ssa.Reg) (ssa.Reg, error) {
	b := l.cctx.Builder
	listReg, err := l.lowerExpr(item.Rhs)
	if err != nil {
		return 0, err
	}
	lenReg := b.EmitHelperCall("ListLen", listReg)
	zeroReg := b.EmitConst(value.NewInt(0))

	preheader := b.CurrentBlock()
	headerBlk := b.NewBlock()
	bodyBlk := b.NewBlock()
	exitBlk := b.NewBlock()
	b.EmitJump(headerBlk)

	b.SetBlock(headerBlk)
	idxSources := map[ssa.BlockID]ssa.Reg{preheader.ID: zeroReg}
	vecSources := map[ssa.BlockID]ssa.Reg{preheader.ID: vecIn}
	idxPhi := b.EmitPhi(idxSources)
	vecPhi := b.EmitPhi(vecSources)
	cond := b.EmitBinOp("<", idxPhi, lenReg)
	b.EmitBranch(cond, bodyBlk, exitBlk)

	b.SetBlock(bodyBlk)
	elemReg := b.EmitHelperCall("ListIndex", listReg, idxPhi)
	_, binds, err := l.testPattern(item.Pattern, elemReg)
	if err != nil {
		return 0, err
	}
	l.installBindings(binds)

	innerVec, err := l.lowerGenItems(items, idx+1, vecPhi)
	if err != nil {
		return 0, err
	}
	bodyEnd := b.CurrentBlock()
	oneReg := b.EmitConst(value.NewInt(1))
	nextIdx := b.EmitBinOp("+", idxPhi, oneReg)
	b.EmitJump(headerBlk)

	// idxSources/vecSources are the same maps EmitPhi stored on the header's
	// Phi instructions; mutating them here backfills the loop-back edge now
	// that bodyEnd's block id is known.
	idxSources[bodyEnd.ID] = nextIdx
	vecSources[bodyEnd.ID] = innerVec

	b.SetBlock(exitBlk)
	return vecPhi, nil
}

// lowerResourceBlock embeds the upstream-elaborated Value as a constant and
// clones it at this call site (§4.3.3), since the same constant-pool entry
// may be referenced from more than one call.
func (l *lowerer) lowerResourceBlock(n *ir.Block) (ssa.Reg, error) {
	b := l.cctx.Builder
	constReg := b.EmitConst(n.Resource)
	return b.EmitHelperCall("CloneValue", constReg), nil
}
