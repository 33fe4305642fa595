package lowering

import (
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/ssa"
	"github.com/funvibe/aivi-core/internal/value"
)

// binding is one pattern-variable binding a successful test collects:
// RefID is the use-analysis key, Reg is the already-computed register
// holding the bound sub-value (reusing whatever accessor call produced it
// rather than re-evaluating).
type binding struct {
	name  string
	refID int
	reg   ssa.Reg
}

// lowerMatch implements the pattern-match compiler (§4.3.5): arms are
// tried in order, each arm's structural test built as a side-effect-free
// boolean conjunction over the runtime's access probes, so only the
// winning arm's guard and body actually run. After the last arm fails,
// control reaches signal_match_fail (§7 NonExhaustiveMatch).
func (l *lowerer) lowerMatch(n *ir.Match) (ssa.Reg, error) {
	b := l.cctx.Builder
	scrutinee, err := l.lowerExpr(n.Scrutinee)
	if err != nil {
		return 0, err
	}

	joinBlk := b.NewBlock()
	type joinSource struct {
		blk *ssa.BasicBlock
		reg ssa.Reg
	}
	var sources []joinSource

	nextTest := b.CurrentBlock()
	for _, arm := range n.Arms {
		b.SetBlock(nextTest)
		cond, binds, err := l.testPattern(arm.Pattern, scrutinee)
		if err != nil {
			return 0, err
		}

		bindBlk := b.NewBlock()
		nextTest = b.NewBlock()
		b.EmitBranch(cond, bindBlk, nextTest)

		b.SetBlock(bindBlk)
		savedLocals, savedNames := l.installBindings(binds)

		// §4.4 step 4: once a constructor arm has bound its scrutinee's
		// fields and the scrutinee itself is dead after this match, try to
		// reclaim its heap slot for the body's own next allocation instead
		// of freeing it and allocating fresh.
		if _, ok := arm.Pattern.(ir.PConstructor); ok &&
			n.ScrutineeRefID >= 0 && l.cctx.UseResult != nil && l.cctx.UseResult.LastUse[n.ScrutineeRefID] {
			tokReg := b.EmitHelperCall("TryReuse", scrutinee)
			l.reuseToken = &tokReg
		}

		if arm.Guard != nil {
			guardReg, err := l.lowerExpr(arm.Guard)
			if err != nil {
				return 0, err
			}
			passBlk := b.NewBlock()
			b.EmitBranch(guardReg, passBlk, nextTest)
			b.SetBlock(passBlk)
		}

		bodyReg, err := l.lowerExpr(arm.Body)
		if err != nil {
			return 0, err
		}
		exitBlk := b.CurrentBlock()
		b.EmitJump(joinBlk)
		sources = append(sources, joinSource{blk: exitBlk, reg: bodyReg})

		l.restoreBindings(savedLocals, savedNames)
		l.reuseToken = nil
	}

	b.SetBlock(nextTest)
	failReg := b.EmitHelperCall("SignalMatchFail")
	b.EmitJump(joinBlk)
	sources = append(sources, joinSource{blk: nextTest, reg: failReg})

	b.SetBlock(joinBlk)
	phiSources := make(map[ssa.BlockID]ssa.Reg, len(sources))
	for _, s := range sources {
		phiSources[s.blk.ID] = s.reg
	}
	return b.EmitPhi(phiSources), nil
}

// savedLocal remembers what cctx.Locals held for a RefID before an arm's
// bindings shadowed it, so restoreBindings can put it back.
type savedLocal struct {
	reg ssa.Reg
	had bool
}

// savedName is the LocalNames analogue of savedLocal, keyed by the bound
// variable's source name rather than its RefID.
type savedName struct {
	refID int
	had   bool
}

// installBindings writes binds into cctx.Locals and cctx.LocalNames,
// returning the previous entries so the caller can restore them once this
// arm's scope ends (arms are tried in sequence against the same lowerer
// state, so bindings must not leak across arms). LocalNames must track
// pattern bindings too, not just parameters, so a lambda hoisted from
// inside a match arm, do-block, or generate-block can still resolve a
// pattern-bound free variable by name (see lowerLambda).
func (l *lowerer) installBindings(binds []binding) (map[int]savedLocal, map[string]savedName) {
	savedLocals := map[int]savedLocal{}
	savedNames := map[string]savedName{}
	for _, bd := range binds {
		old, had := l.cctx.Locals[bd.refID]
		savedLocals[bd.refID] = savedLocal{reg: old, had: had}
		l.cctx.Locals[bd.refID] = bd.reg

		if bd.name == "" {
			continue
		}
		if _, exists := savedNames[bd.name]; !exists {
			oldRefID, had := l.cctx.LocalNames[bd.name]
			savedNames[bd.name] = savedName{refID: oldRefID, had: had}
		}
		l.cctx.LocalNames[bd.name] = bd.refID
	}
	return savedLocals, savedNames
}

func (l *lowerer) restoreBindings(savedLocals map[int]savedLocal, savedNames map[string]savedName) {
	for refID, s := range savedLocals {
		if s.had {
			l.cctx.Locals[refID] = s.reg
		} else {
			delete(l.cctx.Locals, refID)
		}
	}
	for name, s := range savedNames {
		if s.had {
			l.cctx.LocalNames[name] = s.refID
		} else {
			delete(l.cctx.LocalNames, name)
		}
	}
}

// testPattern emits the side-effect-free accessor/condition chain that
// determines whether p matches the value in scrutinee, plus the bindings
// a successful match introduces.
func (l *lowerer) testPattern(p ir.Pattern, scrutinee ssa.Reg) (ssa.Reg, []binding, error) {
	b := l.cctx.Builder
	switch pat := p.(type) {
	case ir.PWildcard:
		return b.EmitConst(value.NewBool(true)), nil, nil

	case ir.PVar:
		return b.EmitConst(value.NewBool(true)), []binding{{name: pat.Name, refID: pat.RefID, reg: scrutinee}}, nil

	case ir.PLiteral:
		lit, err := l.lowerExpr(pat.Value)
		if err != nil {
			return 0, nil, err
		}
		return b.EmitHelperCall("ValueEquals", scrutinee, lit), nil, nil

	case ir.PConstructor:
		// Name and arity are checked before any argument is extracted: a
		// constructor applied with fewer args than the pattern names would
		// otherwise let ConstructorArg's out-of-range Error flow straight
		// into a PVar sub-binding, which always reports "matched".
		nameReg := b.EmitConst(value.NewText(pat.Name))
		nameEq := b.EmitHelperCall("ConstructorNameEq", scrutinee, nameReg)
		arityReg := b.EmitHelperCall("ConstructorArity", scrutinee)
		wantArity := b.EmitConst(value.NewInt(int64(len(pat.Args))))
		arityEq := b.EmitBinOp("==", arityReg, wantArity)
		headCond := b.EmitBinOp("&&", nameEq, arityEq)

		if len(pat.Args) == 0 {
			return headCond, nil, nil
		}

		argsBlk := b.NewBlock()
		skipBlk := b.NewBlock()
		joinBlk := b.NewBlock()
		b.EmitBranch(headCond, argsBlk, skipBlk)

		b.SetBlock(argsBlk)
		cond := b.EmitConst(value.NewBool(true))
		var binds []binding
		for i, sub := range pat.Args {
			idx := b.EmitConst(value.NewInt(int64(i)))
			argReg := b.EmitHelperCall("ConstructorArg", scrutinee, idx)
			subCond, subBinds, err := l.testPattern(sub, argReg)
			if err != nil {
				return 0, nil, err
			}
			cond = b.EmitBinOp("&&", cond, subCond)
			binds = append(binds, subBinds...)
		}
		argsExit := b.CurrentBlock()
		b.EmitJump(joinBlk)

		b.SetBlock(skipBlk)
		falseReg := b.EmitConst(value.NewBool(false))
		b.EmitJump(joinBlk)

		b.SetBlock(joinBlk)
		joined := b.EmitPhi(map[ssa.BlockID]ssa.Reg{
			argsExit.ID: cond,
			skipBlk.ID:  falseReg,
		})
		return joined, binds, nil

	case ir.PTuple:
		cond := b.EmitConst(value.NewBool(true))
		var binds []binding
		for i, sub := range pat.Items {
			idx := b.EmitConst(value.NewInt(int64(i)))
			itemReg := b.EmitHelperCall("TupleItem", scrutinee, idx)
			subCond, subBinds, err := l.testPattern(sub, itemReg)
			if err != nil {
				return 0, nil, err
			}
			cond = b.EmitBinOp("&&", cond, subCond)
			binds = append(binds, subBinds...)
		}
		return cond, binds, nil

	case ir.PList:
		lenReg := b.EmitHelperCall("ListLen", scrutinee)
		nReg := b.EmitConst(value.NewInt(int64(len(pat.Items))))
		var cond ssa.Reg
		if pat.Rest == nil {
			cond = b.EmitBinOp("==", lenReg, nReg)
		} else {
			cond = b.EmitBinOp(">=", lenReg, nReg)
		}
		var binds []binding
		for i, sub := range pat.Items {
			idx := b.EmitConst(value.NewInt(int64(i)))
			itemReg := b.EmitHelperCall("ListIndex", scrutinee, idx)
			subCond, subBinds, err := l.testPattern(sub, itemReg)
			if err != nil {
				return 0, nil, err
			}
			cond = b.EmitBinOp("&&", cond, subCond)
			binds = append(binds, subBinds...)
		}
		if pat.Rest != nil {
			nIdx := b.EmitConst(value.NewInt(int64(len(pat.Items))))
			tailReg := b.EmitHelperCall("ListTail", scrutinee, nIdx)
			restCond, restBinds, err := l.testPattern(pat.Rest, tailReg)
			if err != nil {
				return 0, nil, err
			}
			cond = b.EmitBinOp("&&", cond, restCond)
			binds = append(binds, restBinds...)
		}
		return cond, binds, nil

	case ir.PRecord:
		cond := b.EmitConst(value.NewBool(true))
		var binds []binding
		for _, f := range pat.Fields {
			cur := scrutinee
			for _, field := range f.Path {
				nameReg := b.EmitConst(value.NewText(field))
				cur = b.EmitHelperCall("RecordField", cur, nameReg)
			}
			subCond, subBinds, err := l.testPattern(f.Sub, cur)
			if err != nil {
				return 0, nil, err
			}
			cond = b.EmitBinOp("&&", cond, subCond)
			binds = append(binds, subBinds...)
		}
		return cond, binds, nil

	case ir.PAt:
		innerCond, innerBinds, err := l.testPattern(pat.Inner, scrutinee)
		if err != nil {
			return 0, nil, err
		}
		binds := append([]binding{{name: pat.Name, refID: pat.RefID, reg: scrutinee}}, innerBinds...)
		return innerCond, binds, nil

	default:
		return 0, nil, l.err("no lowering rule for pattern %T", p)
	}
}
