package lowering

import (
	"github.com/funvibe/aivi-core/internal/ir"
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/ssa"
	"github.com/funvibe/aivi-core/internal/value"
)

// lowerExpr is the lowering rules of §4.3.3: one case per typed-IR
// expression node, each emitting the ssa instructions that compute it and
// returning the register holding its result.
func (l *lowerer) lowerExpr(e ir.Expr) (ssa.Reg, error) {
	b := l.cctx.Builder
	switch n := e.(type) {
	case *ir.LitInt:
		return b.EmitConst(value.NewInt(n.Value)), nil
	case *ir.LitFloat:
		return b.EmitConst(value.NewFloat(n.Value)), nil
	case *ir.LitBool:
		return b.EmitConst(value.NewBool(n.Value)), nil
	case *ir.LitString:
		return b.EmitConst(value.NewText(n.Value)), nil
	case *ir.LitDateTime:
		return b.EmitConst(value.NewDateTime(n.ISO)), nil
	case *ir.LitBigNumber:
		return l.lowerLitBigNumber(n), nil
	case *ir.LitSigil:
		tag := b.EmitConst(value.NewText(n.Tag))
		body := b.EmitConst(value.NewText(n.Body))
		flags := b.EmitConst(value.NewText(n.Flags))
		return b.EmitHelperCall("EvalSigil", tag, body, flags), nil
	case *ir.Interp:
		return l.lowerInterp(n)
	case *ir.LocalRef:
		reg, ok := l.cctx.Locals[n.RefID]
		if !ok {
			return 0, l.err("unbound local reference %q (refID %d)", n.Name, n.RefID)
		}
		return reg, nil
	case *ir.GlobalRef:
		name := b.EmitConst(value.NewText(n.Name))
		return b.EmitHelperCall("GetGlobal", name), nil
	case *ir.CtorRef:
		nameReg := b.EmitConst(value.NewText(n.Name))
		return b.EmitHelperCall("AllocConstructor", nameReg), nil
	case *ir.Lambda:
		return l.lowerLambda(n)
	case *ir.Apply:
		return l.lowerApply(n)
	case *ir.Call:
		return l.lowerCall(n)
	case *ir.ListExpr:
		return l.lowerListExpr(n)
	case *ir.TupleExpr:
		return l.lowerTupleExpr(n)
	case *ir.RecordExpr:
		return l.lowerRecordExpr(n)
	case *ir.Patch:
		return l.lowerPatch(n)
	case *ir.FieldAccess:
		target, err := l.lowerExpr(n.Target)
		if err != nil {
			return 0, err
		}
		name := b.EmitConst(value.NewText(n.Name))
		return b.EmitHelperCall("RecordField", target, name), nil
	case *ir.Index:
		return l.lowerIndex(n)
	case *ir.If:
		return l.lowerIf(n)
	case *ir.BinOp:
		lhs, err := l.lowerExpr(n.Lhs)
		if err != nil {
			return 0, err
		}
		rhs, err := l.lowerExpr(n.Rhs)
		if err != nil {
			return 0, err
		}
		return b.EmitBinOp(n.Op, lhs, rhs), nil
	case *ir.Match:
		return l.lowerMatch(n)
	case *ir.Block:
		return l.lowerBlock(n)
	default:
		return 0, l.err("no lowering rule for expression node %T", e)
	}
}

func (l *lowerer) lowerLitBigNumber(n *ir.LitBigNumber) ssa.Reg {
	var v *value.Value
	switch n.Kind {
	case "Rational":
		v = value.NewRational(n.Text)
	case "Decimal":
		v = value.NewDecimal(n.Text)
	default:
		v = value.NewBigInt(n.Text)
	}
	return l.cctx.Builder.EmitConst(v)
}

// lowerInterp concatenates an interpolated string's parts left to right.
// Embedded expressions are assumed to already evaluate to Text, per the
// surface grammar's own stringification rule (§A.3); the lowering engine
// only sequences the concatenation.
func (l *lowerer) lowerInterp(n *ir.Interp) (ssa.Reg, error) {
	b := l.cctx.Builder
	var acc ssa.Reg
	have := false
	for _, part := range n.Parts {
		var reg ssa.Reg
		if part.Expr != nil {
			r, err := l.lowerExpr(part.Expr)
			if err != nil {
				return 0, err
			}
			reg = r
		} else {
			reg = b.EmitConst(value.NewText(part.Text))
		}
		if !have {
			acc, have = reg, true
			continue
		}
		acc = b.EmitBinOp("++", acc, reg)
	}
	if !have {
		return b.EmitConst(value.NewText("")), nil
	}
	return acc, nil
}

func (l *lowerer) lowerLambda(n *ir.Lambda) (ssa.Reg, error) {
	entry, ok := l.cctx.Lambdas.Lookup(n)
	if !ok {
		return 0, l.err("lambda site was never hoisted by the pre-pass")
	}
	captured := make([]ssa.Reg, 0, len(entry.FreeVars))
	for _, name := range entry.FreeVars {
		refID, ok := l.cctx.LocalNames[name]
		if !ok {
			return 0, l.err("lambda captures %q, which is not in scope here", name)
		}
		reg, ok := l.cctx.Locals[refID]
		if !ok {
			return 0, l.err("lambda captures %q with no bound register", name)
		}
		captured = append(captured, reg)
	}
	return l.cctx.Builder.EmitMakeClosure(entry.Symbol, entry.Arity, captured...), nil
}

func (l *lowerer) lowerApply(n *ir.Apply) (ssa.Reg, error) {
	b := l.cctx.Builder

	// A fully-saturated constructor application (e.g. `Cons (f h) t`) is
	// the allocating construct a match arm's pending reuse token (§4.4) is
	// meant for: route it through reuse_constructor instead of the
	// curried make_closure-free apply/alloc_constructor chain.
	if name, args, ok := flattenSaturatedCtorApply(n, l.cctx.RT); ok {
		if tok, have := l.takeReuseToken(); have {
			argRegs := make([]ssa.Reg, len(args))
			for i, a := range args {
				reg, err := l.lowerExpr(a)
				if err != nil {
					return 0, err
				}
				argRegs[i] = reg
			}
			nameReg := b.EmitConst(value.NewText(name))
			callArgs := append([]ssa.Reg{tok, nameReg}, argRegs...)
			return b.EmitHelperCall("ReuseConstructor", callArgs...), nil
		}
	}

	fn, err := l.lowerExpr(n.Fn)
	if err != nil {
		return 0, err
	}
	arg, err := l.lowerExpr(n.Arg)
	if err != nil {
		return 0, err
	}
	return b.EmitHelperCall("Apply", fn, arg), nil
}

// flattenSaturatedCtorApply reports whether n is a chain of Apply nodes
// built entirely over a single CtorRef callee (Apply(Apply(...Apply(CtorRef(name),
// a1)...), an)) with exactly as many arguments as name's registered arity,
// returning the constructor name and its arguments in application order.
func flattenSaturatedCtorApply(n *ir.Apply, rt *runtime.Context) (string, []ir.Expr, bool) {
	var args []ir.Expr
	var cur ir.Expr = n
	for {
		app, ok := cur.(*ir.Apply)
		if !ok {
			break
		}
		args = append([]ir.Expr{app.Arg}, args...)
		cur = app.Fn
	}
	ctor, ok := cur.(*ir.CtorRef)
	if !ok || rt == nil {
		return "", nil, false
	}
	arity, ok := rt.ConstructorArityOf(ctor.Name)
	if !ok || arity != len(args) {
		return "", nil, false
	}
	return ctor.Name, args, true
}

// lowerCall routes a statically-known global callee through call_direct
// (§4.3.4's direct-call fast path); anything else desugars to a left fold
// of apply over each argument.
func (l *lowerer) lowerCall(n *ir.Call) (ssa.Reg, error) {
	b := l.cctx.Builder
	if g, ok := n.Fn.(*ir.GlobalRef); ok {
		if _, ok := l.cctx.RT.LookupJITFn(g.Name); ok {
			args := make([]ssa.Reg, len(n.Args))
			for i, a := range n.Args {
				reg, err := l.lowerExpr(a)
				if err != nil {
					return 0, err
				}
				args[i] = reg
			}
			nameReg := b.EmitConst(value.NewText(g.Name))
			callArgs := append([]ssa.Reg{nameReg}, args...)
			return b.EmitHelperCall("CallDirect", callArgs...), nil
		}
	}
	fn, err := l.lowerExpr(n.Fn)
	if err != nil {
		return 0, err
	}
	for _, a := range n.Args {
		arg, err := l.lowerExpr(a)
		if err != nil {
			return 0, err
		}
		fn = b.EmitHelperCall("Apply", fn, arg)
	}
	return fn, nil
}

// lowerListExpr builds a List value left to right. A spread item is
// concatenated in rather than appended as a single element.
func (l *lowerer) lowerListExpr(n *ir.ListExpr) (ssa.Reg, error) {
	b := l.cctx.Builder
	plain := make([]ssa.Reg, 0, len(n.Items))
	var acc ssa.Reg
	haveAcc := false

	flush := func() ssa.Reg {
		if tok, have := l.takeReuseToken(); have {
			return b.EmitHelperCall("ReuseList", append([]ssa.Reg{tok}, plain...)...)
		}
		return b.EmitHelperCall("AllocList", plain...)
	}

	for _, item := range n.Items {
		reg, err := l.lowerExpr(item.Value)
		if err != nil {
			return 0, err
		}
		if !item.Spread {
			plain = append(plain, reg)
			continue
		}
		if len(plain) > 0 {
			chunk := flush()
			plain = plain[:0]
			if haveAcc {
				acc = b.EmitHelperCall("ListConcat", acc, chunk)
			} else {
				acc, haveAcc = chunk, true
			}
		}
		if haveAcc {
			acc = b.EmitHelperCall("ListConcat", acc, reg)
		} else {
			acc, haveAcc = reg, true
		}
	}
	if len(plain) > 0 || !haveAcc {
		chunk := flush()
		if haveAcc {
			acc = b.EmitHelperCall("ListConcat", acc, chunk)
		} else {
			acc = chunk
		}
	}
	return acc, nil
}

func (l *lowerer) lowerTupleExpr(n *ir.TupleExpr) (ssa.Reg, error) {
	b := l.cctx.Builder
	regs := make([]ssa.Reg, len(n.Items))
	for i, item := range n.Items {
		reg, err := l.lowerExpr(item)
		if err != nil {
			return 0, err
		}
		regs[i] = reg
	}
	if tok, have := l.takeReuseToken(); have {
		return b.EmitHelperCall("ReuseTuple", append([]ssa.Reg{tok}, regs...)...), nil
	}
	return b.EmitHelperCall("AllocTuple", regs...), nil
}

func (l *lowerer) lowerRecordExpr(n *ir.RecordExpr) (ssa.Reg, error) {
	b := l.cctx.Builder
	args := make([]ssa.Reg, 0, len(n.Fields)*2)
	for _, f := range n.Fields {
		reg, err := l.lowerExpr(f.Value)
		if err != nil {
			return 0, err
		}
		args = append(args, b.EmitConst(value.NewText(f.Name)), reg)
	}
	if tok, have := l.takeReuseToken(); have {
		return b.EmitHelperCall("ReuseRecord", append([]ssa.Reg{tok}, args...)...), nil
	}
	return b.EmitHelperCall("AllocRecord", args...), nil
}

// lowerPatch implements the reuse-aware record-patch rule (§4.3.3, §4.4):
// when Target is a LocalRef at its last use, the target's heap slot is
// mutated in place (patch_record_inplace) instead of allocating a fresh
// Record.
func (l *lowerer) lowerPatch(n *ir.Patch) (ssa.Reg, error) {
	b := l.cctx.Builder
	target, err := l.lowerExpr(n.Target)
	if err != nil {
		return 0, err
	}
	fieldArgs := make([]ssa.Reg, 0, len(n.Fields)*2)
	for _, f := range n.Fields {
		reg, err := l.lowerExpr(f.Value)
		if err != nil {
			return 0, err
		}
		fieldArgs = append(fieldArgs, b.EmitConst(value.NewText(f.Name)), reg)
	}

	helper := "PatchRecord"
	if ref, ok := n.Target.(*ir.LocalRef); ok && l.cctx.UseResult != nil && l.cctx.UseResult.LastUse[ref.RefID] {
		helper = "PatchRecordInPlace"
	}
	args := append([]ssa.Reg{target}, fieldArgs...)
	return b.EmitHelperCall(helper, args...), nil
}

func (l *lowerer) lowerIndex(n *ir.Index) (ssa.Reg, error) {
	target, err := l.lowerExpr(n.Target)
	if err != nil {
		return 0, err
	}
	idx, err := l.lowerExpr(n.Idx)
	if err != nil {
		return 0, err
	}
	return l.cctx.Builder.EmitHelperCall("ListIndex", target, idx), nil
}

func (l *lowerer) lowerIf(n *ir.If) (ssa.Reg, error) {
	b := l.cctx.Builder
	cond, err := l.lowerExpr(n.Cond)
	if err != nil {
		return 0, err
	}
	thenBlk := b.NewBlock()
	elseBlk := b.NewBlock()
	joinBlk := b.NewBlock()
	b.EmitBranch(cond, thenBlk, elseBlk)

	b.SetBlock(thenBlk)
	thenReg, err := l.lowerExpr(n.Then)
	if err != nil {
		return 0, err
	}
	thenExit := b.CurrentBlock()
	b.EmitJump(joinBlk)

	b.SetBlock(elseBlk)
	elseReg, err := l.lowerExpr(n.Else)
	if err != nil {
		return 0, err
	}
	elseExit := b.CurrentBlock()
	b.EmitJump(joinBlk)

	b.SetBlock(joinBlk)
	return b.EmitPhi(map[ssa.BlockID]ssa.Reg{
		thenExit.ID: thenReg,
		elseExit.ID: elseReg,
	}), nil
}
