package ssa

import (
	"github.com/funvibe/aivi-core/internal/runtime"
	"github.com/funvibe/aivi-core/internal/value"
)

// Exec runs fn to completion against ctx and returns its result. This is
// the "native code" a compiled AIVI function reduces to at this layer: a
// straight-line walk over registers and basic blocks, dispatching
// OpHelperCall/OpBinOp through a fixed switch rather than reflection.
func Exec(fn *Function, ctx *runtime.Context, args []*value.Value) *value.Value {
	regs := make([]*value.Value, fn.NumParams, fn.NumParams+16)
	copy(regs, args)

	// tokens tracks the live reuse token (if any) a TryReuse call produced
	// per destination register, since a *value.ReuseToken can't round-trip
	// through the generic register-of-Values convention every other
	// helper call uses.
	tokens := map[Reg]*value.ReuseToken{}

	blk := fn.Block(0)
	var prev BlockID = -1
	for blk != nil {
		grow := func(r Reg) {
			for Reg(len(regs)) <= r {
				regs = append(regs, nil)
			}
		}
		var next *BasicBlock
		for _, ins := range blk.Instrs {
			switch ins.Op {
			case OpConst:
				grow(ins.Dst)
				regs[ins.Dst] = constToValue(fn.Constants[ins.Const])
			case OpMove:
				grow(ins.Dst)
				regs[ins.Dst] = regs[ins.Args[0]]
			case OpPhi:
				grow(ins.Dst)
				regs[ins.Dst] = regs[ins.PhiSources[prev]]
			case OpHelperCall:
				grow(ins.Dst)
				if ins.Helper == "TryReuse" {
					tok := ctx.TryReuse(regs[ins.Args[0]])
					tokens[ins.Dst] = tok
					regs[ins.Dst] = value.NewBool(tok != nil)
					break
				}
				if reuseOp, ok := reuseHelperName(ins.Helper); ok {
					regs[ins.Dst] = dispatchReuseHelper(ctx, reuseOp, tokens[ins.Args[0]], regValues(regs, ins.Args[1:]))
					break
				}
				regs[ins.Dst] = dispatchHelper(ctx, ins.Helper, regValues(regs, ins.Args))
			case OpMakeClosure:
				grow(ins.Dst)
				entry, ok := ctx.LookupJITFn(ins.Helper)
				if !ok {
					regs[ins.Dst] = value.NewError(value.UndefinedGlobal, "ssa: unregistered function symbol "+ins.Helper)
					break
				}
				regs[ins.Dst] = ctx.MakeClosure(entry.Ptr, regValues(regs, ins.Args), ins.Const)
			case OpBinOp:
				grow(ins.Dst)
				operands := regValues(regs, ins.Args)
				regs[ins.Dst] = ctx.BinaryOp(ins.HelperOp, operands[0], operands[1])
			case OpBranch:
				cond := regs[ins.Args[0]]
				prev = blk.ID
				if cond.Tag == value.Bool && cond.B {
					next = fn.Block(ins.Then)
				} else {
					next = fn.Block(ins.Else)
				}
			case OpJump:
				prev = blk.ID
				next = fn.Block(ins.Target)
			case OpReturn:
				return regs[ins.Args[0]]
			}
		}
		blk = next
	}
	return value.NewError(value.TypeMismatch, "ssa: function fell off its last block without a return")
}

func regValues(regs []*value.Value, rs []Reg) []*value.Value {
	out := make([]*value.Value, len(rs))
	for i, r := range rs {
		out[i] = regs[r]
	}
	return out
}

func constToValue(c any) *value.Value {
	if v, ok := c.(*value.Value); ok {
		return v
	}
	return value.NewError(value.TypeMismatch, "ssa: constant pool entry is not a Value")
}

// dispatchHelper routes a named runtime-helper call to the matching
// *runtime.Context method. Only the helpers the lowering engine actually
// emits need an entry; an unrecognised name is itself a TypeMismatch
// rather than a panic, keeping faith with the core's never-unwind rule
// (§7) even for an internal wiring mistake.
//
// Helpers whose Go signature takes something other than a flat []*Value
// (a name, an index, a list of record fields) encode that argument as a
// Value in the obvious way: a string becomes Text, an int64 becomes Int.
// AllocRecord and PatchRecord take their field list as alternating
// (Text(name), value) pairs after any leading positional argument.
func dispatchHelper(ctx *runtime.Context, name string, args []*value.Value) *value.Value {
	switch name {
	case "Apply":
		return ctx.Apply(args[0], args[1])
	case "CallDirect":
		return ctx.CallDirect(args[0].S, args[1:])
	case "RunEffect":
		return ctx.RunEffect(args[0])
	case "ForceThunk":
		return ctx.ForceThunk(args[0])
	case "WrapEffect":
		return ctx.WrapEffect(args[0])
	case "CloneValue":
		return ctx.CloneValue(args[0])
	case "RecordField":
		return ctx.RecordField(args[0], args[1].S)
	case "ListIndex":
		return ctx.ListIndex(args[0], args[1].I)
	case "ConstructorArg":
		return ctx.ConstructorArg(args[0], args[1].I)
	case "ConstructorArity":
		return value.NewInt(ctx.ConstructorArity(args[0]))
	case "ConstructorNameEq":
		return value.NewBool(ctx.ConstructorNameEq(args[0], args[1].S))
	case "TupleItem":
		return ctx.TupleItem(args[0], args[1].I)
	case "TupleLen":
		return value.NewInt(ctx.TupleLen(args[0]))
	case "ListLen":
		return value.NewInt(ctx.ListLen(args[0]))
	case "ListTail":
		return ctx.ListTail(args[0], args[1].I)
	case "ListConcat":
		return ctx.ListConcat(args[0], args[1])
	case "GetGlobal":
		return ctx.GetGlobal(args[0].S)
	case "HasGlobal":
		return value.NewBool(ctx.HasGlobal(args[0].S))
	case "SetGlobal":
		ctx.SetGlobal(args[0].S, args[1])
		return value.NewUnit()
	case "ValueEquals":
		return value.NewBool(ctx.ValueEquals(args[0], args[1]))
	case "AllocUnit":
		return ctx.AllocUnit()
	case "AllocList":
		return ctx.AllocList(args)
	case "AllocTuple":
		return ctx.AllocTuple(args)
	case "AllocConstructor":
		return ctx.AllocConstructor(args[0].S, args[1:])
	case "AllocRecord":
		names, values := unpackFieldPairs(args)
		return ctx.AllocRecord(names, values)
	case "PatchRecord":
		names, values := unpackFieldPairs(args[1:])
		return ctx.PatchRecord(args[0], names, values)
	case "PatchRecordInPlace":
		names, values := unpackFieldPairs(args[1:])
		return ctx.PatchRecordInPlace(args[0], names, values)
	case "GenVecNew":
		return ctx.GenVecNew()
	case "GenVecPush":
		return ctx.GenVecPush(args[0], args[1])
	case "GenVecIntoGenerator":
		return ctx.GenVecIntoGenerator(args[0])
	case "GeneratorToList":
		return ctx.GeneratorToList(args[0])
	case "EvalSigil":
		return ctx.EvalSigil(args[0].S, args[1].S, args[2].S)
	case "SignalMatchFail":
		return ctx.SignalMatchFail()
	case "CheckCallDepth":
		if err := ctx.CheckCallDepth(); err != nil {
			return err
		}
		return value.NewUnit()
	case "DecCallDepth":
		ctx.DecCallDepth()
		return value.NewUnit()
	case "EnterFn":
		ctx.EnterFn(args[0].S)
		return value.NewUnit()
	case "ExitFn":
		ctx.ExitFn()
		return value.NewUnit()
	case "SetLocation":
		ctx.SetLocation(args[0].S)
		return value.NewUnit()
	default:
		return value.NewError(value.TypeMismatch, "ssa: unknown helper "+name)
	}
}

// unpackFieldPairs reads alternating (Text(name), value) pairs into
// parallel name/value slices for AllocRecord/PatchRecord.
func unpackFieldPairs(args []*value.Value) ([]string, []*value.Value) {
	names := make([]string, 0, len(args)/2)
	values := make([]*value.Value, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		names = append(names, args[i].S)
		values = append(values, args[i+1])
	}
	return names, values
}

// reuseHelperName reports whether name is one of the reuse-aware
// allocation helpers, which route through dispatchReuseHelper instead of
// dispatchHelper since they need the real *value.ReuseToken, not a Value
// encoding of it.
func reuseHelperName(name string) (string, bool) {
	switch name {
	case "ReuseConstructor", "ReuseRecord", "ReuseList", "ReuseTuple":
		return name, true
	default:
		return "", false
	}
}

// dispatchReuseHelper is dispatchHelper's counterpart for the four
// reuse-aware constructors, called with tok already resolved from the
// Exec-local token table and the remaining arguments (name/fields/items)
// already stripped of the TryReuse result register.
func dispatchReuseHelper(ctx *runtime.Context, name string, tok *value.ReuseToken, rest []*value.Value) *value.Value {
	switch name {
	case "ReuseConstructor":
		return ctx.ReuseConstructor(tok, rest[0].S, rest[1:])
	case "ReuseRecord":
		names, values := unpackFieldPairs(rest)
		fields := make([]value.RecordField, len(names))
		for i, n := range names {
			fields[i] = value.RecordField{Name: n, Value: values[i]}
		}
		return ctx.ReuseRecord(tok, fields)
	case "ReuseList":
		return ctx.ReuseList(tok, rest)
	case "ReuseTuple":
		return ctx.ReuseTuple(tok, rest)
	default:
		return value.NewError(value.TypeMismatch, "ssa: unknown reuse helper "+name)
	}
}
