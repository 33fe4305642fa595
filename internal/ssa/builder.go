package ssa

// Builder accumulates a Function's constants and blocks as the lowering
// engine walks an IR tree. One Builder per compiled function.
type Builder struct {
	fn       *Function
	cur      *BasicBlock
	nextReg  Reg
}

// NewBuilder starts a Function named name with numParams parameter
// registers already reserved (registers 0..numParams-1).
func NewBuilder(name string, numParams int) *Builder {
	fn := &Function{Name: name, NumParams: numParams}
	b := &Builder{fn: fn, nextReg: Reg(numParams)}
	b.cur = b.NewBlock()
	return b
}

// NewBlock appends a fresh, empty BasicBlock and returns it without
// switching the builder's current-block cursor.
func (b *Builder) NewBlock() *BasicBlock {
	blk := &BasicBlock{ID: BlockID(len(b.fn.Blocks))}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

// SetBlock moves the emission cursor to blk; subsequent Emit* calls
// append to it.
func (b *Builder) SetBlock(blk *BasicBlock) { b.cur = blk }

// CurrentBlock returns the block Emit* calls currently append to.
func (b *Builder) CurrentBlock() *BasicBlock { return b.cur }

// AllocReg reserves and returns a fresh, unassigned register.
func (b *Builder) AllocReg() Reg {
	r := b.nextReg
	b.nextReg++
	return r
}

// Param returns the register holding the i'th parameter.
func (b *Builder) Param(i int) Reg { return Reg(i) }

func (b *Builder) emit(ins Instr) { b.cur.Instrs = append(b.cur.Instrs, ins) }

// EmitConst loads constant c into a fresh register.
func (b *Builder) EmitConst(c any) Reg {
	idx := len(b.fn.Constants)
	b.fn.Constants = append(b.fn.Constants, c)
	dst := b.AllocReg()
	b.emit(Instr{Op: OpConst, Dst: dst, Const: idx})
	return dst
}

// EmitMove copies src into a fresh register.
func (b *Builder) EmitMove(src Reg) Reg {
	dst := b.AllocReg()
	b.emit(Instr{Op: OpMove, Dst: dst, Args: []Reg{src}})
	return dst
}

// EmitHelperCall invokes the named runtime-helper method with args,
// storing its single return value into a fresh register.
func (b *Builder) EmitHelperCall(helper string, args ...Reg) Reg {
	dst := b.AllocReg()
	b.emit(Instr{Op: OpHelperCall, Dst: dst, Helper: helper, Args: args})
	return dst
}

// EmitBinOp dispatches binary_op for the named operator over lhs/rhs.
func (b *Builder) EmitBinOp(op string, lhs, rhs Reg) Reg {
	dst := b.AllocReg()
	b.emit(Instr{Op: OpBinOp, Dst: dst, HelperOp: op, Args: []Reg{lhs, rhs}})
	return dst
}

// EmitMakeClosure builds a Closure over the hoisted function symbol
// funcName, partially applying the captured free-variable registers.
func (b *Builder) EmitMakeClosure(funcName string, arity int, captured ...Reg) Reg {
	dst := b.AllocReg()
	b.emit(Instr{Op: OpMakeClosure, Dst: dst, Helper: funcName, Const: arity, Args: captured})
	return dst
}

// EmitPhi introduces a phi node whose value is resolved from sources at
// block-entry time, keyed by predecessor block id.
func (b *Builder) EmitPhi(sources map[BlockID]Reg) Reg {
	dst := b.AllocReg()
	b.emit(Instr{Op: OpPhi, Dst: dst, PhiSources: sources})
	return dst
}

// EmitBranch terminates the current block with a conditional branch.
func (b *Builder) EmitBranch(cond Reg, thenBlk, elseBlk *BasicBlock) {
	b.emit(Instr{Op: OpBranch, Args: []Reg{cond}, Then: thenBlk.ID, Else: elseBlk.ID})
}

// EmitJump terminates the current block with an unconditional branch.
func (b *Builder) EmitJump(target *BasicBlock) {
	b.emit(Instr{Op: OpJump, Target: target.ID})
}

// EmitReturn terminates the current block by returning src.
func (b *Builder) EmitReturn(src Reg) {
	b.emit(Instr{Op: OpReturn, Args: []Reg{src}})
}

// Finish returns the completed Function.
func (b *Builder) Finish() *Function { return b.fn }
