// Package ir defines the typed IR the Lowering Engine consumes (§3.3, §6.1):
// the tree produced by the upstream elaborator, carrying optional
// scalar-type annotations and unique per-reference IDs.
//
// Node shapes and the type-switch-driven walk they invite are grounded in
// the teacher's internal/ast (node kinds) and internal/vm/compiler_expressions.go
// (type-switch lowering over those nodes).
package ir

// ScalarType is the annotation domain §3.3 restricts scalar types to.
type ScalarType uint8

const (
	TInt ScalarType = iota
	TFloat
	TBool
)

func (t ScalarType) String() string {
	switch t {
	case TInt:
		return "Int"
	case TFloat:
		return "Float"
	case TBool:
		return "Bool"
	default:
		return "?"
	}
}

// SameScalarType implements the equality rule used by specialization
// routing (§4.3.4 step 2): both Some(t) must be equal, both None must be
// equal (nil == nil counts as a match).
func SameScalarType(a, b *ScalarType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FuncType decomposes a function-type annotation into parameter types and a
// return type under a fixed arity (§3.3). A nil entry in Params, or a nil
// Return, means that parameter/result is boxed.
type FuncType struct {
	Params []*ScalarType
	Return *ScalarType
}

// Expr is any typed IR expression node.
type Expr interface {
	ExprNode()
	// Type is the node's scalar-type annotation, or nil if boxed.
	Type() *ScalarType
}

type base struct {
	scalarType *ScalarType
}

func (b *base) ExprNode() {}
func (b *base) Type() *ScalarType { return b.scalarType }

// withType attaches a scalar-type annotation to a newly built literal node.
func withType(t ScalarType) base { tt := t; return base{scalarType: &tt} }

// --- literals ---

type LitInt struct {
	base
	Value int64
}

func NewLitInt(v int64) *LitInt { return &LitInt{base: withType(TInt), Value: v} }

type LitFloat struct {
	base
	Value float64
}

func NewLitFloat(v float64) *LitFloat { return &LitFloat{base: withType(TFloat), Value: v} }

type LitBool struct {
	base
	Value bool
}

func NewLitBool(v bool) *LitBool { return &LitBool{base: withType(TBool), Value: v} }

// LitBigNumber represents a BigInt/Rational/Decimal literal: always boxed
// (§4.3.3 literal-number rule: parse int, then float, then fall back to a
// boxed string literal for arbitrary-precision constants).
type LitBigNumber struct {
	base
	Text string
	Kind string // "BigInt" | "Rational" | "Decimal"
}

func NewLitBigNumber(text, kind string) *LitBigNumber {
	return &LitBigNumber{Text: text, Kind: kind}
}

type LitString struct {
	base
	Value string
}

func NewLitString(v string) *LitString { return &LitString{Value: v} }

type LitDateTime struct {
	base
	ISO string
}

func NewLitDateTime(iso string) *LitDateTime { return &LitDateTime{ISO: iso} }

// LitSigil is a domain-specific literal tag resolved at runtime via
// eval_sigil (§4.1, §A.3: tag + body + flags).
type LitSigil struct {
	base
	Tag, Body, Flags string
}

func NewLitSigil(tag, body, flags string) *LitSigil {
	return &LitSigil{Tag: tag, Body: body, Flags: flags}
}

// InterpPart is one segment of a text-interpolation literal: either a
// literal text run (Expr nil) or an embedded expression (Text empty).
type InterpPart struct {
	Text string
	Expr Expr
}

type Interp struct {
	base
	Parts []InterpPart
}

func NewInterp(parts []InterpPart) *Interp { return &Interp{Parts: parts} }

// --- references ---

// LocalRef is a reference to a local binding. RefID is the unique
// per-reference-node identifier use-analysis keys its last-use map by.
type LocalRef struct {
	base
	Name  string
	RefID int
}

func NewLocalRef(name string, refID int) *LocalRef { return &LocalRef{Name: name, RefID: refID} }

type GlobalRef struct {
	base
	Name string
}

func NewGlobalRef(name string) *GlobalRef { return &GlobalRef{Name: name} }

// CtorRef is a zero-arg constructor reference (§4.3.3).
type CtorRef struct {
	base
	Name string
}

func NewCtorRef(name string) *CtorRef { return &CtorRef{Name: name} }

// Lambda is an inner-lambda expression site (§3.4). The compiled-lambda
// registry (package lambdareg) is keyed by this node's pointer identity and
// supplies the hoisted symbol plus the canonical free-variable order; the
// FreeVars recorded here is advisory (matches the registry by construction
// but is not itself consulted by the lowering engine).
type Lambda struct {
	base
	FreeVars []string
}

func NewLambda(freeVars []string) *Lambda { return &Lambda{FreeVars: freeVars} }

// --- application & call ---

// Apply is curried application: one argument per node.
type Apply struct {
	base
	Fn  Expr
	Arg Expr
}

func NewApply(fn, arg Expr) *Apply { return &Apply{Fn: fn, Arg: arg} }

// Call is an n-ary call, used at direct-call sites (§4.3.4).
type Call struct {
	base
	Fn   Expr
	Args []Expr
}

func NewCall(fn Expr, args []Expr) *Call { return &Call{Fn: fn, Args: args} }

// --- aggregates ---

type ListItem struct {
	Value  Expr
	Spread bool
}

type ListExpr struct {
	base
	Items []ListItem
}

func NewListExpr(items []ListItem) *ListExpr { return &ListExpr{Items: items} }

type TupleExpr struct {
	base
	Items []Expr
}

func NewTupleExpr(items []Expr) *TupleExpr { return &TupleExpr{Items: items} }

type RecordFieldInit struct {
	Name  string
	Value Expr
}

type RecordExpr struct {
	base
	Fields []RecordFieldInit
}

func NewRecordExpr(fields []RecordFieldInit) *RecordExpr { return &RecordExpr{Fields: fields} }

// Patch is record patching (§4.3.3): Target & { f1: v1, ... }. When Target
// is itself a LocalRef, the lowering engine looks its RefID up in the
// use-analysis map to decide between patch_record and patch_record_inplace.
type Patch struct {
	base
	Target Expr
	Fields []RecordFieldInit
}

func NewPatch(target Expr, fields []RecordFieldInit) *Patch {
	return &Patch{Target: target, Fields: fields}
}

type FieldAccess struct {
	base
	Target Expr
	Name   string
}

func NewFieldAccess(target Expr, name string) *FieldAccess {
	return &FieldAccess{Target: target, Name: name}
}

type Index struct {
	base
	Target Expr
	Idx    Expr
}

func NewIndex(target, idx Expr) *Index { return &Index{Target: target, Idx: idx} }

// --- control flow ---

type If struct {
	base
	Cond, Then, Else Expr
}

func NewIf(cond, then, els Expr) *If { return &If{Cond: cond, Then: then, Else: els} }

type BinOp struct {
	base
	Op       string
	Lhs, Rhs Expr
}

func NewBinOp(op string, lhs, rhs Expr) *BinOp { return &BinOp{Op: op, Lhs: lhs, Rhs: rhs} }

// MatchArm is one arm of a Match.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if no guard
	Body    Expr
}

// Match is an n-arm pattern match with optional guards (§4.3.5).
// ScrutineeRefID is the RefID of Scrutinee when it is itself a LocalRef
// (else -1), which the lowering engine checks against the use-analysis map
// to decide whether a reuse token may be extracted after binding (§4.4).
type Match struct {
	base
	Scrutinee      Expr
	ScrutineeRefID int
	Arms           []MatchArm
}

func NewMatch(scrutinee Expr, scrutineeRefID int, arms []MatchArm) *Match {
	return &Match{Scrutinee: scrutinee, ScrutineeRefID: scrutineeRefID, Arms: arms}
}
