package ir

import "github.com/funvibe/aivi-core/internal/value"

// BlockKind distinguishes the four block shapes §3.3/§4.3.3 name.
type BlockKind uint8

const (
	BlockPlain BlockKind = iota
	BlockEffectDo
	BlockGenerate
	BlockResource
)

// DoItem is one step of an effect-do block: `pattern <- rhs` when Pattern is
// non-nil, or a bare effect expression (Pattern nil, result discarded) when
// it is not.
type DoItem struct {
	Pattern Pattern
	Rhs     Expr
}

// GenKind discriminates the three statement shapes a generate-block item
// may take (§4.3.3).
type GenKind uint8

const (
	GenYield GenKind = iota
	GenFilter
	GenBind
)

// GenItem is one statement of a generate-block.
//   - GenYield: Rhs is the value pushed onto the generator vector.
//   - GenFilter: Rhs is a Bool-typed condition; false skips remaining items.
//   - GenBind: Pattern <- Rhs, where Rhs evaluates to a List that is iterated.
type GenItem struct {
	Kind    GenKind
	Pattern Pattern
	Rhs     Expr
}

// ResourceItem is one entry of a resource block body (§A.3): `use` binds a
// resource value, `defer` schedules inert cleanup metadata. Both are part of
// the pre-lowered Value's structure, not separately interpreted by the core.
type ResourceItem struct {
	Kind  string // "use" | "defer"
	Value Expr
}

// Block is a plain / effect-do / generate / resource block (§3.3, §4.3.3).
// Only the fields matching Kind are populated.
type Block struct {
	base
	Kind BlockKind

	Plain []Expr // BlockPlain: sequence, last expr is the result

	Do []DoItem // BlockEffectDo

	Gen []GenItem // BlockGenerate

	// Resource: the body has already been lowered to a Value at compile
	// time by the upstream elaborator (§4.3.3); the core only embeds it as
	// a constant and clones it at each call site.
	Resource *value.Value
}

func NewPlainBlock(items []Expr) *Block { return &Block{Kind: BlockPlain, Plain: items} }

func NewEffectDoBlock(items []DoItem) *Block { return &Block{Kind: BlockEffectDo, Do: items} }

func NewGenerateBlock(items []GenItem) *Block { return &Block{Kind: BlockGenerate, Gen: items} }

func NewResourceBlock(v *value.Value) *Block { return &Block{Kind: BlockResource, Resource: v} }

// Def is a top-level binding (§6.1): name, parameters, body, and an optional
// function-type annotation decomposed into per-parameter and return scalar
// types.
type Def struct {
	Name        string
	Params      []string
	ParamRefIDs []int
	Type        *FuncType // nil if the def carries no function-type annotation
	Body        Expr
}

// ParamType returns the scalar type of parameter i, or nil if boxed or if
// Type itself is nil.
func (d *Def) ParamType(i int) *ScalarType {
	if d.Type == nil || i >= len(d.Type.Params) {
		return nil
	}
	return d.Type.Params[i]
}

// ReturnType returns the def's declared return scalar type, or nil if boxed.
func (d *Def) ReturnType() *ScalarType {
	if d.Type == nil {
		return nil
	}
	return d.Type.Return
}
