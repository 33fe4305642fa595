package ir

// Pattern is any node of the pattern grammar the match compiler supports
// (§4.3.5): wildcard, variable, literal, constructor, tuple, list, record
// (dotted field path), and @-binding.
type Pattern interface {
	PatternNode()
}

type PWildcard struct{}

func (PWildcard) PatternNode() {}

// PVar binds the whole scrutinee to Name. RefID identifies this binding site
// (a pattern variable is itself a binding, not a reference): the lowering
// engine keys the bound register by it, and use-analysis records in
// Result.Unused whether the binding is ever read.
type PVar struct {
	Name  string
	RefID int
}

func (PVar) PatternNode() {}

// PLiteral tests structural equality against a literal expression (always
// one of the Lit* nodes).
type PLiteral struct {
	Value Expr
}

func (PLiteral) PatternNode() {}

type PConstructor struct {
	Name string
	Args []Pattern
}

func (PConstructor) PatternNode() {}

type PTuple struct {
	Items []Pattern
}

func (PTuple) PatternNode() {}

// PList matches a list. Rest is nil for an exact-length pattern; non-nil
// (even PWildcard) means "at least len(Items) items, bind/ignore the tail".
type PList struct {
	Items []Pattern
	Rest  Pattern
}

func (PList) PatternNode() {}

// PRecordField descends through a dotted field path (e.g. a.b.c) before
// matching Sub against the final field's value.
type PRecordField struct {
	Path []string
	Sub  Pattern
}

type PRecord struct {
	Fields []PRecordField
}

func (PRecord) PatternNode() {}

// PAt is name @ inner — binds Name to the whole value while also testing
// Inner against it.
type PAt struct {
	Name  string
	RefID int
	Inner Pattern
}

func (PAt) PatternNode() {}
