// Package useanalysis implements the Use-Analysis Pass (§4.2): a backward
// traversal over one function body's typed IR that labels each
// variable-reference node as last-use or not, per binding scope, with
// branch arms joined by set union.
package useanalysis

import "github.com/funvibe/aivi-core/internal/ir"

// Result is the pass's output: a reference-ID -> last-use map, plus a
// pattern-binding-ID -> unused map marking bindings that are never read.
// The lowering engine does not consult Unused and emits no drop_value for
// such bindings.
type Result struct {
	LastUse map[int]bool
	Unused  map[int]bool
}

// Analyze runs the pass over def's body. Re-running it on the same IR
// yields the same map (§8 idempotence) because the traversal is a pure
// function of the tree plus an empty starting scope.
func Analyze(def *ir.Def) *Result {
	res := &Result{LastUse: map[int]bool{}, Unused: map[int]bool{}}
	seen := map[string]bool{}
	walkExpr(def.Body, seen, res)
	return res
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func unionSets(a, b map[string]bool) map[string]bool {
	out := cloneSet(a)
	for k := range b {
		out[k] = true
	}
	return out
}

func replace(dst, src map[string]bool) {
	for k := range dst {
		delete(dst, k)
	}
	for k, v := range src {
		dst[k] = v
	}
}

func recordRef(name string, refID int, seen map[string]bool, res *Result) {
	res.LastUse[refID] = !seen[name]
	seen[name] = true
}

// walkExpr processes e against seen in backward (last-to-first) evaluation
// order, mutating seen to reflect "names read on the way from the end of
// e's enclosing sequence back to its start".
func walkExpr(e ir.Expr, seen map[string]bool, res *Result) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ir.LitInt, *ir.LitFloat, *ir.LitBool, *ir.LitBigNumber, *ir.LitString,
		*ir.LitDateTime, *ir.LitSigil, *ir.GlobalRef, *ir.CtorRef:
		// No variable references.

	case *ir.Lambda:
		// The lambda site reads each captured local, so none of them can be
		// at its last use earlier on.
		for _, name := range n.FreeVars {
			seen[name] = true
		}

	case *ir.Interp:
		for i := len(n.Parts) - 1; i >= 0; i-- {
			walkExpr(n.Parts[i].Expr, seen, res)
		}

	case *ir.LocalRef:
		recordRef(n.Name, n.RefID, seen, res)

	case *ir.Apply:
		walkExpr(n.Arg, seen, res)
		walkExpr(n.Fn, seen, res)

	case *ir.Call:
		for i := len(n.Args) - 1; i >= 0; i-- {
			walkExpr(n.Args[i], seen, res)
		}
		walkExpr(n.Fn, seen, res)

	case *ir.ListExpr:
		for i := len(n.Items) - 1; i >= 0; i-- {
			walkExpr(n.Items[i].Value, seen, res)
		}

	case *ir.TupleExpr:
		for i := len(n.Items) - 1; i >= 0; i-- {
			walkExpr(n.Items[i], seen, res)
		}

	case *ir.RecordExpr:
		for i := len(n.Fields) - 1; i >= 0; i-- {
			walkExpr(n.Fields[i].Value, seen, res)
		}

	case *ir.Patch:
		for i := len(n.Fields) - 1; i >= 0; i-- {
			walkExpr(n.Fields[i].Value, seen, res)
		}
		walkExpr(n.Target, seen, res)

	case *ir.FieldAccess:
		walkExpr(n.Target, seen, res)

	case *ir.Index:
		walkExpr(n.Idx, seen, res)
		walkExpr(n.Target, seen, res)

	case *ir.If:
		thenSeen := cloneSet(seen)
		elseSeen := cloneSet(seen)
		walkExpr(n.Then, thenSeen, res)
		walkExpr(n.Else, elseSeen, res)
		joined := unionSets(thenSeen, elseSeen)
		walkExpr(n.Cond, joined, res)
		replace(seen, joined)

	case *ir.BinOp:
		walkExpr(n.Rhs, seen, res)
		walkExpr(n.Lhs, seen, res)

	case *ir.Match:
		var joined map[string]bool
		for i := len(n.Arms) - 1; i >= 0; i-- {
			arm := n.Arms[i]
			armSeen := cloneSet(seen)
			walkExpr(arm.Body, armSeen, res)
			if arm.Guard != nil {
				walkExpr(arm.Guard, armSeen, res)
			}
			walkPattern(arm.Pattern, armSeen, res)
			if joined == nil {
				joined = armSeen
			} else {
				joined = unionSets(joined, armSeen)
			}
		}
		if joined == nil {
			joined = cloneSet(seen)
		}
		walkExpr(n.Scrutinee, joined, res)
		replace(seen, joined)

	case *ir.Block:
		walkBlock(n, seen, res)
	}
}

// walkPattern removes a pattern's bound names from seen (they are not in
// scope above the binding point) and records whether each binding was ever
// read within the scope it walked through.
func walkPattern(p ir.Pattern, seen map[string]bool, res *Result) {
	if p == nil {
		return
	}
	switch pt := p.(type) {
	case ir.PWildcard:
	case ir.PVar:
		if !seen[pt.Name] {
			res.Unused[pt.RefID] = true
		}
		delete(seen, pt.Name)
	case ir.PLiteral:
		walkExpr(pt.Value, seen, res)
	case ir.PConstructor:
		for i := len(pt.Args) - 1; i >= 0; i-- {
			walkPattern(pt.Args[i], seen, res)
		}
	case ir.PTuple:
		for i := len(pt.Items) - 1; i >= 0; i-- {
			walkPattern(pt.Items[i], seen, res)
		}
	case ir.PList:
		if pt.Rest != nil {
			walkPattern(pt.Rest, seen, res)
		}
		for i := len(pt.Items) - 1; i >= 0; i-- {
			walkPattern(pt.Items[i], seen, res)
		}
	case ir.PRecord:
		for i := len(pt.Fields) - 1; i >= 0; i-- {
			walkPattern(pt.Fields[i].Sub, seen, res)
		}
	case ir.PAt:
		walkPattern(pt.Inner, seen, res)
		if !seen[pt.Name] {
			res.Unused[pt.RefID] = true
		}
		delete(seen, pt.Name)
	}
}

func walkBlock(n *ir.Block, seen map[string]bool, res *Result) {
	switch n.Kind {
	case ir.BlockPlain:
		for i := len(n.Plain) - 1; i >= 0; i-- {
			walkExpr(n.Plain[i], seen, res)
		}
	case ir.BlockEffectDo:
		for i := len(n.Do) - 1; i >= 0; i-- {
			item := n.Do[i]
			walkExpr(item.Rhs, seen, res)
			if item.Pattern != nil {
				walkPattern(item.Pattern, seen, res)
			}
		}
	case ir.BlockGenerate:
		for i := len(n.Gen) - 1; i >= 0; i-- {
			item := n.Gen[i]
			walkExpr(item.Rhs, seen, res)
			if item.Kind == ir.GenBind && item.Pattern != nil {
				walkPattern(item.Pattern, seen, res)
			}
		}
	case ir.BlockResource:
		// Pre-lowered to a Value already; no IR references to analyze.
	}
}
