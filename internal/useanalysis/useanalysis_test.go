package useanalysis

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/ir"
)

// def f x = x + x  -- first x is not last-use, second is.
func TestSimpleSequentialLastUse(t *testing.T) {
	ref1 := ir.NewLocalRef("x", 1)
	ref2 := ir.NewLocalRef("x", 2)
	def := &ir.Def{Name: "f", Params: []string{"x"}, Body: ir.NewBinOp("+", ref1, ref2)}

	res := Analyze(def)

	if res.LastUse[1] {
		t.Fatalf("ref 1 (x, read first going forward == read last going backward) should not be last-use")
	}
	if !res.LastUse[2] {
		t.Fatalf("ref 2 should be last-use")
	}
}

// if c then x else x -- both branches reference x once; neither should be
// treated as consumed on the other path per the spec's "names that appear
// in only one branch are not considered consumed on the other branch", and
// both are last uses of their own branch.
func TestIfBranchesAnalyzedIndependently(t *testing.T) {
	thenRef := ir.NewLocalRef("x", 10)
	elseRef := ir.NewLocalRef("x", 11)
	condRef := ir.NewLocalRef("c", 12)
	def := &ir.Def{Body: ir.NewIf(condRef, thenRef, elseRef)}

	res := Analyze(def)

	if !res.LastUse[10] || !res.LastUse[11] {
		t.Fatalf("both branch references to x should be last-use: %v", res.LastUse)
	}
}

func TestIdempotent(t *testing.T) {
	ref1 := ir.NewLocalRef("x", 1)
	ref2 := ir.NewLocalRef("x", 2)
	def := &ir.Def{Body: ir.NewBinOp("+", ref1, ref2)}

	a := Analyze(def)
	b := Analyze(def)

	if len(a.LastUse) != len(b.LastUse) {
		t.Fatalf("non-idempotent result sizes: %d vs %d", len(a.LastUse), len(b.LastUse))
	}
	for k, v := range a.LastUse {
		if b.LastUse[k] != v {
			t.Fatalf("non-idempotent at ref %d: %v vs %v", k, v, b.LastUse[k])
		}
	}
}

// match xs | Cons h t => h | Nil => 0  -- h is read, t is bound but unused.
func TestUnusedPatternBindingDetected(t *testing.T) {
	hRef := ir.NewLocalRef("h", 1)
	scrutRef := ir.NewLocalRef("xs", 2)
	def := &ir.Def{Body: ir.NewMatch(scrutRef, 2, []ir.MatchArm{
		{
			Pattern: ir.PConstructor{Name: "Cons", Args: []ir.Pattern{
				ir.PVar{Name: "h", RefID: 100},
				ir.PVar{Name: "t", RefID: 101},
			}},
			Body: hRef,
		},
		{
			Pattern: ir.PConstructor{Name: "Nil"},
			Body:    ir.NewLitInt(0),
		},
	})}

	res := Analyze(def)

	if res.Unused[100] {
		t.Fatalf("h is read in the arm body, should not be marked unused")
	}
	if !res.Unused[101] {
		t.Fatalf("t is never read in the arm body, should be marked unused")
	}
}
