package lambdareg

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/ir"
)

func TestHoistAssignsUniqueSymbols(t *testing.T) {
	r := New()
	a := ir.NewLambda([]string{"x"})
	b := ir.NewLambda([]string{"x"})

	ea := r.Hoist(a, "lambda", []string{"x"}, 2)
	eb := r.Hoist(b, "lambda", []string{"x"}, 2)

	if ea.Symbol == eb.Symbol {
		t.Fatalf("two distinct lambda sites got the same symbol: %s", ea.Symbol)
	}

	got, ok := r.Lookup(a)
	if !ok || got.Symbol != ea.Symbol {
		t.Fatalf("Lookup(a) = %+v, %v; want %+v, true", got, ok, ea)
	}
}

func TestLookupMiss(t *testing.T) {
	r := New()
	_, ok := r.Lookup(ir.NewLambda(nil))
	if ok {
		t.Fatalf("expected miss for un-hoisted node")
	}
}
