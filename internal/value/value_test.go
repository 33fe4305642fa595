package value

import "testing"

func TestAllocationRefcountIsOne(t *testing.T) {
	vals := []*Value{
		NewUnit(), NewBool(true), NewInt(7), NewFloat(1.5), NewText("hi"),
		NewList([]*Value{NewInt(1)}), NewTuple([]*Value{NewInt(1)}),
		NewRecord([]RecordField{{Name: "a", Value: NewInt(1)}}),
		NewConstructor("Some", []*Value{NewInt(1)}),
	}
	for _, v := range vals {
		if v.Refcount() != 1 {
			t.Fatalf("tag %s: refcount = %d, want 1", v.Tag, v.Refcount())
		}
	}
}

func TestCloneDropRoundTrip(t *testing.T) {
	v := NewInt(42)
	Clone(v)
	if v.Refcount() != 2 {
		t.Fatalf("refcount after clone = %d, want 2", v.Refcount())
	}
	Drop(v)
	if v.Refcount() != 1 {
		t.Fatalf("refcount after one drop = %d, want 1", v.Refcount())
	}
}

func TestTryReuseRequiresUniqueOwnership(t *testing.T) {
	v := NewConstructor("Cons", []*Value{NewInt(1), NewInt(2)})
	Clone(v)
	if tok := TryReuse(v); tok != nil {
		t.Fatalf("TryReuse on shared value returned non-nil token")
	}
	if v.Tag != Constructor || v.Name != "Cons" {
		t.Fatalf("TryReuse mutated a shared value: %+v", v)
	}
	Drop(v)

	tok := TryReuse(v)
	if tok == nil {
		t.Fatalf("TryReuse on uniquely-owned value returned nil")
	}
	reused := ReuseConstructor(tok, "Cons", []*Value{NewInt(9), v.Args[1]})
	if reused != v {
		t.Fatalf("ReuseConstructor did not repurpose the original slot")
	}
	if reused.Args[0].I != 9 {
		t.Fatalf("reused constructor has wrong payload: %+v", reused)
	}
}

func TestEqualsNumericPromotion(t *testing.T) {
	if !Equals(NewInt(3), NewFloat(3.0)) {
		t.Fatalf("Int(3) should equal Float(3.0)")
	}
	if Equals(NewBigInt("3"), NewFloat(3.0)) {
		t.Fatalf("BigInt must not promote against Float")
	}
}

func TestEqualsRecordByFieldName(t *testing.T) {
	a := NewRecord([]RecordField{{Name: "count", Value: NewInt(1)}})
	b := NewRecord([]RecordField{{Name: "count", Value: NewInt(1)}})
	if !Equals(a, b) {
		t.Fatalf("structurally identical records should be equal")
	}
}
