package sigil

import "testing"

func TestEvalYAMLRecord(t *testing.T) {
	r := NewRegistry()
	v := r.Eval("yaml", "name: aivi\ncount: 3\n", "")
	if v.Tag.String() != "Record" {
		t.Fatalf("expected Record, got %s", v.Tag)
	}
	if len(v.Rec) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(v.Rec))
	}
}

func TestEvalUnknownTag(t *testing.T) {
	r := NewRegistry()
	v := r.Eval("nope", "x", "")
	if v.Tag.String() != "Error" {
		t.Fatalf("expected Error for unknown tag, got %s", v.Tag)
	}
}
