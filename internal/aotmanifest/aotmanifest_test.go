package aotmanifest

import (
	"testing"

	"github.com/funvibe/aivi-core/internal/runtime"
)

func intCode(c int) *int { return &c }

func TestManifestRoundTrip(t *testing.T) {
	m := Manifest{Entries: []Entry{
		FromFuncEntry("add", &runtime.FuncEntry{
			Arity:          2,
			ParamTypes:     []*int{intCode(0), intCode(0)},
			HasReturnType:  true,
			ReturnTypeCode: 0,
		}),
		FromFuncEntry("apply_boxed", &runtime.FuncEntry{
			Arity:      1,
			ParamTypes: []*int{nil},
		}),
	}}

	s, err := m.ToStruct()
	if err != nil {
		t.Fatalf("ToStruct: %v", err)
	}

	got, err := FromStruct(s)
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(got.Entries))
	}
	if got.Entries[0].Symbol != "add" || got.Entries[0].Arity != 2 {
		t.Fatalf("entry 0 = %+v", got.Entries[0])
	}
	if got.Entries[0].ParamTypes[0] != "Int" || got.Entries[0].ReturnType != "Int" {
		t.Fatalf("entry 0 types = %+v", got.Entries[0])
	}
	if got.Entries[1].ParamTypes[0] != "boxed" || got.Entries[1].ReturnType != "boxed" {
		t.Fatalf("entry 1 types = %+v", got.Entries[1])
	}
}
