// Package aotmanifest encodes the AOT linker's per-symbol registration
// manifest (§6.3): for each compiled function, its installed symbol,
// arity, and per-parameter/return scalar types, portable as a
// structpb.Struct so tooling that consumes an AOT object file's metadata
// doesn't need to depend on this module's Go types at all.
package aotmanifest

import (
	"github.com/funvibe/aivi-core/internal/runtime"
	"google.golang.org/protobuf/types/known/structpb"
)

// scalarTypeName mirrors the ir package's int type codes (0=Int, 1=Float,
// 2=Bool) without importing internal/ir, since a manifest entry only needs
// the name, not the type itself.
func scalarTypeName(code int) string {
	switch code {
	case 0:
		return "Int"
	case 1:
		return "Float"
	case 2:
		return "Bool"
	default:
		return "boxed"
	}
}

// Entry describes one registered symbol's static-constructor registration
// call (§6.3: a static constructor invokes register_jit_fn at program
// load for every AOT-compiled symbol).
type Entry struct {
	Symbol     string
	Arity      int
	ParamTypes []string // "boxed" or a scalar type name, one per parameter
	ReturnType string   // "" (unknown/dynamic), "boxed", or a scalar type name
}

// FromFuncEntry builds a manifest Entry from a runtime.FuncEntry, the shape
// FinalizeStage installs into the JIT-functions registry.
func FromFuncEntry(symbol string, fe *runtime.FuncEntry) Entry {
	params := make([]string, len(fe.ParamTypes))
	for i, code := range fe.ParamTypes {
		if code == nil {
			params[i] = "boxed"
			continue
		}
		params[i] = scalarTypeName(*code)
	}
	ret := "boxed"
	if fe.HasReturnType {
		ret = scalarTypeName(fe.ReturnTypeCode)
	}
	return Entry{Symbol: symbol, Arity: fe.Arity, ParamTypes: params, ReturnType: ret}
}

// Manifest is the ordered set of entries one compilation unit's AOT object
// registers at load time.
type Manifest struct {
	Entries []Entry
}

// ToStruct encodes m as a structpb.Struct: {"entries": [{"symbol":...,
// "arity":..., "paramTypes": [...], "returnType": ...}, ...]}. Returned as
// a *structpb.Struct rather than marshaled bytes so callers can compose it
// into a larger protobuf message (e.g. alongside a build-id field) before
// serializing.
func (m Manifest) ToStruct() (*structpb.Struct, error) {
	entries := make([]any, len(m.Entries))
	for i, e := range m.Entries {
		paramTypes := make([]any, len(e.ParamTypes))
		for j, p := range e.ParamTypes {
			paramTypes[j] = p
		}
		entries[i] = map[string]any{
			"symbol":     e.Symbol,
			"arity":      float64(e.Arity),
			"paramTypes": paramTypes,
			"returnType": e.ReturnType,
		}
	}
	return structpb.NewStruct(map[string]any{"entries": entries})
}

// FromStruct decodes a structpb.Struct built by ToStruct back into a
// Manifest, for tooling round-tripping an AOT object's metadata.
func FromStruct(s *structpb.Struct) (Manifest, error) {
	var m Manifest
	list := s.GetFields()["entries"].GetListValue().GetValues()
	m.Entries = make([]Entry, 0, len(list))
	for _, v := range list {
		fields := v.GetStructValue().GetFields()
		pts := fields["paramTypes"].GetListValue().GetValues()
		paramTypes := make([]string, len(pts))
		for i, pt := range pts {
			paramTypes[i] = pt.GetStringValue()
		}
		m.Entries = append(m.Entries, Entry{
			Symbol:     fields["symbol"].GetStringValue(),
			Arity:      int(fields["arity"].GetNumberValue()),
			ParamTypes: paramTypes,
			ReturnType: fields["returnType"].GetStringValue(),
		})
	}
	return m, nil
}
