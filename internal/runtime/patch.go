package runtime

import "github.com/funvibe/aivi-core/internal/value"

// PatchRecord is patch_record (§4.1, §4.3.3): produces a Record with the
// named fields replaced, leaving every other field unchanged. The caller
// (the lowering engine) decides whether target is uniquely owned and
// should be mutated in place via PatchRecordInPlace instead.
func (c *Context) PatchRecord(target *value.Value, names []string, values []*value.Value) *value.Value {
	if target.Tag != value.Record {
		return value.NewError(value.TypeMismatch, "patch_record: target is not a Record")
	}
	out := make([]value.RecordField, len(target.Rec))
	copy(out, target.Rec)
	for i, n := range names {
		replaced := false
		for j := range out {
			if out[j].Name == n {
				out[j] = value.RecordField{Name: n, Value: values[i]}
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, value.RecordField{Name: n, Value: values[i]})
		}
	}
	return value.NewRecord(out)
}

// PatchRecordInPlace is emitted by the lowering engine when target is at its
// last use (§4.4). If target is uniquely owned its field slice is mutated
// directly, with no new Record allocation; otherwise it falls back to
// PatchRecord. Either way the result has the same fields PatchRecord gives.
func (c *Context) PatchRecordInPlace(target *value.Value, names []string, values []*value.Value) *value.Value {
	if target.Tag != value.Record {
		return value.NewError(value.TypeMismatch, "patch_record: target is not a Record")
	}
	if !target.IsUniquelyOwned() {
		return c.PatchRecord(target, names, values)
	}
	for i, n := range names {
		replaced := false
		for j := range target.Rec {
			if target.Rec[j].Name == n {
				value.Drop(target.Rec[j].Value)
				target.Rec[j].Value = values[i]
				replaced = true
				break
			}
		}
		if !replaced {
			target.Rec = append(target.Rec, value.RecordField{Name: n, Value: values[i]})
		}
	}
	return target
}
