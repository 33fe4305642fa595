package runtime

import "github.com/funvibe/aivi-core/internal/value"

// GenVecNew, GenVecPush and GenVecIntoGenerator back the lowering of a
// generate-block (§4.3.3 BlockGenerate): yields accumulate into a plain
// growable Go slice wrapped in a Resource Value, then get frozen into the
// List the block ultimately produces. There is no separate lazy-sequence
// representation at the core layer (§3.2: generate-blocks desugar to
// eager accumulation, matching the teacher's own eval-eagerly model).

// GenVecNew allocates a fresh accumulator.
func (c *Context) GenVecNew() *value.Value {
	return value.NewResource(nil)
}

// GenVecPush appends item to the accumulator's backing slice, returning the
// (possibly reallocated) accumulator.
func (c *Context) GenVecPush(vec, item *value.Value) *value.Value {
	if vec.Tag != value.Resource {
		return value.NewError(value.TypeMismatch, "gen_vec_push: value is not an accumulator")
	}
	vec.Res = append(vec.Res, item)
	return vec
}

// GenVecIntoGenerator freezes the accumulator into the List value a
// generate-block evaluates to.
func (c *Context) GenVecIntoGenerator(vec *value.Value) *value.Value {
	if vec.Tag != value.Resource {
		return value.NewError(value.TypeMismatch, "gen_vec_into_generator: value is not an accumulator")
	}
	items := make([]*value.Value, len(vec.Res))
	copy(items, vec.Res)
	return value.NewList(items)
}

// GeneratorToList is generator_to_list (§4.1): identity on a List value,
// since generators are already eagerly materialized Lists at this layer.
func (c *Context) GeneratorToList(v *value.Value) *value.Value {
	if v.Tag != value.List {
		return value.NewError(value.TypeMismatch, "generator_to_list: value is not a List")
	}
	return v
}
