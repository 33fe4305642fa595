package runtime

import "github.com/funvibe/aivi-core/internal/value"

// CloneValue increments v's refcount and returns it. Used wherever a
// single heap Value is shared across multiple call sites (e.g. a
// resource-block body pre-lowered to one constant Value embedded in the
// constant pool) and each use must hold its own reference.
func (c *Context) CloneValue(v *value.Value) *value.Value { return value.Clone(v) }
