package runtime

import "github.com/funvibe/aivi-core/internal/value"

// ValueEquals is value_equals (§4.1): structural equality, Int/Float
// comparing by numeric value after promotion.
func (c *Context) ValueEquals(a, b *value.Value) bool { return value.Equals(a, b) }
