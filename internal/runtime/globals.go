package runtime

import "github.com/funvibe/aivi-core/internal/value"

// GetGlobal is get_global (§4.1): an UndefinedGlobal Error for a name with
// no entry (§7).
func (c *Context) GetGlobal(name string) *value.Value {
	c.globalsMu.RLock()
	defer c.globalsMu.RUnlock()
	if v, ok := c.globals[name]; ok {
		return value.Clone(v)
	}
	return value.NewError(value.UndefinedGlobal, "undefined global: "+name)
}

// SetGlobal is set_global (§4.1). The global table persists for the
// lifetime of the context and is process-wide/single-owner (§5): callers
// racing set_global against reads must supply their own discipline.
func (c *Context) SetGlobal(name string, v *value.Value) {
	c.globalsMu.Lock()
	defer c.globalsMu.Unlock()
	if old, ok := c.globals[name]; ok {
		value.Drop(old)
	}
	c.globals[name] = v
}

// HasGlobal reports whether name is currently bound, without cloning.
func (c *Context) HasGlobal(name string) bool {
	c.globalsMu.RLock()
	defer c.globalsMu.RUnlock()
	_, ok := c.globals[name]
	return ok
}
