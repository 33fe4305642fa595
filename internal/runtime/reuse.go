package runtime

import "github.com/funvibe/aivi-core/internal/value"

// TryReuse, ReuseConstructor, ReuseRecord, ReuseList and ReuseTuple are the
// Runtime Helper Library's Perceus-style reuse surface (§4.4). The actual
// slot bookkeeping lives in package value, which alone holds the fields a
// reuse token needs to touch; these are thin passthroughs so lowered code
// only ever imports the runtime package for its helper calls.

func (c *Context) TryReuse(v *value.Value) *value.ReuseToken { return value.TryReuse(v) }

func (c *Context) ReuseConstructor(tok *value.ReuseToken, name string, args []*value.Value) *value.Value {
	return value.ReuseConstructor(tok, name, args)
}

func (c *Context) ReuseRecord(tok *value.ReuseToken, fields []value.RecordField) *value.Value {
	return value.ReuseRecord(tok, fields)
}

func (c *Context) ReuseList(tok *value.ReuseToken, items []*value.Value) *value.Value {
	return value.ReuseList(tok, items)
}

func (c *Context) ReuseTuple(tok *value.ReuseToken, items []*value.Value) *value.Value {
	return value.ReuseTuple(tok, items)
}
