package runtime

import "github.com/funvibe/aivi-core/internal/value"

// AllocUnit, AllocString, AllocList, AllocTuple, AllocRecord, AllocConstructor
// and AllocDateTime are the §4.1 allocation helpers. Each runs in
// O(structure-visible-size) and never calls back into user code.

func (c *Context) AllocUnit() *value.Value { return value.NewUnit() }

func (c *Context) AllocString(bytes []byte) *value.Value { return value.NewText(string(bytes)) }

func (c *Context) AllocList(items []*value.Value) *value.Value { return value.NewList(items) }

func (c *Context) AllocTuple(items []*value.Value) *value.Value { return value.NewTuple(items) }

func (c *Context) AllocRecord(names []string, values []*value.Value) *value.Value {
	fields := make([]value.RecordField, len(names))
	for i, n := range names {
		fields[i] = value.RecordField{Name: n, Value: values[i]}
	}
	return value.NewRecord(fields)
}

func (c *Context) AllocConstructor(name string, args []*value.Value) *value.Value {
	return value.NewConstructor(name, args)
}

func (c *Context) AllocDateTime(iso []byte) *value.Value { return value.NewDateTime(string(iso)) }

func (c *Context) AllocBytes(b []byte) *value.Value { return value.NewBytes(b) }
