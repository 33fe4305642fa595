package lowering

import "github.com/funvibe/aivi-core/internal/value"

func unitValue() *value.Value { return value.NewUnit() }

func textValue(s string) *value.Value { return value.NewText(s) }
