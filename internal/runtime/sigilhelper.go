package runtime

import "github.com/funvibe/aivi-core/internal/value"

// EvalSigil is eval_sigil (§4.1): dispatches a sigil-literal's body and
// flags to its tag's registered handler.
func (c *Context) EvalSigil(tag, body, flags string) *value.Value {
	return c.Sigils.Eval(tag, body, flags)
}
